package repository

// ItemListFilter 查询单品列表的过滤条件
type ItemListFilter struct {
	Page       int
	PageSize   int
	Style      string
	Color      string
	Status     string
	Search     string
	SourceFile string
	RowID      *uint
	WithRow    bool
	OrderBy    string
}

// StyleSummaryListFilter 查询款式汇总列表的过滤条件
type StyleSummaryListFilter struct {
	Page       int
	PageSize   int
	Search     string
	SourceFile string
}

// InventoryActionListFilter 查询库存操作流水的过滤条件
type InventoryActionListFilter struct {
	Page       int
	PageSize   int
	Style      string
	Color      string
	Action     string
	SourceFile string
}

// FileUploadListFilter 查询快照导入记录的过滤条件
type FileUploadListFilter struct {
	Page     int
	PageSize int
	Status   string
}
