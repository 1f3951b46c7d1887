package constants

// 单品状态常量
const (
	ItemStatusPending  = "pending"
	ItemStatusPlaced   = "placed"
	ItemStatusShowroom = "showroom"
	ItemStatusWaitlist = "waitlist"
	ItemStatusDropped  = "dropped"
)

// 单品状态集合（含流转顺序）
var ItemStatuses = []string{
	ItemStatusPending,
	ItemStatusPlaced,
	ItemStatusShowroom,
	ItemStatusWaitlist,
	ItemStatusDropped,
}

// 快照导入状态常量
const (
	UploadStatusProcessing = "processing"
	UploadStatusCompleted  = "completed"
	UploadStatusFailed     = "failed"
)

// 导入进度阶段常量
const (
	IngestStageReceiving = "receiving"
	IngestStageParsing   = "parsing"
	IngestStageImages    = "extracting_images"
	IngestStageMerging   = "merging"
	IngestStageSummaries = "summaries"
	IngestStageCompleted = "completed"
	IngestStageFailed    = "failed"
)

// 库存操作类型常量
const (
	ActionTypeIn      = "in"
	ActionTypeOut     = "out"
	ActionTypeMove    = "move"
	ActionTypeAdjust  = "adjust"
	ActionTypeDispose = "dispose"
)

// ActionTypes 合法操作类型集合
var ActionTypes = []string{
	ActionTypeIn,
	ActionTypeOut,
	ActionTypeMove,
	ActionTypeAdjust,
	ActionTypeDispose,
}

// 款式基码常量
const (
	// StyleCodeWidth 款式基码补零后的固定宽度
	StyleCodeWidth = 6
)

// 宽版标识常量
const (
	WidthTagRegular = "w"
	WidthTagWide    = "ww"
)

// 队列常量
const (
	QueueDefault        = "default"
	TaskArtifactCleanup = "snapshot:artifact_cleanup"
	TaskSummaryRecount  = "catalog:summary_recount"
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "sb"
)

// 导出表格常量
const (
	ExportSheetDroppedItems = "Dropped Items"
)
