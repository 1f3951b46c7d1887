package catalog

import (
	"path/filepath"

	handlershared "github.com/stockbook/internal/http/handlers/shared"
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListSnapshots 快照导入记录列表
func (h *Handler) ListSnapshots(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	uploads, total, err := h.CatalogService.ListSnapshots(c.Request.Context(), repository.FileUploadListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   c.Query("status"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "snapshot list failed", err)
		return
	}
	response.SuccessWithPage(c, uploads, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ListSnapshotItems 指定快照贡献的全部单品
func (h *Handler) ListSnapshotItems(c *gin.Context) {
	filename := filepath.Base(c.Param("filename"))
	items, err := h.CatalogService.ListSnapshotItems(c.Request.Context(), filename)
	if err != nil {
		respondServiceError(c, err, "snapshot items failed")
		return
	}
	response.Success(c, items)
}
