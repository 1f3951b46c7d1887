package catalog

import (
	handlershared "github.com/stockbook/internal/http/handlers/shared"
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/repository"

	"github.com/gin-gonic/gin"
)

// ScanStyle 按款式基码扫描，返回汇总与全部颜色单品
func (h *Handler) ScanStyle(c *gin.Context) {
	result, err := h.CatalogService.ScanStyle(c.Request.Context(), c.Param("style"))
	if err != nil {
		respondServiceError(c, err, "style scan failed")
		return
	}
	response.Success(c, result)
}

// ListStyleSummaries 款式汇总列表
func (h *Handler) ListStyleSummaries(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	summaries, total, err := h.CatalogService.ListSummaries(c.Request.Context(), repository.StyleSummaryListFilter{
		Page:       page,
		PageSize:   pageSize,
		Search:     c.Query("search"),
		SourceFile: c.Query("source_file"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "summary list failed", err)
		return
	}
	response.SuccessWithPage(c, summaries, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
