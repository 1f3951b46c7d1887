package catalog

import (
	"strconv"

	"github.com/stockbook/internal/constants"
	handlershared "github.com/stockbook/internal/http/handlers/shared"
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/repository"

	"github.com/gin-gonic/gin"
)

// SearchItems 按关键字与过滤条件检索单品
func (h *Handler) SearchItems(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	filter := repository.ItemListFilter{
		Page:       page,
		PageSize:   pageSize,
		Style:      c.Query("style"),
		Color:      c.Query("color"),
		Status:     c.Query("status"),
		Search:     c.Query("search"),
		SourceFile: c.Query("source_file"),
		WithRow:    true,
	}
	if raw := c.Query("row_id"); raw != "" {
		rowID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			respondError(c, response.CodeBadRequest, "invalid row_id", nil)
			return
		}
		id := uint(rowID)
		filter.RowID = &id
	}
	items, total, err := h.CatalogService.SearchItems(c.Request.Context(), filter)
	if err != nil {
		respondError(c, response.CodeInternal, "item search failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// ListPendingItems 待处理单品列表
func (h *Handler) ListPendingItems(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	items, total, err := h.CatalogService.SearchItems(c.Request.Context(), repository.ItemListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   constants.ItemStatusPending,
		WithRow:  true,
	})
	if err != nil {
		respondError(c, response.CodeInternal, "pending list failed", err)
		return
	}
	response.SuccessWithPage(c, items, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}

// GetItemProfile 单品档案：基础信息加操作流水
func (h *Handler) GetItemProfile(c *gin.Context) {
	profile, err := h.CatalogService.Profile(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, err, "item profile failed")
		return
	}
	response.Success(c, profile)
}

// GetStats 目录统计
func (h *Handler) GetStats(c *gin.Context) {
	stats, err := h.CatalogService.Stats(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "stats failed", err)
		return
	}
	response.Success(c, stats)
}
