package intake

import (
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

// UpdateItemStatusRequest 更新单品状态请求
type UpdateItemStatusRequest struct {
	Status   string `json:"status" binding:"required"`
	Operator string `json:"operator"`
	Notes    string `json:"notes"`
}

// UpdateItemStatus 更新单品状态
func (h *Handler) UpdateItemStatus(c *gin.Context) {
	var req UpdateItemStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	item, err := h.CatalogService.UpdateItemStatus(c.Request.Context(), c.Param("id"), req.Status, req.Operator, req.Notes)
	if err != nil {
		respondServiceError(c, err, "status update failed")
		return
	}
	response.Success(c, item)
}

// BulkUpdateStatusRequest 批量更新状态请求
type BulkUpdateStatusRequest struct {
	IDs    []string `json:"ids" binding:"required"`
	Status string   `json:"status" binding:"required"`
}

// BulkUpdateItemStatus 批量更新单品状态
func (h *Handler) BulkUpdateItemStatus(c *gin.Context) {
	var req BulkUpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	affected, err := h.CatalogService.BulkUpdateStatus(c.Request.Context(), req.IDs, req.Status)
	if err != nil {
		respondServiceError(c, err, "bulk status update failed")
		return
	}
	response.Success(c, gin.H{"affected": affected})
}

// UpdateItemLocationRequest 更新单品仓位请求，row_id 为空表示移出仓位
type UpdateItemLocationRequest struct {
	RowID    *uint  `json:"row_id"`
	Operator string `json:"operator"`
}

// UpdateItemLocation 把单品移动到指定层位
func (h *Handler) UpdateItemLocation(c *gin.Context) {
	var req UpdateItemLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	item, err := h.CatalogService.UpdateItemLocation(c.Request.Context(), c.Param("id"), req.RowID, req.Operator)
	if err != nil {
		respondServiceError(c, err, "location update failed")
		return
	}
	response.Success(c, item)
}

// RecordAction 记录一条库存操作流水
func (h *Handler) RecordAction(c *gin.Context) {
	var req service.RecordActionInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	action, err := h.ActionService.Record(c.Request.Context(), req)
	if err != nil {
		respondServiceError(c, err, "action record failed")
		return
	}
	response.Success(c, action)
}
