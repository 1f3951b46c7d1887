package catalog

import (
	handlershared "github.com/stockbook/internal/http/handlers/shared"
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListActions 库存操作流水列表
func (h *Handler) ListActions(c *gin.Context) {
	page, pageSize := handlershared.ParsePagination(c)
	actions, total, err := h.ActionService.List(c.Request.Context(), repository.InventoryActionListFilter{
		Page:       page,
		PageSize:   pageSize,
		Style:      c.Query("style"),
		Color:      c.Query("color"),
		Action:     c.Query("action"),
		SourceFile: c.Query("source_file"),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "action list failed", err)
		return
	}
	response.SuccessWithPage(c, actions, response.Pagination{
		Page:      page,
		PageSize:  pageSize,
		Total:     total,
		TotalPage: (total + int64(pageSize) - 1) / int64(pageSize),
	})
}
