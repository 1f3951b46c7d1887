package catalog

import (
	"fmt"
	"net/http"
	"time"

	"github.com/stockbook/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetDroppedReport 当前 dropped 单品的仓位分组报告
func (h *Handler) GetDroppedReport(c *gin.Context) {
	report, err := h.SeasonalDropService.Report(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "dropped report failed", err)
		return
	}
	response.Success(c, report)
}

// ExportDroppedItems 导出 dropped 单品清单工作簿
func (h *Handler) ExportDroppedItems(c *gin.Context) {
	buf, err := h.ExportService.BuildDroppedItemsWorkbook(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "dropped export failed", err)
		return
	}
	filename := fmt.Sprintf("dropped_items_%s.xlsx", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}
