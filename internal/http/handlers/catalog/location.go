package catalog

import (
	"strconv"

	"github.com/stockbook/internal/http/response"

	"github.com/gin-gonic/gin"
)

// GetWarehouseLayout 完整仓位布局
func (h *Handler) GetWarehouseLayout(c *gin.Context) {
	rooms, err := h.LocationService.Layout(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "layout failed", err)
		return
	}
	response.Success(c, rooms)
}

// ListRooms 房间列表
func (h *Handler) ListRooms(c *gin.Context) {
	rooms, err := h.LocationService.ListRooms(c.Request.Context())
	if err != nil {
		respondError(c, response.CodeInternal, "room list failed", err)
		return
	}
	response.Success(c, rooms)
}

// ListShelves 货架列表，room_id 可选
func (h *Handler) ListShelves(c *gin.Context) {
	roomID, _ := strconv.ParseUint(c.Query("room_id"), 10, 32)
	shelves, err := h.LocationService.ListShelves(c.Request.Context(), uint(roomID))
	if err != nil {
		respondError(c, response.CodeInternal, "shelf list failed", err)
		return
	}
	response.Success(c, shelves)
}

// ListRows 层位列表，shelf_id 可选
func (h *Handler) ListRows(c *gin.Context) {
	shelfID, _ := strconv.ParseUint(c.Query("shelf_id"), 10, 32)
	rows, err := h.LocationService.ListRows(c.Request.Context(), uint(shelfID))
	if err != nil {
		respondError(c, response.CodeInternal, "row list failed", err)
		return
	}
	response.Success(c, rows)
}
