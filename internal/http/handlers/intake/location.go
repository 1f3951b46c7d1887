package intake

import (
	handlershared "github.com/stockbook/internal/http/handlers/shared"
	"github.com/stockbook/internal/http/response"

	"github.com/gin-gonic/gin"
)

// CreateLocationRequest 创建仓位节点请求
type CreateLocationRequest struct {
	Name string `json:"name" binding:"required"`
}

// CreateRoom 创建房间
func (h *Handler) CreateRoom(c *gin.Context) {
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	room, err := h.LocationService.CreateRoom(c.Request.Context(), req.Name)
	if err != nil {
		respondServiceError(c, err, "room create failed")
		return
	}
	response.Success(c, room)
}

// DeleteRoom 删除房间及其下属货架与层位
func (h *Handler) DeleteRoom(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.LocationService.DeleteRoom(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "room delete failed")
		return
	}
	response.Success(c, nil)
}

// CreateShelf 在指定房间创建货架
func (h *Handler) CreateShelf(c *gin.Context) {
	roomID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	shelf, err := h.LocationService.CreateShelf(c.Request.Context(), roomID, req.Name)
	if err != nil {
		respondServiceError(c, err, "shelf create failed")
		return
	}
	response.Success(c, shelf)
}

// DeleteShelf 删除货架及其层位
func (h *Handler) DeleteShelf(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.LocationService.DeleteShelf(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "shelf delete failed")
		return
	}
	response.Success(c, nil)
}

// CreateRow 在指定货架创建层位
func (h *Handler) CreateRow(c *gin.Context) {
	shelfID, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	var req CreateLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "bad request", err)
		return
	}
	row, err := h.LocationService.CreateRow(c.Request.Context(), shelfID, req.Name)
	if err != nil {
		respondServiceError(c, err, "row create failed")
		return
	}
	response.Success(c, row)
}

// DeleteRow 删除层位并清空其中单品的仓位
func (h *Handler) DeleteRow(c *gin.Context) {
	id, ok := handlershared.ParseUintParam(c, "id")
	if !ok {
		return
	}
	if err := h.LocationService.DeleteRow(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "row delete failed")
		return
	}
	response.Success(c, nil)
}
