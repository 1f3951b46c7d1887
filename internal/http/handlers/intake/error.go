package intake

import (
	"errors"

	handlershared "github.com/stockbook/internal/http/handlers/shared"
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func requestLog(c *gin.Context) *zap.SugaredLogger {
	return handlershared.RequestLog(c)
}

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

// respondServiceError 映射业务错误到接口响应
func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		respondError(c, response.CodeNotFound, "resource not found", nil)
	case errors.Is(err, service.ErrNameExists):
		respondError(c, response.CodeBadRequest, "name already exists", nil)
	case errors.Is(err, service.ErrInvalidStatus):
		respondError(c, response.CodeBadRequest, "invalid item status", nil)
	case errors.Is(err, service.ErrInvalidAction):
		respondError(c, response.CodeBadRequest, "invalid action type", nil)
	case errors.Is(err, service.ErrSnapshotProcessing):
		respondError(c, response.CodeBadRequest, "snapshot is still processing", nil)
	case errors.Is(err, service.ErrSourceFileMismatch):
		respondError(c, response.CodeBadRequest, "source file not associated with item", nil)
	default:
		respondError(c, response.CodeInternal, fallbackMsg, err)
	}
}
