package catalog

import (
	"errors"

	handlershared "github.com/stockbook/internal/http/handlers/shared"
	"github.com/stockbook/internal/http/response"
	"github.com/stockbook/internal/service"

	"github.com/gin-gonic/gin"
)

func respondError(c *gin.Context, code int, msg string, err error) {
	handlershared.RespondError(c, code, msg, err)
}

func respondServiceError(c *gin.Context, err error, fallbackMsg string) {
	if errors.Is(err, service.ErrNotFound) {
		respondError(c, response.CodeNotFound, "resource not found", nil)
		return
	}
	respondError(c, response.CodeInternal, fallbackMsg, err)
}
