package helpers

import (
	"net/http"

	"github.com/farellandr/echallan/internal/apperr"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func HTTPStatusText(code int) string {
	return http.StatusText(code)
}

func RespondWithError(c *gin.Context, statusCode int, customMessage string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{
		Error:   HTTPStatusText(statusCode),
		Message: customMessage,
	})
}

// RespondWithAppError renders err by its kind. Internal causes are logged
// and never echoed to the caller.
func RespondWithAppError(c *gin.Context, logger *zap.Logger, err error) {
	kind := apperr.KindOf(err)
	status := apperr.HTTPStatus(kind)
	if kind == apperr.Internal && logger != nil {
		logger.Error("request failed",
			zap.String("path", c.FullPath()),
			zap.String("request_id", c.GetString("request_id")),
			zap.Error(err),
		)
	}

	c.AbortWithStatusJSON(status, ErrorResponse{
		Error:   HTTPStatusText(status),
		Message: apperr.MessageOf(err),
		Code:    string(kind),
	})
}
