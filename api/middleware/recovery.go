package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yourusername/media-resolve-go/internal/domain"
	"github.com/yourusername/media-resolve-go/pkg/logger"
	"go.uber.org/zap"
)

// Recovery returns a gin middleware that turns panics into a 500 envelope
func Recovery(logAdapter *logger.LoggerAdapter) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logAdapter.LogError(logger.CategoryAccess, "Panic recovered",
					zap.Any("error", err),
					zap.String("path", c.Request.URL.Path),
					zap.String("method", c.Request.Method),
					zap.String("client_ip", c.ClientIP()),
					zap.String("request_id", c.GetString(RequestIDKey)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError,
					domain.NewErrorResponse("", domain.KindInternal.Message()))
			}
		}()
		c.Next()
	}
}
