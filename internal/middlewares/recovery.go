package middlewares

import (
	"net/http"
	"runtime/debug"

	"LCID/internal/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorHandlerMiddleware turns a panic in a handler into the usual
// {code, message} error body.
func ErrorHandlerMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.Error("Internal server error occurred",
					zap.Any("error", recovered),
					zap.String("stack", string(debug.Stack())),
					zap.String("method", c.Request.Method),
					zap.String("url", c.Request.URL.String()),
					zap.String("client_ip", c.ClientIP()),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, &models.ServerError{
					Code:    http.StatusInternalServerError,
					Message: "Internal server error.",
				})
			}
		}()
		c.Next()
	}
}
