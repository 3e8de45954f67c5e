package shared

import (
	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/gin-gonic/gin"
)

const loggerKey = "logger"

// WithLogger stores the request scoped logger for handlers.
func WithLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(loggerKey, log.WithRequestID(c.GetString(utils.ContextRequestID)))
		c.Next()
	}
}

// Logger returns the request scoped logger, or a no-op one outside a request chain.
func Logger(c *gin.Context) *logger.Logger {
	if value, ok := c.Get(loggerKey); ok {
		if log, ok := value.(*logger.Logger); ok {
			return log
		}
	}
	return logger.NewNop()
}
