package middleware

import (
	"net/http"
	"runtime/debug"
	"time"

	"marketly/internal/utils"
	"marketly/pkg/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const RequestIDHeader = "X-Request-ID"

// CORSMiddleware configures CORS headers
func CORSMiddleware(allowedOrigins []string) gin.HandlerFunc {
	config := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", RequestIDHeader, "Retry-After"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(allowedOrigins) == 0 || (len(allowedOrigins) == 1 && allowedOrigins[0] == "*") {
		// credentials cannot be combined with a wildcard origin
		config.AllowAllOrigins = true
		config.AllowCredentials = false
	} else {
		config.AllowOrigins = allowedOrigins
	}

	return cors.New(config)
}

// RequestIDMiddleware adds a request ID to each request
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set(utils.ContextRequestID, requestID)
		c.Header(RequestIDHeader, requestID)
		c.Next()
	}
}

// LoggingMiddleware provides structured logging
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		userID := ""
		if id, ok := c.Get(utils.ContextUserID); ok {
			if oid, ok := id.(primitive.ObjectID); ok {
				userID = oid.Hex()
			}
		}

		log.LogAPIRequest(c.Request.Method, route, c.Writer.Status(), time.Since(start), c.GetString(utils.ContextRequestID), userID)
	}
}

// RecoveryMiddleware turns panics into a 500 envelope.
func RecoveryMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if recovered := recover(); recovered != nil {
				log.WithFields(map[string]interface{}{
					"panic":      recovered,
					"request_id": c.GetString(utils.ContextRequestID),
					"path":       c.Request.URL.Path,
					"stack":      string(debug.Stack()),
				}).Error("Recovered from panic")

				if !c.Writer.Written() {
					utils.ErrorResponse(c, http.StatusInternalServerError, utils.CodeInternal, utils.ErrInternalServer)
				}
				c.Abort()
			}
		}()
		c.Next()
	}
}

// ErrorHandler renders the last error a handler attached with c.Error.
func ErrorHandler(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		appErr := utils.AsAppError(c.Errors.Last().Err)
		if appErr.Status >= http.StatusInternalServerError {
			log.WithError(appErr.Unwrap()).
				WithField("request_id", c.GetString(utils.ContextRequestID)).
				WithField("path", c.Request.URL.Path).
				Error(appErr.Message)
		}

		utils.AppErrorResponse(c, appErr)
	}
}

// NoRouteHandler answers unknown paths with the error envelope.
func NoRouteHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.ErrorResponse(c, http.StatusNotFound, utils.CodeNotFound, "route not found")
	}
}
