package server

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/auth"
	"github.com/r1c4rd0r0ch4/hubcontent5-sub000/internal/logger"
)

// RequestLoggingMiddleware logs one line per request. The query string is
// left out since the websocket endpoint carries its token there.
func RequestLoggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		args := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		if a, ok := auth.GetActor(c); ok {
			args = append(args, "actor_id", a.ID, "role", string(a.Role))
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			logger.Error("HTTP request", args...)
		case status >= 400:
			logger.Warn("HTTP request", args...)
		default:
			logger.Info("HTTP request", args...)
		}
	}
}
