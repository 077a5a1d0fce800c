package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/maxaizer/career-wizard/internal/logger"
	log "github.com/sirupsen/logrus"
	"time"
)

func RequestLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		entry := log.WithFields(log.Fields{
			"method":   c.Request.Method,
			"path":     c.FullPath(),
			"status":   c.Writer.Status(),
			"duration": time.Since(start).String(),
		})

		switch status := c.Writer.Status(); {
		case status >= 500:
			entry.WithField(logger.ErrorTypeField, logger.ErrorTypeHttp).Error("request failed")
		case status >= 400:
			entry.Info("request rejected")
		default:
			entry.Debug("request handled")
		}
	}
}
