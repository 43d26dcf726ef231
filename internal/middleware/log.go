package middleware

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestLog writes one line per request to logger: method, path,
// status, latency and the acting user id (0 when anonymous).
func RequestLog(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		var userID uint
		if user := UserFrom(c); user != nil {
			userID = user.ID
		}

		logger.Printf("%s %s %d user=%d %s",
			c.Request.Method,
			c.Request.URL.Path,
			c.Writer.Status(),
			userID,
			time.Since(start),
		)
	}
}
