package utils

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Logger logs method, path, status and latency of each request
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		c.Next()

		latency := time.Since(startTime)
		log.Printf("[HTTP] %s %s %d %v %s", c.Request.Method, c.Request.URL.Path,
			c.Writer.Status(), latency, c.ClientIP())
	}
}

// ErrorHandler turns the last error attached with c.Error into the JSON
// response. Errors that are not *AppError are logged and reported as a 500,
// with the internal message hidden when production is set.
func ErrorHandler(production bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		err := c.Errors.Last().Err

		var appErr *AppError
		if !errors.As(err, &appErr) {
			log.Printf("[ERROR] %s %s: %v", c.Request.Method, c.Request.URL.Path, err)
			appErr = ErrInternal
			if !production {
				appErr = NewAppError(http.StatusInternalServerError, CodeInternal, err.Error())
			}
		} else if appErr.Status >= http.StatusInternalServerError {
			log.Printf("[ERROR] %s %s: %v (%s)", c.Request.Method, c.Request.URL.Path, err, appErr.Code)
		}

		if c.Writer.Written() {
			return
		}
		c.AbortWithStatusJSON(appErr.Status, appErr)
	}
}
