package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrcar-cl/tasador/internal/infrastructure/monitoring/logging"
	"github.com/mrcar-cl/tasador/pkg/errors"
)

// Recovery converts panics into a structured 500 response instead of a
// dropped connection.
func Recovery(logger logging.Logger) gin.HandlerFunc {
	logger = logger.Named("http")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered",
					logging.Any("panic", r),
					logging.String("path", c.Request.URL.Path),
					logging.String("request_id", GetRequestID(c)),
				)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
					"code":    string(errors.ErrCodeInternal),
					"message": "internal server error",
				})
			}
		}()
		c.Next()
	}
}
