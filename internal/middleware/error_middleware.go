package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
)

// ErrorHandler renders the last error a handler recorded with c.Error.
// Unclassified errors become a generic 500 and are logged with their cause.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err
		appErr := apperrors.Classify(err)
		log := GetLoggerFromContext(c)

		fields := map[string]interface{}{
			"status_code": appErr.Status(),
			"message":     appErr.Message,
		}
		if appErr.Status() >= http.StatusInternalServerError {
			log.Error("Unhandled error", err, fields)
		} else if appErr.Kind == apperrors.KindPersistence {
			log.Warn("Database operation failed", map[string]interface{}{
				"status_code": appErr.Status(),
				"error":       err.Error(),
			})
		}

		c.JSON(appErr.Status(), appErr.Envelope())
	}
}

// Recovery turns a panic into the generic 500 envelope.
func Recovery() gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		GetLoggerFromContext(c).Error("Panic recovered", fmt.Errorf("%v", recovered), map[string]interface{}{
			"path": c.Request.URL.Path,
		})
		internal := apperrors.Classify(fmt.Errorf("panic: %v", recovered))
		c.AbortWithStatusJSON(internal.Status(), internal.Envelope())
	})
}
