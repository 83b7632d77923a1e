package controller

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/internal/middleware"
)

// parseID reads a positive numeric path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		middleware.GetLoggerFromContext(c).Warn("Invalid path parameter", map[string]interface{}{
			"param": name,
			"value": c.Param(name),
		})
		apperrors.Abort(c, apperrors.Validation([]apperrors.FieldError{{
			Field:   name,
			Message: "must be a positive integer",
		}}))
		return 0, false
	}
	return uint(id), true
}

// identity returns the caller attached by Protect. Handlers behind Protect
// always have one; without it the request is rejected.
func identity(c *gin.Context) (model.Identity, bool) {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		apperrors.Abort(c, middleware.ErrNoToken)
	}
	return id, ok
}

// viewer returns the optional caller of a public route.
func viewer(c *gin.Context) *model.Identity {
	id, ok := middleware.CurrentIdentity(c)
	if !ok {
		return nil
	}
	return &id
}
