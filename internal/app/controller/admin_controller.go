package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
)

// AdminController serves /api/admin. Every route is behind Protect and
// Authorize(ADMIN).
type AdminController struct {
	adminService  service.AdminService
	storeService  service.StoreService
	ratingService service.RatingService
}

func NewAdminController(
	adminService service.AdminService,
	storeService service.StoreService,
	ratingService service.RatingService,
) *AdminController {
	return &AdminController{
		adminService:  adminService,
		storeService:  storeService,
		ratingService: ratingService,
	}
}

// GET /api/admin/stats
func (ctrl *AdminController) GetStats(c *gin.Context) {
	stats, err := ctrl.adminService.Stats(c.Request.Context())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, toStatsResponse(stats))
}

// GET /api/admin/users
func (ctrl *AdminController) ListUsers(c *gin.Context) {
	users, err := ctrl.adminService.ListUsers(c.Request.Context())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, toUserResponses(users))
}

// DELETE /api/admin/users/:id
func (ctrl *AdminController) DeleteUser(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	userID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.adminService.DeleteUser(c.Request.Context(), id, userID); err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.RespondWithMessage(c, http.StatusOK, nil, "User deleted successfully")
}

// GET /api/admin/stores
func (ctrl *AdminController) ListStores(c *gin.Context) {
	views, err := ctrl.storeService.List(c.Request.Context(), nil)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, toStoreViews(views))
}

// GET /api/admin/ratings
func (ctrl *AdminController) ListRatings(c *gin.Context) {
	ratings, err := ctrl.ratingService.ListAll(c.Request.Context())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, toRatingResponses(ratings))
}
