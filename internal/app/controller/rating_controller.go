package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/internal/validation"
)

type RatingController struct {
	ratingService service.RatingService
}

func NewRatingController(ratingService service.RatingService) *RatingController {
	return &RatingController{ratingService: ratingService}
}

// GET /api/ratings
func (ctrl *RatingController) ListRatings(c *gin.Context) {
	ratings, err := ctrl.ratingService.ListAll(c.Request.Context())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, toRatingResponses(ratings))
}

// GET /api/ratings/store/:storeId
func (ctrl *RatingController) ListStoreRatings(c *gin.Context) {
	storeID, ok := parseID(c, "storeId")
	if !ok {
		return
	}

	ratings, summary, err := ctrl.ratingService.ListByStore(c.Request.Context(), storeID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, StoreRatingsResponse{
		Ratings:       toRatingResponses(ratings),
		AverageRating: summary.AverageRating,
		RatingCount:   summary.RatingCount,
	})
}

// POST /api/ratings/store/:storeId
func (ctrl *RatingController) CreateRating(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "storeId")
	if !ok {
		return
	}

	var req RatingRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Abort(c, err)
		return
	}

	rating, err := ctrl.ratingService.Create(c.Request.Context(), id, storeID, req.Value())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, gin.H{"rating": toRatingResponse(rating)})
}

// PUT /api/ratings/store/:storeId
func (ctrl *RatingController) UpdateRating(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "storeId")
	if !ok {
		return
	}

	var req RatingRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Abort(c, err)
		return
	}

	rating, err := ctrl.ratingService.Update(c.Request.Context(), id, storeID, req.Value())
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"rating": toRatingResponse(rating)})
}

// DELETE /api/ratings/store/:storeId
func (ctrl *RatingController) DeleteRating(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "storeId")
	if !ok {
		return
	}

	if err := ctrl.ratingService.Delete(c.Request.Context(), id, storeID); err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, nil)
}
