package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/internal/middleware"
	"github.com/ikkim/store-rating-backend/internal/validation"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

// ListStores returns every store with its rating aggregate
// GET /api/stores
func (ctrl *StoreController) ListStores(c *gin.Context) {
	views, err := ctrl.storeService.List(c.Request.Context(), viewer(c))
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, toStoreViews(views))
}

// GetStore looks the store up by its owner's email, which arrives in the id
// segment of the path.
// GET /api/stores/:id
func (ctrl *StoreController) GetStore(c *gin.Context) {
	ownerEmail := c.Param("id")

	middleware.GetLoggerFromContext(c).Debug("Fetching store by owner email", map[string]interface{}{
		"owner_email": ownerEmail,
	})

	view, err := ctrl.storeService.GetByOwnerEmail(c.Request.Context(), ownerEmail)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"store": toStoreDetail(view)})
}

// CreateStore
// POST /api/stores
func (ctrl *StoreController) CreateStore(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req StoreRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Abort(c, err)
		return
	}

	store, err := ctrl.storeService.Create(c.Request.Context(), id, service.StoreInput{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, gin.H{"store": toStoreResponse(store)})
}

// UpdateStore
// PUT /api/stores/:id
func (ctrl *StoreController) UpdateStore(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	var req UpdateStoreRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Abort(c, err)
		return
	}

	store, err := ctrl.storeService.Update(c.Request.Context(), id, storeID, service.StoreUpdate{
		Name:    req.Name,
		Email:   req.Email,
		Address: req.Address,
	})
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"store": toStoreResponse(store)})
}

// DeleteStore
// DELETE /api/stores/:id
func (ctrl *StoreController) DeleteStore(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}
	storeID, ok := parseID(c, "id")
	if !ok {
		return
	}

	if err := ctrl.storeService.Delete(c.Request.Context(), id, storeID); err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, nil)
}
