package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/internal/middleware"
	"github.com/ikkim/store-rating-backend/internal/validation"
)

type UserController struct {
	authService service.AuthService
}

func NewUserController(authService service.AuthService) *UserController {
	return &UserController{authService: authService}
}

// Register handles user registration
// POST /api/users/register, POST /api/admin/users/register
func (ctrl *UserController) Register(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req RegisterRequest
	if err := validation.BindJSON(c, &req); err != nil {
		log.Warn("Invalid registration request", map[string]interface{}{
			"error": err.Error(),
		})
		apperrors.Abort(c, err)
		return
	}

	user, token, err := ctrl.authService.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusCreated, AuthResponse{User: toUserResponse(user), Token: token})
}

// Login handles user login
// POST /api/users/login
func (ctrl *UserController) Login(c *gin.Context) {
	var req LoginRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Abort(c, err)
		return
	}

	user, token, err := ctrl.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, AuthResponse{User: toUserResponse(user), Token: token})
}

// GetProfile returns the caller's own record
// GET /api/users/profile
func (ctrl *UserController) GetProfile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	user, err := ctrl.authService.GetProfile(c.Request.Context(), id.UserID)
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// UpdateProfile applies a partial update to the caller's record
// PUT /api/users/profile
func (ctrl *UserController) UpdateProfile(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req UpdateProfileRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Abort(c, err)
		return
	}

	user, err := ctrl.authService.UpdateProfile(c.Request.Context(), id, service.ProfileUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Address:  req.Address,
		Role:     req.Role,
	})
	if err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.Respond(c, http.StatusOK, gin.H{"user": toUserResponse(user)})
}

// ChangePassword
// PUT /api/users/password
func (ctrl *UserController) ChangePassword(c *gin.Context) {
	id, ok := identity(c)
	if !ok {
		return
	}

	var req ChangePasswordRequest
	if err := validation.BindJSON(c, &req); err != nil {
		apperrors.Abort(c, err)
		return
	}

	if err := ctrl.authService.ChangePassword(c.Request.Context(), id.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.RespondWithMessage(c, http.StatusOK, nil, "Password updated successfully")
}

// Logout revokes the presented token
// POST /api/users/logout
func (ctrl *UserController) Logout(c *gin.Context) {
	if _, ok := identity(c); !ok {
		return
	}

	if err := ctrl.authService.Logout(c.Request.Context(), middleware.BearerToken(c)); err != nil {
		apperrors.Abort(c, err)
		return
	}

	apperrors.RespondWithMessage(c, http.StatusOK, nil, "Logged out successfully")
}
