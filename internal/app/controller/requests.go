package controller

import (
	"github.com/ikkim/store-rating-backend/internal/app/model"
)

// RegisterRequest is also accepted by the admin user registration route.
type RegisterRequest struct {
	Name     string         `json:"name" binding:"required,min=20,max=60"`
	Email    string         `json:"email" binding:"required,email"`
	Password string         `json:"password" binding:"required,min=6"`
	Address  string         `json:"address" binding:"omitempty,max=400"`
	Role     model.UserRole `json:"role" binding:"omitempty,oneof=ADMIN USER STORE_OWNER"`
}

// UpdateProfileRequest is the partial form of RegisterRequest. Present
// fields obey the same rules.
type UpdateProfileRequest struct {
	Name     *string         `json:"name" binding:"omitnil,min=20,max=60"`
	Email    *string         `json:"email" binding:"omitnil,email"`
	Password *string         `json:"password" binding:"omitnil,min=6"`
	Address  *string         `json:"address" binding:"omitnil,max=400"`
	Role     *model.UserRole `json:"role" binding:"omitnil,oneof=ADMIN USER STORE_OWNER"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=6"`
}

type StoreRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=255"`
	Email   string `json:"email" binding:"required,email"`
	Address string `json:"address" binding:"omitempty,max=400"`
}

type UpdateStoreRequest struct {
	Name    *string `json:"name" binding:"omitnil,min=1,max=255"`
	Email   *string `json:"email" binding:"omitnil,email"`
	Address *string `json:"address" binding:"omitnil,max=400"`
}

// RatingRequest accepts whole numbers 1 through 5. JSON 3.0 counts as 3.
type RatingRequest struct {
	Rating *float64 `json:"rating" binding:"required,wholenumber,min=1,max=5"`
}

func (r RatingRequest) Value() int {
	return int(*r.Rating)
}
