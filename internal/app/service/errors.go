package service

import (
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
)

var (
	ErrInvalidCredentials  = apperrors.Unauthorized("Invalid email or password")
	ErrEmailAlreadyExists  = apperrors.Conflict("A user with this email already exists")
	ErrUserNotFound        = apperrors.NotFound("User not found")
	ErrIncorrectPassword   = apperrors.BadRequest("Current password is incorrect")
	ErrRoleChangeForbidden = apperrors.Forbidden("Not authorized to change role")

	ErrStoreNotFound        = apperrors.NotFound("Store not found")
	ErrStoreUpdateForbidden = apperrors.Forbidden("Not authorized to update this store")
	ErrStoreDeleteForbidden = apperrors.Forbidden("Not authorized to delete this store")

	ErrRatingNotFound        = apperrors.NotFound("Rating not found")
	ErrAlreadyRated          = apperrors.BadRequest("You have already rated this store")
	ErrRatingModifyForbidden = apperrors.Forbidden("Not authorized to modify this rating")
)
