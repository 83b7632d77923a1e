package service

import (
	"context"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"gorm.io/gorm"
)

type Stats struct {
	TotalUsers   int64
	TotalStores  int64
	TotalRatings int64
	Users        []model.User
}

type AdminService interface {
	Stats(ctx context.Context) (*Stats, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	DeleteUser(ctx context.Context, actor model.Identity, userID uint) error
}

type adminService struct {
	db         *gorm.DB
	userRepo   repository.UserRepository
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewAdminService(
	db *gorm.DB,
	userRepo repository.UserRepository,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
) AdminService {
	return &adminService{
		db:         db,
		userRepo:   userRepo,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *adminService) Stats(ctx context.Context) (*Stats, error) {
	totalUsers, err := s.userRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	stores, err := s.storeRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	ratings, err := s.ratingRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalUsers:   totalUsers,
		TotalStores:  stores,
		TotalRatings: ratings,
		Users:        users,
	}, nil
}

func (s *adminService) ListUsers(ctx context.Context) ([]model.User, error) {
	return s.userRepo.List(ctx)
}

// DeleteUser removes the user together with their ratings, their stores and
// the ratings on those stores.
func (s *adminService) DeleteUser(ctx context.Context, actor model.Identity, userID uint) error {
	logger.Info("Deleting user", map[string]interface{}{
		"user_id":  userID,
		"admin_id": actor.UserID,
	})

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		users := s.userRepo.WithTx(tx)
		ratings := s.ratingRepo.WithTx(tx)

		if _, err := users.FindByID(ctx, userID); err != nil {
			if apperrors.IsNotFound(err) {
				return ErrUserNotFound
			}
			return err
		}

		own, err := ratings.DeleteByUser(ctx, userID)
		if err != nil {
			return err
		}
		received, err := ratings.DeleteByStoreOwner(ctx, userID)
		if err != nil {
			return err
		}
		stores, err := s.storeRepo.WithTx(tx).DeleteByOwner(ctx, userID)
		if err != nil {
			return err
		}
		if err := users.Delete(ctx, userID); err != nil {
			return err
		}

		logger.Info("User deleted", map[string]interface{}{
			"user_id":         userID,
			"ratings_removed": own + received,
			"stores_removed":  stores,
		})
		return nil
	})
}
