package service

import (
	"context"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/logger"
)

type RatingService interface {
	Create(ctx context.Context, actor model.Identity, storeID uint, value int) (*model.Rating, error)
	Update(ctx context.Context, actor model.Identity, storeID uint, value int) (*model.Rating, error)
	Delete(ctx context.Context, actor model.Identity, storeID uint) error
	ListAll(ctx context.Context) ([]model.Rating, error)
	ListByStore(ctx context.Context, storeID uint) ([]model.Rating, model.StoreRatingSummary, error)
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	storeRepo  repository.StoreRepository
}

func NewRatingService(ratingRepo repository.RatingRepository, storeRepo repository.StoreRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		storeRepo:  storeRepo,
	}
}

// Create inserts the actor's first rating of a store. A concurrent insert
// for the same pair loses on the unique index and gets ErrAlreadyRated too.
func (s *ratingService) Create(ctx context.Context, actor model.Identity, storeID uint, value int) (*model.Rating, error) {
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, err
	}

	_, err := s.ratingRepo.FindByUserAndStore(ctx, actor.UserID, storeID)
	switch {
	case err == nil:
		return nil, ErrAlreadyRated
	case !apperrors.IsNotFound(err):
		return nil, err
	}

	rating := &model.Rating{UserID: actor.UserID, StoreID: storeID, Rating: value}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		if apperrors.IsUniqueViolation(err) {
			logger.Warn("Concurrent rating insert rejected", map[string]interface{}{
				"user_id":  actor.UserID,
				"store_id": storeID,
			})
			return nil, ErrAlreadyRated.Wrap(err)
		}
		return nil, err
	}

	logger.Info("Rating created", map[string]interface{}{
		"rating_id": rating.ID,
		"user_id":   actor.UserID,
		"store_id":  storeID,
	})
	return s.ratingRepo.FindByID(ctx, rating.ID)
}

func (s *ratingService) Update(ctx context.Context, actor model.Identity, storeID uint, value int) (*model.Rating, error) {
	rating, err := s.own(ctx, actor, storeID)
	if err != nil {
		return nil, err
	}

	rating.Rating = value
	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}

	logger.Info("Rating updated", map[string]interface{}{
		"rating_id": rating.ID,
		"user_id":   actor.UserID,
		"store_id":  storeID,
	})
	return s.ratingRepo.FindByID(ctx, rating.ID)
}

func (s *ratingService) Delete(ctx context.Context, actor model.Identity, storeID uint) error {
	rating, err := s.own(ctx, actor, storeID)
	if err != nil {
		return err
	}

	if err := s.ratingRepo.Delete(ctx, rating.ID); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrRatingNotFound
		}
		return err
	}

	logger.Info("Rating deleted", map[string]interface{}{
		"rating_id": rating.ID,
		"user_id":   actor.UserID,
		"store_id":  storeID,
	})
	return nil
}

func (s *ratingService) ListAll(ctx context.Context) ([]model.Rating, error) {
	return s.ratingRepo.ListAll(ctx)
}

func (s *ratingService) ListByStore(ctx context.Context, storeID uint) ([]model.Rating, model.StoreRatingSummary, error) {
	if err := s.ensureStore(ctx, storeID); err != nil {
		return nil, model.StoreRatingSummary{}, err
	}

	ratings, err := s.ratingRepo.ListByStore(ctx, storeID)
	if err != nil {
		return nil, model.StoreRatingSummary{}, err
	}
	summary, err := s.ratingRepo.SummaryForStore(ctx, storeID)
	if err != nil {
		return nil, model.StoreRatingSummary{}, err
	}
	return ratings, summary, nil
}

func (s *ratingService) ensureStore(ctx context.Context, storeID uint) error {
	if _, err := s.storeRepo.FindByID(ctx, storeID); err != nil {
		if apperrors.IsNotFound(err) {
			return ErrStoreNotFound
		}
		return err
	}
	return nil
}

// own finds the actor's rating of storeID and applies the ownership rule.
func (s *ratingService) own(ctx context.Context, actor model.Identity, storeID uint) (*model.Rating, error) {
	rating, err := s.ratingRepo.FindByUserAndStore(ctx, actor.UserID, storeID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	if !actor.CanModify(rating.UserID) {
		return nil, ErrRatingModifyForbidden
	}
	return rating, nil
}
