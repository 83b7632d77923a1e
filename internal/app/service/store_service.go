package service

import (
	"context"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"gorm.io/gorm"
)

type StoreInput struct {
	Name    string
	Email   string
	Address string
}

type StoreUpdate struct {
	Name    *string
	Email   *string
	Address *string
}

// StoreView is a store together with its rating aggregate and, when the
// viewer is known, the viewer's own rating.
type StoreView struct {
	Store      model.Store
	Summary    model.StoreRatingSummary
	UserRating *int
}

type StoreService interface {
	List(ctx context.Context, viewer *model.Identity) ([]StoreView, error)
	GetByOwnerEmail(ctx context.Context, email string) (*StoreView, error)
	Create(ctx context.Context, actor model.Identity, in StoreInput) (*model.Store, error)
	Update(ctx context.Context, actor model.Identity, storeID uint, upd StoreUpdate) (*model.Store, error)
	Delete(ctx context.Context, actor model.Identity, storeID uint) error
}

type storeService struct {
	db         *gorm.DB
	storeRepo  repository.StoreRepository
	ratingRepo repository.RatingRepository
}

func NewStoreService(
	db *gorm.DB,
	storeRepo repository.StoreRepository,
	ratingRepo repository.RatingRepository,
) StoreService {
	return &storeService{
		db:         db,
		storeRepo:  storeRepo,
		ratingRepo: ratingRepo,
	}
}

func (s *storeService) List(ctx context.Context, viewer *model.Identity) ([]StoreView, error) {
	stores, err := s.storeRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	summaries, err := s.ratingRepo.Summaries(ctx)
	if err != nil {
		return nil, err
	}

	var own map[uint]int
	if viewer != nil {
		ratings, err := s.ratingRepo.ListByUser(ctx, viewer.UserID)
		if err != nil {
			return nil, err
		}
		own = make(map[uint]int, len(ratings))
		for _, r := range ratings {
			own[r.StoreID] = r.Rating
		}
	}

	views := make([]StoreView, 0, len(stores))
	for _, store := range stores {
		view := StoreView{Store: store, Summary: summaries[store.ID]}
		view.Summary.StoreID = store.ID
		if v, ok := own[store.ID]; ok {
			view.UserRating = &v
		}
		views = append(views, view)
	}

	logger.Debug("Stores listed", map[string]interface{}{
		"count":         len(views),
		"authenticated": viewer != nil,
	})
	return views, nil
}

// GetByOwnerEmail looks a store up by its owner's email address, which is
// what the public store detail route receives as its id.
func (s *storeService) GetByOwnerEmail(ctx context.Context, email string) (*StoreView, error) {
	store, err := s.storeRepo.FindFirstByOwnerEmail(ctx, email)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}

	summary, err := s.ratingRepo.SummaryForStore(ctx, store.ID)
	if err != nil {
		return nil, err
	}
	return &StoreView{Store: *store, Summary: summary}, nil
}

func (s *storeService) Create(ctx context.Context, actor model.Identity, in StoreInput) (*model.Store, error) {
	store := &model.Store{
		Name:    in.Name,
		Email:   in.Email,
		Address: in.Address,
		OwnerID: actor.UserID,
	}

	if err := s.storeRepo.Create(ctx, store); err != nil {
		return nil, err
	}

	logger.Info("Store created", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": store.OwnerID,
	})
	return s.storeRepo.FindByID(ctx, store.ID)
}

func (s *storeService) Update(ctx context.Context, actor model.Identity, storeID uint, upd StoreUpdate) (*model.Store, error) {
	store, err := s.find(ctx, storeID)
	if err != nil {
		return nil, err
	}

	if !actor.CanModify(store.OwnerID) {
		logger.Warn("Store update rejected", map[string]interface{}{
			"store_id": storeID,
			"owner_id": store.OwnerID,
			"user_id":  actor.UserID,
		})
		return nil, ErrStoreUpdateForbidden
	}

	if upd.Name != nil {
		store.Name = *upd.Name
	}
	if upd.Email != nil {
		store.Email = *upd.Email
	}
	if upd.Address != nil {
		store.Address = *upd.Address
	}

	if err := s.storeRepo.Update(ctx, store); err != nil {
		return nil, err
	}

	logger.Info("Store updated", map[string]interface{}{
		"store_id": store.ID,
		"user_id":  actor.UserID,
	})
	return store, nil
}

// Delete removes the store and every rating cast on it.
func (s *storeService) Delete(ctx context.Context, actor model.Identity, storeID uint) error {
	store, err := s.find(ctx, storeID)
	if err != nil {
		return err
	}

	if !actor.CanModify(store.OwnerID) {
		logger.Warn("Store delete rejected", map[string]interface{}{
			"store_id": storeID,
			"owner_id": store.OwnerID,
			"user_id":  actor.UserID,
		})
		return ErrStoreDeleteForbidden
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		removed, err := s.ratingRepo.WithTx(tx).DeleteByStore(ctx, storeID)
		if err != nil {
			return err
		}
		if err := s.storeRepo.WithTx(tx).Delete(ctx, storeID); err != nil {
			return err
		}
		logger.Info("Store deleted", map[string]interface{}{
			"store_id":        storeID,
			"user_id":         actor.UserID,
			"ratings_removed": removed,
		})
		return nil
	})
	return err
}

func (s *storeService) find(ctx context.Context, storeID uint) (*model.Store, error) {
	store, err := s.storeRepo.FindByID(ctx, storeID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			return nil, ErrStoreNotFound
		}
		return nil, err
	}
	return store, nil
}
