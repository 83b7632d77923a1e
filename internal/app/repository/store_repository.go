package repository

import (
	"context"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StoreRepository interface {
	WithTx(tx *gorm.DB) StoreRepository
	Create(ctx context.Context, store *model.Store) error
	FindByID(ctx context.Context, id uint) (*model.Store, error)
	FindFirstByOwnerEmail(ctx context.Context, email string) (*model.Store, error)
	FindAll(ctx context.Context) ([]model.Store, error)
	Update(ctx context.Context, store *model.Store) error
	Delete(ctx context.Context, id uint) error
	DeleteByOwner(ctx context.Context, ownerID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type storeRepository struct {
	db *gorm.DB
}

func NewStoreRepository(db *gorm.DB) StoreRepository {
	return &storeRepository{db: db}
}

func (r *storeRepository) WithTx(tx *gorm.DB) StoreRepository {
	return &storeRepository{db: tx}
}

func (r *storeRepository) Create(ctx context.Context, store *model.Store) error {
	logger.Debug("Creating store in database", map[string]interface{}{
		"owner_id": store.OwnerID,
		"name":     store.Name,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(store).Error; err != nil {
		logger.Error("Failed to create store in database", err, map[string]interface{}{
			"owner_id": store.OwnerID,
		})
		return apperrors.WrapDB("create store", err)
	}

	logger.Debug("Store created in database", map[string]interface{}{
		"store_id": store.ID,
		"owner_id": store.OwnerID,
	})
	return nil
}

// FindByID loads the store with its owner.
func (r *storeRepository) FindByID(ctx context.Context, id uint) (*model.Store, error) {
	var store model.Store
	if err := r.db.WithContext(ctx).Preload("Owner").First(&store, id).Error; err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Error("Failed to find store by ID in database", err, map[string]interface{}{
				"store_id": id,
			})
		}
		return nil, apperrors.WrapDB("find store", err)
	}
	return &store, nil
}

// FindFirstByOwnerEmail returns the lowest-id store whose owner has email,
// with owner and ratings (and each rating's author) loaded.
func (r *storeRepository) FindFirstByOwnerEmail(ctx context.Context, email string) (*model.Store, error) {
	logger.Debug("Finding store by owner email", map[string]interface{}{
		"owner_email": email,
	})

	owners := r.db.Model(&model.User{}).Select("id").Where("email = ?", email)

	var store model.Store
	err := r.db.WithContext(ctx).
		Where("owner_id IN (?)", owners).
		Preload("Owner").
		Preload("Ratings", func(db *gorm.DB) *gorm.DB { return db.Order("ratings.id ASC") }).
		Preload("Ratings.User").
		Order("id ASC").
		First(&store).Error
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Error("Failed to find store by owner email", err, map[string]interface{}{
				"owner_email": email,
			})
		}
		return nil, apperrors.WrapDB("find store by owner email", err)
	}
	return &store, nil
}

func (r *storeRepository) FindAll(ctx context.Context) ([]model.Store, error) {
	var stores []model.Store
	if err := r.db.WithContext(ctx).Preload("Owner").Order("id ASC").Find(&stores).Error; err != nil {
		logger.Error("Failed to list stores from database", err)
		return nil, apperrors.WrapDB("list stores", err)
	}

	logger.Debug("Stores listed from database", map[string]interface{}{
		"count": len(stores),
	})
	return stores, nil
}

func (r *storeRepository) Update(ctx context.Context, store *model.Store) error {
	logger.Debug("Updating store in database", map[string]interface{}{
		"store_id": store.ID,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(store).Error; err != nil {
		logger.Error("Failed to update store in database", err, map[string]interface{}{
			"store_id": store.ID,
		})
		return apperrors.WrapDB("update store", err)
	}
	return nil
}

func (r *storeRepository) Delete(ctx context.Context, id uint) error {
	logger.Debug("Deleting store from database", map[string]interface{}{
		"store_id": id,
	})

	result := r.db.WithContext(ctx).Delete(&model.Store{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete store from database", result.Error, map[string]interface{}{
			"store_id": id,
		})
		return apperrors.WrapDB("delete store", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.WrapDB("delete store", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *storeRepository) DeleteByOwner(ctx context.Context, ownerID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).Delete(&model.Store{})
	if result.Error != nil {
		logger.Error("Failed to delete stores of owner", result.Error, map[string]interface{}{
			"owner_id": ownerID,
		})
		return 0, apperrors.WrapDB("delete stores by owner", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *storeRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Store{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count stores", err)
		return 0, apperrors.WrapDB("count stores", err)
	}
	return count, nil
}
