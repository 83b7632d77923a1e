package repository

import (
	"context"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	apperrors "github.com/ikkim/store-rating-backend/internal/errors"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RatingRepository interface {
	WithTx(tx *gorm.DB) RatingRepository
	Create(ctx context.Context, rating *model.Rating) error
	FindByID(ctx context.Context, id uint) (*model.Rating, error)
	FindByUserAndStore(ctx context.Context, userID, storeID uint) (*model.Rating, error)
	Update(ctx context.Context, rating *model.Rating) error
	Delete(ctx context.Context, id uint) error
	ListAll(ctx context.Context) ([]model.Rating, error)
	ListByStore(ctx context.Context, storeID uint) ([]model.Rating, error)
	ListByUser(ctx context.Context, userID uint) ([]model.Rating, error)
	Summaries(ctx context.Context) (map[uint]model.StoreRatingSummary, error)
	SummaryForStore(ctx context.Context, storeID uint) (model.StoreRatingSummary, error)
	DeleteByStore(ctx context.Context, storeID uint) (int64, error)
	DeleteByUser(ctx context.Context, userID uint) (int64, error)
	DeleteByStoreOwner(ctx context.Context, ownerID uint) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) WithTx(tx *gorm.DB) RatingRepository {
	return &ratingRepository{db: tx}
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.Rating) error {
	logger.Debug("Creating rating in database", map[string]interface{}{
		"user_id":  rating.UserID,
		"store_id": rating.StoreID,
	})

	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(rating).Error; err != nil {
		if !apperrors.IsUniqueViolation(err) {
			logger.Error("Failed to create rating in database", err, map[string]interface{}{
				"user_id":  rating.UserID,
				"store_id": rating.StoreID,
			})
		}
		return apperrors.WrapDB("create rating", err)
	}
	return nil
}

// FindByID loads the rating with its author and store.
func (r *ratingRepository) FindByID(ctx context.Context, id uint) (*model.Rating, error) {
	var rating model.Rating
	if err := r.db.WithContext(ctx).Preload("User").Preload("Store").First(&rating, id).Error; err != nil {
		return nil, apperrors.WrapDB("find rating", err)
	}
	return &rating, nil
}

func (r *ratingRepository) FindByUserAndStore(ctx context.Context, userID, storeID uint) (*model.Rating, error) {
	var rating model.Rating
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND store_id = ?", userID, storeID).
		First(&rating).Error
	if err != nil {
		if !apperrors.IsNotFound(err) {
			logger.Error("Failed to find rating", err, map[string]interface{}{
				"user_id":  userID,
				"store_id": storeID,
			})
		}
		return nil, apperrors.WrapDB("find rating", err)
	}
	return &rating, nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *model.Rating) error {
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Save(rating).Error; err != nil {
		logger.Error("Failed to update rating in database", err, map[string]interface{}{
			"rating_id": rating.ID,
		})
		return apperrors.WrapDB("update rating", err)
	}
	return nil
}

func (r *ratingRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&model.Rating{}, id)
	if result.Error != nil {
		logger.Error("Failed to delete rating from database", result.Error, map[string]interface{}{
			"rating_id": id,
		})
		return apperrors.WrapDB("delete rating", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.WrapDB("delete rating", gorm.ErrRecordNotFound)
	}
	return nil
}

func (r *ratingRepository) ListAll(ctx context.Context) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Store").
		Order("id ASC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to list ratings from database", err)
		return nil, apperrors.WrapDB("list ratings", err)
	}
	return ratings, nil
}

func (r *ratingRepository) ListByStore(ctx context.Context, storeID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("store_id = ?", storeID).
		Order("id ASC").
		Find(&ratings).Error
	if err != nil {
		logger.Error("Failed to list store ratings from database", err, map[string]interface{}{
			"store_id": storeID,
		})
		return nil, apperrors.WrapDB("list store ratings", err)
	}
	return ratings, nil
}

func (r *ratingRepository) ListByUser(ctx context.Context, userID uint) ([]model.Rating, error) {
	var ratings []model.Rating
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Find(&ratings).Error; err != nil {
		logger.Error("Failed to list user ratings from database", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, apperrors.WrapDB("list user ratings", err)
	}
	return ratings, nil
}

type summaryRow struct {
	StoreID       uint
	AverageRating float64
	RatingCount   int64
}

// Summaries returns the average and count of ratings per store. Stores
// without ratings are absent from the map.
func (r *ratingRepository) Summaries(ctx context.Context) (map[uint]model.StoreRatingSummary, error) {
	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("store_id, AVG(rating) AS average_rating, COUNT(*) AS rating_count").
		Group("store_id").
		Scan(&rows).Error
	if err != nil {
		logger.Error("Failed to aggregate ratings", err)
		return nil, apperrors.WrapDB("aggregate ratings", err)
	}

	out := make(map[uint]model.StoreRatingSummary, len(rows))
	for _, row := range rows {
		out[row.StoreID] = model.StoreRatingSummary(row)
	}
	return out, nil
}

func (r *ratingRepository) SummaryForStore(ctx context.Context, storeID uint) (model.StoreRatingSummary, error) {
	var row summaryRow
	err := r.db.WithContext(ctx).
		Model(&model.Rating{}).
		Select("store_id, COALESCE(AVG(rating), 0) AS average_rating, COUNT(*) AS rating_count").
		Where("store_id = ?", storeID).
		Group("store_id").
		Scan(&row).Error
	if err != nil {
		logger.Error("Failed to aggregate store ratings", err, map[string]interface{}{
			"store_id": storeID,
		})
		return model.StoreRatingSummary{}, apperrors.WrapDB("aggregate store ratings", err)
	}
	row.StoreID = storeID
	return model.StoreRatingSummary(row), nil
}

func (r *ratingRepository) DeleteByStore(ctx context.Context, storeID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&model.Rating{})
	if result.Error != nil {
		logger.Error("Failed to delete ratings of store", result.Error, map[string]interface{}{
			"store_id": storeID,
		})
		return 0, apperrors.WrapDB("delete ratings by store", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ratingRepository) DeleteByUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.Rating{})
	if result.Error != nil {
		logger.Error("Failed to delete ratings of user", result.Error, map[string]interface{}{
			"user_id": userID,
		})
		return 0, apperrors.WrapDB("delete ratings by user", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteByStoreOwner removes every rating cast on a store owned by ownerID.
func (r *ratingRepository) DeleteByStoreOwner(ctx context.Context, ownerID uint) (int64, error) {
	owned := r.db.Model(&model.Store{}).Select("id").Where("owner_id = ?", ownerID)
	result := r.db.WithContext(ctx).Where("store_id IN (?)", owned).Delete(&model.Rating{})
	if result.Error != nil {
		logger.Error("Failed to delete ratings on owner's stores", result.Error, map[string]interface{}{
			"owner_id": ownerID,
		})
		return 0, apperrors.WrapDB("delete ratings by store owner", result.Error)
	}
	return result.RowsAffected, nil
}

func (r *ratingRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Rating{}).Count(&count).Error; err != nil {
		logger.Error("Failed to count ratings", err)
		return 0, apperrors.WrapDB("count ratings", err)
	}
	return count, nil
}
