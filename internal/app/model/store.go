package model

import (
	"fmt"
	"time"
)

type Store struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"size:255;not null" json:"name"`
	Email     string    `gorm:"not null;index" json:"email"`
	Address   string    `gorm:"size:400" json:"address"`
	OwnerID   uint      `gorm:"not null;index" json:"ownerId"`
	Owner     User      `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Ratings []Rating `gorm:"foreignKey:StoreID" json:"-"`
}

func (Store) TableName() string {
	return "stores"
}

// DefaultStoreName is the name of the store created for a STORE_OWNER at registration.
func DefaultStoreName(ownerName string) string {
	return fmt.Sprintf("%s's Store", ownerName)
}

// StoreRatingSummary is the aggregate of one store's ratings.
type StoreRatingSummary struct {
	StoreID       uint
	AverageRating float64
	RatingCount   int64
}
