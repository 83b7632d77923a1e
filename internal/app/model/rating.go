package model

import (
	"time"
)

const (
	MinRating = 1
	MaxRating = 5
)

// Rating is unique per (UserID, StoreID); re-rating updates the row.
type Rating struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_ratings_user_store" json:"userId"`
	StoreID   uint      `gorm:"not null;uniqueIndex:idx_ratings_user_store;index" json:"storeId"`
	Rating    int       `gorm:"not null;check:chk_ratings_range,rating >= 1 AND rating <= 5" json:"rating"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	User  User  `gorm:"foreignKey:UserID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Store Store `gorm:"foreignKey:StoreID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (Rating) TableName() string {
	return "ratings"
}
