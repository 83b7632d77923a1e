package controller

import (
	"time"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/service"
)

type UserResponse struct {
	ID      uint           `json:"id"`
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Address string         `json:"address"`
	Role    model.UserRole `json:"role"`
}

type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

type OwnerResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type RaterResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type StoreResponse struct {
	ID            uint             `json:"id"`
	Name          string           `json:"name"`
	Email         string           `json:"email"`
	Address       string           `json:"address"`
	OwnerID       uint             `json:"ownerId"`
	Owner         *OwnerResponse   `json:"owner,omitempty"`
	AverageRating float64          `json:"averageRating"`
	RatingCount   int64            `json:"ratingCount"`
	UserRating    *int             `json:"userRating,omitempty"`
	CreatedAt     time.Time        `json:"createdAt"`
	UpdatedAt     time.Time        `json:"updatedAt"`
}

// StoreDetailResponse always carries ratings, empty for an unrated store.
type StoreDetailResponse struct {
	StoreResponse
	Ratings []RatingResponse `json:"ratings"`
}

type RatingResponse struct {
	ID        uint           `json:"id"`
	UserID    uint           `json:"userId"`
	StoreID   uint           `json:"storeId"`
	Rating    int            `json:"rating"`
	User      *RaterResponse `json:"user,omitempty"`
	Store     *StoreResponse `json:"store,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

type StoreRatingsResponse struct {
	Ratings       []RatingResponse `json:"ratings"`
	AverageRating float64          `json:"averageRating"`
	RatingCount   int64            `json:"ratingCount"`
}

type StatsUserResponse struct {
	ID    uint           `json:"id"`
	Email string         `json:"email"`
	Name  string         `json:"name"`
	Role  model.UserRole `json:"role"`
}

type StatsResponse struct {
	TotalUsers   int64               `json:"totalUsers"`
	TotalStores  int64               `json:"totalStores"`
	TotalRatings int64               `json:"totalRatings"`
	Users        []StatsUserResponse `json:"users"`
}

func toUserResponse(u *model.User) UserResponse {
	return UserResponse{
		ID:      u.ID,
		Name:    u.Name,
		Email:   u.Email,
		Address: u.Address,
		Role:    u.Role,
	}
}

func toUserResponses(users []model.User) []UserResponse {
	out := make([]UserResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

func toStoreResponse(s *model.Store) StoreResponse {
	resp := StoreResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Address:   s.Address,
		OwnerID:   s.OwnerID,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Owner.ID != 0 {
		resp.Owner = &OwnerResponse{ID: s.Owner.ID, Name: s.Owner.Name, Email: s.Owner.Email}
	}
	return resp
}

func toStoreView(v *service.StoreView) StoreResponse {
	resp := toStoreResponse(&v.Store)
	resp.AverageRating = v.Summary.AverageRating
	resp.RatingCount = v.Summary.RatingCount
	resp.UserRating = v.UserRating
	return resp
}

func toStoreDetail(v *service.StoreView) StoreDetailResponse {
	return StoreDetailResponse{
		StoreResponse: toStoreView(v),
		Ratings:       toRatingResponses(v.Store.Ratings),
	}
}

func toStoreViews(views []service.StoreView) []StoreResponse {
	out := make([]StoreResponse, 0, len(views))
	for i := range views {
		out = append(out, toStoreView(&views[i]))
	}
	return out
}

func toRatingResponse(r *model.Rating) RatingResponse {
	resp := RatingResponse{
		ID:        r.ID,
		UserID:    r.UserID,
		StoreID:   r.StoreID,
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if r.User.ID != 0 {
		resp.User = &RaterResponse{ID: r.User.ID, Name: r.User.Name}
	}
	if r.Store.ID != 0 {
		store := toStoreResponse(&r.Store)
		resp.Store = &store
	}
	return resp
}

func toRatingResponses(ratings []model.Rating) []RatingResponse {
	out := make([]RatingResponse, 0, len(ratings))
	for i := range ratings {
		out = append(out, toRatingResponse(&ratings[i]))
	}
	return out
}

func toStatsResponse(s *service.Stats) StatsResponse {
	users := make([]StatsUserResponse, 0, len(s.Users))
	for _, u := range s.Users {
		users = append(users, StatsUserResponse{ID: u.ID, Email: u.Email, Name: u.Name, Role: u.Role})
	}
	return StatsResponse{
		TotalUsers:   s.TotalUsers,
		TotalStores:  s.TotalStores,
		TotalRatings: s.TotalRatings,
		Users:        users,
	}
}
