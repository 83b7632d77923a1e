package controller

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingController_Lifecycle(t *testing.T) {
	f := setupControllerTest(t)

	owner, _ := f.register(t, longName, "owner@example.com", model.RoleStoreOwner)
	_, token := f.register(t, "Ordinary Shopper Person", "user@example.com", model.RoleUser)
	path := fmt.Sprintf("/api/ratings/store/%d", f.storeIDOf(t, owner.ID))

	code, env := f.do(t, http.MethodPost, path, token, gin.H{"rating": 3})
	require.Equal(t, http.StatusCreated, code)
	var created struct {
		Rating RatingResponse `json:"rating"`
	}
	decode(t, env.Data, &created)
	assert.Equal(t, 3, created.Rating.Rating)
	require.NotNil(t, created.Rating.User)
	require.NotNil(t, created.Rating.Store)

	code, env = f.do(t, http.MethodPost, path, token, gin.H{"rating": 4})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "You have already rated this store", env.Message)

	code, env = f.do(t, http.MethodPut, path, token, gin.H{"rating": 5})
	require.Equal(t, http.StatusOK, code)
	var updated struct {
		Rating RatingResponse `json:"rating"`
	}
	decode(t, env.Data, &updated)
	assert.Equal(t, 5, updated.Rating.Rating)

	code, _ = f.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusOK, code)

	code, env = f.do(t, http.MethodPut, path, token, gin.H{"rating": 2})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Rating not found", env.Message)

	code, _ = f.do(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, code)
}

func TestRatingController_RejectsInvalidValues(t *testing.T) {
	f := setupControllerTest(t)

	owner, _ := f.register(t, longName, "owner@example.com", model.RoleStoreOwner)
	_, token := f.register(t, "Ordinary Shopper Person", "user@example.com", model.RoleUser)
	path := fmt.Sprintf("/api/ratings/store/%d", f.storeIDOf(t, owner.ID))

	for _, body := range []string{`{"rating":0}`, `{"rating":6}`, `{"rating":3.5}`, `{"rating":"3"}`, `{}`} {
		t.Run(body, func(t *testing.T) {
			code, env := f.do(t, http.MethodPost, path, token, body)
			assert.Equal(t, http.StatusBadRequest, code)
			require.Len(t, env.Errors, 1)
			assert.Equal(t, "rating", env.Errors[0].Field)
		})
	}
}

func TestRatingController_MissingStore(t *testing.T) {
	f := setupControllerTest(t)
	_, token := f.register(t, "Ordinary Shopper Person", "user@example.com", model.RoleUser)

	code, env := f.do(t, http.MethodPost, "/api/ratings/store/9999", token, gin.H{"rating": 3})
	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "Store not found", env.Message)

	code, _ = f.do(t, http.MethodGet, "/api/ratings/store/9999", "", nil)
	assert.Equal(t, http.StatusNotFound, code)

	code, _ = f.do(t, http.MethodPost, "/api/ratings/store/1", "", gin.H{"rating": 3})
	assert.Equal(t, http.StatusUnauthorized, code)
}

func TestRatingController_Lists(t *testing.T) {
	f := setupControllerTest(t)

	owner, _ := f.register(t, longName, "owner@example.com", model.RoleStoreOwner)
	_, a := f.register(t, "First Shopper In Line", "a@example.com", model.RoleUser)
	_, b := f.register(t, "Second Shopper In Line", "b@example.com", model.RoleUser)
	storeID := f.storeIDOf(t, owner.ID)
	path := fmt.Sprintf("/api/ratings/store/%d", storeID)

	f.do(t, http.MethodPost, path, a, gin.H{"rating": 2})
	f.do(t, http.MethodPost, path, b, gin.H{"rating": 5})

	code, env := f.do(t, http.MethodGet, path, "", nil)
	require.Equal(t, http.StatusOK, code)
	var byStore StoreRatingsResponse
	decode(t, env.Data, &byStore)
	assert.Len(t, byStore.Ratings, 2)
	assert.InDelta(t, 3.5, byStore.AverageRating, 0.0001)

	code, env = f.do(t, http.MethodGet, "/api/ratings", "", nil)
	require.Equal(t, http.StatusOK, code)
	var all []RatingResponse
	decode(t, env.Data, &all)
	assert.Len(t, all, 2)
}

func TestRatingController_AcceptsWholeFloat(t *testing.T) {
	f := setupControllerTest(t)

	owner, _ := f.register(t, longName, "owner@example.com", model.RoleStoreOwner)
	_, token := f.register(t, "Ordinary Shopper Person", "user@example.com", model.RoleUser)
	path := fmt.Sprintf("/api/ratings/store/%d", f.storeIDOf(t, owner.ID))

	code, env := f.do(t, http.MethodPost, path, token, `{"rating":3.0}`)
	require.Equal(t, http.StatusCreated, code, env.Message)
	var created struct {
		Rating RatingResponse `json:"rating"`
	}
	decode(t, env.Data, &created)
	assert.Equal(t, 3, created.Rating.Rating)

	code, env = f.do(t, http.MethodPut, path, token, `{"rating":5.0}`)
	require.Equal(t, http.StatusOK, code, env.Message)
	decode(t, env.Data, &created)
	assert.Equal(t, 5, created.Rating.Rating)
}
