package controller

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	"github.com/ikkim/store-rating-backend/internal/db"
	"github.com/ikkim/store-rating-backend/internal/middleware"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testSecret = "controller-test-secret"

type envelope struct {
	Status  string          `json:"status"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
	Errors  []struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	} `json:"errors"`
}

type controllerFixture struct {
	db     *gorm.DB
	engine *gin.Engine
}

// setupControllerTest mounts every handler on its production path with the
// same gates the router applies.
func setupControllerTest(t *testing.T) *controllerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	users := repository.NewUserRepository(testDB)
	stores := repository.NewStoreRepository(testDB)
	ratings := repository.NewRatingRepository(testDB)

	authService := service.NewAuthService(testDB, users, stores, nil, testSecret, time.Hour, 4)
	storeService := service.NewStoreService(testDB, stores, ratings)
	ratingService := service.NewRatingService(ratings, stores)
	adminService := service.NewAdminService(testDB, users, stores, ratings)

	userCtrl := NewUserController(authService)
	storeCtrl := NewStoreController(storeService)
	ratingCtrl := NewRatingController(ratingService)
	adminCtrl := NewAdminController(adminService, storeService, ratingService)
	auth := middleware.NewAuthMiddleware(testSecret, users, nil)
	protect := auth.Protect()
	owners := auth.Authorize(model.RoleStoreOwner, model.RoleAdmin)

	engine := gin.New()
	engine.Use(middleware.ErrorHandler())

	engine.POST("/api/users/register", userCtrl.Register)
	engine.POST("/api/users/login", userCtrl.Login)
	engine.GET("/api/users/profile", protect, userCtrl.GetProfile)
	engine.PUT("/api/users/profile", protect, userCtrl.UpdateProfile)
	engine.PUT("/api/users/password", protect, userCtrl.ChangePassword)
	engine.POST("/api/users/logout", protect, userCtrl.Logout)

	engine.GET("/api/stores", auth.OptionalAuthenticate(), storeCtrl.ListStores)
	engine.GET("/api/stores/:id", storeCtrl.GetStore)
	engine.POST("/api/stores", protect, owners, storeCtrl.CreateStore)
	engine.PUT("/api/stores/:id", protect, owners, storeCtrl.UpdateStore)
	engine.DELETE("/api/stores/:id", protect, owners, storeCtrl.DeleteStore)

	engine.GET("/api/ratings", ratingCtrl.ListRatings)
	engine.GET("/api/ratings/store/:storeId", ratingCtrl.ListStoreRatings)
	engine.POST("/api/ratings/store/:storeId", protect, ratingCtrl.CreateRating)
	engine.PUT("/api/ratings/store/:storeId", protect, ratingCtrl.UpdateRating)
	engine.DELETE("/api/ratings/store/:storeId", protect, ratingCtrl.DeleteRating)

	admin := engine.Group("/api/admin", protect, auth.Authorize(model.RoleAdmin))
	admin.GET("/stats", adminCtrl.GetStats)
	admin.GET("/users", adminCtrl.ListUsers)
	admin.DELETE("/users/:id", adminCtrl.DeleteUser)
	admin.GET("/stores", adminCtrl.ListStores)
	admin.GET("/ratings", adminCtrl.ListRatings)
	admin.POST("/users/register", userCtrl.Register)

	return &controllerFixture{db: testDB, engine: engine}
}

func (f *controllerFixture) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

// register returns the new user and its token.
func (f *controllerFixture) register(t *testing.T, name, email string, role model.UserRole) (UserResponse, string) {
	t.Helper()
	code, env := f.do(t, http.MethodPost, "/api/users/register", "", gin.H{
		"name":     name,
		"email":    email,
		"password": "secret1",
		"address":  "1 Infinite Loop",
		"role":     role,
	})
	require.Equal(t, http.StatusCreated, code, env.Message)

	var auth AuthResponse
	require.NoError(t, json.Unmarshal(env.Data, &auth))
	return auth.User, auth.Token
}

func (f *controllerFixture) storeIDOf(t *testing.T, ownerID uint) uint {
	t.Helper()
	var store model.Store
	require.NoError(t, f.db.Where("owner_id = ?", ownerID).First(&store).Error)
	return store.ID
}

func decode(t *testing.T, raw json.RawMessage, into interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(raw, into))
}
