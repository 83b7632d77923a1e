package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	"github.com/ikkim/store-rating-backend/internal/db"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testSecret     = "test-jwt-secret"
	testBcryptCost = 4
)

type fakeRevoker struct {
	mu      sync.Mutex
	revoked map[string]time.Duration
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]time.Duration{}}
}

func (f *fakeRevoker) Revoke(_ context.Context, token string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.revoked[token] = ttl
	return nil
}

type serviceFixture struct {
	db      *gorm.DB
	users   repository.UserRepository
	stores  repository.StoreRepository
	ratings repository.RatingRepository
	revoker *fakeRevoker

	auth      AuthService
	storeSvc  StoreService
	ratingSvc RatingService
	admin     AdminService
}

func setupServiceTest(t *testing.T) *serviceFixture {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	f := &serviceFixture{
		db:      testDB,
		users:   repository.NewUserRepository(testDB),
		stores:  repository.NewStoreRepository(testDB),
		ratings: repository.NewRatingRepository(testDB),
		revoker: newFakeRevoker(),
	}
	f.auth = NewAuthService(testDB, f.users, f.stores, f.revoker, testSecret, 30*24*time.Hour, testBcryptCost)
	f.storeSvc = NewStoreService(testDB, f.stores, f.ratings)
	f.ratingSvc = NewRatingService(f.ratings, f.stores)
	f.admin = NewAdminService(testDB, f.users, f.stores, f.ratings)
	return f
}

// register creates a user through the auth service and returns its identity.
func (f *serviceFixture) register(t *testing.T, local string, role model.UserRole) (*model.User, model.Identity) {
	t.Helper()
	user, _, err := f.auth.Register(context.Background(), RegisterInput{
		Name:     "Service Test Account " + local,
		Email:    local + "@example.com",
		Password: "secret1",
		Address:  "1 Main Street",
		Role:     role,
	})
	require.NoError(t, err)
	return user, user.Identity()
}

func (f *serviceFixture) storeOf(t *testing.T, ownerID uint) *model.Store {
	t.Helper()
	var store model.Store
	require.NoError(t, f.db.Where("owner_id = ?", ownerID).First(&store).Error)
	return &store
}
