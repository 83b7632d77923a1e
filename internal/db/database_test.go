package db

import (
	"testing"

	"github.com/ikkim/store-rating-backend/config"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupTestDB_MigratesTables(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(conn)

	for _, m := range models() {
		assert.True(t, conn.Migrator().HasTable(m))
	}
	assert.True(t, conn.Migrator().HasIndex(&model.Rating{}, "idx_ratings_user_store"))
}

func TestTruncateAllTables(t *testing.T) {
	conn, err := SetupTestDB()
	require.NoError(t, err)
	defer CleanupTestDB(conn)

	user := &model.User{Name: "Truncate Test User Name", Email: "t@example.com", PasswordHash: "x", Role: model.RoleStoreOwner}
	require.NoError(t, conn.Create(user).Error)
	require.NoError(t, conn.Create(&model.Store{Name: "s", Email: "t@example.com", OwnerID: user.ID}).Error)

	require.NoError(t, TruncateAllTables(conn))

	var count int64
	conn.Model(&model.User{}).Count(&count)
	assert.Zero(t, count)
}

func TestInitialize_UnsupportedDriver(t *testing.T) {
	err := Initialize(&config.DatabaseConfig{Driver: "mysql"})
	assert.Error(t, err)
}

func TestInitialize_SQLiteFile(t *testing.T) {
	path := t.TempDir() + "/store_rating.db"
	require.NoError(t, Initialize(&config.DatabaseConfig{Driver: DriverSQLite, SQLitePath: path}))
	defer Close()

	require.NoError(t, Migrate())
	assert.True(t, GetDB().Migrator().HasTable(&model.Store{}))
}
