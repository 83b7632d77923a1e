package main

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	"github.com/ikkim/store-rating-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func writeSheet(t *testing.T, rows [][]interface{}) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cellRef, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		r := row
		require.NoError(t, f.SetSheetRow(sheet, cellRef, &r))
	}

	path := filepath.Join(t.TempDir(), "users.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestReadUsersFromXLSX(t *testing.T) {
	path := writeSheet(t, [][]interface{}{
		{"name", "email", "password", "address", "role"},
		{"Seeded Regular User Account", "user@example.com", "secret1", "1 Main St", "user"},
		{},
		{"Seeded Store Owner Account", "owner@example.com", "secret1"},
	})

	rows, err := readUsersFromXLSX(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, 2, rows[0].line)
	assert.Equal(t, model.RoleUser, rows[0].req.Role)
	assert.Equal(t, "1 Main St", rows[0].req.Address)

	assert.Equal(t, 4, rows[1].line)
	assert.Empty(t, rows[1].req.Address)
	assert.Empty(t, rows[1].req.Role)
}

func TestReadUsersFromXLSX_MissingFile(t *testing.T) {
	_, err := readUsersFromXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}

func TestImportUsers(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	defer db.CleanupTestDB(testDB)

	users := repository.NewUserRepository(testDB)
	stores := repository.NewStoreRepository(testDB)
	auth := service.NewAuthService(testDB, users, stores, nil, "seed-secret", time.Hour, 4)

	rows := parseRows([][]string{
		{"name", "email", "password", "address", "role"},
		{"Seeded Store Owner Account", "owner@example.com", "secret1", "2 Side St", "STORE_OWNER"},
		{"Short", "short@example.com", "secret1", "", ""},
		{"Seeded Regular User Account", "user@example.com", "secret1", "", ""},
		{"Seeded Duplicate User Account", "user@example.com", "secret1", "", ""},
	})

	imported, skipped := importUsers(context.Background(), auth, rows)
	assert.Equal(t, 2, imported)
	assert.Equal(t, 2, skipped)

	ctx := context.Background()
	owner, err := users.FindByEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleStoreOwner, owner.Role)

	store, err := stores.FindFirstByOwnerEmail(ctx, "owner@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.DefaultStoreName(owner.Name), store.Name)

	regular, err := users.FindByEmail(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, regular.Role)
}
