package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/ikkim/store-rating-backend/config"
	"github.com/ikkim/store-rating-backend/internal/app/controller"
	"github.com/ikkim/store-rating-backend/internal/app/model"
	"github.com/ikkim/store-rating-backend/internal/app/repository"
	"github.com/ikkim/store-rating-backend/internal/app/service"
	"github.com/ikkim/store-rating-backend/internal/db"
	"github.com/ikkim/store-rating-backend/internal/validation"
	"github.com/ikkim/store-rating-backend/pkg/logger"
	"github.com/xuri/excelize/v2"
)

// Column order of the import sheet.
const (
	colName = iota
	colEmail
	colPassword
	colAddress
	colRole
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("Usage: go run cmd/seed/main.go <xlsx_file_path>")
	}
	filePath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}
	logger.Initialize(logger.Config{Level: "warn", Format: "console"})

	if err := db.Initialize(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	fmt.Printf("Reading XLSX file: %s\n", filePath)
	rows, err := readUsersFromXLSX(filePath)
	if err != nil {
		log.Fatal("Failed to read XLSX:", err)
	}
	fmt.Printf("Total users to import: %d\n", len(rows))

	conn := db.GetDB()
	userRepo := repository.NewUserRepository(conn)
	storeRepo := repository.NewStoreRepository(conn)
	authService := service.NewAuthService(conn, userRepo, storeRepo, nil, cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.BcryptCost)

	imported, skipped := importUsers(context.Background(), authService, rows)

	fmt.Printf("\nSummary:\n")
	fmt.Printf("  Imported: %d\n", imported)
	fmt.Printf("  Skipped:  %d\n", skipped)
}

// sheetRow is one data row with its 1-based sheet line for reporting.
type sheetRow struct {
	line int
	req  controller.RegisterRequest
}

func readUsersFromXLSX(filePath string) ([]sheetRow, error) {
	f, err := excelize.OpenFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open XLSX file: %w", err)
	}
	defer f.Close()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, fmt.Errorf("no sheets found in XLSX file")
	}

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no data found in XLSX file")
	}

	return parseRows(rows), nil
}

// parseRows drops the header and blank lines. Missing trailing cells read as
// empty strings.
func parseRows(rows [][]string) []sheetRow {
	var out []sheetRow
	for i, row := range rows {
		if i == 0 {
			continue
		}
		if strings.TrimSpace(strings.Join(row, "")) == "" {
			continue
		}
		out = append(out, sheetRow{
			line: i + 1,
			req: controller.RegisterRequest{
				Name:     cell(row, colName),
				Email:    cell(row, colEmail),
				Password: cell(row, colPassword),
				Address:  cell(row, colAddress),
				Role:     model.UserRole(strings.ToUpper(cell(row, colRole))),
			},
		})
	}
	return out
}

func cell(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

func importUsers(ctx context.Context, auth service.AuthService, rows []sheetRow) (imported, skipped int) {
	for _, r := range rows {
		if err := validation.Struct(&r.req); err != nil {
			fmt.Printf("  line %d: skipped (%v)\n", r.line, err)
			skipped++
			continue
		}

		_, _, err := auth.Register(ctx, service.RegisterInput{
			Name:     r.req.Name,
			Email:    r.req.Email,
			Password: r.req.Password,
			Address:  r.req.Address,
			Role:     r.req.Role,
		})
		if err != nil {
			fmt.Printf("  line %d: skipped (%v)\n", r.line, err)
			skipped++
			continue
		}
		imported++
	}
	return imported, skipped
}
