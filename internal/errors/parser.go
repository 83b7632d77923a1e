package errors

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// PostgreSQL SQLSTATE codes
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// DBError marks a failure that came out of the persistence layer.
type DBError struct {
	Op  string
	Err error
}

func (e *DBError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *DBError) Unwrap() error { return e.Err }

// WrapDB tags err as a persistence failure of op. nil stays nil.
func WrapDB(op string, err error) error {
	if err == nil {
		return nil
	}
	return &DBError{Op: op, Err: err}
}

// IsNotFound reports a missing row.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsUniqueViolation recognises unique-constraint failures from postgres
// (pgx), sqlite, and gorm's translated sentinel.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

// IsForeignKeyViolation recognises FK failures the same way.
func IsForeignKeyViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgForeignKeyViolation
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}

// Classify turns any error into an AppError. AppErrors pass through;
// persistence failures collapse into coarse categories; everything else is
// an unhandled 500. Raw driver text never ends up in Message.
func Classify(err error) *AppError {
	if appErr, ok := As(err); ok {
		return appErr
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		switch {
		case IsNotFound(err):
			return &AppError{Kind: KindNotFound, Message: "Resource not found", Err: err}
		case IsUniqueViolation(err):
			return &AppError{Kind: KindConflict, Message: "A unique constraint violation occurred", Err: err}
		case IsForeignKeyViolation(err):
			return &AppError{Kind: KindPersistence, Message: "Invalid reference data provided", Err: err}
		default:
			return &AppError{Kind: KindPersistence, Message: "Database operation failed", Err: err}
		}
	}

	return &AppError{Kind: KindInternal, Message: "Internal server error", Err: err}
}
