package util

import (
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when the configured cost is unset.
const DefaultBcryptCost = 10

// HashPassword hashes a plain text password with the given bcrypt cost.
// A cost outside bcrypt's accepted range falls back to DefaultBcryptCost.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// VerifyPassword checks if a plain text password matches a hashed password
func VerifyPassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
