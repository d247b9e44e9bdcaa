package utils

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

func HashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(b), err
}

// VerifyAdminSecret checks a submitted admin password. A configured
// bcrypt hash wins over the plain-text secret; the plain-text path uses
// a constant-time comparison.
func VerifyAdminSecret(hash, plain, submitted string) bool {
	if hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(hash), []byte(submitted)) == nil
	}
	if plain == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(plain), []byte(submitted)) == 1
}
