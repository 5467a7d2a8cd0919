package auth

import (
	"golang.org/x/crypto/bcrypt"

	"mingle/apperr"
)

// HashPassword returns a salted bcrypt hash of raw.
func HashPassword(raw string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(raw), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Infrastructure("hash password", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether raw matches hash.
func CheckPassword(hash, raw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(raw)) == nil
}
