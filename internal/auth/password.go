// ABOUTME: Password hashing helpers for admin credentials
// ABOUTME: bcrypt with a dummy-compare path to keep login timing uniform

package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when the looked-up user has no usable hash,
// so login attempts for unknown emails take as long as real comparisons.
// This prevents timing attacks that could enumerate valid accounts.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether password matches the bcrypt hash. An empty
// hash is replaced by a fixed dummy hash and always fails, but only after a
// full bcrypt comparison.
func VerifyPassword(hash, password string) bool {
	if hash == "" {
		_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
