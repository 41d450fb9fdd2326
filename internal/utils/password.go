package utils

import (
	"errors" // Error inspection

	"golang.org/x/crypto/bcrypt" // Password hashing
)

// ErrPasswordTooLong is returned for passwords bcrypt cannot hash
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// HashPassword hashes a plaintext password with bcrypt at the given cost
func HashPassword(password string, cost int) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost) // Salted hash
	if err != nil {
		return "", err // Too long or invalid cost
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the bcrypt hash
func CheckPassword(hash, password string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil // Wrong password is not an error
	}
	if err != nil {
		return false, err // Malformed hash
	}
	return true, nil
}
