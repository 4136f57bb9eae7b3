// Package auth implements the credential store: one-way password
// hashing and verification. Plaintext passwords are never stored or
// logged anywhere in the application.
package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword produces a salted bcrypt hash of the password. The salt
// is generated per call and embedded in the returned hash.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored hash.
// Returns false for any mismatch, including a malformed hash; the
// underlying comparison is constant-time.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
