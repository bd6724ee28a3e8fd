// Package password wraps bcrypt hashing and verification. Hashing is applied
// unconditionally on every create and password change; plaintext never
// reaches a repository.
package password

import "golang.org/x/crypto/bcrypt"

// Hash returns the bcrypt hash of the plaintext password.
func Hash(plaintext string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches reports whether the plaintext password matches the stored hash.
func Matches(hash, plaintext string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
