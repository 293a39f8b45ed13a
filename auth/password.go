package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when none is configured. It keeps
// interactive login latency acceptable.
const DefaultBcryptCost = 10

// HashPassword produces a salted bcrypt hash of the plaintext. The salt is
// embedded in the output, so hashing the same password twice yields different
// strings that both verify.
func HashPassword(plaintext string, cost int) (string, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hashed), nil
}

// CheckPassword reports whether the plaintext matches the stored hash. A
// malformed hash is simply a non-match, never an error.
func CheckPassword(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
