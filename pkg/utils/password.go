package utils

import "golang.org/x/crypto/bcrypt"

// DefaultBcryptCost is the work factor for new password hashes
const DefaultBcryptCost = 12

// BcryptCost is lowered by tests that hash many passwords
var BcryptCost = DefaultBcryptCost

// HashPassword generates a bcrypt hash from a plain text password.
// Passwords longer than 72 bytes are rejected by bcrypt.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	return string(bytes), err
}

// ComparePassword compares a bcrypt hashed password with plain text password
func ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}

// NeedsRehash reports whether a stored hash was made with a different cost than BcryptCost
func NeedsRehash(hashedPassword string) bool {
	cost, err := bcrypt.Cost([]byte(hashedPassword))
	return err != nil || cost != BcryptCost
}
