package service

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
)

// hashToken returns the hex SHA-256 of a token. Refresh tokens are stored in
// this form only.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// tokenHashMatches compares a presented token with a stored hash in constant
// time. An empty stored hash never matches.
func tokenHashMatches(token, storedHash string) bool {
	if storedHash == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(hashToken(token)), []byte(storedHash)) == 1
}
