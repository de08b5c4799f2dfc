// Package hash provides the content fingerprinting used to bind acceptances
// to the exact waiver text they agreed to, and to checksum stored evidence.
package hash

import (
	"crypto/sha256"
	"encoding/hex"
)

// Bytes returns the lowercase hex SHA-256 digest of b.
// Deterministic and side-effect free: identical input always yields an
// identical digest.
func Bytes(b []byte) string {
	sum := sha256.Sum256(b)
	return hex.EncodeToString(sum[:])
}

// Text returns the digest of the UTF-8 encoding of s.
func Text(s string) string {
	return Bytes([]byte(s))
}
