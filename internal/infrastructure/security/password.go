package security

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/pbkdf2"
)

const (
	saltLength = 16
	iterations = 10000
	keyLength  = 32
)

var ErrInvalidHashFormat = errors.New("invalid password hash format")

// HashPassword derives a PBKDF2-SHA256 hash with a fresh random salt.
// The stored form is "salt:hash", both hex encoded.
func HashPassword(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, keyLength, sha256.New)
	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword re-derives the hash with the stored salt and compares in
// constant time.
func VerifyPassword(password, stored string) (bool, error) {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok {
		return false, ErrInvalidHashFormat
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false, ErrInvalidHashFormat
	}
	expected, err := hex.DecodeString(hashHex)
	if err != nil {
		return false, ErrInvalidHashFormat
	}

	key := pbkdf2.Key([]byte(password), salt, iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1, nil
}
