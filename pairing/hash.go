package pairing

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
)

const (
	argonTime    = 1
	argonMemory  = 64 * 1024 // 64 MB
	argonThreads = 4
	argonKeyLen  = 32
	saltLen      = 16
)

// HashCode hashes a pairing code with Argon2id for the pairing_code_hash
// column. The code is normalized first, so "k7qp 2mxd" and "K7QP-2MXD" hash
// to a verifiable match.
func HashCode(code string) (string, error) {
	normalized, err := NormalizeCode(code)
	if err != nil {
		return "", err
	}

	salt := make([]byte, saltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("pairing: generate salt: %w", err)
	}

	hash := argon2.IDKey([]byte(normalized), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return fmt.Sprintf("%s$%s",
		base64.StdEncoding.EncodeToString(salt),
		base64.StdEncoding.EncodeToString(hash),
	), nil
}

// DummyVerify burns the same Argon2id cost as VerifyCode. Call it when no
// session matched so response timing does not reveal whether one exists.
func DummyVerify() {
	argon2.IDKey([]byte("dummy"), make([]byte, saltLen), argonTime, argonMemory, argonThreads, argonKeyLen)
}

// VerifyCode checks a pairing code against a HashCode result. A code that
// does not normalize simply fails to match.
func VerifyCode(code, encoded string) (bool, error) {
	saltPart, hashPart, ok := strings.Cut(encoded, "$")
	if !ok {
		return false, fmt.Errorf("pairing: invalid hash format")
	}

	salt, err := base64.StdEncoding.DecodeString(saltPart)
	if err != nil {
		return false, fmt.Errorf("pairing: decode salt: %w", err)
	}

	expectedHash, err := base64.StdEncoding.DecodeString(hashPart)
	if err != nil {
		return false, fmt.Errorf("pairing: decode hash: %w", err)
	}

	normalized, err := NormalizeCode(code)
	if err != nil {
		DummyVerify()
		return false, nil
	}

	computedHash := argon2.IDKey([]byte(normalized), salt, argonTime, argonMemory, argonThreads, argonKeyLen)

	return subtle.ConstantTimeCompare(expectedHash, computedHash) == 1, nil
}
