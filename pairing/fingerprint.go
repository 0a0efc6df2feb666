package pairing

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
)

// PublicKeySize is the length of a libsodium box or sign public key.
const PublicKeySize = 32

var ErrInvalidPublicKey = errors.New("pairing: invalid public key")

// DecodePublicKey accepts the standard or URL-safe base64 encodings, padded
// or not, that nodes and devices send for identity_pubkey.
func DecodePublicKey(encoded string) ([]byte, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(encoded), "=")
	for _, enc := range []*base64.Encoding{base64.RawStdEncoding, base64.RawURLEncoding} {
		key, err := enc.DecodeString(trimmed)
		if err != nil {
			continue
		}
		if len(key) != PublicKeySize {
			return nil, fmt.Errorf("%w: want %d bytes, got %d", ErrInvalidPublicKey, PublicKeySize, len(key))
		}
		return key, nil
	}
	return nil, fmt.Errorf("%w: not base64", ErrInvalidPublicKey)
}

// Fingerprint derives the identity_fingerprint column from a base64 public
// key: the SHA-256 of the raw key bytes as lowercase hex, in colon-separated
// groups of four so people can compare it across devices.
func Fingerprint(pubkey string) (string, error) {
	key, err := DecodePublicKey(pubkey)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(key)
	digest := hex.EncodeToString(sum[:])

	groups := make([]string, 0, len(digest)/4)
	for i := 0; i < len(digest); i += 4 {
		groups = append(groups, digest[i:i+4])
	}
	return strings.Join(groups, ":"), nil
}

// ShortFingerprint is the first four groups, for compact display.
func ShortFingerprint(fingerprint string) string {
	groups := strings.SplitN(fingerprint, ":", 5)
	if len(groups) < 4 {
		return fingerprint
	}
	return strings.Join(groups[:4], ":")
}
