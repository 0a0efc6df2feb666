package pairing

import (
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
)

// codeAlphabet drops 0/O, 1/I/L and U so codes survive being read aloud.
const codeAlphabet = "23456789ABCDEFGHJKMNPQRSTVWXYZ"

// CodeLength is the number of significant characters in a pairing code.
const CodeLength = 8

var ErrMalformedCode = errors.New("pairing: malformed code")

// GenerateCode returns a fresh pairing code in display form, e.g. "K7QP-2MXD".
func GenerateCode() (string, error) {
	// 256 is not a multiple of the alphabet size; reject the biased tail.
	limit := byte(256 - 256%len(codeAlphabet))
	buf := make([]byte, CodeLength)
	out := make([]byte, 0, CodeLength)
	for len(out) < CodeLength {
		if _, err := rand.Read(buf); err != nil {
			return "", fmt.Errorf("pairing: generate code: %w", err)
		}
		for _, b := range buf {
			if b >= limit || len(out) == CodeLength {
				continue
			}
			out = append(out, codeAlphabet[int(b)%len(codeAlphabet)])
		}
	}
	return FormatCode(string(out)), nil
}

// NormalizeCode uppercases a typed or scanned code and strips separators.
// It returns ErrMalformedCode when the result is not CodeLength characters
// of the code alphabet.
func NormalizeCode(code string) (string, error) {
	var b strings.Builder
	for _, r := range strings.ToUpper(code) {
		switch {
		case r == '-' || r == ' ':
			continue
		case !strings.ContainsRune(codeAlphabet, r):
			return "", fmt.Errorf("%w: unexpected character %q", ErrMalformedCode, r)
		}
		b.WriteRune(r)
	}
	if b.Len() != CodeLength {
		return "", fmt.Errorf("%w: want %d characters, got %d", ErrMalformedCode, CodeLength, b.Len())
	}
	return b.String(), nil
}

// FormatCode splits a normalized code into two dash-separated halves.
func FormatCode(normalized string) string {
	half := len(normalized) / 2
	return normalized[:half] + "-" + normalized[half:]
}
