package pairing_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/limerclaw/shared-types/pairing"
)

func TestGenerateCode(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		code, err := pairing.GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, pairing.CodeLength+1)
		assert.Equal(t, byte('-'), code[pairing.CodeLength/2])

		normalized, err := pairing.NormalizeCode(code)
		require.NoError(t, err)
		assert.Equal(t, code, pairing.FormatCode(normalized))
		seen[code] = true
	}
	assert.Greater(t, len(seen), 45, "codes should not repeat")
}

func TestNormalizeCode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"display form", "K7QP-2MXD", "K7QP2MXD", true},
		{"lower case with space", "k7qp 2mxd", "K7QP2MXD", true},
		{"no separator", "K7QP2MXD", "K7QP2MXD", true},
		{"ambiguous zero", "K7QP-2MX0", "", false},
		{"ambiguous letter O", "KOQP-2MXD", "", false},
		{"too short", "K7QP-2MX", "", false},
		{"too long", "K7QP-2MXDD", "", false},
		{"non ascii", "K7QP-2MXÐ", "", false},
		{"empty", "", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := pairing.NormalizeCode(tt.input)
			if !tt.ok {
				require.ErrorIs(t, err, pairing.ErrMalformedCode)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHashCodeVerify(t *testing.T) {
	hash, err := pairing.HashCode("K7QP-2MXD")
	require.NoError(t, err)
	assert.NotContains(t, hash, "K7QP")
	assert.Equal(t, 1, strings.Count(hash, "$"))

	ok, err := pairing.VerifyCode("k7qp 2mxd", hash)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = pairing.VerifyCode("K7QP-2MXE", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = pairing.VerifyCode("nope", hash)
	require.NoError(t, err)
	assert.False(t, ok)

	again, err := pairing.HashCode("K7QP-2MXD")
	require.NoError(t, err)
	assert.NotEqual(t, hash, again, "salts differ")

	_, err = pairing.HashCode("bad")
	require.ErrorIs(t, err, pairing.ErrMalformedCode)

	_, err = pairing.VerifyCode("K7QP-2MXD", "no-separator")
	assert.Error(t, err)
	_, err = pairing.VerifyCode("K7QP-2MXD", "!!!$AAAA")
	assert.Error(t, err)
}
