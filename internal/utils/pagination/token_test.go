package pagination

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeToken(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 0, 0, 123456789, time.UTC)
	id := "1f0b7c1e-7a51-4c59-9d7e-3b1f5d0f2a11"

	token := EncodeToken(at, id)
	assert.NotEmpty(t, token)
	assert.NotContains(t, token, "|")

	gotAt, gotID, err := DecodeToken(token)
	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, id, gotID)
}

func TestEncodeToken_NormalisesZone(t *testing.T) {
	seoul := time.FixedZone("KST", 9*60*60)
	at := time.Date(2025, 3, 14, 18, 0, 0, 0, seoul)

	gotAt, _, err := DecodeToken(EncodeToken(at, "x"))
	require.NoError(t, err)
	assert.True(t, at.Equal(gotAt))
	assert.Equal(t, time.UTC, gotAt.Location())
}

func TestDecodeToken_Invalid(t *testing.T) {
	tests := map[string]string{
		"not base64":   "%%%",
		"no separator": encodeRaw("2025-03-14T09:00:00Z"),
		"empty id":     encodeRaw("2025-03-14T09:00:00Z|"),
		"bad time":     encodeRaw("yesterday|abc"),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, _, err := DecodeToken(token)
			assert.Error(t, err)
		})
	}
}

func encodeRaw(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}
