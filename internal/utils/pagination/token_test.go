package pagination_test

import (
	"testing"
	"time"

	"github.com/SscSPs/erp_backend_app/internal/utils/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDateBasedTokenRoundTrip(t *testing.T) {
	now := time.Now().UTC()

	token := pagination.EncodeDateBasedToken(now)
	decoded, err := pagination.DecodeDateBasedToken(token)

	require.NoError(t, err)
	assert.True(t, now.Equal(decoded))
}

func TestDecodeDateBasedToken_Invalid(t *testing.T) {
	_, err := pagination.DecodeDateBasedToken("not-base64-!!")
	assert.Error(t, err)

	// Valid base64 but not a timestamp
	_, err = pagination.DecodeDateBasedToken("aGVsbG8=")
	assert.Error(t, err)
}

func TestMultiFieldTokenRoundTrip(t *testing.T) {
	fields := []string{"2024-01-01T00:00:00Z", "adj-123"}

	token := pagination.EncodeMultiFieldToken(fields...)
	decoded, err := pagination.DecodeMultiFieldToken(token)

	require.NoError(t, err)
	assert.Equal(t, fields, decoded)
}
