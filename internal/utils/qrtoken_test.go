package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQRTokenRoundTrip(t *testing.T) {
	token, err := SignQRToken("test-secret", 42, time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	eventID, err := ParseQRToken("test-secret", token)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), eventID)
}

func TestQRTokenWrongSecret(t *testing.T) {
	token, err := SignQRToken("test-secret", 42, time.Now().Add(2*time.Hour))
	require.NoError(t, err)

	_, err = ParseQRToken("other-secret", token)
	assert.ErrorIs(t, err, ErrInvalidQRToken)
}

func TestQRTokenExpiresAfterEvent(t *testing.T) {
	// The token stays valid one hour past the event end, then expires.
	token, err := SignQRToken("test-secret", 42, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)

	_, err = ParseQRToken("test-secret", token)
	assert.ErrorIs(t, err, ErrInvalidQRToken)
}

func TestQRTokenGarbage(t *testing.T) {
	_, err := ParseQRToken("test-secret", "not-a-token")
	assert.ErrorIs(t, err, ErrInvalidQRToken)
}

func TestGenerateReceiptIDFormat(t *testing.T) {
	id, err := GenerateReceiptID()
	require.NoError(t, err)
	assert.Regexp(t, `^[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}$`, id)

	other, err := GenerateReceiptID()
	require.NoError(t, err)
	assert.NotEqual(t, id, other)
}
