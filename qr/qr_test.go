package qr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	payload, err := BuildPayload("http://localhost:3000/verify", "widget-42")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000/verify?productId=widget-42", payload)

	id, err := ParsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "widget-42", id)
}

func TestPayloadEscaping(t *testing.T) {
	payload, err := BuildPayload("http://localhost:3000/verify", "red apple/1")
	require.NoError(t, err)

	id, err := ParsePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, "red apple/1", id)
}

func TestParsePayloadMissingParam(t *testing.T) {
	_, err := ParsePayload("http://localhost:3000/verify?foo=bar")
	assert.ErrorIs(t, err, ErrNoProductID)
}

func TestImage(t *testing.T) {
	png, err := Image("http://localhost:3000/verify", "widget-42", 256)
	require.NoError(t, err)
	assert.NotEmpty(t, png)
	// PNG magic bytes.
	assert.Equal(t, byte(0x89), png[0])
	assert.Equal(t, []byte("PNG"), png[1:4])
}
