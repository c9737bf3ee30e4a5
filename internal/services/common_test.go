package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"campdir/internal/apperr"
)

func TestParseID(t *testing.T) {
	id, err := parseID("5d713995b721c3bb38c1f5d0")
	require.NoError(t, err)
	assert.Equal(t, "5d713995b721c3bb38c1f5d0", id.Hex())

	_, err = parseID("not-a-hex-id")
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, "Resource not found with id not-a-hex-id", ae.Message)
}
