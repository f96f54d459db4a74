package pbit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/feichai0017/pbit-mentor/internal/errs"
)

func TestParseSchema(t *testing.T) {
	tree, err := ParseSchema(`{"name": "M", "compatibilityLevel": 1567}`)
	require.NoError(t, err)
	assert.Equal(t, "M", tree["name"])
	assert.Equal(t, float64(1567), tree["compatibilityLevel"])
}

func TestParseSchema_InvalidJSONCarriesRawText(t *testing.T) {
	_, err := ParseSchema(`{"name": truncated`)
	require.ErrorIs(t, err, errs.ErrMalformedContent)
	assert.Contains(t, err.Error(), `{"name": truncated`)
}

func TestParseSchema_NonObjectRoot(t *testing.T) {
	_, err := ParseSchema(`[1, 2, 3]`)
	assert.ErrorIs(t, err, errs.ErrMalformedContent)
}
