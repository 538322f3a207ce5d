package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ggerrors "github.com/Aman-CERP/gitglob/internal/errors"
)

func TestServeCmd_UnknownTransport(t *testing.T) {
	isolateEnv(t)

	// Given: an unsupported transport
	// When: starting the server
	stdout, _, err := runCLI(t, "serve", "--transport", "http")

	// Then: it fails before touching stdout
	require.Error(t, err)
	assert.Equal(t, ggerrors.ErrCodeInvalidInput, ggerrors.GetCode(err))
	assert.Empty(t, stdout)
}

func TestServeCmd_RejectsArgs(t *testing.T) {
	isolateEnv(t)

	_, _, err := runCLI(t, "serve", "extra")

	assert.Error(t, err)
}
