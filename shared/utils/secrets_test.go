package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadSecret(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SECRETS_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "jwt_secret"), []byte("  s3cret\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "empty"), []byte("\n"), 0o600))

	secret, err := ReadSecret("jwt_secret")
	require.NoError(t, err)
	assert.Equal(t, "s3cret", secret)

	_, err = ReadSecret("empty")
	assert.Error(t, err)

	_, err = ReadSecret("missing")
	assert.Error(t, err)
	assert.Equal(t, "", ReadOptionalSecret("missing"))
}
