package incremental

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "common"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "common", "money.proto"), []byte("message Money {}"), 0o644))

	f := NewFingerprinter()

	fp, err := f.Fingerprint(root, filepath.Join("common", "money.proto"))
	require.NoError(t, err)
	assert.Equal(t, "common/money.proto", fp.Path)
	assert.Equal(t, int64(16), fp.Size)
	assert.Len(t, fp.Hash, 64)

	t.Run("stable across calls", func(t *testing.T) {
		again, err := f.Fingerprint(root, filepath.Join("common", "money.proto"))
		require.NoError(t, err)
		assert.Equal(t, fp.Hash, again.Hash)
	})

	t.Run("missing file errors", func(t *testing.T) {
		_, err := f.Fingerprint(root, "missing.proto")
		assert.Error(t, err)
	})
}

func TestFingerprintAll(t *testing.T) {
	root := t.TempDir()
	files := []string{"a.proto", "b.proto", "c.proto"}
	for _, name := range files {
		require.NoError(t, os.WriteFile(filepath.Join(root, name), []byte("content of "+name), 0o644))
	}

	f := NewFingerprinter()
	result, err := f.FingerprintAll(context.Background(), root, files)
	require.NoError(t, err)
	require.Len(t, result, 3)

	for _, name := range files {
		fp, ok := result[name]
		require.True(t, ok, name)
		assert.NotEmpty(t, fp.Hash)
	}

	// Distinct content yields distinct hashes.
	assert.NotEqual(t, result["a.proto"].Hash, result["b.proto"].Hash)

	t.Run("first failure aborts", func(t *testing.T) {
		_, err := f.FingerprintAll(context.Background(), root, append(files, "missing.proto"))
		assert.Error(t, err)
	})
}
