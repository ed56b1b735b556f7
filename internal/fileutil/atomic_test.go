package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteAtomic_Success(t *testing.T) {
	t.Parallel()

	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "keypair.json")

	require.NoError(t, os.WriteFile(target, []byte("old"), 0o644)) //nolint:gosec // G306: Test file, relaxed perms OK
	require.NoError(t, WriteAtomic(target, []byte("new"), 0o600))

	data, err := os.ReadFile(target) //nolint:gosec // G304: Test path from t.TempDir()
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))

	info, err := os.Stat(target)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriteAtomic_CreatesParentDirectory(t *testing.T) {
	t.Parallel()

	target := filepath.Join(t.TempDir(), ".data", "keypair.json")
	require.NoError(t, WriteAtomic(target, []byte("{}"), 0o600))

	info, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestWriteAtomic_FailureLeavesOriginalFile(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for root")
	}

	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "keypair.json")
	require.NoError(t, os.WriteFile(target, []byte("original"), 0o644)) //nolint:gosec // G306: Test file, relaxed perms OK

	require.NoError(t, os.Chmod(tmpDir, 0o500)) //nolint:gosec // G302: Test uses intentionally restrictive perms
	defer func() {
		_ = os.Chmod(tmpDir, 0o700) //nolint:gosec // G302: Restoring perms in test cleanup
	}()

	err := WriteAtomic(target, []byte("replacement"), 0o600)
	require.Error(t, err)

	data, readErr := os.ReadFile(target) //nolint:gosec // G304: Test path from t.TempDir()
	require.NoError(t, readErr)
	assert.Equal(t, "original", string(data))
}

func TestWriteAtomic_EmptyPath(t *testing.T) {
	t.Parallel()
	err := WriteAtomic("", []byte("data"), 0o600)
	require.ErrorIs(t, err, ErrEmptyPath)
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	type doc struct {
		PublicKey string `json:"publicKey"`
	}

	target := filepath.Join(t.TempDir(), "doc.json")
	require.NoError(t, WriteJSONAtomic(target, doc{PublicKey: "abc"}, 0o600))

	var got doc
	require.NoError(t, ReadJSON(target, &got))
	assert.Equal(t, "abc", got.PublicKey)
}

func TestReadJSON_Errors(t *testing.T) {
	t.Parallel()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()
		var v map[string]string
		err := ReadJSON(filepath.Join(t.TempDir(), "missing.json"), &v)
		require.Error(t, err)
		assert.True(t, errors.Is(err, os.ErrNotExist))
	})

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()
		target := filepath.Join(t.TempDir(), "bad.json")
		require.NoError(t, os.WriteFile(target, []byte("{not json"), 0o600))
		var v map[string]string
		require.Error(t, ReadJSON(target, &v))
	})

	t.Run("empty path", func(t *testing.T) {
		t.Parallel()
		var v map[string]string
		require.ErrorIs(t, ReadJSON("", &v), ErrEmptyPath)
	})
}

func TestExists(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	ok, err := Exists(dir)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = Exists(filepath.Join(dir, "nope"))
	require.NoError(t, err)
	assert.False(t, ok)
}
