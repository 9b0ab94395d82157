package state

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	assert.Equal(t, filepath.Join("/work", ".codemend"), DirPath("/work"))
	assert.Equal(t, filepath.Join("/work", ".codemend", "logs"), LogsDirPath("/work"))
	assert.Equal(t, filepath.Join("/work", ".codemend", "logs", "ollama"), OllamaLogsDirPath("/work"))
	assert.Equal(t, filepath.Join("/work", ".codemend", "state"), StateDirPath("/work"))
}

func TestEnsureDirs(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, EnsureDirs(root))

	for _, dir := range []string{
		DirPath(root),
		LogsDirPath(root),
		OllamaLogsDirPath(root),
		StateDirPath(root),
	} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}
}

func TestEnsureDirs_Idempotent(t *testing.T) {
	root := t.TempDir()

	require.NoError(t, EnsureDirs(root))
	require.NoError(t, EnsureDirs(root))
}

func TestEnsureDirs_MissingRoot(t *testing.T) {
	err := EnsureDirs(filepath.Join(t.TempDir(), "does-not-exist"))
	assert.Error(t, err)
}
