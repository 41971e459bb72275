package filex

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveStream(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "downloads")

	path, err := SaveStream(dir, "a.txt", strings.NewReader("hello"))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestSaveStream_DoesNotOverwrite(t *testing.T) {
	dir := t.TempDir()

	first, err := SaveStream(dir, "a.txt", strings.NewReader("one"))
	require.NoError(t, err)
	second, err := SaveStream(dir, "a.txt", strings.NewReader("two"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, strings.HasSuffix(second, ".txt"))

	data, _ := os.ReadFile(first)
	assert.Equal(t, "one", string(data))
	data, _ = os.ReadFile(second)
	assert.Equal(t, "two", string(data))
}

func TestSaveStream_StripsDirectoryComponents(t *testing.T) {
	dir := t.TempDir()

	path, err := SaveStream(dir, "../../escape.txt", strings.NewReader("x"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "escape.txt"), path)
}
