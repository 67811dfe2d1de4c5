package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func touch(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, nil, 0o644))
}

func TestListImages(t *testing.T) {
	dir := t.TempDir()
	for _, n := range []string{"b.jpg", "a.JPEG", "c.png", "notes.txt", "z.jpg"} {
		touch(t, filepath.Join(dir, n))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755))

	got, err := ListImages(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.JPEG", "b.jpg", "z.jpg"}, got)

	got, err = ListImages(dir, "png", ".TXT")
	require.NoError(t, err)
	assert.Equal(t, []string{"c.png", "notes.txt"}, got)

	_, err = ListImages(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestListImagesEmpty(t *testing.T) {
	got, err := ListImages(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestExists(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "x.jpg")
	ok, err := Exists(path)
	require.NoError(t, err)
	assert.False(t, ok)

	touch(t, path)
	ok, err = Exists(path)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestOutputName(t *testing.T) {
	assert.Equal(t, filepath.Join("imgs", "cat_2x.jpg"), OutputName(filepath.Join("imgs", "cat.jpg"), "2x", ""))
	assert.Equal(t, "cat_lanczos.png", OutputName("cat.jpeg", "lanczos", ".png"))
}
