package cli

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInteractive(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.jpg"), 8, 6)
	writeImage(t, filepath.Join(dir, "b.jpg"), 8, 6)
	writeImage(t, filepath.Join(dir, "c.png"), 8, 6)

	// image 2, default output, bicubic, same scale, 2x
	r := run(t, "2\n\nbicubic\n\n2\n", "interactive", dir)
	require.Equal(t, ExitOK, r.code, r.errOut)
	assert.Contains(t, r.out, "1) a.jpg")
	assert.NotContains(t, r.out, "c.png")

	w, h := imageSize(t, filepath.Join(dir, "b_upscaled.jpg"))
	assert.Equal(t, 16, w)
	assert.Equal(t, 12, h)
}

func TestInteractiveSeparateScales(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.jpg"), 8, 6)

	// default method is lanczos
	r := run(t, "1\nwide.png\n\nn\n3\n1\n", "interactive", dir)
	require.Equal(t, ExitOK, r.code, r.errOut)
	w, h := imageSize(t, filepath.Join(dir, "wide.png"))
	assert.Equal(t, 24, w)
	assert.Equal(t, 6, h)
}

func TestInteractiveOverwrite(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "b.jpg"), 8, 6)
	writeImage(t, filepath.Join(dir, "b_upscaled.jpg"), 1, 1)

	// decline the overwrite, pick a new name, then edi at 2x
	r := run(t, "b.jpg\n\nn\nout.png\n3\n2\n", "interactive", dir)
	require.Equal(t, ExitOK, r.code, r.errOut)
	assert.Contains(t, r.out, "exists. Overwrite?")

	w, _ := imageSize(t, filepath.Join(dir, "b_upscaled.jpg"))
	assert.Equal(t, 1, w)
	w, h := imageSize(t, filepath.Join(dir, "out.png"))
	assert.Equal(t, 16, w)
	assert.Equal(t, 12, h)
}

func TestInteractiveRetriesBadAnswers(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.jpg"), 4, 4)
	writeImage(t, filepath.Join(dir, "ab.jpg"), 4, 4)

	// "a" is ambiguous, 9 is out of range, "x" and "-1" are not scales
	r := run(t, "a\n9\nab\nout.bmp\nedi\nx\n-1\n2\n", "interactive", "--all", dir)
	require.Equal(t, ExitOK, r.code, r.errOut)
	assert.Contains(t, r.out, "ambiguous selection")
	assert.Contains(t, r.out, "invalid selection")
	assert.Contains(t, r.out, "invalid scale")

	w, _ := imageSize(t, filepath.Join(dir, "out.bmp"))
	assert.Equal(t, 8, w)
}

func TestInteractiveDeviceSkipsMethodMenu(t *testing.T) {
	isolate(t)
	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.jpg"), 8, 6)

	// image, default output, same scale, 2x; no method question
	r := run(t, "1\n\n\n2\n", "--backend", "gpu", "interactive", dir)
	require.Equal(t, ExitOK, r.code, r.errOut)
	assert.Contains(t, r.out, "Method: lanczos (the only method on the gpu backend)")
	assert.NotContains(t, r.out, "bicubic")

	w, h := imageSize(t, filepath.Join(dir, "a_upscaled.jpg"))
	assert.Equal(t, 16, w)
	assert.Equal(t, 12, h)
}

func TestInteractiveFailures(t *testing.T) {
	isolate(t)
	empty := t.TempDir()
	r := run(t, "", "interactive", empty)
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.errOut, "no images found")

	dir := t.TempDir()
	writeImage(t, filepath.Join(dir, "a.jpg"), 4, 4)
	r = run(t, "", "interactive", dir)
	assert.Equal(t, ExitFailure, r.code, "end of input aborts")

	r = run(t, "\n", "interactive", dir)
	assert.Equal(t, ExitFailure, r.code)
	assert.Contains(t, r.errOut, errCancelled.Error())
}
