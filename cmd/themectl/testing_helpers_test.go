package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

const testManifest = `
[[colour]]
name = "background"
value = "#202020"

[[colour]]
name = "accent"
value = "#3366cc"

[[image]]
name = "knob"
file = "knob.png"

[[image]]
name = "cursor"
file = "cursor.png"
flags = ["cursor"]

[[image]]
name = "cursor-mask"
file = "cursor.png"
flags = ["cursor"]

[[recolour]]
from = "#808080"
to = "#cc3333"

[[theme]]
id = "light"

[[theme]]
id = "dark"
appearance = "dark"
`

// setupWorkspace writes a manifest with its images to a temp dir and
// points the global flags at it.
func setupWorkspace(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	writeTestPNG(t, filepath.Join(dir, "knob.png"), 8, 8, color.NRGBA{R: 128, G: 128, B: 128, A: 255})
	writeTestPNG(t, filepath.Join(dir, "cursor.png"), 5, 9, color.NRGBA{R: 10, G: 200, B: 10, A: 180})
	require.NoError(t, os.WriteFile(filepath.Join(dir, "theme.toml"), []byte(testManifest), 0o644))

	manifestPath = filepath.Join(dir, "theme.toml")
	storeDir = filepath.Join(dir, "store")
	themeName = "light"
	verbose, quiet, jsonOut, noColor = false, false, false, true
	current = nil
	t.Cleanup(func() { current = nil })
	return dir
}

func writeTestPNG(t *testing.T, path string, w, h int, c color.NRGBA) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.SetNRGBA(x, y, c)
		}
	}
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout

	var buf bytes.Buffer
	_, err = buf.ReadFrom(r)
	require.NoError(t, err)
	return buf.String(), fnErr
}
