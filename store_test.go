package themeatlas

import (
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStores(t *testing.T) {
	stores := map[string]Store{
		"mem": &MemStore{},
		"dir": DirStore{Root: t.TempDir()},
	}
	for name, s := range stores {
		t.Run(name, func(t *testing.T) {
			_, err := s.Open("light/ImageCache.png")
			require.ErrorIs(t, err, fs.ErrNotExist)

			require.NoError(t, writeAll(s, "light/ImageCache.png", []byte("atlas")))
			b, err := readAll(s, "light/ImageCache.png")
			require.NoError(t, err)
			assert.Equal(t, []byte("atlas"), b)

			require.NoError(t, s.Remove("light/ImageCache.png"))
			require.NoError(t, s.Remove("light/ImageCache.png"), "removing a missing file is fine")
			_, err = readAll(s, "light/ImageCache.png")
			assert.ErrorIs(t, err, fs.ErrNotExist)
		})
	}
}

func TestDirStore_StaysUnderRoot(t *testing.T) {
	root := t.TempDir()
	s := DirStore{Root: filepath.Join(root, "themes")}
	require.NoError(t, writeAll(s, "../../escape.txt", []byte("x")))
	_, err := os.Stat(filepath.Join(root, "themes", "escape.txt"))
	assert.NoError(t, err)
}

func TestMemStore_CommitOnClose(t *testing.T) {
	s := &MemStore{}
	w, err := s.Create("a")
	require.NoError(t, err)
	_, err = io.WriteString(w, "partial")
	require.NoError(t, err)
	_, ok := s.Bytes("a")
	assert.False(t, ok)
	require.NoError(t, w.Close())
	assert.Error(t, w.Close())
	b, ok := s.Bytes("a")
	assert.True(t, ok)
	assert.Equal(t, "partial", string(b))
}

func TestDirStore_ThemeCache(t *testing.T) {
	s := DirStore{Root: t.TempDir()}
	src := newSampleTheme(s)
	require.NoError(t, src.CreateImageCache(ThemeLight, true))
	_, err := os.Stat(filepath.Join(s.Root, "light", "ImageCache.png"))
	require.NoError(t, err)

	dst := newSampleTheme(s)
	ok, err := dst.ReadImageCache(ThemeLight, false)
	require.NoError(t, err)
	assert.True(t, ok)
}
