package themeatlas

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
)

// Store persists theme cache files. Names are slash separated and relative
// to the store root. Open must return an error matching fs.ErrNotExist
// when name is absent.
type Store interface {
	Open(name string) (io.ReadCloser, error)
	Create(name string) (io.WriteCloser, error)
	Remove(name string) error
}

// ImageCodec converts between pixel buffers and a persisted image format.
// Atlas round trips require a lossless codec.
type ImageCodec interface {
	Decode(r io.Reader) (image.Image, error)
	Encode(w io.Writer, img image.Image) error
}

// PNGCodec is the default lossless ImageCodec.
type PNGCodec struct {
	Level png.CompressionLevel
}

func (c PNGCodec) Decode(r io.Reader) (image.Image, error) {
	return png.Decode(r)
}

func (c PNGCodec) Encode(w io.Writer, img image.Image) error {
	enc := png.Encoder{CompressionLevel: c.Level}
	return enc.Encode(w, img)
}

// DirStore stores files below a directory on disk.
type DirStore struct {
	Root string
}

func (s DirStore) path(name string) string {
	return filepath.Join(s.Root, filepath.FromSlash(path.Clean("/" + name)))
}

func (s DirStore) Open(name string) (io.ReadCloser, error) {
	return os.Open(s.path(name))
}

func (s DirStore) Create(name string) (io.WriteCloser, error) {
	p := s.path(name)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return nil, err
	}
	return os.Create(p)
}

func (s DirStore) Remove(name string) error {
	err := os.Remove(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// MemStore is an in-memory Store. The zero value is ready to use.
type MemStore struct {
	files map[string][]byte
}

func (s *MemStore) Open(name string) (io.ReadCloser, error) {
	b, ok := s.files[path.Clean(name)]
	if !ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: fs.ErrNotExist}
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func (s *MemStore) Create(name string) (io.WriteCloser, error) {
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	return &memFile{store: s, name: path.Clean(name)}, nil
}

func (s *MemStore) Remove(name string) error {
	delete(s.files, path.Clean(name))
	return nil
}

// Bytes returns the content of name.
func (s *MemStore) Bytes(name string) ([]byte, bool) {
	b, ok := s.files[path.Clean(name)]
	return b, ok
}

// Put replaces the content of name.
func (s *MemStore) Put(name string, b []byte) {
	if s.files == nil {
		s.files = make(map[string][]byte)
	}
	s.files[path.Clean(name)] = b
}

// Names lists stored files in sorted order.
func (s *MemStore) Names() []string {
	names := make([]string, 0, len(s.files))
	for n := range s.files {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

type memFile struct {
	bytes.Buffer
	store  *MemStore
	name   string
	closed bool
}

func (f *memFile) Close() error {
	if f.closed {
		return fmt.Errorf("memstore %s: already closed", f.name)
	}
	f.closed = true
	f.store.files[f.name] = bytes.Clone(f.Bytes())
	return nil
}

func readAll(s Store, name string) ([]byte, error) {
	r, err := s.Open(name)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return io.ReadAll(r)
}

func writeAll(s Store, name string, b []byte) error {
	w, err := s.Create(name)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
