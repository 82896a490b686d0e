package storage

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

// File stores each key as <dir>/<key>.json on the local filesystem
type File struct {
	dir string
}

// NewFile creates a file backend rooted at dir. The directory is created on first write.
func NewFile(dir string) *File {
	return &File{dir: dir}
}

func (x *File) path(key string) string {
	return filepath.Join(x.dir, key+".json")
}

// Get returns the file contents, or nil when the file does not exist
func (x *File) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := os.ReadFile(x.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, goerr.Wrap(err, "failed to read file", goerr.V("path", x.path(key)))
	}
	return data, nil
}

// Put writes value to a temporary file and renames it over the target
func (x *File) Put(ctx context.Context, key string, value []byte) error {
	if err := os.MkdirAll(x.dir, 0o755); err != nil {
		return goerr.Wrap(err, "failed to create data directory", goerr.V("dir", x.dir))
	}

	tmp, err := os.CreateTemp(x.dir, key+".*.tmp")
	if err != nil {
		return goerr.Wrap(err, "failed to create temporary file", goerr.V("dir", x.dir))
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(value); err != nil {
		tmp.Close()
		return goerr.Wrap(err, "failed to write temporary file", goerr.V("path", tmp.Name()))
	}
	if err := tmp.Close(); err != nil {
		return goerr.Wrap(err, "failed to close temporary file", goerr.V("path", tmp.Name()))
	}

	if err := os.Rename(tmp.Name(), x.path(key)); err != nil {
		return goerr.Wrap(err, "failed to replace file", goerr.V("path", x.path(key)))
	}
	return nil
}
