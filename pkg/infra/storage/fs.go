package storage

import (
	"context"
	"os"
	"path/filepath"

	"github.com/m-mizutani/goerr/v2"
)

const (
	dirPermissions  = 0755
	filePermissions = 0644
)

// FileSystem writes bodies as files in a single directory
type FileSystem struct {
	dir string
}

// NewFileSystem creates a FileSystem rooted at dir. The directory is created
// by Prepare, not here.
func NewFileSystem(dir string) *FileSystem {
	return &FileSystem{dir: dir}
}

// Prepare creates the output directory if it does not exist yet
func (x *FileSystem) Prepare(ctx context.Context) error {
	if err := os.MkdirAll(x.dir, dirPermissions); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", x.dir))
	}
	return nil
}

// Put writes body to dir/name, truncating an existing file
func (x *FileSystem) Put(ctx context.Context, name string, body []byte) error {
	path := filepath.Join(x.dir, name)
	if err := os.WriteFile(path, body, filePermissions); err != nil {
		return goerr.Wrap(err, "failed to write file", goerr.V("path", path))
	}
	return nil
}

// Location returns the file path for name
func (x *FileSystem) Location(name string) string {
	return filepath.Join(x.dir, name)
}
