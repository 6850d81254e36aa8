package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSFileSystem implements shared.FileSystem using the operating system primitives.
type OSFileSystem struct{}

// Stat retrieves file metadata, following symbolic links.
func (OSFileSystem) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadDir lists directory entries sorted by file name.
func (OSFileSystem) ReadDir(path string) ([]fs.DirEntry, error) {
	return os.ReadDir(path)
}

// EvalSymlinks returns the path with every symbolic link resolved.
func (OSFileSystem) EvalSymlinks(path string) (string, error) {
	return filepath.EvalSymlinks(path)
}
