// Package storage persists uploaded media files on local disk.
package storage

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"auction-marketplace/utils"
)

// URLPrefix is the public path under which stored files are served.
const URLPrefix = "/media/"

// FileStore saves uploaded files and returns the public URL they are
// reachable at.
type FileStore interface {
	Save(filename string, src io.Reader) (url string, err error)
	Delete(url string) error
}

// LocalStore writes files into a single directory on disk. Filenames are
// prefixed with a random id so concurrent uploads of the same name never
// collide.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: failed to create media dir %s: %w", dir, err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(filename string, src io.Reader) (string, error) {
	name := utils.GenerateID() + "_" + sanitize(filename)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("storage: failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("storage: failed to write file: %w", err)
	}
	return URLPrefix + name, nil
}

func (s *LocalStore) Delete(url string) error {
	name := strings.TrimPrefix(url, URLPrefix)
	if name == "" || strings.Contains(name, "/") {
		return fmt.Errorf("storage: refusing to delete %q", url)
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: failed to delete %s: %w", name, err)
	}
	return nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *LocalStore) Dir() string {
	return s.dir
}

func sanitize(filename string) string {
	base := path.Base(filepath.ToSlash(filename))
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		case r == '.' || r == '-' || r == '_':
			return r
		default:
			return '_'
		}
	}, base)
}
