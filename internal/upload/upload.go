// Package upload stores place images on local disk.
//
// Files land under the configured root with generated names, so a stored
// path never collides and never escapes the root. Removal is idempotent:
// deleting a file that is already gone is not an error, which lets cleanup
// retry safely.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// Errors returned by the store
var (
	ErrUnsupportedType = errors.New("unsupported image type")
	ErrOutsideRoot     = errors.New("path outside upload root")
)

// allowedExtensions are the accepted image file extensions
var allowedExtensions = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// Store persists uploaded images under a root directory
type Store struct {
	root string
}

// NewStore creates a store rooted at dir, creating it if necessary
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Store{root: dir}, nil
}

// Root returns the store's root directory
func (s *Store) Root() string {
	return s.root
}

// Save writes an uploaded file to disk under a generated name and returns
// its path relative to the process working directory.
func (s *Store) Save(file multipart.File, header *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedExtensions[ext] {
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, ext)
	}

	name := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	path := filepath.Join(s.root, name)

	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("writing image file: %w", err)
	}

	return path, nil
}

// Remove deletes a stored file. A path that does not exist is treated as
// already removed. Paths outside the store's root are rejected.
func (s *Store) Remove(path string) error {
	cleaned := filepath.Clean(path)
	root := filepath.Clean(s.root)
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s", ErrOutsideRoot, path)
	}

	if err := os.Remove(cleaned); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return err
	}
	return nil
}
