package blob

import (
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"
)

var reUnsafe = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// Store writes product images under a local media directory. Writes are
// at-least-once and carry no transactional link to the product row.
type Store struct{ dir string }

func New(dir string) *Store { return &Store{dir: dir} }

// Save persists an uploaded image and returns its public /media path.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	uploads := filepath.Join(s.dir, "uploads")
	if err := os.MkdirAll(uploads, 0o755); err != nil {
		return "", fmt.Errorf("create uploads dir: %w", err)
	}

	name := fmt.Sprintf("%d-%s", time.Now().UnixMilli(), reUnsafe.ReplaceAllString(filepath.Base(fh.Filename), "_"))

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("open upload: %w", err)
	}
	defer src.Close()

	dst, err := os.Create(filepath.Join(uploads, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	return "/media/uploads/" + name, nil
}

// Delete removes a stored image by its public path. Best-effort: the
// caller treats the row deletion as authoritative.
func (s *Store) Delete(publicPath string) error {
	clean := filepath.Clean(strings.TrimPrefix(publicPath, "/media/"))
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return fmt.Errorf("refusing to delete %q", publicPath)
	}
	return os.Remove(filepath.Join(s.dir, clean))
}
