package utils

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// AllowedImageTypes lists the content types accepted for profile images.
var AllowedImageTypes = map[string]bool{
	"image/jpg":  true,
	"image/jpeg": true,
	"image/png":  true,
}

// DiskStorage keeps uploaded files in a local directory served under /uploads/.
type DiskStorage struct {
	Dir string
	now func() time.Time
}

func NewDiskStorage(dir string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &DiskStorage{Dir: dir, now: time.Now}, nil
}

// Save stores r as "<unix-millis>-<base name>" and returns the stored name.
func (s *DiskStorage) Save(originalName string, r io.Reader) (string, error) {
	base := filepath.Base(strings.ReplaceAll(originalName, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "upload"
	}
	name := fmt.Sprintf("%d-%s", s.now().UnixMilli(), base)

	dst, err := os.Create(filepath.Join(s.Dir, name))
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	return name, nil
}
