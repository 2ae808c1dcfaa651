// Package upload validates user-supplied images and stores them under the
// public uploads directory.
package upload

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/binhbb2204/manga-catalog/pkg/logger"
	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize is the largest accepted upload.
const MaxImageSize = 5 << 20

var (
	ErrBadFileType = errors.New("only image files are allowed")
	ErrTooLarge    = errors.New("file exceeds the 5 MB limit")
)

// ValidateImage checks size, the declared content type, and the sniffed
// content type. It returns the file extension for the sniffed type.
func ValidateImage(data []byte, declaredMime string) (string, error) {
	if len(data) > MaxImageSize {
		return "", ErrTooLarge
	}
	if len(data) == 0 {
		return "", ErrBadFileType
	}
	if declaredMime != "" && !strings.HasPrefix(strings.ToLower(declaredMime), "image/") {
		return "", ErrBadFileType
	}
	detected := mimetype.Detect(data)
	if !strings.HasPrefix(detected.String(), "image/") {
		return "", ErrBadFileType
	}
	ext := detected.Extension()
	if ext == "" {
		ext = ".img"
	}
	return ext, nil
}

// Dir is a directory whose files are publicly served under urlPrefix.
type Dir struct {
	root      string
	urlPrefix string
	log       *logger.Logger
}

func NewDir(root, urlPrefix string) *Dir {
	return &Dir{
		root:      root,
		urlPrefix: strings.TrimRight(urlPrefix, "/"),
		log:       logger.WithContext("component", "upload"),
	}
}

func (d *Dir) Root() string { return d.root }

// Save writes data as name and returns its public URL.
func (d *Dir) Save(name string, data []byte) (string, error) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", fmt.Errorf("invalid upload name %q", name)
	}
	if err := os.MkdirAll(d.root, 0755); err != nil {
		return "", fmt.Errorf("create upload dir: %w", err)
	}
	tmp, err := os.CreateTemp(d.root, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("create temp upload: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(d.root, name)); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("store upload: %w", err)
	}
	d.log.Debug("upload_saved", "name", name, "bytes", len(data))
	return d.urlPrefix + "/" + name, nil
}

// Remove deletes the file behind a URL previously returned by Save. URLs
// outside this directory are ignored.
func (d *Dir) Remove(url string) {
	name, ok := d.nameFromURL(url)
	if !ok {
		return
	}
	if err := os.Remove(filepath.Join(d.root, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		d.log.Warn("upload_remove_failed", "name", name, "error", err)
	}
}

func (d *Dir) nameFromURL(url string) (string, bool) {
	if !strings.HasPrefix(url, d.urlPrefix+"/") {
		return "", false
	}
	name := strings.TrimPrefix(url, d.urlPrefix+"/")
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return "", false
	}
	return name, true
}
