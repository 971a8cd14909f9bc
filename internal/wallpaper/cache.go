// Package wallpaper scans a directory tree for images and picks one at random.
package wallpaper

import (
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// ErrNoImages is returned when a directory holds no supported image
var ErrNoImages = errors.New("no supported images found")

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".bmp":  {},
	".webp": {},
}

// Supported reports whether path has an image extension we can show
func Supported(path string) bool {
	_, ok := supportedExtensions[strings.ToLower(filepath.Ext(path))]
	return ok
}

// Cache is the immutable set of images found at startup
type Cache struct {
	logger *zap.Logger
	files  []string
	intn   func(int) int
}

// NewCache walks dir recursively and records the canonical path of every image.
// Files that cannot be resolved are skipped.
func NewCache(logger *zap.Logger, fs afero.Fs, dir string) (*Cache, error) {
	resolve := absolute
	if _, ok := fs.(*afero.OsFs); ok {
		resolve = canonical
	}

	var files []string
	err := afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() || !Supported(path) {
			return nil
		}

		abs, err := resolve(path)
		if err != nil {
			logger.Debug("Skipping unresolvable image", zap.String("path", path), zap.Error(err))
			return nil
		}
		files = append(files, abs)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s: %w", dir, err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoImages, dir)
	}

	logger.Info("Wallpapers cached", zap.Int("count", len(files)), zap.String("dir", dir))
	return &Cache{logger: logger, files: files, intn: rand.Intn}, nil
}

// Len returns the number of cached images
func (c *Cache) Len() int {
	return len(c.files)
}

// Pick returns a uniformly random cached image
func (c *Cache) Pick() (string, error) {
	if len(c.files) == 0 {
		return "", ErrNoImages
	}
	return c.files[c.intn(len(c.files))], nil
}

func absolute(path string) (string, error) {
	return filepath.Abs(path)
}

func canonical(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
