// Package theme derives a small GTK colour stylesheet from the current wallpaper.
package theme

import (
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg" // JPEG format support
	_ "image/png"  // PNG format support
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/spf13/afero"
	_ "golang.org/x/image/bmp"  // BMP format support
	_ "golang.org/x/image/webp" // WEBP format support
	"go.uber.org/zap"
)

const (
	sampleSize    = 32
	grayThreshold = 0.12
)

var (
	lightText = color.NRGBA{R: 0xf5, G: 0xf5, B: 0xf5, A: 0xff}
	darkText  = color.NRGBA{R: 0x1a, G: 0x1a, B: 0x1a, A: 0xff}

	fallbackPalette = Palette{
		Background: color.NRGBA{R: 0x1e, G: 0x1e, B: 0x2e, A: 0xff},
		Foreground: lightText,
		Accent:     color.NRGBA{R: 0x89, G: 0xb4, B: 0xfa, A: 0xff},
	}
)

// Palette is the set of colours written to the stylesheet
type Palette struct {
	Background color.NRGBA
	Foreground color.NRGBA
	Accent     color.NRGBA
}

// CSS renders the palette as GTK @define-color lines
func (p Palette) CSS() string {
	var b strings.Builder
	b.WriteString("/* generated by randpaper */\n")
	fmt.Fprintf(&b, "@define-color background %s;\n", hex(p.Background))
	fmt.Fprintf(&b, "@define-color foreground %s;\n", hex(p.Foreground))
	fmt.Fprintf(&b, "@define-color accent %s;\n", hex(p.Accent))
	return b.String()
}

// Writer keeps the stylesheet at path in sync with the wallpaper
type Writer struct {
	logger *zap.Logger
	fs     afero.Fs
	path   string
}

// NewWriter creates a theme writer targeting path
func NewWriter(logger *zap.Logger, fs afero.Fs, path string) *Writer {
	return &Writer{logger: logger, fs: fs, path: path}
}

// EnsureExists writes the fallback palette unless a stylesheet is already there
func (w *Writer) EnsureExists() error {
	exists, err := afero.Exists(w.fs, w.path)
	if err != nil {
		return fmt.Errorf("failed to stat theme: %w", err)
	}
	if exists {
		return nil
	}

	w.logger.Info("Writing fallback theme", zap.String("path", w.path))
	return w.write(fallbackPalette)
}

// Update decodes imagePath and rewrites the stylesheet from its colours
func (w *Writer) Update(ctx context.Context, imagePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f, err := w.fs.Open(imagePath)
	if err != nil {
		return fmt.Errorf("failed to open image: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return fmt.Errorf("invalid image dimensions: %dx%d", bounds.Dx(), bounds.Dy())
	}

	palette := Extract(img)
	if err := w.write(palette); err != nil {
		return err
	}

	w.logger.Debug("Theme updated",
		zap.String("image", imagePath),
		zap.String("background", hex(palette.Background)),
		zap.String("accent", hex(palette.Accent)))
	return nil
}

// write replaces the stylesheet atomically
func (w *Writer) write(p Palette) error {
	if err := w.fs.MkdirAll(filepath.Dir(w.path), 0o755); err != nil {
		return fmt.Errorf("failed to create theme directory: %w", err)
	}

	tmp := w.path + ".tmp"
	if err := afero.WriteFile(w.fs, tmp, []byte(p.CSS()), 0o644); err != nil {
		return fmt.Errorf("failed to write theme: %w", err)
	}
	if err := w.fs.Rename(tmp, w.path); err != nil {
		_ = w.fs.Remove(tmp)
		return fmt.Errorf("failed to replace theme: %w", err)
	}
	return nil
}

// Extract computes a palette from img.
// Background is the mean colour, accent the most vivid sample and
// foreground whichever text colour contrasts with the background.
func Extract(img image.Image) Palette {
	mean := imaging.Resize(img, 1, 1, imaging.Box)
	bg := mean.NRGBAAt(0, 0)
	bg.A = 0xff

	sample := imaging.Resize(img, sampleSize, sampleSize, imaging.Box)
	accent := bg
	best := grayThreshold
	b := sample.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := sample.NRGBAAt(x, y)
			if score := vividness(c); score > best {
				best = score
				accent = c
			}
		}
	}
	accent.A = 0xff

	fg := lightText
	if luminance(bg) > 0.5 {
		fg = darkText
	}

	return Palette{Background: bg, Foreground: fg, Accent: accent}
}

// vividness is HSV saturation weighted by value
func vividness(c color.NRGBA) float64 {
	hi := max(c.R, c.G, c.B)
	lo := min(c.R, c.G, c.B)
	if hi == 0 {
		return 0
	}
	sat := float64(hi-lo) / float64(hi)
	return sat * float64(hi) / 255
}

// luminance is the Rec. 709 relative luminance in 0..1
func luminance(c color.NRGBA) float64 {
	return (0.2126*float64(c.R) + 0.7152*float64(c.G) + 0.0722*float64(c.B)) / 255
}

func hex(c color.NRGBA) string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// DefaultPath returns $XDG_CONFIG_HOME/randpaper/theme.css
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "randpaper", "theme.css"), nil
}
