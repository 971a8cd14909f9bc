package domain

import "context"

// MonitorSource lists the currently active outputs of the compositor.
// An empty result with a nil error is possible; callers decide whether to trust it.
//
//go:generate mockgen -destination=mocks/domain_mock.go -package=mocks github.com/genricoloni/randpaper/internal/domain MonitorSource,Renderer,WallpaperPicker,ThemeWriter
type MonitorSource interface {
	Discover(ctx context.Context) ([]string, error)
}

// Renderer puts wallpapers on outputs.
// Init is called once before the first Apply, Close once after the last.
type Renderer interface {
	// Init detects binaries and makes sure any daemon the renderer needs is reachable
	Init(ctx context.Context) error

	// Apply shows one rotation's assignments
	Apply(ctx context.Context, assignments []Assignment) error

	// Close releases the live renderer process, if any
	Close(ctx context.Context) error
}

// WallpaperPicker chooses one eligible image
type WallpaperPicker interface {
	// Pick returns an absolute path to a randomly selected image
	Pick() (string, error)
}

// ThemeWriter regenerates the derived theme artifact
type ThemeWriter interface {
	// EnsureExists writes a fallback theme if none is present
	EnsureExists() error

	// Update derives the theme from the given image
	Update(ctx context.Context, imagePath string) error
}
