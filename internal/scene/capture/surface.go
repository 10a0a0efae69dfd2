package capture

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"github.com/fogleman/gg"

	"github.com/yungbote/roomstage-backend/internal/scene"
)

var (
	// ErrNoRenderContext means no drawing surface could be created; callers
	// proceed without a capture.
	ErrNoRenderContext = errors.New("render context unavailable")
	// ErrIncompleteFrame means a snapshot was requested before any frame finished.
	ErrIncompleteFrame = errors.New("no complete frame drawn")
	errReleased        = errors.New("render context released")
)

// Surface is an off-screen, buffer-preserving drawing target. It is a scoped
// resource: whoever acquires it must call Release exactly once.
type Surface interface {
	DrawFrame(g scene.Graph, mode Mode, tiles int) error
	FramesDrawn() int
	Snapshot() (image.Image, error)
	Release()
}

// ContextFactory creates surfaces.
type ContextFactory interface {
	Acquire(width, height int) (Surface, error)
}

// SoftwareFactory rasterizes on the CPU with gg. Disabled mimics a host
// with no rendering backend.
type SoftwareFactory struct {
	MaxPixels int
	Disabled  bool
}

func (f SoftwareFactory) Acquire(width, height int) (Surface, error) {
	if f.Disabled {
		return nil, ErrNoRenderContext
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: invalid size %dx%d", ErrNoRenderContext, width, height)
	}
	if f.MaxPixels > 0 && width*height > f.MaxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrNoRenderContext, width, height, f.MaxPixels)
	}
	return &softwareSurface{dc: gg.NewContext(width, height)}, nil
}

type softwareSurface struct {
	mu       sync.Mutex
	dc       *gg.Context
	frames   int
	released bool
}

func (s *softwareSurface) DrawFrame(g scene.Graph, mode Mode, tiles int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return errReleased
	}
	drawScene(s.dc, g, mode, tiles)
	s.frames++
	return nil
}

func (s *softwareSurface) FramesDrawn() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

func (s *softwareSurface) Snapshot() (image.Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.released {
		return nil, errReleased
	}
	if s.frames < 1 {
		return nil, ErrIncompleteFrame
	}
	return s.dc.Image(), nil
}

func (s *softwareSurface) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
	s.dc = nil
}
