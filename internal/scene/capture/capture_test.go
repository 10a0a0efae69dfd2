package capture

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/roomstage-backend/internal/domain"
	"github.com/yungbote/roomstage-backend/internal/placement"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/scene"
)

func testGraph(t *testing.T) scene.Graph {
	t.Helper()
	room := domain.RoomSpec{Width: 400, Length: 500, Height: 250}
	items := []domain.CatalogItem{
		{ID: "sofa", Category: "sofa"},
		{ID: "table", Category: "coffee table"},
		{ID: "shelf", Category: "bookshelf"},
	}
	ps, err := placement.New().Place(room, items)
	if err != nil {
		t.Fatalf("Place: %v", err)
	}
	g, err := scene.Build(room, items, ps)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return g
}

func smallOpts() Options {
	return Options{Width: 96, Height: 64, Supersample: 2, Tiles: 4}
}

type trackingFactory struct {
	inner    ContextFactory
	acquired int
	released int
	failDraw bool
}

func (f *trackingFactory) Acquire(w, h int) (Surface, error) {
	s, err := f.inner.Acquire(w, h)
	if err != nil {
		return nil, err
	}
	f.acquired++
	return &trackingSurface{Surface: s, f: f}, nil
}

type trackingSurface struct {
	Surface
	f *trackingFactory
}

func (s *trackingSurface) DrawFrame(g scene.Graph, mode Mode, tiles int) error {
	if s.f.failDraw {
		return errors.New("lost context")
	}
	return s.Surface.DrawFrame(g, mode, tiles)
}

func (s *trackingSurface) Release() {
	s.f.released++
	s.Surface.Release()
}

func TestCapture_ProducesDepthPNG(t *testing.T) {
	f := &trackingFactory{inner: SoftwareFactory{}}
	c := NewCapturer(logger.Nop(), f, nil, smallOpts())

	fr, ok := c.Capture(context.Background(), testGraph(t))
	if !ok {
		t.Fatalf("expected a capture")
	}
	if !strings.HasPrefix(fr.DataURI, "data:image/png;base64,") {
		t.Fatalf("unexpected data uri prefix: %.40q", fr.DataURI)
	}
	if fr.Mode != ModeDepth {
		t.Fatalf("mode=%q want depth", fr.Mode)
	}
	img, err := png.Decode(bytes.NewReader(fr.PNG))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 96 || b.Dy() != 64 {
		t.Fatalf("size=%v want 96x64", b)
	}
	if distinctColors(img) < 2 {
		t.Fatalf("expected a non-uniform depth image")
	}
	if f.acquired != 1 || f.released != 1 {
		t.Fatalf("acquired=%d released=%d", f.acquired, f.released)
	}
}

func TestCapture_NoContextReturnsFalse(t *testing.T) {
	c := NewCapturer(logger.Nop(), SoftwareFactory{Disabled: true}, nil, smallOpts())
	if _, ok := c.Capture(context.Background(), testGraph(t)); ok {
		t.Fatalf("expected no capture when rendering is unavailable")
	}
}

func TestCapture_OversizeReturnsFalse(t *testing.T) {
	c := NewCapturer(logger.Nop(), SoftwareFactory{MaxPixels: 100}, nil, smallOpts())
	if _, ok := c.Capture(context.Background(), testGraph(t)); ok {
		t.Fatalf("expected no capture above the pixel limit")
	}
}

func TestCapture_ReleasesOnDrawFailure(t *testing.T) {
	f := &trackingFactory{inner: SoftwareFactory{}, failDraw: true}
	c := NewCapturer(logger.Nop(), f, nil, smallOpts())
	if _, ok := c.Capture(context.Background(), testGraph(t)); ok {
		t.Fatalf("expected failure")
	}
	if f.acquired != 1 || f.released != 1 {
		t.Fatalf("acquired=%d released=%d", f.acquired, f.released)
	}
}

func TestCapture_Deterministic(t *testing.T) {
	c := NewCapturer(logger.Nop(), SoftwareFactory{}, nil, smallOpts())
	g := testGraph(t)
	a, ok1 := c.Capture(context.Background(), g)
	b, ok2 := c.Capture(context.Background(), g)
	if !ok1 || !ok2 {
		t.Fatalf("capture failed")
	}
	if a.DataURI != b.DataURI {
		t.Fatalf("same graph produced different frames")
	}
}

func TestCapture_ColorModeDiffers(t *testing.T) {
	c := NewCapturer(logger.Nop(), SoftwareFactory{}, nil, smallOpts())
	g := testGraph(t)
	d, _ := c.Capture(context.Background(), g)
	col, ok := c.CaptureMode(context.Background(), g, ModeColor)
	if !ok {
		t.Fatalf("color capture failed")
	}
	if col.Mode != ModeColor || col.DataURI == d.DataURI {
		t.Fatalf("color preview should differ from depth")
	}
}

func TestSurface_SnapshotRequiresFrame(t *testing.T) {
	s, err := SoftwareFactory{}.Acquire(8, 8)
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	defer s.Release()
	if _, err := s.Snapshot(); !errors.Is(err, ErrIncompleteFrame) {
		t.Fatalf("err=%v want ErrIncompleteFrame", err)
	}
}

func TestParseMode(t *testing.T) {
	if m, err := ParseMode(""); err != nil || m != ModeDepth {
		t.Fatalf("empty: %q %v", m, err)
	}
	if m, err := ParseMode("COLOR"); err != nil || m != ModeColor {
		t.Fatalf("COLOR: %q %v", m, err)
	}
	if _, err := ParseMode("normals"); err == nil {
		t.Fatalf("expected error")
	}
}

func TestRedisCache_HitSkipsRender(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := NewRedisCache(logger.Nop(), rdb, "test:", time.Hour)

	f := &trackingFactory{inner: SoftwareFactory{}}
	c := NewCapturer(logger.Nop(), f, cache, smallOpts())
	g := testGraph(t)

	first, ok := c.Capture(context.Background(), g)
	if !ok {
		t.Fatalf("first capture failed")
	}
	second, ok := c.Capture(context.Background(), g)
	if !ok {
		t.Fatalf("cached capture failed")
	}
	if f.acquired != 1 {
		t.Fatalf("expected one render, got %d", f.acquired)
	}
	if first.DataURI != second.DataURI {
		t.Fatalf("cached frame differs")
	}
	if keys := mr.Keys(); len(keys) != 1 || !strings.HasPrefix(keys[0], "test:") {
		t.Fatalf("keys=%v", keys)
	}
}

func TestRedisCache_UnavailableIsIgnored(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })
	cache := NewRedisCache(logger.Nop(), rdb, "", 0)
	mr.Close()

	c := NewCapturer(logger.Nop(), SoftwareFactory{}, cache, smallOpts())
	if _, ok := c.Capture(context.Background(), testGraph(t)); !ok {
		t.Fatalf("cache outage must not fail the capture")
	}
}

func distinctColors(img image.Image) int {
	seen := map[[4]uint32]struct{}{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bl, a := img.At(x, y).RGBA()
			seen[[4]uint32{r, g, bl, a}] = struct{}{}
		}
	}
	return len(seen)
}
