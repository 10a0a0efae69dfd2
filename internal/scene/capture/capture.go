package capture

import (
	"bytes"
	"context"
	"encoding/base64"
	"fmt"
	"image"
	"image/png"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/image/draw"

	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/scene"
)

type Options struct {
	Width       int
	Height      int
	Supersample int
	// Tiles subdivides each room plane so depth varies smoothly across it.
	Tiles int
}

func DefaultOptions() Options {
	return Options{Width: 768, Height: 512, Supersample: 2, Tiles: 12}
}

func (o Options) normalized() Options {
	d := DefaultOptions()
	if o.Width <= 0 {
		o.Width = d.Width
	}
	if o.Height <= 0 {
		o.Height = d.Height
	}
	if o.Supersample <= 0 {
		o.Supersample = 1
	}
	if o.Tiles <= 0 {
		o.Tiles = d.Tiles
	}
	return o
}

// Frame is a captured raster in embedded-data form.
type Frame struct {
	DataURI string `json:"image"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	Mode    Mode   `json:"mode"`
	PNG     []byte `json:"-"`
}

type Capturer struct {
	log     *logger.Logger
	factory ContextFactory
	cache   FrameCache
	opts    Options
}

func NewCapturer(log *logger.Logger, factory ContextFactory, cache FrameCache, opts Options) *Capturer {
	if factory == nil {
		factory = SoftwareFactory{}
	}
	return &Capturer{
		log:     log.With("component", "DepthCapture"),
		factory: factory,
		cache:   cache,
		opts:    opts.normalized(),
	}
}

// Capture renders one depth frame of g. The bool is false when no capture
// is available; synthesis then runs without depth conditioning.
func (c *Capturer) Capture(ctx context.Context, g scene.Graph) (Frame, bool) {
	return c.CaptureMode(ctx, g, ModeDepth)
}

func (c *Capturer) CaptureMode(ctx context.Context, g scene.Graph, mode Mode) (Frame, bool) {
	ctx, span := otel.Tracer("roomstage/capture").Start(ctx, "scene.capture")
	defer span.End()
	span.SetAttributes(attribute.String("capture.mode", string(mode)))

	key := frameKey(g, mode, c.opts)
	cache := c.cache
	if key == "" {
		cache = nil
	}
	if cache != nil {
		if raw, ok := cache.Get(ctx, key); ok {
			span.SetAttributes(attribute.Bool("capture.cached", true))
			return newFrame(raw, c.opts, mode), true
		}
	}

	raw, err := c.render(ctx, g, mode)
	if err != nil {
		c.log.Warn("capture unavailable, continuing without it", "mode", mode, "error", err)
		span.SetAttributes(attribute.Bool("capture.available", false))
		return Frame{}, false
	}
	if cache != nil {
		cache.Set(ctx, key, raw)
	}
	span.SetAttributes(attribute.Bool("capture.available", true))
	return newFrame(raw, c.opts, mode), true
}

// render acquires a surface, draws exactly one frame, snapshots it and
// releases the surface on every return path.
func (c *Capturer) render(ctx context.Context, g scene.Graph, mode Mode) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ss := c.opts.Supersample
	surf, err := c.factory.Acquire(c.opts.Width*ss, c.opts.Height*ss)
	if err != nil {
		return nil, err
	}
	defer surf.Release()

	if err := surf.DrawFrame(g, mode, c.opts.Tiles); err != nil {
		return nil, fmt.Errorf("draw frame: %w", err)
	}
	if surf.FramesDrawn() < 1 {
		return nil, ErrIncompleteFrame
	}
	img, err := surf.Snapshot()
	if err != nil {
		return nil, err
	}

	out := image.NewNRGBA(image.Rect(0, 0, c.opts.Width, c.opts.Height))
	draw.CatmullRom.Scale(out, out.Bounds(), img, img.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func newFrame(raw []byte, o Options, mode Mode) Frame {
	return Frame{
		DataURI: "data:image/png;base64," + base64.StdEncoding.EncodeToString(raw),
		Width:   o.Width,
		Height:  o.Height,
		Mode:    mode,
		PNG:     raw,
	}
}
