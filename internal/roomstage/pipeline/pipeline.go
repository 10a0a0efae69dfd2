// Package pipeline runs one furnishing request end to end: placement, scene,
// depth capture, then synthesis.
package pipeline

import (
	"context"
	"fmt"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/yungbote/roomstage-backend/internal/domain"
	"github.com/yungbote/roomstage-backend/internal/placement"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/scene"
	"github.com/yungbote/roomstage-backend/internal/scene/capture"
)

// Generator is the synthesis stage.
type Generator interface {
	Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult
}

// Capturer is the depth capture stage.
type Capturer interface {
	CaptureMode(ctx context.Context, g scene.Graph, mode capture.Mode) (capture.Frame, bool)
}

type Pipeline struct {
	log       *logger.Logger
	placer    *placement.Engine
	capturer  Capturer
	generator Generator
}

// New wires the stages. A nil capturer disables depth conditioning.
func New(log *logger.Logger, placer *placement.Engine, capturer Capturer, generator Generator) *Pipeline {
	if placer == nil {
		placer = placement.New()
	}
	return &Pipeline{
		log:       log.With("component", "RenderPipeline"),
		placer:    placer,
		capturer:  capturer,
		generator: generator,
	}
}

type RenderRequest struct {
	Room          domain.RoomSpec
	Items         []domain.CatalogItem
	Style         string
	RoomType      string
	BaseImage     string
	PlacementHint string
	Hint          string
	SkipDepth     bool
}

type RenderResult struct {
	domain.GenerationResult
	DepthAvailable bool
	Placements     []domain.Placement
}

func (p *Pipeline) Place(ctx context.Context, room domain.RoomSpec, items []domain.CatalogItem) ([]domain.Placement, error) {
	_, span := otel.Tracer("roomstage/pipeline").Start(ctx, "placement.place")
	defer span.End()
	span.SetAttributes(attribute.Int("placement.items", len(items)))
	return p.placer.Place(room, items)
}

// Scene places items and builds the renderable graph. Paint items recolor
// the walls.
func (p *Pipeline) Scene(ctx context.Context, room domain.RoomSpec, items []domain.CatalogItem) (scene.Graph, []domain.Placement, error) {
	placements, err := p.Place(ctx, room, items)
	if err != nil {
		return scene.Graph{}, nil, err
	}
	if paint, ok := firstPaint(items); ok && strings.TrimSpace(paint.ColorHex) != "" {
		if _, err := domain.ParseHexColor(paint.ColorHex); err == nil {
			room.WallColor = paint.ColorHex
		}
	}
	g, err := scene.Build(room, items, placements)
	if err != nil {
		return scene.Graph{}, nil, err
	}
	return g, placements, nil
}

// Capture renders a frame of the furnished room. ok is false when capture is
// disabled or unavailable; err is reserved for invalid input.
func (p *Pipeline) Capture(ctx context.Context, room domain.RoomSpec, items []domain.CatalogItem, mode capture.Mode) (frame capture.Frame, ok bool, placements []domain.Placement, err error) {
	g, placements, err := p.Scene(ctx, room, items)
	if err != nil {
		return capture.Frame{}, false, nil, err
	}
	if p.capturer == nil {
		return capture.Frame{}, false, placements, nil
	}
	frame, ok = p.capturer.CaptureMode(ctx, g, mode)
	return frame, ok, placements, nil
}

// Render validates the request, then always returns an image result.
func (p *Pipeline) Render(ctx context.Context, req RenderRequest) (RenderResult, error) {
	if err := req.Room.Validate(); err != nil {
		return RenderResult{}, fmt.Errorf("render: %w", err)
	}

	var out RenderResult
	gen := domain.GenerationRequest{
		Room:          req.Room,
		Style:         req.Style,
		RoomType:      req.RoomType,
		BaseImage:     strings.TrimSpace(req.BaseImage),
		PlacementHint: req.PlacementHint,
		Hint:          req.Hint,
	}
	for _, it := range req.Items {
		if placement.ParseCategory(it.Category) == placement.CategoryPaint {
			continue
		}
		gen.ItemNames = append(gen.ItemNames, itemName(it))
		if img := strings.TrimSpace(it.ReferenceImage); img != "" {
			gen.ItemImages = append(gen.ItemImages, img)
		}
	}
	if paint, ok := firstPaint(req.Items); ok {
		gen.WallColorName = strings.TrimSpace(paint.DisplayName)
		gen.WallColorHex = strings.TrimSpace(paint.ColorHex)
	} else if strings.TrimSpace(req.Room.WallColor) != "" {
		gen.WallColorHex = req.Room.WallHex()
	}

	// A base photo supersedes depth conditioning, so skip the render.
	if !req.SkipDepth && gen.BaseImage == "" {
		frame, ok, placements, err := p.Capture(ctx, req.Room, req.Items, capture.ModeDepth)
		if err != nil {
			return RenderResult{}, fmt.Errorf("render: %w", err)
		}
		out.Placements = placements
		if ok {
			gen.DepthImage = frame.DataURI
			out.DepthAvailable = true
		}
	} else {
		placements, err := p.Place(ctx, req.Room, req.Items)
		if err != nil {
			return RenderResult{}, fmt.Errorf("render: %w", err)
		}
		out.Placements = placements
	}

	out.GenerationResult = p.generator.Generate(ctx, gen)
	p.log.Debug("render finished",
		"items", len(req.Items),
		"depth", out.DepthAvailable,
		"fallback", out.FallbackUsed,
	)
	return out, nil
}

func firstPaint(items []domain.CatalogItem) (domain.CatalogItem, bool) {
	for _, it := range items {
		if placement.ParseCategory(it.Category) == placement.CategoryPaint {
			return it, true
		}
	}
	return domain.CatalogItem{}, false
}

func itemName(it domain.CatalogItem) string {
	if n := strings.TrimSpace(it.DisplayName); n != "" {
		return n
	}
	return strings.TrimSpace(it.ID)
}
