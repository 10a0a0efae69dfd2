// Package synthesis turns a generation request into an image reference. It
// always produces one: when the primary provider cannot be used, a
// fallback URL is built instead.
package synthesis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/yungbote/roomstage-backend/internal/domain"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/prompt"
	"github.com/yungbote/roomstage-backend/internal/synthesis/fallback"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
)

type Options struct {
	// Timeout bounds one primary attempt, normalization included.
	Timeout              time.Duration
	ConditioningStrength float64
	ApplyStrength        float64
}

type Orchestrator struct {
	log      *logger.Logger
	primary  provider.Provider
	store    provider.AssetStore
	fetcher  RemoteFetcher
	fallback fallback.Builder
	creds    *Credentials
	opts     Options
	now      func() time.Time

	configureOnce sync.Once
}

type Deps struct {
	Log      *logger.Logger
	Primary  provider.Provider
	Store    provider.AssetStore
	Fetcher  RemoteFetcher
	Fallback fallback.Builder
	Creds    *Credentials
}

func New(deps Deps, opts Options) (*Orchestrator, error) {
	if deps.Log == nil {
		return nil, errors.New("synthesis: logger required")
	}
	if deps.Primary == nil {
		return nil, errors.New("synthesis: primary provider required")
	}
	if strings.TrimSpace(deps.Fallback.BaseURL) == "" {
		return nil, errors.New("synthesis: fallback base url required")
	}
	store := deps.Store
	if store == nil {
		s, ok := deps.Primary.(provider.AssetStore)
		if !ok {
			return nil, fmt.Errorf("synthesis: provider %s has no asset store; configure one", deps.Primary.Name())
		}
		store = s
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 90 * time.Second
	}
	return &Orchestrator{
		log:      deps.Log.With("component", "SynthesisOrchestrator"),
		primary:  deps.Primary,
		store:    store,
		fetcher:  deps.Fetcher,
		fallback: deps.Fallback,
		creds:    deps.Creds,
		opts:     opts,
		now:      time.Now,
	}, nil
}

// Generate never fails. Check FallbackUsed to tell a degraded image apart.
func (o *Orchestrator) Generate(ctx context.Context, req domain.GenerationRequest) domain.GenerationResult {
	start := o.now()
	ctx, span := otel.Tracer("roomstage/synthesis").Start(ctx, "synthesis.generate")
	defer span.End()

	mode := SelectMode(req)
	text := prompt.Compile(prompt.Input{
		Style:          req.Style,
		RoomType:       req.RoomType,
		WallColorName:  req.WallColorName,
		WallColorHex:   req.WallColorHex,
		FurnitureNames: req.ItemNames,
		Hint:           req.Hint,
	})

	res, usedFallback := tryWithFallback(
		func() (domain.GenerationResult, error) { return o.runPrimary(ctx, mode, req, text) },
		func(err error) domain.GenerationResult {
			o.log.Warn("primary synthesis unavailable, using fallback",
				"mode", mode,
				"kind", KindOf(err),
				"upstream_status", provider.UpstreamStatus(err),
				"error", err,
			)
			span.RecordError(err)
			span.SetStatus(codes.Error, string(KindOf(err)))
			return domain.GenerationResult{
				ImageURL:     o.fallback.URL(text),
				Provider:     fallback.Name,
				Mode:         string(provider.ModeUnconditioned),
				Prompt:       text,
				FallbackUsed: true,
			}
		},
	)
	res.FallbackUsed = usedFallback
	res.Latency = o.now().Sub(start)

	span.SetAttributes(
		attribute.String("synthesis.mode", res.Mode),
		attribute.String("synthesis.provider", res.Provider),
		attribute.Bool("synthesis.fallback", res.FallbackUsed),
	)
	o.log.Info("synthesis complete",
		"mode", res.Mode,
		"provider", res.Provider,
		"fallback", res.FallbackUsed,
		"latency_ms", res.Latency.Milliseconds(),
	)
	return res
}

func (o *Orchestrator) runPrimary(ctx context.Context, mode provider.Mode, req domain.GenerationRequest, text string) (domain.GenerationResult, error) {
	key, err := o.creds.Resolve()
	if err != nil {
		return domain.GenerationResult{}, err
	}
	o.configureOnce.Do(func() {
		if c, ok := o.primary.(provider.Configurable); ok {
			c.Configure(key)
		}
	})

	ctx, cancel := context.WithTimeout(ctx, o.opts.Timeout)
	defer cancel()

	call := provider.Call{
		Mode:   mode,
		Prompt: text,
		Images: o.normalizeAll(ctx, inputImages(mode, req)),
	}
	switch mode {
	case provider.ModeTwoImageEdit:
		call.Prompt = insertInstruction(req.PlacementHint)
	case provider.ModeDepthConditioned:
		call.ConditioningStrength = o.opts.ConditioningStrength
		call.ApplyStrength = o.opts.ApplyStrength
	}

	out, err := o.primary.Generate(ctx, call)
	if err == nil && ctx.Err() != nil {
		err = ctx.Err()
	}
	if err != nil {
		return domain.GenerationResult{}, &Error{Kind: KindUpstream, Provider: o.primary.Name(), Err: err}
	}
	img := firstImage(out.Images)
	if img == "" {
		return domain.GenerationResult{}, &Error{Kind: KindUpstream, Provider: o.primary.Name(), Err: errors.New("provider returned no image")}
	}
	return domain.GenerationResult{
		ImageURL: img,
		Provider: o.primary.Name(),
		Mode:     string(mode),
		Prompt:   call.Prompt,
	}, nil
}
