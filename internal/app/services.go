package app

import (
	"fmt"
	"time"

	"github.com/yungbote/roomstage-backend/internal/placement"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/roomstage/config"
	"github.com/yungbote/roomstage-backend/internal/roomstage/pipeline"
	"github.com/yungbote/roomstage-backend/internal/scene/capture"
	"github.com/yungbote/roomstage-backend/internal/synthesis"
	"github.com/yungbote/roomstage-backend/internal/synthesis/assets"
	"github.com/yungbote/roomstage-backend/internal/synthesis/fallback"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider/imagehttp"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider/mock"
)

const fetchTimeout = 30 * time.Second

type Services struct {
	Primary  provider.Provider
	Capturer *capture.Capturer
	Synth    *synthesis.Orchestrator
	Pipeline *pipeline.Pipeline
}

func wirePrimary(cfg config.PrimaryConfig) (provider.Provider, *synthesis.Credentials, error) {
	switch cfg.Type {
	case "http":
		c, err := imagehttp.New(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("init primary provider: %w", err)
		}
		return c, synthesis.EnvCredentials(cfg.APIKeyEnv), nil
	case "mock":
		// The mock needs no key; a static one keeps the credential step uniform.
		return mock.New(), synthesis.StaticCredentials("mock"), nil
	default:
		return nil, nil, fmt.Errorf("unknown primary type %q", cfg.Type)
	}
}

func wireServices(log *logger.Logger, cfg *config.Config, clients Clients) (Services, error) {
	log.Info("Wiring services...")

	primary, creds, err := wirePrimary(cfg.Primary)
	if err != nil {
		return Services{}, err
	}

	synth, err := synthesis.New(synthesis.Deps{
		Log:     log,
		Primary: primary,
		Store:   clients.Store,
		Fetcher: assets.NewFetcher(fetchTimeout),
		Fallback: fallback.Builder{
			BaseURL: cfg.Fallback.BaseURL,
			Width:   cfg.Fallback.Width,
			Height:  cfg.Fallback.Height,
			Flags:   cfg.Fallback.Flags,
		},
		Creds: creds,
	}, synthesis.Options{
		Timeout:              cfg.Primary.Timeout.Duration,
		ConditioningStrength: cfg.Depth.ConditioningStrength,
		ApplyStrength:        cfg.Depth.ApplyStrength,
	})
	if err != nil {
		return Services{}, fmt.Errorf("init synthesis: %w", err)
	}

	var cache capture.FrameCache
	if clients.Redis != nil {
		cache = capture.NewRedisCache(log, clients.Redis, cfg.Cache.Prefix, cfg.Cache.TTL.Duration)
	}
	capturer := capture.NewCapturer(log,
		capture.SoftwareFactory{MaxPixels: cfg.Capture.MaxPixels, Disabled: cfg.Capture.Disabled},
		cache,
		capture.Options{
			Width:       cfg.Capture.Width,
			Height:      cfg.Capture.Height,
			Supersample: cfg.Capture.Supersample,
			Tiles:       cfg.Capture.Tiles,
		},
	)

	return Services{
		Primary:  primary,
		Capturer: capturer,
		Synth:    synth,
		Pipeline: pipeline.New(log, placement.New(), capturer, synth),
	}, nil
}
