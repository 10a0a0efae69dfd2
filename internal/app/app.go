package app

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/gin-gonic/gin"

	apphttp "github.com/yungbote/roomstage-backend/internal/http"
	"github.com/yungbote/roomstage-backend/internal/observability"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/platform/shutdown"
	"github.com/yungbote/roomstage-backend/internal/roomstage/config"
	"github.com/yungbote/roomstage-backend/internal/synthesis/assets"
)

const (
	serviceName = "roomstage"
	version     = "0.1.0"

	assetSweepInterval = time.Hour
)

type App struct {
	Log      *logger.Logger
	Config   *config.Config
	Metrics  *observability.Metrics
	Clients  Clients
	Services Services
	Server   *apphttp.Server

	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

func New(ctx context.Context) (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	log, err := logger.New(cfg.Env)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	a, err := NewWithConfig(ctx, cfg, log)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithConfig wires every component from an already loaded config.
func NewWithConfig(ctx context.Context, cfg *config.Config, log *logger.Logger) (*App, error) {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(serviceName, cfg.Env, version))

	var metrics *observability.Metrics
	if observability.MetricsEnabled() {
		metrics = observability.NewMetrics()
	}

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		return nil, err
	}
	services, err := wireServices(log, cfg, clients)
	if err != nil {
		clients.Close()
		return nil, err
	}
	handlerset := wireHandlers(log, services, clients, metrics)
	server := wireServer(log, cfg.HTTP, handlerset, metrics)

	log.Info("RoomStage wired",
		"primary", services.Primary.Name(),
		"storage", cfg.Storage.Mode,
		"capture_cache", clients.Redis != nil,
		"capture_disabled", cfg.Capture.Disabled,
		"metrics", metrics != nil,
	)

	return &App{
		Log:          log,
		Config:       cfg,
		Metrics:      metrics,
		Clients:      clients,
		Services:     services,
		Server:       server,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves until ctx is canceled, then drains in-flight requests.
func (a *App) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", a.Config.HTTP.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", a.Config.HTTP.Addr, err)
	}
	return a.Serve(ctx, ln)
}

func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	bgCtx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	a.Metrics.StartRedisCollector(bgCtx, a.Log, a.Clients.Redis, 0)
	if bs, ok := a.Clients.Store.(*assets.BucketStore); ok {
		bs.StartSweeper(bgCtx, a.Log, assetSweepInterval, a.Config.Storage.Retention.Duration)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Server.Serve(ln)
	}()
	a.Log.Info("HTTP server listening", "addr", ln.Addr().String())

	select {
	case <-ctx.Done():
		a.Log.Info("Shutting down")
		return shutdown.Drain(a.Config.HTTP.ShutdownTimeout.Duration, a.Server.Shutdown, a.otelShutdown)
	case err := <-errCh:
		return err
	}
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	a.Clients.Close()
	if a.Log != nil {
		a.Log.Sync()
	}
}
