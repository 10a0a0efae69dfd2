package app

import (
	"context"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/roomstage-backend/internal/http/handlers"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/roomstage/config"
	"github.com/yungbote/roomstage-backend/internal/scene/capture"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
)

type Clients struct {
	Redis *goredis.Client
	Store provider.AssetStore
}

var dialRedis = capture.DialRedis

// wireClients connects external dependencies. Redis is optional: when it
// cannot be reached captures are simply not cached.
func wireClients(ctx context.Context, log *logger.Logger, cfg *config.Config) (Clients, error) {
	var out Clients

	if addr := cfg.Cache.RedisAddr; addr != "" {
		rdb, err := dialRedis(ctx, addr)
		if err != nil {
			log.Warn("Capture cache unavailable (continuing without it)", "addr", addr, "error", err)
		} else {
			log.Info("Capture cache connected", "addr", addr)
			out.Redis = rdb
		}
	}

	store, err := resolveAssetStore(ctx, log, cfg.Storage)
	if err != nil {
		out.Close()
		return Clients{}, err
	}
	out.Store = store
	return out, nil
}

// optionalChecks pings dependencies the service can run without. A failure
// marks readiness degraded rather than not ready.
func (c Clients) optionalChecks() map[string]handlers.ReadinessCheck {
	checks := map[string]handlers.ReadinessCheck{}
	if c.Redis != nil {
		rdb := c.Redis
		checks["redis"] = func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}
	}
	return checks
}

func (c Clients) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
}
