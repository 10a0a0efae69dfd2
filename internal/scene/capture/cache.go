package capture

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/scene"
)

// FrameCache memoizes encoded frames. Captures are a pure function of the
// graph and options, so a hit is exact.
type FrameCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, png []byte)
}

type RedisCache struct {
	log    *logger.Logger
	rdb    *goredis.Client
	prefix string
	ttl    time.Duration
}

func NewRedisCache(log *logger.Logger, rdb *goredis.Client, prefix string, ttl time.Duration) *RedisCache {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "roomstage:capture:"
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCache{
		log:    log.With("component", "CaptureCache"),
		rdb:    rdb,
		prefix: prefix,
		ttl:    ttl,
	}
}

// DialRedis connects and pings; callers treat an error as "no cache".
func DialRedis(ctx context.Context, addr string) (*goredis.Client, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("missing redis addr")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	if c == nil || c.rdb == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, goredis.Nil) {
			c.log.Warn("capture cache read failed", "error", err)
		}
		return nil, false
	}
	return raw, len(raw) > 0
}

func (c *RedisCache) Set(ctx context.Context, key string, png []byte) {
	if c == nil || c.rdb == nil || len(png) == 0 {
		return
	}
	if err := c.rdb.Set(ctx, c.prefix+key, png, c.ttl).Err(); err != nil {
		c.log.Warn("capture cache write failed", "error", err)
	}
}

type keyMaterial struct {
	Graph scene.Graph `json:"graph"`
	Mode  Mode        `json:"mode"`
	Opts  Options     `json:"opts"`
}

func frameKey(g scene.Graph, mode Mode, o Options) string {
	raw, err := json.Marshal(keyMaterial{Graph: g, Mode: mode, Opts: o})
	if err != nil {
		return ""
	}
	sum := blake2b.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
