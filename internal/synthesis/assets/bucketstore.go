package assets

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/roomstage-backend/internal/platform/gcp"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
)

// BucketStore is an AssetStore backed by an object bucket.
type BucketStore struct {
	bucket gcp.Bucket
	prefix string
	now    func() time.Time
}

func NewBucketStore(bucket gcp.Bucket, prefix string) *BucketStore {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		prefix = "assets"
	}
	return &BucketStore{bucket: bucket, prefix: prefix, now: time.Now}
}

func (s *BucketStore) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty upload")
	}
	key := path.Join(s.prefix, s.now().UTC().Format("2006/01/02"), uuid.NewString()+extFor(mimeType))
	if err := s.bucket.Upload(ctx, key, mimeType, bytes.NewReader(data)); err != nil {
		return "", err
	}
	return s.bucket.PublicURL(key), nil
}

func (s *BucketStore) Hosts(rawURL string) bool {
	return provider.HostMatches(rawURL, s.bucket.PublicHost())
}

// Sweep deletes uploads whose day partition ended more than retention ago.
// Uploads are only needed while the provider call that used them runs. Keys
// outside the <prefix>/YYYY/MM/DD/ layout are left alone.
func (s *BucketStore) Sweep(ctx context.Context, retention time.Duration) (int, error) {
	if retention <= 0 {
		return 0, nil
	}
	keys, err := s.bucket.ListKeys(ctx, s.prefix+"/")
	if err != nil {
		return 0, fmt.Errorf("list uploads: %w", err)
	}
	cutoff := s.now().UTC().Add(-retention)
	deleted := 0
	for _, key := range keys {
		day, ok := s.uploadDay(key)
		if !ok || day.AddDate(0, 0, 1).After(cutoff) {
			continue
		}
		if err := s.bucket.Delete(ctx, key); err != nil {
			return deleted, fmt.Errorf("delete %s: %w", key, err)
		}
		deleted++
	}
	return deleted, nil
}

// StartSweeper runs Sweep once right away and then every interval until ctx
// ends. A non-positive retention disables it.
func (s *BucketStore) StartSweeper(ctx context.Context, log *logger.Logger, interval, retention time.Duration) {
	if s == nil || retention <= 0 {
		return
	}
	if interval <= 0 {
		interval = time.Hour
	}
	sweep := func() {
		n, err := s.Sweep(ctx, retention)
		switch {
		case err != nil && ctx.Err() == nil:
			log.Warn("asset sweep failed", "prefix", s.prefix, "deleted", n, "error", err)
		case n > 0:
			log.Info("asset sweep", "prefix", s.prefix, "deleted", n)
		}
	}
	go func() {
		sweep()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sweep()
			}
		}
	}()
}

func (s *BucketStore) uploadDay(key string) (time.Time, bool) {
	rest, ok := strings.CutPrefix(key, s.prefix+"/")
	if !ok {
		return time.Time{}, false
	}
	parts := strings.SplitN(rest, "/", 4)
	if len(parts) != 4 || parts[3] == "" {
		return time.Time{}, false
	}
	day, err := time.Parse("2006/01/02", strings.Join(parts[:3], "/"))
	if err != nil {
		return time.Time{}, false
	}
	return day, true
}

func extFor(mime string) string {
	switch strings.ToLower(strings.TrimSpace(mime)) {
	case "image/png":
		return ".png"
	case "image/jpeg", "image/jpg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".bin"
	}
}
