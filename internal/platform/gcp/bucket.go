package gcp

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/roomstage-backend/internal/platform/logger"
)

// Bucket is a single object bucket used for render assets.
type Bucket interface {
	Upload(ctx context.Context, key, contentType string, r io.Reader) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	PublicURL(key string) string
	// PublicHost is the host PublicURL serves from.
	PublicHost() string
}

type BucketConfig struct {
	Name          string
	CDNDomain     string
	PublicBaseURL string
	Storage       ObjectStorageConfig
}

type bucketService struct {
	log           *logger.Logger
	storageClient *storage.Client
	name          string
	cdnDomain     string
	storageMode   ObjectStorageMode
	emulatorHost  string
	publicBaseURL string
}

func NewBucket(ctx context.Context, log *logger.Logger, cfg BucketConfig) (Bucket, error) {
	if err := cfg.Storage.validate(); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(cfg.Name)
	if name == "" {
		return nil, fmt.Errorf("missing bucket name")
	}
	publicBaseURL, publicBaseSource, err := resolvePublicBaseURL(cfg.PublicBaseURL, cfg.Storage)
	if err != nil {
		return nil, err
	}
	stClient, err := newStorageClientForMode(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to create storage client: %w", err)
	}

	serviceLog := log.With("service", "BucketService")
	serviceLog.Info(
		"Object storage initialized",
		"mode", cfg.Storage.Mode,
		"emulator_host", cfg.Storage.EmulatorHost,
		"public_base_source", publicBaseSource,
		"public_base_url", publicBaseURL,
		"bucket", name,
	)
	return newBucketService(serviceLog, stClient, name, cfg, publicBaseURL), nil
}

func newBucketService(log *logger.Logger, client *storage.Client, name string, cfg BucketConfig, publicBaseURL string) *bucketService {
	return &bucketService{
		log:           log,
		storageClient: client,
		name:          name,
		cdnDomain:     strings.TrimSpace(cfg.CDNDomain),
		storageMode:   cfg.Storage.Mode,
		emulatorHost:  strings.TrimRight(strings.TrimSpace(cfg.Storage.EmulatorHost), "/"),
		publicBaseURL: publicBaseURL,
	}
}

func newStorageClientForMode(ctx context.Context, storageCfg ObjectStorageConfig) (*storage.Client, error) {
	switch storageCfg.Mode {
	case ObjectStorageModeGCS:
		opts := append(credentialOptions(os.Getenv), option.WithScopes(storage.ScopeReadWrite))
		return storage.NewClient(ctx, opts...)
	case ObjectStorageModeGCSEmulator:
		// The storage client reads the emulator endpoint from the environment.
		_ = os.Setenv("STORAGE_EMULATOR_HOST", strings.TrimRight(strings.TrimSpace(storageCfg.EmulatorHost), "/"))
		return storage.NewClient(ctx, option.WithoutAuthentication())
	default:
		return nil, &ObjectStorageConfigError{Code: ObjectStorageConfigErrorInvalidMode, Mode: string(storageCfg.Mode)}
	}
}

func resolvePublicBaseURL(raw string, storageCfg ObjectStorageConfig) (baseURL string, source string, err error) {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if _, err := absoluteURL(raw); err != nil {
			return "", "", fmt.Errorf("public_base_url: %w", err)
		}
		return strings.TrimRight(raw, "/"), "public_base_url", nil
	}
	if storageCfg.emulated() {
		return strings.TrimRight(strings.TrimSpace(storageCfg.EmulatorHost), "/"), "storage_emulator_host", nil
	}
	return "", "gcs_default", nil
}

// credentialOptions reads GOOGLE_APPLICATION_CREDENTIALS_JSON (inline) before
// GOOGLE_APPLICATION_CREDENTIALS (a path). Nil means application default credentials.
func credentialOptions(getenv func(string) string) []option.ClientOption {
	for _, name := range []string{"GOOGLE_APPLICATION_CREDENTIALS_JSON", "GOOGLE_APPLICATION_CREDENTIALS"} {
		v := strings.TrimSpace(getenv(name))
		switch {
		case v == "":
			continue
		case strings.HasPrefix(v, "{"):
			return []option.ClientOption{option.WithCredentialsJSON([]byte(v))}
		default:
			return []option.ClientOption{option.WithCredentialsFile(v)}
		}
	}
	return nil
}

func (bs *bucketService) Upload(ctx context.Context, key, contentType string, r io.Reader) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := bs.storageClient.Bucket(bs.name).Object(key).NewWriter(ctx)
	if ct := strings.TrimSpace(contentType); ct != "" {
		w.ContentType = ct
	} else if ct := contentTypeForKey(key); ct != "" {
		w.ContentType = ct
	}
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write data to GCS: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to close GCS writer: %w", err)
	}
	return nil
}

func (bs *bucketService) Delete(ctx context.Context, key string) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	if err := bs.storageClient.Bucket(bs.name).Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete GCS object %q in bucket %q: %w", key, bs.name, err)
	}
	return nil
}

func (bs *bucketService) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	it := bs.storageClient.Bucket(bs.name).Objects(ctx, &storage.Query{Prefix: prefix})
	out := []string{}
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, err
		}
		out = append(out, attrs.Name)
	}
	return out, nil
}

func (bs *bucketService) PublicURL(key string) string {
	key = strings.TrimLeft(strings.TrimSpace(key), "/")
	if bs.cdnDomain != "" {
		return fmt.Sprintf("https://%s/%s", bs.cdnDomain, key)
	}
	if bs.storageMode == ObjectStorageModeGCSEmulator {
		if u := bs.emulatorMediaURL(key); u != "" {
			return u
		}
	}
	if bs.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s/%s", bs.publicBaseURL, bs.name, key)
	}
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bs.name, key)
}

func (bs *bucketService) PublicHost() string {
	u, err := url.Parse(bs.PublicURL("_"))
	if err != nil {
		return ""
	}
	return u.Hostname()
}

func (bs *bucketService) emulatorMediaURL(key string) string {
	base := bs.publicBaseURL
	if base == "" {
		base = bs.emulatorHost
	}
	if base == "" {
		return ""
	}
	return fmt.Sprintf("%s/storage/v1/b/%s/o/%s?alt=media", base, url.PathEscape(bs.name), url.PathEscape(key))
}

func contentTypeForKey(key string) string {
	s := strings.ToLower(strings.TrimSpace(key))
	if i := strings.Index(s, "?"); i >= 0 {
		s = s[:i]
	}
	switch {
	case strings.HasSuffix(s, ".png"):
		return "image/png"
	case strings.HasSuffix(s, ".jpg"), strings.HasSuffix(s, ".jpeg"):
		return "image/jpeg"
	case strings.HasSuffix(s, ".webp"):
		return "image/webp"
	case strings.HasSuffix(s, ".gif"):
		return "image/gif"
	default:
		return ""
	}
}
