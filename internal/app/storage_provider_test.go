package app

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/yungbote/roomstage-backend/internal/platform/gcp"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/roomstage/config"
	"github.com/yungbote/roomstage-backend/internal/synthesis/assets"
)

func TestClassifyStorageProviderBootstrapError(t *testing.T) {
	cases := []struct {
		name string
		src  gcp.ObjectStorageConfigErrorCode
		want StorageProviderBootstrapErrorCode
	}{
		{"invalid mode", gcp.ObjectStorageConfigErrorInvalidMode, StorageProviderBootstrapErrorInvalidMode},
		{"missing host", gcp.ObjectStorageConfigErrorMissingEmulatorHost, StorageProviderBootstrapErrorMissingEmulatorHost},
		{"invalid host", gcp.ObjectStorageConfigErrorInvalidEmulatorHost, StorageProviderBootstrapErrorInvalidEmulatorHost},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			storageCfg := gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCSEmulator, EmulatorHost: "fake-gcs:4443"}
			err := classifyStorageProviderBootstrapError(storageCfg, &gcp.ObjectStorageConfigError{Code: tc.src})

			var got *StorageProviderBootstrapError
			if !errors.As(err, &got) {
				t.Fatalf("expected StorageProviderBootstrapError, got=%T", err)
			}
			if got.Code != tc.want {
				t.Fatalf("code: want=%q got=%q", tc.want, got.Code)
			}
			if got.EmulatorHost != "fake-gcs:4443" {
				t.Fatalf("emulator host: %q", got.EmulatorHost)
			}
		})
	}
}

func TestClassifyStorageProviderBootstrapErrorConnectFailed(t *testing.T) {
	err := classifyStorageProviderBootstrapError(gcp.ObjectStorageConfig{Mode: gcp.ObjectStorageModeGCS}, io.ErrUnexpectedEOF)
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("code: want=%q got=%q", StorageProviderBootstrapErrorConnectFailed, code)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("cause not preserved: %v", err)
	}
}

func TestResolveAssetStoreProviderMode(t *testing.T) {
	store, err := resolveAssetStore(context.Background(), logger.Nop(), config.StorageConfig{Mode: "provider"})
	if err != nil || store != nil {
		t.Fatalf("store=%v err=%v", store, err)
	}
}

func TestResolveAssetStoreInvalidEmulatorHost(t *testing.T) {
	_, err := resolveAssetStore(context.Background(), logger.Nop(), config.StorageConfig{
		Mode:         "gcs_emulator",
		Bucket:       "assets",
		EmulatorHost: "fake-gcs:4443",
	})
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorInvalidEmulatorHost {
		t.Fatalf("code=%q err=%v", code, err)
	}
}

type stubBucket struct{ keys []string }

func (b *stubBucket) Upload(_ context.Context, key, _ string, r io.Reader) error {
	if _, err := io.ReadAll(r); err != nil {
		return err
	}
	b.keys = append(b.keys, key)
	return nil
}
func (b *stubBucket) Delete(context.Context, string) error               { return nil }
func (b *stubBucket) ListKeys(context.Context, string) ([]string, error) { return b.keys, nil }
func (b *stubBucket) PublicURL(key string) string                        { return "https://cdn.roomstage.test/" + key }
func (b *stubBucket) PublicHost() string                                 { return "cdn.roomstage.test" }

func TestResolveAssetStoreGCS(t *testing.T) {
	bucket := &stubBucket{}
	var gotCfg gcp.BucketConfig
	orig := newBucket
	newBucket = func(_ context.Context, _ *logger.Logger, cfg gcp.BucketConfig) (gcp.Bucket, error) {
		gotCfg = cfg
		return bucket, nil
	}
	t.Cleanup(func() { newBucket = orig })

	store, err := resolveAssetStore(context.Background(), logger.Nop(), config.StorageConfig{
		Mode:      "gcs",
		Bucket:    "roomstage-assets",
		CDNDomain: "cdn.roomstage.test",
		Prefix:    "uploads",
	})
	if err != nil {
		t.Fatalf("resolveAssetStore: %v", err)
	}
	if _, ok := store.(*assets.BucketStore); !ok {
		t.Fatalf("store type=%T", store)
	}
	if gotCfg.Name != "roomstage-assets" || gotCfg.Storage.Mode != gcp.ObjectStorageModeGCS {
		t.Fatalf("bucket config=%+v", gotCfg)
	}

	u, err := store.Upload(context.Background(), []byte("png"), "image/png")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if !store.Hosts(u) || !strings.HasPrefix(u, "https://cdn.roomstage.test/uploads/") {
		t.Fatalf("url=%q", u)
	}
}

func TestResolveAssetStoreConnectFailure(t *testing.T) {
	orig := newBucket
	newBucket = func(context.Context, *logger.Logger, gcp.BucketConfig) (gcp.Bucket, error) {
		return nil, errors.New("dial tcp: refused")
	}
	t.Cleanup(func() { newBucket = orig })

	_, err := resolveAssetStore(context.Background(), logger.Nop(), config.StorageConfig{Mode: "gcs", Bucket: "b"})
	if code := storageProviderBootstrapErrorCode(err); code != StorageProviderBootstrapErrorConnectFailed {
		t.Fatalf("code=%q", code)
	}
}
