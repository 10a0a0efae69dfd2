package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/yungbote/roomstage-backend/internal/platform/gcp"
	"github.com/yungbote/roomstage-backend/internal/platform/logger"
	"github.com/yungbote/roomstage-backend/internal/roomstage/config"
	"github.com/yungbote/roomstage-backend/internal/synthesis/assets"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
)

var newBucket = gcp.NewBucket

type StorageProviderBootstrapErrorCode string

const (
	StorageProviderBootstrapErrorInvalidMode         StorageProviderBootstrapErrorCode = "invalid_mode"
	StorageProviderBootstrapErrorMissingEmulatorHost StorageProviderBootstrapErrorCode = "missing_emulator_host"
	StorageProviderBootstrapErrorInvalidEmulatorHost StorageProviderBootstrapErrorCode = "invalid_emulator_host"
	StorageProviderBootstrapErrorConnectFailed       StorageProviderBootstrapErrorCode = "connect_failed"
)

type StorageProviderBootstrapError struct {
	Code         StorageProviderBootstrapErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *StorageProviderBootstrapError) Error() string {
	if e == nil {
		return "asset storage bootstrap failed"
	}
	return fmt.Sprintf("asset storage %s (mode=%s): %v", e.Code, e.Mode, e.Cause)
}

func (e *StorageProviderBootstrapError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// resolveAssetStore picks where normalized assets are uploaded. The
// "provider" mode returns nil so the orchestrator uses the primary provider's
// own store.
func resolveAssetStore(ctx context.Context, log *logger.Logger, cfg config.StorageConfig) (provider.AssetStore, error) {
	if cfg.Mode == "provider" {
		log.Info("asset storage: primary provider store")
		return nil, nil
	}

	storageCfg, err := gcp.ResolveObjectStorageConfig(cfg.Mode, cfg.EmulatorHost)
	fail := func(stage string, err error) error {
		classified := classifyStorageProviderBootstrapError(storageCfg, err)
		log.Error("asset storage "+stage+" failed",
			"bucket", cfg.Bucket,
			"mode", storageCfg.Mode,
			"emulator_host", storageCfg.EmulatorHost,
			"error_code", storageProviderBootstrapErrorCode(classified),
			"error", err,
		)
		return classified
	}
	if err != nil {
		return nil, fail("config", err)
	}

	bucket, err := newBucket(ctx, log, gcp.BucketConfig{
		Name:          cfg.Bucket,
		CDNDomain:     cfg.CDNDomain,
		PublicBaseURL: cfg.PublicBaseURL,
		Storage:       storageCfg,
	})
	if err != nil {
		return nil, fail("bootstrap", err)
	}
	log.Info("asset storage ready", "bucket", cfg.Bucket, "mode", storageCfg.Mode, "prefix", cfg.Prefix)
	return assets.NewBucketStore(bucket, cfg.Prefix), nil
}

// classifyStorageProviderBootstrapError keeps config error codes and files
// everything else under connect_failed.
func classifyStorageProviderBootstrapError(storageCfg gcp.ObjectStorageConfig, err error) error {
	code := StorageProviderBootstrapErrorConnectFailed
	var cfgErr *gcp.ObjectStorageConfigError
	if errors.As(err, &cfgErr) && cfgErr.Code != "" {
		code = StorageProviderBootstrapErrorCode(cfgErr.Code)
	}
	return &StorageProviderBootstrapError{
		Code:         code,
		Mode:         string(storageCfg.Mode),
		EmulatorHost: storageCfg.EmulatorHost,
		Cause:        err,
	}
}

func storageProviderBootstrapErrorCode(err error) StorageProviderBootstrapErrorCode {
	var bootstrapErr *StorageProviderBootstrapError
	if errors.As(err, &bootstrapErr) && bootstrapErr.Code != "" {
		return bootstrapErr.Code
	}
	return StorageProviderBootstrapErrorConnectFailed
}
