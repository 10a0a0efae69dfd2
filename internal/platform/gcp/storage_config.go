package gcp

import (
	"fmt"
	"net/url"
	"strings"
)

type ObjectStorageMode string

const (
	ObjectStorageModeGCS         ObjectStorageMode = "gcs"
	ObjectStorageModeGCSEmulator ObjectStorageMode = "gcs_emulator"
)

// ObjectStorageConfig is a resolved storage target. Build it with
// ResolveObjectStorageConfig.
type ObjectStorageConfig struct {
	Mode         ObjectStorageMode
	EmulatorHost string
}

func (cfg ObjectStorageConfig) emulated() bool { return cfg.Mode == ObjectStorageModeGCSEmulator }

type ObjectStorageConfigErrorCode string

const (
	ObjectStorageConfigErrorInvalidMode         ObjectStorageConfigErrorCode = "invalid_mode"
	ObjectStorageConfigErrorMissingEmulatorHost ObjectStorageConfigErrorCode = "missing_emulator_host"
	ObjectStorageConfigErrorInvalidEmulatorHost ObjectStorageConfigErrorCode = "invalid_emulator_host"
)

type ObjectStorageConfigError struct {
	Code         ObjectStorageConfigErrorCode
	Mode         string
	EmulatorHost string
	Cause        error
}

func (e *ObjectStorageConfigError) Error() string {
	if e == nil {
		return "storage config: invalid"
	}
	var detail string
	switch e.Code {
	case ObjectStorageConfigErrorInvalidMode:
		detail = fmt.Sprintf("mode %q is not one of %s, %s", e.Mode, ObjectStorageModeGCS, ObjectStorageModeGCSEmulator)
	case ObjectStorageConfigErrorMissingEmulatorHost:
		detail = "emulator mode needs an emulator host"
	case ObjectStorageConfigErrorInvalidEmulatorHost:
		detail = fmt.Sprintf("emulator host %q is not an absolute url", e.EmulatorHost)
	default:
		detail = string(e.Code)
	}
	return "storage config: " + detail
}

func (e *ObjectStorageConfigError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// ResolveObjectStorageConfig normalizes a configured mode. An empty mode
// picks the emulator when a host is given, else real GCS.
func ResolveObjectStorageConfig(mode, emulatorHost string) (ObjectStorageConfig, error) {
	cfg := ObjectStorageConfig{
		Mode:         ObjectStorageMode(strings.ToLower(strings.TrimSpace(mode))),
		EmulatorHost: strings.TrimRight(strings.TrimSpace(emulatorHost), "/"),
	}
	if cfg.Mode == "" {
		cfg.Mode = ObjectStorageModeGCS
		if cfg.EmulatorHost != "" {
			cfg.Mode = ObjectStorageModeGCSEmulator
		}
	}
	return cfg, cfg.validate()
}

func (cfg ObjectStorageConfig) validate() error {
	fail := func(code ObjectStorageConfigErrorCode, cause error) error {
		return &ObjectStorageConfigError{Code: code, Mode: string(cfg.Mode), EmulatorHost: cfg.EmulatorHost, Cause: cause}
	}
	switch cfg.Mode {
	case ObjectStorageModeGCS:
		return nil
	case ObjectStorageModeGCSEmulator:
	default:
		return fail(ObjectStorageConfigErrorInvalidMode, nil)
	}
	if cfg.EmulatorHost == "" {
		return fail(ObjectStorageConfigErrorMissingEmulatorHost, nil)
	}
	if _, err := absoluteURL(cfg.EmulatorHost); err != nil {
		return fail(ObjectStorageConfigErrorInvalidEmulatorHost, err)
	}
	return nil
}

func absoluteURL(raw string) (*url.URL, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("%q has no scheme or host", raw)
	}
	return u, nil
}
