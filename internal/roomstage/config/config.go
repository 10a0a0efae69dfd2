package config

import "time"

type Duration struct {
	Duration time.Duration
}

type HTTPConfig struct {
	Addr              string   `json:"addr" yaml:"addr"`
	ReadHeaderTimeout Duration `json:"read_header_timeout" yaml:"read_header_timeout"`
	IdleTimeout       Duration `json:"idle_timeout" yaml:"idle_timeout"`
	ShutdownTimeout   Duration `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	MaxRequestBytes   int64    `json:"max_request_bytes" yaml:"max_request_bytes"`
	CORSOrigins       []string `json:"cors_origins,omitempty" yaml:"cors_origins,omitempty"`
}

type PrimaryConfig struct {
	// Type is "http" (images gateway) or "mock".
	Type    string `json:"type" yaml:"type"`
	BaseURL string `json:"base_url,omitempty" yaml:"base_url,omitempty"`

	// APIKeyEnv names the environment variable holding the credential. The
	// key itself never lives in the config file.
	APIKeyEnv string `json:"api_key_env,omitempty" yaml:"api_key_env,omitempty"`

	// AssetDomain is the host the provider serves uploaded and generated
	// assets from. Defaults to the base URL host.
	AssetDomain string `json:"asset_domain,omitempty" yaml:"asset_domain,omitempty"`

	Model string `json:"model,omitempty" yaml:"model,omitempty"`
	Size  string `json:"size,omitempty" yaml:"size,omitempty"`

	GenerationsPath string `json:"generations_path,omitempty" yaml:"generations_path,omitempty"`
	EditsPath       string `json:"edits_path,omitempty" yaml:"edits_path,omitempty"`
	UploadPath      string `json:"upload_path,omitempty" yaml:"upload_path,omitempty"`

	// Timeout bounds each provider call; expiry takes the fallback path.
	Timeout Duration `json:"timeout,omitempty" yaml:"timeout,omitempty"`
}

type FallbackConfig struct {
	BaseURL string   `json:"base_url" yaml:"base_url"`
	Width   int      `json:"width" yaml:"width"`
	Height  int      `json:"height" yaml:"height"`
	Flags   []string `json:"flags,omitempty" yaml:"flags,omitempty"`
}

type DepthConfig struct {
	ConditioningStrength float64 `json:"conditioning_strength" yaml:"conditioning_strength"`
	ApplyStrength        float64 `json:"apply_strength" yaml:"apply_strength"`
}

type CaptureConfig struct {
	Width       int  `json:"width" yaml:"width"`
	Height      int  `json:"height" yaml:"height"`
	Supersample int  `json:"supersample" yaml:"supersample"`
	Tiles       int  `json:"tiles" yaml:"tiles"`
	MaxPixels   int  `json:"max_pixels,omitempty" yaml:"max_pixels,omitempty"`
	Disabled    bool `json:"disabled,omitempty" yaml:"disabled,omitempty"`
}

type StorageConfig struct {
	// Mode is "provider" (upload through the primary provider), "gcs" or
	// "gcs_emulator".
	Mode          string `json:"mode" yaml:"mode"`
	Bucket        string `json:"bucket,omitempty" yaml:"bucket,omitempty"`
	EmulatorHost  string `json:"emulator_host,omitempty" yaml:"emulator_host,omitempty"`
	PublicBaseURL string `json:"public_base_url,omitempty" yaml:"public_base_url,omitempty"`
	CDNDomain     string `json:"cdn_domain,omitempty" yaml:"cdn_domain,omitempty"`
	Prefix        string `json:"prefix,omitempty" yaml:"prefix,omitempty"`
	// Retention is how long normalized uploads are kept in the bucket. Zero
	// disables the sweep.
	Retention Duration `json:"retention,omitempty" yaml:"retention,omitempty"`
}

type CacheConfig struct {
	RedisAddr string   `json:"redis_addr,omitempty" yaml:"redis_addr,omitempty"`
	TTL       Duration `json:"ttl,omitempty" yaml:"ttl,omitempty"`
	Prefix    string   `json:"prefix,omitempty" yaml:"prefix,omitempty"`
}

type Config struct {
	Env      string         `json:"env" yaml:"env"`
	HTTP     HTTPConfig     `json:"http" yaml:"http"`
	Primary  PrimaryConfig  `json:"primary" yaml:"primary"`
	Fallback FallbackConfig `json:"fallback" yaml:"fallback"`
	Depth    DepthConfig    `json:"depth" yaml:"depth"`
	Capture  CaptureConfig  `json:"capture" yaml:"capture"`
	Storage  StorageConfig  `json:"storage" yaml:"storage"`
	Cache    CacheConfig    `json:"cache" yaml:"cache"`
}
