package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/yungbote/roomstage-backend/internal/platform/envutil"
)

const DefaultAPIKeyEnv = "ROOMSTAGE_PRIMARY_API_KEY"

func (d *Duration) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		d.Duration = 0
		return nil
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		u, err := strconv.Unquote(s)
		if err != nil {
			return err
		}
		return d.parse(u)
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("duration must be a string like \"5s\" or an int nanoseconds: %w", err)
	}
	d.Duration = time.Duration(n)
	return nil
}

func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind != yaml.ScalarNode {
		return fmt.Errorf("duration must be a scalar, line %d", node.Line)
	}
	if node.Tag == "!!int" {
		n, err := strconv.ParseInt(node.Value, 10, 64)
		if err != nil {
			return err
		}
		d.Duration = time.Duration(n)
		return nil
	}
	return d.parse(node.Value)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Duration.String())
}

func (d *Duration) parse(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		d.Duration = 0
		return nil
	}
	dd, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	d.Duration = dd
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Env: "development",
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: Duration{Duration: 5 * time.Second},
			IdleTimeout:       Duration{Duration: 2 * time.Minute},
			ShutdownTimeout:   Duration{Duration: 15 * time.Second},
			MaxRequestBytes:   20 << 20,
		},
		Primary: PrimaryConfig{
			Type:      "mock",
			APIKeyEnv: DefaultAPIKeyEnv,
		},
		Fallback: FallbackConfig{
			BaseURL: "https://image.pollinations.ai",
			Width:   1024,
			Height:  768,
			Flags:   []string{"nologo=true", "enhance=true"},
		},
		Depth: DepthConfig{
			ConditioningStrength: 0.6,
			ApplyStrength:        0.8,
		},
		Capture: CaptureConfig{
			Width:       768,
			Height:      512,
			Supersample: 2,
			Tiles:       12,
			MaxPixels:   4096 * 4096,
		},
		Storage: StorageConfig{
			Mode:      "provider",
			Retention: Duration{Duration: 72 * time.Hour},
		},
		Cache: CacheConfig{
			TTL:    Duration{Duration: 24 * time.Hour},
			Prefix: "roomstage:capture:",
		},
	}
}

// Load reads ROOMSTAGE_CONFIG_PATH (or config/config.{json,yaml,yml} under
// the working directory), applies env overrides, then fills defaults and
// validates. Fields absent from the file keep their defaults.
func Load() (*Config, error) {
	cfg := defaultConfig()

	cfgPath := strings.TrimSpace(os.Getenv("ROOMSTAGE_CONFIG_PATH"))
	if cfgPath == "" {
		cfgPath = discover()
	}
	if cfgPath != "" {
		if err := readFile(cfgPath, cfg); err != nil {
			return nil, fmt.Errorf("load config %s: %w", cfgPath, err)
		}
	}

	applyEnv(cfg)
	if err := normalize(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func discover() string {
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	for _, name := range []string{"config.json", "config.yaml", "config.yml"} {
		p := filepath.Join(wd, "config", name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

func readFile(path string, cfg *Config) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Unmarshal(b, cfg)
	default:
		return json.Unmarshal(b, cfg)
	}
}

func applyEnv(cfg *Config) {
	cfg.Env = envutil.String("LOG_MODE", cfg.Env)
	cfg.HTTP.Addr = envutil.String("ROOMSTAGE_HTTP_ADDR", cfg.HTTP.Addr)
	cfg.Primary.Type = envutil.String("ROOMSTAGE_PRIMARY_TYPE", cfg.Primary.Type)
	cfg.Primary.BaseURL = envutil.String("ROOMSTAGE_PRIMARY_BASE_URL", cfg.Primary.BaseURL)
	cfg.Fallback.BaseURL = envutil.String("ROOMSTAGE_FALLBACK_BASE_URL", cfg.Fallback.BaseURL)
	cfg.Cache.RedisAddr = envutil.String("REDIS_ADDR", cfg.Cache.RedisAddr)
	cfg.Storage.Mode = envutil.String("OBJECT_STORAGE_MODE", cfg.Storage.Mode)
	cfg.Storage.EmulatorHost = envutil.String("STORAGE_EMULATOR_HOST", cfg.Storage.EmulatorHost)
	cfg.Storage.Bucket = envutil.String("ROOMSTAGE_ASSET_BUCKET", cfg.Storage.Bucket)
	cfg.Capture.Disabled = envutil.Bool("ROOMSTAGE_CAPTURE_DISABLED", cfg.Capture.Disabled)
	cfg.Capture.MaxPixels = envutil.Int("ROOMSTAGE_CAPTURE_MAX_PIXELS", cfg.Capture.MaxPixels)
}

func normalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "development"
	}
	if strings.TrimSpace(cfg.HTTP.Addr) == "" {
		cfg.HTTP.Addr = ":8080"
	}
	if cfg.HTTP.MaxRequestBytes <= 0 {
		cfg.HTTP.MaxRequestBytes = 20 << 20
	}

	p := &cfg.Primary
	p.Type = strings.ToLower(strings.TrimSpace(p.Type))
	p.BaseURL = strings.TrimRight(strings.TrimSpace(p.BaseURL), "/")
	if strings.TrimSpace(p.APIKeyEnv) == "" {
		p.APIKeyEnv = DefaultAPIKeyEnv
	}
	switch p.Type {
	case "", "mock":
		p.Type = "mock"
	case "http", "image_http":
		p.Type = "http"
		if p.BaseURL == "" {
			return errors.New("primary (http) missing base_url")
		}
		if strings.TrimSpace(p.AssetDomain) == "" {
			u, err := url.Parse(p.BaseURL)
			if err != nil || u.Hostname() == "" {
				return fmt.Errorf("primary base_url %q is not a valid url", p.BaseURL)
			}
			p.AssetDomain = u.Hostname()
		}
		if p.GenerationsPath == "" {
			p.GenerationsPath = "/v1/images/generations"
		}
		if p.EditsPath == "" {
			p.EditsPath = "/v1/images/edits"
		}
		if p.UploadPath == "" {
			p.UploadPath = "/v1/storage/upload"
		}
	default:
		return fmt.Errorf("invalid primary.type=%q", p.Type)
	}
	if p.Timeout.Duration < 0 {
		return errors.New("invalid primary.timeout")
	}
	if p.Timeout.Duration == 0 {
		p.Timeout = Duration{Duration: 90 * time.Second}
	}

	f := &cfg.Fallback
	f.BaseURL = strings.TrimRight(strings.TrimSpace(f.BaseURL), "/")
	if f.BaseURL == "" {
		return errors.New("fallback.base_url is required")
	}
	if f.Width <= 0 || f.Height <= 0 {
		return fmt.Errorf("invalid fallback size %dx%d", f.Width, f.Height)
	}

	if !unit(cfg.Depth.ConditioningStrength) {
		return fmt.Errorf("depth.conditioning_strength %v outside [0,1]", cfg.Depth.ConditioningStrength)
	}
	if !unit(cfg.Depth.ApplyStrength) {
		return fmt.Errorf("depth.apply_strength %v outside [0,1]", cfg.Depth.ApplyStrength)
	}

	c := &cfg.Capture
	if c.Width <= 0 || c.Height <= 0 {
		return fmt.Errorf("invalid capture size %dx%d", c.Width, c.Height)
	}
	if c.Supersample <= 0 {
		c.Supersample = 1
	}
	if c.Tiles <= 0 {
		c.Tiles = 12
	}

	s := &cfg.Storage
	s.Mode = strings.ToLower(strings.TrimSpace(s.Mode))
	switch s.Mode {
	case "", "provider":
		s.Mode = "provider"
	case "gcs", "gcs_emulator":
		if strings.TrimSpace(s.Bucket) == "" {
			return fmt.Errorf("storage mode %s requires a bucket", s.Mode)
		}
	default:
		return fmt.Errorf("invalid storage.mode=%q", s.Mode)
	}
	if s.Retention.Duration < 0 {
		return errors.New("invalid storage.retention")
	}

	if cfg.Cache.TTL.Duration <= 0 {
		cfg.Cache.TTL = Duration{Duration: 24 * time.Hour}
	}
	return nil
}

func unit(v float64) bool { return v >= 0 && v <= 1 }

// APIKey resolves the primary credential from the environment.
func (p PrimaryConfig) APIKey() string {
	return strings.TrimSpace(os.Getenv(p.APIKeyEnv))
}
