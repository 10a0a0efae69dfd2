package gcp

import (
	"errors"
	"testing"

	"github.com/yungbote/roomstage-backend/internal/platform/logger"
)

func TestResolveObjectStorageConfig(t *testing.T) {
	cases := []struct {
		name     string
		mode     string
		host     string
		wantMode ObjectStorageMode
		wantCode ObjectStorageConfigErrorCode
	}{
		{name: "default gcs", wantMode: ObjectStorageModeGCS},
		{name: "implicit emulator", host: "http://fake-gcs:4443/", wantMode: ObjectStorageModeGCSEmulator},
		{name: "explicit gcs ignores host", mode: "GCS", host: "http://fake-gcs:4443", wantMode: ObjectStorageModeGCS},
		{name: "emulator without host", mode: "gcs_emulator", wantCode: ObjectStorageConfigErrorMissingEmulatorHost},
		{name: "emulator bad host", mode: "gcs_emulator", host: "fake-gcs", wantCode: ObjectStorageConfigErrorInvalidEmulatorHost},
		{name: "unknown", mode: "s3", wantCode: ObjectStorageConfigErrorInvalidMode},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg, err := ResolveObjectStorageConfig(tc.mode, tc.host)
			if tc.wantCode != "" {
				var ce *ObjectStorageConfigError
				if !errors.As(err, &ce) || ce.Code != tc.wantCode {
					t.Fatalf("err=%v want code %q", err, tc.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveObjectStorageConfig: %v", err)
			}
			if cfg.Mode != tc.wantMode {
				t.Fatalf("mode: want=%q got=%q", tc.wantMode, cfg.Mode)
			}
		})
	}
}

func TestPublicURL(t *testing.T) {
	emu := ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"}
	cases := []struct {
		name     string
		cfg      BucketConfig
		base     string
		want     string
		wantHost string
	}{
		{
			name:     "gcs default",
			cfg:      BucketConfig{Storage: ObjectStorageConfig{Mode: ObjectStorageModeGCS}},
			want:     "https://storage.googleapis.com/renders/a/b.png",
			wantHost: "storage.googleapis.com",
		},
		{
			name:     "cdn wins",
			cfg:      BucketConfig{CDNDomain: "cdn.roomstage.test", Storage: ObjectStorageConfig{Mode: ObjectStorageModeGCS}},
			want:     "https://cdn.roomstage.test/a/b.png",
			wantHost: "cdn.roomstage.test",
		},
		{
			name:     "emulator media url",
			cfg:      BucketConfig{Storage: emu},
			base:     "http://localhost:4443",
			want:     "http://localhost:4443/storage/v1/b/renders/o/a%2Fb.png?alt=media",
			wantHost: "localhost",
		},
		{
			name:     "public base url",
			cfg:      BucketConfig{Storage: ObjectStorageConfig{Mode: ObjectStorageModeGCS}},
			base:     "https://media.roomstage.test",
			want:     "https://media.roomstage.test/renders/a/b.png",
			wantHost: "media.roomstage.test",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			bs := newBucketService(logger.Nop(), nil, "renders", tc.cfg, tc.base)
			if got := bs.PublicURL("/a/b.png"); got != tc.want {
				t.Fatalf("PublicURL: want=%q got=%q", tc.want, got)
			}
			if got := bs.PublicHost(); got != tc.wantHost {
				t.Fatalf("PublicHost: want=%q got=%q", tc.wantHost, got)
			}
		})
	}
}

func TestResolvePublicBaseURL(t *testing.T) {
	base, source, err := resolvePublicBaseURL("", ObjectStorageConfig{Mode: ObjectStorageModeGCSEmulator, EmulatorHost: "http://fake-gcs:4443"})
	if err != nil || base != "http://fake-gcs:4443" || source != "storage_emulator_host" {
		t.Fatalf("base=%q source=%q err=%v", base, source, err)
	}
	if _, _, err := resolvePublicBaseURL("not a url", ObjectStorageConfig{Mode: ObjectStorageModeGCS}); err == nil {
		t.Fatalf("expected error for relative url")
	}
}

func TestContentTypeForKey(t *testing.T) {
	if got := contentTypeForKey("x/Y.JPEG?v=1"); got != "image/jpeg" {
		t.Fatalf("got %q", got)
	}
	if got := contentTypeForKey("x.bin"); got != "" {
		t.Fatalf("got %q", got)
	}
}

func TestCredentialOptions(t *testing.T) {
	env := func(vals map[string]string) func(string) string {
		return func(k string) string { return vals[k] }
	}
	if got := credentialOptions(env(nil)); got != nil {
		t.Fatalf("expected default credentials, got %d options", len(got))
	}
	if got := credentialOptions(env(map[string]string{
		"GOOGLE_APPLICATION_CREDENTIALS_JSON": `{"type":"service_account"}`,
		"GOOGLE_APPLICATION_CREDENTIALS":      "/etc/creds.json",
	})); len(got) != 1 {
		t.Fatalf("options=%d", len(got))
	}
	if got := credentialOptions(env(map[string]string{"GOOGLE_APPLICATION_CREDENTIALS": " /etc/creds.json "})); len(got) != 1 {
		t.Fatalf("options=%d", len(got))
	}
}
