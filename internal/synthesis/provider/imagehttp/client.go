// Package imagehttp talks to an HTTP images gateway: text-to-image,
// depth-conditioned generation, image edits and asset upload.
package imagehttp

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/roomstage-backend/internal/roomstage/config"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
)

type Client struct {
	baseURL     string
	assetDomain string
	model       string
	size        string

	generationsPath string
	editsPath       string
	uploadPath      string

	mu     sync.RWMutex
	apiKey string

	httpClient *http.Client
}

func New(cfg config.PrimaryConfig) (*Client, error) {
	baseURL := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if baseURL == "" {
		return nil, errors.New("image_http: base_url required")
	}
	genPath := strings.TrimSpace(cfg.GenerationsPath)
	if genPath == "" {
		genPath = "/v1/images/generations"
	}
	editPath := strings.TrimSpace(cfg.EditsPath)
	if editPath == "" {
		editPath = "/v1/images/edits"
	}
	uploadPath := strings.TrimSpace(cfg.UploadPath)
	if uploadPath == "" {
		uploadPath = "/v1/storage/upload"
	}

	tr := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}

	return &Client{
		baseURL:         baseURL,
		assetDomain:     strings.ToLower(strings.TrimSpace(cfg.AssetDomain)),
		model:           strings.TrimSpace(cfg.Model),
		size:            strings.TrimSpace(cfg.Size),
		generationsPath: genPath,
		editsPath:       editPath,
		uploadPath:      uploadPath,
		httpClient:      &http.Client{Transport: tr},
	}, nil
}

// NewWithHTTPClient is intended for tests; it avoids network access by using a custom RoundTripper.
func NewWithHTTPClient(cfg config.PrimaryConfig, httpClient *http.Client) (*Client, error) {
	c, err := New(cfg)
	if err != nil {
		return nil, err
	}
	if httpClient != nil {
		c.httpClient = httpClient
	}
	return c, nil
}

func (c *Client) Name() string { return "image_http" }

func (c *Client) Configure(apiKey string) {
	c.mu.Lock()
	c.apiKey = strings.TrimSpace(apiKey)
	c.mu.Unlock()
}

func (c *Client) key() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.apiKey
}

// Hosts reports whether rawURL is served from the provider's asset domain.
func (c *Client) Hosts(rawURL string) bool {
	return provider.HostMatches(rawURL, c.assetDomain)
}

// ---------------- Generation ----------------

type generationRequest struct {
	Model                string   `json:"model,omitempty"`
	Prompt               string   `json:"prompt"`
	N                    int      `json:"n"`
	Size                 string   `json:"size,omitempty"`
	ControlImage         string   `json:"control_image,omitempty"`
	ControlType          string   `json:"control_type,omitempty"`
	ConditioningStrength *float64 `json:"conditioning_strength,omitempty"`
	ApplyStrength        *float64 `json:"apply_strength,omitempty"`
}

type editRequest struct {
	Model     string   `json:"model,omitempty"`
	Prompt    string   `json:"prompt"`
	ImageURLs []string `json:"image_urls"`
	N         int      `json:"n"`
	Size      string   `json:"size,omitempty"`
}

type imagesResponse struct {
	Data []struct {
		URL     string `json:"url,omitempty"`
		B64JSON string `json:"b64_json,omitempty"`
	} `json:"data"`
}

func (c *Client) Generate(ctx context.Context, call provider.Call) (provider.Output, error) {
	var out provider.Output
	prompt := strings.TrimSpace(call.Prompt)
	if prompt == "" {
		return out, errors.New("image prompt required")
	}

	var (
		path string
		body any
	)
	switch call.Mode {
	case provider.ModeTwoImageEdit, provider.ModeSingleImageEdit:
		want := 1
		if call.Mode == provider.ModeTwoImageEdit {
			want = 2
		}
		if len(call.Images) < want {
			return out, fmt.Errorf("%s needs %d image(s), got %d", call.Mode, want, len(call.Images))
		}
		path = c.editsPath
		body = editRequest{Model: c.model, Prompt: prompt, ImageURLs: call.Images[:want], N: 1, Size: c.size}
	case provider.ModeDepthConditioned:
		if len(call.Images) < 1 {
			return out, errors.New("depth_conditioned needs a control image")
		}
		cs, as := call.ConditioningStrength, call.ApplyStrength
		path = c.generationsPath
		body = generationRequest{
			Model:                c.model,
			Prompt:               prompt,
			N:                    1,
			Size:                 c.size,
			ControlImage:         call.Images[0],
			ControlType:          "depth",
			ConditioningStrength: &cs,
			ApplyStrength:        &as,
		}
	default:
		path = c.generationsPath
		body = generationRequest{Model: c.model, Prompt: prompt, N: 1, Size: c.size}
	}

	var resp imagesResponse
	if err := c.doJSON(ctx, http.MethodPost, path, body, &resp); err != nil {
		return out, err
	}
	if len(resp.Data) == 0 {
		return out, errors.New("no image returned")
	}
	for _, item := range resp.Data {
		if u := strings.TrimSpace(item.URL); u != "" {
			out.Images = append(out.Images, u)
			continue
		}
		b64 := strings.TrimSpace(item.B64JSON)
		if b64 == "" {
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(b64)
		if err != nil || len(raw) == 0 {
			return provider.Output{}, fmt.Errorf("decode image base64: %w", err)
		}
		u, err := c.Upload(ctx, raw, "image/png")
		if err != nil {
			return provider.Output{}, fmt.Errorf("store generated image: %w", err)
		}
		out.Images = append(out.Images, u)
	}
	if len(out.Images) == 0 {
		return out, errors.New("image response missing b64_json and url")
	}
	return out, nil
}

// ---------------- Storage ----------------

type uploadResponse struct {
	URL string `json:"url"`
}

func (c *Client) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	if strings.TrimSpace(mimeType) == "" {
		mimeType = "application/octet-stream"
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.uploadPath, bytes.NewReader(data))
	if err != nil {
		return "", err
	}
	c.setHeaders(req, mimeType)

	var resp uploadResponse
	if err := c.do(req, &resp); err != nil {
		return "", err
	}
	if strings.TrimSpace(resp.URL) == "" {
		return "", errors.New("upload response missing url")
	}
	return resp.URL, nil
}

// ---------------- HTTP plumbing ----------------

func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return err
		}
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		return err
	}
	c.setHeaders(req, "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
		return newHTTPError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) setHeaders(req *http.Request, contentType string) {
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if k := c.key(); k != "" {
		req.Header.Set("Authorization", "Bearer "+k)
	}
}
