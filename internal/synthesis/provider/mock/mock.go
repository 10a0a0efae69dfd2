// Package mock is a deterministic in-process provider for local development.
package mock

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"mime"
	"strings"
	"sync"

	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
)

const Domain = "mock.roomstage.local"

type Provider struct {
	mu     sync.Mutex
	assets map[string][]byte
}

func New() *Provider {
	return &Provider{assets: map[string][]byte{}}
}

func (p *Provider) Name() string { return "mock" }

func (p *Provider) Configure(string) {}

func (p *Provider) Generate(ctx context.Context, call provider.Call) (provider.Output, error) {
	if err := ctx.Err(); err != nil {
		return provider.Output{}, err
	}
	if strings.TrimSpace(call.Prompt) == "" {
		return provider.Output{}, errors.New("image prompt required")
	}
	h := sha256.New()
	h.Write([]byte(call.Mode))
	h.Write([]byte{0})
	h.Write([]byte(call.Prompt))
	for _, img := range call.Images {
		h.Write([]byte{0})
		h.Write([]byte(img))
	}
	sum := hex.EncodeToString(h.Sum(nil))[:16]
	return provider.Output{Images: []string{"https://" + Domain + "/renders/" + sum + ".png"}}, nil
}

func (p *Provider) Upload(ctx context.Context, data []byte, mimeType string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty upload")
	}
	sum := sha256.Sum256(data)
	u := "https://" + Domain + "/assets/" + hex.EncodeToString(sum[:8]) + extFor(mimeType)
	p.mu.Lock()
	p.assets[u] = append([]byte(nil), data...)
	p.mu.Unlock()
	return u, nil
}

func (p *Provider) Hosts(rawURL string) bool {
	return provider.HostMatches(rawURL, Domain)
}

// Asset returns bytes previously uploaded under u.
func (p *Provider) Asset(u string) ([]byte, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	b, ok := p.assets[u]
	return b, ok
}

func extFor(mimeType string) string {
	switch strings.ToLower(strings.TrimSpace(mimeType)) {
	case "image/png":
		return ".png"
	case "image/jpeg":
		return ".jpg"
	case "image/webp":
		return ".webp"
	}
	if exts, err := mime.ExtensionsByType(mimeType); err == nil && len(exts) > 0 {
		return exts[0]
	}
	return ".bin"
}
