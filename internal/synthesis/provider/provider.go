// Package provider defines what the orchestrator needs from an image
// synthesis backend and its asset store.
package provider

import (
	"context"
	"errors"
	"net/url"
	"strings"
)

type Mode string

const (
	ModeTwoImageEdit     Mode = "two_image_edit"
	ModeSingleImageEdit  Mode = "single_image_edit"
	ModeDepthConditioned Mode = "depth_conditioned"
	ModeUnconditioned    Mode = "unconditioned"
)

// Call is one synthesis request. Images holds dereferenceable URLs: the base
// photo then the item reference for edits, or the depth capture for
// depth-conditioned generation.
type Call struct {
	Mode                 Mode
	Prompt               string
	Images               []string
	ConditioningStrength float64
	ApplyStrength        float64
}

type Output struct {
	Images []string
}

type Provider interface {
	Name() string
	Generate(ctx context.Context, call Call) (Output, error)
}

// Configurable providers receive the resolved credential once before first use.
type Configurable interface {
	Configure(apiKey string)
}

// AssetStore turns raw bytes into a URL a provider can dereference.
type AssetStore interface {
	Upload(ctx context.Context, data []byte, mimeType string) (string, error)
	// Hosts reports whether rawURL is already served from this store.
	Hosts(rawURL string) bool
}

// HostMatches reports whether rawURL's host is domain or a subdomain of it.
func HostMatches(rawURL, domain string) bool {
	domain = strings.ToLower(strings.TrimSpace(domain))
	if domain == "" {
		return false
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || u == nil {
		return false
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}

// UpstreamStatus returns the HTTP status an upstream error carries, or 0.
func UpstreamStatus(err error) int {
	var se interface{ HTTPStatus() int }
	if errors.As(err, &se) {
		return se.HTTPStatus()
	}
	return 0
}
