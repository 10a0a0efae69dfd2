// Package fallback builds image URLs for a zero-configuration text-to-image
// service. Building a URL performs no I/O and cannot fail.
package fallback

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

const Name = "fallback"

type Builder struct {
	BaseURL string
	Width   int
	Height  int
	// Flags are appended verbatim as extra query parameters ("nologo=true").
	Flags []string
	// Now supplies the seed; defaults to time.Now.
	Now func() time.Time
}

// URL returns <base>/prompt/<escaped>?width=W&height=H&seed=<unix-ms>&<flags>.
func (b Builder) URL(prompt string) string {
	now := time.Now
	if b.Now != nil {
		now = b.Now
	}
	var sb strings.Builder
	sb.WriteString(strings.TrimRight(b.BaseURL, "/"))
	sb.WriteString("/prompt/")
	sb.WriteString(url.PathEscape(strings.TrimSpace(prompt)))
	sb.WriteString("?width=")
	sb.WriteString(strconv.Itoa(b.Width))
	sb.WriteString("&height=")
	sb.WriteString(strconv.Itoa(b.Height))
	sb.WriteString("&seed=")
	sb.WriteString(strconv.FormatInt(now().UnixMilli(), 10))
	for _, f := range b.Flags {
		if f = strings.TrimSpace(f); f != "" {
			sb.WriteByte('&')
			sb.WriteString(f)
		}
	}
	return sb.String()
}
