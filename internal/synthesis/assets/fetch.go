package assets

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const defaultMaxBytes = 25 << 20

// Fetcher downloads remote reference images so they can be re-uploaded to a
// provider's store.
type Fetcher struct {
	client   *resty.Client
	maxBytes int
}

func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	c := resty.New().
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeader("Accept", "image/*").
		SetHeader("User-Agent", "roomstage-backend/1.0")
	return &Fetcher{client: c, maxBytes: defaultMaxBytes}
}

// Fetch returns the body and media type of rawURL. The media type is sniffed
// from the bytes so a wrong Content-Type header does not leak through.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) ([]byte, string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(strings.TrimSpace(rawURL))
	if err != nil {
		return nil, "", fmt.Errorf("fetch asset: %w", err)
	}
	if resp.IsError() {
		return nil, "", fmt.Errorf("fetch asset: status=%d", resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return nil, "", fmt.Errorf("fetch asset: empty body")
	}
	if len(body) > f.maxBytes {
		return nil, "", fmt.Errorf("fetch asset: %d bytes exceeds limit %d", len(body), f.maxBytes)
	}
	mime, err := SniffImage(body)
	if err != nil {
		mime = strings.TrimSpace(strings.Split(resp.Header().Get("Content-Type"), ";")[0])
		if !strings.HasPrefix(mime, "image/") {
			return nil, "", fmt.Errorf("fetch asset: %w", err)
		}
	}
	return body, mime, nil
}
