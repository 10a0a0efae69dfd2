package synthesis

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/roomstage-backend/internal/synthesis/assets"
)

// RemoteFetcher downloads an image that is not yet in the provider's store.
type RemoteFetcher interface {
	Fetch(ctx context.Context, rawURL string) ([]byte, string, error)
}

// normalizeAll makes every reference dereferenceable by the provider. Uploads
// run concurrently. A reference that cannot be normalized is passed through
// unchanged; the provider call may then fail and take the fallback path.
// Panics are recovered per upload since they run off the caller's goroutine.
func (o *Orchestrator) normalizeAll(ctx context.Context, refs []string) []string {
	out := make([]string, len(refs))
	copy(out, refs)
	if len(refs) == 0 {
		return out
	}

	var g errgroup.Group
	for i, ref := range refs {
		g.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					o.log.Warn("asset normalization panicked, passing reference through",
						"index", i,
						"ref", ref,
						"error", &Error{Kind: KindAssetNormalization, Provider: o.primary.Name(), Err: fmt.Errorf("panic: %v", r)},
					)
				}
			}()
			u, err := o.normalize(ctx, ref)
			if err != nil {
				o.log.Warn("asset normalization failed, passing reference through",
					"index", i,
					"ref", ref,
					"error", &Error{Kind: KindAssetNormalization, Provider: o.primary.Name(), Err: err},
				)
				return nil
			}
			out[i] = u
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func (o *Orchestrator) normalize(ctx context.Context, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ref, nil
	}
	if assets.IsDataURI(ref) {
		data, mime, err := assets.DecodeDataURI(ref)
		if err != nil {
			return "", err
		}
		if sniffed, err := assets.SniffImage(data); err == nil {
			mime = sniffed
		}
		return o.store.Upload(ctx, data, mime)
	}
	if o.store.Hosts(ref) {
		return ref, nil
	}
	u, err := url.Parse(ref)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return "", errors.New("unsupported reference scheme")
	}
	if o.fetcher == nil {
		return "", errors.New("no fetcher configured for remote references")
	}
	data, mime, err := o.fetcher.Fetch(ctx, ref)
	if err != nil {
		return "", err
	}
	return o.store.Upload(ctx, data, mime)
}
