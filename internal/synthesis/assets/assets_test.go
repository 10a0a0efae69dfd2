package assets

import (
	"bytes"
	"context"
	"image"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/yungbote/roomstage-backend/internal/platform/logger"
)

func tinyPNG(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewNRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestDataURIRoundTrip(t *testing.T) {
	raw := tinyPNG(t)
	uri := EncodeDataURI(raw, "image/png")
	if !IsDataURI(uri) {
		t.Fatalf("IsDataURI false for %q", uri[:20])
	}
	got, mime, err := DecodeDataURI(uri)
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if mime != "image/png" || !bytes.Equal(got, raw) {
		t.Fatalf("mime=%q len=%d", mime, len(got))
	}
}

func TestDecodeDataURI_Errors(t *testing.T) {
	for _, in := range []string{
		"https://example.com/a.png",
		"data:image/png;base64",
		"data:image/png;base64,!!!",
		"data:image/png;base64,",
	} {
		if _, _, err := DecodeDataURI(in); err == nil {
			t.Fatalf("expected error for %q", in)
		}
	}
}

func TestDecodeDataURI_PercentEncoded(t *testing.T) {
	got, mime, err := DecodeDataURI("data:,hello%20world")
	if err != nil {
		t.Fatalf("DecodeDataURI: %v", err)
	}
	if string(got) != "hello world" || mime != "text/plain" {
		t.Fatalf("got %q %q", got, mime)
	}
}

func TestSniffImage(t *testing.T) {
	if mime, err := SniffImage(tinyPNG(t)); err != nil || mime != "image/png" {
		t.Fatalf("mime=%q err=%v", mime, err)
	}
	if _, err := SniffImage([]byte("not an image")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestFetcher(t *testing.T) {
	raw := tinyPNG(t)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok.png":
			// Deliberately wrong header; the body is sniffed.
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(raw)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewFetcher(5 * time.Second)
	got, mime, err := f.Fetch(context.Background(), srv.URL+"/ok.png")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if mime != "image/png" || !bytes.Equal(got, raw) {
		t.Fatalf("mime=%q len=%d", mime, len(got))
	}
	if _, _, err := f.Fetch(context.Background(), srv.URL+"/missing.png"); err == nil {
		t.Fatalf("expected error for 404")
	}
}

type fakeBucket struct {
	keys  []string
	types []string
	data  [][]byte

	mu      sync.Mutex
	deleted []string
}

func (b *fakeBucket) Upload(_ context.Context, key, contentType string, r io.Reader) error {
	raw, _ := io.ReadAll(r)
	b.keys = append(b.keys, key)
	b.types = append(b.types, contentType)
	b.data = append(b.data, raw)
	return nil
}
func (b *fakeBucket) Delete(_ context.Context, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.deleted = append(b.deleted, key)
	return nil
}
func (b *fakeBucket) ListKeys(_ context.Context, prefix string) ([]string, error) {
	var out []string
	for _, k := range b.keys {
		if strings.HasPrefix(k, prefix) {
			out = append(out, k)
		}
	}
	return out, nil
}
func (b *fakeBucket) deletedKeys() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deleted...)
}
func (b *fakeBucket) PublicURL(key string) string { return "https://cdn.roomstage.test/" + key }
func (b *fakeBucket) PublicHost() string          { return "cdn.roomstage.test" }

func TestBucketStore(t *testing.T) {
	fb := &fakeBucket{}
	s := NewBucketStore(fb, "/renders/")
	s.now = func() time.Time { return time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC) }

	u, err := s.Upload(context.Background(), []byte("x"), "image/webp")
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if len(fb.keys) != 1 || !strings.HasPrefix(fb.keys[0], "renders/2026/03/04/") || !strings.HasSuffix(fb.keys[0], ".webp") {
		t.Fatalf("keys=%v", fb.keys)
	}
	if fb.types[0] != "image/webp" {
		t.Fatalf("content type=%q", fb.types[0])
	}
	if !s.Hosts(u) {
		t.Fatalf("store should host its own url %q", u)
	}
	if s.Hosts("https://elsewhere.test/a.png") {
		t.Fatalf("foreign url reported as hosted")
	}
}

func TestBucketStoreSweep(t *testing.T) {
	fb := &fakeBucket{keys: []string{
		"renders/2026/02/27/a.png",
		"renders/2026/03/01/b.png",
		"renders/2026/03/03/c.png",
		"renders/2026/03/04/d.png",
		"renders/notes.txt",
		"other/2020/01/01/e.png",
	}}
	s := NewBucketStore(fb, "renders")
	s.now = func() time.Time { return time.Date(2026, 3, 4, 5, 0, 0, 0, time.UTC) }

	n, err := s.Sweep(context.Background(), 72*time.Hour)
	if err != nil {
		t.Fatalf("Sweep: %v", err)
	}
	want := []string{"renders/2026/02/27/a.png"}
	if got := fb.deletedKeys(); n != 1 || len(got) != 1 || got[0] != want[0] {
		t.Fatalf("deleted=%v n=%d", got, n)
	}

	if n, _ := s.Sweep(context.Background(), 0); n != 0 {
		t.Fatalf("zero retention deleted %d", n)
	}
}

func TestBucketStoreStartSweeper(t *testing.T) {
	fb := &fakeBucket{keys: []string{"assets/2020/01/01/old.png", "assets/2026/03/04/new.png"}}
	s := NewBucketStore(fb, "")
	s.now = func() time.Time { return time.Date(2026, 3, 4, 5, 0, 0, 0, time.UTC) }

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s.StartSweeper(ctx, logger.Nop(), time.Hour, 24*time.Hour)

	deadline := time.Now().Add(2 * time.Second)
	for len(fb.deletedKeys()) == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if got := fb.deletedKeys(); len(got) != 1 || got[0] != "assets/2020/01/01/old.png" {
		t.Fatalf("deleted=%v", got)
	}
}
