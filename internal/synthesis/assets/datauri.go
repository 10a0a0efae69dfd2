// Package assets moves image references between forms: embedded data URIs,
// remote URLs and provider-hosted uploads.
package assets

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	_ "golang.org/x/image/webp"
)

var ErrNotDataURI = errors.New("not a data uri")

func IsDataURI(s string) bool {
	return strings.HasPrefix(strings.TrimSpace(s), "data:")
}

// DecodeDataURI returns the payload and declared media type of a data URI.
// Both base64 and percent-encoded payloads are accepted.
func DecodeDataURI(s string) ([]byte, string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "data:") {
		return nil, "", ErrNotDataURI
	}
	meta, payload, ok := strings.Cut(s[len("data:"):], ",")
	if !ok {
		return nil, "", fmt.Errorf("malformed data uri: missing comma")
	}
	params := strings.Split(meta, ";")
	mime := strings.ToLower(strings.TrimSpace(params[0]))
	isB64 := false
	for _, p := range params[1:] {
		if strings.EqualFold(strings.TrimSpace(p), "base64") {
			isB64 = true
		}
	}
	var data []byte
	if isB64 {
		b, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			b, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
			if err != nil {
				return nil, "", fmt.Errorf("decode data uri: %w", err)
			}
		}
		data = b
	} else {
		u, err := url.PathUnescape(payload)
		if err != nil {
			return nil, "", fmt.Errorf("decode data uri: %w", err)
		}
		data = []byte(u)
	}
	if len(data) == 0 {
		return nil, "", errors.New("empty data uri")
	}
	if mime == "" {
		mime = "text/plain"
	}
	return data, mime, nil
}

func EncodeDataURI(data []byte, mime string) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

// SniffImage identifies png, jpeg, gif and webp payloads by decoding their
// headers. Anything else is rejected.
func SniffImage(data []byte) (string, error) {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("unrecognized image: %w", err)
	}
	return "image/" + format, nil
}
