package domain

import (
	"encoding/hex"
	"fmt"
	"image/color"
	"strings"
)

// ParseHexColor accepts "#RRGGBB", "RRGGBB" or the short "#RGB" form.
func ParseHexColor(s string) (color.NRGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) == 3 {
		s = string([]byte{s[0], s[0], s[1], s[1], s[2], s[2]})
	}
	if len(s) != 6 {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	raw, err := hex.DecodeString(s)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid hex color %q", s)
	}
	return color.NRGBA{R: raw[0], G: raw[1], B: raw[2], A: 0xFF}, nil
}

func HexString(c color.NRGBA) string {
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}
