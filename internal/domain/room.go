package domain

import (
	"fmt"
	"math"
	"strings"
)

// RoomSpec is the caller-supplied physical description of the room.
type RoomSpec struct {
	Width      float64 `json:"width"`
	Length     float64 `json:"length"`
	Height     float64 `json:"height"`
	WallColor  string  `json:"wall_color,omitempty"`
	FloorColor string  `json:"floor_color,omitempty"`
}

const (
	DefaultWallColor  = "#F2EFE9"
	DefaultFloorColor = "#B89B72"
)

func (r RoomSpec) Validate() error {
	dims := []struct {
		name string
		v    float64
	}{{"width", r.Width}, {"length", r.Length}, {"height", r.Height}}
	for _, d := range dims {
		if !(d.v > 0) || math.IsInf(d.v, 0) {
			return fmt.Errorf("room %s must be a positive finite number", d.name)
		}
	}
	colors := []struct {
		name, v string
	}{{"wall_color", r.WallColor}, {"floor_color", r.FloorColor}}
	for _, c := range colors {
		if strings.TrimSpace(c.v) == "" {
			continue
		}
		if _, err := ParseHexColor(c.v); err != nil {
			return fmt.Errorf("%s: %w", c.name, err)
		}
	}
	return nil
}

// WallHex returns the wall color or the default when unset.
func (r RoomSpec) WallHex() string {
	if strings.TrimSpace(r.WallColor) == "" {
		return DefaultWallColor
	}
	return r.WallColor
}

// FloorHex returns the floor color or the default when unset.
func (r RoomSpec) FloorHex() string {
	if strings.TrimSpace(r.FloorColor) == "" {
		return DefaultFloorColor
	}
	return r.FloorColor
}
