package domain

import "time"

// GenerationRequest is the input to image synthesis.
type GenerationRequest struct {
	Room          RoomSpec
	ItemNames     []string
	ItemImages    []string
	Style         string
	RoomType      string
	WallColorName string
	WallColorHex  string
	// BaseImage is an optional photo of the caller's room (URL or data URI).
	BaseImage string
	// DepthImage is an optional depth capture (data URI).
	DepthImage string
	// PlacementHint steers where an inserted item goes in two-image edits.
	PlacementHint string
	Hint          string
}

// GenerationResult always carries an image reference; FallbackUsed tells a
// degraded image apart from a primary-provider one.
type GenerationResult struct {
	ImageURL     string        `json:"image_url"`
	Provider     string        `json:"provider"`
	Mode         string        `json:"mode"`
	Prompt       string        `json:"prompt"`
	FallbackUsed bool          `json:"fallback"`
	Latency      time.Duration `json:"-"`
}
