// Package domain holds the request-scoped records shared by the placement,
// scene, prompt and synthesis packages. Nothing here is persisted.
package domain

import "math"

// Vec3 is a point in room-local centimeters: X runs along the back wall,
// Y is height above the floor, Z runs from the back wall toward the viewer.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// NormalizeYaw wraps an angle in radians into [-π, π].
func NormalizeYaw(yaw float64) float64 {
	if math.IsNaN(yaw) || math.IsInf(yaw, 0) {
		return 0
	}
	yaw = math.Mod(yaw, 2*math.Pi)
	if yaw > math.Pi {
		yaw -= 2 * math.Pi
	}
	if yaw < -math.Pi {
		yaw += 2 * math.Pi
	}
	return yaw
}
