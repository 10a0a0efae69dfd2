package scene

import (
	"image/color"

	"github.com/yungbote/roomstage-backend/internal/placement"
)

// Scale is the number of centimeters per scene unit.
const Scale = 100.0

// Quad is a flat four-cornered polygon with an outward normal.
type Quad struct {
	Corners [4]Vec3
	Normal  Vec3
	Color   color.NRGBA
}

// Plane is a named room surface (floor or wall).
type Plane struct {
	Name string
	Quad
}

// Box is one flat-colored item primitive.
type Box struct {
	ItemID   string
	Category placement.CatalogCategory
	// Center is the box's geometric center.
	Center Vec3
	// Size is width (X), height (Y), depth (Z) before rotation.
	Size  Vec3
	Yaw   float64
	Color color.NRGBA
}

// Corners returns the eight box vertices: bottom face first, then top.
func (b Box) Corners() [8]Vec3 {
	hx, hy, hz := b.Size.X/2, b.Size.Y/2, b.Size.Z/2
	local := [8]Vec3{
		{-hx, -hy, -hz}, {hx, -hy, -hz}, {hx, -hy, hz}, {-hx, -hy, hz},
		{-hx, hy, -hz}, {hx, hy, -hz}, {hx, hy, hz}, {-hx, hy, hz},
	}
	var out [8]Vec3
	for i, p := range local {
		out[i] = rotateY(p, b.Yaw).Add(b.Center)
	}
	return out
}

// Faces returns the six box faces with outward normals.
func (b Box) Faces() [6]Quad {
	c := b.Corners()
	face := func(i0, i1, i2, i3 int, n Vec3) Quad {
		return Quad{Corners: [4]Vec3{c[i0], c[i1], c[i2], c[i3]}, Normal: rotateY(n, b.Yaw), Color: b.Color}
	}
	return [6]Quad{
		face(0, 1, 2, 3, Vec3{0, -1, 0}),
		face(4, 5, 6, 7, Vec3{0, 1, 0}),
		face(0, 1, 5, 4, Vec3{0, 0, -1}),
		face(3, 2, 6, 7, Vec3{0, 0, 1}),
		face(0, 3, 7, 4, Vec3{-1, 0, 0}),
		face(1, 2, 6, 5, Vec3{1, 0, 0}),
	}
}

// Footprint returns the box's floor rectangle lifted by lift units.
func (b Box) Footprint(lift float64) [4]Vec3 {
	c := b.Corners()
	return [4]Vec3{
		{c[0].X, lift, c[0].Z}, {c[1].X, lift, c[1].Z},
		{c[2].X, lift, c[2].Z}, {c[3].X, lift, c[3].Z},
	}
}

type Camera struct {
	Position Vec3
	Target   Vec3
	Up       Vec3
	// FOV is the vertical field of view in degrees.
	FOV float64
}

// Graph is the renderable room: shell planes, item boxes and the camera.
type Graph struct {
	Floor  Plane
	Walls  []Plane
	Boxes  []Box
	Camera Camera
	// Extent is the room size in scene units.
	Extent Vec3
}
