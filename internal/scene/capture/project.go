package capture

import (
	"math"

	"github.com/yungbote/roomstage-backend/internal/scene"
)

const nearPlane = 0.05

// projector maps scene points to pixel coordinates for a fixed camera.
type projector struct {
	eye            scene.Vec3
	right, up, fwd scene.Vec3
	focal          float64
	cx, cy         float64
}

func newProjector(cam scene.Camera, width, height int) projector {
	fwd := cam.Target.Sub(cam.Position).Normalize()
	up := cam.Up
	if up.Len() == 0 {
		up = scene.Vec3{Y: 1}
	}
	right := fwd.Cross(up).Normalize()
	trueUp := right.Cross(fwd).Normalize()
	fov := cam.FOV
	if fov <= 0 || fov >= 180 {
		fov = 50
	}
	return projector{
		eye:   cam.Position,
		right: right,
		up:    trueUp,
		fwd:   fwd,
		focal: (float64(height) / 2) / math.Tan(fov*math.Pi/360),
		cx:    float64(width) / 2,
		cy:    float64(height) / 2,
	}
}

// depth is the view-space distance along the camera axis.
func (p projector) depth(v scene.Vec3) float64 {
	return v.Sub(p.eye).Dot(p.fwd)
}

// project returns pixel coordinates and depth; ok is false behind the near plane.
func (p projector) project(v scene.Vec3) (x, y, z float64, ok bool) {
	d := v.Sub(p.eye)
	z = d.Dot(p.fwd)
	if z < nearPlane {
		return 0, 0, z, false
	}
	x = p.cx + d.Dot(p.right)/z*p.focal
	y = p.cy - d.Dot(p.up)/z*p.focal
	return x, y, z, true
}

// facing reports whether a surface with normal n through point c faces the eye.
func (p projector) facing(c, n scene.Vec3) bool {
	return n.Dot(p.eye.Sub(c)) > 0
}
