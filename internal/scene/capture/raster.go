package capture

import (
	"fmt"
	"image/color"
	"math"
	"sort"
	"strings"

	"github.com/fogleman/gg"

	"github.com/yungbote/roomstage-backend/internal/scene"
)

// Mode selects what a frame encodes.
type Mode string

const (
	// ModeDepth is grayscale with near surfaces bright and far ones dark.
	ModeDepth Mode = "depth"
	// ModeColor is a flat-shaded preview in category colors.
	ModeColor Mode = "color"
)

// ParseMode defaults to depth when s is empty.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeDepth:
		return ModeDepth, nil
	case ModeColor:
		return ModeColor, nil
	default:
		return "", fmt.Errorf("unknown capture mode %q", s)
	}
}

var lightDir = scene.Vec3{X: -0.35, Y: 0.85, Z: 0.4}.Normalize()

type polygon struct {
	pts   [4]scene.Vec3
	n     scene.Vec3
	col   color.NRGBA
	depth float64
}

// drawScene paints one complete frame of g into dc. Room planes are drawn
// first (the camera sits outside the open front wall, so the shell is always
// behind the furniture), then floor shadows, then box faces far to near.
func drawScene(dc *gg.Context, g scene.Graph, mode Mode, tiles int) {
	w, h := dc.Width(), dc.Height()
	pr := newProjector(g.Camera, w, h)

	shell := make([]polygon, 0, tiles*tiles*(1+len(g.Walls)))
	for _, pl := range append([]scene.Plane{g.Floor}, g.Walls...) {
		shell = append(shell, tessellate(pr, pl.Quad, tiles)...)
	}
	var boxes []polygon
	for _, b := range g.Boxes {
		for _, f := range b.Faces() {
			c := centroid(f.Corners)
			if !pr.facing(c, f.Normal) {
				continue
			}
			boxes = append(boxes, polygon{pts: f.Corners, n: f.Normal, col: f.Color, depth: pr.depth(c)})
		}
	}

	near, far := depthRange(pr, g)
	shade := func(p polygon) color.Color {
		if mode == ModeDepth {
			t := (p.depth - near) / (far - near)
			v := uint8(math.Round(255 * (1 - clamp01(t))))
			return color.NRGBA{R: v, G: v, B: v, A: 0xFF}
		}
		k := 0.45 + 0.55*math.Max(0, p.n.Dot(lightDir))
		return color.NRGBA{
			R: uint8(math.Min(255, float64(p.col.R)*k)),
			G: uint8(math.Min(255, float64(p.col.G)*k)),
			B: uint8(math.Min(255, float64(p.col.B)*k)),
			A: 0xFF,
		}
	}

	if mode == ModeDepth {
		dc.SetColor(color.Black)
	} else {
		dc.SetColor(color.NRGBA{R: 0xF7, G: 0xF7, B: 0xF5, A: 0xFF})
	}
	dc.Clear()

	sortFarToNear(shell)
	for _, p := range shell {
		fillPolygon(dc, pr, p.pts, shade(p))
	}

	if mode == ModeColor {
		for _, b := range g.Boxes {
			fillPolygon(dc, pr, b.Footprint(0.002), color.NRGBA{A: 0x55})
		}
	}

	sortFarToNear(boxes)
	for _, p := range boxes {
		fillPolygon(dc, pr, p.pts, shade(p))
	}
}

func tessellate(pr projector, q scene.Quad, n int) []polygon {
	if n < 1 {
		n = 1
	}
	a, b, d := q.Corners[0], q.Corners[1], q.Corners[3]
	u := b.Sub(a).Mul(1 / float64(n))
	v := d.Sub(a).Mul(1 / float64(n))
	out := make([]polygon, 0, n*n)
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			p0 := a.Add(u.Mul(float64(i))).Add(v.Mul(float64(j)))
			pts := [4]scene.Vec3{p0, p0.Add(u), p0.Add(u).Add(v), p0.Add(v)}
			out = append(out, polygon{pts: pts, n: q.Normal, col: q.Color, depth: pr.depth(centroid(pts))})
		}
	}
	return out
}

func fillPolygon(dc *gg.Context, pr projector, pts [4]scene.Vec3, c color.Color) {
	dc.NewSubPath()
	for i, v := range pts {
		x, y, _, ok := pr.project(v)
		if !ok {
			dc.ClearPath()
			return
		}
		if i == 0 {
			dc.MoveTo(x, y)
		} else {
			dc.LineTo(x, y)
		}
	}
	dc.ClosePath()
	dc.SetColor(c)
	dc.Fill()
}

func depthRange(pr projector, g scene.Graph) (near, far float64) {
	near, far = math.Inf(1), math.Inf(-1)
	visit := func(v scene.Vec3) {
		d := pr.depth(v)
		if d < nearPlane {
			return
		}
		near = math.Min(near, d)
		far = math.Max(far, d)
	}
	for _, v := range g.Floor.Corners {
		visit(v)
	}
	for _, wl := range g.Walls {
		for _, v := range wl.Corners {
			visit(v)
		}
	}
	for _, b := range g.Boxes {
		for _, v := range b.Corners() {
			visit(v)
		}
	}
	if math.IsInf(near, 0) || far-near < 1e-6 {
		return 0, 1
	}
	return near, far
}

func sortFarToNear(ps []polygon) {
	sort.SliceStable(ps, func(i, j int) bool { return ps[i].depth > ps[j].depth })
}

func centroid(pts [4]scene.Vec3) scene.Vec3 {
	return pts[0].Add(pts[1]).Add(pts[2]).Add(pts[3]).Mul(0.25)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
