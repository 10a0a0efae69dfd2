package scene

import (
	"fmt"
	"image/color"

	"github.com/yungbote/roomstage-backend/internal/domain"
	"github.com/yungbote/roomstage-backend/internal/placement"
)

var categoryColors = map[placement.CatalogCategory]color.NRGBA{
	placement.CategorySofa:     {R: 0x5B, G: 0x6C, B: 0x8F, A: 0xFF},
	placement.CategoryBed:      {R: 0xC9, G: 0xB7, B: 0x9C, A: 0xFF},
	placement.CategoryTable:    {R: 0x8B, G: 0x5E, B: 0x3C, A: 0xFF},
	placement.CategoryRug:      {R: 0xA4, G: 0x8A, B: 0x7B, A: 0xFF},
	placement.CategoryDesk:     {R: 0x6F, G: 0x4E, B: 0x37, A: 0xFF},
	placement.CategoryShelf:    {R: 0x9C, G: 0x7A, B: 0x54, A: 0xFF},
	placement.CategoryMirror:   {R: 0xB8, G: 0xD0, B: 0xDA, A: 0xFF},
	placement.CategoryArmchair: {R: 0x7A, G: 0x8B, B: 0x6F, A: 0xFF},
	placement.CategoryChair:    {R: 0x4E, G: 0x4E, B: 0x4E, A: 0xFF},
	placement.CategoryUnknown:  {R: 0x99, G: 0x99, B: 0x99, A: 0xFF},
}

// ColorFor returns the flat preview color used for a category.
func ColorFor(c placement.CatalogCategory) color.NRGBA {
	if col, ok := categoryColors[c]; ok {
		return col
	}
	return categoryColors[placement.CategoryUnknown]
}

// Build materializes the room shell and one box per placement. items and
// placements are matched by position, as returned by placement.Engine.
// Paint items have no box.
func Build(room domain.RoomSpec, items []domain.CatalogItem, placements []domain.Placement) (Graph, error) {
	if err := room.Validate(); err != nil {
		return Graph{}, fmt.Errorf("build scene: %w", err)
	}
	if len(items) != len(placements) {
		return Graph{}, fmt.Errorf("build scene: %d items but %d placements", len(items), len(placements))
	}

	w, l, h := room.Width/Scale, room.Length/Scale, room.Height/Scale
	floorColor, _ := domain.ParseHexColor(room.FloorHex())
	wallColor, _ := domain.ParseHexColor(room.WallHex())

	g := Graph{
		Extent: Vec3{w, h, l},
		Camera: CameraFor(room),
		Floor: Plane{Name: "floor", Quad: Quad{
			Corners: [4]Vec3{{0, 0, 0}, {w, 0, 0}, {w, 0, l}, {0, 0, l}},
			Normal:  Vec3{0, 1, 0},
			Color:   floorColor,
		}},
		Walls: []Plane{
			{Name: "back", Quad: Quad{
				Corners: [4]Vec3{{0, 0, 0}, {w, 0, 0}, {w, h, 0}, {0, h, 0}},
				Normal:  Vec3{0, 0, 1},
				Color:   wallColor,
			}},
			{Name: "left", Quad: Quad{
				Corners: [4]Vec3{{0, 0, 0}, {0, 0, l}, {0, h, l}, {0, h, 0}},
				Normal:  Vec3{1, 0, 0},
				Color:   wallColor,
			}},
			{Name: "right", Quad: Quad{
				Corners: [4]Vec3{{w, 0, 0}, {w, 0, l}, {w, h, l}, {w, h, 0}},
				Normal:  Vec3{-1, 0, 0},
				Color:   wallColor,
			}},
		},
	}

	for i, it := range items {
		cat := placement.ParseCategory(it.Category)
		if cat == placement.CategoryPaint {
			continue
		}
		p := placements[i]
		fp := placement.FootprintFor(cat, it.Footprint)
		g.Boxes = append(g.Boxes, Box{
			ItemID:   p.ItemID,
			Category: cat,
			Center: Vec3{
				X: p.Position.X / Scale,
				Y: (p.Position.Y + fp.Height/2) / Scale,
				Z: p.Position.Z / Scale,
			},
			Size:  Vec3{fp.Width / Scale, fp.Height / Scale, fp.Depth / Scale},
			Yaw:   p.Yaw,
			Color: ColorFor(cat),
		})
	}
	return g, nil
}

// CameraFor places a fixed elevated three-quarter camera in front of the
// open side of the room, looking at the centroid at 30% of the ceiling
// height. It depends only on the room extents.
func CameraFor(room domain.RoomSpec) Camera {
	w, l, h := room.Width/Scale, room.Length/Scale, room.Height/Scale
	return Camera{
		Position: Vec3{X: 0.9 * w, Y: 1.1 * h, Z: 1.35 * l},
		Target:   Vec3{X: w / 2, Y: 0.3 * h, Z: l / 2},
		Up:       Vec3{0, 1, 0},
		FOV:      50,
	}
}
