package placement

import (
	"fmt"
	"math"

	"github.com/yungbote/roomstage-backend/internal/domain"
)

// Engine computes one Placement per selected item. It holds no state and
// never consults randomness: identical ordered input gives identical output.
//
// There is no collision detection across zones. Independent per-category
// rules may overlap (two sofas share the back-wall slot, a rug sits under
// the table); this is an approximation, not a guaranteed layout.
type Engine struct{}

func New() *Engine { return &Engine{} }

type zoneKey struct {
	zone Zone
	wall Wall
}

func (e *Engine) Place(room domain.RoomSpec, items []domain.CatalogItem) ([]domain.Placement, error) {
	if err := room.Validate(); err != nil {
		return nil, fmt.Errorf("place: %w", err)
	}

	cats := make([]CatalogCategory, len(items))
	for i, it := range items {
		cats[i] = ParseCategory(it.Category)
	}

	// Chairs gather around the first table when one was selected.
	var anchor *surface
	for i, c := range cats {
		if c == CategoryTable {
			fp := FootprintFor(c, items[i].Footprint)
			anchor = &surface{x: room.Width / 2, z: room.Length / 2, width: fp.Width}
			break
		}
	}

	counts := map[zoneKey]int{}
	out := make([]domain.Placement, 0, len(items))
	for i, it := range items {
		rule := RuleFor(cats[i])
		key := zoneKey{zone: rule.Zone}
		if rule.Zone == ZoneAgainstWall || rule.Zone == ZoneDefaultRow {
			key.wall = rule.Wall
		}
		idx := counts[key]
		counts[key] = idx + 1

		fp := FootprintFor(cats[i], it.Footprint)
		pos, yaw := pose(rule, room, fp, idx, anchor)
		pos.X = clamp(pos.X, 0, room.Width)
		pos.Z = clamp(pos.Z, 0, room.Length)

		out = append(out, domain.Placement{
			ItemID:   it.ID,
			Position: pos,
			Yaw:      domain.NormalizeYaw(yaw),
		})
	}
	return out, nil
}

type surface struct {
	x, z  float64
	width float64
}

func pose(rule PlacementRule, room domain.RoomSpec, fp domain.Footprint, idx int, anchor *surface) (domain.Vec3, float64) {
	back := fp.Depth/2 + WallClearance
	y := rule.Elevation

	switch rule.Zone {
	case ZoneBackWallCentered:
		return domain.Vec3{X: room.Width / 2, Y: y, Z: back}, rule.Yaw

	case ZoneRoomCenter:
		return domain.Vec3{X: room.Width / 2, Y: y, Z: room.Length / 2}, rule.Yaw

	case ZoneAgainstWall:
		along := rule.Start + float64(idx)*rule.Spacing
		return wallSlot(rule.Wall, room, back, along, y), rule.Yaw

	case ZoneCornerAngled:
		inset := WallClearance + rule.Offset
		z := fp.Depth/2 + inset + float64(idx/2)*rule.Spacing
		if idx%2 == 0 {
			return domain.Vec3{X: room.Width - fp.Width/2 - inset, Y: y, Z: z}, rule.Yaw
		}
		return domain.Vec3{X: fp.Width/2 + inset, Y: y, Z: z}, -rule.Yaw

	case ZoneNearPrimarySurface:
		side := -1.0
		yaw := math.Pi / 2
		if idx%2 == 1 {
			side = 1
			yaw = -math.Pi / 2
		}
		z := float64(idx/2) * rule.Spacing
		if anchor == nil {
			// No table selected: fixed offset from the room center.
			return domain.Vec3{X: room.Width/2 + side*rule.Offset, Y: y, Z: room.Length/2 + z}, yaw
		}
		dist := anchor.width/2 + fp.Depth/2 + WallClearance
		return domain.Vec3{X: anchor.x + side*dist, Y: y, Z: anchor.z + z}, yaw

	case ZoneWallFinish:
		return domain.Vec3{X: room.Width / 2, Y: room.Height / 2, Z: 0}, 0

	default:
		along := rule.Start + float64(idx)*rule.Spacing
		return wallSlot(rule.Wall, room, back, along, y), rule.Yaw
	}
}

// wallSlot returns a point `off` away from the named wall and `along` cm
// from that wall's origin corner.
func wallSlot(w Wall, room domain.RoomSpec, off, along, y float64) domain.Vec3 {
	switch w {
	case WallLeft:
		return domain.Vec3{X: off, Y: y, Z: along}
	case WallRight:
		return domain.Vec3{X: room.Width - off, Y: y, Z: along}
	default:
		return domain.Vec3{X: along, Y: y, Z: off}
	}
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
