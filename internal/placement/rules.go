package placement

import (
	"math"

	"github.com/yungbote/roomstage-backend/internal/domain"
)

type Zone int

const (
	ZoneDefaultRow Zone = iota
	ZoneBackWallCentered
	ZoneRoomCenter
	ZoneAgainstWall
	ZoneCornerAngled
	ZoneNearPrimarySurface
	// ZoneWallFinish is for paint: it colors the walls and has no footprint.
	ZoneWallFinish
)

func (z Zone) String() string {
	switch z {
	case ZoneBackWallCentered:
		return "back_wall_centered"
	case ZoneRoomCenter:
		return "room_center"
	case ZoneAgainstWall:
		return "against_wall"
	case ZoneCornerAngled:
		return "corner_angled"
	case ZoneNearPrimarySurface:
		return "near_primary_surface"
	case ZoneWallFinish:
		return "wall_finish"
	default:
		return "default_row"
	}
}

type Wall int

const (
	WallBack Wall = iota
	WallLeft
	WallRight
)

const (
	// WallClearance is the gap kept between an item and the wall it backs onto.
	WallClearance = 10.0
	// ShelfSpacing is the increment along the wall per same-zone shelf or mirror.
	ShelfSpacing = 120.0
)

// PlacementRule holds the zone kind and constants for one category. All
// lengths are centimeters.
type PlacementRule struct {
	Zone Zone
	Wall Wall
	// Start is the first slot's distance along the wall.
	Start float64
	// Spacing is added per same-zone index.
	Spacing float64
	// Offset is the corner inset or the chair distance from its anchor.
	Offset    float64
	Yaw       float64
	Elevation float64
}

var rules = map[CatalogCategory]PlacementRule{
	CategorySofa:     {Zone: ZoneBackWallCentered},
	CategoryBed:      {Zone: ZoneBackWallCentered},
	CategoryTable:    {Zone: ZoneRoomCenter},
	CategoryRug:      {Zone: ZoneRoomCenter},
	CategoryDesk:     {Zone: ZoneAgainstWall, Wall: WallLeft, Start: 80, Spacing: 150, Yaw: math.Pi / 2},
	CategoryShelf:    {Zone: ZoneAgainstWall, Wall: WallRight, Start: 60, Spacing: ShelfSpacing, Yaw: -math.Pi / 2},
	CategoryMirror:   {Zone: ZoneAgainstWall, Wall: WallRight, Start: 60, Spacing: ShelfSpacing, Yaw: -math.Pi / 2, Elevation: 100},
	CategoryArmchair: {Zone: ZoneCornerAngled, Offset: 30, Spacing: 100, Yaw: -math.Pi / 4},
	CategoryChair:    {Zone: ZoneNearPrimarySurface, Offset: 80, Spacing: 60},
	CategoryPaint:    {Zone: ZoneWallFinish},
}

// DefaultRule lines unknown items up along the back wall.
var DefaultRule = PlacementRule{Zone: ZoneDefaultRow, Wall: WallBack, Start: 60, Spacing: 100}

// RuleFor is total over CatalogCategory.
func RuleFor(c CatalogCategory) PlacementRule {
	if r, ok := rules[c]; ok {
		return r
	}
	return DefaultRule
}

var defaultFootprints = map[CatalogCategory]domain.Footprint{
	CategorySofa:     {Width: 200, Depth: 90, Height: 85},
	CategoryBed:      {Width: 160, Depth: 205, Height: 100},
	CategoryTable:    {Width: 120, Depth: 80, Height: 75},
	CategoryRug:      {Width: 200, Depth: 140, Height: 1},
	CategoryDesk:     {Width: 120, Depth: 60, Height: 75},
	CategoryShelf:    {Width: 80, Depth: 35, Height: 180},
	CategoryMirror:   {Width: 60, Depth: 3, Height: 90},
	CategoryArmchair: {Width: 80, Depth: 80, Height: 90},
	CategoryChair:    {Width: 45, Depth: 50, Height: 85},
	CategoryUnknown:  {Width: 60, Depth: 60, Height: 60},
}

// FootprintFor fills zero dimensions of fp with the category default.
func FootprintFor(c CatalogCategory, fp domain.Footprint) domain.Footprint {
	def, ok := defaultFootprints[c]
	if !ok {
		def = defaultFootprints[CategoryUnknown]
	}
	if fp.Width <= 0 {
		fp.Width = def.Width
	}
	if fp.Depth <= 0 {
		fp.Depth = def.Depth
	}
	if fp.Height <= 0 {
		fp.Height = def.Height
	}
	return fp
}
