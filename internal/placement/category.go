package placement

import "strings"

// CatalogCategory is the closed set of furniture kinds the engine knows how
// to place. Upstream categories are free text and are mapped onto it by
// ParseCategory.
type CatalogCategory int

const (
	CategoryUnknown CatalogCategory = iota
	CategorySofa
	CategoryBed
	CategoryTable
	CategoryRug
	CategoryDesk
	CategoryShelf
	CategoryMirror
	CategoryArmchair
	CategoryChair
	CategoryPaint
)

var AllCategories = []CatalogCategory{
	CategoryUnknown,
	CategorySofa,
	CategoryBed,
	CategoryTable,
	CategoryRug,
	CategoryDesk,
	CategoryShelf,
	CategoryMirror,
	CategoryArmchair,
	CategoryChair,
	CategoryPaint,
}

func (c CatalogCategory) String() string {
	switch c {
	case CategorySofa:
		return "sofa"
	case CategoryBed:
		return "bed"
	case CategoryTable:
		return "table"
	case CategoryRug:
		return "rug"
	case CategoryDesk:
		return "desk"
	case CategoryShelf:
		return "shelf"
	case CategoryMirror:
		return "mirror"
	case CategoryArmchair:
		return "armchair"
	case CategoryChair:
		return "chair"
	case CategoryPaint:
		return "paint"
	default:
		return "unknown"
	}
}

// Keywords are tried in order; the first substring hit wins, so compound
// names must precede their parts ("armchair" before "chair", "table" before
// "bed" for bedside tables, "sofa" before "bed" for sofa beds). Lamps and
// paintings are decor and stay unknown even when named after furniture.
var keywords = []struct {
	word     string
	category CatalogCategory
}{
	{"painting", CategoryUnknown},
	{"lamp", CategoryUnknown},
	{"armchair", CategoryArmchair},
	{"accent chair", CategoryArmchair},
	{"lounge chair", CategoryArmchair},
	{"recliner", CategoryArmchair},
	{"chair", CategoryChair},
	{"stool", CategoryChair},
	{"sofa", CategorySofa},
	{"couch", CategorySofa},
	{"sectional", CategorySofa},
	{"loveseat", CategorySofa},
	{"table", CategoryTable},
	{"nightstand", CategoryTable},
	{"night stand", CategoryTable},
	{"desk", CategoryDesk},
	{"bed", CategoryBed},
	{"bookcase", CategoryShelf},
	{"shelf", CategoryShelf},
	{"shelving", CategoryShelf},
	{"mirror", CategoryMirror},
	{"rug", CategoryRug},
	{"carpet", CategoryRug},
	{"paint", CategoryPaint},
	{"wall color", CategoryPaint},
}

// ParseCategory maps a free-text catalog category onto CatalogCategory by
// case-insensitive substring match.
func ParseCategory(raw string) CatalogCategory {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return CategoryUnknown
	}
	for _, kw := range keywords {
		if strings.Contains(s, kw.word) {
			return kw.category
		}
	}
	return CategoryUnknown
}
