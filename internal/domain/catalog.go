package domain

// Footprint is the bounding box of a catalog item in centimeters.
type Footprint struct {
	Width  float64 `json:"width"`
	Depth  float64 `json:"depth"`
	Height float64 `json:"height"`
}

// CatalogItem is one selectable entry from the catalog search. Category is
// free text straight from the upstream catalog.
type CatalogItem struct {
	ID             string    `json:"id"`
	DisplayName    string    `json:"display_name"`
	Category       string    `json:"category"`
	Footprint      Footprint `json:"footprint"`
	ReferenceImage string    `json:"reference_image,omitempty"`
	// ColorHex is only meaningful for paint entries.
	ColorHex string `json:"color_hex,omitempty"`
}
