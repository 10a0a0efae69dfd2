// Package prompt turns design selections into a single text-to-image prompt.
package prompt

import (
	"strings"
)

// MaxFurniture caps how many item names are listed in the prompt.
const MaxFurniture = 4

const closing = "professional interior photography, natural daylight, wide angle, highly detailed, photorealistic"

type Input struct {
	Style          string   `json:"style"`
	RoomType       string   `json:"room_type,omitempty"`
	WallColorName  string   `json:"wall_color_name,omitempty"`
	WallColorHex   string   `json:"wall_color_hex,omitempty"`
	FurnitureNames []string `json:"furniture_names,omitempty"`
	Hint           string   `json:"hint,omitempty"`
}

var styleVocabulary = map[string]string{
	"scandinavian": "scandinavian interior with light oak wood, white surfaces, soft wool textiles and airy minimal decor",
	"modern":       "modern interior with clean lines, neutral palette, sleek materials and open space",
	"minimalist":   "minimalist interior with uncluttered surfaces, restrained palette and hidden storage",
	"industrial":   "industrial interior with exposed brick, raw concrete, black steel and reclaimed wood",
	"bohemian":     "bohemian interior with layered patterned textiles, rattan, plants and warm earthy tones",
	"mid-century":  "mid-century modern interior with walnut wood, tapered legs, organic curves and retro accents",
	"traditional":  "traditional interior with classic moldings, rich wood furniture and elegant symmetrical layout",
	"coastal":      "coastal interior with whitewashed wood, linen, soft blues and sandy neutrals",
	"farmhouse":    "farmhouse interior with shiplap walls, distressed wood, vintage fixtures and cozy textiles",
	"japandi":      "japandi interior blending japanese restraint and scandinavian warmth, low furniture, natural wood and muted tones",
	"contemporary": "contemporary interior with curated art, mixed textures, statement lighting and a balanced palette",
	"rustic":       "rustic interior with rough-hewn timber, stone accents, leather and warm ambient light",
}

// styleAliases are checked by substring when the normalized token has no
// exact entry. Order matters: longer tokens first.
var styleAliases = []struct {
	token string
	style string
}{
	{"mid century", "mid-century"},
	{"midcentury", "mid-century"},
	{"mid-century", "mid-century"},
	{"scandi", "scandinavian"},
	{"nordic", "scandinavian"},
	{"japandi", "japandi"},
	{"minimal", "minimalist"},
	{"industrial", "industrial"},
	{"boho", "bohemian"},
	{"bohemian", "bohemian"},
	{"coastal", "coastal"},
	{"beach", "coastal"},
	{"farmhouse", "farmhouse"},
	{"rustic", "rustic"},
	{"traditional", "traditional"},
	{"classic", "traditional"},
	{"contemporary", "contemporary"},
	{"modern", "modern"},
}

// Compile builds the prompt. Clauses appear in a fixed order; empty ones are
// dropped. Identical input always yields an identical string.
func Compile(in Input) string {
	clauses := make([]string, 0, 6)
	clauses = append(clauses, styleClause(in.Style))
	if rt := clean(in.RoomType); rt != "" {
		clauses = append(clauses, "a "+strings.ToLower(rt)+" designed for everyday living")
	}
	if wc := wallClause(in.WallColorName, in.WallColorHex); wc != "" {
		clauses = append(clauses, wc)
	}
	if names := furniture(in.FurnitureNames); len(names) > 0 {
		clauses = append(clauses, "featuring "+strings.Join(names, ", "))
	}
	if h := clean(in.Hint); h != "" {
		clauses = append(clauses, strings.TrimRight(h, ". "))
	}
	clauses = append(clauses, closing)

	out := make([]string, 0, len(clauses))
	for _, c := range clauses {
		if c != "" {
			out = append(out, c)
		}
	}
	return strings.Join(out, ". ") + "."
}

func styleClause(style string) string {
	tok := normalizeStyle(style)
	if tok == "" {
		return "interior design"
	}
	if v, ok := styleVocabulary[tok]; ok {
		return v
	}
	for _, a := range styleAliases {
		if strings.Contains(tok, a.token) {
			return styleVocabulary[a.style]
		}
	}
	return clean(style) + " interior design"
}

func normalizeStyle(s string) string {
	s = strings.ToLower(clean(s))
	s = strings.ReplaceAll(s, "_", " ")
	return strings.Join(strings.Fields(s), " ")
}

func wallClause(name, hex string) string {
	name, hex = clean(name), clean(hex)
	switch {
	case name != "" && hex != "":
		return "walls painted " + name + " (" + hex + ")"
	case name != "":
		return "walls painted " + name
	case hex != "":
		return "walls painted " + hex
	default:
		return ""
	}
}

func furniture(names []string) []string {
	out := make([]string, 0, MaxFurniture)
	for _, n := range names {
		if len(out) == MaxFurniture {
			break
		}
		if n = clean(n); n != "" {
			out = append(out, n)
		}
	}
	return out
}

func clean(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
