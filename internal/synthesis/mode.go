package synthesis

import (
	"strings"

	"github.com/yungbote/roomstage-backend/internal/domain"
	"github.com/yungbote/roomstage-backend/internal/synthesis/provider"
)

const defaultPlacement = "Find an empty area of the floor for it; do not overlap existing furniture."

// SelectMode picks the richest generation mode the inputs support.
func SelectMode(req domain.GenerationRequest) provider.Mode {
	hasBase := strings.TrimSpace(req.BaseImage) != ""
	switch {
	case hasBase && firstImage(req.ItemImages) != "":
		return provider.ModeTwoImageEdit
	case hasBase:
		return provider.ModeSingleImageEdit
	case strings.TrimSpace(req.DepthImage) != "":
		return provider.ModeDepthConditioned
	default:
		return provider.ModeUnconditioned
	}
}

// inputImages lists the references a mode sends, in provider order.
func inputImages(mode provider.Mode, req domain.GenerationRequest) []string {
	switch mode {
	case provider.ModeTwoImageEdit:
		return []string{strings.TrimSpace(req.BaseImage), firstImage(req.ItemImages)}
	case provider.ModeSingleImageEdit:
		return []string{strings.TrimSpace(req.BaseImage)}
	case provider.ModeDepthConditioned:
		return []string{strings.TrimSpace(req.DepthImage)}
	default:
		return nil
	}
}

// insertInstruction is the two-image edit prompt: keep the base photo and add
// exactly one item.
func insertInstruction(hint string) string {
	placement := strings.TrimSpace(hint)
	if placement == "" {
		placement = defaultPlacement
	}
	return "Keep the first image exactly as it is, including the room, lighting, camera angle and every existing object. " +
		"Insert only the single item shown in the second image. " +
		"Placement: " + placement + " " +
		"Match the room's perspective, scale and lighting so the item looks photographed in place."
}

func firstImage(images []string) string {
	for _, img := range images {
		if s := strings.TrimSpace(img); s != "" {
			return s
		}
	}
	return ""
}
