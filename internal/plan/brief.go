package plan

import (
	"fmt"
	"strings"

	"github.com/fpang/studio-lens/internal/assets"
)

// ShotCount is the fixed size of every campaign.
const ShotCount = 10

// ShotMix is the required distribution of framings across the campaign.
var ShotMix = []struct {
	Count int
	Label string
}{
	{2, "Wide (Environmental Portrait - sharp details everywhere)"},
	{4, "Medium (Fashion Editorial - focus on fabric/texture)"},
	{4, "Close-up / Detail (skin texture, product interaction, light on material)"},
}

// SystemInstruction is the fixed photographic direction sent with every plan request.
var SystemInstruction = assets.PlanSystemPrompt

// inventedSetting is used when the user gave no scene direction.
const inventedSetting = `THEME DIRECTION: Invent a location that allows for complex lighting interaction (e.g., "Glass House at Sunset", "Studio with Venetian Blinds", "Midnight City Rain").`

// SceneDirection returns the narrative part of the brief: the user's literal
// scene text, or an instruction to invent a setting when it is blank.
func SceneDirection(sceneContext string) string {
	scene := strings.TrimSpace(sceneContext)
	if scene == "" {
		return inventedSetting
	}
	return fmt.Sprintf("THEME DIRECTION: Based on user input %q, create a high-end, realistic editorial.", scene)
}

// BuildPrompt assembles the user-turn text of a plan request.
func BuildPrompt(sceneContext string) string {
	mix := make([]assets.ShotMixEntry, len(ShotMix))
	for i, m := range ShotMix {
		mix[i] = assets.ShotMixEntry{Count: m.Count, Label: m.Label}
	}
	return assets.RenderPlanTask(assets.PlanTaskData{
		ShotCount:      ShotCount,
		SceneDirection: SceneDirection(sceneContext),
		ShotMix:        mix,
	})
}
