package assets

import (
	"strings"
	"testing"
)

func TestRenderPlanTask(t *testing.T) {
	got := RenderPlanTask(PlanTaskData{
		ShotCount:      10,
		SceneDirection: "THEME DIRECTION: harbor at dusk",
		ShotMix:        []ShotMixEntry{{2, "Wide"}, {8, "Tight"}},
	})
	for _, want := range []string{
		"Plan a 10-SHOT REALISTIC CAMPAIGN",
		"THEME DIRECTION: harbor at dusk",
		"\n- 2x Wide\n- 8x Tight\n",
		"exactly 10 objects",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("plan task missing %q:\n%s", want, got)
		}
	}
}

func TestRenderPreviewPrompt(t *testing.T) {
	got := RenderPreviewPrompt("  Low-angle wide shot  ")
	if !strings.Contains(got, "SHOT DIRECTION:\nLow-angle wide shot\n") {
		t.Errorf("preview prompt:\n%s", got)
	}
	if !strings.Contains(got, "FIRST image is the model") {
		t.Error("preview prompt should name the reference image order")
	}
}

func TestPlanSystemPromptEmbedded(t *testing.T) {
	if !strings.Contains(PlanSystemPrompt, "HYPER-REALISM") {
		t.Error("system prompt not embedded")
	}
}
