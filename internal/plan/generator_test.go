package plan

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/fpang/studio-lens/internal/failure"
	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/jsonutil"
)

type fakeBackend struct {
	response string
	err      error
	got      Request
}

func (f *fakeBackend) GenerateShotList(ctx context.Context, req Request) (string, error) {
	f.got = req
	return f.response, f.err
}

func shotListJSON(t *testing.T, n int) string {
	t.Helper()
	shots := make([]map[string]string, n)
	for i := range shots {
		shots[i] = map[string]string{
			"id":                "backend-id",
			"title":             fmt.Sprintf("Shot %d", i+1),
			"visualDescription": fmt.Sprintf("Description %d, 85mm, rim light", i+1),
		}
	}
	data, err := json.Marshal(shots)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

var product = imagedata.Image{MIMEType: "image/png", Data: []byte{1, 2, 3}}

func TestGeneratePlan_Success(t *testing.T) {
	backend := &fakeBackend{response: shotListJSON(t, ShotCount)}
	g := NewGenerator(backend)

	shots, err := g.GeneratePlan(context.Background(), product, "Rooftop in Tokyo at dusk")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shots) != ShotCount {
		t.Fatalf("expected %d shots, got %d", ShotCount, len(shots))
	}

	seen := make(map[string]bool)
	for i, s := range shots {
		if s.ID == "" || s.ID == "backend-id" {
			t.Errorf("shot %d: expected fresh id, got %q", i, s.ID)
		}
		if seen[s.ID] {
			t.Errorf("shot %d: duplicate id %q", i, s.ID)
		}
		seen[s.ID] = true
		if s.Title == "" || s.VisualDescription == "" {
			t.Errorf("shot %d: empty fields %+v", i, s)
		}
		if s.PreviewImage != "" {
			t.Errorf("shot %d: preview should be unset", i)
		}
	}

	if backend.got.ShotCount != ShotCount {
		t.Errorf("expected request shot count %d, got %d", ShotCount, backend.got.ShotCount)
	}
	if !strings.Contains(backend.got.Prompt, `"Rooftop in Tokyo at dusk"`) {
		t.Error("expected the literal scene text in the prompt")
	}
	if backend.got.SystemInstruction != SystemInstruction {
		t.Error("expected the fixed system instruction")
	}
}

func TestGeneratePlan_EmptySceneInventsSetting(t *testing.T) {
	backend := &fakeBackend{response: shotListJSON(t, ShotCount)}
	g := NewGenerator(backend)

	shots, err := g.GeneratePlan(context.Background(), product, "   ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(shots) != ShotCount {
		t.Errorf("expected %d shots, got %d", ShotCount, len(shots))
	}
	if !strings.Contains(backend.got.Prompt, "Invent a location") {
		t.Error("expected the invent-a-setting instruction for a blank scene")
	}
}

func TestGeneratePlan_ValidationFailures(t *testing.T) {
	tooFew := shotListJSON(t, 7)
	tooMany := shotListJSON(t, 11)

	var withEmptyTitle []map[string]string
	if err := json.Unmarshal([]byte(shotListJSON(t, ShotCount)), &withEmptyTitle); err != nil {
		t.Fatal(err)
	}
	withEmptyTitle[3]["title"] = "  "
	emptyTitle, _ := json.Marshal(withEmptyTitle)

	var withEmptyDesc []map[string]string
	_ = json.Unmarshal([]byte(shotListJSON(t, ShotCount)), &withEmptyDesc)
	withEmptyDesc[9]["visualDescription"] = ""
	emptyDesc, _ := json.Marshal(withEmptyDesc)

	tests := []struct {
		name     string
		response string
	}{
		{"too few", tooFew},
		{"too many", tooMany},
		{"empty title", string(emptyTitle)},
		{"empty description", string(emptyDesc)},
		{"not json", "Sorry, I cannot help with that."},
		{"broken json", `[{"title": "A", "visualDescription": `},
		{"object without shots", `{"campaign": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator(&fakeBackend{response: tt.response})
			shots, err := g.GeneratePlan(context.Background(), product, "")
			if shots != nil {
				t.Errorf("expected no shots, got %d", len(shots))
			}
			var valErr *failure.ValidationError
			if !errors.As(err, &valErr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if failure.Classify(err) != failure.Validation {
				t.Errorf("expected Validation kind, got %v", failure.Classify(err))
			}
		})
	}
}

func TestGeneratePlan_BackendError(t *testing.T) {
	backendErr := errors.New("Error 403, Message: permission denied")
	g := NewGenerator(&fakeBackend{err: backendErr})

	_, err := g.GeneratePlan(context.Background(), product, "")
	if !errors.Is(err, backendErr) {
		t.Fatalf("expected wrapped backend error, got %v", err)
	}
	if failure.Classify(err) != failure.InvalidCredential {
		t.Errorf("expected InvalidCredential, got %v", failure.Classify(err))
	}
}

func TestDecodeShots_FencedAndWrapped(t *testing.T) {
	fenced := "```json\n" + shotListJSON(t, ShotCount) + "\n```"
	shots, err := decodeShots(fenced)
	if err != nil {
		t.Fatalf("fenced: unexpected error: %v", err)
	}
	if len(shots) != ShotCount {
		t.Errorf("fenced: expected %d shots, got %d", ShotCount, len(shots))
	}

	wrapped := `Here you go: {"shots": ` + shotListJSON(t, ShotCount) + `}`
	shots, err = decodeShots(wrapped)
	if err != nil {
		t.Fatalf("wrapped: unexpected error: %v", err)
	}
	if len(shots) != ShotCount {
		t.Errorf("wrapped: expected %d shots, got %d", ShotCount, len(shots))
	}
}

func TestBuildPrompt_ShotMix(t *testing.T) {
	prompt := BuildPrompt("")
	for _, want := range []string{"2x Wide", "4x Medium", "4x Close-up", "exactly 10 objects"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	total := 0
	for _, m := range ShotMix {
		total += m.Count
	}
	if total != ShotCount {
		t.Errorf("shot mix sums to %d, want %d", total, ShotCount)
	}
}

func TestShot_PromptText(t *testing.T) {
	s := Shot{VisualDescription: "Low-angle wide shot, golden hour"}
	want := "[MODEL_URL] [PRODUCT_URL] Low-angle wide shot, golden hour --iw 2 --v 6.0 --style raw --ar 3:4"
	if got := s.PromptText(); got != want {
		t.Errorf("PromptText() = %q, want %q", got, want)
	}
}

func TestDecodeShots_ErrorCauses(t *testing.T) {
	if _, err := decodeShots(`{"campaign": []}`); !errors.Is(err, errNoShotsArray) {
		t.Errorf("object without shots: got %v", err)
	}
	if _, err := decodeShots("no json here"); !errors.Is(err, jsonutil.ErrNoJSON) {
		t.Errorf("plain text: got %v", err)
	}
}
