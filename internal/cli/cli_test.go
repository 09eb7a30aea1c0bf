package cli

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/failure"
	"github.com/fpang/studio-lens/internal/plan"
	"github.com/fpang/studio-lens/internal/studio"
	"github.com/google/go-cmp/cmp"
)

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{0, "0:00"},
		{65 * time.Second, "1:05"},
		{time.Hour + 2*time.Minute + 3*time.Second, "1:02:03"},
	}
	for _, tt := range tests {
		if got := FormatDurationShort(tt.d); got != tt.want {
			t.Errorf("FormatDurationShort(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestParseShotNumbers(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{in: "", want: nil},
		{in: "1,3", want: []int{1, 3}},
		{in: " 3 , 1,3 ", want: []int{3, 1}},
		{in: "all", want: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{in: "0", wantErr: true},
		{in: "11", wantErr: true},
		{in: "two", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseShotNumbers(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFailureMessage(t *testing.T) {
	opErr := &studio.Error{Op: failure.OpPlan, Kind: failure.Transient, Message: failure.PlanTransientMessage, Err: errors.New("x")}
	if got := FailureMessage(opErr); got != failure.PlanTransientMessage {
		t.Errorf("got %q", got)
	}
	if got := FailureMessage(studio.ErrMissingImages); !strings.Contains(got, "required") {
		t.Errorf("got %q", got)
	}
}

func TestPromptForScene(t *testing.T) {
	var out bytes.Buffer
	if got := PromptForScene(bufio.NewReader(strings.NewReader("  Desert at dawn \n")), &out); got != "Desert at dawn" {
		t.Errorf("got %q", got)
	}
	if got := PromptForScene(bufio.NewReader(strings.NewReader("")), &out); got != "" {
		t.Errorf("EOF should yield empty scene, got %q", got)
	}
}

func TestPromptForScene_SharedReaderLeavesKeyLine(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("rainy tokyo\nMY-KEY\n"))
	var out bytes.Buffer

	scene := PromptForScene(in, &out)
	keyring := auth.NewKeyring()
	if err := (auth.PromptSelector{Keyring: keyring, In: in, Out: &out}).Select(context.Background()); err != nil {
		t.Fatalf("select: %v", err)
	}
	key, err := keyring.Key()
	if scene != "rainy tokyo" || key != "MY-KEY" || err != nil {
		t.Errorf("scene=%q key=%q err=%v", scene, key, err)
	}
}

func TestPickImage_FlagWins(t *testing.T) {
	got, err := PickImage(context.Background(), "Model", "/tmp/model.jpg")
	if err != nil || got != "/tmp/model.jpg" {
		t.Errorf("got %q, %v", got, err)
	}
}

func TestPrintShots(t *testing.T) {
	var buf bytes.Buffer
	PrintShots(&buf, []studio.ShotView{
		{Shot: plan.Shot{Title: "Arrival", VisualDescription: strings.Repeat("word ", 40)}},
		{Shot: plan.Shot{Title: "Detail", VisualDescription: "macro", PreviewImage: "data:image/png;base64,AA=="}},
	})
	out := buf.String()
	if !strings.Contains(out, " 1. Arrival") || !strings.Contains(out, " 2. Detail") {
		t.Errorf("output:\n%s", out)
	}
	if !strings.Contains(out, "[preview rendered]") {
		t.Error("rendered shots should be marked")
	}
	for _, line := range strings.Split(out, "\n") {
		if len(line) > 80 {
			t.Errorf("line too long (%d): %q", len(line), line)
		}
	}
}
