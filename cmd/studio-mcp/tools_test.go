package main

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/fpang/studio-lens/internal/failure"
	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/plan"
	"github.com/fpang/studio-lens/internal/studio"
)

type fakeCampaign struct {
	req       studio.CampaignRequest
	genErr    error
	renderErr error
	snap      studio.Snapshot
}

func (f *fakeCampaign) SetRequest(req studio.CampaignRequest) { f.req = req }

func (f *fakeCampaign) Generate(context.Context) error {
	if f.genErr != nil {
		return f.genErr
	}
	f.snap = studio.Snapshot{Status: studio.StatusSuccess, Shots: []studio.ShotView{
		{Shot: plan.Shot{ID: "s1", Title: "Arrival", VisualDescription: "wide"}, PromptText: "p1"},
		{Shot: plan.Shot{ID: "s2", Title: "Detail", VisualDescription: "macro"}, PromptText: "p2"},
	}}
	return nil
}

func (f *fakeCampaign) RenderPreview(_ context.Context, id string) error {
	if f.renderErr != nil {
		return f.renderErr
	}
	for i := range f.snap.Shots {
		if f.snap.Shots[i].ID == id {
			f.snap.Shots[i].PreviewImage = imagedata.Image{MIMEType: "image/png", Data: []byte("img")}.DataURL()
			return nil
		}
	}
	return studio.ErrUnknownShot
}

func (f *fakeCampaign) Snapshot() studio.Snapshot { return f.snap }

func writePNG(t *testing.T, dir, name string) string {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestGeneratePlan(t *testing.T) {
	dir := t.TempDir()
	fc := &fakeCampaign{}
	tl := newTools(fc, 0)

	_, out, err := tl.generatePlan(context.Background(), &mcp.CallToolRequest{}, generatePlanArgs{
		ModelImagePath:   writePNG(t, dir, "model.png"),
		ProductImagePath: writePNG(t, dir, "product.png"),
		SceneContext:     "harbor",
	})
	if err != nil {
		t.Fatalf("generatePlan: %v", err)
	}
	if out.Status != "success" || len(out.Shots) != 2 || out.Shots[1].Number != 2 {
		t.Errorf("out = %+v", out)
	}
	if fc.req.SceneContext != "harbor" || !strings.HasPrefix(fc.req.ModelImage, "data:image/png;base64,") {
		t.Errorf("request = %+v", fc.req.SceneContext)
	}
}

func TestGeneratePlan_Errors(t *testing.T) {
	dir := t.TempDir()
	tl := newTools(&fakeCampaign{}, 0)
	if _, _, err := tl.generatePlan(context.Background(), nil, generatePlanArgs{ModelImagePath: "x.png"}); err == nil {
		t.Error("missing product path should fail")
	}

	fc := &fakeCampaign{genErr: &studio.Error{Kind: failure.InvalidCredential, Message: failure.PlanInvalidCredentialMessage, Err: errors.New("403")}}
	_, _, err := newTools(fc, 0).generatePlan(context.Background(), nil, generatePlanArgs{
		ModelImagePath:   writePNG(t, dir, "m.png"),
		ProductImagePath: writePNG(t, dir, "p.png"),
	})
	if err == nil || err.Error() != failure.PlanInvalidCredentialMessage {
		t.Errorf("err = %v, want classified message", err)
	}
}

func TestRenderPreview(t *testing.T) {
	fc := &fakeCampaign{}
	_ = fc.Generate(context.Background())
	tl := newTools(fc, 0)

	res, _, err := tl.renderPreview(context.Background(), nil, renderPreviewArgs{ShotID: "s2"})
	if err != nil {
		t.Fatalf("renderPreview: %v", err)
	}
	if len(res.Content) != 2 {
		t.Fatalf("content = %d items", len(res.Content))
	}
	img, ok := res.Content[1].(*mcp.ImageContent)
	if !ok || string(img.Data) != "img" || img.MIMEType != "image/png" {
		t.Errorf("image content = %#v", res.Content[1])
	}

	if _, _, err := tl.renderPreview(context.Background(), nil, renderPreviewArgs{ShotID: "nope"}); err == nil || !strings.Contains(err.Error(), "generate_plan") {
		t.Errorf("unknown shot err = %v", err)
	}

	fc.renderErr = &studio.Error{Kind: failure.Transient, Message: failure.PreviewTransientMessage, Err: errors.New("timeout")}
	if _, _, err := tl.renderPreview(context.Background(), nil, renderPreviewArgs{ShotID: "s1"}); err == nil || err.Error() != failure.PreviewTransientMessage {
		t.Errorf("err = %v", err)
	}
}
