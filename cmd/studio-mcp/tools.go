package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog/log"

	"github.com/fpang/studio-lens/internal/cli"
	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/studio"
)

type generatePlanArgs struct {
	ModelImagePath   string `json:"modelImagePath" jsonschema:"path to the model reference image"`
	ProductImagePath string `json:"productImagePath" jsonschema:"path to the product reference image"`
	SceneContext     string `json:"sceneContext,omitempty" jsonschema:"optional scene concept; leave empty to let the director invent a location"`
}

type shotResult struct {
	Number            int    `json:"number"`
	ID                string `json:"id"`
	Title             string `json:"title"`
	VisualDescription string `json:"visualDescription"`
	PromptText        string `json:"promptText"`
}

type planResult struct {
	Status string       `json:"status"`
	Shots  []shotResult `json:"shots"`
}

type renderPreviewArgs struct {
	ShotID string `json:"shotId" jsonschema:"id of a shot from the last generate_plan result"`
}

// campaign is the orchestrator surface the tools need.
type campaign interface {
	SetRequest(req studio.CampaignRequest)
	Generate(ctx context.Context) error
	RenderPreview(ctx context.Context, shotID string) error
	Snapshot() studio.Snapshot
}

type tools struct {
	orch   campaign
	maxDim int
}

func newTools(orch campaign, maxDim int) *tools {
	return &tools{orch: orch, maxDim: maxDim}
}

func (t *tools) register(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate_plan",
		Description: "Plan a ten-shot editorial campaign from a model reference image, a product reference image and an optional scene concept.",
	}, t.generatePlan)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "render_preview",
		Description: "Render (or retake) the preview image for one shot of the current campaign.",
	}, t.renderPreview)
}

func (t *tools) generatePlan(ctx context.Context, req *mcp.CallToolRequest, args generatePlanArgs) (*mcp.CallToolResult, planResult, error) {
	if args.ModelImagePath == "" || args.ProductImagePath == "" {
		return nil, planResult{}, errors.New("modelImagePath and productImagePath are required")
	}
	model, err := imagedata.LoadFile(args.ModelImagePath, t.maxDim)
	if err != nil {
		return nil, planResult{}, fmt.Errorf("model image: %w", err)
	}
	product, err := imagedata.LoadFile(args.ProductImagePath, t.maxDim)
	if err != nil {
		return nil, planResult{}, fmt.Errorf("product image: %w", err)
	}

	t.orch.SetRequest(studio.CampaignRequest{
		ModelImage:   model.DataURL(),
		ProductImage: product.DataURL(),
		SceneContext: args.SceneContext,
	})
	if err := t.orch.Generate(ctx); err != nil {
		log.Warn().Err(err).Msg("generate_plan failed")
		return nil, planResult{}, errors.New(cli.FailureMessage(err))
	}

	snap := t.orch.Snapshot()
	out := planResult{Status: string(snap.Status)}
	for i, s := range snap.Shots {
		out.Shots = append(out.Shots, shotResult{
			Number:            i + 1,
			ID:                s.ID,
			Title:             s.Title,
			VisualDescription: s.VisualDescription,
			PromptText:        s.PromptText,
		})
	}
	return nil, out, nil
}

func (t *tools) renderPreview(ctx context.Context, req *mcp.CallToolRequest, args renderPreviewArgs) (*mcp.CallToolResult, any, error) {
	if err := t.orch.RenderPreview(ctx, args.ShotID); err != nil {
		if errors.Is(err, studio.ErrUnknownShot) {
			return nil, nil, fmt.Errorf("unknown shot %q; run generate_plan first", args.ShotID)
		}
		return nil, nil, errors.New(cli.FailureMessage(err))
	}

	shot, ok := t.orch.Snapshot().Shot(args.ShotID)
	if !ok || shot.PreviewImage == "" {
		return nil, nil, errors.New("preview is no longer available; the campaign was replaced")
	}
	img, err := imagedata.Parse(shot.PreviewImage)
	if err != nil {
		return nil, nil, fmt.Errorf("stored preview is unreadable: %w", err)
	}

	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: shot.Title},
			&mcp.ImageContent{Data: img.Data, MIMEType: img.MIMEType},
		},
	}, nil, nil
}
