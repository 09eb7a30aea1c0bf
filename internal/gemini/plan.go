package gemini

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fpang/studio-lens/internal/plan"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// GenerateShotList sends the product reference and brief to the plan model
// and returns the raw JSON text. The response schema asks for exactly
// req.ShotCount items; plan.Generator still validates what comes back.
func (c *Client) GenerateShotList(ctx context.Context, req plan.Request) (string, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: req.SystemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   shotListSchema(req.ShotCount),
	}

	// Media first, then the text prompt.
	var parts []*genai.Part
	if !req.ProductImage.IsZero() {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{
				MIMEType: req.ProductImage.MIMEType,
				Data:     req.ProductImage.Data,
			},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	log.Debug().
		Str("model", c.opts.PlanModel).
		Int("prompt_length", len(req.Prompt)).
		Int("shot_count", req.ShotCount).
		Msg("Starting Gemini API call for shot list")

	callStart := time.Now()
	contents := []*genai.Content{{Role: "user", Parts: parts}}
	resp, err := client.Models.GenerateContent(ctx, c.opts.PlanModel, contents, config)
	duration := time.Since(callStart)
	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Msg("Failed to generate shot list from Gemini")
		return "", fmt.Errorf("failed to generate content: %w", err)
	}
	if resp == nil {
		return "", errors.New("received empty response from Gemini API")
	}

	text := resp.Text()
	log.Debug().
		Int("response_length", len(text)).
		Dur("duration", duration).
		Msg("Gemini API response received for shot list")

	return text, nil
}

// shotListSchema describes an array of exactly n {title, visualDescription}
// objects.
func shotListSchema(n int) *genai.Schema {
	count := int64(n)
	return &genai.Schema{
		Type:     genai.TypeArray,
		MinItems: &count,
		MaxItems: &count,
		Items: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title": {
					Type:        genai.TypeString,
					Description: "Short name for the shot, e.g. \"Morning Light Close-up\".",
				},
				"visualDescription": {
					Type:        genai.TypeString,
					Description: "Detailed direction covering framing, pose, lighting and how the product appears.",
				},
			},
			Required:         []string{"title", "visualDescription"},
			PropertyOrdering: []string{"title", "visualDescription"},
		},
	}
}
