package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/preview"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// ErrNoImage is returned when the model answers without an image part.
var ErrNoImage = errors.New("no image in Gemini response")

// SynthesizeImage sends the reference images and prompt to the image model
// and returns the first inline image in the response.
func (c *Client) SynthesizeImage(ctx context.Context, req preview.Request) (imagedata.Image, error) {
	client, err := c.connect(ctx)
	if err != nil {
		return imagedata.Image{}, err
	}

	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{string(genai.ModalityText), string(genai.ModalityImage)},
		ImageConfig: &genai.ImageConfig{
			AspectRatio: c.opts.AspectRatio,
			ImageSize:   c.opts.ImageSize,
		},
	}

	var parts []*genai.Part
	for _, img := range req.Images {
		parts = append(parts, &genai.Part{
			InlineData: &genai.Blob{MIMEType: img.MIMEType, Data: img.Data},
		})
	}
	parts = append(parts, &genai.Part{Text: req.Prompt})

	log.Debug().
		Str("model", c.opts.ImageModel).
		Int("reference_images", len(req.Images)).
		Str("aspect_ratio", c.opts.AspectRatio).
		Msg("Starting Gemini API call for preview image")

	callStart := time.Now()
	contents := []*genai.Content{{Role: "user", Parts: parts}}
	resp, err := client.Models.GenerateContent(ctx, c.opts.ImageModel, contents, config)
	duration := time.Since(callStart)
	if err != nil {
		log.Error().Err(err).Dur("duration", duration).Msg("Failed to generate preview image from Gemini")
		return imagedata.Image{}, fmt.Errorf("failed to generate content: %w", err)
	}

	img, err := extractImage(resp)
	if err != nil {
		return imagedata.Image{}, err
	}

	log.Debug().
		Str("mime", img.MIMEType).
		Int("bytes", len(img.Data)).
		Dur("duration", duration).
		Msg("Gemini API response received for preview image")

	return img, nil
}

// extractImage returns the first inline image across all candidates. A
// missing MIME type is sniffed from the bytes.
func extractImage(resp *genai.GenerateContentResponse) (imagedata.Image, error) {
	if resp == nil {
		return imagedata.Image{}, ErrNoImage
	}
	var note string
	for _, cand := range resp.Candidates {
		if cand == nil || cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part == nil {
				continue
			}
			if part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mime := part.InlineData.MIMEType
				if mime == "" {
					mime = imagedata.Sniff(part.InlineData.Data)
				}
				if strings.HasPrefix(mime, "image/") {
					return imagedata.Image{MIMEType: mime, Data: part.InlineData.Data}, nil
				}
			}
			if part.Text != "" && note == "" {
				note = part.Text
			}
		}
	}
	if note != "" {
		return imagedata.Image{}, fmt.Errorf("%w: model replied with text: %.200s", ErrNoImage, note)
	}
	return imagedata.Image{}, ErrNoImage
}
