// Package plan turns a product image and optional scene direction into a
// validated ten-shot campaign.
package plan

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Request is one structured plan call as sent to the backend.
type Request struct {
	SystemInstruction string
	Prompt            string
	ProductImage      imagedata.Image
	ShotCount         int
}

// Backend performs the structured plan call and returns the raw response text.
type Backend interface {
	GenerateShotList(ctx context.Context, req Request) (string, error)
}

// Generator builds plan requests and validates what comes back.
type Generator struct {
	backend Backend
	newID   func() string
}

// NewGenerator creates a Generator over the given backend.
func NewGenerator(backend Backend) *Generator {
	return &Generator{
		backend: backend,
		newID:   func() string { return uuid.NewString() },
	}
}

// GeneratePlan asks the backend for a campaign and returns exactly ShotCount
// shots with fresh ids. Backend errors are returned wrapped; contract
// violations are returned as *failure.ValidationError.
func (g *Generator) GeneratePlan(ctx context.Context, product imagedata.Image, sceneContext string) ([]Shot, error) {
	req := Request{
		SystemInstruction: SystemInstruction,
		Prompt:            BuildPrompt(sceneContext),
		ProductImage:      product,
		ShotCount:         ShotCount,
	}

	log.Debug().
		Bool("scene_provided", strings.TrimSpace(sceneContext) != "").
		Int("product_bytes", len(product.Data)).
		Int("prompt_length", len(req.Prompt)).
		Msg("Requesting campaign plan")

	start := time.Now()
	raw, err := g.backend.GenerateShotList(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("plan generation failed: %w", err)
	}

	parsed, err := decodeShots(raw)
	if err != nil {
		log.Warn().Err(err).Int("response_length", len(raw)).Msg("Plan response could not be decoded")
		return nil, err
	}
	if err := validateShots(parsed); err != nil {
		log.Warn().Err(err).Int("shot_count", len(parsed)).Msg("Plan response failed validation")
		return nil, err
	}

	shots := make([]Shot, len(parsed))
	for i, p := range parsed {
		shots[i] = Shot{
			ID:                g.newID(),
			Title:             strings.TrimSpace(p.Title),
			VisualDescription: strings.TrimSpace(p.VisualDescription),
		}
	}

	log.Info().
		Int("shots", len(shots)).
		Dur("duration", time.Since(start)).
		Msg("Campaign plan generated")

	return shots, nil
}
