// Package preview renders a single shot into an image using both reference
// images. Renders are independent: the same shot can be rendered any number
// of times and each call is a fresh synthesis.
package preview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fpang/studio-lens/internal/assets"
	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/rs/zerolog/log"
)

// ErrMissingInput is returned when a reference image or the description is absent.
var ErrMissingInput = errors.New("preview requires both reference images and a shot description")

// Request is one image synthesis call.
type Request struct {
	Images []imagedata.Image
	Prompt string
}

// Backend performs image synthesis.
type Backend interface {
	SynthesizeImage(ctx context.Context, req Request) (imagedata.Image, error)
}

// Renderer is stateless with respect to shots; it only builds the request
// and returns the backend's image.
type Renderer struct {
	backend Backend
}

// NewRenderer creates a Renderer over the given backend.
func NewRenderer(backend Backend) *Renderer {
	return &Renderer{backend: backend}
}

// RenderPreview synthesizes one image for visualDescription featuring the
// model and product.
func (r *Renderer) RenderPreview(ctx context.Context, model, product imagedata.Image, visualDescription string) (imagedata.Image, error) {
	if model.IsZero() || product.IsZero() || strings.TrimSpace(visualDescription) == "" {
		return imagedata.Image{}, ErrMissingInput
	}

	req := Request{
		Images: []imagedata.Image{model, product},
		Prompt: BuildPrompt(visualDescription),
	}

	start := time.Now()
	img, err := r.backend.SynthesizeImage(ctx, req)
	if err != nil {
		return imagedata.Image{}, fmt.Errorf("preview rendering failed: %w", err)
	}
	if img.IsZero() {
		return imagedata.Image{}, errors.New("preview rendering returned no image")
	}

	log.Info().
		Str("mime", img.MIMEType).
		Int("bytes", len(img.Data)).
		Dur("duration", time.Since(start)).
		Msg("Preview rendered")

	return img, nil
}

// BuildPrompt wraps a shot description with the reference-image roles and
// realism constraints.
func BuildPrompt(visualDescription string) string {
	return assets.RenderPreviewPrompt(visualDescription)
}
