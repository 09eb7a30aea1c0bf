// Package gemini is the generation backend: structured shot-list planning and
// reference-guided image synthesis over the Gemini API.
package gemini

import (
	"context"
	"fmt"

	"github.com/fpang/studio-lens/internal/failure"
	"github.com/rs/zerolog/log"
	"google.golang.org/genai"
)

// KeyProvider resolves the API key for each call, so a key connected at
// runtime is picked up without restarting.
type KeyProvider interface {
	Key() (string, error)
}

// Options configures models and image output.
type Options struct {
	PlanModel   string
	ImageModel  string
	AspectRatio string
	ImageSize   string
}

// Client implements plan.Backend, preview.Backend and credential.Prober.
type Client struct {
	keys KeyProvider
	opts Options

	// newClient is swapped in tests.
	newClient func(ctx context.Context, apiKey string) (*genai.Client, error)
}

// New creates a backend client. Empty options fall back to defaults.
func New(keys KeyProvider, opts Options) *Client {
	if opts.PlanModel == "" {
		opts.PlanModel = DefaultPlanModel
	}
	if opts.ImageModel == "" {
		opts.ImageModel = DefaultImageModel
	}
	if opts.AspectRatio == "" {
		opts.AspectRatio = DefaultAspectRatio
	}
	return &Client{keys: keys, opts: opts, newClient: NewGeminiClient}
}

// NewGeminiClient creates a genai client for the Gemini API with the given key.
func NewGeminiClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	return genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
}

// connect resolves the current key and builds a client for one call.
func (c *Client) connect(ctx context.Context) (*genai.Client, error) {
	apiKey, err := c.keys.Key()
	if err != nil {
		return nil, err
	}
	client, err := c.newClient(ctx, apiKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client, nil
}

// Probe reports whether a key resolves and the API accepts it. Network
// trouble does not count against the key; only a credential rejection does.
func (c *Client) Probe(ctx context.Context) bool {
	client, err := c.connect(ctx)
	if err != nil {
		log.Debug().Err(err).Msg("Credential probe: no usable key")
		return false
	}

	if _, err := client.Models.Get(ctx, c.opts.PlanModel, nil); err != nil {
		kind := failure.Classify(err)
		log.Warn().Err(err).Str("kind", kind.String()).Msg("Credential probe call failed")
		return kind != failure.InvalidCredential
	}

	log.Info().Str("model", c.opts.PlanModel).Msg("API key validated")
	return true
}
