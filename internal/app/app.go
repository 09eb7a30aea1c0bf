// Package app assembles the studio components shared by every binary.
package app

import (
	"context"

	"github.com/fpang/studio-lens/internal/auth"
	"github.com/fpang/studio-lens/internal/config"
	"github.com/fpang/studio-lens/internal/credential"
	"github.com/fpang/studio-lens/internal/gemini"
	"github.com/fpang/studio-lens/internal/plan"
	"github.com/fpang/studio-lens/internal/preview"
	"github.com/fpang/studio-lens/internal/studio"
)

// Options carries the per-binary pieces.
type Options struct {
	// Selector is the interactive key flow (dialog, prompt or none).
	Selector credential.Selector
	Notifier studio.Notifier
	Metrics  studio.MetricsSink
}

// Stack is a wired orchestrator plus the parts binaries touch directly.
type Stack struct {
	Config       *config.Config
	Keyring      *auth.Keyring
	Backend      *gemini.Client
	Gate         *credential.Gate
	Orchestrator *studio.Orchestrator
}

// Build wires the backend, credential gate, generator, renderer and
// orchestrator. The gate probes the backend once here.
func Build(ctx context.Context, cfg *config.Config, keyring *auth.Keyring, opts Options) *Stack {
	backend := gemini.New(keyring, gemini.Options{
		PlanModel:   cfg.PlanModel,
		ImageModel:  cfg.ImageModel,
		AspectRatio: cfg.AspectRatio,
		ImageSize:   cfg.ImageSize,
	})

	selector := opts.Selector
	if selector == nil {
		selector = auth.NoopSelector{}
	}
	gate := credential.NewGate(ctx, backend, selector)

	var orchOpts []studio.Option
	if opts.Notifier != nil {
		orchOpts = append(orchOpts, studio.WithNotifier(opts.Notifier))
	}
	if opts.Metrics != nil {
		orchOpts = append(orchOpts, studio.WithMetrics(opts.Metrics))
	}
	orch := studio.New(gate,
		plan.NewGenerator(backend),
		preview.NewRenderer(backend),
		orchOpts...,
	)

	return &Stack{
		Config:       cfg,
		Keyring:      keyring,
		Backend:      backend,
		Gate:         gate,
		Orchestrator: orch,
	}
}
