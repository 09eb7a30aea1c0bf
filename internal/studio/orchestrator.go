// Package studio sequences credential acquisition, plan generation and
// per-shot preview rendering over one shared campaign request, and reconciles
// their results into a single observable state.
package studio

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fpang/studio-lens/internal/failure"
	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/plan"
	"github.com/rs/zerolog/log"
)

// CredentialGate is the credential flag the orchestrator consults and resets.
type CredentialGate interface {
	HasCredential() bool
	EnsureCredential(ctx context.Context)
	Invalidate()
}

// Planner produces the shot collection.
type Planner interface {
	GeneratePlan(ctx context.Context, product imagedata.Image, sceneContext string) ([]plan.Shot, error)
}

// Renderer synthesizes one preview.
type Renderer interface {
	RenderPreview(ctx context.Context, model, product imagedata.Image, visualDescription string) (imagedata.Image, error)
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithNotifier replaces the default log notifier.
func WithNotifier(n Notifier) Option {
	return func(o *Orchestrator) { o.notifier = n }
}

// WithMetrics records operation latency and outcome.
func WithMetrics(m MetricsSink) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// Orchestrator owns the campaign status, the shot collection and the per-shot
// render counts. All methods are safe for concurrent use. Backend calls run
// without the lock held; their results are applied under it when they
// complete, so for a given shot the last render to finish wins.
type Orchestrator struct {
	gate     CredentialGate
	planner  Planner
	renderer Renderer
	notifier Notifier
	metrics  MetricsSink
	now      func() time.Time

	mu         sync.Mutex
	request    CampaignRequest
	status     Status
	errMsg     string
	shots      []plan.Shot
	scene      string
	generation uint64
	rendering  map[string]int
}

// New creates an idle orchestrator.
func New(gate CredentialGate, planner Planner, renderer Renderer, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		gate:      gate,
		planner:   planner,
		renderer:  renderer,
		notifier:  logNotifier{},
		metrics:   noopMetrics{},
		now:       time.Now,
		status:    StatusIdle,
		rendering: make(map[string]int),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// SetRequest replaces the campaign request. It does not touch status or shots.
func (o *Orchestrator) SetRequest(req CampaignRequest) {
	o.mu.Lock()
	o.request = req
	o.mu.Unlock()
}

// Request returns the current campaign request.
func (o *Orchestrator) Request() CampaignRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.request
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() Snapshot {
	o.mu.Lock()
	defer o.mu.Unlock()

	views := make([]ShotView, len(o.shots))
	for i, s := range o.shots {
		views[i] = ShotView{
			Shot:       s,
			PromptText: s.PromptText(),
			Rendering:  o.rendering[s.ID] > 0,
		}
	}
	return Snapshot{
		Status:              o.status,
		Error:               o.errMsg,
		Shots:               views,
		Scene:               o.scene,
		CredentialAvailable: o.gate.HasCredential(),
	}
}

type planJob struct {
	generation uint64
	product    imagedata.Image
	scene      string
}

// Generate runs one plan submission to completion: guard, loading, ensure
// credential, plan, then success or error. A missing image returns
// ErrMissingImages and leaves the state untouched. A plan failure returns
// *Error and sets the status to error with the classified message.
func (o *Orchestrator) Generate(ctx context.Context) error {
	job, err := o.begin(false)
	if err != nil {
		return err
	}
	return o.runPlan(ctx, job)
}

// Start performs the guard and the transition to loading synchronously, then
// finishes the submission in the background. It refuses with ErrBusy while a
// plan is loading. The returned channel yields Generate's result.
func (o *Orchestrator) Start(ctx context.Context) (<-chan error, error) {
	job, err := o.begin(true)
	if err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- o.runPlan(ctx, job)
	}()
	return done, nil
}

func (o *Orchestrator) begin(refuseBusy bool) (planJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if refuseBusy && o.status == StatusLoading {
		return planJob{}, ErrBusy
	}
	if !o.request.HasImages() {
		return planJob{}, ErrMissingImages
	}
	if _, err := imagedata.Parse(o.request.ModelImage); err != nil {
		return planJob{}, fmt.Errorf("%w: model image: %v", ErrInvalidArgument, err)
	}
	product, err := imagedata.Parse(o.request.ProductImage)
	if err != nil {
		return planJob{}, fmt.Errorf("%w: product image: %v", ErrInvalidArgument, err)
	}

	o.generation++
	o.errMsg = ""
	o.shots = nil
	o.scene = ""
	o.status = StatusLoading

	log.Info().
		Uint64("generation", o.generation).
		Bool("scene_provided", o.request.SceneContext != "").
		Msg("Campaign generation started")

	return planJob{generation: o.generation, product: product, scene: o.request.SceneContext}, nil
}

func (o *Orchestrator) runPlan(ctx context.Context, job planJob) error {
	o.gate.EnsureCredential(ctx)

	start := o.now()
	shots, err := o.planner.GeneratePlan(ctx, job.product, job.scene)
	elapsed := o.now().Sub(start)

	if err != nil {
		kind := failure.Classify(err)
		o.metrics.RecordOperation("plan", kind.String(), elapsed)
		if kind.ResetsCredential() {
			o.gate.Invalidate()
		}
		opErr := &Error{Op: failure.OpPlan, Kind: kind, Message: kind.Message(failure.OpPlan), Err: err}

		o.mu.Lock()
		defer o.mu.Unlock()
		if job.generation != o.generation {
			log.Warn().Err(err).Uint64("generation", job.generation).Msg("Discarding failure of superseded plan")
			return opErr
		}
		o.status = StatusError
		o.errMsg = opErr.Message
		log.Error().Err(err).Str("kind", kind.String()).Dur("duration", elapsed).Msg("Campaign generation failed")
		return opErr
	}

	o.metrics.RecordOperation("plan", "success", elapsed)

	o.mu.Lock()
	defer o.mu.Unlock()
	if job.generation != o.generation {
		log.Warn().Uint64("generation", job.generation).Msg("Discarding result of superseded plan")
		return nil
	}
	o.shots = shots
	o.scene = job.scene
	o.status = StatusSuccess
	log.Info().Int("shots", len(shots)).Dur("duration", elapsed).Msg("Campaign generation succeeded")
	return nil
}

type previewJob struct {
	generation  uint64
	shotID      string
	description string
	model       imagedata.Image
	product     imagedata.Image
}

// RenderPreview renders one shot and patches only that shot's preview. It
// never changes the campaign status. On failure the previous preview is kept,
// a Notice is sent and *Error is returned. Unknown ids and missing images
// return ErrInvalidArgument without calling the backend.
func (o *Orchestrator) RenderPreview(ctx context.Context, shotID string) error {
	job, err := o.beginPreview(shotID)
	if err != nil {
		return err
	}
	return o.runPreview(ctx, job)
}

// StartPreview validates synchronously and renders in the background. The
// returned channel yields RenderPreview's result.
func (o *Orchestrator) StartPreview(ctx context.Context, shotID string) (<-chan error, error) {
	job, err := o.beginPreview(shotID)
	if err != nil {
		return nil, err
	}
	done := make(chan error, 1)
	go func() {
		done <- o.runPreview(ctx, job)
	}()
	return done, nil
}

func (o *Orchestrator) beginPreview(shotID string) (previewJob, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	idx := o.indexOf(shotID)
	if idx < 0 {
		return previewJob{}, ErrUnknownShot
	}
	if !o.request.HasImages() {
		return previewJob{}, ErrMissingImages
	}
	model, err := imagedata.Parse(o.request.ModelImage)
	if err != nil {
		return previewJob{}, fmt.Errorf("%w: model image: %v", ErrInvalidArgument, err)
	}
	product, err := imagedata.Parse(o.request.ProductImage)
	if err != nil {
		return previewJob{}, fmt.Errorf("%w: product image: %v", ErrInvalidArgument, err)
	}

	o.rendering[shotID]++
	return previewJob{
		generation:  o.generation,
		shotID:      shotID,
		description: o.shots[idx].VisualDescription,
		model:       model,
		product:     product,
	}, nil
}

func (o *Orchestrator) runPreview(ctx context.Context, job previewJob) error {
	defer o.doneRendering(job.shotID)

	o.gate.EnsureCredential(ctx)

	start := o.now()
	img, err := o.renderer.RenderPreview(ctx, job.model, job.product, job.description)
	elapsed := o.now().Sub(start)

	if err != nil {
		kind := failure.Classify(err)
		o.metrics.RecordOperation("preview", kind.String(), elapsed)
		if kind.ResetsCredential() {
			o.gate.Invalidate()
		}
		opErr := &Error{Op: failure.OpPreview, Kind: kind, Message: kind.Message(failure.OpPreview), Err: err}
		log.Warn().Err(err).Str("shot_id", job.shotID).Str("kind", kind.String()).Msg("Preview failed")
		o.notifier.Notify(Notice{
			ShotID:  job.shotID,
			Kind:    kind.String(),
			Message: opErr.Message,
			At:      o.now(),
		})
		return opErr
	}

	o.metrics.RecordOperation("preview", "success", elapsed)

	o.mu.Lock()
	defer o.mu.Unlock()
	if job.generation != o.generation {
		log.Debug().Str("shot_id", job.shotID).Msg("Dropping preview for a replaced campaign")
		return nil
	}
	idx := o.indexOf(job.shotID)
	if idx < 0 {
		return nil
	}
	o.shots[idx].PreviewImage = img.DataURL()
	log.Info().Str("shot_id", job.shotID).Dur("duration", elapsed).Msg("Preview applied")
	return nil
}

func (o *Orchestrator) doneRendering(shotID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.rendering[shotID] <= 1 {
		delete(o.rendering, shotID)
		return
	}
	o.rendering[shotID]--
}

// indexOf must be called with mu held.
func (o *Orchestrator) indexOf(shotID string) int {
	for i, s := range o.shots {
		if s.ID == shotID {
			return i
		}
	}
	return -1
}
