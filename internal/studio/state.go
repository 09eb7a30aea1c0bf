package studio

import (
	"errors"
	"fmt"

	"github.com/fpang/studio-lens/internal/failure"
	"github.com/fpang/studio-lens/internal/plan"
)

// Status is the campaign-level state.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

var (
	// ErrInvalidArgument marks calls rejected before any state change.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrMissingImages is returned when either reference image is absent.
	ErrMissingImages = fmt.Errorf("%w: both model and product images are required", ErrInvalidArgument)
	// ErrUnknownShot is returned for a shot id not in the current collection.
	ErrUnknownShot = fmt.Errorf("%w: unknown shot", ErrInvalidArgument)
	// ErrBusy is returned by Start while a plan is already loading.
	ErrBusy = errors.New("campaign generation already in progress")
)

// CampaignRequest is the user's input. Images are base64 payloads with an
// optional data-URL prefix; an empty string means absent.
type CampaignRequest struct {
	ModelImage   string `json:"modelImage"`
	ProductImage string `json:"productImage"`
	SceneContext string `json:"sceneContext"`
}

// HasImages reports whether both reference images are present.
func (r CampaignRequest) HasImages() bool {
	return r.ModelImage != "" && r.ProductImage != ""
}

// ShotView is a shot as presented to callers.
type ShotView struct {
	plan.Shot
	PromptText string `json:"promptText"`
	Rendering  bool   `json:"rendering"`
}

// Snapshot is a consistent copy of the orchestrator state.
type Snapshot struct {
	Status              Status     `json:"status"`
	Error               string     `json:"error,omitempty"`
	Shots               []ShotView `json:"shots"`
	// Scene is the scene concept the current shots were planned from, which
	// may differ from the request once it has been replaced.
	Scene               string     `json:"scene"`
	CredentialAvailable bool       `json:"credentialAvailable"`
}

// Shot returns the shot with the given id.
func (s Snapshot) Shot(id string) (ShotView, bool) {
	for _, sv := range s.Shots {
		if sv.ID == id {
			return sv, true
		}
	}
	return ShotView{}, false
}

// Error is a classified backend failure. Message is the user-facing text.
type Error struct {
	Op      failure.Operation
	Kind    failure.Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s (%s): %v", e.Message, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
