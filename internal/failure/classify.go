// Package failure maps backend errors onto the only distinction a user can act
// on: the key is bad, or try again.
package failure

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fpang/studio-lens/internal/auth"
	"google.golang.org/genai"
)

// Kind is the classified outcome of a failed backend call.
type Kind int

const (
	// Transient covers network, quota, server and other retryable failures.
	Transient Kind = iota
	// InvalidCredential means the backend rejected the key; reconnect.
	InvalidCredential
	// Validation means the backend answered but broke its output contract.
	// It is messaged like Transient.
	Validation
)

func (k Kind) String() string {
	switch k {
	case InvalidCredential:
		return "invalid_credential"
	case Validation:
		return "validation"
	default:
		return "transient"
	}
}

// ResetsCredential reports whether the caller must mark the credential unavailable.
func (k Kind) ResetsCredential() bool {
	return k == InvalidCredential
}

// Operation selects the wording of user-facing messages.
type Operation int

const (
	OpPlan Operation = iota
	OpPreview
)

// User-facing messages.
const (
	PlanInvalidCredentialMessage    = "API Key invalid or expired. Please reconnect."
	PlanTransientMessage            = "Failed to generate shot list. Please check your internet connection."
	PreviewInvalidCredentialMessage = "API Key invalid. Please reconnect."
	PreviewTransientMessage         = "Generation failed. Retrying usually works!"
)

// Message returns the text shown to the user for a failure of kind k during op.
func (k Kind) Message(op Operation) string {
	switch {
	case op == OpPreview && k == InvalidCredential:
		return PreviewInvalidCredentialMessage
	case op == OpPreview:
		return PreviewTransientMessage
	case k == InvalidCredential:
		return PlanInvalidCredentialMessage
	default:
		return PlanTransientMessage
	}
}

// ValidationError reports a structurally valid backend answer that violates
// the expected shape (wrong shot count, empty fields, undecodable JSON).
type ValidationError struct {
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	if e.Err != nil {
		return "invalid backend output: " + e.Reason + ": " + e.Err.Error()
	}
	return "invalid backend output: " + e.Reason
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Validationf builds a ValidationError with a formatted reason.
func Validationf(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// credentialMarkers are message fragments the backend uses when it rejects a key.
var credentialMarkers = []string{
	"requested entity was not found",
	"403",
	"404",
	"api key not valid",
	"api_key_invalid",
	"invalid api key",
	"permission denied",
	"permission_denied",
}

// Classify inspects err and returns its Kind. A nil error is Transient.
func Classify(err error) Kind {
	if err == nil {
		return Transient
	}

	var valErr *ValidationError
	if errors.As(err, &valErr) {
		return Validation
	}

	if errors.Is(err, auth.ErrNoKey) {
		return InvalidCredential
	}

	if code, ok := apiErrorCode(err); ok {
		switch code {
		case 401, 403, 404:
			return InvalidCredential
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range credentialMarkers {
		if strings.Contains(msg, marker) {
			return InvalidCredential
		}
	}
	return Transient
}

// apiErrorCode extracts the HTTP status from a genai.APIError, which the SDK
// returns by value.
func apiErrorCode(err error) (int, bool) {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code, true
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) && apiErrPtr != nil {
		return apiErrPtr.Code, true
	}
	return 0, false
}
