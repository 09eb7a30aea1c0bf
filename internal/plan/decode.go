package plan

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/fpang/studio-lens/internal/failure"
	"github.com/fpang/studio-lens/internal/jsonutil"
)

// rawShot is a shot as the backend returns it. Any id it carries is ignored.
type rawShot struct {
	Title             string `json:"title"`
	VisualDescription string `json:"visualDescription"`
}

// shotList accepts either a bare array of shots or an object with a "shots" array.
type shotList []rawShot

var errNoShotsArray = errors.New("response object has no shots array")

func (l *shotList) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var wrapped struct {
			Shots *[]rawShot `json:"shots"`
		}
		if err := json.Unmarshal(data, &wrapped); err != nil {
			return err
		}
		if wrapped.Shots == nil {
			return errNoShotsArray
		}
		*l = *wrapped.Shots
		return nil
	}
	return json.Unmarshal(data, (*[]rawShot)(l))
}

// decodeShots treats raw as untrusted backend output and decodes it into shot
// records. Every failure is a *failure.ValidationError.
func decodeShots(raw string) ([]rawShot, error) {
	shots, err := jsonutil.Decode[shotList](raw)
	if errors.Is(err, jsonutil.ErrNoJSON) {
		return nil, &failure.ValidationError{Reason: fmt.Sprintf("response of length %d", len(raw)), Err: err}
	}
	if err != nil {
		return nil, &failure.ValidationError{Reason: "decode shot list", Err: err}
	}
	return shots, nil
}

// validateShots enforces the campaign contract: exactly ShotCount entries,
// each with a non-blank title and description. Short or long lists are
// rejected, never padded or truncated.
func validateShots(shots []rawShot) error {
	if len(shots) != ShotCount {
		return failure.Validationf("expected %d shots, got %d", ShotCount, len(shots))
	}
	for i, s := range shots {
		if strings.TrimSpace(s.Title) == "" {
			return failure.Validationf("shot %d has an empty title", i+1)
		}
		if strings.TrimSpace(s.VisualDescription) == "" {
			return failure.Validationf("shot %d has an empty visualDescription", i+1)
		}
	}
	return nil
}
