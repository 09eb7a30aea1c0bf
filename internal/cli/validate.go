package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/fpang/studio-lens/internal/plan"
	"github.com/fpang/studio-lens/internal/studio"
)

// ParseShotNumbers parses a comma-separated list of 1-based shot numbers,
// e.g. "1,3,10". "all" selects every shot. Duplicates are dropped and order
// is preserved.
func ParseShotNumbers(list string) ([]int, error) {
	list = strings.TrimSpace(list)
	if list == "" {
		return nil, nil
	}
	if strings.EqualFold(list, "all") {
		all := make([]int, plan.ShotCount)
		for i := range all {
			all[i] = i + 1
		}
		return all, nil
	}

	seen := make(map[int]bool)
	var out []int
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid shot number %q", part)
		}
		if n < 1 || n > plan.ShotCount {
			return nil, fmt.Errorf("shot number %d out of range 1-%d", n, plan.ShotCount)
		}
		if !seen[n] {
			seen[n] = true
			out = append(out, n)
		}
	}
	return out, nil
}

// FailureMessage returns the user-facing text for an orchestrator error.
func FailureMessage(err error) string {
	var opErr *studio.Error
	if errors.As(err, &opErr) {
		return opErr.Message
	}
	if errors.Is(err, studio.ErrInvalidArgument) {
		return "Both a model image and a product image are required."
	}
	return err.Error()
}
