package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/ncruces/zenity"
	"github.com/rs/zerolog/log"
)

// ErrNoSelection is returned when the user closes a picker without choosing.
var ErrNoSelection = errors.New("no file selected")

// imageFilter lists the supported reference image patterns.
func imageFilter() zenity.FileFilters {
	patterns := make([]string, 0, len(imagedata.SupportedExtensions))
	for ext := range imagedata.SupportedExtensions {
		patterns = append(patterns, "*"+ext)
	}
	sort.Strings(patterns)
	return zenity.FileFilters{{Name: "Images", Patterns: patterns}}
}

// PickImage returns path when set, otherwise opens a native file picker.
func PickImage(ctx context.Context, title, path string) (string, error) {
	if path != "" {
		return path, nil
	}
	selected, err := zenity.SelectFile(
		zenity.Title(title),
		imageFilter(),
		zenity.Context(ctx),
	)
	if errors.Is(err, zenity.ErrCanceled) {
		return "", ErrNoSelection
	}
	if err != nil {
		return "", fmt.Errorf("file picker failed: %w", err)
	}
	log.Debug().Str("title", title).Str("path", selected).Msg("Image selected")
	return selected, nil
}

// PromptForScene asks for an optional scene concept. An empty answer lets
// the planner invent a setting. The reader is shared with later prompts, so
// only the scene line is consumed.
func PromptForScene(in *bufio.Reader, out io.Writer) string {
	fmt.Fprint(out, "Scene concept (optional, press Enter to let the director choose): ")

	input, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		log.Warn().Err(err).Msg("Failed to read scene, continuing without one")
		return ""
	}
	return strings.TrimSpace(input)
}
