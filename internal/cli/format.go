package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fpang/studio-lens/internal/studio"
)

// FormatDurationShort formats a duration as M:SS or H:MM:SS.
func FormatDurationShort(d time.Duration) string {
	totalSeconds := int(d.Seconds())
	hours := totalSeconds / 3600
	minutes := (totalSeconds % 3600) / 60
	seconds := totalSeconds % 60

	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

// PrintShots writes a numbered shot list with each shot's prompt text.
func PrintShots(w io.Writer, shots []studio.ShotView) {
	for i, s := range shots {
		fmt.Fprintf(w, "%2d. %s\n", i+1, s.Title)
		fmt.Fprintf(w, "    %s\n", wrap(s.VisualDescription, 76, "    "))
		if s.PreviewImage != "" {
			fmt.Fprintln(w, "    [preview rendered]")
		}
		fmt.Fprintln(w)
	}
}

// wrap breaks text at word boundaries so no line exceeds width, indenting
// continuation lines.
func wrap(text string, width int, indent string) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var sb strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				sb.WriteString("\n")
				sb.WriteString(indent)
				lineLen = 0
			} else {
				sb.WriteString(" ")
				lineLen++
			}
		}
		sb.WriteString(word)
		lineLen += len(word)
	}
	return sb.String()
}
