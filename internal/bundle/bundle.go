// Package bundle exports a generated campaign: the shot list as JSON, the
// copyable prompt text, and every rendered preview. The same content can be
// written to a directory or streamed as a ZIP archive.
package bundle

import (
	"archive/zip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fpang/studio-lens/internal/imagedata"
	"github.com/fpang/studio-lens/internal/studio"
	"github.com/klauspost/compress/zstd"
	"github.com/rs/zerolog/log"
)

// File names inside a bundle.
const (
	PlanFile    = "plan.json"
	PromptsFile = "prompts.txt"
)

// MethodZstd is the ZIP compression method ID for Zstandard (APPNOTE 6.3.7).
const MethodZstd uint16 = 93

func init() {
	zip.RegisterCompressor(MethodZstd, func(w io.Writer) (io.WriteCloser, error) {
		return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedBetterCompression))
	})
	zip.RegisterDecompressor(MethodZstd, func(r io.Reader) io.ReadCloser {
		dec, err := zstd.NewReader(r)
		if err != nil {
			return io.NopCloser(errorReader{err})
		}
		return dec.IOReadCloser()
	})
}

type errorReader struct{ err error }

func (e errorReader) Read([]byte) (int, error) { return 0, e.err }

// PlanShot is one entry of plan.json.
type PlanShot struct {
	Number            int    `json:"number"`
	ID                string `json:"id"`
	Title             string `json:"title"`
	VisualDescription string `json:"visualDescription"`
	PromptText        string `json:"promptText"`
	PreviewFile       string `json:"previewFile,omitempty"`
}

// Plan is the plan.json document.
type Plan struct {
	GeneratedAt  time.Time  `json:"generatedAt"`
	SceneContext string     `json:"sceneContext,omitempty"`
	Shots        []PlanShot `json:"shots"`
}

// entry is one file of the bundle.
type entry struct {
	name string
	data []byte
	// precompressed entries (images) are stored without recompression.
	precompressed bool
}

// ErrNoShots is returned when the snapshot has no plan to export.
var ErrNoShots = errors.New("campaign has no shots to export")

// PreviewFileName returns the bundle file name for the n-th shot (1-based).
func PreviewFileName(n int, img imagedata.Image) string {
	return fmt.Sprintf("shot-%02d%s", n, img.Extension())
}

func build(snap studio.Snapshot, now time.Time) ([]entry, error) {
	if len(snap.Shots) == 0 {
		return nil, ErrNoShots
	}

	doc := Plan{GeneratedAt: now.UTC(), SceneContext: snap.Scene}
	var prompts strings.Builder
	var images []entry

	for i, s := range snap.Shots {
		n := i + 1
		ps := PlanShot{
			Number:            n,
			ID:                s.ID,
			Title:             s.Title,
			VisualDescription: s.VisualDescription,
			PromptText:        s.PromptText,
		}
		if s.PreviewImage != "" {
			img, err := imagedata.Parse(s.PreviewImage)
			if err != nil {
				log.Warn().Err(err).Str("shot_id", s.ID).Msg("Skipping undecodable preview")
			} else {
				ps.PreviewFile = PreviewFileName(n, img)
				images = append(images, entry{name: ps.PreviewFile, data: img.Data, precompressed: true})
			}
		}
		doc.Shots = append(doc.Shots, ps)

		fmt.Fprintf(&prompts, "#%d %s\n%s\n\n", n, s.Title, s.PromptText)
	}

	planJSON, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan: %w", err)
	}

	entries := []entry{
		{name: PlanFile, data: append(planJSON, '\n')},
		{name: PromptsFile, data: []byte(prompts.String())},
	}
	return append(entries, images...), nil
}

// WriteDir writes the bundle into dir, creating it if needed, and returns the
// written file names.
func WriteDir(dir string, snap studio.Snapshot) ([]string, error) {
	entries, err := build(snap, time.Now())
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		path := filepath.Join(dir, e.name)
		if err := os.WriteFile(path, e.data, 0o644); err != nil {
			return names, fmt.Errorf("failed to write %s: %w", e.name, err)
		}
		names = append(names, e.name)
	}

	log.Info().Str("dir", dir).Int("files", len(names)).Msg("Campaign bundle written")
	return names, nil
}

// WriteZip streams the bundle as a ZIP archive. Text entries use method
// (zip.Deflate or MethodZstd); images are stored as-is.
func WriteZip(w io.Writer, snap studio.Snapshot, method uint16) error {
	entries, err := build(snap, time.Now())
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	for _, e := range entries {
		m := method
		if e.precompressed {
			m = zip.Store
		}
		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     e.name,
			Method:   m,
			Modified: time.Now(),
		})
		if err != nil {
			return fmt.Errorf("failed to add %s: %w", e.name, err)
		}
		if _, err := fw.Write(e.data); err != nil {
			return fmt.Errorf("failed to write %s: %w", e.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize zip: %w", err)
	}
	return nil
}
