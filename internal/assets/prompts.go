// Package assets embeds the prompt text sent to Gemini. Static prompts are
// plain strings; prompts with per-request data are text/template files.
package assets

import (
	"bytes"
	_ "embed"
	"strings"
	"text/template"
)

// PlanSystemPrompt is the fixed creative direction for shot planning.
//
//go:embed prompts/plan-system.txt
var PlanSystemPrompt string

//go:embed prompts/plan-task.txt
var planTaskTemplate string

//go:embed prompts/preview.txt
var previewTemplate string

var (
	planTaskTmpl = template.Must(template.New("plan-task").Parse(planTaskTemplate))
	previewTmpl  = template.Must(template.New("preview").Parse(previewTemplate))
)

// ShotMixEntry is one line of the required shot variety.
type ShotMixEntry struct {
	Count int
	Label string
}

// PlanTaskData fills the plan task template.
type PlanTaskData struct {
	ShotCount      int
	SceneDirection string
	ShotMix        []ShotMixEntry
}

// RenderPlanTask renders the user-turn text of a plan request.
func RenderPlanTask(data PlanTaskData) string {
	return render(planTaskTmpl, data)
}

// RenderPreviewPrompt wraps a shot description with the reference-image roles
// and realism constraints.
func RenderPreviewPrompt(visualDescription string) string {
	return render(previewTmpl, struct{ VisualDescription string }{strings.TrimSpace(visualDescription)})
}

func render(tmpl *template.Template, data any) string {
	var buf bytes.Buffer
	// The templates only reference fields that always exist, so Execute
	// cannot fail on well-typed data.
	_ = tmpl.Execute(&buf, data)
	return buf.String()
}
