package plan

import "fmt"

// Shot is one planned composition. PreviewImage is a data URL and is the only
// field that changes after the plan is generated.
type Shot struct {
	ID                string `json:"id"`
	Title             string `json:"title"`
	VisualDescription string `json:"visualDescription"`
	PreviewImage      string `json:"previewImage,omitempty"`
}

// PromptText renders the shot as a text-to-image prompt with placeholders for
// the two reference image URLs.
func (s Shot) PromptText() string {
	return fmt.Sprintf("[MODEL_URL] [PRODUCT_URL] %s --iw 2 --v 6.0 --style raw --ar 3:4", s.VisualDescription)
}
