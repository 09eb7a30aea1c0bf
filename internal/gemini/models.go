package gemini

// Gemini model IDs used by the studio.
//
// | Model                      | API Model ID               | Used for                 |
// |----------------------------|----------------------------|--------------------------|
// | Gemini 3 Flash (Preview)   | gemini-3-flash-preview     | shot list planning       |
// | Gemini 3 Pro Image         | gemini-3-pro-image-preview | preview synthesis        |
const (
	ModelGemini3FlashPreview = "gemini-3-flash-preview"
	ModelGemini3ProImage     = "gemini-3-pro-image-preview"
	DefaultPlanModel         = ModelGemini3FlashPreview
	DefaultImageModel        = ModelGemini3ProImage

	// DefaultAspectRatio matches the "--ar 3:4" of the exported prompt text.
	DefaultAspectRatio = "3:4"
)
