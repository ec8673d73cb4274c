//nolint:revive // types is a standard Go package name pattern
package types

// GenerationIntent distinguishes a file download from an inline preview.
type GenerationIntent string

const (
	IntentDownload GenerationIntent = "download"
	IntentPreview  GenerationIntent = "preview"
)

// TrackingEvent is the fire-and-forget record emitted after a successful
// generation run. Its delivery failure never fails the run.
type TrackingEvent struct {
	EventName       string         `json:"event_name"` // cv_downloaded | cv_previewed
	Source          string         `json:"source"`
	DataPointCounts map[string]int `json:"data_point_counts"`
}

// DataPointCounts summarizes how much content a model carried, for
// tracking payloads.
func DataPointCounts(model *CVModel) map[string]int {
	if model == nil {
		return map[string]int{}
	}
	return map[string]int{
		"experiences": len(model.Experiences),
		"skills":      len(model.Skills),
		"projects":    len(model.Projects),
		"education":   len(model.Education),
		"languages":   len(model.Languages),
	}
}
