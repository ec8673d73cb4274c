package pipeline

// State is the generation state machine position. Exactly one generation
// run may be in flight; every non-Idle state rejects new triggers.
type State string

const (
	StateIdle             State = "idle"
	StateFetchingModel    State = "fetching_model"
	StateBuildingDocument State = "building_document"
	StateRendering        State = "rendering"
	StateValidating       State = "validating"
	StateDelivering       State = "delivering"
)

// ProgressEvent represents a progress update during a generation run.
type ProgressEvent struct {
	State   State  `json:"state"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
}

// ProgressCallback is called when generation progress occurs.
type ProgressCallback func(event ProgressEvent)
