package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jonathan/cv-generator/internal/aggregate"
	"github.com/jonathan/cv-generator/internal/delivery"
	"github.com/jonathan/cv-generator/internal/document"
	"github.com/jonathan/cv-generator/internal/render"
	"github.com/jonathan/cv-generator/internal/tracking"
	"github.com/jonathan/cv-generator/internal/types"
	"github.com/jonathan/cv-generator/internal/validation"
)

// Render deadlines by intent. Downloads tolerate a longer wait than an
// interactive preview.
const (
	DefaultDownloadTimeout = 30 * time.Second
	DefaultPreviewTimeout  = 10 * time.Second
)

// Options configures an orchestrator.
type Options struct {
	DownloadTimeout time.Duration
	PreviewTimeout  time.Duration

	// StrictValidation makes advisory artifact issues block delivery.
	// The default policy warns and continues; only this one switch
	// changes that, never per call site.
	StrictValidation bool

	// DebugFilenames appends a millisecond timestamp to download names.
	DebugFilenames bool

	OnProgress ProgressCallback
}

// Request describes one generation trigger.
type Request struct {
	Intent types.GenerationIntent
	Source string
	Locale string
	Theme  types.Theme
}

// Result is the outcome of a successful generation run.
type Result struct {
	RunID           uuid.UUID
	Model           *types.CVModel
	AggregateReport *aggregate.Report
	ModelReport     *types.ValidationReport
	ArtifactReport  *types.ValidationReport
	Artifact        *types.Artifact
	DownloadPath    string // set for download intent
}

// ModelFetcher acquires the canonical model for a locale. Satisfied by
// aggregate.Aggregator.
type ModelFetcher interface {
	Fetch(ctx context.Context, locale string) (*types.CVModel, *aggregate.Report, error)
}

// Orchestrator manages the generation lifecycle: acquire model, build
// document, render, validate, deliver, report. It enforces at most one
// in-flight generation system-wide.
type Orchestrator struct {
	aggregator ModelFetcher
	renderer   render.Renderer
	deliverer  delivery.Deliverer
	tracker    tracking.Tracker
	logger     *zap.Logger
	opts       Options

	// slot is a single-slot semaphore: holding the token is the only way
	// into a run. The "generating" flag is never exposed as mutable state.
	slot chan struct{}

	mu           sync.Mutex
	state        State
	lastError    error
	cachedModel  *types.CVModel
	cachedLocale string
}

// New creates an orchestrator.
func New(aggregator ModelFetcher, renderer render.Renderer, deliverer delivery.Deliverer, tracker tracking.Tracker, logger *zap.Logger, opts Options) *Orchestrator {
	if opts.DownloadTimeout <= 0 {
		opts.DownloadTimeout = DefaultDownloadTimeout
	}
	if opts.PreviewTimeout <= 0 {
		opts.PreviewTimeout = DefaultPreviewTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if tracker == nil {
		tracker = tracking.Nop{}
	}

	o := &Orchestrator{
		aggregator: aggregator,
		renderer:   renderer,
		deliverer:  deliverer,
		tracker:    tracker,
		logger:     logger,
		opts:       opts,
		slot:       make(chan struct{}, 1),
		state:      StateIdle,
	}
	o.slot <- struct{}{}
	return o
}

// Status returns the current state machine position.
func (o *Orchestrator) Status() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

// LastError returns the error attached to the most recent failed run, or
// nil after a success.
func (o *Orchestrator) LastError() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.lastError
}

// Generate runs one full generation lifecycle. A call while another run
// is in flight returns ErrAlreadyInProgress immediately; there is no
// queueing.
func (o *Orchestrator) Generate(ctx context.Context, req Request) (*Result, error) {
	select {
	case <-o.slot:
	default:
		return nil, ErrAlreadyInProgress
	}

	runID := uuid.New()
	result, err := o.run(ctx, runID, req)

	o.mu.Lock()
	o.state = StateIdle
	o.lastError = err
	o.mu.Unlock()
	o.slot <- struct{}{}

	if err != nil {
		o.logger.Error("generation run failed",
			zap.String("run_id", runID.String()),
			zap.String("intent", string(req.Intent)),
			zap.Error(err))
		return nil, err
	}
	return result, nil
}

func (o *Orchestrator) run(ctx context.Context, runID uuid.UUID, req Request) (*Result, error) {
	if req.Locale == "" {
		req.Locale = "en"
	}
	if req.Theme == "" {
		req.Theme = types.ThemeModern
	}

	result := &Result{RunID: runID}

	// Step 1: acquire the canonical model.
	o.setState(StateFetchingModel, runID, "fetching CV model for locale "+req.Locale)
	model, aggReport, err := o.fetchModel(ctx, req.Locale)
	if err != nil {
		return nil, err
	}
	result.Model = model
	result.AggregateReport = aggReport

	modelReport := validation.ValidateModel(model)
	result.ModelReport = modelReport
	if !modelReport.IsValid {
		return nil, &InvalidModelError{Report: modelReport}
	}

	// Step 2: build the declarative document description.
	o.setState(StateBuildingDocument, runID, "building document description")
	doc, err := document.Build(model, req.Theme)
	if err != nil {
		return nil, fmt.Errorf("building document failed: %w", err)
	}

	// Step 3: render under a hard deadline. Cancellation propagates into
	// the renderer, so the losing operation is released, not ignored.
	o.setState(StateRendering, runID, "rendering document")
	artifact, err := o.renderWithTimeout(ctx, doc, req.Intent)
	if err != nil {
		return nil, err
	}
	result.Artifact = artifact

	// Step 4: validate the artifact. Advisory issues warn and continue
	// unless strict validation is on; an empty artifact is always fatal.
	o.setState(StateValidating, runID, "validating rendered artifact")
	artifactReport := validation.ValidateArtifact(artifact, render.PDFMIMEType)
	result.ArtifactReport = artifactReport
	if artifact.Size() == 0 {
		return nil, ErrEmptyArtifact
	}
	if len(artifactReport.Issues) > 0 {
		if o.opts.StrictValidation {
			return nil, &ValidationBlockedError{Report: artifactReport}
		}
		for _, issue := range artifactReport.Issues {
			o.logger.Warn("artifact validation issue",
				zap.String("run_id", runID.String()),
				zap.String("code", issue.Code),
				zap.String("details", issue.Details))
		}
	}

	// Step 5: deliver.
	o.setState(StateDelivering, runID, "delivering artifact")
	if err := o.deliver(ctx, result, req); err != nil {
		return nil, err
	}

	o.emitTracking(ctx, req, model)
	return result, nil
}

// fetchModel reuses the cached model only when its locale matches the
// request; a stale locale always triggers a refetch. Only one run may be
// in flight, so the cache is never mutated concurrently.
func (o *Orchestrator) fetchModel(ctx context.Context, locale string) (*types.CVModel, *aggregate.Report, error) {
	o.mu.Lock()
	cached := o.cachedModel
	cachedLocale := o.cachedLocale
	o.mu.Unlock()

	if cached != nil && cachedLocale == locale {
		return cached, &aggregate.Report{Source: "cache"}, nil
	}

	model, report, err := o.aggregator.Fetch(ctx, locale)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching CV model failed: %w", err)
	}

	o.mu.Lock()
	o.cachedModel = model
	o.cachedLocale = locale
	o.mu.Unlock()
	return model, report, nil
}

func (o *Orchestrator) renderWithTimeout(ctx context.Context, doc *types.Document, intent types.GenerationIntent) (*types.Artifact, error) {
	timeout := o.opts.DownloadTimeout
	if intent == types.IntentPreview {
		timeout = o.opts.PreviewTimeout
	}

	renderCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	artifact, err := o.renderer.Render(renderCtx, doc)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			return nil, ErrRenderTimeout
		}
		return nil, fmt.Errorf("rendering failed: %w", err)
	}
	if artifact == nil {
		return nil, ErrEmptyArtifact
	}
	return artifact, nil
}

func (o *Orchestrator) deliver(ctx context.Context, result *Result, req Request) error {
	switch req.Intent {
	case types.IntentPreview:
		if err := o.deliverer.Preview(ctx, result.Artifact); err != nil {
			return err
		}
	default:
		filename := delivery.Filename(result.Model.PersonalInfo.Name, time.Now(), o.opts.DebugFilenames)
		path, err := o.deliverer.Download(ctx, result.Artifact, filename)
		if err != nil {
			return fmt.Errorf("delivering download failed: %w", err)
		}
		result.Artifact.Filename = filename
		result.DownloadPath = path
	}
	return nil
}

// emitTracking fires the success event. Its failure never fails the run;
// the tracker swallows errors and the context is detached from the run's
// cancellation.
func (o *Orchestrator) emitTracking(ctx context.Context, req Request, model *types.CVModel) {
	eventName := "cv_downloaded"
	if req.Intent == types.IntentPreview {
		eventName = "cv_previewed"
	}
	o.tracker.Emit(context.WithoutCancel(ctx), types.TrackingEvent{
		EventName:       eventName,
		Source:          req.Source,
		DataPointCounts: types.DataPointCounts(model),
	})
}

func (o *Orchestrator) setState(state State, runID uuid.UUID, message string) {
	o.mu.Lock()
	o.state = state
	o.mu.Unlock()

	o.logger.Info("generation step",
		zap.String("run_id", runID.String()),
		zap.String("state", string(state)))

	if o.opts.OnProgress != nil {
		o.opts.OnProgress(ProgressEvent{State: state, Message: message, RunID: runID.String()})
	}
}
