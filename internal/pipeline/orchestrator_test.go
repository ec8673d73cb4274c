package pipeline

import (
	"bytes"
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/cv-generator/internal/aggregate"
	"github.com/jonathan/cv-generator/internal/delivery"
	"github.com/jonathan/cv-generator/internal/reconcile"
	"github.com/jonathan/cv-generator/internal/render"
	"github.com/jonathan/cv-generator/internal/store"
	"github.com/jonathan/cv-generator/internal/tracking"
	"github.com/jonathan/cv-generator/internal/types"
)

// stubRenderer lets tests control render latency and outcome.
type stubRenderer struct {
	mu       sync.Mutex
	calls    int
	artifact *types.Artifact
	err      error
	block    bool          // never resolve until the context is done
	release  chan struct{} // when set, wait for it before resolving
}

func (s *stubRenderer) Render(ctx context.Context, _ *types.Document) (*types.Artifact, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()

	if s.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	if s.artifact != nil {
		return s.artifact, nil
	}
	return &types.Artifact{
		Bytes:    append([]byte("%PDF-1.7\n"), bytes.Repeat([]byte{0x20}, 2048)...),
		MIMEType: render.PDFMIMEType,
	}, nil
}

func (s *stubRenderer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

// stubDeliverer records deliveries.
type stubDeliverer struct {
	mu         sync.Mutex
	downloads  []string
	previews   int
	previewErr error
}

func (s *stubDeliverer) Download(_ context.Context, _ *types.Artifact, filename string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.downloads = append(s.downloads, filename)
	return "/tmp/" + filename, nil
}

func (s *stubDeliverer) Preview(context.Context, *types.Artifact) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.previews++
	return s.previewErr
}

func (s *stubDeliverer) downloadCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.downloads)
}

func seededStore(t *testing.T) *store.Memory {
	t.Helper()
	mem := store.NewMemory()
	err := mem.Insert(context.Background(), aggregate.CollectionConsolidated, []store.Record{
		{
			"personalInfo": map[string]any{"name": "Ada Lovelace", "title": "Engineer"},
			"experiences": []any{
				map[string]any{"title": "Engineer", "organization": "Acme", "startDate": "2020-01", "type": "work"},
			},
			"skills":   []any{map[string]any{"name": "Go", "proficiencyLevel": float64(4)}},
			"projects": []any{map[string]any{"title": "Site", "status": "live"}},
		},
	})
	require.NoError(t, err)
	return mem
}

func newTestOrchestrator(t *testing.T, renderer render.Renderer, deliverer delivery.Deliverer, opts Options) *Orchestrator {
	t.Helper()
	mem := seededStore(t)
	agg := aggregate.New(mem, reconcile.DefaultOptions(), nil)
	return New(agg, renderer, deliverer, tracking.NewStoreTracker(mem, nil), nil, opts)
}

func TestGenerate_DownloadSuccess(t *testing.T) {
	renderer := &stubRenderer{}
	deliverer := &stubDeliverer{}
	orch := newTestOrchestrator(t, renderer, deliverer, Options{})

	result, err := orch.Generate(context.Background(), Request{
		Intent: types.IntentDownload,
		Source: "test",
		Locale: "en",
	})
	require.NoError(t, err)

	assert.Equal(t, StateIdle, orch.Status())
	assert.NoError(t, orch.LastError())
	assert.Equal(t, 1, deliverer.downloadCount())
	assert.Contains(t, result.DownloadPath, "CV-Ada-Lovelace-")
	assert.True(t, result.ModelReport.IsValid)
	assert.True(t, result.ArtifactReport.IsValid)
}

func TestGenerate_PreviewSuccess(t *testing.T) {
	deliverer := &stubDeliverer{}
	orch := newTestOrchestrator(t, &stubRenderer{}, deliverer, Options{})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentPreview, Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, 1, deliverer.previews)
}

// Concurrency guard: exactly one concurrent run reaches delivery, the
// second call resolves immediately with ErrAlreadyInProgress.
func TestGenerate_ConcurrencyGuard(t *testing.T) {
	release := make(chan struct{})
	renderer := &stubRenderer{release: release}
	deliverer := &stubDeliverer{}
	orch := newTestOrchestrator(t, renderer, deliverer, Options{})

	firstDone := make(chan error, 1)
	go func() {
		_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "first"})
		firstDone <- err
	}()

	// Wait until the first run is inside the renderer.
	require.Eventually(t, func() bool { return renderer.callCount() == 1 },
		2*time.Second, 5*time.Millisecond)

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "second"})
	assert.ErrorIs(t, err, ErrAlreadyInProgress)

	close(release)
	require.NoError(t, <-firstDone)
	assert.Equal(t, 1, deliverer.downloadCount())
}

// Timeout enforcement: a render that never resolves surfaces
// ErrRenderTimeout within budget instead of hanging, and the orchestrator
// returns to Idle so the next call is accepted.
func TestGenerate_RenderTimeout(t *testing.T) {
	renderer := &stubRenderer{block: true}
	deliverer := &stubDeliverer{}
	orch := newTestOrchestrator(t, renderer, deliverer, Options{
		DownloadTimeout: 50 * time.Millisecond,
	})

	start := time.Now()
	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})
	elapsed := time.Since(start)

	assert.ErrorIs(t, err, ErrRenderTimeout)
	assert.Less(t, elapsed, 2*time.Second)
	assert.Equal(t, StateIdle, orch.Status())

	// A subsequent call must be accepted.
	renderer.block = false
	_, err = orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})
	assert.NoError(t, err)
}

func TestGenerate_CallerCancellationIsNotTimeout(t *testing.T) {
	renderer := &stubRenderer{block: true}
	orch := newTestOrchestrator(t, renderer, &stubDeliverer{}, Options{})

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := orch.Generate(ctx, Request{Intent: types.IntentDownload, Source: "test"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrRenderTimeout)
}

func TestGenerate_EmptyArtifactIsFatal(t *testing.T) {
	renderer := &stubRenderer{artifact: &types.Artifact{Bytes: []byte{}, MIMEType: render.PDFMIMEType}}
	deliverer := &stubDeliverer{}
	orch := newTestOrchestrator(t, renderer, deliverer, Options{})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})

	assert.ErrorIs(t, err, ErrEmptyArtifact)
	assert.Equal(t, 0, deliverer.downloadCount())
}

// Advisory validation warns and continues by default; the strict policy
// switch blocks instead.
func TestGenerate_AdvisoryValidationPolicy(t *testing.T) {
	small := &types.Artifact{Bytes: []byte("%PDF-1.7 tiny"), MIMEType: render.PDFMIMEType}

	t.Run("default warns and delivers", func(t *testing.T) {
		deliverer := &stubDeliverer{}
		orch := newTestOrchestrator(t, &stubRenderer{artifact: small}, deliverer, Options{})

		result, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})
		require.NoError(t, err)
		assert.Equal(t, 1, deliverer.downloadCount())
		assert.NotEmpty(t, result.ArtifactReport.Warnings())
	})

	t.Run("strict blocks", func(t *testing.T) {
		deliverer := &stubDeliverer{}
		orch := newTestOrchestrator(t, &stubRenderer{artifact: small}, deliverer, Options{StrictValidation: true})

		_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})
		var blocked *ValidationBlockedError
		assert.ErrorAs(t, err, &blocked)
		assert.Equal(t, 0, deliverer.downloadCount())
	})
}

func TestGenerate_PreviewBlocked(t *testing.T) {
	deliverer := &stubDeliverer{previewErr: delivery.ErrPreviewBlocked}
	orch := newTestOrchestrator(t, &stubRenderer{}, deliverer, Options{})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentPreview, Source: "test"})

	assert.ErrorIs(t, err, delivery.ErrPreviewBlocked)
	assert.Equal(t, StateIdle, orch.Status())
}

// brokenFetcher returns a model that bypassed reconciliation (nil
// collections), which must fail hard validation.
type brokenFetcher struct{}

func (brokenFetcher) Fetch(context.Context, string) (*types.CVModel, *aggregate.Report, error) {
	return &types.CVModel{
		PersonalInfo: types.PersonalInfo{Name: "Ada", Title: "Engineer"},
	}, &aggregate.Report{Source: aggregate.SourceConsolidated}, nil
}

func TestGenerate_InvalidModelAbortsBeforeRender(t *testing.T) {
	renderer := &stubRenderer{}
	orch := New(brokenFetcher{}, renderer, &stubDeliverer{}, nil, nil, Options{})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})

	var invalid *InvalidModelError
	require.ErrorAs(t, err, &invalid)
	assert.False(t, invalid.Report.IsValid)
	assert.Equal(t, 0, renderer.callCount(), "rendering must not be attempted for an invalid model")
	assert.Equal(t, StateIdle, orch.Status())
	assert.Error(t, orch.LastError())
}

// The model cache is reused only for a matching locale; a stale locale
// triggers a refetch.
func TestGenerate_ModelCachePerLocale(t *testing.T) {
	mem := seededStore(t)
	agg := aggregate.New(mem, reconcile.DefaultOptions(), nil)
	orch := New(agg, &stubRenderer{}, &stubDeliverer{}, nil, nil, Options{})

	first, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Locale: "en", Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, aggregate.SourceConsolidated, first.AggregateReport.Source)

	second, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Locale: "en", Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, aggregate.Source("cache"), second.AggregateReport.Source)

	third, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Locale: "fi", Source: "test"})
	require.NoError(t, err)
	assert.Equal(t, aggregate.SourceConsolidated, third.AggregateReport.Source)
}

func TestGenerate_TrackingEventEmitted(t *testing.T) {
	mem := seededStore(t)
	agg := aggregate.New(mem, reconcile.DefaultOptions(), nil)
	tracker := tracking.NewStoreTracker(mem, nil)
	orch := New(agg, &stubRenderer{}, &stubDeliverer{}, tracker, nil, Options{})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentPreview, Source: "ui", Locale: "en"})
	require.NoError(t, err)

	events, err := mem.Get(context.Background(), tracking.CollectionEvents, nil)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "cv_previewed", events[0]["event_name"])
	assert.Equal(t, "ui", events[0]["source"])
}

// A tracking failure never fails the overall generation.
func TestGenerate_TrackingFailureIgnored(t *testing.T) {
	mem := seededStore(t)
	mem.FailCollections[tracking.CollectionEvents] = true
	agg := aggregate.New(mem, reconcile.DefaultOptions(), nil)
	orch := New(agg, &stubRenderer{}, &stubDeliverer{}, tracking.NewStoreTracker(mem, nil), nil, Options{})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})
	assert.NoError(t, err)
}

func TestGenerate_ProgressEventsInOrder(t *testing.T) {
	var mu sync.Mutex
	var states []State
	orch := newTestOrchestrator(t, &stubRenderer{}, &stubDeliverer{}, Options{
		OnProgress: func(event ProgressEvent) {
			mu.Lock()
			states = append(states, event.State)
			mu.Unlock()
		},
	})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})
	require.NoError(t, err)

	assert.Equal(t, []State{
		StateFetchingModel,
		StateBuildingDocument,
		StateRendering,
		StateValidating,
		StateDelivering,
	}, states)
}

func TestGenerate_DebugFilenames(t *testing.T) {
	deliverer := &stubDeliverer{}
	orch := newTestOrchestrator(t, &stubRenderer{}, deliverer, Options{DebugFilenames: true})

	_, err := orch.Generate(context.Background(), Request{Intent: types.IntentDownload, Source: "test"})
	require.NoError(t, err)

	require.Len(t, deliverer.downloads, 1)
	assert.Regexp(t, `^CV-Ada-Lovelace-\d{4}-\d{2}-\d{2}-\d{13}\.pdf$`, deliverer.downloads[0])
}
