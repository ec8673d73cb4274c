// Package aggregate retrieves CV content from the record store and
// assembles the canonical model through an ordered fallback chain.
package aggregate

import (
	"context"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/cv-generator/internal/reconcile"
	"github.com/jonathan/cv-generator/internal/store"
	"github.com/jonathan/cv-generator/internal/types"
)

// Collection names read by the aggregator.
const (
	CollectionConsolidated = "cv_data"
	CollectionExperiences  = "experiences"
	CollectionSkills       = "skills"
	CollectionProjects     = "projects"
	CollectionSettings     = "settings"
)

// Source identifies which fallback branch served a model.
type Source string

const (
	SourceConsolidated Source = "consolidated"
	SourceCollections  Source = "collections"
	SourceStatic       Source = "static"
)

// Report records how a fetch resolved. Source failures are degradations,
// never fatal errors: a report with failures still accompanies a usable
// model.
type Report struct {
	Source            Source   `json:"source"`
	PartialFailures   []string `json:"partial_failures,omitempty"`
	SourceUnavailable bool     `json:"source_unavailable"`
}

// Partial reports whether some collections failed while others succeeded.
func (r *Report) Partial() bool {
	return len(r.PartialFailures) > 0 && !r.SourceUnavailable
}

// Aggregator fetches CV data and reconciles it to the canonical shape.
type Aggregator struct {
	store  store.Store
	opts   reconcile.Options
	logger *zap.Logger
}

// New creates an aggregator over the given store.
func New(s store.Store, opts reconcile.Options, logger *zap.Logger) *Aggregator {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Aggregator{store: s, opts: opts, logger: logger}
}

// Fetch returns a canonical model for the locale. The fallback chain runs
// in order: consolidated document, per-entity collections, static
// built-in model. Every branch passes through the reconciler, so callers
// always receive the canonical shape. The only returned error is context
// cancellation.
func (a *Aggregator) Fetch(ctx context.Context, locale string) (*types.CVModel, *Report, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	// Step 1: consolidated single-document source.
	if raw, err := store.GetOne(ctx, a.store, CollectionConsolidated, nil); err != nil {
		a.logger.Warn("consolidated source unreachable", zap.Error(err))
	} else if hasPersonalInfo(raw) {
		model := reconcile.Reconcile(raw, locale, a.opts)
		return model, &Report{Source: SourceConsolidated}, nil
	}

	// Step 2: assemble from independent collections.
	raw, failures := a.fetchCollections(ctx, locale)
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if hasAnyContent(raw) {
		model := reconcile.Reconcile(raw, locale, a.opts)
		report := &Report{Source: SourceCollections, PartialFailures: failures}
		return model, report, nil
	}

	// Step 3: everything unreachable or empty. Serve the static model so
	// the pipeline still completes end to end.
	a.logger.Warn("no data source usable, serving static fallback",
		zap.Strings("failures", failures))
	model := reconcile.Reconcile(StaticFallbackRecord(), locale, a.opts)
	report := &Report{Source: SourceStatic, PartialFailures: failures, SourceUnavailable: true}
	return model, report, nil
}

// fetchCollections queries the per-entity collections in parallel. A
// failure in one collection never aborts the others; failed collection
// names are returned for the report.
func (a *Aggregator) fetchCollections(ctx context.Context, locale string) (map[string]any, []string) {
	var mu sync.Mutex
	raw := make(map[string]any)
	var failures []string

	record := func(name string, fn func() error) func() error {
		return func() error {
			if err := fn(); err != nil {
				a.logger.Warn("collection fetch failed", zap.String("collection", name), zap.Error(err))
				mu.Lock()
				failures = append(failures, name)
				mu.Unlock()
			}
			return nil // isolation: sibling fetches keep running
		}
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(record(CollectionExperiences, func() error {
		records, err := a.store.Get(gCtx, CollectionExperiences, nil)
		if err != nil {
			return err
		}
		work, education := partitionByType(records)
		mu.Lock()
		raw["experiences"] = work
		raw["education"] = education
		mu.Unlock()
		return nil
	}))

	g.Go(record(CollectionSkills, func() error {
		records, err := a.store.Get(gCtx, CollectionSkills, nil)
		if err != nil {
			return err
		}
		mu.Lock()
		raw["skills"] = toAnySlice(records)
		mu.Unlock()
		return nil
	}))

	g.Go(record(CollectionProjects, func() error {
		records, err := a.store.Get(gCtx, CollectionProjects, nil)
		if err != nil {
			return err
		}
		mu.Lock()
		raw["projects"] = toAnySlice(records)
		mu.Unlock()
		return nil
	}))

	g.Go(record(CollectionSettings, func() error {
		settings, err := store.GetOne(gCtx, a.store, CollectionSettings, store.Filter{"locale": locale})
		if err != nil {
			return err
		}
		if settings == nil {
			settings, err = store.GetOne(gCtx, a.store, CollectionSettings, nil)
			if err != nil {
				return err
			}
		}
		if block := personalInfoBlock(settings); block != nil {
			mu.Lock()
			raw["personalInfo"] = block
			mu.Unlock()
		}
		return nil
	}))

	_ = g.Wait() // closures always return nil; failures are in the report
	return raw, failures
}

// partitionByType splits experience records into work-like and education
// entries by their type field.
func partitionByType(records []store.Record) (work []any, education []any) {
	work = make([]any, 0, len(records))
	education = make([]any, 0)
	for _, record := range records {
		if t, _ := record["type"].(string); t == "education" {
			education = append(education, map[string]any(record))
		} else {
			work = append(work, map[string]any(record))
		}
	}
	return work, education
}

// personalInfoBlock extracts the identity block from a settings record,
// accepting either key convention or a bare identity record.
func personalInfoBlock(settings store.Record) map[string]any {
	if settings == nil {
		return nil
	}
	if block, ok := settings["personalInfo"].(map[string]any); ok {
		return block
	}
	if block, ok := settings["personal_info"].(map[string]any); ok {
		return block
	}
	if _, ok := settings["name"].(string); ok {
		return settings
	}
	return nil
}

func hasPersonalInfo(raw map[string]any) bool {
	if raw == nil {
		return false
	}
	if _, ok := raw["personalInfo"].(map[string]any); ok {
		return true
	}
	_, ok := raw["personal_info"].(map[string]any)
	return ok
}

// hasAnyContent reports whether the assembled raw record carries any
// usable data at all.
func hasAnyContent(raw map[string]any) bool {
	if _, ok := raw["personalInfo"]; ok {
		return true
	}
	for _, key := range []string{"experiences", "education", "skills", "projects"} {
		if items, ok := raw[key].([]any); ok && len(items) > 0 {
			return true
		}
	}
	return false
}

func toAnySlice(records []store.Record) []any {
	out := make([]any, 0, len(records))
	for _, record := range records {
		out = append(out, map[string]any(record))
	}
	return out
}
