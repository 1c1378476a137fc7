// Package dispatch implements the Request Dispatcher (spec.md §4's
// component I and §6): the four external operations, driving the pipeline
// extract → normalize (folded into extract) → score → match → classify →
// store over the file sets the external walker collaborator discovers.
package dispatch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/oxhq/semdiff/internal/applog"
	"github.com/oxhq/semdiff/internal/classify"
	"github.com/oxhq/semdiff/internal/config"
	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/extract"
	"github.com/oxhq/semdiff/internal/match"
	"github.com/oxhq/semdiff/internal/metrics"
	"github.com/oxhq/semdiff/internal/registry"
	"github.com/oxhq/semdiff/internal/score"
	"github.com/oxhq/semdiff/internal/store"
	"github.com/oxhq/semdiff/internal/walkfs"
)

// FileLister is the external directory-walking collaborator's interface,
// satisfied by internal/walkfs.Walker. The dispatcher depends only on this
// shape, keeping the out-of-core-scope boundary spec.md §1 describes.
type FileLister interface {
	Walk(ctx context.Context, scope walkfs.Scope) ([]walkfs.FileResult, error)
}

// FileReader abstracts reading a file's bytes, letting tests substitute an
// in-memory source without touching disk.
type FileReader interface {
	ReadFile(path string) ([]byte, error)
}

// Dispatcher wires every core component together and serves the four
// external operations.
type Dispatcher struct {
	cfg     config.Config
	reg     *registry.Registry
	walker  FileLister
	reader  FileReader
	store   *store.Store
	metrics *metrics.Collector
}

// New builds a Dispatcher. Pass nil metrics to disable instrumentation.
func New(cfg config.Config, reg *registry.Registry, walker FileLister, reader FileReader, st *store.Store, mc *metrics.Collector) *Dispatcher {
	return &Dispatcher{cfg: cfg, reg: reg, walker: walker, reader: reader, store: st, metrics: mc}
}

// CompareLocationsRequest is compare_locations' input (spec.md §6.1).
type CompareLocationsRequest struct {
	SourcePath     string
	TargetPath     string
	FilePatterns   []string
	IgnorePatterns []string
	Deadline       time.Time // zero means no deadline
}

// CompareLocationsResult is compare_locations' output.
type CompareLocationsResult struct {
	ComparisonID string
	Summary      core.Stats
}

// CompareLocations runs the full pipeline over two directory trees and
// seals a new ComparisonContext (spec.md §6.1, §4.8 create).
func (d *Dispatcher) CompareLocations(ctx context.Context, req CompareLocationsRequest) (*CompareLocationsResult, error) {
	if req.SourcePath == "" || req.TargetPath == "" {
		return nil, core.NewCoreError(core.ECInvalidArgument, core.ErrInvalidArgument, "source_path and target_path are required")
	}

	if !req.Deadline.IsZero() {
		var cancel context.CancelFunc
		ctx, cancel = context.WithDeadline(ctx, req.Deadline)
		defer cancel()
	}

	scope := walkfs.Scope{IncludePatterns: req.FilePatterns, IgnorePatterns: req.IgnorePatterns}

	sourceScope, targetScope := scope, scope
	sourceScope.Root, targetScope.Root = req.SourcePath, req.TargetPath

	sourceFiles, err := d.walker.Walk(ctx, sourceScope)
	if err != nil {
		return nil, wrapDeadline(ctx, err)
	}
	targetFiles, err := d.walker.Walk(ctx, targetScope)
	if err != nil {
		return nil, wrapDeadline(ctx, err)
	}

	sourceClassified, err := walkfs.Languages(sourceFiles)
	if err != nil {
		return nil, err
	}
	targetClassified, err := walkfs.Languages(targetFiles)
	if err != nil {
		return nil, err
	}

	sourceFns, sourceWarnings, err := d.extractAll(ctx, sourceClassified)
	if err != nil {
		return nil, wrapDeadline(ctx, err)
	}
	targetFns, targetWarnings, err := d.extractAll(ctx, targetClassified)
	if err != nil {
		return nil, wrapDeadline(ctx, err)
	}

	// Span.File is made relative to its tree's root, so the same file in
	// both trees compares equal for the cross-file penalty and Moved rule.
	for _, fn := range sourceFns {
		if rel, err := filepath.Rel(req.SourcePath, fn.Span.File); err == nil {
			fn.Span.File = rel
		}
	}
	for _, fn := range targetFns {
		if rel, err := filepath.Rel(req.TargetPath, fn.Span.File); err == nil {
			fn.Span.File = rel
		}
	}

	select {
	case <-ctx.Done():
		// Deadline expired: per spec.md §5, discard everything gathered so
		// far and register no partial context.
		return nil, core.NewCoreError(core.ECTimeout, core.ErrTimeout, "compare_locations deadline exceeded")
	default:
	}

	changes := d.matchAndClassify(ctx, sourceFns, targetFns)

	warnings := append(sourceWarnings, targetWarnings...)
	sealed := d.store.Seal(req.SourcePath, req.TargetPath, changes, warnings, time.Now())

	if d.metrics != nil {
		d.metrics.ComparisonsCreated.Inc()
		for _, fc := range changes {
			d.metrics.FunctionsByType.WithLabelValues(string(fc.ChangeType)).Inc()
		}
		for range warnings {
			d.metrics.ParseWarnings.Inc()
		}
	}

	applog.WithField("comparison_id", sealed.ID).
		WithField("functions", sealed.Stats.Total).
		Info("comparison sealed")

	return &CompareLocationsResult{ComparisonID: sealed.ID, Summary: sealed.Stats}, nil
}

// extractAll parses every classified file in parallel (spec.md §5:
// "parallel worker threads for file-level parsing"), bounded by
// cfg.Workers.ParseWorkers, and returns the combined function list plus
// any accumulated warnings.
func (d *Dispatcher) extractAll(ctx context.Context, files []walkfs.FileResult) ([]*core.FunctionRecord, []core.ParseWarning, error) {
	ex := extract.New(d.reg)

	type fileResult struct {
		fns     []*core.FunctionRecord
		warning *core.ParseWarning
	}
	out := make([]fileResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workerLimit(d.cfg.Workers.ParseWorkers))

	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			source, err := d.reader.ReadFile(f.Path)
			if err != nil {
				out[i] = fileResult{warning: &core.ParseWarning{File: f.Path, Message: err.Error()}}
				return nil // per-file read failure is non-fatal (Unreadable warning)
			}
			res, err := ex.Extract(gctx, f.Path, f.Language, source)
			if err != nil {
				out[i] = fileResult{warning: &core.ParseWarning{File: f.Path, Message: err.Error()}}
				return nil // ParseFailed is always recovered locally (spec.md §7)
			}
			out[i] = fileResult{fns: res.Functions, warning: res.Warning}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var fns []*core.FunctionRecord
	var warnings []core.ParseWarning
	nextID := 0
	for _, r := range out {
		for _, fn := range r.fns {
			fn.ID = nextID
			nextID++
			fns = append(fns, fn)
		}
		if r.warning != nil {
			warnings = append(warnings, *r.warning)
		}
	}
	return fns, warnings, nil
}

func workerLimit(n int) int {
	if n <= 0 {
		return 8
	}
	return n
}

// matchAndClassify groups records by language (cross-language matching is
// a Non-goal, spec.md §1), runs the matcher per language group, and
// classifies every result into a FunctionChange.
func (d *Dispatcher) matchAndClassify(ctx context.Context, sourceFns, targetFns []*core.FunctionRecord) []core.FunctionChange {
	sc := score.New(d.cfg.ScorerWeights(), d.cfg.Scorer.TEDRatioBound)
	sc.SetMetrics(d.metrics)
	opts := d.cfg.MatcherOptions(sc)
	opts.Metrics = d.metrics

	bySourceLang := groupByLanguage(sourceFns)
	byTargetLang := groupByLanguage(targetFns)
	sourceByID := indexByID(sourceFns)
	targetByID := indexByID(targetFns)

	langs := make(map[core.Language]bool)
	for l := range bySourceLang {
		langs[l] = true
	}
	for l := range byTargetLang {
		langs[l] = true
	}

	var changes []core.FunctionChange
	for lang := range langs {
		results := match.Match(ctx, bySourceLang[lang], byTargetLang[lang], opts)
		for _, mr := range results {
			var sr, tr *core.FunctionRecord
			if mr.SourceID >= 0 {
				sr = sourceByID[mr.SourceID]
			}
			if mr.TargetID >= 0 {
				tr = targetByID[mr.TargetID]
			}
			changes = append(changes, classify.Classify(mr, sr, tr))
		}
	}
	return changes
}

func groupByLanguage(fns []*core.FunctionRecord) map[core.Language][]*core.FunctionRecord {
	out := make(map[core.Language][]*core.FunctionRecord)
	for _, fn := range fns {
		out[fn.Language] = append(out[fn.Language], fn)
	}
	return out
}

func indexByID(fns []*core.FunctionRecord) map[int]*core.FunctionRecord {
	out := make(map[int]*core.FunctionRecord, len(fns))
	for _, fn := range fns {
		out[fn.ID] = fn
	}
	return out
}

func wrapDeadline(ctx context.Context, err error) error {
	if ctx.Err() == context.DeadlineExceeded {
		return core.NewCoreError(core.ECTimeout, core.ErrTimeout, "operation timed out")
	}
	return err
}

// ListChangedFunctionsRequest is list_changed_functions' input (spec.md §6.2).
type ListChangedFunctionsRequest struct {
	ComparisonID string
	Limit        int
	ChangeTypes  []core.ChangeType
	MinMagnitude float64
}

// ListChangedFunctions returns the sealed, filtered, ordered change list.
func (d *Dispatcher) ListChangedFunctions(req ListChangedFunctionsRequest) ([]core.FunctionChange, error) {
	ctx, ok := d.store.Get(req.ComparisonID)
	if !ok {
		return nil, core.NewCoreError(core.ECUnknownComparison, core.ErrUnknownComparison, fmt.Sprintf("no comparison with id %q", req.ComparisonID))
	}
	limit := req.Limit
	if limit == 0 {
		limit = 100 // spec.md §6.2 default
	}
	return ctx.List(store.ListFilter{ChangeTypes: req.ChangeTypes, MinMagnitude: req.MinMagnitude, Limit: limit}), nil
}

// GetFunctionDiffRequest is get_function_diff's input (spec.md §6.3).
type GetFunctionDiffRequest struct {
	ComparisonID   string
	FunctionName   string
	IncludeContent bool
}

// GetFunctionDiff returns one function's FunctionChange, stripping bodies
// when IncludeContent is false.
func (d *Dispatcher) GetFunctionDiff(req GetFunctionDiffRequest) (core.FunctionChange, error) {
	ctx, ok := d.store.Get(req.ComparisonID)
	if !ok {
		return core.FunctionChange{}, core.NewCoreError(core.ECUnknownComparison, core.ErrUnknownComparison, fmt.Sprintf("no comparison with id %q", req.ComparisonID))
	}
	fc, ok := ctx.Detail(req.FunctionName)
	if !ok {
		return core.FunctionChange{}, core.NewCoreError(core.ECFunctionNotFound, core.ErrFunctionNotFound, fmt.Sprintf("no function named %q in comparison %q", req.FunctionName, req.ComparisonID))
	}
	if !req.IncludeContent {
		fc.SourceBody = ""
		fc.TargetBody = ""
	}
	return fc, nil
}

// GetComparisonSummary returns the cached counts plus roots and timestamp
// (spec.md §6.4).
func (d *Dispatcher) GetComparisonSummary(comparisonID string) (*store.ComparisonContext, error) {
	ctx, ok := d.store.Get(comparisonID)
	if !ok {
		return nil, core.NewCoreError(core.ECUnknownComparison, core.ErrUnknownComparison, fmt.Sprintf("no comparison with id %q", comparisonID))
	}
	return ctx, nil
}
