// Package store implements the Comparison Store (spec.md §4.8): an
// in-process, immutable-after-seal map of ComparisonContexts keyed by
// UUID, with sorted listing, O(1) per-function detail lookup, and explicit
// eviction.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oxhq/semdiff/internal/core"
)

// ComparisonContext is a sealed, immutable comparison result (spec.md §3).
type ComparisonContext struct {
	ID         string
	SourceRoot string
	TargetRoot string
	CreatedAt  time.Time

	// Changes is pre-sorted per spec.md §4.9 at seal time; list() only
	// needs to filter and truncate it, never re-sort.
	Changes []core.FunctionChange

	Stats core.Stats

	Warnings []core.ParseWarning

	// byName maps a function name to the indices in Changes sharing that
	// name, enabling detail()'s O(1) lookup (spec.md §4.8).
	byName map[string][]int
}

// Store is the process-wide comparison map.
type Store struct {
	mu       sync.RWMutex
	contexts map[string]*ComparisonContext
}

// New creates an empty Store.
func New() *Store {
	return &Store{contexts: make(map[string]*ComparisonContext)}
}

// Seal builds, sorts, indexes and registers a new ComparisonContext,
// returning the sealed context (its ID is a fresh UUID). Changes must already carry correct ChangeType and
// Magnitude; Seal only orders and indexes them.
func (s *Store) Seal(sourceRoot, targetRoot string, changes []core.FunctionChange, warnings []core.ParseWarning, now time.Time) *ComparisonContext {
	sortListOrder(changes)

	ctx := &ComparisonContext{
		ID:         uuid.NewString(),
		SourceRoot: sourceRoot,
		TargetRoot: targetRoot,
		CreatedAt:  now,
		Changes:    changes,
		Stats:      computeStats(changes),
		Warnings:   warnings,
		byName:     make(map[string][]int, len(changes)),
	}
	for i, fc := range changes {
		ctx.byName[fc.Name] = append(ctx.byName[fc.Name], i)
	}

	s.mu.Lock()
	s.contexts[ctx.ID] = ctx
	s.mu.Unlock()
	return ctx
}

// Get returns the sealed context for id, or (nil, false) if unknown or
// evicted.
func (s *Store) Get(id string) (*ComparisonContext, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ctx, ok := s.contexts[id]
	return ctx, ok
}

// Evict removes a context; subsequent Get calls for id report not-found.
func (s *Store) Evict(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.contexts[id]; !ok {
		return false
	}
	delete(s.contexts, id)
	return true
}

// ListFilter narrows list() results (spec.md §6 list_changed_functions).
type ListFilter struct {
	ChangeTypes  []core.ChangeType // empty means no filter
	MinMagnitude float64
	Limit        int // 0 means spec default of 100, applied by the caller
}

// List returns the context's changes in their sealed order, filtered and
// truncated (spec.md §4.9: "Filters apply after sorting. Limit truncates
// at the end.").
func (ctx *ComparisonContext) List(f ListFilter) []core.FunctionChange {
	allow := make(map[core.ChangeType]bool, len(f.ChangeTypes))
	for _, ct := range f.ChangeTypes {
		allow[ct] = true
	}

	out := make([]core.FunctionChange, 0, len(ctx.Changes))
	for _, fc := range ctx.Changes {
		if len(allow) > 0 && !allow[fc.ChangeType] {
			continue
		}
		if fc.Magnitude < f.MinMagnitude {
			continue
		}
		out = append(out, fc)
		if f.Limit > 0 && len(out) >= f.Limit {
			break
		}
	}
	return out
}

// Detail looks up a function by name in O(1) via the name index. When
// several functions share a name, the entry with the largest magnitude
// wins; ties break on (change type priority, source id) (spec.md §4.8).
func (ctx *ComparisonContext) Detail(name string) (core.FunctionChange, bool) {
	indices, ok := ctx.byName[name]
	if !ok || len(indices) == 0 {
		return core.FunctionChange{}, false
	}
	best := indices[0]
	for _, idx := range indices[1:] {
		if better(ctx.Changes[idx], ctx.Changes[best]) {
			best = idx
		}
	}
	return ctx.Changes[best], true
}

func better(a, b core.FunctionChange) bool {
	if a.Magnitude != b.Magnitude {
		return a.Magnitude > b.Magnitude
	}
	if changeTypePriority(a.ChangeType) != changeTypePriority(b.ChangeType) {
		return changeTypePriority(a.ChangeType) < changeTypePriority(b.ChangeType)
	}
	return a.SourceID() < b.SourceID()
}

// changeTypePriority mirrors spec.md §4.7's "Moved outranks Renamed
// outranks Modified outranks Unchanged" ordering; Added/Deleted are
// terminal and sort alongside Modified in priority weight since they never
// compete against Moved/Renamed for the same name in practice.
func changeTypePriority(ct core.ChangeType) int {
	switch ct {
	case core.ChangeMoved:
		return 0
	case core.ChangeRenamed:
		return 1
	case core.ChangeModified, core.ChangeAdded, core.ChangeDeleted:
		return 2
	case core.ChangeUnchanged:
		return 3
	default:
		return 4
	}
}

// computeStats tallies per-change-type counts once at seal time, served
// directly by summary()/get_comparison_summary without recomputation.
func computeStats(changes []core.FunctionChange) core.Stats {
	counts := make(map[core.ChangeType]int)
	for _, fc := range changes {
		counts[fc.ChangeType]++
	}
	return core.Stats{Counts: counts, Total: len(changes)}
}

// sortListOrder implements spec.md §4.9's two-level sort, computed once at
// seal time:
//  1. Modified, by magnitude descending.
//  2. Added, by name ascending.
//  3. Deleted, by name ascending.
//  4. Renamed then Moved, by magnitude descending.
//  5. Unchanged, by name ascending.
func sortListOrder(changes []core.FunctionChange) {
	group := func(ct core.ChangeType) int {
		switch ct {
		case core.ChangeModified:
			return 0
		case core.ChangeAdded:
			return 1
		case core.ChangeDeleted:
			return 2
		case core.ChangeRenamed:
			return 3
		case core.ChangeMoved:
			return 4
		case core.ChangeUnchanged:
			return 5
		default:
			return 6
		}
	}

	sort.SliceStable(changes, func(i, j int) bool {
		gi, gj := group(changes[i].ChangeType), group(changes[j].ChangeType)
		if gi != gj {
			return gi < gj
		}
		switch gi {
		case 0, 3, 4: // Modified, Renamed, Moved: magnitude descending
			if changes[i].Magnitude != changes[j].Magnitude {
				return changes[i].Magnitude > changes[j].Magnitude
			}
			return changes[i].SourceID() < changes[j].SourceID()
		default: // Added, Deleted, Unchanged: name ascending
			if changes[i].Name != changes[j].Name {
				return changes[i].Name < changes[j].Name
			}
			return changes[i].SourceID() < changes[j].SourceID()
		}
	})
}
