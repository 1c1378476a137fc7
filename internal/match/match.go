// Package match implements the Function Matcher (spec.md §4.6): a two-stage
// algorithm that pins exact matches first, then solves a global one-to-one
// assignment over everything left, maximizing total similarity.
package match

import (
	"context"
	"sort"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/metrics"
	"github.com/oxhq/semdiff/internal/score"
)

// GreedyFallbackCutoff is the max(|S|,|T|) size above which the matcher
// switches from the Hungarian assignment to the greedy edge-sort fallback
// (spec.md §4.6: "for n > 500").
const GreedyFallbackCutoff = 500

// DefaultCrossFilePenalty is the multiplicative penalty applied to a pair's
// score when source.file != target.file (spec.md §4.6).
const DefaultCrossFilePenalty = 0.5

// Options configures one matching run.
type Options struct {
	Scorer                  *score.Scorer
	Threshold               float64 // minimum composite score to be a legal pair
	EnableCrossFileMatching bool
	CrossFilePenalty        float64
	GreedyFallbackCutoff    int

	// Metrics is optional; when set, Match increments GreedyFallbackCount
	// every time n exceeds GreedyFallbackCutoff (spec.md SPEC_FULL.md §3).
	Metrics *metrics.Collector
}

// DefaultOptions returns spec-default matcher behavior for the given scorer.
func DefaultOptions(sc *score.Scorer) Options {
	return Options{
		Scorer:                  sc,
		Threshold:               score.DefaultThreshold,
		EnableCrossFileMatching: true,
		CrossFilePenalty:        DefaultCrossFilePenalty,
		GreedyFallbackCutoff:    GreedyFallbackCutoff,
	}
}

// Match pairs source records S against target records T, both assumed to
// share one language (cross-language matching is a spec.md Non-goal). It
// returns one MatchResult per source record (Matched or Deleted) plus one
// per unmatched target record (Added).
func Match(ctx context.Context, s, t []*core.FunctionRecord, opts Options) []core.MatchResult {
	sIdx := make(map[int]*core.FunctionRecord, len(s))
	tIdx := make(map[int]*core.FunctionRecord, len(t))
	for _, r := range s {
		sIdx[r.ID] = r
	}
	for _, r := range t {
		tIdx[r.ID] = r
	}

	pinned, remainingS, remainingT := pinExact(s, t)

	var assigned []core.MatchResult
	if len(remainingS) > 0 && len(remainingT) > 0 {
		if max(len(remainingS), len(remainingT)) > opts.GreedyFallbackCutoff {
			if opts.Metrics != nil {
				opts.Metrics.GreedyFallbackCount.Inc()
			}
			assigned = greedyAssign(ctx, remainingS, remainingT, opts)
		} else {
			assigned = hungarianAssign(ctx, remainingS, remainingT, opts)
		}
	}

	matchedS := make(map[int]bool, len(pinned)+len(assigned))
	matchedT := make(map[int]bool, len(pinned)+len(assigned))
	var results []core.MatchResult
	for _, mr := range pinned {
		results = append(results, mr)
		matchedS[mr.SourceID] = true
		matchedT[mr.TargetID] = true
	}
	for _, mr := range assigned {
		results = append(results, mr)
		matchedS[mr.SourceID] = true
		matchedT[mr.TargetID] = true
	}

	for _, r := range s {
		if !matchedS[r.ID] {
			results = append(results, core.MatchResult{SourceID: r.ID, TargetID: -1, ChangeType: core.ChangeDeleted})
		}
	}
	for _, r := range t {
		if !matchedT[r.ID] {
			results = append(results, core.MatchResult{SourceID: -1, TargetID: r.ID, ChangeType: core.ChangeAdded})
		}
	}

	sortDeterministic(results)
	return results
}

// pinExact implements Stage 1 (spec.md §4.6): exact body-hash matches are
// pinned immediately with similarity 1.0 and removed from both sets. Exact
// signature matches within the same file are not removed here — they still
// compete in Stage 2, but the matcher prefers them on ties (handled by the
// cost-matrix construction giving them a strictly better score).
func pinExact(s, t []*core.FunctionRecord) (pinned []core.MatchResult, remS, remT []*core.FunctionRecord) {
	byHash := make(map[uint64][]*core.FunctionRecord, len(t))
	for _, r := range t {
		byHash[r.BodyHash] = append(byHash[r.BodyHash], r)
	}

	usedT := make(map[int]bool)
	sPinned := make(map[int]bool)

	// Sort source by id for determinism when several source records share
	// one body hash and compete for the same pool of target candidates.
	sorted := append([]*core.FunctionRecord(nil), s...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	for _, sr := range sorted {
		candidates := byHash[sr.BodyHash]
		var best *core.FunctionRecord
		for _, cand := range candidates {
			if usedT[cand.ID] {
				continue
			}
			if best == nil || cand.ID < best.ID {
				best = cand
			}
		}
		if best != nil {
			// ChangeType is left to internal/classify: an exact body-hash
			// match is Unchanged only when file and name also match —
			// across files it is a Moved pair instead (spec.md §4.7).
			pinned = append(pinned, core.MatchResult{SourceID: sr.ID, TargetID: best.ID, Similarity: 1.0})
			usedT[best.ID] = true
			sPinned[sr.ID] = true
		}
	}

	for _, r := range s {
		if !sPinned[r.ID] {
			remS = append(remS, r)
		}
	}
	for _, r := range t {
		if !usedT[r.ID] {
			remT = append(remT, r)
		}
	}
	return pinned, remS, remT
}

// pairScore applies the cross-file penalty on top of the raw composite
// score, per spec.md §4.6.
func pairScore(ctx context.Context, sr, tr *core.FunctionRecord, opts Options) float64 {
	sc := opts.Scorer.Score(ctx, sr, tr)
	if opts.EnableCrossFileMatching && sr.Span.File != tr.Span.File {
		sc *= (1 - opts.CrossFilePenalty)
	} else if !opts.EnableCrossFileMatching && sr.Span.File != tr.Span.File {
		return -1 // illegal pair
	}
	return sc
}

func hungarianAssign(ctx context.Context, s, t []*core.FunctionRecord, opts Options) []core.MatchResult {
	sorted := func(recs []*core.FunctionRecord) []*core.FunctionRecord {
		out := append([]*core.FunctionRecord(nil), recs...)
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return out
	}
	s = sorted(s)
	t = sorted(t)

	transposed := len(s) > len(t)
	rows, cols := s, t
	if transposed {
		rows, cols = t, s
	}

	cost := make([][]float64, len(rows))
	simCache := make([][]float64, len(rows))
	for i, ri := range rows {
		cost[i] = make([]float64, len(cols))
		simCache[i] = make([]float64, len(cols))
		for j, cj := range cols {
			var sr, tr *core.FunctionRecord
			if transposed {
				sr, tr = cj, ri
			} else {
				sr, tr = ri, cj
			}
			sim := pairScore(ctx, sr, tr, opts)
			simCache[i][j] = sim
			if sim < opts.Threshold {
				cost[i][j] = hungarianInf
			} else {
				cost[i][j] = 1 - sim
			}
		}
	}

	assignment := hungarian(cost)

	var results []core.MatchResult
	for i, j := range assignment {
		if j < 0 {
			continue
		}
		var sr, tr *core.FunctionRecord
		var sim float64
		if transposed {
			sr, tr, sim = cols[j], rows[i], simCache[i][j]
		} else {
			sr, tr, sim = rows[i], cols[j], simCache[i][j]
		}
		results = append(results, core.MatchResult{SourceID: sr.ID, TargetID: tr.ID, Similarity: sim})
	}
	return results
}

// greedyAssign is the n > 500 fallback: sort every legal edge by score
// descending and take the best edge whose endpoints are both still free
// (spec.md §4.6).
func greedyAssign(ctx context.Context, s, t []*core.FunctionRecord, opts Options) []core.MatchResult {
	type edge struct {
		sr, tr *core.FunctionRecord
		sim    float64
	}
	var edges []edge
	for _, sr := range s {
		for _, tr := range t {
			sim := pairScore(ctx, sr, tr, opts)
			if sim >= opts.Threshold {
				edges = append(edges, edge{sr, tr, sim})
			}
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].sim != edges[j].sim {
			return edges[i].sim > edges[j].sim
		}
		if edges[i].sr.ID != edges[j].sr.ID {
			return edges[i].sr.ID < edges[j].sr.ID
		}
		return edges[i].tr.ID < edges[j].tr.ID
	})

	usedS := make(map[int]bool)
	usedT := make(map[int]bool)
	var results []core.MatchResult
	for _, e := range edges {
		if usedS[e.sr.ID] || usedT[e.tr.ID] {
			continue
		}
		usedS[e.sr.ID] = true
		usedT[e.tr.ID] = true
		results = append(results, core.MatchResult{SourceID: e.sr.ID, TargetID: e.tr.ID, Similarity: e.sim})
	}
	return results
}

// sortDeterministic orders results by (source id, target id), treating -1
// (Added/Deleted's missing side) as sorting last, so repeated runs over the
// same input always produce the same sequence (spec.md §4.6 determinism,
// §8 sort stability).
func sortDeterministic(results []core.MatchResult) {
	key := func(id int) int {
		if id < 0 {
			return int(^uint(0) >> 1) // max int: unmatched sorts last
		}
		return id
	}
	sort.SliceStable(results, func(i, j int) bool {
		si, sj := key(results[i].SourceID), key(results[j].SourceID)
		if si != sj {
			return si < sj
		}
		return key(results[i].TargetID) < key(results[j].TargetID)
	})
}
