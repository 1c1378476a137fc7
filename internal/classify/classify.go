// Package classify implements the Change Magnitude & Classifier (spec.md
// §4.7): it assigns a change type and magnitude to every matched or
// unmatched FunctionRecord, and renders the human summary string.
package classify

import (
	"fmt"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/semdiff/internal/core"
)

// RenamedSimilarityFloor is the minimum similarity a same-file, name-differing
// match must clear to be classified Renamed rather than Modified (spec.md §4.7).
const RenamedSimilarityFloor = 0.85

// MovedMagnitudeFloor is the minimum magnitude ever reported for a Moved
// pair, even when the bodies are byte-identical (spec.md §4.7).
const MovedMagnitudeFloor = 0.2

// RenamedMagnitudeFloor is the minimum magnitude ever reported for a
// Renamed pair (spec.md §4.7).
const RenamedMagnitudeFloor = 0.3

// Classify turns one MatchResult plus its FunctionRecords into a
// FunctionChange. sr is nil for Added, tr is nil for Deleted.
func Classify(mr core.MatchResult, sr, tr *core.FunctionRecord) core.FunctionChange {
	switch {
	case sr == nil:
		return classifyAdded(tr)
	case tr == nil:
		return classifyDeleted(sr)
	default:
		return classifyMatched(mr, sr, tr)
	}
}

func classifyAdded(tr *core.FunctionRecord) core.FunctionChange {
	fc := core.FunctionChange{
		Name:       tr.Signature.Name,
		TargetSpan: spanPtr(tr.Span),
		ChangeType: core.ChangeAdded,
		Magnitude:  1.0,
		Similarity: 0.0,
		TargetBody: tr.Body,
	}
	fc.Summary = fmt.Sprintf("%s added at %s", fc.Name, tr.Span.String())
	return fc.WithIDs(-1, tr.ID)
}

func classifyDeleted(sr *core.FunctionRecord) core.FunctionChange {
	fc := core.FunctionChange{
		Name:       sr.Signature.Name,
		SourceSpan: spanPtr(sr.Span),
		ChangeType: core.ChangeDeleted,
		Magnitude:  1.0,
		Similarity: 0.0,
		SourceBody: sr.Body,
	}
	fc.Summary = fmt.Sprintf("%s deleted from %s", fc.Name, sr.Span.String())
	return fc.WithIDs(sr.ID, -1)
}

func classifyMatched(mr core.MatchResult, sr, tr *core.FunctionRecord) core.FunctionChange {
	sim := mr.Similarity
	sameFile := sr.Span.File == tr.Span.File
	sameName := sr.Signature.Name == tr.Signature.Name

	var changeType core.ChangeType
	var magnitude float64

	switch {
	case !sameFile:
		// Moved outranks Renamed/Modified even when the body also changed
		// (spec.md §4.7 priority rule).
		changeType = core.ChangeMoved
		magnitude = max0(1-sim, MovedMagnitudeFloor)
	case !sameName && sim >= RenamedSimilarityFloor:
		changeType = core.ChangeRenamed
		magnitude = max0(1-sim, RenamedMagnitudeFloor)
	case sameName && sim >= 1.0:
		changeType = core.ChangeUnchanged
		magnitude = 0.0
	default:
		changeType = core.ChangeModified
		magnitude = clamp01(1 - sim)
	}

	fc := core.FunctionChange{
		Name:       tr.Signature.Name,
		SourceSpan: spanPtr(sr.Span),
		TargetSpan: spanPtr(tr.Span),
		ChangeType: changeType,
		Magnitude:  magnitude,
		Similarity: sim,
		SourceBody: sr.Body,
		TargetBody: tr.Body,
	}
	fc.Summary = summaryFor(changeType, sr, tr)
	return fc.WithIDs(sr.ID, tr.ID)
}

// summaryFor templates the human summary string from the type and spans
// (spec.md §4.7). For Modified pairs it appends a compact unified-diff
// line count, grounded on go-difflib, the same library the teacher pack
// uses for human-readable textual diffs.
func summaryFor(ct core.ChangeType, sr, tr *core.FunctionRecord) string {
	switch ct {
	case core.ChangeUnchanged:
		return fmt.Sprintf("%s unchanged at %s", tr.Signature.Name, tr.Span.String())
	case core.ChangeMoved:
		return fmt.Sprintf("%s moved from %s to %s", tr.Signature.Name, sr.Span.String(), tr.Span.String())
	case core.ChangeRenamed:
		return fmt.Sprintf("%s renamed to %s at %s", sr.Signature.Name, tr.Signature.Name, tr.Span.String())
	default: // Modified
		diffLines := countDiffLines(sr.Body, tr.Body)
		return fmt.Sprintf("%s modified at %s (%d changed line(s))", tr.Signature.Name, tr.Span.String(), diffLines)
	}
}

// countDiffLines counts the added/removed lines in a unified diff between
// two function bodies, used only to enrich the summary string — it never
// feeds back into similarity or magnitude. Grounded on termfx-morfx's
// UnifiedDiff helper (internal/util/util.go), which builds the same
// difflib.UnifiedDiff{A, B: SplitLines(...)} shape.
func countDiffLines(a, b string) int {
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(a),
		B:        difflib.SplitLines(b),
		FromFile: "source",
		ToFile:   "target",
		Context:  0,
	})
	if err != nil {
		return 0
	}
	changed := 0
	for _, line := range difflib.SplitLines(text) {
		if (strings.HasPrefix(line, "+") && !strings.HasPrefix(line, "+++")) ||
			(strings.HasPrefix(line, "-") && !strings.HasPrefix(line, "---")) {
			changed++
		}
	}
	return changed
}

func spanPtr(s core.SourceSpan) *core.SourceSpan { return &s }

func max0(v, floor float64) float64 {
	v = clamp01(v)
	if v < floor {
		return floor
	}
	return v
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
