// Package score implements the Similarity Scorer (spec.md §4.5): a weighted
// composite of body-hash identity, signature equality, name similarity,
// parameter-list alignment and tree edit distance, producing a single
// pair score in [0,1].
package score

import (
	"context"
	"time"

	"github.com/hbollon/go-edlib"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/metrics"
	"github.com/oxhq/semdiff/internal/ted"
)

// Weights holds the composite scorer's feature weights. The zero value is
// invalid; use DefaultWeights.
type Weights struct {
	Signature float64
	Name      float64
	Params    float64
	Body      float64
}

// DefaultWeights matches spec.md §4.5's table.
var DefaultWeights = Weights{Signature: 0.35, Name: 0.15, Params: 0.15, Body: 0.35}

// DefaultThreshold is the minimum composite score the Matcher accepts as a
// candidate pair (spec.md §4.5).
const DefaultThreshold = 0.7

// Scorer computes pairwise similarity between FunctionRecords of the same
// language.
type Scorer struct {
	weights    Weights
	ratioBound float64
	metrics    *metrics.Collector
}

// New builds a Scorer with the given weights and TED size-ratio bound. Pass
// ted.SizeRatioBound and DefaultWeights for spec-default behavior.
func New(weights Weights, ratioBound float64) *Scorer {
	return &Scorer{weights: weights, ratioBound: ratioBound}
}

// SetMetrics attaches a Collector so Score observes each TED call's wall
// time (spec.md SPEC_FULL.md §3). Passing nil disables instrumentation.
func (sc *Scorer) SetMetrics(mc *metrics.Collector) { sc.metrics = mc }

// Score computes the composite similarity of s and t, short-circuiting to
// 1.0 when their body hashes are equal (spec.md §4.5: "Body-hash equal —
// short-circuit — 1.0").
func (sc *Scorer) Score(ctx context.Context, s, t *core.FunctionRecord) float64 {
	if s.BodyHash == t.BodyHash {
		return 1.0
	}

	total := 0.0
	if s.Signature.Equal(t.Signature) {
		total += sc.weights.Signature
	}
	total += sc.weights.Name * nameSimilarity(s.Signature.Name, t.Signature.Name)
	total += sc.weights.Params * paramAlignment(s.Signature.Params, t.Signature.Params)
	total += sc.weights.Body * sc.tedSimilarity(ctx, s.AST, t.AST)

	if total < 0 {
		total = 0
	}
	if total > 1 {
		total = 1
	}
	return total
}

// tedSimilarity wraps ted.Similarity, timing the call into
// metrics.TEDDuration when instrumentation is attached.
func (sc *Scorer) tedSimilarity(ctx context.Context, a, b *core.AstSubtree) float64 {
	if sc.metrics == nil {
		return ted.Similarity(ctx, a, b, sc.ratioBound)
	}
	start := time.Now()
	sim := ted.Similarity(ctx, a, b, sc.ratioBound)
	sc.metrics.TEDDuration.Observe(time.Since(start).Seconds())
	return sim
}

// nameSimilarity is 1 − levenshtein(a,b)/max(len(a),len(b)), the name
// feature of spec.md §4.5.
func nameSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}
	v, err := edlib.StringsSimilarity(a, b, edlib.Levenshtein)
	if err != nil {
		return 0.0
	}
	// go-edlib's StringsSimilarity already returns 1 - lev/max(len(a),len(b)),
	// the exact name-similarity feature spec.md §4.5 asks for.
	sim := float64(v)
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim
}

// paramAlignment is a length-normalized LCS of the two normalized parameter
// type lists (spec.md §4.5's "Parameter list alignment" feature).
func paramAlignment(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	maxLen := len(a)
	if len(b) > maxLen {
		maxLen = len(b)
	}
	if maxLen == 0 {
		return 1.0
	}
	return float64(lcsLength(a, b)) / float64(maxLen)
}

func lcsLength(a, b []string) int {
	n, m := len(a), len(b)
	if n == 0 || m == 0 {
		return 0
	}
	prev := make([]int, m+1)
	curr := make([]int, m+1)
	for i := 1; i <= n; i++ {
		for j := 1; j <= m; j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
			} else if prev[j] >= curr[j-1] {
				curr[j] = prev[j]
			} else {
				curr[j] = curr[j-1]
			}
		}
		prev, curr = curr, prev
	}
	return prev[m]
}
