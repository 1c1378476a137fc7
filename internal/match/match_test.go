package match

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semdiff/internal/core"
	"github.com/oxhq/semdiff/internal/metrics"
	"github.com/oxhq/semdiff/internal/score"
)

func fn(id int, file, name, body string) *core.FunctionRecord {
	return &core.FunctionRecord{
		ID:        id,
		Signature: core.Signature{Name: name},
		AST:       &core.AstSubtree{Kind: "block", Text: body, Size: 1},
		Body:      body,
		BodyHash:  core.ComputeBodyHash(body),
		Span:      core.SourceSpan{File: file},
	}
}

func testOptions() Options {
	sc := score.New(score.DefaultWeights, 0)
	return DefaultOptions(sc)
}

func TestMatch_OneToOneInvariant(t *testing.T) {
	s := []*core.FunctionRecord{
		fn(1, "a.go", "foo", "return 1"),
		fn(2, "a.go", "bar", "return 2"),
		fn(3, "a.go", "baz", "return 3"),
	}
	tg := []*core.FunctionRecord{
		fn(10, "a.go", "foo", "return 1"),
		fn(11, "a.go", "bar", "return 2"),
	}
	results := Match(context.Background(), s, tg, testOptions())

	seenS := make(map[int]int)
	seenT := make(map[int]int)
	for _, r := range results {
		if r.SourceID >= 0 {
			seenS[r.SourceID]++
		}
		if r.TargetID >= 0 {
			seenT[r.TargetID]++
		}
	}
	for id, count := range seenS {
		assert.Equalf(t, 1, count, "source id %d matched %d times", id, count)
	}
	for id, count := range seenT {
		assert.Equalf(t, 1, count, "target id %d matched %d times", id, count)
	}
}

func TestMatch_ExactBodyHashPinned(t *testing.T) {
	s := []*core.FunctionRecord{fn(1, "a.go", "foo", "return 1")}
	tg := []*core.FunctionRecord{fn(10, "a.go", "foo", "return 1")}
	results := Match(context.Background(), s, tg, testOptions())
	require.Len(t, results, 1)
	assert.Equal(t, 1, results[0].SourceID)
	assert.Equal(t, 10, results[0].TargetID)
	assert.Equal(t, 1.0, results[0].Similarity)
}

func TestMatch_DeterministicTieBreak(t *testing.T) {
	// Two identical duplicate functions on each side: must pair ascending
	// (source id, target id), never cross-paired (spec.md §8 scenario 6).
	s := []*core.FunctionRecord{
		fn(1, "a.go", "dup", "return 0"),
		fn(2, "a.go", "dup", "return 0"),
	}
	tg := []*core.FunctionRecord{
		fn(10, "a.go", "dup", "return 0"),
		fn(11, "a.go", "dup", "return 0"),
	}
	results := Match(context.Background(), s, tg, testOptions())
	require.Len(t, results, 2)

	byTarget := make(map[int]int)
	for _, r := range results {
		byTarget[r.TargetID] = r.SourceID
	}
	assert.Equal(t, 1, byTarget[10])
	assert.Equal(t, 2, byTarget[11])
}

func TestMatch_UnmatchedSourceIsDeleted(t *testing.T) {
	s := []*core.FunctionRecord{fn(1, "a.go", "onlyhere", "return 42")}
	results := Match(context.Background(), s, nil, testOptions())
	require.Len(t, results, 1)
	assert.Equal(t, core.ChangeDeleted, results[0].ChangeType)
	assert.Equal(t, -1, results[0].TargetID)
}

func TestMatch_UnmatchedTargetIsAdded(t *testing.T) {
	tg := []*core.FunctionRecord{fn(10, "a.go", "onlythere", "return 42")}
	results := Match(context.Background(), nil, tg, testOptions())
	require.Len(t, results, 1)
	assert.Equal(t, core.ChangeAdded, results[0].ChangeType)
	assert.Equal(t, -1, results[0].SourceID)
}

func TestPairScore_CrossFilePenaltyApplied(t *testing.T) {
	opts := testOptions()
	sr := fn(1, "a.go", "foo", "return 1+2")
	trSame := fn(2, "a.go", "foo", "return 1+2")
	trCross := fn(3, "b.go", "foo", "return 1+2")

	same := pairScore(context.Background(), sr, trSame, opts)
	cross := pairScore(context.Background(), sr, trCross, opts)
	assert.Less(t, cross, same)
}

func TestPairScore_CrossFileDisabledIsIllegal(t *testing.T) {
	opts := testOptions()
	opts.EnableCrossFileMatching = false
	sr := fn(1, "a.go", "foo", "return 1")
	tr := fn(2, "b.go", "foo", "return 1")
	assert.Equal(t, -1.0, pairScore(context.Background(), sr, tr, opts))
}

func TestMatch_GreedyFallbackActivatesAboveCutoff(t *testing.T) {
	opts := testOptions()
	opts.GreedyFallbackCutoff = 2
	s := []*core.FunctionRecord{
		fn(1, "a.go", "f1", "return 101"),
		fn(2, "a.go", "f2", "return 102"),
		fn(3, "a.go", "f3", "return 103"),
	}
	tg := []*core.FunctionRecord{
		fn(10, "a.go", "f1", "return 101+1"),
		fn(11, "a.go", "f2", "return 102+1"),
		fn(12, "a.go", "f3", "return 103+1"),
	}
	results := Match(context.Background(), s, tg, opts)
	assert.Len(t, results, 3)
}

func TestMatch_GreedyFallbackIncrementsMetric(t *testing.T) {
	mc := metrics.New()
	opts := testOptions()
	opts.GreedyFallbackCutoff = 1
	opts.Metrics = mc
	s := []*core.FunctionRecord{
		fn(1, "a.go", "f1", "return 201"),
		fn(2, "a.go", "f2", "return 202"),
	}
	tg := []*core.FunctionRecord{
		fn(10, "a.go", "f1", "return 201+1"),
		fn(11, "a.go", "f2", "return 202+1"),
	}
	Match(context.Background(), s, tg, opts)

	families, err := mc.Registry.Gather()
	require.NoError(t, err)
	var count float64
	for _, f := range families {
		if f.GetName() == "semdiff_greedy_fallback_activations_total" {
			count = f.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, 1.0, count)
}
