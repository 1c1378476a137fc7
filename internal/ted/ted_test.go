package ted

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semdiff/internal/core"
)

func leaf(kind, text string) *core.AstSubtree {
	return &core.AstSubtree{Kind: kind, Text: text, Size: 1}
}

func node(kind string, children ...*core.AstSubtree) *core.AstSubtree {
	size := 1
	for _, c := range children {
		size += c.Size
	}
	return &core.AstSubtree{Kind: kind, Children: children, Size: size}
}

func TestDistance_IdenticalTreesIsZero(t *testing.T) {
	a := node("block", leaf("ident", "x"), leaf("number", "1"))
	b := node("block", leaf("ident", "x"), leaf("number", "1"))
	require.Equal(t, 0, Distance(context.Background(), a, b))
}

func TestDistance_EmptyOtherReturnsSize(t *testing.T) {
	a := node("block", leaf("ident", "x"))
	require.Equal(t, a.Size, Distance(context.Background(), a, nil))
	require.Equal(t, a.Size, Distance(context.Background(), nil, a))
}

func TestDistance_Symmetric(t *testing.T) {
	a := node("block", leaf("ident", "x"), leaf("number", "1"))
	b := node("block", leaf("ident", "y"), leaf("number", "2"), leaf("ident", "z"))
	assert.Equal(t, Distance(context.Background(), a, b), Distance(context.Background(), b, a))
}

func TestSimilarity_IdenticalIsOne(t *testing.T) {
	a := node("block", leaf("ident", "x"))
	b := node("block", leaf("ident", "x"))
	assert.Equal(t, 1.0, Similarity(context.Background(), a, b, 0))
}

func TestSimilarity_SizeRatioShortCircuit(t *testing.T) {
	small := leaf("ident", "x")
	large := node("block", leaf("a", "1"), leaf("b", "2"), leaf("c", "3"), leaf("d", "4"), leaf("e", "5"))
	assert.Equal(t, 0.0, Similarity(context.Background(), small, large, SizeRatioBound))
}

func TestSimilarity_WithinBoundsAndSymmetric(t *testing.T) {
	a := node("block", leaf("ident", "x"), leaf("number", "1"))
	b := node("block", leaf("ident", "y"), leaf("number", "1"))
	sim := Similarity(context.Background(), a, b, 0)
	assert.GreaterOrEqual(t, sim, 0.0)
	assert.LessOrEqual(t, sim, 1.0)
	assert.InDelta(t, sim, Similarity(context.Background(), b, a, 0), 1e-9)
}
