// Package ted implements the bounded Zhang–Shasha Tree Edit Distance
// (spec.md §4.4): the minimum-cost sequence of node insert/delete/relabel
// edits that turns one AstSubtree into another, reported as a normalized
// similarity in [0,1].
//
// This is pure CPU work (spec.md §5: "TED is pure CPU and must not
// suspend"); the only concession to cancellation is a poll of ctx at each
// outer keyroot iteration, per spec.md §9.
package ted

import (
	"context"

	"github.com/oxhq/semdiff/internal/core"
)

// SizeRatioBound is the default minimum ratio (smaller/larger subtree size)
// below which the scorer rejects a pair without running TED (spec.md §4.4).
const SizeRatioBound = 0.25

// substitutionCost is 0 when two node kinds match, 1 otherwise (spec.md §4.4).
func substitutionCost(a, b *core.AstSubtree) int {
	if a.Kind == b.Kind {
		return 0
	}
	return 1
}

// Similarity computes the normalized Zhang–Shasha similarity of two
// AstSubtrees. It returns 0 without running TED when the size-ratio bound
// is violated (tractability short-circuit). ratioBound <= 0 disables the
// short-circuit.
func Similarity(ctx context.Context, a, b *core.AstSubtree, ratioBound float64) float64 {
	if a == nil && b == nil {
		return 1.0
	}
	if a == nil || b == nil {
		return 0.0
	}

	if ratioBound > 0 {
		small, large := a.Size, b.Size
		if small > large {
			small, large = large, small
		}
		if large > 0 && float64(small)/float64(large) < ratioBound {
			return 0.0
		}
	}

	dist := Distance(ctx, a, b)
	maxSize := a.Size
	if b.Size > maxSize {
		maxSize = b.Size
	}
	if maxSize == 0 {
		return 1.0
	}
	sim := 1.0 - float64(dist)/float64(maxSize)
	if sim < 0 {
		sim = 0
	}
	if sim > 1 {
		sim = 1
	}
	return sim
}

// Distance computes the raw Zhang–Shasha edit distance between two
// AstSubtrees, unit cost for insert/delete and substitutionCost for
// relabeling. When one subtree is empty it returns max(|a|,|b|) per
// spec.md §4.4 point 3.
func Distance(ctx context.Context, a, b *core.AstSubtree) int {
	if a == nil || len(postOrder(a)) == 0 {
		return size(b)
	}
	if b == nil || len(postOrder(b)) == 0 {
		return size(a)
	}

	ta := newIndexedTree(a)
	tb := newIndexedTree(b)

	// treeDist[i][j] = distance between the forest rooted at ta.nodes[:i+1]
	// restricted to ta.left(i)..i and similarly for tb, memoized across
	// keyroot iterations as in the classic algorithm.
	n, m := len(ta.nodes), len(tb.nodes)
	treeDist := make([][]int, n+1)
	for i := range treeDist {
		treeDist[i] = make([]int, m+1)
	}

	for _, i := range ta.keyroots {
		select {
		case <-ctx.Done():
			return size(a) + size(b) // cancelled: report maximal distance
		default:
		}
		for _, j := range tb.keyroots {
			computeForestDist(ta, tb, i, j, treeDist)
		}
	}

	return treeDist[n][m]
}

func size(t *core.AstSubtree) int {
	if t == nil {
		return 0
	}
	return t.Size
}

// indexedTree holds a subtree flattened into post-order with each node's
// "leftmost leaf descendant" index (l(i)) and the keyroot set, exactly the
// auxiliary structures the Zhang–Shasha algorithm operates over.
type indexedTree struct {
	nodes    []*core.AstSubtree
	left     []int // l(i): index of leftmost leaf descendant of node i
	keyroots []int
}

func newIndexedTree(root *core.AstSubtree) *indexedTree {
	order := postOrder(root)
	t := &indexedTree{nodes: order, left: make([]int, len(order))}

	// Compute l(i) for every node via a post-order child-index map.
	index := make(map[*core.AstSubtree]int, len(order))
	for i, n := range order {
		index[n] = i
	}
	var leftmost func(n *core.AstSubtree) int
	leftmost = func(n *core.AstSubtree) int {
		if len(n.Children) == 0 {
			return index[n]
		}
		return leftmost(n.Children[0])
	}
	for i, n := range order {
		t.left[i] = leftmost(n)
	}

	// Keyroots: nodes with a left sibling, plus the root, per Zhang–Shasha
	// (equivalently, the highest-numbered node for each leftmost leaf).
	seenLeft := make(map[int]bool)
	for i := len(order) - 1; i >= 0; i-- {
		l := t.left[i]
		if !seenLeft[l] {
			t.keyroots = append(t.keyroots, i)
			seenLeft[l] = true
		}
	}
	// keyroots collected high-to-low; ascending order matches the
	// algorithm's required processing order (children before parents).
	for i, j := 0, len(t.keyroots)-1; i < j; i, j = i+1, j-1 {
		t.keyroots[i], t.keyroots[j] = t.keyroots[j], t.keyroots[i]
	}
	return t
}

// postOrder flattens a subtree into post-order (children before parent).
func postOrder(root *core.AstSubtree) []*core.AstSubtree {
	if root == nil {
		return nil
	}
	var out []*core.AstSubtree
	var visit func(n *core.AstSubtree)
	visit = func(n *core.AstSubtree) {
		for _, c := range n.Children {
			visit(c)
		}
		out = append(out, n)
	}
	visit(root)
	return out
}

// computeForestDist fills treeDist for the forest pair rooted at (i, j)
// using the standard Zhang–Shasha forest-distance dynamic program.
func computeForestDist(ta, tb *indexedTree, i, j int, treeDist [][]int) {
	li, lj := ta.left[i], tb.left[j]

	// forestDist[p][q] covers the sub-forests ta.left(i)..p and tb.left(j)..q,
	// indices offset by li/lj so they start at 0.
	rows := i - li + 2
	cols := j - lj + 2
	forestDist := make([][]int, rows)
	for r := range forestDist {
		forestDist[r] = make([]int, cols)
	}

	for p := li; p <= i; p++ {
		forestDist[p-li+1][0] = forestDist[p-li][0] + 1 // delete
	}
	for q := lj; q <= j; q++ {
		forestDist[0][q-lj+1] = forestDist[0][q-lj] + 1 // insert
	}

	for p := li; p <= i; p++ {
		for q := lj; q <= j; q++ {
			pr, qr := p-li+1, q-lj+1
			if ta.left[p] == li && tb.left[q] == lj {
				delCost := forestDist[pr-1][qr] + 1
				insCost := forestDist[pr][qr-1] + 1
				subCost := forestDist[pr-1][qr-1] + substitutionCost(ta.nodes[p], tb.nodes[q])
				best := min3(delCost, insCost, subCost)
				forestDist[pr][qr] = best
				treeDist[p+1][q+1] = best
			} else {
				pl, ql := ta.left[p], tb.left[q]
				delCost := forestDist[pr-1][qr] + 1
				insCost := forestDist[pr][qr-1] + 1
				subCost := forestDist[pl-li][ql-lj] + treeDist[p+1][q+1]
				forestDist[pr][qr] = min3(delCost, insCost, subCost)
			}
		}
	}
}

func min3(a, b, c int) int {
	m := a
	if b < m {
		m = b
	}
	if c < m {
		m = c
	}
	return m
}
