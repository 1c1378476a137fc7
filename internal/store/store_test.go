package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/semdiff/internal/core"
)

func change(id int, name string, ct core.ChangeType, magnitude float64) core.FunctionChange {
	fc := core.FunctionChange{Name: name, ChangeType: ct, Magnitude: magnitude}
	return fc.WithIDs(id, id+100)
}

func TestSeal_SortOrderGroupsAndOrdersByRule(t *testing.T) {
	s := New()
	changes := []core.FunctionChange{
		change(1, "zeta", core.ChangeUnchanged, 0),
		change(2, "m_low", core.ChangeModified, 0.2),
		change(3, "m_high", core.ChangeModified, 0.9),
		change(4, "beta", core.ChangeAdded, 0),
		change(5, "alpha", core.ChangeAdded, 0),
		change(6, "gamma", core.ChangeDeleted, 0),
		change(7, "r1", core.ChangeRenamed, 0.5),
		change(8, "mv1", core.ChangeMoved, 0.3),
	}
	ctx := s.Seal("/src", "/tgt", changes, nil, time.Unix(0, 0))

	var order []string
	for _, fc := range ctx.Changes {
		order = append(order, fc.Name)
	}
	assert.Equal(t, []string{"m_high", "m_low", "alpha", "beta", "gamma", "r1", "mv1", "zeta"}, order)
}

func TestSeal_GetAndEvict(t *testing.T) {
	s := New()
	ctx := s.Seal("/src", "/tgt", nil, nil, time.Unix(0, 0))

	got, ok := s.Get(ctx.ID)
	require.True(t, ok)
	assert.Equal(t, ctx.ID, got.ID)

	assert.True(t, s.Evict(ctx.ID))
	_, ok = s.Get(ctx.ID)
	assert.False(t, ok)

	assert.False(t, s.Evict(ctx.ID))
}

func TestList_FiltersByTypeAndMagnitudeThenTruncates(t *testing.T) {
	s := New()
	changes := []core.FunctionChange{
		change(1, "a", core.ChangeModified, 0.9),
		change(2, "b", core.ChangeModified, 0.1),
		change(3, "c", core.ChangeAdded, 0),
	}
	ctx := s.Seal("/src", "/tgt", changes, nil, time.Unix(0, 0))

	onlyModified := ctx.List(ListFilter{ChangeTypes: []core.ChangeType{core.ChangeModified}})
	require.Len(t, onlyModified, 2)

	highMagnitude := ctx.List(ListFilter{MinMagnitude: 0.5})
	require.Len(t, highMagnitude, 1)
	assert.Equal(t, "a", highMagnitude[0].Name)

	limited := ctx.List(ListFilter{Limit: 1})
	require.Len(t, limited, 1)
	assert.Equal(t, "a", limited[0].Name)
}

func TestDetail_TieBreaksByMagnitudeThenPriority(t *testing.T) {
	s := New()
	changes := []core.FunctionChange{
		change(1, "dup", core.ChangeModified, 0.4),
		change(2, "dup", core.ChangeRenamed, 0.4),
	}
	ctx := s.Seal("/src", "/tgt", changes, nil, time.Unix(0, 0))

	fc, ok := ctx.Detail("dup")
	require.True(t, ok)
	assert.Equal(t, core.ChangeRenamed, fc.ChangeType)
}

func TestDetail_NotFound(t *testing.T) {
	s := New()
	ctx := s.Seal("/src", "/tgt", nil, nil, time.Unix(0, 0))
	_, ok := ctx.Detail("missing")
	assert.False(t, ok)
}
