package graph

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskplanner/internal/errs"
)

func ids(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestAddEdge_SelfDependency(t *testing.T) {
	g := New(NewMemStore())
	a := uuid.New()

	err := g.AddEdge(context.Background(), a, a)

	var selfErr *errs.SelfDependencyError
	require.ErrorAs(t, err, &selfErr)
	assert.Equal(t, a, selfErr.TaskID)
}

func TestAddEdge_Duplicate(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemStore())
	n := ids(2)

	require.NoError(t, g.AddEdge(ctx, n[0], n[1]))
	err := g.AddEdge(ctx, n[0], n[1])

	var dupErr *errs.DuplicateEdgeError
	assert.ErrorAs(t, err, &dupErr)
}

func TestAddEdge_DirectCycleLeavesGraphUnchanged(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	g := New(store)
	a, b := uuid.New(), uuid.New()

	require.NoError(t, g.AddEdge(ctx, a, b))
	err := g.AddEdge(ctx, b, a)

	var cycleErr *errs.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []uuid.UUID{b, a, b}, cycleErr.Path)
	assert.Equal(t, []Edge{{TaskID: a, DependsOnID: b}}, store.Edges())
}

func TestAddEdge_LongCycle(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemStore())
	n := ids(4)

	// n0 <- n1 <- n2 <- n3 (each depends on the previous one)
	require.NoError(t, g.AddEdge(ctx, n[1], n[0]))
	require.NoError(t, g.AddEdge(ctx, n[2], n[1]))
	require.NoError(t, g.AddEdge(ctx, n[3], n[2]))

	err := g.AddEdge(ctx, n[0], n[3])

	var cycleErr *errs.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []uuid.UUID{n[0], n[3], n[2], n[1], n[0]}, cycleErr.Path)
}

func TestAddEdge_DiamondIsNotACycle(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemStore())
	n := ids(4)

	// n1 and n2 depend on n0, n3 depends on both.
	require.NoError(t, g.AddEdge(ctx, n[1], n[0]))
	require.NoError(t, g.AddEdge(ctx, n[2], n[0]))
	require.NoError(t, g.AddEdge(ctx, n[3], n[1]))
	require.NoError(t, g.AddEdge(ctx, n[3], n[2]))

	// Shortcut edge is still acyclic.
	assert.NoError(t, g.AddEdge(ctx, n[3], n[0]))
}

func TestRemoveEdge_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemStore()
	g := New(store)
	n := ids(3)

	require.NoError(t, g.AddEdge(ctx, n[1], n[0]))
	before := store.Edges()

	require.NoError(t, g.AddEdge(ctx, n[2], n[1]))
	removed, err := g.RemoveEdge(ctx, n[2], n[1])
	require.NoError(t, err)
	assert.True(t, removed)
	assert.Equal(t, before, store.Edges())

	removed, err = g.RemoveEdge(ctx, n[2], n[1])
	require.NoError(t, err)
	assert.False(t, removed, "removing a missing edge is a no-op")
}

func TestPredecessorsAndDependents(t *testing.T) {
	ctx := context.Background()
	g := New(NewMemStore())
	n := ids(3)

	require.NoError(t, g.AddEdge(ctx, n[1], n[0]))
	require.NoError(t, g.AddEdge(ctx, n[2], n[0]))

	deps, err := g.DependentsOf(ctx, n[0])
	require.NoError(t, err)
	assert.ElementsMatch(t, []uuid.UUID{n[1], n[2]}, deps)

	preds, err := g.PredecessorsOf(ctx, n[2])
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{n[0]}, preds)

	preds, err = g.PredecessorsOf(ctx, n[0])
	require.NoError(t, err)
	assert.Empty(t, preds)
}

func TestTopoOrder(t *testing.T) {
	n := ids(4)
	edges := []Edge{
		{TaskID: n[0], DependsOnID: n[3]},
		{TaskID: n[1], DependsOnID: n[0]},
		{TaskID: n[2], DependsOnID: n[0]},
	}

	order, err := TopoOrder(n, edges)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{n[3], n[0], n[1], n[2]}, order)
}

func TestTopoOrder_Cycle(t *testing.T) {
	n := ids(3)
	edges := []Edge{
		{TaskID: n[0], DependsOnID: n[1]},
		{TaskID: n[1], DependsOnID: n[0]},
	}

	_, err := TopoOrder(n, edges)

	var cycleErr *errs.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []uuid.UUID{n[0], n[1]}, cycleErr.Path)
}
