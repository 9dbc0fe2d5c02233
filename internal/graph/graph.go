// Package graph maintains the "must complete before" edges between tasks
// and answers the traversal queries the status engine needs.
package graph

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taskplanner/internal/errs"
)

// EdgeStore is the persistence the graph walks. Implementations are scoped
// to one unit of work so a walk sees a consistent edge set.
type EdgeStore interface {
	// Predecessors returns the tasks id directly depends on.
	Predecessors(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	// Dependents returns the tasks that directly depend on id.
	Dependents(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error)
	HasEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error)
	InsertEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) error
	// DeleteEdge reports whether an edge was removed.
	DeleteEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error)
}

// Edge is a directed dependency: TaskID depends on DependsOnID.
type Edge struct {
	TaskID      uuid.UUID
	DependsOnID uuid.UUID
}

// Graph keeps the edge set acyclic and free of self loops and duplicates.
type Graph struct {
	store EdgeStore
}

func New(store EdgeStore) *Graph {
	return &Graph{store: store}
}

// AddEdge records that taskID depends on dependsOnID.
func (g *Graph) AddEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) error {
	if taskID == dependsOnID {
		return &errs.SelfDependencyError{TaskID: taskID}
	}
	exists, err := g.store.HasEdge(ctx, taskID, dependsOnID)
	if err != nil {
		return fmt.Errorf("check edge: %w", err)
	}
	if exists {
		return &errs.DuplicateEdgeError{TaskID: taskID, DependsOnID: dependsOnID}
	}
	cycle, err := g.IsCyclic(ctx, Edge{TaskID: taskID, DependsOnID: dependsOnID})
	if err != nil {
		return err
	}
	if cycle != nil {
		return &errs.CycleError{Path: cycle}
	}
	if err := g.store.InsertEdge(ctx, taskID, dependsOnID); err != nil {
		return fmt.Errorf("insert edge: %w", err)
	}
	return nil
}

// RemoveEdge deletes the edge if present. Removing a missing edge is a no-op
// and reports false.
func (g *Graph) RemoveEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
	removed, err := g.store.DeleteEdge(ctx, taskID, dependsOnID)
	if err != nil {
		return false, fmt.Errorf("delete edge: %w", err)
	}
	return removed, nil
}

func (g *Graph) PredecessorsOf(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return g.store.Predecessors(ctx, id)
}

func (g *Graph) DependentsOf(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return g.store.Dependents(ctx, id)
}

// IsCyclic reports the loop the candidate edge would close, or nil.
// The returned path starts and ends with the candidate's dependent task.
func (g *Graph) IsCyclic(ctx context.Context, candidate Edge) ([]uuid.UUID, error) {
	if candidate.TaskID == candidate.DependsOnID {
		return []uuid.UUID{candidate.TaskID, candidate.TaskID}, nil
	}
	// The edge closes a loop iff the dependent is already reachable from the
	// prerequisite by following "depends on" edges.
	path, err := g.Reachable(ctx, candidate.DependsOnID, candidate.TaskID)
	if err != nil || path == nil {
		return nil, err
	}
	return append([]uuid.UUID{candidate.TaskID}, path...), nil
}

// Reachable walks "depends on" edges from `from` and returns the path
// from..to when `to` is reachable, nil otherwise. Only the part of the graph
// reachable from `from` is visited.
func (g *Graph) Reachable(ctx context.Context, from, to uuid.UUID) ([]uuid.UUID, error) {
	parent := map[uuid.UUID]uuid.UUID{from: uuid.Nil}
	stack := []uuid.UUID{from}
	for len(stack) > 0 {
		node := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if node == to {
			return tracePath(parent, from, to), nil
		}
		preds, err := g.store.Predecessors(ctx, node)
		if err != nil {
			return nil, fmt.Errorf("predecessors of %s: %w", node, err)
		}
		for _, p := range preds {
			if _, seen := parent[p]; seen {
				continue
			}
			parent[p] = node
			stack = append(stack, p)
		}
	}
	return nil, nil
}

func tracePath(parent map[uuid.UUID]uuid.UUID, from, to uuid.UUID) []uuid.UUID {
	path := []uuid.UUID{to}
	for cur := to; cur != from; {
		cur = parent[cur]
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}
