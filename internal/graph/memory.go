package graph

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"taskplanner/internal/errs"
)

// MemStore is an EdgeStore held in memory. It is used to validate a batch
// of edges before any of them reach the database.
type MemStore struct {
	adj    map[uuid.UUID]map[uuid.UUID]bool // task -> tasks depending on it
	revAdj map[uuid.UUID]map[uuid.UUID]bool // task -> tasks it depends on
}

func NewMemStore() *MemStore {
	return &MemStore{
		adj:    make(map[uuid.UUID]map[uuid.UUID]bool),
		revAdj: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (m *MemStore) Predecessors(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return sortedKeys(m.revAdj[id]), nil
}

func (m *MemStore) Dependents(_ context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	return sortedKeys(m.adj[id]), nil
}

func (m *MemStore) HasEdge(_ context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
	return m.revAdj[taskID][dependsOnID], nil
}

func (m *MemStore) InsertEdge(_ context.Context, taskID, dependsOnID uuid.UUID) error {
	if m.revAdj[taskID] == nil {
		m.revAdj[taskID] = make(map[uuid.UUID]bool)
	}
	if m.adj[dependsOnID] == nil {
		m.adj[dependsOnID] = make(map[uuid.UUID]bool)
	}
	m.revAdj[taskID][dependsOnID] = true
	m.adj[dependsOnID][taskID] = true
	return nil
}

func (m *MemStore) DeleteEdge(_ context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
	if !m.revAdj[taskID][dependsOnID] {
		return false, nil
	}
	delete(m.revAdj[taskID], dependsOnID)
	delete(m.adj[dependsOnID], taskID)
	return true, nil
}

// Edges returns every edge, ordered for deterministic output.
func (m *MemStore) Edges() []Edge {
	var edges []Edge
	for task, deps := range m.revAdj {
		for dep := range deps {
			edges = append(edges, Edge{TaskID: task, DependsOnID: dep})
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].TaskID != edges[j].TaskID {
			return edges[i].TaskID.String() < edges[j].TaskID.String()
		}
		return edges[i].DependsOnID.String() < edges[j].DependsOnID.String()
	})
	return edges
}

func sortedKeys(set map[uuid.UUID]bool) []uuid.UUID {
	keys := make([]uuid.UUID, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
	return keys
}

// TopoOrder orders nodes so every prerequisite precedes its dependents.
// Ties keep the order of nodes. Edges touching unknown nodes are ignored.
func TopoOrder(nodes []uuid.UUID, edges []Edge) ([]uuid.UUID, error) {
	index := make(map[uuid.UUID]int, len(nodes))
	for i, n := range nodes {
		index[n] = i
	}
	inDegree := make(map[uuid.UUID]int, len(nodes))
	dependents := make(map[uuid.UUID][]uuid.UUID)
	for _, e := range edges {
		if _, ok := index[e.TaskID]; !ok {
			continue
		}
		if _, ok := index[e.DependsOnID]; !ok {
			continue
		}
		inDegree[e.TaskID]++
		dependents[e.DependsOnID] = append(dependents[e.DependsOnID], e.TaskID)
	}

	var queue []uuid.UUID
	for _, n := range nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	order := make([]uuid.UUID, 0, len(nodes))
	for len(queue) > 0 {
		sort.Slice(queue, func(i, j int) bool { return index[queue[i]] < index[queue[j]] })
		node := queue[0]
		queue = queue[1:]
		order = append(order, node)
		for _, d := range dependents[node] {
			inDegree[d]--
			if inDegree[d] == 0 {
				queue = append(queue, d)
			}
		}
	}

	if len(order) != len(nodes) {
		var stuck []uuid.UUID
		for _, n := range nodes {
			if inDegree[n] > 0 {
				stuck = append(stuck, n)
			}
		}
		return nil, &errs.CycleError{Path: stuck}
	}
	return order, nil
}
