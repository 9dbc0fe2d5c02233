package planner

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/google/uuid"

	"taskplanner/internal/model"
)

// TaskDetail is a task with everything its detail view shows.
type TaskDetail struct {
	Task          model.Task
	Subtasks      []model.Subtask
	Prerequisites []model.Task
	Dependents    []model.Task
}

// GraphNode is the summary of a task in the dependency graph view.
type GraphNode struct {
	ID       uuid.UUID
	Title    string
	Status   model.Status
	Week     int
	Priority model.Priority
	Progress float64
}

// GraphEdge points from a prerequisite to its dependent.
type GraphEdge struct {
	From uuid.UUID
	To   uuid.UUID
}

type GraphView struct {
	Nodes []GraphNode
	Edges []GraphEdge
}

// Week is one column of the board. Week 0 holds unscheduled tasks and has
// no dates.
type Week struct {
	Number    int
	StartDate *time.Time
	EndDate   *time.Time
	Tasks     []model.Task
}

func (s *Service) snapshot(ctx context.Context) (*snapshot, error) {
	return s.cache.get(ctx, func(ctx context.Context) (*snapshot, error) {
		r := s.uow.Read()
		tasks, err := r.Tasks.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list tasks: %w", err)
		}
		edges, err := r.Dependencies.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("list dependencies: %w", err)
		}
		return &snapshot{tasks: tasks, edges: edges}, nil
	})
}

// ListTasks returns every task ordered by week then priority.
func (s *Service) ListTasks(ctx context.Context) ([]model.Task, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return slices.Clone(snap.tasks), nil
}

// GetTask returns a task with its subtasks, prerequisites and dependents.
func (s *Service) GetTask(ctx context.Context, id uuid.UUID) (*TaskDetail, error) {
	r := s.uow.Read()
	task, err := r.Tasks.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	subtasks, err := r.Subtasks.ListByTask(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list subtasks: %w", err)
	}
	predIDs, err := r.Dependencies.Predecessors(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load prerequisites: %w", err)
	}
	prereqs, err := r.Tasks.ListByIDs(ctx, predIDs)
	if err != nil {
		return nil, fmt.Errorf("list prerequisites: %w", err)
	}
	dependents, err := s.loadDependents(ctx, id)
	if err != nil {
		return nil, err
	}
	return &TaskDetail{
		Task:          *task,
		Subtasks:      subtasks,
		Prerequisites: prereqs,
		Dependents:    dependents,
	}, nil
}

// Dependents returns the tasks that directly depend on id.
func (s *Service) Dependents(ctx context.Context, id uuid.UUID) ([]model.Task, error) {
	if _, err := s.uow.Read().Tasks.GetByID(ctx, id); err != nil {
		return nil, err
	}
	return s.loadDependents(ctx, id)
}

func (s *Service) loadDependents(ctx context.Context, id uuid.UUID) ([]model.Task, error) {
	r := s.uow.Read()
	ids, err := r.Dependencies.Dependents(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("load dependents: %w", err)
	}
	tasks, err := r.Tasks.ListByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list dependents: %w", err)
	}
	return tasks, nil
}

// Graph returns every task and edge for the graph view.
func (s *Service) Graph(ctx context.Context) (*GraphView, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	view := &GraphView{
		Nodes: make([]GraphNode, 0, len(snap.tasks)),
		Edges: make([]GraphEdge, 0, len(snap.edges)),
	}
	for _, t := range snap.tasks {
		view.Nodes = append(view.Nodes, GraphNode{
			ID:       t.ID,
			Title:    t.Title,
			Status:   t.Status,
			Week:     t.Week,
			Priority: t.Priority,
			Progress: t.Progress,
		})
	}
	for _, e := range snap.edges {
		view.Edges = append(view.Edges, GraphEdge{From: e.DependsOnID, To: e.TaskID})
	}
	return view, nil
}

// Board groups tasks by week in ascending order, each week sorted by
// priority.
func (s *Service) Board(ctx context.Context) ([]Week, error) {
	snap, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	var weeks []Week
	index := make(map[int]int)
	for _, t := range snap.tasks {
		i, ok := index[t.Week]
		if !ok {
			w := Week{Number: t.Week}
			if t.Week > 0 {
				var dated model.Task
				dated.SetWeek(t.Week, s.planStart)
				w.StartDate, w.EndDate = dated.StartDate, dated.EndDate
			}
			i = len(weeks)
			index[t.Week] = i
			weeks = append(weeks, w)
		}
		weeks[i].Tasks = append(weeks[i].Tasks, t)
	}
	slices.SortFunc(weeks, func(a, b Week) int { return a.Number - b.Number })
	return weeks, nil
}
