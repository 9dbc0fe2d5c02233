package planner

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"taskplanner/internal/graph"
	"taskplanner/internal/model"
	"taskplanner/internal/seed"
	"taskplanner/internal/status"
)

// ImportSeed replaces the whole plan with the tasks of p and returns how many
// were inserted. Edges are checked for cycles before anything is written and
// every task is evaluated in dependency order, so prerequisites settle
// before their dependents read them.
func (s *Service) ImportSeed(ctx context.Context, p *seed.Plan) (int, error) {
	if err := p.Validate(); err != nil {
		return 0, err
	}

	// Assign ids up front so the edge set can be checked in memory.
	ids := make(map[string]uuid.UUID, len(p.Tasks))
	order := make([]uuid.UUID, 0, len(p.Tasks))
	for _, it := range p.Tasks {
		id := uuid.New()
		ids[it.Key] = id
		order = append(order, id)
	}
	edges := graph.NewMemStore()
	g := graph.New(edges)
	for _, it := range p.Tasks {
		for _, dep := range it.DependsOn {
			if err := g.AddEdge(ctx, ids[it.Key], ids[dep]); err != nil {
				return 0, err
			}
		}
	}
	sorted, err := graph.TopoOrder(order, edges.Edges())
	if err != nil {
		return 0, err
	}

	err = s.mutate(ctx, func(w *work) error {
		if err := w.tx.Dependencies.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear dependencies: %w", err)
		}
		if err := w.tx.Subtasks.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear subtasks: %w", err)
		}
		if err := w.tx.Tasks.DeleteAll(ctx); err != nil {
			return fmt.Errorf("clear tasks: %w", err)
		}

		tasks := make(map[uuid.UUID]*model.Task, len(p.Tasks))
		for _, it := range p.Tasks {
			task := &model.Task{
				ID:          ids[it.Key],
				Title:       it.Title,
				Slug:        model.Slugify(it.Title),
				Description: it.Description,
				Status:      it.Status,
				Priority:    it.Priority,
			}
			task.SetWeek(it.Week, s.planStart)
			if err := w.tx.Tasks.Create(ctx, task); err != nil {
				return fmt.Errorf("create task %q: %w", it.Key, err)
			}
			for _, title := range it.Subtasks {
				if err := w.tx.Subtasks.Create(ctx, &model.Subtask{TaskID: task.ID, Title: title}); err != nil {
					return fmt.Errorf("create subtask of %q: %w", it.Key, err)
				}
			}
			tasks[task.ID] = task
		}
		for _, e := range edges.Edges() {
			if err := w.tx.Dependencies.InsertEdge(ctx, e.TaskID, e.DependsOnID); err != nil {
				return fmt.Errorf("create dependency: %w", err)
			}
		}
		for _, id := range sorted {
			if _, err := w.evaluate(ctx, tasks[id], status.TriggerDependency); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	s.logger.Info("plan imported", "tasks", len(p.Tasks), "dependencies", len(edges.Edges()))
	return len(p.Tasks), nil
}
