package planner

import (
	"context"

	"github.com/google/uuid"

	"taskplanner/internal/model"
	"taskplanner/internal/status"
)

// AddDependency makes taskID depend on dependsOnID. A done task stays done
// even when the new prerequisite is open.
func (s *Service) AddDependency(ctx context.Context, taskID, dependsOnID uuid.UUID) (*model.Task, error) {
	var task *model.Task
	err := s.mutate(ctx, func(w *work) error {
		var err error
		task, err = w.tx.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if taskID != dependsOnID {
			// Holding the prerequisite row orders this insert after any
			// in-flight change to its status.
			if _, err := w.tx.Tasks.GetForUpdate(ctx, dependsOnID); err != nil {
				return err
			}
		}
		if err := w.graph.AddEdge(ctx, taskID, dependsOnID); err != nil {
			return err
		}
		doneChanged, err := w.evaluate(ctx, task, status.TriggerDependency)
		if err != nil {
			return err
		}
		return w.propagate(ctx, taskID, doneChanged)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Debug("dependency added", "task", taskID, "depends_on", dependsOnID)
	return task, nil
}

// RemoveDependency drops the edge if present and re-evaluates taskID, which
// may unblock it and cascade further.
func (s *Service) RemoveDependency(ctx context.Context, taskID, dependsOnID uuid.UUID) (*model.Task, error) {
	var task *model.Task
	err := s.mutate(ctx, func(w *work) error {
		var err error
		task, err = w.tx.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if _, err := w.graph.RemoveEdge(ctx, taskID, dependsOnID); err != nil {
			return err
		}
		doneChanged, err := w.evaluate(ctx, task, status.TriggerDependency)
		if err != nil {
			return err
		}
		return w.propagate(ctx, taskID, doneChanged)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
