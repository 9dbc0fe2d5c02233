package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"taskplanner/internal/errs"
	"taskplanner/internal/model"
	"taskplanner/internal/status"
)

// AddSubtask appends a subtask. Adding one to a done task reopens it.
func (s *Service) AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*model.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, errs.Invalid("title", "is required")
	}

	var task *model.Task
	err := s.mutate(ctx, func(w *work) error {
		var err error
		task, err = w.tx.Tasks.GetForUpdate(ctx, taskID)
		if err != nil {
			return err
		}
		if err := w.tx.Subtasks.Create(ctx, &model.Subtask{TaskID: taskID, Title: title}); err != nil {
			return fmt.Errorf("create subtask: %w", err)
		}
		doneChanged, err := w.evaluate(ctx, task, status.TriggerSubtaskAdded)
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

// ToggleSubtask flips a subtask and returns its task after re-evaluation.
func (s *Service) ToggleSubtask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return s.changeSubtask(ctx, id, "cannot toggle subtasks", func(w *work, sub *model.Subtask) error {
		return w.tx.Subtasks.SetDone(ctx, sub.ID, !sub.Done)
	})
}

// DeleteSubtask removes a subtask and returns its task after re-evaluation.
func (s *Service) DeleteSubtask(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	return s.changeSubtask(ctx, id, "cannot delete subtasks", func(w *work, sub *model.Subtask) error {
		return w.tx.Subtasks.Delete(ctx, sub.ID)
	})
}

// changeSubtask refuses to touch subtasks of a task with open prerequisites.
func (s *Service) changeSubtask(ctx context.Context, id uuid.UUID, refusal string, change func(*work, *model.Subtask) error) (*model.Task, error) {
	var task *model.Task
	err := s.mutate(ctx, func(w *work) error {
		sub, err := w.tx.Subtasks.GetByID(ctx, id)
		if err != nil {
			return err
		}
		task, err = w.tx.Tasks.GetForUpdate(ctx, sub.TaskID)
		if err != nil {
			return err
		}
		in, err := w.inputs(ctx, task.ID, status.TriggerSubtask)
		if err != nil {
			return err
		}
		if in.Blocked {
			return &errs.BlockedError{TaskID: task.ID, Reason: refusal}
		}
		if err := change(w, sub); err != nil {
			return err
		}
		doneChanged, err := w.evaluate(ctx, task, status.TriggerSubtask)
		if err != nil {
			return err
		}
		return w.propagate(ctx, task.ID, doneChanged)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}
