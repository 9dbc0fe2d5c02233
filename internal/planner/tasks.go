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

// CreateTaskInput describes a new task. Subtasks are titles in display
// order; DependsOn lists prerequisite task ids.
type CreateTaskInput struct {
	Title       string         `validate:"required,max=255"`
	Description string
	Priority    model.Priority `validate:"omitempty,min=1,max=3"`
	Week        int            `validate:"min=0"`
	Subtasks    []string       `validate:"dive,required,max=255"`
	DependsOn   []uuid.UUID
}

// EditTaskInput is a partial update; nil fields are left alone.
type EditTaskInput struct {
	Title       *string         `validate:"omitnil,min=1,max=255"`
	Description *string
	Priority    *model.Priority `validate:"omitnil,min=1,max=3"`
	Week        *int            `validate:"omitnil,min=0"`
}

// CreateTask inserts a task with its subtasks and prerequisites and derives
// its initial status. A task whose prerequisites are open starts blocked.
func (s *Service) CreateTask(ctx context.Context, in CreateTaskInput) (*model.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	for i := range in.Subtasks {
		in.Subtasks[i] = strings.TrimSpace(in.Subtasks[i])
	}
	if err := s.check(in); err != nil {
		return nil, err
	}
	if in.Priority == 0 {
		in.Priority = model.PriorityNormal
	}

	var task *model.Task
	err := s.mutate(ctx, func(w *work) error {
		for _, depID := range in.DependsOn {
			if _, err := w.tx.Tasks.GetForUpdate(ctx, depID); err != nil {
				return err
			}
		}
		task = &model.Task{
			Title:       in.Title,
			Slug:        model.Slugify(in.Title),
			Description: in.Description,
			Status:      model.StatusTodo,
			Priority:    in.Priority,
		}
		task.SetWeek(in.Week, s.planStart)
		if err := w.tx.Tasks.Create(ctx, task); err != nil {
			return fmt.Errorf("create task: %w", err)
		}
		for _, title := range in.Subtasks {
			if err := w.tx.Subtasks.Create(ctx, &model.Subtask{TaskID: task.ID, Title: title}); err != nil {
				return fmt.Errorf("create subtask: %w", err)
			}
		}
		for _, depID := range in.DependsOn {
			if err := w.graph.AddEdge(ctx, task.ID, depID); err != nil {
				return err
			}
		}
		_, err := w.evaluate(ctx, task, status.TriggerCreate)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("task created", "task", task.ID, "status", task.Status)
	return task, nil
}

// EditTask updates display and scheduling fields. Status is not touched
// here beyond the usual re-evaluation.
func (s *Service) EditTask(ctx context.Context, id uuid.UUID, in EditTaskInput) (*model.Task, error) {
	if in.Title != nil {
		title := strings.TrimSpace(*in.Title)
		in.Title = &title
	}
	if err := s.check(in); err != nil {
		return nil, err
	}

	var task *model.Task
	err := s.mutate(ctx, func(w *work) error {
		var err error
		task, err = w.tx.Tasks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if in.Title != nil {
			task.Title = *in.Title
			task.Slug = model.Slugify(task.Title)
		}
		if in.Description != nil {
			task.Description = strings.TrimSpace(*in.Description)
		}
		if in.Priority != nil {
			task.Priority = *in.Priority
		}
		if in.Week != nil {
			task.SetWeek(*in.Week, s.planStart)
		}
		if err := w.tx.Tasks.Update(ctx, task); err != nil {
			return fmt.Errorf("update task: %w", err)
		}
		doneChanged, err := w.evaluate(ctx, task, status.TriggerDependency)
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

// SetTaskStatus applies an explicit status request. Requesting todo resets
// every subtask; requesting in_progress or done fails with BlockedError
// while a prerequisite is open.
func (s *Service) SetTaskStatus(ctx context.Context, id uuid.UUID, requested model.Status) (*model.Task, error) {
	if !requested.Settable() {
		return nil, errs.Invalid("status", "invalid status %q", requested)
	}

	var task *model.Task
	err := s.mutate(ctx, func(w *work) error {
		var err error
		task, err = w.tx.Tasks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if requested == model.StatusTodo {
			if err := w.tx.Subtasks.SetAllDone(ctx, id, false); err != nil {
				return fmt.Errorf("reset subtasks: %w", err)
			}
		}
		in, err := w.inputs(ctx, id, status.TriggerExplicit)
		if err != nil {
			return err
		}
		before := status.StateOf(task)
		after, err := status.Apply(id, before, requested, in, w.now)
		if err != nil {
			return err
		}
		doneChanged, err := w.store(ctx, task, before, after, status.TriggerExplicit)
		if err != nil {
			return err
		}
		return w.propagate(ctx, id, doneChanged)
	})
	if err != nil {
		return nil, err
	}
	return task, nil
}

// DeleteTask removes a task with its subtasks and edges. Tasks that depended
// on it lose a prerequisite and are re-evaluated.
func (s *Service) DeleteTask(ctx context.Context, id uuid.UUID) error {
	return s.mutate(ctx, func(w *work) error {
		if _, err := w.tx.Tasks.GetForUpdate(ctx, id); err != nil {
			return err
		}
		dependents, err := w.tx.Dependencies.DeleteTouching(ctx, id)
		if err != nil {
			return fmt.Errorf("delete dependencies: %w", err)
		}
		if err := w.tx.Subtasks.DeleteByTask(ctx, id); err != nil {
			return fmt.Errorf("delete subtasks: %w", err)
		}
		if err := w.tx.Tasks.Delete(ctx, id); err != nil {
			return err
		}
		return w.cascade(ctx, dependents...)
	})
}
