// Package planner runs every task mutation as one unit of work: the mutated
// task is re-evaluated by the status engine and the change is cascaded to
// its dependents before the transaction commits.
package planner

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"taskplanner/internal/graph"
	"taskplanner/internal/model"
	"taskplanner/internal/repository"
	"taskplanner/internal/status"
)

type Options struct {
	// PlanStart is the Monday of week 1.
	PlanStart time.Time
	Logger    *log.Logger
	// Now overrides the clock, mostly for tests.
	Now func() time.Time
}

type Service struct {
	uow       *repository.UnitOfWork
	validate  *validator.Validate
	planStart time.Time
	now       func() time.Time
	logger    *log.Logger
	cache     *readCache
}

func New(uow *repository.UnitOfWork, opts Options) *Service {
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		uow:       uow,
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		planStart: opts.PlanStart,
		now:       opts.Now,
		logger:    opts.Logger,
		cache:     &readCache{},
	}
}

func (s *Service) clock() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// mutate runs fn in a unit of work and drops cached reads once it committed.
func (s *Service) mutate(ctx context.Context, fn func(w *work) error) error {
	err := s.uow.Do(ctx, func(tx *repository.Tx) error {
		return fn(&work{
			svc:   s,
			tx:    tx,
			graph: graph.New(tx.Dependencies),
			now:   s.clock(),
		})
	})
	if err != nil {
		return err
	}
	s.cache.invalidate()
	return nil
}

// work is the state of one transaction.
type work struct {
	svc   *Service
	tx    *repository.Tx
	graph *graph.Graph
	now   time.Time
}

// inputs gathers what the status engine reads for one task.
func (w *work) inputs(ctx context.Context, id uuid.UUID, trigger status.Trigger) (status.Input, error) {
	total, done, err := w.tx.Subtasks.Counts(ctx, id)
	if err != nil {
		return status.Input{}, fmt.Errorf("count subtasks: %w", err)
	}
	preds, err := w.graph.PredecessorsOf(ctx, id)
	if err != nil {
		return status.Input{}, fmt.Errorf("load prerequisites: %w", err)
	}
	open, err := w.tx.Tasks.CountNotDone(ctx, preds)
	if err != nil {
		return status.Input{}, fmt.Errorf("check prerequisites: %w", err)
	}
	return status.Input{
		TotalSubtasks: total,
		DoneSubtasks:  done,
		Blocked:       open > 0,
		Trigger:       trigger,
	}, nil
}

// evaluate re-derives task and persists it when anything changed. It
// reports whether the task entered or left done.
func (w *work) evaluate(ctx context.Context, task *model.Task, trigger status.Trigger) (bool, error) {
	in, err := w.inputs(ctx, task.ID, trigger)
	if err != nil {
		return false, err
	}
	before := status.StateOf(task)
	return w.store(ctx, task, before, status.Evaluate(before, in, w.now), trigger)
}

func (w *work) store(ctx context.Context, task *model.Task, before, after status.State, trigger status.Trigger) (bool, error) {
	if !status.Changed(before, after) {
		return false, nil
	}
	after.ApplyTo(task)
	if err := w.tx.Tasks.SaveState(ctx, task, w.now); err != nil {
		return false, fmt.Errorf("save task %s: %w", task.ID, err)
	}
	if before.Status != after.Status {
		w.svc.logger.Debug("status changed", "task", task.ID, "from", before.Status, "to", after.Status, "trigger", trigger)
	}
	return status.DoneChanged(before, after), nil
}

// cascade re-evaluates the given tasks and keeps walking dependents of every
// task whose done state flips. A task is queued at most once at a time; it
// is queued again only if another prerequisite flips after it was
// evaluated. Acyclicity of the edge set bounds the walk.
func (w *work) cascade(ctx context.Context, seeds ...uuid.UUID) error {
	var queue []uuid.UUID
	queued := make(map[uuid.UUID]bool)
	push := func(ids ...uuid.UUID) {
		for _, id := range ids {
			if !queued[id] {
				queued[id] = true
				queue = append(queue, id)
			}
		}
	}
	push(seeds...)

	visited, flipped := 0, 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		delete(queued, id)
		visited++

		task, err := w.tx.Tasks.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		doneChanged, err := w.evaluate(ctx, task, status.TriggerDependency)
		if err != nil {
			return err
		}
		if !doneChanged {
			continue
		}
		flipped++
		dependents, err := w.graph.DependentsOf(ctx, id)
		if err != nil {
			return fmt.Errorf("load dependents of %s: %w", id, err)
		}
		push(dependents...)
	}
	if visited > 0 {
		w.svc.logger.Debug("cascade finished", "visited", visited, "flipped", flipped)
	}
	return nil
}

// propagate cascades to the dependents of root when root's done state flipped.
func (w *work) propagate(ctx context.Context, root uuid.UUID, doneChanged bool) error {
	if !doneChanged {
		return nil
	}
	dependents, err := w.graph.DependentsOf(ctx, root)
	if err != nil {
		return fmt.Errorf("load dependents of %s: %w", root, err)
	}
	if len(dependents) > 0 {
		w.svc.logger.Info("propagating status change", "root", root, "dependents", len(dependents))
	}
	return w.cascade(ctx, dependents...)
}
