// Package status derives a task's status, progress and timestamps from its
// subtasks, its prerequisites and explicit requests. Everything here is pure:
// callers load the inputs, call Evaluate or Apply, and persist the result.
package status

import (
	"time"

	"github.com/google/uuid"

	"taskplanner/internal/errs"
	"taskplanner/internal/model"
)

// Trigger names the mutation that caused an evaluation. It decides how much
// of the rule set applies.
type Trigger int

const (
	// TriggerDependency covers prerequisite status changes, edge changes and
	// field edits. Only the blocked check runs.
	TriggerDependency Trigger = iota
	// TriggerSubtask covers a subtask toggle or deletion.
	TriggerSubtask
	// TriggerSubtaskAdded reopens a done task.
	TriggerSubtaskAdded
	// TriggerExplicit follows a caller-requested status; see Apply.
	TriggerExplicit
	// TriggerCreate evaluates a freshly inserted task.
	TriggerCreate
)

func (t Trigger) String() string {
	switch t {
	case TriggerDependency:
		return "dependency"
	case TriggerSubtask:
		return "subtask"
	case TriggerSubtaskAdded:
		return "subtask_added"
	case TriggerExplicit:
		return "explicit"
	case TriggerCreate:
		return "create"
	}
	return "unknown"
}

// State is the derived part of a task.
type State struct {
	Status      model.Status
	Progress    float64
	StartedAt   *time.Time
	CompletedAt *time.Time
}

// StateOf extracts the derived fields of t.
func StateOf(t *model.Task) State {
	return State{
		Status:      t.Status,
		Progress:    t.Progress,
		StartedAt:   t.StartedAt,
		CompletedAt: t.CompletedAt,
	}
}

// ApplyTo writes s back onto t.
func (s State) ApplyTo(t *model.Task) {
	t.Status = s.Status
	t.Progress = s.Progress
	t.StartedAt = s.StartedAt
	t.CompletedAt = s.CompletedAt
}

// Input is what an evaluation reads besides the current state.
type Input struct {
	TotalSubtasks int
	DoneSubtasks  int
	// Blocked is true when at least one prerequisite is not done.
	Blocked bool
	Trigger Trigger
}

// Progress is the percentage of done subtasks, 0 without subtasks.
func Progress(total, done int) float64 {
	if total <= 0 {
		return 0
	}
	return 100 * float64(done) / float64(total)
}

// fromSubtasks is the status the subtask set implies, if any.
func fromSubtasks(in Input) (model.Status, bool) {
	switch {
	case in.TotalSubtasks > 0 && in.DoneSubtasks == in.TotalSubtasks:
		return model.StatusDone, true
	case in.DoneSubtasks > 0:
		return model.StatusInProgress, true
	}
	return "", false
}

// Evaluate derives the next state. A done task stays done unless the
// trigger is TriggerSubtaskAdded; a blocked check never reopens it.
func Evaluate(cur State, in Input, now time.Time) State {
	next := cur
	next.Progress = Progress(in.TotalSubtasks, in.DoneSubtasks)

	if in.Trigger == TriggerSubtaskAdded && next.Status == model.StatusDone {
		next.Status = model.StatusInProgress
		next.CompletedAt = nil
	}

	switch {
	case in.Blocked:
		if next.Status != model.StatusDone {
			next.Status = model.StatusBlocked
		}
	case next.Status == model.StatusBlocked || next.Status == "":
		next.Status = model.StatusTodo
		if derived, ok := fromSubtasks(in); ok {
			next.Status = derived
		}
	case next.Status == model.StatusDone:
		// sticky
	case in.Trigger == TriggerSubtask || in.Trigger == TriggerSubtaskAdded || in.Trigger == TriggerCreate:
		if derived, ok := fromSubtasks(in); ok {
			next.Status = derived
		}
	}

	stamp(&next, now)
	return next
}

// Apply performs a caller-requested transition. Requests other than todo
// are refused while a prerequisite is open. Done is honoured even with
// open subtasks.
func Apply(taskID uuid.UUID, cur State, requested model.Status, in Input, now time.Time) (State, error) {
	if !requested.Settable() {
		return cur, errs.Invalid("status", "invalid status %q", requested)
	}
	if in.Blocked && requested != model.StatusTodo {
		return cur, &errs.BlockedError{TaskID: taskID}
	}

	next := cur
	next.Status = requested
	if requested != model.StatusDone {
		next.CompletedAt = nil
	}
	in.Trigger = TriggerExplicit
	return Evaluate(next, in, now), nil
}

func stamp(s *State, now time.Time) {
	switch s.Status {
	case model.StatusDone:
		if s.CompletedAt == nil {
			t := now
			s.CompletedAt = &t
		}
		if s.StartedAt == nil {
			t := now
			s.StartedAt = &t
		}
	case model.StatusInProgress:
		if s.StartedAt == nil {
			t := now
			s.StartedAt = &t
		}
		s.CompletedAt = nil
	default:
		s.CompletedAt = nil
	}
}

// Changed reports whether persisting b over a would write anything.
func Changed(a, b State) bool {
	return a.Status != b.Status ||
		a.Progress != b.Progress ||
		!sameTime(a.StartedAt, b.StartedAt) ||
		!sameTime(a.CompletedAt, b.CompletedAt)
}

// DoneChanged reports whether the transition a -> b enters or leaves done,
// which is what dependents react to.
func DoneChanged(a, b State) bool {
	return (a.Status == model.StatusDone) != (b.Status == model.StatusDone)
}

func sameTime(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
