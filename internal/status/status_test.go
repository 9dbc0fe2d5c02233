package status_test

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskplanner/internal/errs"
	"taskplanner/internal/model"
	"taskplanner/internal/status"
)

var now = time.Date(2025, 9, 1, 10, 0, 0, 0, time.UTC)

func ptr(t time.Time) *time.Time { return &t }

func TestProgress(t *testing.T) {
	assert.Equal(t, 0.0, status.Progress(0, 0))
	assert.Equal(t, 50.0, status.Progress(2, 1))
	assert.Equal(t, 100.0, status.Progress(3, 3))
	assert.InDelta(t, 100.0/3, status.Progress(3, 1), 1e-9)
}

func TestEvaluate(t *testing.T) {
	earlier := now.Add(-48 * time.Hour)

	tests := []struct {
		name        string
		cur         status.State
		in          status.Input
		wantStatus  model.Status
		wantStarted bool
		wantDone    bool
	}{
		{
			name:        "first subtask done starts the task",
			cur:         status.State{Status: model.StatusTodo},
			in:          status.Input{TotalSubtasks: 2, DoneSubtasks: 1, Trigger: status.TriggerSubtask},
			wantStatus:  model.StatusInProgress,
			wantStarted: true,
		},
		{
			name:        "all subtasks done completes the task",
			cur:         status.State{Status: model.StatusInProgress, StartedAt: ptr(earlier)},
			in:          status.Input{TotalSubtasks: 2, DoneSubtasks: 2, Trigger: status.TriggerSubtask},
			wantStatus:  model.StatusDone,
			wantStarted: true,
			wantDone:    true,
		},
		{
			name:        "zero done keeps in progress",
			cur:         status.State{Status: model.StatusInProgress, StartedAt: ptr(earlier)},
			in:          status.Input{TotalSubtasks: 2, DoneSubtasks: 0, Trigger: status.TriggerSubtask},
			wantStatus:  model.StatusInProgress,
			wantStarted: true,
		},
		{
			name:       "unmet prerequisite blocks",
			cur:        status.State{Status: model.StatusInProgress},
			in:         status.Input{TotalSubtasks: 2, DoneSubtasks: 1, Blocked: true, Trigger: status.TriggerDependency},
			wantStatus: model.StatusBlocked,
		},
		{
			name:       "blocking a todo task does not start it",
			cur:        status.State{Status: model.StatusTodo},
			in:         status.Input{Blocked: true, Trigger: status.TriggerDependency},
			wantStatus: model.StatusBlocked,
		},
		{
			name:        "done is not re-blocked",
			cur:         status.State{Status: model.StatusDone, StartedAt: ptr(earlier), CompletedAt: ptr(earlier)},
			in:          status.Input{Blocked: true, Trigger: status.TriggerDependency},
			wantStatus:  model.StatusDone,
			wantStarted: true,
			wantDone:    true,
		},
		{
			name:       "unblocked without progress falls to todo",
			cur:        status.State{Status: model.StatusBlocked},
			in:         status.Input{TotalSubtasks: 2, Trigger: status.TriggerDependency},
			wantStatus: model.StatusTodo,
		},
		{
			name:        "unblocked with progress resumes",
			cur:         status.State{Status: model.StatusBlocked},
			in:          status.Input{TotalSubtasks: 2, DoneSubtasks: 1, Trigger: status.TriggerDependency},
			wantStatus:  model.StatusInProgress,
			wantStarted: true,
		},
		{
			name:        "unblocked and fully complete finishes",
			cur:         status.State{Status: model.StatusBlocked},
			in:          status.Input{TotalSubtasks: 2, DoneSubtasks: 2, Trigger: status.TriggerDependency},
			wantStatus:  model.StatusDone,
			wantStarted: true,
			wantDone:    true,
		},
		{
			name:        "dependency change does not derive from subtasks",
			cur:         status.State{Status: model.StatusInProgress, StartedAt: ptr(earlier)},
			in:          status.Input{TotalSubtasks: 2, DoneSubtasks: 2, Trigger: status.TriggerDependency},
			wantStatus:  model.StatusInProgress,
			wantStarted: true,
		},
		{
			name:        "new subtask reopens a done task",
			cur:         status.State{Status: model.StatusDone, StartedAt: ptr(earlier), CompletedAt: ptr(earlier)},
			in:          status.Input{TotalSubtasks: 3, DoneSubtasks: 2, Trigger: status.TriggerSubtaskAdded},
			wantStatus:  model.StatusInProgress,
			wantStarted: true,
		},
		{
			name:        "toggling a subtask off keeps done",
			cur:         status.State{Status: model.StatusDone, StartedAt: ptr(earlier), CompletedAt: ptr(earlier)},
			in:          status.Input{TotalSubtasks: 2, DoneSubtasks: 1, Trigger: status.TriggerSubtask},
			wantStatus:  model.StatusDone,
			wantStarted: true,
			wantDone:    true,
		},
		{
			name:       "new task without prerequisites is todo",
			cur:        status.State{Status: model.StatusTodo},
			in:         status.Input{TotalSubtasks: 3, Trigger: status.TriggerCreate},
			wantStatus: model.StatusTodo,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := status.Evaluate(tt.cur, tt.in, now)

			assert.Equal(t, tt.wantStatus, got.Status)
			assert.Equal(t, status.Progress(tt.in.TotalSubtasks, tt.in.DoneSubtasks), got.Progress)
			assert.Equal(t, tt.wantStarted, got.StartedAt != nil, "started_at")
			assert.Equal(t, tt.wantDone, got.CompletedAt != nil, "completed_at")
			assert.Equal(t, got.Status == model.StatusDone, got.CompletedAt != nil)
		})
	}
}

func TestEvaluate_KeepsExistingTimestamps(t *testing.T) {
	earlier := now.Add(-time.Hour)
	cur := status.State{Status: model.StatusBlocked, StartedAt: ptr(earlier)}

	got := status.Evaluate(cur, status.Input{TotalSubtasks: 1, DoneSubtasks: 1}, now)

	require.NotNil(t, got.StartedAt)
	assert.True(t, got.StartedAt.Equal(earlier))
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(now))
}

func TestApply(t *testing.T) {
	id := uuid.New()
	earlier := now.Add(-time.Hour)

	t.Run("done with open subtasks is allowed", func(t *testing.T) {
		got, err := status.Apply(id, status.State{Status: model.StatusTodo},
			model.StatusDone, status.Input{TotalSubtasks: 3, DoneSubtasks: 1}, now)
		require.NoError(t, err)
		assert.Equal(t, model.StatusDone, got.Status)
		assert.NotNil(t, got.CompletedAt)
		assert.NotNil(t, got.StartedAt)
	})

	t.Run("done with open prerequisite is refused", func(t *testing.T) {
		cur := status.State{Status: model.StatusBlocked}
		got, err := status.Apply(id, cur, model.StatusDone, status.Input{Blocked: true}, now)

		var blocked *errs.BlockedError
		require.ErrorAs(t, err, &blocked)
		assert.Equal(t, id, blocked.TaskID)
		assert.Equal(t, cur, got)
	})

	t.Run("in progress with open prerequisite is refused", func(t *testing.T) {
		_, err := status.Apply(id, status.State{Status: model.StatusBlocked},
			model.StatusInProgress, status.Input{Blocked: true}, now)
		var blocked *errs.BlockedError
		assert.ErrorAs(t, err, &blocked)
	})

	t.Run("todo on a blocked task stays blocked", func(t *testing.T) {
		got, err := status.Apply(id, status.State{Status: model.StatusBlocked},
			model.StatusTodo, status.Input{Blocked: true}, now)
		require.NoError(t, err)
		assert.Equal(t, model.StatusBlocked, got.Status)
	})

	t.Run("reopening a done task clears completed_at", func(t *testing.T) {
		cur := status.State{Status: model.StatusDone, StartedAt: ptr(earlier), CompletedAt: ptr(earlier)}
		got, err := status.Apply(id, cur, model.StatusInProgress, status.Input{}, now)
		require.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, got.Status)
		assert.Nil(t, got.CompletedAt)
		assert.True(t, got.StartedAt.Equal(earlier))
	})

	t.Run("blocked cannot be requested", func(t *testing.T) {
		_, err := status.Apply(id, status.State{Status: model.StatusTodo}, model.StatusBlocked, status.Input{}, now)
		var invalid *errs.ValidationError
		assert.ErrorAs(t, err, &invalid)
	})
}

func TestChanged(t *testing.T) {
	a := status.State{Status: model.StatusTodo}
	assert.False(t, status.Changed(a, a))

	b := a
	b.Progress = 50
	assert.True(t, status.Changed(a, b))

	c := status.State{Status: model.StatusDone, CompletedAt: ptr(now)}
	d := status.State{Status: model.StatusDone, CompletedAt: ptr(now.In(time.Local))}
	assert.False(t, status.Changed(c, d), "equal instants in different zones")

	assert.True(t, status.DoneChanged(a, c))
	assert.False(t, status.DoneChanged(c, d))
}
