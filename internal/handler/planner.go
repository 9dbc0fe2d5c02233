package handler

import (
	"context"

	"taskplanner/internal/model"
	"taskplanner/internal/planner"

	"github.com/google/uuid"
)

// Planner is what the handlers need from the planner service.
type Planner interface {
	ListTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id uuid.UUID) (*planner.TaskDetail, error)
	CreateTask(ctx context.Context, in planner.CreateTaskInput) (*model.Task, error)
	EditTask(ctx context.Context, id uuid.UUID, in planner.EditTaskInput) (*model.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	SetTaskStatus(ctx context.Context, id uuid.UUID, status model.Status) (*model.Task, error)
	Dependents(ctx context.Context, id uuid.UUID) ([]model.Task, error)

	AddSubtask(ctx context.Context, taskID uuid.UUID, title string) (*model.Task, error)
	ToggleSubtask(ctx context.Context, id uuid.UUID) (*model.Task, error)
	DeleteSubtask(ctx context.Context, id uuid.UUID) (*model.Task, error)

	AddDependency(ctx context.Context, taskID, dependsOnID uuid.UUID) (*model.Task, error)
	RemoveDependency(ctx context.Context, taskID, dependsOnID uuid.UUID) (*model.Task, error)

	Graph(ctx context.Context) (*planner.GraphView, error)
	Board(ctx context.Context) ([]planner.Week, error)
}

var _ Planner = (*planner.Service)(nil)
