package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskplanner/internal/errs"
	"taskplanner/internal/model"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create adds a new task to the database
func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	return r.db.WithContext(ctx).Create(task).Error
}

// GetByID retrieves a task by its ID
func (r *TaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	var task model.Task
	result := r.db.WithContext(ctx).First(&task, "id = ?", id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("task", id)
		}
		return nil, result.Error
	}
	return &task, nil
}

// GetForUpdate retrieves a task and, on postgres, locks its row until the
// surrounding transaction ends.
func (r *TaskRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*model.Task, error) {
	q := r.db.WithContext(ctx)
	if supportsRowLocks(q) {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var task model.Task
	if err := q.First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("task", id)
		}
		return nil, err
	}
	return &task, nil
}

// List returns all tasks ordered the way the board shows them
func (r *TaskRepository) List(ctx context.Context) ([]model.Task, error) {
	var tasks []model.Task
	err := r.db.WithContext(ctx).Order("week").Order("priority").Order("created_at").Find(&tasks).Error
	return tasks, err
}

// ListByIDs returns the tasks with the given ids, in no particular order
func (r *TaskRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) ([]model.Task, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tasks []model.Task
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Order("week").Order("priority").Find(&tasks).Error
	return tasks, err
}

// CountNotDone counts how many of ids are not done
func (r *TaskRepository) CountNotDone(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id IN ? AND status <> ?", ids, model.StatusDone).
		Count(&count).Error
	return count, err
}

// Update updates an existing task
func (r *TaskRepository) Update(ctx context.Context, task *model.Task) error {
	result := r.db.WithContext(ctx).Omit(clause.Associations).Save(task)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("task", task.ID)
	}
	return nil
}

// SaveState writes only the derived columns of a task
func (r *TaskRepository) SaveState(ctx context.Context, task *model.Task, now time.Time) error {
	task.UpdatedAt = now
	result := r.db.WithContext(ctx).Model(&model.Task{}).
		Where("id = ?", task.ID).
		Updates(map[string]any{
			"status":       task.Status,
			"progress":     task.Progress,
			"started_at":   task.StartedAt,
			"completed_at": task.CompletedAt,
			"updated_at":   now,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("task", task.ID)
	}
	return nil
}

// Delete removes a task by its ID
func (r *TaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Task{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("task", id)
	}
	return nil
}

// DeleteAll wipes every task
func (r *TaskRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Task{}).Error
}

func supportsRowLocks(db *gorm.DB) bool {
	return db.Dialector.Name() == "postgres"
}
