package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskplanner/internal/errs"
	"taskplanner/internal/model"
)

type SubtaskRepository struct {
	db *gorm.DB
}

func NewSubtaskRepository(db *gorm.DB) *SubtaskRepository {
	return &SubtaskRepository{db: db}
}

// Create appends a subtask after the task's existing ones
func (r *SubtaskRepository) Create(ctx context.Context, subtask *model.Subtask) error {
	pos, err := r.nextPosition(ctx, subtask.TaskID)
	if err != nil {
		return err
	}
	subtask.Position = pos
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(subtask).Error
}

func (r *SubtaskRepository) nextPosition(ctx context.Context, taskID uuid.UUID) (int, error) {
	var maxPosition struct {
		Max *int
	}
	err := r.db.WithContext(ctx).Model(&model.Subtask{}).
		Select("MAX(position) as max").
		Where("task_id = ?", taskID).
		Scan(&maxPosition).Error
	if err != nil || maxPosition.Max == nil {
		return 0, err
	}
	return *maxPosition.Max + 1, nil
}

func (r *SubtaskRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Subtask, error) {
	var subtask model.Subtask
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&subtask).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errs.NotFound("subtask", id)
		}
		return nil, err
	}
	return &subtask, nil
}

// ListByTask returns a task's subtasks in insertion order
func (r *SubtaskRepository) ListByTask(ctx context.Context, taskID uuid.UUID) ([]model.Subtask, error) {
	var subtasks []model.Subtask
	err := r.db.WithContext(ctx).Where("task_id = ?", taskID).Order("position").Find(&subtasks).Error
	return subtasks, err
}

// Counts returns the total and done number of a task's subtasks
func (r *SubtaskRepository) Counts(ctx context.Context, taskID uuid.UUID) (total, done int, err error) {
	var row struct {
		Total int
		Done  int
	}
	err = r.db.WithContext(ctx).Model(&model.Subtask{}).
		Select("COUNT(*) AS total, COALESCE(SUM(CASE WHEN done THEN 1 ELSE 0 END), 0) AS done").
		Where("task_id = ?", taskID).
		Scan(&row).Error
	return row.Total, row.Done, err
}

func (r *SubtaskRepository) SetDone(ctx context.Context, id uuid.UUID, done bool) error {
	result := r.db.WithContext(ctx).Model(&model.Subtask{}).Where("id = ?", id).Update("done", done)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("subtask", id)
	}
	return nil
}

// SetAllDone marks every subtask of a task
func (r *SubtaskRepository) SetAllDone(ctx context.Context, taskID uuid.UUID, done bool) error {
	return r.db.WithContext(ctx).Model(&model.Subtask{}).Where("task_id = ?", taskID).Update("done", done).Error
}

func (r *SubtaskRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&model.Subtask{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NotFound("subtask", id)
	}
	return nil
}

func (r *SubtaskRepository) DeleteByTask(ctx context.Context, taskID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("task_id = ?", taskID).Delete(&model.Subtask{}).Error
}

func (r *SubtaskRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Subtask{}).Error
}
