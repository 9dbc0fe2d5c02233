package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"taskplanner/internal/graph"
	"taskplanner/internal/model"
)

// DependencyRepository stores dependency edges. It is the graph.EdgeStore
// used inside a unit of work.
type DependencyRepository struct {
	db *gorm.DB
}

var _ graph.EdgeStore = (*DependencyRepository)(nil)

func NewDependencyRepository(db *gorm.DB) *DependencyRepository {
	return &DependencyRepository{db: db}
}

func (r *DependencyRepository) Predecessors(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Dependency{}).
		Where("task_id = ?", id).
		Order("created_at").
		Pluck("depends_on_id", &ids).Error
	return ids, err
}

func (r *DependencyRepository) Dependents(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Dependency{}).
		Where("depends_on_id = ?", id).
		Order("created_at").
		Pluck("task_id", &ids).Error
	return ids, err
}

func (r *DependencyRepository) HasEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Dependency{}).
		Where("task_id = ? AND depends_on_id = ?", taskID, dependsOnID).
		Count(&count).Error
	return count > 0, err
}

func (r *DependencyRepository) InsertEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) error {
	dep := &model.Dependency{TaskID: taskID, DependsOnID: dependsOnID}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(dep).Error
}

func (r *DependencyRepository) DeleteEdge(ctx context.Context, taskID, dependsOnID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("task_id = ? AND depends_on_id = ?", taskID, dependsOnID).
		Delete(&model.Dependency{})
	return result.RowsAffected > 0, result.Error
}

// List returns every edge
func (r *DependencyRepository) List(ctx context.Context) ([]model.Dependency, error) {
	var deps []model.Dependency
	err := r.db.WithContext(ctx).Order("created_at").Find(&deps).Error
	return deps, err
}

// DeleteTouching removes every edge in which the task takes part and
// returns the tasks that depended on it.
func (r *DependencyRepository) DeleteTouching(ctx context.Context, taskID uuid.UUID) ([]uuid.UUID, error) {
	dependents, err := r.Dependents(ctx, taskID)
	if err != nil {
		return nil, err
	}
	err = r.db.WithContext(ctx).
		Where("task_id = ? OR depends_on_id = ?", taskID, taskID).
		Delete(&model.Dependency{}).Error
	return dependents, err
}

func (r *DependencyRepository) DeleteAll(ctx context.Context) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Dependency{}).Error
}
