package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Dependency is the edge DependsOnID -> TaskID: TaskID cannot be done
// until DependsOnID is done.
type Dependency struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID      uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dependency_pair,priority:1;index"`
	DependsOnID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_dependency_pair,priority:2;index"`
	CreatedAt   time.Time

	Task      Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
	DependsOn Task `gorm:"foreignKey:DependsOnID;constraint:OnDelete:CASCADE"`
}

func (d *Dependency) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
