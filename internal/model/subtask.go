package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Subtask is owned by exactly one task and removed together with it.
// Position keeps insertion order.
type Subtask struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	TaskID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Title     string    `gorm:"not null"`
	Done      bool      `gorm:"not null"`
	Position  int       `gorm:"not null"`
	CreatedAt time.Time

	Task Task `gorm:"foreignKey:TaskID;constraint:OnDelete:CASCADE"`
}

func (s *Subtask) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
