package model

import (
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Status is the lifecycle state of a task.
type Status string

const (
	StatusTodo       Status = "todo"
	StatusInProgress Status = "in_progress"
	StatusDone       Status = "done"
	StatusBlocked    Status = "blocked"
)

// Valid reports whether s is one of the four known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusInProgress, StatusDone, StatusBlocked:
		return true
	}
	return false
}

// Settable reports whether s may be requested explicitly by a caller.
// Blocked is always derived.
func (s Status) Settable() bool {
	return s == StatusTodo || s == StatusInProgress || s == StatusDone
}

// Priority orders tasks inside a week: lower is more urgent.
type Priority int

const (
	PriorityHigh   Priority = 1
	PriorityNormal Priority = 2
	PriorityLow    Priority = 3
)

func (p Priority) Valid() bool {
	return p >= PriorityHigh && p <= PriorityLow
}

func (p Priority) String() string {
	switch p {
	case PriorityHigh:
		return "High"
	case PriorityNormal:
		return "Normal"
	case PriorityLow:
		return "Low"
	}
	return "Unknown"
}

type Task struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	Slug        string    `gorm:"index"`
	Title       string    `gorm:"not null"`
	Description string
	Status      Status   `gorm:"type:varchar(20);not null;index"`
	Priority    Priority `gorm:"not null"`
	Week        int      `gorm:"not null;index"`
	StartDate   *time.Time
	EndDate     *time.Time
	StartedAt   *time.Time
	CompletedAt *time.Time
	Progress    float64 `gorm:"not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.Status == "" {
		t.Status = StatusTodo
	}
	if t.Priority == 0 {
		t.Priority = PriorityNormal
	}
	return nil
}

// SetWeek schedules the task into a plan week. Week 0 means unscheduled and
// clears the dates; week n spans the seven days starting (n-1) weeks after
// planStart.
func (t *Task) SetWeek(week int, planStart time.Time) {
	t.Week = week
	if week <= 0 {
		t.StartDate, t.EndDate = nil, nil
		return
	}
	start := planStart.AddDate(0, 0, (week-1)*7)
	end := start.AddDate(0, 0, 6)
	t.StartDate, t.EndDate = &start, &end
}

var slugPattern = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify turns a title into a URL friendly slug.
func Slugify(title string) string {
	s := slugPattern.ReplaceAllString(strings.ToLower(title), "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return "task"
	}
	return s
}
