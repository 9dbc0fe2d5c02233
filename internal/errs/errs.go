// Package errs holds the error taxonomy shared by the planner layers.
// Every error here is recoverable; the HTTP layer decides how to present it.
package errs

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ValidationError reports bad or missing input.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// Invalid builds a ValidationError.
func Invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Msg: fmt.Sprintf(format, args...)}
}

// NotFoundError reports an unknown id.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return e.Kind + " not found"
	}
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// NotFound builds a NotFoundError for a uuid.
func NotFound(kind string, id uuid.UUID) error {
	return &NotFoundError{Kind: kind, ID: id.String()}
}

// CycleError is returned when a new edge would close a loop. Path lists the
// tasks of the loop, starting and ending with the dependent task.
type CycleError struct {
	Path []uuid.UUID
}

func (e *CycleError) Error() string {
	if len(e.Path) == 0 {
		return "dependency cycle detected"
	}
	parts := make([]string, len(e.Path))
	for i, id := range e.Path {
		parts[i] = id.String()
	}
	return "dependency cycle detected: " + strings.Join(parts, " -> ")
}

// SelfDependencyError is returned when a task is made to depend on itself.
type SelfDependencyError struct {
	TaskID uuid.UUID
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("task %s cannot depend on itself", e.TaskID)
}

// DuplicateEdgeError is returned when the dependency already exists.
type DuplicateEdgeError struct {
	TaskID      uuid.UUID
	DependsOnID uuid.UUID
}

func (e *DuplicateEdgeError) Error() string {
	return fmt.Sprintf("task %s already depends on %s", e.TaskID, e.DependsOnID)
}

// BlockedError is returned when an explicit transition is refused because
// prerequisites are not done.
type BlockedError struct {
	TaskID uuid.UUID
	Reason string
}

func (e *BlockedError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("task %s has incomplete dependencies", e.TaskID)
	}
	return fmt.Sprintf("task %s is blocked: %s", e.TaskID, e.Reason)
}

// ConflictError wraps a transaction failure caused by a concurrent writer.
// Callers may retry the whole operation.
type ConflictError struct {
	Err error
}

func (e *ConflictError) Error() string {
	return "concurrent update conflict: " + e.Err.Error()
}

func (e *ConflictError) Unwrap() error {
	return e.Err
}

// IsNotFound reports whether err is or wraps a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsConflict reports whether err is or wraps a ConflictError.
func IsConflict(err error) bool {
	var c *ConflictError
	return errors.As(err, &c)
}
