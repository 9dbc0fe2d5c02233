package repository

import (
	"context"
	"errors"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"

	"taskplanner/internal/errs"
)

// Tx bundles the repositories bound to one open transaction.
type Tx struct {
	Tasks        *TaskRepository
	Subtasks     *SubtaskRepository
	Dependencies *DependencyRepository
}

func newTx(db *gorm.DB) *Tx {
	return &Tx{
		Tasks:        NewTaskRepository(db),
		Subtasks:     NewSubtaskRepository(db),
		Dependencies: NewDependencyRepository(db),
	}
}

// UnitOfWork runs a function inside a transaction that is committed when the
// function returns nil and rolled back on error or panic.
type UnitOfWork struct {
	db      *gorm.DB
	retries int
	logger  *log.Logger
}

func NewUnitOfWork(db *gorm.DB, retries int, logger *log.Logger) *UnitOfWork {
	if retries < 0 {
		retries = 0
	}
	if logger == nil {
		logger = log.Default()
	}
	return &UnitOfWork{db: db, retries: retries, logger: logger}
}

// Do runs fn in a fresh transaction. Conflicts with concurrent writers are
// retried from scratch; once retries run out they surface as
// errs.ConflictError. fn must not keep state across attempts.
func (u *UnitOfWork) Do(ctx context.Context, fn func(tx *Tx) error) error {
	var err error
	for attempt := 0; attempt <= u.retries; attempt++ {
		err = u.db.WithContext(ctx).Transaction(func(db *gorm.DB) error {
			return fn(newTx(db))
		})
		if err == nil {
			return nil
		}
		var conflict *errs.ConflictError
		if !errors.As(err, &conflict) && !isConflict(err) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		u.logger.Warn("transaction conflict, retrying", "attempt", attempt+1, "err", err)
	}
	return &errs.ConflictError{Err: err}
}

// Read gives access to repositories outside of a transaction.
func (u *UnitOfWork) Read() *Tx {
	return newTx(u.db)
}
