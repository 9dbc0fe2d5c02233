package repository_test

import (
	"context"
	"io"
	"testing"
	"time"

	"taskplanner/internal/errs"
	"taskplanner/internal/model"
	"taskplanner/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	dialector := postgres.New(postgres.Config{
		DSN:                  "sqlmock_db_0",
		DriverName:           "postgres",
		Conn:                 db,
		PreferSimpleProtocol: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)

	return gormDB, mock
}

var taskColumns = []string{"id", "slug", "title", "description", "status", "priority", "week", "progress", "created_at", "updated_at"}

func TestTaskRepository_GetByID_Found(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = .* LIMIT`).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(id.String(), "design", "Design", "", "todo", 2, 1, 0.0, now, now))

	// Act
	task, err := repo.GetByID(context.Background(), id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, id, task.ID)
	assert.Equal(t, model.StatusTodo, task.Status)
	assert.Equal(t, model.PriorityNormal, task.Priority)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetByID_NotFound(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	id := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = .* LIMIT`).
		WillReturnRows(sqlmock.NewRows(taskColumns))

	// Act
	task, err := repo.GetByID(context.Background(), id)

	// Assert
	assert.Nil(t, task)
	var nf *errs.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "task", nf.Kind)
	assert.Equal(t, id.String(), nf.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_GetForUpdate_LocksRowOnPostgres(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	id := uuid.New()
	now := time.Now()

	mock.ExpectQuery(`SELECT \* FROM "tasks" WHERE id = .* FOR UPDATE`).
		WillReturnRows(sqlmock.NewRows(taskColumns).
			AddRow(id.String(), "build", "Build", "", "blocked", 1, 2, 0.0, now, now))

	// Act
	task, err := repo.GetForUpdate(context.Background(), id)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, model.StatusBlocked, task.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_CountNotDone(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)

	// No prerequisites means no query at all
	count, err := repo.CountNotDone(context.Background(), nil)
	require.NoError(t, err)
	assert.Zero(t, count)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks" WHERE id IN .* AND status <> .*`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))

	count, err = repo.CountNotDone(context.Background(), []uuid.UUID{uuid.New(), uuid.New(), uuid.New()})

	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_SaveState(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	now := time.Now().UTC()
	task := &model.Task{ID: uuid.New(), Status: model.StatusDone, Progress: 100, StartedAt: &now, CompletedAt: &now}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET .*"status"=.* WHERE id = .*`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	// Act
	err := repo.SaveState(context.Background(), task, now)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, now, task.UpdatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTaskRepository_SaveState_MissingRow(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewTaskRepository(gormDB)
	task := &model.Task{ID: uuid.New(), Status: model.StatusTodo}

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "tasks" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	err := repo.SaveState(context.Background(), task, time.Now())

	assert.True(t, errs.IsNotFound(err))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestDependencyRepository_HasEdge(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	repo := repository.NewDependencyRepository(gormDB)
	taskID, depID := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT count\(\*\) FROM "dependencies" WHERE task_id = .* AND depends_on_id = .*`).
		WithArgs(taskID, depID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	ok, err := repo.HasEdge(context.Background(), taskID, depID)

	require.NoError(t, err)
	assert.True(t, ok)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_RetriesConflictsThenGivesUp(t *testing.T) {
	// Arrange
	gormDB, mock := setupMockDB(t)
	uow := repository.NewUnitOfWork(gormDB, 2, log.New(io.Discard))
	serialization := &pgconn.PgError{Code: "40001", Message: "could not serialize access"}

	for i := 0; i < 3; i++ {
		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT count\(\*\) FROM "tasks"`).WillReturnError(serialization)
		mock.ExpectRollback()
	}

	// Act
	attempts := 0
	err := uow.Do(context.Background(), func(tx *repository.Tx) error {
		attempts++
		_, err := tx.Tasks.CountNotDone(context.Background(), []uuid.UUID{uuid.New()})
		return err
	})

	// Assert
	assert.Equal(t, 3, attempts)
	assert.True(t, errs.IsConflict(err))
	assert.ErrorIs(t, err, serialization)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_OtherErrorsAreNotRetried(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	uow := repository.NewUnitOfWork(gormDB, 3, log.New(io.Discard))

	mock.ExpectBegin()
	mock.ExpectRollback()

	attempts := 0
	err := uow.Do(context.Background(), func(tx *repository.Tx) error {
		attempts++
		return &errs.BlockedError{TaskID: uuid.New()}
	})

	assert.Equal(t, 1, attempts)
	var blocked *errs.BlockedError
	assert.ErrorAs(t, err, &blocked)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnitOfWork_Commits(t *testing.T) {
	gormDB, mock := setupMockDB(t)
	uow := repository.NewUnitOfWork(gormDB, 1, log.New(io.Discard))

	mock.ExpectBegin()
	mock.ExpectCommit()

	err := uow.Do(context.Background(), func(tx *repository.Tx) error { return nil })

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
