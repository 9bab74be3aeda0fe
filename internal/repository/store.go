package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// DBTX is satisfied by *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Querier is every read and write the services need.
type Querier interface {
	CreateUser(ctx context.Context, u *domain.User) error
	GetUserByID(ctx context.Context, id int64) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	ListUsers(ctx context.Context) ([]domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	CountUsers(ctx context.Context, w Window) (int64, error)

	ListStatuses(ctx context.Context) ([]domain.TaskStatus, error)
	GetStatus(ctx context.Context, id int64) (*domain.TaskStatus, error)
	CreateStatus(ctx context.Context, st *domain.TaskStatus) error
	UpdateStatus(ctx context.Context, st *domain.TaskStatus) error
	DeleteStatus(ctx context.Context, id int64) error
	SetStatusOrder(ctx context.Context, id int64, order int) error

	CreateTask(ctx context.Context, t *domain.Task) error
	GetTask(ctx context.Context, id int64) (*domain.Task, error)
	UpdateTask(ctx context.Context, t *domain.Task) error
	DeleteTask(ctx context.Context, id int64) error
	ListTasks(ctx context.Context, f TaskFilter) ([]domain.Task, error)
	CountTasks(ctx context.Context, f TaskFilter) (int64, error)

	CreateComment(ctx context.Context, c *domain.Comment) error
	ListCommentsForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Comment, error)

	CreateActivity(ctx context.Context, a *domain.Activity) error
	GetActivity(ctx context.Context, id int64) (*domain.Activity, error)
	ListActivities(ctx context.Context, f ActivityFilter) ([]domain.Activity, error)
	CountActivities(ctx context.Context, f ActivityFilter) (int64, error)
	MarkActivityRead(ctx context.Context, id int64) error
	MarkNotificationsRead(ctx context.Context, userID int64) (int64, error)

	CountTasksByStatus(ctx context.Context, f TaskFilter) ([]domain.StatusCount, error)
	CountActivitiesByType(ctx context.Context, w Window) ([]domain.ActivityTypeCount, error)
	ListUserTaskCounts(ctx context.Context, f UserTaskFilter) ([]domain.UserTaskCount, error)
}

// Store adds transaction boundaries on top of Querier.
type Store interface {
	Querier
	// InTx runs fn inside a read-write transaction and commits if fn returns nil.
	InTx(ctx context.Context, fn func(q Querier) error) error
	// ReadSnapshot runs fn inside a REPEATABLE READ, READ ONLY transaction
	// so that every query sees the same snapshot.
	ReadSnapshot(ctx context.Context, fn func(q Querier) error) error
}

// Queries groups the per-entity repositories over one DBTX.
type Queries struct {
	*UserRepository
	*StatusRepository
	*TaskRepository
	*CommentRepository
	*ActivityRepository
	*StatsRepository
}

func New(db DBTX) *Queries {
	return &Queries{
		UserRepository:     NewUserRepository(db),
		StatusRepository:   NewStatusRepository(db),
		TaskRepository:     NewTaskRepository(db),
		CommentRepository:  NewCommentRepository(db),
		ActivityRepository: NewActivityRepository(db),
		StatsRepository:    NewStatsRepository(db),
	}
}

type PgStore struct {
	*Queries
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{Queries: New(pool), pool: pool}
}

func (s *PgStore) InTx(ctx context.Context, fn func(q Querier) error) error {
	return s.run(ctx, pgx.TxOptions{}, fn)
}

func (s *PgStore) ReadSnapshot(ctx context.Context, fn func(q Querier) error) error {
	return s.run(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (s *PgStore) run(ctx context.Context, opts pgx.TxOptions, fn func(q Querier) error) error {
	tx, err := s.pool.BeginTx(ctx, opts)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(New(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// Window is an optional [From, To] range; zero bounds are open.
type Window struct {
	From time.Time
	To   time.Time
}

func (w Window) apply(b *queryBuilder, column string) {
	if !w.From.IsZero() {
		b.where(column + " >= " + b.arg(w.From))
	}
	if !w.To.IsZero() {
		b.where(column + " <= " + b.arg(w.To))
	}
}

type queryBuilder struct {
	conds []string
	args  []any
}

func (b *queryBuilder) arg(v any) string {
	b.args = append(b.args, v)
	return "$" + strconv.Itoa(len(b.args))
}

func (b *queryBuilder) where(cond string) {
	b.conds = append(b.conds, cond)
}

func (b *queryBuilder) clause(keyword string) string {
	if len(b.conds) == 0 {
		return ""
	}
	return " " + keyword + " " + strings.Join(b.conds, " AND ")
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23503"
}

func notFound(err error, msg string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.NotFound(msg)
	}
	return err
}
