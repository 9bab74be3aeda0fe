// Package repotest provides a testify mock of repository.Store.
package repotest

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/repository"

	"github.com/stretchr/testify/mock"
)

// Store runs InTx and ReadSnapshot callbacks against itself, so expectations
// set on the mock cover queries made inside a transaction too. Set
// FailCommit to make InTx return an error after fn succeeds.
type Store struct {
	mock.Mock
	FailCommit error
	Txs        int
}

var _ repository.Store = (*Store)(nil)

func (m *Store) InTx(ctx context.Context, fn func(q repository.Querier) error) error {
	m.Txs++
	if err := fn(m); err != nil {
		return err
	}
	return m.FailCommit
}

func (m *Store) ReadSnapshot(ctx context.Context, fn func(q repository.Querier) error) error {
	return fn(m)
}

func (m *Store) CreateUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *Store) GetUserByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.User), args.Error(1)
}

func (m *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *Store) CountUsers(ctx context.Context, w repository.Window) (int64, error) {
	args := m.Called(ctx, w)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) ListStatuses(ctx context.Context) ([]domain.TaskStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.TaskStatus), args.Error(1)
}

func (m *Store) GetStatus(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TaskStatus), args.Error(1)
}

func (m *Store) CreateStatus(ctx context.Context, st *domain.TaskStatus) error {
	return m.Called(ctx, st).Error(0)
}

func (m *Store) UpdateStatus(ctx context.Context, st *domain.TaskStatus) error {
	return m.Called(ctx, st).Error(0)
}

func (m *Store) DeleteStatus(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Store) SetStatusOrder(ctx context.Context, id int64, order int) error {
	return m.Called(ctx, id, order).Error(0)
}

func (m *Store) CreateTask(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *Store) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Task), args.Error(1)
}

func (m *Store) UpdateTask(ctx context.Context, t *domain.Task) error {
	return m.Called(ctx, t).Error(0)
}

func (m *Store) DeleteTask(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Store) ListTasks(ctx context.Context, f repository.TaskFilter) ([]domain.Task, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Task), args.Error(1)
}

func (m *Store) CountTasks(ctx context.Context, f repository.TaskFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) CreateComment(ctx context.Context, c *domain.Comment) error {
	return m.Called(ctx, c).Error(0)
}

func (m *Store) ListCommentsForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Comment, error) {
	args := m.Called(ctx, taskIDs)
	return args.Get(0).(map[int64][]domain.Comment), args.Error(1)
}

func (m *Store) CreateActivity(ctx context.Context, a *domain.Activity) error {
	return m.Called(ctx, a).Error(0)
}

func (m *Store) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Activity), args.Error(1)
}

func (m *Store) ListActivities(ctx context.Context, f repository.ActivityFilter) ([]domain.Activity, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.Activity), args.Error(1)
}

func (m *Store) CountActivities(ctx context.Context, f repository.ActivityFilter) (int64, error) {
	args := m.Called(ctx, f)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) MarkActivityRead(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *Store) MarkNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *Store) CountTasksByStatus(ctx context.Context, f repository.TaskFilter) ([]domain.StatusCount, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.StatusCount), args.Error(1)
}

func (m *Store) CountActivitiesByType(ctx context.Context, w repository.Window) ([]domain.ActivityTypeCount, error) {
	args := m.Called(ctx, w)
	return args.Get(0).([]domain.ActivityTypeCount), args.Error(1)
}

func (m *Store) ListUserTaskCounts(ctx context.Context, f repository.UserTaskFilter) ([]domain.UserTaskCount, error) {
	args := m.Called(ctx, f)
	return args.Get(0).([]domain.UserTaskCount), args.Error(1)
}
