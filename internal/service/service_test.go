package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/repository/repotest"

	"github.com/stretchr/testify/require"
)

// recorder captures broadcast event names in order.
type recorder struct {
	NopBroadcaster
	mu         sync.Mutex
	events     []string
	activities []*domain.Activity
}

func (r *recorder) add(name string) {
	r.mu.Lock()
	r.events = append(r.events, name)
	r.mu.Unlock()
}

func (r *recorder) TaskCreated(*domain.Task) { r.add("taskCreated") }
func (r *recorder) TaskUpdated(*domain.Task) { r.add("taskUpdated") }
func (r *recorder) TaskDeleted(int64) { r.add("taskDeleted") }
func (r *recorder) StatusCreated(*domain.TaskStatus) { r.add("statusCreated") }
func (r *recorder) StatusUpdated(*domain.TaskStatus) { r.add("statusUpdated") }
func (r *recorder) StatusDeleted(int64) { r.add("statusDeleted") }
func (r *recorder) StatusesReordered([]domain.TaskStatus) { r.add("statusesReordered") }
func (r *recorder) CommentAdded(int64, *domain.Comment) { r.add("commentAdded") }
func (r *recorder) NotificationRead(*domain.Activity, int64) { r.add("notificationRead") }
func (r *recorder) NotificationsCleared(int64, int64) { r.add("notificationsCleared") }

func (r *recorder) ActivityCreated(a *domain.Activity) {
	r.add("activityCreated")
	r.mu.Lock()
	r.activities = append(r.activities, a)
	r.mu.Unlock()
}

func (r *recorder) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

type invalidations struct {
	mu sync.Mutex
	n  int
}

func (i *invalidations) InvalidateStats(context.Context) {
	i.mu.Lock()
	i.n++
	i.mu.Unlock()
}

func (i *invalidations) count() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.n
}

type fixture struct {
	store *repotest.Store
	rec   *recorder
	inv   *invalidations
	acts  *ActivityService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{store: &repotest.Store{}, rec: &recorder{}, inv: &invalidations{}}
	f.acts = NewActivityService(f.store, f.rec)
	t.Cleanup(func() { f.store.AssertExpectations(t) })
	return f
}

func ptr[T any](v T) *T { return &v }

var (
	pending   = &domain.TaskStatus{ID: 1, Name: domain.StatusPending, Color: "#FFB020", Order: 0}
	progress  = &domain.TaskStatus{ID: 2, Name: domain.StatusInProgress, Color: "#3E79F7", Order: 1}
	completed = &domain.TaskStatus{ID: 3, Name: domain.StatusCompleted, Color: "#4CAF50", Order: 2}
	ana       = &domain.User{ID: 1, Name: "Ana", Email: "ana@example.com"}
	bruno     = &domain.User{ID: 2, Name: "Bruno", Email: "bruno@example.com"}
)

func fixedClock(t *testing.T) func() time.Time {
	t.Helper()
	now, err := time.Parse(time.RFC3339, "2024-03-15T14:30:00Z")
	require.NoError(t, err)
	return func() time.Time { return now }
}
