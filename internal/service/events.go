package service

import (
	"context"

	"taskboard/internal/domain"
)

// Broadcaster pushes committed changes to realtime clients.
// Implementations must not fail the caller; delivery is best effort.
type Broadcaster interface {
	TaskCreated(t *domain.Task)
	TaskUpdated(t *domain.Task)
	TaskDeleted(id int64)
	StatusCreated(st *domain.TaskStatus)
	StatusUpdated(st *domain.TaskStatus)
	StatusDeleted(id int64)
	StatusesReordered(statuses []domain.TaskStatus)
	CommentAdded(taskID int64, c *domain.Comment)
	ActivityCreated(a *domain.Activity)
	NotificationRead(a *domain.Activity, userID int64)
	NotificationsCleared(userID int64, updated int64)
}

// StatsInvalidator drops cached aggregates after a mutation.
type StatsInvalidator interface {
	InvalidateStats(ctx context.Context)
}

type NopBroadcaster struct{}

func (NopBroadcaster) TaskCreated(*domain.Task) {}
func (NopBroadcaster) TaskUpdated(*domain.Task) {}
func (NopBroadcaster) TaskDeleted(int64) {}
func (NopBroadcaster) StatusCreated(*domain.TaskStatus) {}
func (NopBroadcaster) StatusUpdated(*domain.TaskStatus) {}
func (NopBroadcaster) StatusDeleted(int64) {}
func (NopBroadcaster) StatusesReordered([]domain.TaskStatus) {}
func (NopBroadcaster) CommentAdded(int64, *domain.Comment) {}
func (NopBroadcaster) ActivityCreated(*domain.Activity) {}
func (NopBroadcaster) NotificationRead(*domain.Activity, int64) {}
func (NopBroadcaster) NotificationsCleared(int64, int64) {}

func orNop(b Broadcaster) Broadcaster {
	if b == nil {
		return NopBroadcaster{}
	}
	return b
}

func invalidate(ctx context.Context, inv StatsInvalidator) {
	if inv != nil {
		inv.InvalidateStats(ctx)
	}
}
