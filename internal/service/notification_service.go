package service

import (
	"context"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

const NotificationPageSize = 10

// NotificationService exposes activities on tasks assigned to a user as
// that user's notifications.
type NotificationService struct {
	store  repository.Store
	events Broadcaster
	stats  StatsInvalidator
}

func NewNotificationService(store repository.Store, events Broadcaster, stats StatsInvalidator) *NotificationService {
	return &NotificationService{store: store, events: orNop(events), stats: stats}
}

func (s *NotificationService) Unread(ctx context.Context, userID int64) ([]domain.Activity, error) {
	return s.store.ListActivities(ctx, repository.ActivityFilter{
		AssigneeID: userID,
		UnreadOnly: true,
		Limit:      NotificationPageSize,
	})
}

func (s *NotificationService) Count(ctx context.Context, userID int64) (int64, error) {
	return s.store.CountActivities(ctx, repository.ActivityFilter{AssigneeID: userID, UnreadOnly: true})
}

// MarkRead is idempotent. Only the assignee of the activity's task may mark it.
func (s *NotificationService) MarkRead(ctx context.Context, activityID, userID int64) (*domain.Activity, error) {
	var (
		a       *domain.Activity
		changed bool
	)
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		var err error
		a, err = q.GetActivity(ctx, activityID)
		if err != nil {
			return err
		}
		assignee := a.AssigneeID()
		if assignee == nil || *assignee != userID {
			return domain.Forbidden("No autorizado")
		}
		if a.Read {
			return nil
		}
		if err := q.MarkActivityRead(ctx, activityID); err != nil {
			return err
		}
		a.Read = true
		changed = true
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.NotificationRead(a, userID)
	if changed {
		invalidate(ctx, s.stats)
	}
	return a, nil
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID int64) (int64, error) {
	n, err := s.store.MarkNotificationsRead(ctx, userID)
	if err != nil {
		return 0, err
	}
	s.events.NotificationsCleared(userID, n)
	if n > 0 {
		invalidate(ctx, s.stats)
	}
	return n, nil
}
