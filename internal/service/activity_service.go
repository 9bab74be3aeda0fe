package service

import (
	"context"
	"fmt"

	"taskboard/internal/domain"
	"taskboard/internal/repository"
)

const (
	RecentActivityPageSize = 10
	UserActivityPageSize   = 20
)

// ActivityService records and reads the activity log.
type ActivityService struct {
	store  repository.Store
	events Broadcaster
}

func NewActivityService(store repository.Store, events Broadcaster) *ActivityService {
	return &ActivityService{store: store, events: orNop(events)}
}

// Record appends one activity using q, so it commits or rolls back with the
// mutation that caused it. task may be nil.
func (s *ActivityService) Record(ctx context.Context, q repository.Querier, actor *domain.User, typ domain.ActivityType, task *domain.Task, description string) (*domain.Activity, error) {
	if !typ.Valid() {
		return nil, fmt.Errorf("unknown activity type %q", typ)
	}

	a := &domain.Activity{
		Type:        typ,
		Description: description,
		UserID:      actor.ID,
		User:        &domain.User{ID: actor.ID, Name: actor.Name, Email: actor.Email},
	}
	if task != nil {
		id := task.ID
		a.TaskID = &id
		a.Task = &domain.Task{
			ID:         task.ID,
			Title:      task.Title,
			StatusID:   task.StatusID,
			Status:     task.Status,
			AssigneeID: task.AssigneeID,
		}
	}

	if err := q.CreateActivity(ctx, a); err != nil {
		return nil, fmt.Errorf("record activity: %w", err)
	}
	return a, nil
}

// Publish broadcasts activities that have been committed.
func (s *ActivityService) Publish(activities ...*domain.Activity) {
	for _, a := range activities {
		if a != nil {
			s.events.ActivityCreated(a)
		}
	}
}

func (s *ActivityService) Recent(ctx context.Context) ([]domain.Activity, error) {
	return s.store.ListActivities(ctx, repository.ActivityFilter{Limit: RecentActivityPageSize})
}

func (s *ActivityService) ForUser(ctx context.Context, userID int64) ([]domain.Activity, error) {
	return s.store.ListActivities(ctx, repository.ActivityFilter{ActorID: userID, Limit: UserActivityPageSize})
}

func (s *ActivityService) ForTask(ctx context.Context, taskID int64) ([]domain.Activity, error) {
	return s.store.ListActivities(ctx, repository.ActivityFilter{TaskID: taskID})
}
