package service

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"taskboard/internal/domain"
	"taskboard/internal/logger"
	"taskboard/internal/repository"
)

const RecentTasksPageSize = 5

type TaskService struct {
	store      repository.Store
	activities *ActivityService
	events     Broadcaster
	stats      StatsInvalidator
}

func NewTaskService(store repository.Store, activities *ActivityService, events Broadcaster, stats StatsInvalidator) *TaskService {
	return &TaskService{
		store:      store,
		activities: activities,
		events:     orNop(events),
		stats:      stats,
	}
}

type CreateTaskInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	DueDate     *Date  `json:"dueDate"`
	StatusID    int64  `json:"statusId"`
	AssigneeID  *int64 `json:"assigneeId"`
}

// OptionalID tells an absent field apart from an explicit null.
type OptionalID struct {
	Set   bool
	Value *int64
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	o.Value = &v
	return nil
}

// nonZero maps an id of 0 to nil; no row ever has id 0.
func nonZero(id *int64) *int64 {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}

// Date accepts RFC3339 timestamps and plain YYYY-MM-DD dates.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == "" {
		return nil
	}
	t, _, err := parseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

type UpdateTaskInput struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	DueDate     *Date      `json:"dueDate"`
	StatusID    *int64     `json:"statusId"`
	AssigneeID  OptionalID `json:"assigneeId"`
}

type CommentInput struct {
	Text string `json:"text"`
}

// List returns the tasks userID created or is assigned to, newest first,
// with their comments.
func (s *TaskService) List(ctx context.Context, userID int64) ([]domain.Task, error) {
	tasks, err := s.store.ListTasks(ctx, repository.TaskFilter{MemberID: userID})
	if err != nil {
		return nil, err
	}
	if err := attachComments(ctx, s.store, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) Recent(ctx context.Context) ([]domain.Task, error) {
	return s.store.ListTasks(ctx, repository.TaskFilter{Limit: RecentTasksPageSize})
}

// Stats counts every task per status.
func (s *TaskService) Stats(ctx context.Context) ([]domain.StatusCount, error) {
	return s.store.CountTasksByStatus(ctx, repository.TaskFilter{})
}

func (s *TaskService) Create(ctx context.Context, actor *domain.User, in CreateTaskInput) (*domain.Task, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	if in.Title == "" || in.Description == "" || in.DueDate == nil || in.DueDate.IsZero() || in.StatusID == 0 {
		return nil, domain.Validation("Todos los campos son requeridos")
	}

	in.AssigneeID = nonZero(in.AssigneeID)

	var (
		task     *domain.Task
		activity *domain.Activity
	)
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		if _, err := q.GetStatus(ctx, in.StatusID); err != nil {
			return err
		}
		if in.AssigneeID != nil {
			if _, err := q.GetUserByID(ctx, *in.AssigneeID); err != nil {
				return err
			}
		}

		t := &domain.Task{
			Title:       in.Title,
			Description: in.Description,
			DueDate:     in.DueDate.Time,
			StatusID:    in.StatusID,
			UserID:      actor.ID,
			AssigneeID:  in.AssigneeID,
		}
		if err := q.CreateTask(ctx, t); err != nil {
			return err
		}

		var err error
		if task, err = q.GetTask(ctx, t.ID); err != nil {
			return err
		}
		activity, err = s.activities.Record(ctx, q, actor, domain.ActivityTaskCreated, task, domain.DescribeTaskCreated(task.Title))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.TaskCreated(task)
	s.activities.Publish(activity)
	invalidate(ctx, s.stats)
	logger.WithContext(ctx).Info("task created", "task_id", task.ID, "user_id", actor.ID)
	return task, nil
}

func (s *TaskService) Update(ctx context.Context, actor *domain.User, taskID int64, in UpdateTaskInput) (*domain.Task, error) {
	in.StatusID = nonZero(in.StatusID)
	if in.AssigneeID.Value != nil && *in.AssigneeID.Value == 0 {
		in.AssigneeID = OptionalID{}
	}

	var (
		task       *domain.Task
		activities []*domain.Activity
	)
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		t, err := q.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		if in.Title != nil {
			if title := strings.TrimSpace(*in.Title); title != "" {
				t.Title = title
			}
		}
		if in.Description != nil {
			if desc := strings.TrimSpace(*in.Description); desc != "" {
				t.Description = desc
			}
		}
		if in.DueDate != nil && !in.DueDate.IsZero() {
			t.DueDate = in.DueDate.Time
		}

		var newStatus *domain.TaskStatus
		if in.StatusID != nil && *in.StatusID != t.StatusID {
			if newStatus, err = q.GetStatus(ctx, *in.StatusID); err != nil {
				return err
			}
			t.StatusID = newStatus.ID
		}

		var (
			assigneeChanged bool
			assigneeName    string
		)
		if in.AssigneeID.Set && !sameID(in.AssigneeID.Value, t.AssigneeID) {
			if in.AssigneeID.Value != nil {
				u, err := q.GetUserByID(ctx, *in.AssigneeID.Value)
				if err != nil {
					return err
				}
				assigneeName = u.Name
			}
			t.AssigneeID = in.AssigneeID.Value
			assigneeChanged = true
		}

		if err := q.UpdateTask(ctx, t); err != nil {
			return err
		}
		if task, err = q.GetTask(ctx, taskID); err != nil {
			return err
		}

		record := func(typ domain.ActivityType, desc string) error {
			a, err := s.activities.Record(ctx, q, actor, typ, task, desc)
			if err == nil {
				activities = append(activities, a)
			}
			return err
		}

		if newStatus != nil {
			if err := record(domain.ActivityStatusChanged, domain.DescribeStatusChanged(task.Title, newStatus.Name)); err != nil {
				return err
			}
		}
		if assigneeChanged {
			if err := record(domain.ActivityAssigneeChanged, domain.DescribeAssigneeChanged(task.Title, assigneeName)); err != nil {
				return err
			}
		}
		if newStatus == nil && !assigneeChanged && (in.Title != nil || in.Description != nil || in.DueDate != nil) {
			if err := record(domain.ActivityTaskUpdated, domain.DescribeTaskUpdated(task.Title)); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.TaskUpdated(task)
	s.activities.Publish(activities...)
	invalidate(ctx, s.stats)
	return task, nil
}

func (s *TaskService) AddComment(ctx context.Context, actor *domain.User, taskID int64, in CommentInput) (*domain.Comment, error) {
	text := strings.TrimSpace(in.Text)
	if text == "" {
		return nil, domain.Validation("El texto del comentario es requerido")
	}

	var (
		comment  *domain.Comment
		activity *domain.Activity
	)
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		task, err := q.GetTask(ctx, taskID)
		if err != nil {
			return err
		}

		comment = &domain.Comment{Text: text, UserID: actor.ID, TaskID: task.ID}
		if err := q.CreateComment(ctx, comment); err != nil {
			return err
		}
		comment.User = &domain.User{ID: actor.ID, Name: actor.Name, Email: actor.Email}

		activity, err = s.activities.Record(ctx, q, actor, domain.ActivityCommentAdded, task, domain.DescribeCommentAdded(task.Title))
		return err
	})
	if err != nil {
		return nil, err
	}

	s.events.CommentAdded(taskID, comment)
	s.activities.Publish(activity)
	invalidate(ctx, s.stats)
	return comment, nil
}

// Delete is allowed for the creator or the assignee. The activity row is
// written first and keeps a null task reference once the task is gone.
func (s *TaskService) Delete(ctx context.Context, actor *domain.User, taskID int64) error {
	var activity *domain.Activity
	err := s.store.InTx(ctx, func(q repository.Querier) error {
		task, err := q.GetTask(ctx, taskID)
		if err != nil {
			return err
		}
		if !task.CanDelete(actor.ID) {
			return domain.Forbidden("No autorizado")
		}

		activity, err = s.activities.Record(ctx, q, actor, domain.ActivityTaskDeleted, task, domain.DescribeTaskDeleted(task.Title))
		if err != nil {
			return err
		}
		return q.DeleteTask(ctx, taskID)
	})
	if err != nil {
		return err
	}

	s.events.TaskDeleted(taskID)
	s.activities.Publish(activity)
	invalidate(ctx, s.stats)
	logger.WithContext(ctx).Info("task deleted", "task_id", taskID, "user_id", actor.ID)
	return nil
}

func sameID(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
