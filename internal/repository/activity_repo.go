package repository

import (
	"context"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
)

// ActivityRepository handles the append-only activity log
type ActivityRepository struct {
	db DBTX
}

func NewActivityRepository(db DBTX) *ActivityRepository {
	return &ActivityRepository{db: db}
}

// ActivityFilter narrows ListActivities and CountActivities.
type ActivityFilter struct {
	ActorID int64
	TaskID  int64
	// AssigneeID matches activities whose task is assigned to the user.
	AssigneeID int64
	// ActorOrAssigneeID matches either of the two above.
	ActorOrAssigneeID int64
	UnreadOnly        bool
	Window            Window
	Limit             int
}

func (f ActivityFilter) build(b *queryBuilder) {
	if f.ActorID != 0 {
		b.where("a.user_id = " + b.arg(f.ActorID))
	}
	if f.TaskID != 0 {
		b.where("a.task_id = " + b.arg(f.TaskID))
	}
	if f.AssigneeID != 0 {
		b.where("t.assignee_id = " + b.arg(f.AssigneeID))
	}
	if f.ActorOrAssigneeID != 0 {
		p := b.arg(f.ActorOrAssigneeID)
		b.where("(a.user_id = " + p + " OR t.assignee_id = " + p + ")")
	}
	if f.UnreadOnly {
		b.where("a.read = false")
	}
	f.Window.apply(b, "a.timestamp")
}

const activitySelect = `
	SELECT a.id, a.type, a.description, a.user_id, a.task_id, a.read, a.timestamp,
	       u.name, u.email,
	       t.title, t.assignee_id, t.status_id, s.name, s.color
	FROM activities a
	JOIN users u ON u.id = a.user_id
	LEFT JOIN tasks t ON t.id = a.task_id
	LEFT JOIN task_statuses s ON s.id = t.status_id`

func scanActivity(row pgx.Row) (*domain.Activity, error) {
	var (
		a                       domain.Activity
		u                       domain.User
		title                   *string
		assigneeID, statusID    *int64
		statusName, statusColor *string
	)
	if err := row.Scan(
		&a.ID, &a.Type, &a.Description, &a.UserID, &a.TaskID, &a.Read, &a.Timestamp,
		&u.Name, &u.Email,
		&title, &assigneeID, &statusID, &statusName, &statusColor,
	); err != nil {
		return nil, err
	}

	u.ID = a.UserID
	a.User = &u
	if a.TaskID != nil && title != nil {
		t := &domain.Task{ID: *a.TaskID, Title: *title, AssigneeID: assigneeID}
		if statusID != nil {
			t.StatusID = *statusID
			t.Status = &domain.TaskStatus{ID: *statusID, Name: deref(statusName), Color: deref(statusColor)}
		}
		a.Task = t
	}
	return &a, nil
}

func (r *ActivityRepository) CreateActivity(ctx context.Context, a *domain.Activity) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO activities (type, description, user_id, task_id)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, read, timestamp`,
		a.Type, a.Description, a.UserID, a.TaskID,
	).Scan(&a.ID, &a.Read, &a.Timestamp)
}

func (r *ActivityRepository) GetActivity(ctx context.Context, id int64) (*domain.Activity, error) {
	a, err := scanActivity(r.db.QueryRow(ctx, activitySelect+` WHERE a.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "Notificación no encontrada")
	}
	return a, nil
}

// ListActivities returns newest first.
func (r *ActivityRepository) ListActivities(ctx context.Context, f ActivityFilter) ([]domain.Activity, error) {
	var b queryBuilder
	f.build(&b)

	sql := activitySelect + b.clause("WHERE") + ` ORDER BY a.timestamp DESC, a.id DESC`
	if f.Limit > 0 {
		sql += ` LIMIT ` + b.arg(f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.Activity{}
	for rows.Next() {
		a, err := scanActivity(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *a)
	}
	return res, rows.Err()
}

func (r *ActivityRepository) CountActivities(ctx context.Context, f ActivityFilter) (int64, error) {
	var b queryBuilder
	f.build(&b)

	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM activities a LEFT JOIN tasks t ON t.id = a.task_id`+b.clause("WHERE"),
		b.args...,
	).Scan(&n)
	return n, err
}

// MarkActivityRead is idempotent.
func (r *ActivityRepository) MarkActivityRead(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `UPDATE activities SET read = true WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Notificación no encontrada")
	}
	return nil
}

// MarkNotificationsRead flags every unread activity on tasks assigned to userID.
func (r *ActivityRepository) MarkNotificationsRead(ctx context.Context, userID int64) (int64, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE activities a SET read = true
		 FROM tasks t
		 WHERE t.id = a.task_id AND t.assignee_id = $1 AND a.read = false`, userID)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}
