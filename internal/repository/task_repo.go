package repository

import (
	"context"
	"time"

	"taskboard/internal/domain"

	"github.com/jackc/pgx/v5"
)

type TaskRepository struct {
	db DBTX
}

func NewTaskRepository(db DBTX) *TaskRepository {
	return &TaskRepository{db: db}
}

// TaskFilter narrows ListTasks, CountTasks and CountTasksByStatus.
// Zero values mean "no restriction".
type TaskFilter struct {
	// MemberID matches tasks the user created or is assigned to.
	MemberID   int64
	AssigneeID int64
	Created    Window
	DueFrom    time.Time
	DueTo      time.Time
	// StatusName / ExcludeStatusName filter on the status name.
	StatusName        string
	ExcludeStatusName string
	OrderByDue        bool
	Limit             int
}

func (f TaskFilter) build(b *queryBuilder) {
	if f.MemberID != 0 {
		p := b.arg(f.MemberID)
		b.where("(t.user_id = " + p + " OR t.assignee_id = " + p + ")")
	}
	if f.AssigneeID != 0 {
		b.where("t.assignee_id = " + b.arg(f.AssigneeID))
	}
	f.Created.apply(b, "t.created_at")
	if !f.DueFrom.IsZero() {
		b.where("t.due_date >= " + b.arg(f.DueFrom))
	}
	if !f.DueTo.IsZero() {
		b.where("t.due_date <= " + b.arg(f.DueTo))
	}
	if f.StatusName != "" {
		b.where("s.name = " + b.arg(f.StatusName))
	}
	if f.ExcludeStatusName != "" {
		b.where("s.name <> " + b.arg(f.ExcludeStatusName))
	}
}

const taskSelect = `
	SELECT t.id, t.title, t.description, t.due_date, t.status_id, t.user_id, t.assignee_id,
	       t.created_at, t.updated_at,
	       s.name, s.color, s.sort_order,
	       c.name, c.email,
	       a.name, a.email
	FROM tasks t
	JOIN task_statuses s ON s.id = t.status_id
	JOIN users c ON c.id = t.user_id
	LEFT JOIN users a ON a.id = t.assignee_id`

func scanTask(row pgx.Row) (*domain.Task, error) {
	var (
		t                       domain.Task
		st                      domain.TaskStatus
		creator                 domain.User
		assigneeName, assigneeE *string
	)
	if err := row.Scan(
		&t.ID, &t.Title, &t.Description, &t.DueDate, &t.StatusID, &t.UserID, &t.AssigneeID,
		&t.CreatedAt, &t.UpdatedAt,
		&st.Name, &st.Color, &st.Order,
		&creator.Name, &creator.Email,
		&assigneeName, &assigneeE,
	); err != nil {
		return nil, err
	}

	st.ID = t.StatusID
	t.Status = &st
	creator.ID = t.UserID
	t.User = &creator
	if t.AssigneeID != nil && assigneeName != nil {
		t.Assignee = &domain.User{ID: *t.AssigneeID, Name: *assigneeName, Email: deref(assigneeE)}
	}
	return &t, nil
}

func (r *TaskRepository) CreateTask(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO tasks (title, description, due_date, status_id, user_id, assignee_id)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at, updated_at`,
		t.Title, t.Description, t.DueDate, t.StatusID, t.UserID, t.AssigneeID,
	).Scan(&t.ID, &t.CreatedAt, &t.UpdatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFound("Estado o usuario no encontrado")
	}
	return err
}

func (r *TaskRepository) GetTask(ctx context.Context, id int64) (*domain.Task, error) {
	t, err := scanTask(r.db.QueryRow(ctx, taskSelect+` WHERE t.id = $1`, id))
	if err != nil {
		return nil, notFound(err, "Tarea no encontrada")
	}
	return t, nil
}

func (r *TaskRepository) UpdateTask(ctx context.Context, t *domain.Task) error {
	err := r.db.QueryRow(ctx,
		`UPDATE tasks
		 SET title = $1, description = $2, due_date = $3, status_id = $4, assignee_id = $5, updated_at = now()
		 WHERE id = $6
		 RETURNING updated_at`,
		t.Title, t.Description, t.DueDate, t.StatusID, t.AssigneeID, t.ID,
	).Scan(&t.UpdatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFound("Estado o usuario no encontrado")
	}
	return notFound(err, "Tarea no encontrada")
}

func (r *TaskRepository) DeleteTask(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM tasks WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Tarea no encontrada")
	}
	return nil
}

// ListTasks orders newest first unless OrderByDue is set.
func (r *TaskRepository) ListTasks(ctx context.Context, f TaskFilter) ([]domain.Task, error) {
	var b queryBuilder
	f.build(&b)

	sql := taskSelect + b.clause("WHERE")
	if f.OrderByDue {
		sql += ` ORDER BY t.due_date ASC, t.id ASC`
	} else {
		sql += ` ORDER BY t.created_at DESC, t.id DESC`
	}
	if f.Limit > 0 {
		sql += ` LIMIT ` + b.arg(f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.Task{}
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, *t)
	}
	return res, rows.Err()
}

func (r *TaskRepository) CountTasks(ctx context.Context, f TaskFilter) (int64, error) {
	var b queryBuilder
	f.build(&b)

	var n int64
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM tasks t JOIN task_statuses s ON s.id = t.status_id`+b.clause("WHERE"),
		b.args...,
	).Scan(&n)
	return n, err
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
