package repository

import (
	"context"

	"taskboard/internal/domain"
)

type CommentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) *CommentRepository {
	return &CommentRepository{db: db}
}

func (r *CommentRepository) CreateComment(ctx context.Context, c *domain.Comment) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO comments (text, user_id, task_id)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		c.Text, c.UserID, c.TaskID,
	).Scan(&c.ID, &c.CreatedAt, &c.UpdatedAt)
	if isForeignKeyViolation(err) {
		return domain.NotFound("Tarea no encontrada")
	}
	return err
}

// ListCommentsForTasks returns comments (oldest first) keyed by task id.
func (r *CommentRepository) ListCommentsForTasks(ctx context.Context, taskIDs []int64) (map[int64][]domain.Comment, error) {
	res := make(map[int64][]domain.Comment, len(taskIDs))
	if len(taskIDs) == 0 {
		return res, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.text, c.user_id, c.task_id, c.created_at, c.updated_at, u.name, u.email
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.task_id = ANY($1)
		 ORDER BY c.created_at ASC, c.id ASC`, taskIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			c domain.Comment
			u domain.User
		)
		if err := rows.Scan(&c.ID, &c.Text, &c.UserID, &c.TaskID, &c.CreatedAt, &c.UpdatedAt, &u.Name, &u.Email); err != nil {
			return nil, err
		}
		u.ID = c.UserID
		c.User = &u
		res[c.TaskID] = append(res[c.TaskID], c)
	}
	return res, rows.Err()
}
