package repository

import (
	"context"

	"taskboard/internal/domain"
)

type StatusRepository struct {
	db DBTX
}

func NewStatusRepository(db DBTX) *StatusRepository {
	return &StatusRepository{db: db}
}

func (r *StatusRepository) ListStatuses(ctx context.Context) ([]domain.TaskStatus, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, name, color, sort_order, created_at, updated_at
		 FROM task_statuses
		 ORDER BY sort_order ASC, id ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.TaskStatus{}
	for rows.Next() {
		var s domain.TaskStatus
		if err := rows.Scan(&s.ID, &s.Name, &s.Color, &s.Order, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		res = append(res, s)
	}
	return res, rows.Err()
}

func (r *StatusRepository) GetStatus(ctx context.Context, id int64) (*domain.TaskStatus, error) {
	var s domain.TaskStatus
	err := r.db.QueryRow(ctx,
		`SELECT id, name, color, sort_order, created_at, updated_at
		 FROM task_statuses WHERE id = $1`, id,
	).Scan(&s.ID, &s.Name, &s.Color, &s.Order, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return nil, notFound(err, "Estado no encontrado")
	}
	return &s, nil
}

// CreateStatus appends the status after the current last one.
func (r *StatusRepository) CreateStatus(ctx context.Context, st *domain.TaskStatus) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO task_statuses (name, color, sort_order)
		 VALUES ($1, $2, (SELECT COALESCE(MAX(sort_order), -1) + 1 FROM task_statuses))
		 RETURNING id, sort_order, created_at, updated_at`,
		st.Name, st.Color,
	).Scan(&st.ID, &st.Order, &st.CreatedAt, &st.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.Conflict("Ya existe un estado con ese nombre")
	}
	return err
}

func (r *StatusRepository) UpdateStatus(ctx context.Context, st *domain.TaskStatus) error {
	err := r.db.QueryRow(ctx,
		`UPDATE task_statuses
		 SET name = $1, color = $2, sort_order = $3, updated_at = now()
		 WHERE id = $4
		 RETURNING updated_at`,
		st.Name, st.Color, st.Order, st.ID,
	).Scan(&st.UpdatedAt)
	if isUniqueViolation(err) {
		return domain.Conflict("Ya existe un estado con ese nombre")
	}
	return notFound(err, "Estado no encontrado")
}

func (r *StatusRepository) DeleteStatus(ctx context.Context, id int64) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM task_statuses WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.Validation("No se puede eliminar un estado que tiene tareas asignadas")
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Estado no encontrado")
	}
	return nil
}

func (r *StatusRepository) SetStatusOrder(ctx context.Context, id int64, order int) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE task_statuses SET sort_order = $1, updated_at = now() WHERE id = $2`,
		order, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.NotFound("Estado no encontrado")
	}
	return nil
}
