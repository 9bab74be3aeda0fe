package repository

import (
	"context"

	"taskboard/internal/domain"
)

// StatsRepository holds the grouped aggregation queries.
type StatsRepository struct {
	db DBTX
}

func NewStatsRepository(db DBTX) *StatsRepository {
	return &StatsRepository{db: db}
}

// CountTasksByStatus returns every status, in display order, with the number
// of tasks matching f. Statuses with no matching tasks report 0.
func (r *StatsRepository) CountTasksByStatus(ctx context.Context, f TaskFilter) ([]domain.StatusCount, error) {
	var b queryBuilder
	// status filters make no sense here; the grouping is by status.
	f.StatusName, f.ExcludeStatusName = "", ""
	f.build(&b)

	sql := `
		SELECT s.id, s.name, s.color, s.sort_order, COUNT(t.id)
		FROM task_statuses s
		LEFT JOIN tasks t ON t.status_id = s.id` + b.clause("AND") + `
		GROUP BY s.id, s.name, s.color, s.sort_order
		ORDER BY s.sort_order ASC, s.id ASC`

	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.StatusCount{}
	for rows.Next() {
		var c domain.StatusCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Order, &c.Count); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

func (r *StatsRepository) CountActivitiesByType(ctx context.Context, w Window) ([]domain.ActivityTypeCount, error) {
	var b queryBuilder
	w.apply(&b, "a.timestamp")

	rows, err := r.db.Query(ctx,
		`SELECT a.type, COUNT(*) FROM activities a`+b.clause("WHERE")+`
		 GROUP BY a.type
		 ORDER BY COUNT(*) DESC, a.type ASC`, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.ActivityTypeCount{}
	for rows.Next() {
		var c domain.ActivityTypeCount
		if err := rows.Scan(&c.Type, &c.Count); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}

// UserTaskFilter drives ListUserTaskCounts.
type UserTaskFilter struct {
	// Created limits counted tasks by creation time.
	Created Window
	// OnlyWithTasks drops users with a zero count.
	OnlyWithTasks bool
	Limit         int
}

// ListUserTaskCounts returns users ordered by assigned task count, highest first.
func (r *StatsRepository) ListUserTaskCounts(ctx context.Context, f UserTaskFilter) ([]domain.UserTaskCount, error) {
	var b queryBuilder
	f.Created.apply(&b, "t.created_at")

	sql := `
		SELECT u.id, u.name, u.email, COUNT(t.id) AS task_count
		FROM users u
		LEFT JOIN tasks t ON t.assignee_id = u.id` + b.clause("AND") + `
		GROUP BY u.id, u.name, u.email`
	if f.OnlyWithTasks {
		sql += ` HAVING COUNT(t.id) > 0`
	}
	sql += ` ORDER BY task_count DESC, u.id ASC`
	if f.Limit > 0 {
		sql += ` LIMIT ` + b.arg(f.Limit)
	}

	rows, err := r.db.Query(ctx, sql, b.args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	res := []domain.UserTaskCount{}
	for rows.Next() {
		var c domain.UserTaskCount
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.TaskCount); err != nil {
			return nil, err
		}
		res = append(res, c)
	}
	return res, rows.Err()
}
