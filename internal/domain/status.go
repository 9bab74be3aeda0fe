package domain

import "time"

type TaskStatus struct {
	ID        int64     `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Color     string    `db:"color" json:"color"`
	Order     int       `db:"sort_order" json:"order"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}

// Default statuses, seeded on boot and protected from deletion.
const (
	StatusPending    = "Pendiente"
	StatusInProgress = "En Progreso"
	StatusCompleted  = "Completada"
)

var DefaultStatuses = []TaskStatus{
	{Name: StatusPending, Color: "#FFB020", Order: 0},
	{Name: StatusInProgress, Color: "#3E79F7", Order: 1},
	{Name: StatusCompleted, Color: "#4CAF50", Order: 2},
}

func IsProtectedStatus(name string) bool {
	switch name {
	case StatusPending, StatusInProgress, StatusCompleted:
		return true
	}
	return false
}

// IsTerminalStatus is the single place that decides whether a task is done.
func IsTerminalStatus(name string) bool {
	return name == StatusCompleted
}

// TerminalStatusName is bound into aggregation queries.
func TerminalStatusName() string {
	return StatusCompleted
}

// StatusOrder is one entry of a reorder request.
type StatusOrder struct {
	ID    int64 `json:"id" binding:"required"`
	Order int   `json:"order"`
}
