package domain

import (
	"fmt"
	"time"
)

type ActivityType string

// Activity types. Values are stored as-is and sent to clients.
const (
	ActivityTaskCreated     ActivityType = "Tarea Creada"
	ActivityTaskUpdated     ActivityType = "Tarea Actualizada"
	ActivityTaskDeleted     ActivityType = "Tarea Eliminada"
	ActivityCommentAdded    ActivityType = "Comentario Agregado"
	ActivityStatusChanged   ActivityType = "Estado Cambiado"
	ActivityAssigneeChanged ActivityType = "Asignación Cambiada"
)

var ActivityTypes = []ActivityType{
	ActivityTaskCreated,
	ActivityTaskUpdated,
	ActivityTaskDeleted,
	ActivityCommentAdded,
	ActivityStatusChanged,
	ActivityAssigneeChanged,
}

func (t ActivityType) Valid() bool {
	for _, v := range ActivityTypes {
		if v == t {
			return true
		}
	}
	return false
}

// Activity is append-only; only Read ever changes after insert.
type Activity struct {
	ID          int64        `db:"id" json:"id"`
	Type        ActivityType `db:"type" json:"type"`
	Description string       `db:"description" json:"description"`
	UserID      int64        `db:"user_id" json:"userId"`
	User        *User        `json:"user,omitempty"`
	TaskID      *int64       `db:"task_id" json:"taskId"`
	Task        *Task        `json:"task,omitempty"`
	Read        bool         `db:"read" json:"read"`
	Timestamp   time.Time    `db:"timestamp" json:"timestamp"`
}

// AssigneeID returns the assignee of the attached task, if known.
func (a *Activity) AssigneeID() *int64 {
	if a.Task == nil {
		return nil
	}
	return a.Task.AssigneeID
}

func DescribeTaskCreated(title string) string {
	return fmt.Sprintf("Tarea \"%s\" creada", title)
}

func DescribeTaskUpdated(title string) string {
	return fmt.Sprintf("Tarea \"%s\" actualizada", title)
}

func DescribeStatusChanged(title, status string) string {
	return fmt.Sprintf("Estado de la tarea \"%s\" cambiado a %s", title, status)
}

// DescribeAssigneeChanged takes an empty assignee for an unassigned task.
func DescribeAssigneeChanged(title, assignee string) string {
	if assignee == "" {
		assignee = "nadie"
	}
	return fmt.Sprintf("Asignación de la tarea \"%s\" actualizada a %s", title, assignee)
}

func DescribeCommentAdded(title string) string {
	return fmt.Sprintf("Comentario agregado a la tarea \"%s\"", title)
}

func DescribeTaskDeleted(title string) string {
	return fmt.Sprintf("Tarea \"%s\" eliminada", title)
}
