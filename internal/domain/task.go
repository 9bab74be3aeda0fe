package domain

import "time"

type Task struct {
	ID          int64       `db:"id" json:"id"`
	Title       string      `db:"title" json:"title"`
	Description string      `db:"description" json:"description"`
	DueDate     time.Time   `db:"due_date" json:"dueDate"`
	StatusID    int64       `db:"status_id" json:"statusId"`
	Status      *TaskStatus `json:"status,omitempty"`
	UserID      int64       `db:"user_id" json:"userId"`
	User        *User       `json:"user,omitempty"`
	AssigneeID  *int64      `db:"assignee_id" json:"assigneeId"`
	Assignee    *User       `json:"assignee"`
	Comments    []Comment   `json:"comments,omitempty"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}

// CanDelete reports whether userID is the creator or the assignee.
func (t *Task) CanDelete(userID int64) bool {
	if t.UserID == userID {
		return true
	}
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

// IsAssignedTo is false for unassigned tasks.
func (t *Task) IsAssignedTo(userID int64) bool {
	return t.AssigneeID != nil && *t.AssigneeID == userID
}

type Comment struct {
	ID        int64     `db:"id" json:"id"`
	Text      string    `db:"text" json:"text"`
	UserID    int64     `db:"user_id" json:"userId"`
	User      *User     `json:"user,omitempty"`
	TaskID    int64     `db:"task_id" json:"taskId"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
