package ws

import "taskboard/internal/domain"

type CommentAddedPayload struct {
	TaskID  int64           `json:"taskId"`
	Comment *domain.Comment `json:"comment"`
}

type NotificationsClearedPayload struct {
	UserID  int64 `json:"userId"`
	Updated int64 `json:"updated"`
}

type TopicPayload struct {
	Topic string `json:"topic"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}
