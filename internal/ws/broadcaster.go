package ws

import "taskboard/internal/domain"

// Broadcaster maps domain events onto hub topics.
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) TaskCreated(t *domain.Task) {
	b.hub.Broadcast(EventTaskCreated, t)
}

func (b *Broadcaster) TaskUpdated(t *domain.Task) {
	b.hub.Broadcast(EventTaskUpdated, t)
	b.hub.Emit(TaskTopic(t.ID), EventTaskDetailUpdated, t)
}

func (b *Broadcaster) TaskDeleted(id int64) {
	b.hub.Broadcast(EventTaskDeleted, id)
}

func (b *Broadcaster) StatusCreated(st *domain.TaskStatus) {
	b.hub.Broadcast(EventStatusCreated, st)
}

func (b *Broadcaster) StatusUpdated(st *domain.TaskStatus) {
	b.hub.Broadcast(EventStatusUpdated, st)
}

func (b *Broadcaster) StatusDeleted(id int64) {
	b.hub.Broadcast(EventStatusDeleted, id)
}

func (b *Broadcaster) StatusesReordered(statuses []domain.TaskStatus) {
	b.hub.Broadcast(EventStatusesReordered, statuses)
}

func (b *Broadcaster) CommentAdded(taskID int64, c *domain.Comment) {
	b.hub.Broadcast(EventCommentAdded, CommentAddedPayload{TaskID: taskID, Comment: c})
}

// ActivityCreated fans an activity out to the global feed, the actor's feed,
// the task room and, when the task has an assignee, their notification feed.
func (b *Broadcaster) ActivityCreated(a *domain.Activity) {
	b.hub.Broadcast(EventActivityCreated, a)
	b.hub.Emit(UserTopic(a.UserID), EventUserActivityCreated, a)
	if a.TaskID != nil {
		b.hub.Emit(TaskTopic(*a.TaskID), EventTaskActivityCreated, a)
	}
	if assignee := a.AssigneeID(); assignee != nil {
		b.hub.Emit(NotificationsTopic(*assignee), EventNewNotification, a)
	}
}

func (b *Broadcaster) NotificationRead(a *domain.Activity, userID int64) {
	b.hub.Emit(NotificationsTopic(userID), EventNotificationRead, a)
}

func (b *Broadcaster) NotificationsCleared(userID int64, updated int64) {
	b.hub.Emit(NotificationsTopic(userID), EventNotificationsCleared,
		NotificationsClearedPayload{UserID: userID, Updated: updated})
}
