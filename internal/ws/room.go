package ws

import "strconv"

// room is the set of clients subscribed to one topic.
type room map[*Client]struct{}

func TaskTopic(taskID int64) string {
	return "task-" + strconv.FormatInt(taskID, 10)
}

func UserTopic(userID int64) string {
	return "user-" + strconv.FormatInt(userID, 10)
}

func NotificationsTopic(userID int64) string {
	return "notifications-" + strconv.FormatInt(userID, 10)
}
