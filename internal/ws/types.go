package ws

import "encoding/json"

const (
	// client -> server
	MsgJoinTask           = "joinTask"
	MsgLeaveTask          = "leaveTask"
	MsgJoinUserActivity   = "joinUserActivity"
	MsgLeaveUserActivity  = "leaveUserActivity"
	MsgJoinNotifications  = "joinNotifications"
	MsgLeaveNotifications = "leaveNotifications"
	MsgPing               = "ping"

	// server -> client
	MsgReady  = "ready"
	MsgPong   = "pong"
	MsgJoined = "joined"
	MsgLeft   = "left"
	MsgError  = "error"
)

// Domain events pushed to clients.
const (
	EventTaskCreated          = "taskCreated"
	EventTaskUpdated          = "taskUpdated"
	EventTaskDetailUpdated    = "taskDetailUpdated"
	EventTaskDeleted          = "taskDeleted"
	EventStatusCreated        = "statusCreated"
	EventStatusUpdated        = "statusUpdated"
	EventStatusDeleted        = "statusDeleted"
	EventStatusesReordered    = "statusesReordered"
	EventCommentAdded         = "commentAdded"
	EventActivityCreated      = "activityCreated"
	EventUserActivityCreated  = "userActivityCreated"
	EventTaskActivityCreated  = "taskActivityCreated"
	EventNewNotification      = "newNotification"
	EventNotificationRead     = "notificationRead"
	EventNotificationsCleared = "notificationsCleared"
)

// Envelope is the frame format in both directions.
type Envelope struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// inbound keeps Data raw until the event is known.
type inbound struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}
