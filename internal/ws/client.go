package ws

import (
	"encoding/json"
	"errors"
	"strconv"
	"strings"
	"sync"
	"time"

	"taskboard/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 30 * time.Second
	pingPeriod     = 25 * time.Second
	maxMessageSize = 4096
	sendBuffer     = 256
)

type Client struct {
	ID     string
	UserID int64

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
	done chan struct{}
	once sync.Once
}

func NewClient(hub *Hub, conn *websocket.Conn, userID int64) *Client {
	return &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		hub:    hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		done:   make(chan struct{}),
	}
}

// Run registers the client and blocks until the connection goes away.
func (c *Client) Run() {
	c.hub.Register(c)
	go c.writePump()

	c.sendEvent(MsgReady, map[string]any{"clientId": c.ID, "userId": c.UserID})
	c.readPump()
}

// Close is safe to call more than once.
func (c *Client) Close() {
	c.once.Do(func() {
		close(c.done)
		c.hub.Unregister(c)
		if c.conn != nil {
			_ = c.conn.Close()
		}
	})
}

// enqueue returns false when the client cannot keep up.
func (c *Client) enqueue(frame []byte) bool {
	select {
	case <-c.done:
		return true
	default:
	}
	select {
	case c.send <- frame:
		return true
	case <-c.done:
		return true
	default:
		return false
	}
}

func (c *Client) sendEvent(event string, data any) {
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	c.enqueue(frame)
}

//read
func (c *Client) readPump() {
	defer c.Close()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, msg, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug("ws read error", "client_id", c.ID, "error", err)
			}
			return
		}
		c.handleMessage(msg)
	}
}

//write
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				logger.Debug("ws write error", "client_id", c.ID, "error", err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

type subscription struct {
	topic func(int64) string
	join  bool
	// own restricts joins to the connection's own user id.
	own bool
}

var subscriptions = map[string]subscription{
	MsgJoinTask:           {topic: TaskTopic, join: true},
	MsgLeaveTask:          {topic: TaskTopic},
	MsgJoinUserActivity:   {topic: UserTopic, join: true, own: true},
	MsgLeaveUserActivity:  {topic: UserTopic},
	MsgJoinNotifications:  {topic: NotificationsTopic, join: true, own: true},
	MsgLeaveNotifications: {topic: NotificationsTopic},
}

func (c *Client) handleMessage(msg []byte) {
	var in inbound
	if err := json.Unmarshal(msg, &in); err != nil {
		c.sendEvent(MsgError, ErrorPayload{Message: "invalid message"})
		return
	}

	if in.Event == MsgPing {
		c.sendEvent(MsgPong, nil)
		return
	}

	sub, ok := subscriptions[in.Event]
	if !ok {
		c.sendEvent(MsgError, ErrorPayload{Message: "unknown event: " + in.Event})
		return
	}

	id, err := parseID(in.Data)
	if err != nil {
		c.sendEvent(MsgError, ErrorPayload{Message: in.Event + ": " + err.Error()})
		return
	}
	topic := sub.topic(id)

	if !sub.join {
		c.hub.Leave(c, topic)
		c.sendEvent(MsgLeft, TopicPayload{Topic: topic})
		return
	}
	if sub.own && id != c.UserID {
		c.sendEvent(MsgError, ErrorPayload{Message: in.Event + ": not allowed"})
		return
	}
	c.hub.Join(c, topic)
	c.sendEvent(MsgJoined, TopicPayload{Topic: topic})
}

// parseID accepts 42 or "42".
func parseID(raw json.RawMessage) (int64, error) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" || s == "null" {
		return 0, errors.New("id required")
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}
