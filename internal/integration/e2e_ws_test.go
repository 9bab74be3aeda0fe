package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"taskboard/internal/domain"
	httpserver "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/repository"
	"taskboard/internal/service"
	"taskboard/internal/ws"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func startServer(t *testing.T, pool *pgxpool.Pool) *httptest.Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	hub := ws.NewHub(nil)
	go hub.Run(ctx)

	tokens, err := service.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	store := repository.NewStore(pool)
	events := ws.NewBroadcaster(hub)
	activities := service.NewActivityService(store, events)
	h := handlers.NewHandler(handlers.Services{
		Auth:          service.NewAuthService(store, tokens).WithHashCost(bcrypt.MinCost),
		Users:         service.NewUserService(store),
		Tasks:         service.NewTaskService(store, activities, events, nil),
		Statuses:      service.NewStatusService(store, events, nil),
		Activities:    activities,
		Notifications: service.NewNotificationService(store, events, nil),
		Stats:         service.NewStatsService(store, nil),
	}, handlers.HandlerConfig{})

	r := httpserver.NewEngine(httpserver.Deps{Handler: h, Hub: hub, Timeout: 10 * time.Second})
	ts := httptest.NewServer(r)
	t.Cleanup(ts.Close)
	return ts
}

func postJSON(t *testing.T, url, token string, body any, dst any) int {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(b))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	if dst != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(dst))
	}
	return resp.StatusCode
}

type frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
}

// dial connects and starts a single reader goroutine, so ReadMessage is never
// called concurrently.
func dial(t *testing.T, ts *httptest.Server, token string) (*websocket.Conn, chan frame) {
	t.Helper()
	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	out := make(chan frame, 32)
	go func() {
		defer close(out)
		for {
			_, msg, err := conn.ReadMessage()
			if err != nil {
				return
			}
			var f frame
			if json.Unmarshal(msg, &f) == nil {
				out <- f
			}
		}
	}()
	return conn, out
}

func waitFor(t *testing.T, ch chan frame, event string) frame {
	t.Helper()
	timeout := time.After(3 * time.Second)
	for {
		select {
		case f, ok := <-ch:
			if !ok {
				t.Fatalf("connection closed waiting for %s", event)
			}
			if f.Event == event {
				return f
			}
		case <-timeout:
			t.Fatalf("timed out waiting for %s", event)
		}
	}
}

func TestE2E_AssignedTaskNotifiesAssignee(t *testing.T) {
	pool := openDB(t)
	ts := startServer(t, pool)

	var a, b service.AuthResult
	require.Equal(t, http.StatusCreated, postJSON(t, ts.URL+"/api/auth/register", "",
		gin.H{"name": "Ana", "email": uniqueEmail("ana"), "password": "secret1"}, &a))
	require.Equal(t, http.StatusCreated, postJSON(t, ts.URL+"/api/auth/register", "",
		gin.H{"name": "Bruno", "email": uniqueEmail("bruno"), "password": "secret1"}, &b))

	_, chA := dial(t, ts, a.Token)
	connB, chB := dial(t, ts, b.Token)
	waitFor(t, chA, ws.MsgReady)
	waitFor(t, chB, ws.MsgReady)

	require.NoError(t, connB.WriteJSON(ws.Envelope{Event: ws.MsgJoinNotifications, Data: b.User.ID}))
	waitFor(t, chB, ws.MsgJoined)

	statuses, err := repository.NewStore(pool).ListStatuses(context.Background())
	require.NoError(t, err)
	pending := statusByName(t, statuses, domain.StatusPending)

	var task domain.Task
	code := postJSON(t, ts.URL+"/api/tasks", a.Token, gin.H{
		"title":       "Revisar contrato",
		"description": "Antes del viernes",
		"dueDate":     time.Now().Add(72 * time.Hour).Format("2006-01-02"),
		"statusId":    pending.ID,
		"assigneeId":  b.User.ID,
	}, &task)
	require.Equal(t, http.StatusCreated, code)
	t.Cleanup(func() { _ = repository.NewStore(pool).DeleteTask(context.Background(), task.ID) })

	created := waitFor(t, chA, ws.EventTaskCreated)
	var got domain.Task
	require.NoError(t, json.Unmarshal(created.Data, &got))
	assert.Equal(t, task.ID, got.ID)

	n := waitFor(t, chB, ws.EventNewNotification)
	var act domain.Activity
	require.NoError(t, json.Unmarshal(n.Data, &act))
	assert.Equal(t, domain.ActivityTaskCreated, act.Type)
	require.NotNil(t, act.TaskID)
	assert.Equal(t, task.ID, *act.TaskID)

	var count struct {
		Count int64 `json:"count"`
	}
	req, _ := http.NewRequest(http.MethodGet, ts.URL+"/api/notifications/count", nil)
	req.Header.Set("Authorization", "Bearer "+b.Token)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&count))
	assert.EqualValues(t, 1, count.Count)
}

func TestE2E_WSRejectsBadToken(t *testing.T) {
	pool := openDB(t)
	ts := startServer(t, pool)

	url := strings.Replace(ts.URL, "http", "ws", 1) + "/ws?token=garbage"
	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
