package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"time"

	"taskboard/internal/service"
	"taskboard/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
)

func main() {
	userID := flag.Int64("user", 1, "user id to connect as")
	taskID := flag.Int64("task", 0, "also join this task room")
	wait := flag.Duration("wait", 30*time.Second, "how long to listen")
	flag.Parse()

	_ = godotenv.Load()

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3001"
	}

	token := os.Getenv("TOKEN")
	if token == "" {
		secret := os.Getenv("JWT_SECRET")
		if secret == "" {
			log.Fatal("TOKEN or JWT_SECRET must be set")
		}
		tokens, err := service.NewTokenManager(secret, time.Hour)
		if err != nil {
			log.Fatalf("jwt setup: %v", err)
		}
		if token, err = tokens.Generate(*userID); err != nil {
			log.Fatalf("gen token: %v", err)
		}
	}

	// use 127.0.0.1 to prefer IPv4 (avoid resolving to [::1])
	wsURL := fmt.Sprintf("ws://127.0.0.1:%s/ws?token=%s", port, url.QueryEscape(token))
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	send := func(event string, data any) {
		b, _ := json.Marshal(map[string]any{"event": event, "data": data})
		if err := conn.WriteMessage(websocket.TextMessage, b); err != nil {
			log.Fatalf("write %s: %v", event, err)
		}
	}

	send(ws.MsgJoinNotifications, *userID)
	send(ws.MsgJoinUserActivity, *userID)
	if *taskID > 0 {
		send(ws.MsgJoinTask, *taskID)
	}
	send(ws.MsgPing, nil)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		_ = conn.SetReadDeadline(deadline)
		_, msg, err := conn.ReadMessage()
		if err != nil {
			log.Printf("read error: %v", err)
			break
		}
		log.Printf("got: %s", string(msg))
	}

	log.Println("smoke test finished")
}
