package main

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"declutteredWeb/internal/assistant"
	"declutteredWeb/internal/services"
	"declutteredWeb/internal/session"
)

const (
	readLimit     = 1 << 20
	readDeadline  = 120 * time.Second
	writeDeadline = 5 * time.Second
	pingInterval  = 15 * time.Second

	// Replies stream token by token; a slow model should not kill the
	// socket, so each ask gets its own generous window.
	askTimeout = 2 * time.Minute
)

const (
	assistantFrameAsk   = "ask"
	assistantFrameChunk = "chunk"
	assistantFrameDone  = "done"
	assistantFrameError = "error"
)

type assistantAsk struct {
	Type    string                  `json:"type,omitempty"`
	Message string                  `json:"message"`
	History []assistant.ChatMessage `json:"history,omitempty"`
}

type assistantReply struct {
	Type    string `json:"type"`
	Content string `json:"content,omitempty"`
	Message string `json:"message,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       func(r *http.Request) bool { return true },
	ReadBufferSize:    1024,
	WriteBufferSize:   1024,
	EnableCompression: true,
}

// assistantConn serializes writes: the ping loop and the chunk stream
// share one socket and gorilla allows a single writer at a time.
type assistantConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *assistantConn) writeReply(reply assistantReply) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteJSON(reply)
}

func (c *assistantConn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeDeadline))
	return c.conn.WriteMessage(websocket.PingMessage, nil)
}

func (c *assistantConn) writeClose(code int, reason string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conn.WriteControl(
		websocket.CloseMessage,
		websocket.FormatCloseMessage(code, reason),
		time.Now().Add(writeDeadline),
	)
}

type hubClient struct {
	sessionID string
	conn      *assistantConn
}

type hubUnreg struct {
	sessionID string
	conn      *assistantConn
}

// assistantHub tracks one live assistant socket per browser session.
// All operations on clients happen on the run goroutine.
type assistantHub struct {
	assistant  *services.AssistantService
	infoLog    *log.Logger
	errorLog   *log.Logger
	clients    map[string]*assistantConn
	register   chan hubClient
	unregister chan hubUnreg
}

func newAssistantHub(svc *services.AssistantService, infoLog, errorLog *log.Logger) *assistantHub {
	return &assistantHub{
		assistant:  svc,
		infoLog:    infoLog,
		errorLog:   errorLog,
		clients:    make(map[string]*assistantConn),
		register:   make(chan hubClient),
		unregister: make(chan hubUnreg),
	}
}

func (hub *assistantHub) run() {
	for {
		select {
		case client := <-hub.register:
			// A reconnect from the same session replaces the old socket.
			if old, ok := hub.clients[client.sessionID]; ok && old != nil && old != client.conn {
				_ = old.conn.Close()
			}
			hub.clients[client.sessionID] = client.conn
			hub.infoLog.Printf("assistant ws connected session=%s", client.sessionID)

		case u := <-hub.unregister:
			if cur, ok := hub.clients[u.sessionID]; ok && cur == u.conn {
				_ = cur.conn.Close()
				delete(hub.clients, u.sessionID)
				hub.infoLog.Printf("assistant ws disconnected session=%s", u.sessionID)
			}
		}
	}
}

func (app *application) assistantWS(w http.ResponseWriter, r *http.Request) {
	sess, ok := session.FromContext(r.Context())
	if !ok {
		http.Error(w, "Not authenticated", http.StatusUnauthorized)
		return
	}

	rawConn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		app.errorLog.Printf("assistant ws upgrade: %v", err)
		return
	}
	conn := &assistantConn{conn: rawConn}
	defer rawConn.Close()

	rawConn.SetReadLimit(readLimit)
	rawConn.SetReadDeadline(time.Now().Add(readDeadline))
	rawConn.SetPongHandler(func(string) error {
		rawConn.SetReadDeadline(time.Now().Add(readDeadline))
		return nil
	})

	app.hub.register <- hubClient{sessionID: sess.ID, conn: conn}
	defer func() {
		app.hub.unregister <- hubUnreg{sessionID: sess.ID, conn: conn}
	}()

	stop := make(chan struct{})
	defer close(stop)
	go assistantPingLoop(conn, stop)

	for {
		var ask assistantAsk
		if err := rawConn.ReadJSON(&ask); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				app.errorLog.Printf("assistant ws read: %v", err)
			}
			_ = conn.writeClose(websocket.CloseNormalClosure, "read error")
			return
		}
		rawConn.SetReadDeadline(time.Now().Add(readDeadline))

		if ask.Type != "" && ask.Type != assistantFrameAsk {
			if err := conn.writeReply(assistantReply{Type: assistantFrameError, Message: "unknown message type"}); err != nil {
				app.errorLog.Printf("assistant ws write: %v", err)
				return
			}
			continue
		}
		message := strings.TrimSpace(ask.Message)
		if message == "" {
			if err := conn.writeReply(assistantReply{Type: assistantFrameError, Message: "message is required"}); err != nil {
				return
			}
			continue
		}

		if err := app.streamAnswer(r.Context(), conn, sess, message, ask.History); err != nil {
			app.errorLog.Printf("assistant ws stream: %v", err)
			if err := conn.writeReply(assistantReply{Type: assistantFrameError, Message: "Assistant is unavailable right now"}); err != nil {
				return
			}
			continue
		}
		if err := conn.writeReply(assistantReply{Type: assistantFrameDone}); err != nil {
			return
		}
	}
}

func (app *application) streamAnswer(ctx context.Context, conn *assistantConn, sess *session.Session, message string, history []assistant.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, askTimeout)
	defer cancel()

	req := app.assistantService.BuildMessageRequest(ctx, sess.Tokens.AccessToken, sess.Account.ID, message, history)
	return app.assistantService.Stream(ctx, req, func(chunk string) {
		if err := conn.writeReply(assistantReply{Type: assistantFrameChunk, Content: chunk}); err != nil {
			cancel()
		}
	})
}

func assistantPingLoop(conn *assistantConn, stop <-chan struct{}) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := conn.ping(); err != nil {
				_ = conn.writeClose(websocket.CloseGoingAway, "ping error")
				return
			}
		case <-stop:
			return
		}
	}
}
