package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"garmentgrid/internal/domain"
	"garmentgrid/internal/session"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = wsPongWait * 9 / 10
	wsBacklog    = 32
)

type sessionEvent struct {
	Type    string         `json:"type"`
	Session domain.Session `json:"session"`
}

type clientCommand struct {
	Type string `json:"type"`
}

// SessionEvents streams the caller's session over a websocket: the current
// state first, then every transition in order. A {"type":"logout"} frame
// signs the session out.
func (a *App) SessionEvents(w http.ResponseWriter, r *http.Request) {
	conn, err := a.Upgrader.Upgrade(w, r, nil)
	if err != nil {
		a.Logger.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := session.New(ctx, a.Auth, a.session(r).ID)
	defer store.Close()

	events := make(chan domain.Session, wsBacklog)
	overflow := make(chan struct{})
	unsubscribe := store.Subscribe(func(s domain.Session) {
		select {
		case events <- s:
		default:
			// A client this far behind is dropped rather than shown a gap.
			select {
			case <-overflow:
			default:
				close(overflow)
			}
		}
	})
	defer unsubscribe()

	done := make(chan struct{})
	go a.readCommands(ctx, conn, store, done)

	ticker := time.NewTicker(wsPingPeriod)
	defer ticker.Stop()

	if err := writeEvent(conn, store.Snapshot()); err != nil {
		return
	}
	for {
		select {
		case s := <-events:
			if err := writeEvent(conn, s); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-overflow:
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "too slow"), time.Now().Add(wsWriteWait))
			return
		case <-done:
			return
		}
	}
}

func (a *App) readCommands(ctx context.Context, conn *websocket.Conn, store *session.Store, done chan<- struct{}) {
	defer close(done)
	conn.SetReadLimit(1024)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		var cmd clientCommand
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
		if cmd.Type == "logout" {
			store.Logout(ctx)
		}
	}
}

func writeEvent(conn *websocket.Conn, s domain.Session) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(sessionEvent{Type: "session", Session: s})
}
