package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/irgordon/leaderboard/api/internal/core/domain"
)

// ==============================================================================
// 1. WebSocket Configuration & Constants
// ==============================================================================

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// We only stream OUT, so inbound frames are tiny control messages.
	maxMessageSize = 512
)

// The board is public and the CORS middleware already vetted the origin.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// ==============================================================================
// 2. HTTP Methods (The Upgrader)
// ==============================================================================

// Live handles GET /leaderboard/{level}/live
func (h *LeaderboardHandler) Live(w http.ResponseWriter, r *http.Request) {
	level, err := levelParam(r)
	if err != nil {
		HandleError(w, r, h.Logger, err)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.Logger.Error("Failed to upgrade WebSocket connection",
			slog.Int("level", int(level)),
			slog.String("error", err.Error()),
		)
		return
	}

	feed, unsubscribe := h.Service.Subscribe(level)
	defer unsubscribe()

	done := make(chan struct{})
	go h.readPump(ws, level, done)
	h.writePump(ws, feed, level, done)
}

// ==============================================================================
// 3. The Write Pump
// ==============================================================================

func (h *LeaderboardHandler) writePump(ws *websocket.Conn, feed <-chan domain.LeaderboardEntry, level int32, done <-chan struct{}) {
	defer func() {
		ws.Close()
		h.Logger.Info("WebSocket write pump closed", slog.Int("level", int(level)))
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case entry, ok := <-feed:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				ws.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "Feed closed"))
				return
			}
			if err := ws.WriteJSON(entry); err != nil {
				h.Logger.Warn("Failed to write JSON to WebSocket",
					slog.Int("level", int(level)),
					slog.String("error", err.Error()),
				)
				return
			}

		case <-ticker.C:
			ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-done:
			// Peer went away; the read pump saw it first.
			return
		}
	}
}

// ==============================================================================
// 4. The Read Pump (Connection Keep-Alive)
// ==============================================================================

func (h *LeaderboardHandler) readPump(ws *websocket.Conn, level int32, done chan<- struct{}) {
	defer close(done)

	ws.SetReadLimit(maxMessageSize)
	ws.SetReadDeadline(time.Now().Add(pongWait))
	ws.SetPongHandler(func(string) error {
		ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// Reads only exist to process Pong/Close and notice disconnects.
	for {
		if _, _, err := ws.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.Logger.Warn("WebSocket closed unexpectedly",
					slog.Int("level", int(level)),
					slog.String("error", err.Error()),
				)
			}
			return
		}
	}
}
