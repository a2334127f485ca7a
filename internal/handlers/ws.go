package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/monocle-dev/taskboard/internal/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// UpdateMessage is the only event pushed to clients. It carries no payload;
// clients refetch the board when they see it.
const UpdateMessage = "task:update"

func (h *Handler) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	_, ok := h.origins[origin]
	return ok
}

// WebSocket streams board change signals to one client until it goes away.
func (h *Handler) WebSocket(ctx *gin.Context) {
	user, err := utils.CurrentUser(ctx)

	if err != nil {
		unauthorized(ctx)
		return
	}

	upgrader := websocket.Upgrader{CheckOrigin: h.checkOrigin}

	conn, err := upgrader.Upgrade(ctx.Writer, ctx.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	log := h.log.With().Uint("user_id", user.ID).Logger()

	signals, unsubscribe := h.changes.Subscribe()
	defer unsubscribe()

	defer func() {
		_ = conn.Close()
		log.Debug().Msg("websocket connection closed")
	}()

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	if err := writeJSON(conn, map[string]string{
		"type":    "connected",
		"message": "WebSocket connection established",
	}); err != nil {
		log.Warn().Err(err).Msg("failed to send welcome message")
		return
	}

	// The reader only exists to process pongs and notice the close.
	closed := make(chan struct{})

	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
					log.Warn().Err(err).Msg("websocket read failed")
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-signals:
			if err := writeJSON(conn, map[string]string{"type": UpdateMessage}); err != nil {
				log.Debug().Err(err).Msg("failed to push board update")
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, v any) error {
	if err := conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return conn.WriteJSON(v)
}
