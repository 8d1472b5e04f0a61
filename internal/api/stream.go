package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ahmadnadir/gasnadir/internal/domain/chat"
	"github.com/ahmadnadir/gasnadir/internal/metrics"
	"github.com/ahmadnadir/gasnadir/internal/services/analyst"
	"github.com/ahmadnadir/gasnadir/pkg/errors"
)

const (
	streamWriteTimeout = 10 * time.Second
	streamQueryTimeout = 2 * time.Minute
)

// Stream frame types
const (
	FrameStage   = "stage"
	FrameMessage = "message"
	FrameError   = "error"
)

// StreamFrame is one JSON frame of the analyst stream
type StreamFrame struct {
	Type    string         `json:"type"`
	Event   *analyst.Event `json:"event,omitempty"`
	Message *chat.Message  `json:"message,omitempty"`
	Error   string         `json:"error,omitempty"`
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	// the dashboard is served from its own origin
	CheckOrigin: func(*http.Request) bool { return true },
}

// stream answers ?query= over a websocket: one stage frame per progress
// event, then the message frame, then a normal close.
func (h *handler) stream(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("query"))
	if query == "" {
		writeError(w, errors.ErrEmptyQuery)
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.Warnw("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	metrics.WebSocketConnections.Inc()
	defer metrics.WebSocketConnections.Dec()

	ctx, cancel := context.WithTimeout(context.Background(), streamQueryTimeout)
	defer cancel()

	// a read error means the client went away
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	write := func(frame StreamFrame) {
		if ctx.Err() != nil {
			return
		}
		if err := conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout)); err != nil {
			cancel()
			return
		}
		if err := conn.WriteJSON(frame); err != nil {
			h.log.Debugw("Stream write failed", "error", err)
			cancel()
		}
	}

	msg, err := h.svc.Analyst.ProcessQuery(ctx, query, func(ev analyst.Event) {
		write(StreamFrame{Type: FrameStage, Event: &ev})
	})
	if err != nil {
		h.log.Warnw("Streamed query failed", "error", err)
		write(StreamFrame{Type: FrameError, Error: err.Error()})
	} else {
		write(StreamFrame{Type: FrameMessage, Message: msg})
	}

	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(streamWriteTimeout))
}
