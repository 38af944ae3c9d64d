package broadcast

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const DefaultWriteTimeout = 10 * time.Second

// WebSocketSubscriber delivers messages as JSON text frames on one connection.
type WebSocketSubscriber struct {
	id           string
	conn         *websocket.Conn
	writeTimeout time.Duration

	writeMu sync.Mutex
}

func NewWebSocketSubscriber(conn *websocket.Conn, writeTimeout time.Duration) *WebSocketSubscriber {
	if writeTimeout <= 0 {
		writeTimeout = DefaultWriteTimeout
	}
	return &WebSocketSubscriber{
		id:           uuid.NewString(),
		conn:         conn,
		writeTimeout: writeTimeout,
	}
}

func (s *WebSocketSubscriber) ID() string {
	return s.id
}

// Send writes msg with a deadline of the write timeout or the context
// deadline, whichever comes first.
func (s *WebSocketSubscriber) Send(ctx context.Context, msg any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	deadline := time.Now().Add(s.writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if err := s.conn.SetWriteDeadline(deadline); err != nil {
		return err
	}
	return s.conn.WriteJSON(msg)
}

// Drain reads and discards client frames until the connection fails or the
// peer closes it. Control frames are handled by the reads.
func (s *WebSocketSubscriber) Drain() error {
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return err
		}
	}
}

func (s *WebSocketSubscriber) Close() error {
	s.writeMu.Lock()
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
		time.Now().Add(time.Second))
	s.writeMu.Unlock()
	return s.conn.Close()
}
