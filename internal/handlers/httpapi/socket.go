package httpapi

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gabapcia/blockpulse/internal/broadcast"
	"github.com/gabapcia/blockpulse/internal/pkg/logger"
	"github.com/gabapcia/blockpulse/internal/txfeed"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// socketPublisher writes push events to one WebSocket connection.
type socketPublisher struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

var _ broadcast.Publisher = (*socketPublisher)(nil)

func (p *socketPublisher) Publish(_ context.Context, event string, txs []txfeed.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return p.conn.WriteJSON(broadcast.Message{Event: event, Data: txs})
}

func (p *socketPublisher) ping() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}

// handleSocket upgrades the connection and attaches it to the hub. Client
// frames are read and discarded; a failed read means the client is gone and
// tears the session down.
func (s *Server) handleSocket(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn(ctx, "websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	pub := &socketPublisher{conn: conn}

	session, err := s.hub.Attach(ctx, pub)
	if err != nil {
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseTryAgainLater, "server shutting down"),
			time.Now().Add(writeWait))
		return
	}
	defer session.Close()

	go keepAlive(session, pub, conn)

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.NextReader(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Debug(ctx, "websocket closed unexpectedly", "session.id", session.ID, "error", err)
			}
			return
		}
	}
}

// keepAlive pings the client until the session ends and then closes the
// connection, which unblocks the read loop.
func keepAlive(session *broadcast.Session, pub *socketPublisher, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-session.Done():
			conn.Close()
			return
		case <-ticker.C:
			if err := pub.ping(); err != nil {
				conn.Close()
				return
			}
		}
	}
}
