package realtime

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"taskmaster/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBuffer     = 32
)

type authMessage struct {
	UserID string `json:"user_id"`
}

type authAck struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

// Session is one WebSocket connection. It starts unauthenticated and
// joins the registry only after the client's first frame names a valid
// user id; until then nothing is delivered to it.
type Session struct {
	conn     *websocket.Conn
	registry *Registry
	log      *logger.Logger
	send     chan []byte
	userID   string
}

func NewSession(conn *websocket.Conn, registry *Registry, log *logger.Logger) *Session {
	return &Session{
		conn:     conn,
		registry: registry,
		log:      log,
		send:     make(chan []byte, sendBuffer),
	}
}

// TrySend enqueues a frame without blocking. A full buffer drops the
// frame and keeps the session alive.
func (s *Session) TrySend(payload []byte) bool {
	select {
	case s.send <- payload:
		return true
	default:
		return false
	}
}

// Run authenticates the session and then pumps frames until the peer
// goes away. It blocks for the lifetime of the connection.
func (s *Session) Run() {
	defer s.conn.Close()

	if !s.authenticate() {
		return
	}

	s.registry.Add(s.userID, s)
	s.log.Info("websocket session opened for user %s", s.userID)

	go s.writePump()
	s.readPump()

	// Deregister before closing send: Deliver never sees this session
	// again once Remove returns, so the writer can be released safely.
	s.registry.Remove(s.userID, s)
	close(s.send)
}

// authenticate reads frames until one names a valid user id. Frames
// that fail to parse are ignored and the peer may try again; no error
// frame or close is sent back, an unauthenticated peer learns nothing.
// Only transport errors and close frames end the session.
func (s *Session) authenticate() bool {
	s.conn.SetReadLimit(maxMessageSize)

	for {
		if err := s.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
			return false
		}
		messageType, payload, err := s.conn.ReadMessage()
		if err != nil {
			return false
		}
		if messageType != websocket.TextMessage {
			s.log.Warn("ignoring binary frame from unauthenticated peer")
			continue
		}

		var message authMessage
		if err := json.Unmarshal(payload, &message); err != nil {
			s.log.Warn("ignoring unparsable frame from unauthenticated peer")
			continue
		}
		if _, err := uuid.Parse(message.UserID); err != nil {
			s.log.Warn("ignoring auth attempt with invalid user id %q", message.UserID)
			continue
		}

		s.userID = message.UserID
		break
	}

	ack, err := json.Marshal(authAck{Type: "authenticated", Status: "success"})
	if err != nil {
		return false
	}
	if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return false
	}
	return s.conn.WriteMessage(websocket.TextMessage, ack) == nil
}

// readPump drains incoming frames. Clients have nothing to say after
// the handshake, but reading keeps pong handling alive and notices
// disconnects promptly.
func (s *Session) readPump() {
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				s.log.Warn("websocket read error for user %s: %v", s.userID, err)
			}
			return
		}
	}
}

func (s *Session) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-s.send:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := s.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
