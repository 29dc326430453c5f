package realtime

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/fasthttp/websocket"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
)

// Conn is the subset of a websocket connection a Session needs.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Session is one client connection to a strategy room. Incoming full
// updates go to the Reconciler, cursor and move messages to Presence.
// Full updates carrying the session's own hub id are dropped.
type Session struct {
	conn       Conn
	reconciler *Reconciler
	presence   *Presence
	dispatch   func(func())
	onHello    func(id string)
	name       string
	color      string

	mu sync.Mutex
	id string

	writeMu sync.Mutex
}

type Option func(*Session)

// WithDispatcher routes callbacks through d, typically onto the goroutine
// that drives the editor. The default runs them on the read goroutine;
// workspace.New installs a dispatcher onto its own loop.
func WithDispatcher(d func(func())) Option {
	return func(s *Session) { s.dispatch = d }
}

// WithIdentity sets the display name and colour sent with cursor updates.
func WithIdentity(name, color string) Option {
	return func(s *Session) {
		s.name = name
		s.color = color
	}
}

// WithHelloHandler calls f with the id the hub assigns to this session,
// e.g. persist.HTTPStore.SetSenderID.
func WithHelloHandler(f func(id string)) Option {
	return func(s *Session) { s.onHello = f }
}

func NewSession(conn Conn, r *Reconciler, p *Presence, opts ...Option) *Session {
	s := &Session{
		conn:       conn,
		reconciler: r,
		presence:   p,
		dispatch:   func(f func()) { f() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Dial connects to a hub endpoint such as ws://host/api/v1/ws/<strategy>.
func Dial(ctx context.Context, url string, r *Reconciler, p *Presence, opts ...Option) (*Session, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return NewSession(conn, r, p, opts...), nil
}

// ID returns the hub-assigned id, or "" before the hello frame arrived.
func (s *Session) ID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.id
}

// Run reads until the connection fails. Reconnection is left to the caller.
func (s *Session) Run() error {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read: %w", err)
		}
		msg, err := ParseMessage(raw)
		if err != nil {
			log.Println("realtime: dropping frame:", err)
			continue
		}
		s.handle(msg)
	}
}

func (s *Session) handle(msg Message) {
	switch msg.Type {
	case TypeHello:
		var h HelloPayload
		if err := msg.Decode(&h); err != nil {
			log.Println("realtime:", err)
			return
		}
		s.mu.Lock()
		s.id = h.SenderID
		s.mu.Unlock()
		if s.onHello != nil {
			s.onHello(h.SenderID)
		}
	case TypeFullUpdate:
		if id := s.ID(); id != "" && msg.SenderID == id {
			return
		}
		var p FullUpdatePayload
		if err := msg.Decode(&p); err != nil {
			log.Println("realtime:", err)
			return
		}
		if s.reconciler != nil {
			doc := p.Document()
			s.dispatch(func() { s.reconciler.Deliver(doc) })
		}
	case TypeCursor:
		var c CursorPayload
		if err := msg.Decode(&c); err != nil {
			log.Println("realtime:", err)
			return
		}
		if s.presence != nil {
			s.presence.Cursor(msg.SenderID, c)
		}
	case TypeObjectMove:
		var m ObjectMovePayload
		if err := msg.Decode(&m); err != nil {
			log.Println("realtime:", err)
			return
		}
		if s.presence != nil {
			s.presence.ObjectMove(msg.SenderID, m)
		}
	case TypeLeave:
		if s.presence != nil {
			s.presence.Remove(msg.SenderID)
		}
	case TypePing:
		_ = s.Publish(TypePong, nil)
	case TypeError:
		var e ErrorPayload
		_ = json.Unmarshal(msg.Data, &e)
		log.Printf("realtime: server error: %s", e.Message)
	}
}

// Publish sends one message to the room.
func (s *Session) Publish(t MessageType, payload any) error {
	msg, err := NewMessage(t, payload)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal message: %w", err)
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	if err := s.conn.WriteMessage(websocket.TextMessage, raw); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// ObjectMoved broadcasts a drag position. Failures are logged and dropped.
func (s *Session) ObjectMoved(o models.DrawingObject) {
	if err := s.Publish(TypeObjectMove, MoveFrom(o)); err != nil {
		log.Println("realtime: object move:", err)
	}
}

// CursorMoved broadcasts the local pointer in map space.
func (s *Session) CursorMoved(p geom.Point) {
	c := CursorPayload{X: p.X, Y: p.Y, Name: s.name, Color: s.color}
	if err := s.Publish(TypeCursor, c); err != nil {
		log.Println("realtime: cursor:", err)
	}
}

func (s *Session) Close() error {
	return s.conn.Close()
}
