// Package workspace connects an editor to its strategy store and realtime
// room. Remote snapshots, settle callbacks and host calls all run on the
// goroutine that drives Run, so the editor never sees concurrent access.
package workspace

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/fasthttp/websocket"

	"tacboard-backend/internal/editor"
	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/persist"
	"tacboard-backend/internal/realtime"
)

var ErrClosed = errors.New("workspace closed")

// Config tunes a workspace. Editor.Saver and Editor.Publisher are replaced
// by the workspace's own.
type Config struct {
	Editor    editor.Config
	SaveDelay time.Duration
	Name      string
	Color     string
}

type Workspace struct {
	editor     *editor.Editor
	saver      *persist.Saver
	reconciler *realtime.Reconciler
	presence   *realtime.Presence
	session    *realtime.Session

	calls    chan func()
	done     chan struct{}
	doneOnce sync.Once
}

// New wires doc to store and an open room connection. Stores that accept
// a sender id (persist.HTTPStore) get the id the hub hands out.
func New(doc models.Document, store persist.Store, conn realtime.Conn, cfg Config) *Workspace {
	w := &Workspace{
		presence: realtime.NewPresence(),
		calls:    make(chan func(), 64),
		done:     make(chan struct{}),
	}
	w.saver = persist.NewSaver(store, doc.ID, cfg.SaveDelay)

	ec := cfg.Editor
	ec.Saver = w.saver
	ec.Publisher = w
	w.editor = editor.New(doc, ec)
	w.reconciler = realtime.NewReconciler(w.editor)
	w.editor.OnSettle(func() { w.reconciler.Settle() })

	opts := []realtime.Option{
		realtime.WithDispatcher(func(f func()) { w.post(f) }),
		realtime.WithIdentity(cfg.Name, cfg.Color),
	}
	if s, ok := store.(interface{ SetSenderID(id string) }); ok {
		opts = append(opts, realtime.WithHelloHandler(s.SetSenderID))
	}
	w.session = realtime.NewSession(conn, w.reconciler, w.presence, opts...)
	return w
}

// Open loads strategy id from a running server and joins its room.
func Open(ctx context.Context, serverURL, id string, cfg Config) (*Workspace, error) {
	store := persist.NewHTTPStore(serverURL)
	doc, err := store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	url := wsURL(store.BaseURL) + "/api/v1/ws/" + id
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", url, err)
	}
	return New(*doc, store, conn, cfg), nil
}

func wsURL(base string) string {
	switch {
	case strings.HasPrefix(base, "https://"):
		return "wss://" + strings.TrimPrefix(base, "https://")
	case strings.HasPrefix(base, "http://"):
		return "ws://" + strings.TrimPrefix(base, "http://")
	}
	return base
}

// Run drives the workspace until ctx ends or the room connection drops.
// Pending saves are flushed on the way out.
func (w *Workspace) Run(ctx context.Context) error {
	defer w.doneOnce.Do(func() { close(w.done) })
	defer w.saver.Flush()

	errc := make(chan error, 1)
	go func() { errc <- w.session.Run() }()

	for {
		select {
		case f := <-w.calls:
			f()
		case err := <-errc:
			return err
		case <-ctx.Done():
			_ = w.session.Close()
			return ctx.Err()
		}
	}
}

func (w *Workspace) post(f func()) bool {
	select {
	case w.calls <- f:
		return true
	case <-w.done:
		return false
	}
}

// Do runs f on the workspace goroutine and waits for it.
func (w *Workspace) Do(f func(ed *editor.Editor)) error {
	ran := make(chan struct{})
	if !w.post(func() {
		f(w.editor)
		close(ran)
	}) {
		return ErrClosed
	}
	select {
	case <-ran:
		return nil
	case <-w.done:
		return ErrClosed
	}
}

// Peers returns the other participants of the room.
func (w *Workspace) Peers() []realtime.Peer {
	return w.presence.Peers()
}

// SenderID is the id the hub assigned to this workspace.
func (w *Workspace) SenderID() string {
	return w.session.ID()
}

func (w *Workspace) ObjectMoved(o models.DrawingObject) {
	w.session.ObjectMoved(o)
}

func (w *Workspace) CursorMoved(p geom.Point) {
	w.session.CursorMoved(p)
}

func (w *Workspace) Close() error {
	if err := w.session.Close(); err != nil {
		log.Println("workspace: close:", err)
		return err
	}
	return nil
}
