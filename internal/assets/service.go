// Package assets loads map and token art in the background. Callers
// request keys and get handles back; renderers only ever read a Snapshot,
// so drawing never blocks on I/O.
package assets

import (
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"sync"
	"time"

	"github.com/gogpu/gg"
	_ "golang.org/x/image/webp"
)

// ErrNotFound is returned when no source has the requested key.
var ErrNotFound = errors.New("asset not found")

const (
	defaultWorkers = 8
	defaultTimeout = 15 * time.Second
	readyBuffer    = 64
)

// Handle is the future for one asset.
type Handle struct {
	key  string
	done chan struct{}
	img  *gg.ImageBuf
	err  error
}

func (h *Handle) Key() string { return h.key }

// Done is closed when loading finished, successfully or not.
func (h *Handle) Done() <-chan struct{} { return h.done }

// Image returns the decoded image, or nil while loading or after a failure.
func (h *Handle) Image() *gg.ImageBuf {
	select {
	case <-h.done:
		return h.img
	default:
		return nil
	}
}

// Err returns the load error once Done is closed.
func (h *Handle) Err() error {
	select {
	case <-h.done:
		return h.err
	default:
		return nil
	}
}

// Service caches asset handles by key.
type Service struct {
	src     Source
	timeout time.Duration
	sem     chan struct{}
	ready   chan string

	mu      sync.RWMutex
	handles map[string]*Handle
}

type Option func(*Service)

// WithWorkers bounds the number of concurrent loads.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.sem = make(chan struct{}, n)
		}
	}
}

func WithTimeout(d time.Duration) Option {
	return func(s *Service) { s.timeout = d }
}

func NewService(src Source, opts ...Option) *Service {
	s := &Service{
		src:     src,
		timeout: defaultTimeout,
		sem:     make(chan struct{}, defaultWorkers),
		ready:   make(chan string, readyBuffer),
		handles: make(map[string]*Handle),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ready delivers the key of every asset that finished loading successfully.
// Notifications are dropped when nobody keeps up; Snapshot stays correct.
func (s *Service) Ready() <-chan string { return s.ready }

// Request starts loading key unless it is already known, and returns its
// handle.
func (s *Service) Request(key string) *Handle {
	s.mu.RLock()
	h, ok := s.handles[key]
	s.mu.RUnlock()
	if ok {
		return h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[key]; ok {
		return h
	}
	h = &Handle{key: key, done: make(chan struct{})}
	s.handles[key] = h
	go s.load(h)
	return h
}

// RequestAll requests every key and returns the handles in order.
func (s *Service) RequestAll(keys []string) []*Handle {
	out := make([]*Handle, len(keys))
	for i, k := range keys {
		out[i] = s.Request(k)
	}
	return out
}

// Wait blocks until every key has finished loading or ctx ends. Individual
// load failures are not errors here; they surface as placeholders.
func (s *Service) Wait(ctx context.Context, keys ...string) error {
	for _, h := range s.RequestAll(keys) {
		select {
		case <-h.Done():
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return nil
}

// Forget drops a failed handle so the next Request retries it.
func (s *Service) Forget(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h, ok := s.handles[key]; ok && h.Err() != nil {
		delete(s.handles, key)
	}
}

func (s *Service) load(h *Handle) {
	s.sem <- struct{}{}
	defer func() { <-s.sem }()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	h.img, h.err = s.fetch(ctx, h.key)
	close(h.done)
	if h.err != nil {
		if !errors.Is(h.err, ErrNotFound) {
			log.Printf("assets: %s: %v", h.key, h.err)
		}
		return
	}
	select {
	case s.ready <- h.key:
	default:
	}
}

func (s *Service) fetch(ctx context.Context, key string) (*gg.ImageBuf, error) {
	r, err := s.src.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return gg.ImageBufFromImage(img), nil
}

// Image returns the image for key when it is ready. It never starts a
// load.
func (s *Service) Image(key string) (*gg.ImageBuf, bool) {
	s.mu.RLock()
	h, ok := s.handles[key]
	s.mu.RUnlock()
	if !ok {
		return nil, false
	}
	img := h.Image()
	return img, img != nil
}

// Snapshot copies the currently ready images.
func (s *Service) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap := make(Snapshot, len(s.handles))
	for k, h := range s.handles {
		if img := h.Image(); img != nil {
			snap[k] = img
		}
	}
	return snap
}

// Snapshot is a frozen key → image view for one render pass.
type Snapshot map[string]*gg.ImageBuf

func (s Snapshot) Image(key string) (*gg.ImageBuf, bool) {
	img, ok := s[key]
	return img, ok
}
