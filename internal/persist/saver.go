// Package persist debounces editor saves onto the strategy store.
package persist

import (
	"context"
	"log"
	"sync"
	"time"

	"tacboard-backend/internal/models"
)

// DefaultDelay is the debounce window for ordinary edits.
const DefaultDelay = time.Second

// Store is the strategy store as the saver uses it.
type Store interface {
	Save(ctx context.Context, id string, patch models.SavePatch) error
}

// Saver writes patches for one strategy. Schedule coalesces calls within
// the debounce window, keeping only the latest patch; SaveNow writes at once
// and cancels anything pending so an older patch can never land after a
// newer one. Errors are logged and not returned: in-memory state stays
// authoritative and the next save carries it.
type Saver struct {
	store   Store
	id      string
	delay   time.Duration
	timeout time.Duration

	mu      sync.Mutex
	timer   *time.Timer
	pending *models.SavePatch
	gen     uint64

	writeMu sync.Mutex
	// OnError, when set, is called after a failed write.
	OnError func(err error)
}

func NewSaver(store Store, strategyID string, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Saver{store: store, id: strategyID, delay: delay, timeout: 10 * time.Second}
}

// Schedule queues patch for a debounced write.
func (s *Saver) Schedule(patch models.SavePatch) {
	if patch.Empty() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	p := clonePatch(patch)
	s.pending = &p
	s.gen++
	gen := s.gen
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.delay, func() { s.fire(gen) })
}

// SaveNow cancels any pending write and saves patch synchronously.
func (s *Saver) SaveNow(patch models.SavePatch) {
	s.Cancel()
	if patch.Empty() {
		return
	}
	s.write(clonePatch(patch))
}

// Cancel drops a pending debounced write.
func (s *Saver) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Saver) cancelLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
	s.gen++
}

// Flush writes the pending patch, if any, immediately.
func (s *Saver) Flush() {
	s.mu.Lock()
	p := s.pending
	s.cancelLocked()
	s.mu.Unlock()
	if p != nil {
		s.write(*p)
	}
}

// Pending reports whether a debounced write is waiting.
func (s *Saver) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending != nil
}

func (s *Saver) fire(gen uint64) {
	s.mu.Lock()
	if gen != s.gen || s.pending == nil {
		s.mu.Unlock()
		return
	}
	p := *s.pending
	s.pending = nil
	s.timer = nil
	s.mu.Unlock()

	s.write(p)
}

func (s *Saver) write(p models.SavePatch) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	if err := s.store.Save(ctx, s.id, p); err != nil {
		log.Printf("saver: strategy %s: %v", s.id, err)
		if s.OnError != nil {
			s.OnError(err)
		}
	}
}

func clonePatch(p models.SavePatch) models.SavePatch {
	if p.Steps != nil {
		p.Steps = models.CloneSteps(p.Steps)
	}
	if p.CurrentStepIndex != nil {
		v := *p.CurrentStepIndex
		p.CurrentStepIndex = &v
	}
	if p.IsRotated != nil {
		v := *p.IsRotated
		p.IsRotated = &v
	}
	return p
}
