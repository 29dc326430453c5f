package realtime

import (
	"sync"

	"tacboard-backend/internal/models"
)

// Target is the local editor as seen by the reconciler.
type Target interface {
	// Interacting reports whether a pointer gesture is in progress.
	Interacting() bool
	// ApplyRemote replaces the local document with a remote snapshot.
	ApplyRemote(doc models.Document)
}

// Reconciler applies remote full snapshots to a Target, holding the most
// recent one back while the target is mid-gesture. The slot holds one
// snapshot; a newer delivery replaces an older one.
type Reconciler struct {
	mu      sync.Mutex
	target  Target
	pending *models.Document
}

func NewReconciler(target Target) *Reconciler {
	return &Reconciler{target: target}
}

// Deliver hands a remote snapshot to the target, or parks it when the
// target is busy. It reports whether the snapshot was applied now.
func (r *Reconciler) Deliver(doc models.Document) bool {
	r.mu.Lock()
	if r.target.Interacting() {
		d := doc.Clone()
		r.pending = &d
		r.mu.Unlock()
		return false
	}
	r.pending = nil
	r.mu.Unlock()

	r.target.ApplyRemote(doc.Clone())
	return true
}

// Settle applies the parked snapshot, if any. The editor calls it when a
// gesture ends.
func (r *Reconciler) Settle() bool {
	r.mu.Lock()
	doc := r.pending
	r.pending = nil
	r.mu.Unlock()

	if doc == nil {
		return false
	}
	r.target.ApplyRemote(*doc)
	return true
}

// Pending reports whether a snapshot is parked.
func (r *Reconciler) Pending() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.pending != nil
}
