package realtime

import (
	"sort"
	"sync"
	"time"

	"tacboard-backend/internal/geom"
)

// Peer is the last known state of another participant.
type Peer struct {
	SenderID string             `json:"senderId"`
	Name     string             `json:"name,omitempty"`
	Color    string             `json:"color,omitempty"`
	Cursor   geom.Point         `json:"cursor"`
	Move     *ObjectMovePayload `json:"move,omitempty"`
	Seen     time.Time          `json:"seen"`
}

// Presence keeps one Peer per sender, last message wins.
type Presence struct {
	mu    sync.Mutex
	peers map[string]Peer
	now   func() time.Time
}

func NewPresence() *Presence {
	return &Presence{peers: make(map[string]Peer), now: time.Now}
}

// Cursor records a pointer position. A cursor update ends any drag the
// sender was showing.
func (p *Presence) Cursor(sender string, c CursorPayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	peer := p.peers[sender]
	peer.SenderID = sender
	peer.Cursor = geom.Pt(c.X, c.Y)
	if c.Name != "" {
		peer.Name = c.Name
	}
	if c.Color != "" {
		peer.Color = c.Color
	}
	peer.Move = nil
	peer.Seen = p.now()
	p.peers[sender] = peer
}

// ObjectMove records an in-progress drag.
func (p *Presence) ObjectMove(sender string, m ObjectMovePayload) {
	p.mu.Lock()
	defer p.mu.Unlock()
	peer := p.peers[sender]
	peer.SenderID = sender
	mv := m
	mv.Points = append([]geom.Point(nil), m.Points...)
	peer.Move = &mv
	if len(m.Points) > 0 {
		peer.Cursor = m.Points[0]
	} else {
		peer.Cursor = geom.Pt(m.X, m.Y)
	}
	peer.Seen = p.now()
	p.peers[sender] = peer
}

// Remove forgets a sender.
func (p *Presence) Remove(sender string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	delete(p.peers, sender)
}

// Prune drops peers not heard from within idle and returns how many went.
func (p *Presence) Prune(idle time.Duration) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	cutoff := p.now().Add(-idle)
	n := 0
	for id, peer := range p.peers {
		if peer.Seen.Before(cutoff) {
			delete(p.peers, id)
			n++
		}
	}
	return n
}

// Peers returns a copy of every peer, ordered by sender id.
func (p *Presence) Peers() []Peer {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]Peer, 0, len(p.peers))
	for _, peer := range p.peers {
		out = append(out, peer)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SenderID < out[j].SenderID })
	return out
}
