package render

import (
	"github.com/gogpu/gg"

	"tacboard-backend/internal/geom"
	"tacboard-backend/internal/realtime"
	"tacboard-backend/internal/shapes"
	"tacboard-backend/internal/viewport"
)

const (
	peerColor   = "#ece8e1"
	peerDot     = 5.0
	peerLabelDy = 10.0
)

// DrawPresence paints other participants' cursors as labelled dots, plus a
// ring around whatever they are dragging. Peers are in map space.
func DrawPresence(c shapes.Canvas, peers []realtime.Peer, scale float64, rotated bool, size viewport.Size) {
	if len(peers) == 0 {
		return
	}
	place := func(p geom.Point) geom.Point {
		if rotated {
			return viewport.Mirror(p, size)
		}
		return p
	}

	c.Push()
	defer c.Pop()
	c.SetDash()
	for _, p := range peers {
		hex := p.Color
		if hex == "" {
			hex = peerColor
		}
		col := gg.Hex(hex)
		at := place(p.Cursor)

		if p.Move != nil {
			c.SetRGBA(col.R, col.G, col.B, 0.8)
			c.SetLineWidth(2 * scale)
			c.DrawCircle(at.X, at.Y, 3*peerDot*scale)
			_ = c.Stroke()
		}

		c.SetRGBA(col.R, col.G, col.B, 1)
		c.DrawCircle(at.X, at.Y, peerDot*scale)
		_ = c.Fill()
		if p.Name != "" {
			c.DrawStringAnchored(p.Name, at.X, at.Y+peerLabelDy*scale, 0.5, 1)
		}
	}
}
