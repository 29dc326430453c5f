package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"

	"github.com/gogpu/gg"

	"tacboard-backend/internal/models"
	"tacboard-backend/internal/realtime"
	"tacboard-backend/internal/shapes"
	"tacboard-backend/internal/viewport"
)

var ErrStepIndex = errors.New("step index out of range")

const backdrop = "#0f1923"

// Options tune one render pass.
type Options struct {
	Images   shapes.ImageSource
	Peers    []realtime.Peer
	Selected int64
}

type Renderer struct {
	catalog *shapes.Catalog
}

func New(catalog *shapes.Catalog) *Renderer {
	if catalog == nil {
		catalog = shapes.Default()
	}
	return &Renderer{catalog: catalog}
}

// Keys lists the assets a render of the step needs, background first.
func (r *Renderer) Keys(doc models.Document, step int) ([]string, error) {
	if step < 0 || step >= len(doc.Steps) {
		return nil, fmt.Errorf("step %d: %w", step, ErrStepIndex)
	}
	bg := viewport.MapOrDefault(doc.MapName)
	return append([]string{bg.Asset(doc.IsRotated)}, r.catalog.ImageKeys(doc.Steps[step].Data)...), nil
}

// Step renders one step at the map's native resolution. The caller closes
// the returned canvas.
func (r *Renderer) Step(doc models.Document, step int, opts Options) (*Canvas, error) {
	if step < 0 || step >= len(doc.Steps) {
		return nil, fmt.Errorf("step %d: %w", step, ErrStepIndex)
	}
	bg := viewport.MapOrDefault(doc.MapName)
	c, err := NewCanvas(int(bg.Width), int(bg.Height))
	if err != nil {
		return nil, err
	}

	col := gg.Hex(backdrop)
	c.SetRGBA(col.R, col.G, col.B, 1)
	c.DrawRectangle(0, 0, bg.Width, bg.Height)
	if err := c.Fill(); err != nil {
		c.Close()
		return nil, fmt.Errorf("fill backdrop: %w", err)
	}
	if opts.Images != nil {
		if img, ok := opts.Images.Image(bg.Asset(doc.IsRotated)); ok {
			c.DrawImageEx(img, gg.DrawImageOptions{DstWidth: bg.Width, DstHeight: bg.Height, Opacity: 1})
		}
	}

	flags := shapes.RenderFlags{
		Selected:  opts.Selected,
		Rotated:   doc.IsRotated,
		MapWidth:  bg.Width,
		MapHeight: bg.Height,
		Images:    opts.Images,
	}
	r.catalog.RenderAll(c, doc.Steps[step].Data, bg.Scale, flags)
	c.SetFontSize(12 * bg.Scale)
	DrawPresence(c, opts.Peers, bg.Scale, doc.IsRotated, bg.Size())

	if err := c.FlushGPU(); err != nil {
		c.Close()
		return nil, fmt.Errorf("flush: %w", err)
	}
	return c, nil
}

// PNG renders a step and writes it as PNG.
func (r *Renderer) PNG(w io.Writer, doc models.Document, step int, opts Options) error {
	c, err := r.Step(doc, step, opts)
	if err != nil {
		return err
	}
	defer c.Close()
	return c.EncodePNG(w)
}

// Thumbnail renders a step scaled down to at most maxWidth pixels wide.
func (r *Renderer) Thumbnail(doc models.Document, step int, opts Options, maxWidth int) ([]byte, error) {
	full, err := r.Step(doc, step, opts)
	if err != nil {
		return nil, err
	}
	defer full.Close()

	src := full.Image()
	w, h := src.Bounds().Dx(), src.Bounds().Dy()
	tw, th := w, h
	if maxWidth > 0 && w > maxWidth {
		tw = maxWidth
		th = int(math.Round(float64(h) * float64(maxWidth) / float64(w)))
	}

	thumb := gg.NewContext(tw, th)
	defer thumb.Close()
	thumb.DrawImageEx(gg.ImageBufFromImage(src), gg.DrawImageOptions{
		DstWidth:  float64(tw),
		DstHeight: float64(th),
		Opacity:   1,
	})
	if err := thumb.FlushGPU(); err != nil {
		return nil, fmt.Errorf("flush thumbnail: %w", err)
	}

	var buf bytes.Buffer
	if err := thumb.EncodePNG(&buf); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}
	return buf.Bytes(), nil
}
