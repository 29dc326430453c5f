package render

import (
	"context"
	"log"
	"time"

	"tacboard-backend/internal/assets"
	"tacboard-backend/internal/models"
)

const (
	DefaultThumbnailWidth = 512
	assetWait             = 5 * time.Second
)

// Thumbnailer renders thumbnails once the step's art has loaded. Art that
// fails or takes too long is drawn as a placeholder.
type Thumbnailer struct {
	renderer *Renderer
	assets   *assets.Service
	width    int
}

func NewThumbnailer(r *Renderer, a *assets.Service, width int) *Thumbnailer {
	if width <= 0 {
		width = DefaultThumbnailWidth
	}
	return &Thumbnailer{renderer: r, assets: a, width: width}
}

func (t *Thumbnailer) Thumbnail(ctx context.Context, doc models.Document, step int) ([]byte, error) {
	keys, err := t.renderer.Keys(doc, step)
	if err != nil {
		return nil, err
	}
	opts := Options{}
	if t.assets != nil {
		wctx, cancel := context.WithTimeout(ctx, assetWait)
		if err := t.assets.Wait(wctx, keys...); err != nil {
			log.Printf("render: drawing %s before its assets loaded: %v", doc.ID, err)
		}
		cancel()
		opts.Images = t.assets.Snapshot()
	}
	return t.renderer.Thumbnail(doc, step, opts, t.width)
}
