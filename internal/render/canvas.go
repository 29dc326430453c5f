// Package render draws strategy steps with gogpu/gg: the map background,
// every annotation through the shape catalog, and an optional presence
// overlay. It backs thumbnails and the headless render command.
package render

import (
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	fontOnce sync.Once
	fontSrc  *text.FontSource
	fontErr  error
)

func defaultFont() (*text.FontSource, error) {
	fontOnce.Do(func() {
		fontSrc, fontErr = text.NewFontSource(goregular.TTF)
	})
	return fontSrc, fontErr
}

// Canvas is a gg context that can resize its font, which text tokens need.
type Canvas struct {
	*gg.Context
	font *text.FontSource
}

func NewCanvas(width, height int) (*Canvas, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("invalid canvas size %dx%d", width, height)
	}
	src, err := defaultFont()
	if err != nil {
		return nil, fmt.Errorf("load default font: %w", err)
	}
	return &Canvas{Context: gg.NewContext(width, height), font: src}, nil
}

func (c *Canvas) SetFontSize(size float64) {
	if size <= 0 {
		return
	}
	c.SetFont(c.font.Face(size))
}

// EnableDebugLogging routes gg's internal logging to slog.
func EnableDebugLogging() {
	gg.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
}
