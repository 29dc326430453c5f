package v1

import (
	"sort"

	"tacboard-backend/internal/viewport"

	"github.com/gofiber/fiber/v2"
)

func registerHealth(r fiber.Router) {
	r.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

// registerMaps exposes the background table to the editor.
func registerMaps(r fiber.Router) {
	r.Get("/maps", func(c *fiber.Ctx) error {
		names := viewport.MapNames()
		sort.Strings(names)
		out := make([]fiber.Map, 0, len(names))
		for _, name := range names {
			bg, _ := viewport.LookupMap(name)
			out = append(out, fiber.Map{
				"name":     bg.Name,
				"width":    bg.Width,
				"height":   bg.Height,
				"scale":    bg.Scale,
				"asset":    bg.Asset(false),
				"reversed": bg.Asset(true),
			})
		}
		return c.JSON(fiber.Map{"maps": out})
	})
}
