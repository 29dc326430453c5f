package v1

import (
	"tacboard-backend/internal/handlers"
	"tacboard-backend/internal/libraries"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Deps carries what the v1 handlers need.
type Deps struct {
	DB              *gorm.DB
	Hub             *libraries.Hub
	Thumbnails      handlers.Thumbnailer
	Uploader        handlers.Uploader
	ThumbnailBucket string
}

func RegisterRoutes(r fiber.Router, deps *Deps) {
	registerHealth(r)
	registerMaps(r)

	registerStrategy(r, deps)
	registerFolder(r, deps)
	registerRealtime(r, deps)
}
