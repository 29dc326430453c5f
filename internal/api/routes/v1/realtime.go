package v1

import (
	"tacboard-backend/internal/libraries"

	"github.com/gofiber/fiber/v2"
)

// registerRealtime mounts the websocket endpoint; each strategy id is a
// room.
func registerRealtime(r fiber.Router, deps *Deps) {
	r.Get("/ws/:id", libraries.WebSocketHandler(deps.Hub))
}
