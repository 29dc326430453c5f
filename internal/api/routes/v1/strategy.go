package v1

import (
	"tacboard-backend/internal/handlers"
	"tacboard-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
)

func registerStrategy(r fiber.Router, deps *Deps) {
	// Initialize handler
	strategyRepo := repo.NewStrategyRepository(deps.DB)
	var opts []handlers.StrategyOption
	if deps.Uploader != nil && deps.ThumbnailBucket != "" {
		opts = append(opts, handlers.WithThumbnailUpload(deps.Uploader, deps.ThumbnailBucket))
	}
	var hub handlers.RoomPublisher
	if deps.Hub != nil {
		hub = deps.Hub
	}
	strategyHandler := handlers.NewStrategyHandler(strategyRepo, hub, deps.Thumbnails, opts...)

	// Register routes
	r.Get("/strategies", strategyHandler.GetAllStrategies)
	r.Post("/strategies", strategyHandler.CreateStrategy)
	r.Get("/strategies/:strategyId", strategyHandler.GetStrategyByID)
	r.Put("/strategies/:strategyId/save", strategyHandler.SaveStrategy)
	r.Patch("/strategies/:strategyId/move", strategyHandler.MoveStrategy)
	r.Delete("/strategies/:strategyId", strategyHandler.DeleteStrategy)
	r.Get("/strategies/:strategyId/thumbnail.png", strategyHandler.Thumbnail)
}

func registerFolder(r fiber.Router, deps *Deps) {
	folderHandler := handlers.NewFolderHandler(repo.NewFolderRepository(deps.DB))

	r.Get("/folders", folderHandler.GetAllFolders)
	r.Post("/folders", folderHandler.CreateFolder)
	r.Delete("/folders/:folderId", folderHandler.DeleteFolder)
}
