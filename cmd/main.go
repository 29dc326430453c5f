package main

import (
	"context"
	"log"

	"tacboard-backend/internal/api"
	"tacboard-backend/internal/api/routes"
	v1 "tacboard-backend/internal/api/routes/v1"
	"tacboard-backend/internal/assets"
	"tacboard-backend/internal/config"
	"tacboard-backend/internal/libraries"
	"tacboard-backend/internal/render"
	"tacboard-backend/internal/shapes"
)

func main() {
	// Load environment variables
	cfg := config.Load()
	if cfg.RenderDebug {
		render.EnableDebugLogging()
	}

	// Connect to database
	if err := config.ConnectDB(cfg); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer config.CloseDB()

	// Run migrations
	if err := config.MigrateAllModels(cfg.RunMigrations); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	var gcp *libraries.Clients
	if cfg.UsesGCS() {
		var err error
		gcp, err = libraries.NewClients(context.Background(), cfg.GCPCredentials, cfg.GCPProjectID)
		if err != nil {
			log.Fatalf("failed to init gcp clients: %v", err)
		}
		defer gcp.Close()
	}

	var src assets.Source = assets.DirSource{Root: cfg.AssetDir}
	if gcp != nil && cfg.AssetBucket != "" {
		src = assets.Fallback{src, assets.BucketSource{Clients: gcp, Bucket: cfg.AssetBucket}}
	}
	art := assets.NewService(src)

	hub := libraries.NewHub()
	go hub.Run()

	deps := &v1.Deps{
		DB:              config.DB,
		Hub:             hub,
		Thumbnails:      render.NewThumbnailer(render.New(shapes.Default()), art, 0),
		ThumbnailBucket: cfg.ThumbnailBucket,
	}
	if gcp != nil {
		deps.Uploader = gcp
	}

	// Create and configure Fiber app
	app := api.NewServer(cfg)

	// Register routes
	routes.Register(app, deps)

	// Start server
	if err := api.StartServer(app, cfg.Port); err != nil {
		log.Fatal("Failed to start server:", err)
	}
}
