// Command render draws one strategy step to a PNG file.
//
//	render -strategy <uuid> [-step N] [-out step.png] [-width 0]
//
// The strategy is read from the database named by DB_URL, or from a
// running server with -server.
package main

import (
	"bytes"
	"context"
	"flag"
	"log"
	"os"
	"time"

	"tacboard-backend/internal/assets"
	"tacboard-backend/internal/config"
	"tacboard-backend/internal/models"
	"tacboard-backend/internal/persist"
	"tacboard-backend/internal/render"
	"tacboard-backend/internal/repo"
	"tacboard-backend/internal/shapes"
)

func main() {
	id := flag.String("strategy", "", "strategy id")
	step := flag.Int("step", -1, "step index; the current step when negative")
	out := flag.String("out", "step.png", "output file")
	width := flag.Int("width", 0, "scale down to this width; 0 keeps the map size")
	server := flag.String("server", "", "base URL of a running server instead of the database")
	flag.Parse()

	if *id == "" {
		flag.Usage()
		os.Exit(2)
	}

	cfg := config.Load()
	if cfg.RenderDebug {
		render.EnableDebugLogging()
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	doc, err := load(ctx, cfg, *server, *id)
	if err != nil {
		log.Fatalf("load strategy: %v", err)
	}
	if *step < 0 {
		*step = doc.CurrentStepIndex
	}

	r := render.New(shapes.Default())
	art := assets.NewService(assets.DirSource{Root: cfg.AssetDir})
	keys, err := r.Keys(*doc, *step)
	if err != nil {
		log.Fatal(err)
	}
	if err := art.Wait(ctx, keys...); err != nil {
		log.Printf("assets not ready: %v", err)
	}

	var buf bytes.Buffer
	opts := render.Options{Images: art.Snapshot()}
	if *width > 0 {
		b, err := r.Thumbnail(*doc, *step, opts, *width)
		if err != nil {
			log.Fatal(err)
		}
		buf.Write(b)
	} else if err := r.PNG(&buf, *doc, *step, opts); err != nil {
		log.Fatal(err)
	}

	if err := os.WriteFile(*out, buf.Bytes(), 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s (step %d of %d)", *out, *step+1, len(doc.Steps))
}

func load(ctx context.Context, cfg *config.Config, server, id string) (*models.Document, error) {
	if server != "" {
		return persist.NewHTTPStore(server).Get(ctx, id)
	}
	if err := config.ConnectDB(cfg); err != nil {
		return nil, err
	}
	defer config.CloseDB()
	return repo.NewStrategyStore(repo.NewStrategyRepository(config.DB)).Get(ctx, id)
}
