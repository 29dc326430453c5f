package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"tacboard-backend/internal/libraries"
)

// Source opens asset bytes by key. Keys are URL-style paths such as
// "/agents/sova.png".
type Source interface {
	Open(ctx context.Context, key string) (io.ReadCloser, error)
}

// cleanKey turns a key into a relative slash path, refusing anything that
// escapes the asset root.
func cleanKey(key string) (string, error) {
	rel := strings.TrimPrefix(path.Clean("/"+key), "/")
	if rel == "" || rel == "." {
		return "", fmt.Errorf("asset %q: %w", key, ErrNotFound)
	}
	return rel, nil
}

// DirSource serves assets from a local directory.
type DirSource struct {
	Root string
}

func (d DirSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rel, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(filepath.Join(d.Root, filepath.FromSlash(rel)))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("asset %q: %w", key, ErrNotFound)
	}
	return f, err
}

// BucketSource serves assets from a GCS bucket, optionally under a prefix.
type BucketSource struct {
	Clients *libraries.Clients
	Bucket  string
	Prefix  string
}

func (b BucketSource) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	rel, err := cleanKey(key)
	if err != nil {
		return nil, err
	}
	r, err := b.Clients.Open(ctx, b.Bucket, path.Join(b.Prefix, rel))
	if errors.Is(err, libraries.ErrObjectNotFound) {
		return nil, fmt.Errorf("asset %q: %w", key, ErrNotFound)
	}
	return r, err
}

// Fallback tries each source in order until one has the key.
type Fallback []Source

func (f Fallback) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	for _, s := range f {
		r, err := s.Open(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		return r, err
	}
	return nil, fmt.Errorf("asset %q: %w", key, ErrNotFound)
}
