package libraries

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
)

// ErrObjectNotFound is returned when a bucket object does not exist.
var ErrObjectNotFound = errors.New("object not found")

type Clients struct {
	GCS       *storage.Client
	ProjectID string
}

var clients *Clients

func GetClients() *Clients {
	return clients
}

// NewClients builds the GCP clients from a base64 encoded service account
// json. An empty value falls back to application default credentials.
func NewClients(ctx context.Context, encoded, projectID string) (*Clients, error) {
	var opts []option.ClientOption
	if encoded != "" {
		// decode JSON
		decoded, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, fmt.Errorf("failed to decode service account json: %w", err)
		}
		creds, err := google.CredentialsFromJSON(ctx, decoded, storage.ScopeReadWrite)
		if err != nil {
			return nil, fmt.Errorf("failed to parse service account json: %w", err)
		}
		if projectID == "" {
			projectID = creds.ProjectID
		}
		opts = append(opts, option.WithCredentials(creds))
	}

	// create GCS client
	gcsClient, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage.NewClient: %w", err)
	}

	clients = &Clients{
		GCS:       gcsClient,
		ProjectID: projectID,
	}
	return clients, nil
}

// Upload writes data to bucket/name and returns its public URL.
func (c *Clients) Upload(ctx context.Context, bucket, name, contentType string, data []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	w := c.GCS.Bucket(bucket).Object(name).NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "no-cache"
	if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
		w.Close()
		return "", fmt.Errorf("upload %s/%s: %w", bucket, name, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, name, err)
	}
	return PublicURL(bucket, name), nil
}

// Open returns a reader for bucket/name.
func (c *Clients) Open(ctx context.Context, bucket, name string) (io.ReadCloser, error) {
	r, err := c.GCS.Bucket(bucket).Object(name).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return nil, fmt.Errorf("%s/%s: %w", bucket, name, ErrObjectNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s/%s: %w", bucket, name, err)
	}
	return r, nil
}

func PublicURL(bucket, name string) string {
	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", bucket, name)
}

func (c *Clients) Close() {
	c.GCS.Close()
}
