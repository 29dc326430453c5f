package persist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"

	"tacboard-backend/internal/models"
)

// ErrNotFound is returned by HTTPStore when the server has no such strategy.
var ErrNotFound = errors.New("strategy not found")

const defaultHTTPTimeout = 10 * time.Second

// HTTPStore talks to the strategy API of a running server. Once a sender
// id is set, the server leaves our own saves out of the room broadcast.
type HTTPStore struct {
	BaseURL string

	mu       sync.RWMutex
	senderID string
}

// SetSenderID records the id the realtime hub assigned to this client.
func (s *HTTPStore) SetSenderID(id string) {
	s.mu.Lock()
	s.senderID = id
	s.mu.Unlock()
}

func (s *HTTPStore) SenderID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.senderID
}

func NewHTTPStore(baseURL string) *HTTPStore {
	return &HTTPStore{BaseURL: strings.TrimRight(baseURL, "/")}
}

func timeoutFor(ctx context.Context) time.Duration {
	if dl, ok := ctx.Deadline(); ok {
		if d := time.Until(dl); d > 0 {
			return d
		}
		return time.Millisecond
	}
	return defaultHTTPTimeout
}

func (s *HTTPStore) Save(ctx context.Context, id string, patch models.SavePatch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := fiber.Put(fmt.Sprintf("%s/api/v1/strategies/%s/save", s.BaseURL, id)).
		JSON(patch).
		Timeout(timeoutFor(ctx))
	if sender := s.SenderID(); sender != "" {
		a.Set("X-Sender-Id", sender)
	}
	code, body, errs := a.Bytes()
	if len(errs) > 0 {
		return fmt.Errorf("save strategy %s: %w", id, errors.Join(errs...))
	}
	return statusError(code, body, id)
}

// Get loads a strategy document.
func (s *HTTPStore) Get(ctx context.Context, id string) (*models.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	code, body, errs := fiber.Get(fmt.Sprintf("%s/api/v1/strategies/%s", s.BaseURL, id)).
		Timeout(timeoutFor(ctx)).
		Bytes()
	if len(errs) > 0 {
		return nil, fmt.Errorf("get strategy %s: %w", id, errors.Join(errs...))
	}
	if err := statusError(code, body, id); err != nil {
		return nil, err
	}
	var out struct {
		Strategy models.Document `json:"strategy"`
	}
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode strategy %s: %w", id, err)
	}
	return &out.Strategy, nil
}

func statusError(code int, body []byte, id string) error {
	switch {
	case code == fiber.StatusNotFound:
		return fmt.Errorf("strategy %s: %w", id, ErrNotFound)
	case code >= 300:
		var e struct {
			Error string `json:"error"`
		}
		if json.Unmarshal(body, &e) != nil || e.Error == "" {
			e.Error = string(body)
		}
		return fmt.Errorf("strategy %s: server answered %d: %s", id, code, e.Error)
	}
	return nil
}
