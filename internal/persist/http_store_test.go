package persist

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacboard-backend/internal/models"
)

func serve(t *testing.T, app *fiber.App) string {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	go func() { _ = app.Listener(ln) }()
	t.Cleanup(func() { _ = app.Shutdown() })
	return "http://" + ln.Addr().String()
}

func TestHTTPStoreSave(t *testing.T) {
	var got models.SavePatch
	var sender string
	app := fiber.New()
	app.Put("/api/v1/strategies/:id/save", func(c *fiber.Ctx) error {
		if c.Params("id") != "s1" {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Strategy not found"})
		}
		sender = c.Get("X-Sender-Id")
		return c.BodyParser(&got)
	})
	store := NewHTTPStore(serve(t, app) + "/")
	store.SetSenderID("me")

	rotated := true
	require.NoError(t, store.Save(context.Background(), "s1", models.SavePatch{IsRotated: &rotated}))
	require.NotNil(t, got.IsRotated)
	assert.True(t, *got.IsRotated)
	assert.Equal(t, "me", sender)

	err := store.Save(context.Background(), "s2", models.SavePatch{IsRotated: &rotated})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestHTTPStoreGet(t *testing.T) {
	app := fiber.New()
	app.Get("/api/v1/strategies/:id", func(c *fiber.Ctx) error {
		if c.Params("id") == "broken" {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to get strategy"})
		}
		return c.JSON(fiber.Map{"strategy": models.Document{
			ID:      c.Params("id"),
			MapName: "lotus",
			Steps:   []models.StrategyStep{models.NewStep("Step 1")},
		}})
	})
	store := NewHTTPStore(serve(t, app))

	doc, err := store.Get(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, "lotus", doc.MapName)
	assert.Len(t, doc.Steps, 1)

	_, err = store.Get(context.Background(), "broken")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to get strategy")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = store.Get(ctx, "s1")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestHTTPStoreWithSaver(t *testing.T) {
	saved := make(chan struct{}, 1)
	app := fiber.New()
	app.Put("/api/v1/strategies/:id/save", func(c *fiber.Ctx) error {
		saved <- struct{}{}
		return c.SendStatus(fiber.StatusOK)
	})
	s := NewSaver(NewHTTPStore(serve(t, app)), "s1", 0)
	idx := 0
	s.SaveNow(models.SavePatch{CurrentStepIndex: &idx})
	select {
	case <-saved:
	default:
		t.Fatal("SaveNow did not reach the server")
	}
}
