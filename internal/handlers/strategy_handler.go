package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"

	"tacboard-backend/internal/models"
	"tacboard-backend/internal/realtime"
	"tacboard-backend/internal/repo"
	"tacboard-backend/internal/viewport"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// SenderHeader names the websocket client id of the caller, so a save is
// not echoed back to the tab that made it.
const SenderHeader = "X-Sender-Id"

// RoomPublisher broadcasts to the websocket room of a strategy.
type RoomPublisher interface {
	Publish(room string, t realtime.MessageType, data any, sender string) error
}

type Thumbnailer interface {
	Thumbnail(ctx context.Context, doc models.Document, step int) ([]byte, error)
}

// Uploader stores rendered thumbnails and returns their URL.
type Uploader interface {
	Upload(ctx context.Context, bucket, name, contentType string, data []byte) (string, error)
}

// for simple crud operations service layer is not required
type StrategyHandler struct {
	repo        repo.StrategyRepoInterface
	hub         RoomPublisher
	thumbnails  Thumbnailer
	uploader    Uploader
	thumbBucket string
}

type StrategyOption func(*StrategyHandler)

// WithThumbnailUpload stores every rendered thumbnail in bucket.
func WithThumbnailUpload(u Uploader, bucket string) StrategyOption {
	return func(h *StrategyHandler) {
		h.uploader = u
		h.thumbBucket = bucket
	}
}

func NewStrategyHandler(repo repo.StrategyRepoInterface, hub RoomPublisher, thumbnails Thumbnailer, opts ...StrategyOption) *StrategyHandler {
	h := &StrategyHandler{
		repo:       repo,
		hub:        hub,
		thumbnails: thumbnails,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("strategyId"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid strategy ID")
	}
	return id, nil
}

func parseOptionalUUID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}

// repoError maps store errors onto HTTP errors.
func repoError(err error, action string) error {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "Strategy not found")
	case errors.Is(err, repo.ErrInvalidPatch):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	log.Println(err, "Error", action)
	return fiber.NewError(fiber.StatusInternalServerError, "Failed to "+action)
}

// function to create a strategy
func (h *StrategyHandler) CreateStrategy(c *fiber.Ctx) error {
	var dto struct {
		Title    string  `json:"title"`
		MapName  string  `json:"mapName"`
		FolderID *string `json:"folderId"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if dto.MapName == "" {
		dto.MapName = viewport.DefaultMap
	}
	if _, ok := viewport.LookupMap(dto.MapName); !ok {
		return fiber.NewError(fiber.StatusBadRequest, "Unknown map")
	}
	folderID, err := parseOptionalUUID(dto.FolderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid folder ID")
	}

	id, err := h.repo.CreateStrategy(&models.Strategy{
		Title:    dto.Title,
		MapName:  dto.MapName,
		FolderID: folderID,
	})
	if err != nil {
		return repoError(err, "create strategy")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":    id.String(),
		"message": "Strategy created successfully",
	})
}

// function to get all strategies, optionally in one folder
func (h *StrategyHandler) GetAllStrategies(c *fiber.Ctx) error {
	folder := c.Query("folderId")
	folderID, err := parseOptionalUUID(&folder)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid folder ID")
	}
	strategies, err := h.repo.GetAllStrategies(folderID)
	if err != nil {
		return repoError(err, "get strategies")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"strategies": strategies,
	})
}

func (h *StrategyHandler) loadDocument(id uuid.UUID) (*models.Strategy, *models.Document, error) {
	row, err := h.repo.GetStrategy(id)
	if err != nil {
		return nil, nil, repoError(err, "get strategy")
	}
	doc, err := row.ToDocument()
	if err != nil {
		log.Println(err, "Error decoding strategy")
		return nil, nil, fiber.NewError(fiber.StatusInternalServerError, "Failed to decode strategy")
	}
	return row, doc, nil
}

// function to get strategy by ID
func (h *StrategyHandler) GetStrategyByID(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	row, doc, err := h.loadDocument(id)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"title":     row.Title,
		"thumbnail": row.Thumbnail,
		"strategy":  doc,
	})
}

// function to save a partial document and tell the room about it
func (h *StrategyHandler) SaveStrategy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var patch models.SavePatch
	if err := c.BodyParser(&patch); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if patch.Empty() {
		return fiber.NewError(fiber.StatusBadRequest, "Nothing to save")
	}

	if err := h.repo.SavePatch(c.UserContext(), id, patch); err != nil {
		return repoError(err, "save strategy")
	}

	if h.hub != nil {
		_, doc, err := h.loadDocument(id)
		if err != nil {
			return err
		}
		if err := h.hub.Publish(id.String(), realtime.TypeFullUpdate, realtime.FullUpdateFrom(*doc), c.Get(SenderHeader)); err != nil {
			log.Println(err, "Error broadcasting strategy update")
		}
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Strategy saved successfully",
	})
}

// function to move a strategy into a folder; a null folder moves it to the root
func (h *StrategyHandler) MoveStrategy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var dto struct {
		FolderID *string `json:"folderId"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	folderID, err := parseOptionalUUID(dto.FolderID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid folder ID")
	}
	if err := h.repo.MoveToFolder(id, folderID); err != nil {
		return repoError(err, "move strategy")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Strategy moved successfully",
	})
}

func (h *StrategyHandler) DeleteStrategy(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.repo.DeleteStrategy(id); err != nil {
		return repoError(err, "delete strategy")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Strategy deleted successfully",
	})
}

// function to render a step as png; defaults to the current step
func (h *StrategyHandler) Thumbnail(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return err
	}
	_, doc, err := h.loadDocument(id)
	if err != nil {
		return err
	}
	step := doc.CurrentStepIndex
	if s := c.Query("step"); s != "" {
		step, err = strconv.Atoi(s)
		if err != nil || step < 0 || step >= len(doc.Steps) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid step")
		}
	}

	png, err := h.thumbnails.Thumbnail(c.UserContext(), *doc, step)
	if err != nil {
		log.Println(err, "Error rendering thumbnail")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to render thumbnail")
	}

	if h.uploader != nil && h.thumbBucket != "" && step == doc.CurrentStepIndex {
		name := fmt.Sprintf("thumbnails/%s.png", id)
		if url, err := h.uploader.Upload(c.UserContext(), h.thumbBucket, name, "image/png", png); err != nil {
			log.Println(err, "Error uploading thumbnail")
		} else if err := h.repo.SetThumbnail(id, url); err != nil {
			log.Println(err, "Error storing thumbnail url")
		}
	}

	c.Set(fiber.HeaderContentType, "image/png")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	return c.Status(fiber.StatusOK).Send(png)
}
