package handlers

import (
	"errors"
	"log"

	"tacboard-backend/internal/models"
	"tacboard-backend/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type FolderHandler struct {
	repo repo.FolderRepoInterface
}

func NewFolderHandler(repo repo.FolderRepoInterface) *FolderHandler {
	return &FolderHandler{repo: repo}
}

func (h *FolderHandler) CreateFolder(c *fiber.Ctx) error {
	var dto struct {
		Name   string  `json:"name"`
		TeamID *string `json:"teamId"`
	}
	if err := c.BodyParser(&dto); err != nil || dto.Name == "" {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	teamID, err := parseOptionalUUID(dto.TeamID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid team ID")
	}

	id, err := h.repo.CreateFolder(&models.Folder{Name: dto.Name, TeamID: teamID})
	if err != nil {
		log.Println(err, "Error creating folder")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to create folder")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"uuid":    id.String(),
		"message": "Folder created successfully",
	})
}

func (h *FolderHandler) GetAllFolders(c *fiber.Ctx) error {
	team := c.Query("teamId")
	teamID, err := parseOptionalUUID(&team)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid team ID")
	}
	folders, err := h.repo.GetAllFolders(teamID)
	if err != nil {
		log.Println(err, "Error getting folders")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to get folders")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"folders": folders,
	})
}

// DeleteFolder removes a folder; its strategies move to the root.
func (h *FolderHandler) DeleteFolder(c *fiber.Ctx) error {
	id, err := uuid.Parse(c.Params("folderId"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid folder ID")
	}
	if err := h.repo.DeleteFolder(id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return fiber.NewError(fiber.StatusNotFound, "Folder not found")
		}
		log.Println(err, "Error deleting folder")
		return fiber.NewError(fiber.StatusInternalServerError, "Failed to delete folder")
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message": "Folder deleted successfully",
	})
}
