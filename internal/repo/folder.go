package repo

import (
	"time"

	"tacboard-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type FolderRepo struct {
	db *gorm.DB
}

type FolderRepoInterface interface {
	CreateFolder(folder *models.Folder) (uuid.UUID, error)
	GetAllFolders(teamID *uuid.UUID) ([]models.Folder, error)
	DeleteFolder(id uuid.UUID) error
}

func NewFolderRepository(db *gorm.DB) FolderRepoInterface {
	return &FolderRepo{db: db}
}

func (r *FolderRepo) CreateFolder(folder *models.Folder) (uuid.UUID, error) {
	id := uuid.New()
	folder.UUID = id
	folder.CreatedAt = time.Now()
	folder.UpdatedAt = time.Now()
	err := r.db.Create(folder).Error
	return id, err
}

func (r *FolderRepo) GetAllFolders(teamID *uuid.UUID) ([]models.Folder, error) {
	var folders []models.Folder
	q := r.db.Order("name asc")
	if teamID != nil {
		q = q.Where("team_id = ?", *teamID)
	}
	err := q.Find(&folders).Error
	return folders, err
}

// DeleteFolder removes the folder and moves its strategies to the root.
func (r *FolderRepo) DeleteFolder(id uuid.UUID) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Strategy{}).Where("folder_id = ?", id).
			Update("folder_id", nil).Error; err != nil {
			return err
		}
		res := tx.Delete(&models.Folder{}, "uuid = ?", id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}
