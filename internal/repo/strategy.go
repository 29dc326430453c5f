package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tacboard-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ErrNotFound is returned when a strategy or folder does not exist.
var ErrNotFound = errors.New("record not found")

// ErrInvalidPatch is returned for a save that would leave the document
// inconsistent.
var ErrInvalidPatch = errors.New("invalid patch")

// StrategyRepo represents the repository for the strategy model
type StrategyRepo struct {
	db *gorm.DB
}

type StrategyRepoInterface interface {
	CreateStrategy(strategy *models.Strategy) (uuid.UUID, error)
	GetAllStrategies(folderID *uuid.UUID) ([]models.Strategy, error)
	GetStrategy(id uuid.UUID) (*models.Strategy, error)
	SavePatch(ctx context.Context, id uuid.UUID, patch models.SavePatch) error
	MoveToFolder(id uuid.UUID, folderID *uuid.UUID) error
	SetThumbnail(id uuid.UUID, url string) error
	DeleteStrategy(id uuid.UUID) error
}

func NewStrategyRepository(db *gorm.DB) StrategyRepoInterface {
	return &StrategyRepo{db: db}
}

// CreateStrategy stores a new strategy. A strategy without data gets a
// single empty step.
func (r *StrategyRepo) CreateStrategy(strategy *models.Strategy) (uuid.UUID, error) {
	id := uuid.New()
	strategy.UUID = id
	if len(strategy.Data) == 0 {
		data, err := models.EncodeSteps([]models.StrategyStep{models.NewStep("Step 1")})
		if err != nil {
			return uuid.Nil, err
		}
		strategy.Data = data
	}
	now := time.Now()
	strategy.CreatedAt = now
	strategy.UpdatedAt = now
	err := r.db.Create(strategy).Error
	return id, err
}

// GetAllStrategies lists strategies, newest first, optionally limited to
// one folder.
func (r *StrategyRepo) GetAllStrategies(folderID *uuid.UUID) ([]models.Strategy, error) {
	var strategies []models.Strategy
	q := r.db.Omit("data").Order("updated_at desc")
	if folderID != nil {
		q = q.Where("folder_id = ?", *folderID)
	}
	err := q.Find(&strategies).Error
	return strategies, err
}

func (r *StrategyRepo) GetStrategy(id uuid.UUID) (*models.Strategy, error) {
	var strategy models.Strategy
	err := r.db.First(&strategy, "uuid = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("strategy %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &strategy, nil
}

// SavePatch applies a partial document update. Only the fields present in
// patch are written.
func (r *StrategyRepo) SavePatch(ctx context.Context, id uuid.UUID, patch models.SavePatch) error {
	updates, err := patchUpdates(patch)
	if err != nil {
		return err
	}
	if len(updates) == 0 {
		return nil
	}
	updates["updated_at"] = time.Now()

	res := r.db.WithContext(ctx).Model(&models.Strategy{}).Where("uuid = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("failed to save strategy %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("strategy %s: %w", id, ErrNotFound)
	}
	return nil
}

// MoveToFolder sets the strategy's folder. A nil folder moves it to the root.
func (r *StrategyRepo) MoveToFolder(id uuid.UUID, folderID *uuid.UUID) error {
	res := r.db.Model(&models.Strategy{}).Where("uuid = ?", id).
		Updates(map[string]any{"folder_id": folderID, "updated_at": time.Now()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("strategy %s: %w", id, ErrNotFound)
	}
	return nil
}

func (r *StrategyRepo) SetThumbnail(id uuid.UUID, url string) error {
	return r.db.Model(&models.Strategy{}).Where("uuid = ?", id).Update("thumbnail", url).Error
}

func (r *StrategyRepo) DeleteStrategy(id uuid.UUID) error {
	res := r.db.Delete(&models.Strategy{}, "uuid = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("strategy %s: %w", id, ErrNotFound)
	}
	return nil
}

// patchUpdates maps a SavePatch onto column updates.
func patchUpdates(patch models.SavePatch) (map[string]any, error) {
	updates := map[string]any{}
	if patch.Steps != nil {
		if len(patch.Steps) == 0 {
			return nil, fmt.Errorf("a strategy needs at least one step: %w", ErrInvalidPatch)
		}
		data, err := models.EncodeSteps(patch.Steps)
		if err != nil {
			return nil, err
		}
		updates["data"] = data
	}
	if patch.CurrentStepIndex != nil {
		idx := *patch.CurrentStepIndex
		if idx < 0 {
			return nil, fmt.Errorf("step index %d: %w", idx, ErrInvalidPatch)
		}
		if patch.Steps != nil && idx >= len(patch.Steps) {
			return nil, fmt.Errorf("step index %d out of range for %d steps: %w", idx, len(patch.Steps), ErrInvalidPatch)
		}
		updates["current_step_index"] = idx
	}
	if patch.IsRotated != nil {
		updates["is_rotated"] = *patch.IsRotated
	}
	return updates, nil
}
