package repo

import (
	"context"
	"fmt"

	"tacboard-backend/internal/models"

	"github.com/google/uuid"
)

// StrategyStore adapts the strategy repository to string ids and decoded
// documents. It satisfies persist.Store.
type StrategyStore struct {
	repo StrategyRepoInterface
}

func NewStrategyStore(repo StrategyRepoInterface) *StrategyStore {
	return &StrategyStore{repo: repo}
}

func (s *StrategyStore) Save(ctx context.Context, id string, patch models.SavePatch) error {
	uid, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid strategy id %q: %w", id, err)
	}
	return s.repo.SavePatch(ctx, uid, patch)
}

// Get loads and decodes a strategy.
func (s *StrategyStore) Get(ctx context.Context, id string) (*models.Document, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid strategy id %q: %w", id, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	row, err := s.repo.GetStrategy(uid)
	if err != nil {
		return nil, err
	}
	return row.ToDocument()
}
