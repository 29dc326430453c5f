package repo

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacboard-backend/internal/models"
)

type memRepo struct {
	StrategyRepoInterface
	rows    map[uuid.UUID]*models.Strategy
	patches []models.SavePatch
}

func (m *memRepo) GetStrategy(id uuid.UUID) (*models.Strategy, error) {
	s, ok := m.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

func (m *memRepo) SavePatch(_ context.Context, id uuid.UUID, p models.SavePatch) error {
	if _, ok := m.rows[id]; !ok {
		return ErrNotFound
	}
	m.patches = append(m.patches, p)
	return nil
}

func TestPatchUpdates(t *testing.T) {
	idx, rotated := 1, true
	steps := []models.StrategyStep{models.NewStep("a"), models.NewStep("b")}

	u, err := patchUpdates(models.SavePatch{Steps: steps, CurrentStepIndex: &idx, IsRotated: &rotated})
	require.NoError(t, err)
	assert.Contains(t, u, "data")
	assert.Equal(t, 1, u["current_step_index"])
	assert.Equal(t, true, u["is_rotated"])

	u, err = patchUpdates(models.SavePatch{IsRotated: &rotated})
	require.NoError(t, err)
	assert.Len(t, u, 1)

	u, err = patchUpdates(models.SavePatch{})
	require.NoError(t, err)
	assert.Empty(t, u)
}

func TestPatchUpdatesRejectsBadIndex(t *testing.T) {
	neg, past := -1, 2
	_, err := patchUpdates(models.SavePatch{CurrentStepIndex: &neg})
	assert.True(t, errors.Is(err, ErrInvalidPatch))

	_, err = patchUpdates(models.SavePatch{Steps: []models.StrategyStep{models.NewStep("a")}, CurrentStepIndex: &past})
	assert.True(t, errors.Is(err, ErrInvalidPatch))

	_, err = patchUpdates(models.SavePatch{Steps: []models.StrategyStep{}})
	assert.True(t, errors.Is(err, ErrInvalidPatch))
}

func TestStrategyStore(t *testing.T) {
	id := uuid.New()
	data, err := models.EncodeSteps([]models.StrategyStep{models.NewStep("Step 1"), models.NewStep("Step 2")})
	require.NoError(t, err)
	m := &memRepo{rows: map[uuid.UUID]*models.Strategy{
		id: {UUID: id, MapName: "bind", Data: data, CurrentStepIndex: 1},
	}}
	store := NewStrategyStore(m)
	ctx := context.Background()

	doc, err := store.Get(ctx, id.String())
	require.NoError(t, err)
	assert.Equal(t, id.String(), doc.ID)
	assert.Equal(t, "bind", doc.MapName)
	assert.Len(t, doc.Steps, 2)
	assert.Equal(t, 1, doc.CurrentStepIndex)

	rotated := true
	require.NoError(t, store.Save(ctx, id.String(), models.SavePatch{IsRotated: &rotated}))
	assert.Len(t, m.patches, 1)

	_, err = store.Get(ctx, uuid.NewString())
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Error(t, store.Save(ctx, "not-a-uuid", models.SavePatch{IsRotated: &rotated}))
}
