package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tacboard-backend/internal/models"
	"tacboard-backend/internal/realtime"
	"tacboard-backend/internal/repo"
)

type fakeRepo struct {
	rows  map[uuid.UUID]*models.Strategy
	thumb string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{rows: map[uuid.UUID]*models.Strategy{}}
}

func (f *fakeRepo) CreateStrategy(s *models.Strategy) (uuid.UUID, error) {
	s.UUID = uuid.New()
	if len(s.Data) == 0 {
		s.Data, _ = models.EncodeSteps([]models.StrategyStep{models.NewStep("Step 1")})
	}
	f.rows[s.UUID] = s
	return s.UUID, nil
}

func (f *fakeRepo) GetAllStrategies(folderID *uuid.UUID) ([]models.Strategy, error) {
	var out []models.Strategy
	for _, s := range f.rows {
		if folderID == nil || (s.FolderID != nil && *s.FolderID == *folderID) {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (f *fakeRepo) GetStrategy(id uuid.UUID) (*models.Strategy, error) {
	s, ok := f.rows[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return s, nil
}

func (f *fakeRepo) SavePatch(_ context.Context, id uuid.UUID, p models.SavePatch) error {
	s, ok := f.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	if p.Steps != nil {
		if len(p.Steps) == 0 {
			return repo.ErrInvalidPatch
		}
		s.Data, _ = models.EncodeSteps(p.Steps)
	}
	if p.CurrentStepIndex != nil {
		s.CurrentStepIndex = *p.CurrentStepIndex
	}
	if p.IsRotated != nil {
		s.IsRotated = *p.IsRotated
	}
	return nil
}

func (f *fakeRepo) MoveToFolder(id uuid.UUID, folderID *uuid.UUID) error {
	s, ok := f.rows[id]
	if !ok {
		return repo.ErrNotFound
	}
	s.FolderID = folderID
	return nil
}

func (f *fakeRepo) SetThumbnail(id uuid.UUID, url string) error {
	f.thumb = url
	return nil
}

func (f *fakeRepo) DeleteStrategy(id uuid.UUID) error {
	if _, ok := f.rows[id]; !ok {
		return repo.ErrNotFound
	}
	delete(f.rows, id)
	return nil
}

type published struct {
	room   string
	typ    realtime.MessageType
	data   any
	sender string
}

type fakeHub struct{ sent []published }

func (h *fakeHub) Publish(room string, t realtime.MessageType, data any, sender string) error {
	h.sent = append(h.sent, published{room, t, data, sender})
	return nil
}

type fakeThumbs struct{ steps []int }

func (f *fakeThumbs) Thumbnail(_ context.Context, _ models.Document, step int) ([]byte, error) {
	f.steps = append(f.steps, step)
	return []byte("\x89PNG"), nil
}

type fakeUploader struct{ names []string }

func (u *fakeUploader) Upload(_ context.Context, bucket, name, _ string, _ []byte) (string, error) {
	u.names = append(u.names, name)
	return "https://cdn/" + bucket + "/" + name, nil
}

type fixture struct {
	app    *fiber.App
	repo   *fakeRepo
	hub    *fakeHub
	thumbs *fakeThumbs
	up     *fakeUploader
}

func newFixture() *fixture {
	f := &fixture{repo: newFakeRepo(), hub: &fakeHub{}, thumbs: &fakeThumbs{}, up: &fakeUploader{}}
	h := NewStrategyHandler(f.repo, f.hub, f.thumbs, WithThumbnailUpload(f.up, "thumbs"))
	f.app = fiber.New()
	f.app.Post("/strategies", h.CreateStrategy)
	f.app.Get("/strategies", h.GetAllStrategies)
	f.app.Get("/strategies/:strategyId", h.GetStrategyByID)
	f.app.Put("/strategies/:strategyId/save", h.SaveStrategy)
	f.app.Patch("/strategies/:strategyId/move", h.MoveStrategy)
	f.app.Delete("/strategies/:strategyId", h.DeleteStrategy)
	f.app.Get("/strategies/:strategyId/thumbnail.png", h.Thumbnail)
	return f
}

func (f *fixture) do(t *testing.T, method, path, body string, headers ...string) (int, []byte) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, b
}

func (f *fixture) create(t *testing.T) string {
	t.Helper()
	code, body := f.do(t, "POST", "/strategies", `{"title":"B split","mapName":"bind"}`)
	require.Equal(t, fiber.StatusCreated, code)
	var out struct{ UUID string }
	require.NoError(t, json.Unmarshal(body, &out))
	return out.UUID
}

func TestCreateAndGet(t *testing.T) {
	f := newFixture()
	id := f.create(t)

	code, body := f.do(t, "GET", "/strategies/"+id, "")
	require.Equal(t, fiber.StatusOK, code)
	var out struct {
		Title    string
		Strategy models.Document
	}
	require.NoError(t, json.Unmarshal(body, &out))
	assert.Equal(t, "B split", out.Title)
	assert.Equal(t, "bind", out.Strategy.MapName)
	assert.Len(t, out.Strategy.Steps, 1)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture()
	code, _ := f.do(t, "POST", "/strategies", `{"mapName":"atlantis"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = f.do(t, "POST", "/strategies", `{"folderId":"nope"}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = f.do(t, "POST", "/strategies", `{`)
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestGetErrors(t *testing.T) {
	f := newFixture()
	code, _ := f.do(t, "GET", "/strategies/not-a-uuid", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = f.do(t, "GET", "/strategies/"+uuid.NewString(), "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestSaveBroadcastsFullUpdate(t *testing.T) {
	f := newFixture()
	id := f.create(t)

	steps := []models.StrategyStep{models.NewStep("Step 1"), models.NewStep("Step 2")}
	body, err := json.Marshal(map[string]any{"steps": steps, "currentStepIndex": 1})
	require.NoError(t, err)

	code, _ := f.do(t, "PUT", "/strategies/"+id+"/save", string(body), SenderHeader, "client-1")
	require.Equal(t, fiber.StatusOK, code)

	require.Len(t, f.hub.sent, 1)
	sent := f.hub.sent[0]
	assert.Equal(t, id, sent.room)
	assert.Equal(t, realtime.TypeFullUpdate, sent.typ)
	assert.Equal(t, "client-1", sent.sender)
	payload, ok := sent.data.(realtime.FullUpdatePayload)
	require.True(t, ok)
	assert.Len(t, payload.Steps, 2)
	assert.Equal(t, 1, payload.CurrentStepIndex)
}

func TestSaveRejects(t *testing.T) {
	f := newFixture()
	id := f.create(t)

	code, _ := f.do(t, "PUT", "/strategies/"+id+"/save", `{}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = f.do(t, "PUT", "/strategies/"+id+"/save", `{"steps":[]}`)
	assert.Equal(t, fiber.StatusBadRequest, code)
	code, _ = f.do(t, "PUT", "/strategies/"+uuid.NewString()+"/save", `{"isRotated":true}`)
	assert.Equal(t, fiber.StatusNotFound, code)
	assert.Empty(t, f.hub.sent)
}

func TestMoveListAndDelete(t *testing.T) {
	f := newFixture()
	id := f.create(t)
	f.create(t)
	folder := uuid.NewString()

	code, _ := f.do(t, "PATCH", "/strategies/"+id+"/move", `{"folderId":"`+folder+`"}`)
	require.Equal(t, fiber.StatusOK, code)

	code, body := f.do(t, "GET", "/strategies?folderId="+folder, "")
	require.Equal(t, fiber.StatusOK, code)
	var list struct{ Strategies []models.Strategy }
	require.NoError(t, json.Unmarshal(body, &list))
	require.Len(t, list.Strategies, 1)
	assert.Equal(t, id, list.Strategies[0].UUID.String())

	code, _ = f.do(t, "PATCH", "/strategies/"+id+"/move", `{"folderId":null}`)
	require.Equal(t, fiber.StatusOK, code)
	assert.Nil(t, f.repo.rows[uuid.MustParse(id)].FolderID)

	code, _ = f.do(t, "DELETE", "/strategies/"+id, "")
	require.Equal(t, fiber.StatusOK, code)
	code, _ = f.do(t, "DELETE", "/strategies/"+id, "")
	assert.Equal(t, fiber.StatusNotFound, code)
}

func TestThumbnail(t *testing.T) {
	f := newFixture()
	id := f.create(t)

	req := httptest.NewRequest("GET", "/strategies/"+id+"/thumbnail.png", nil)
	resp, err := f.app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "image/png", resp.Header.Get("Content-Type"))
	assert.Equal(t, []int{0}, f.thumbs.steps)
	assert.Equal(t, []string{"thumbnails/" + id + ".png"}, f.up.names)
	assert.Contains(t, f.repo.thumb, "thumbs/thumbnails/")

	code, _ := f.do(t, "GET", "/strategies/"+id+"/thumbnail.png?step=4", "")
	assert.Equal(t, fiber.StatusBadRequest, code)
}

func TestRepoErrorMapping(t *testing.T) {
	var fe *fiber.Error
	require.True(t, errors.As(repoError(repo.ErrNotFound, "x"), &fe))
	assert.Equal(t, fiber.StatusNotFound, fe.Code)
	require.True(t, errors.As(repoError(errors.New("boom"), "x"), &fe))
	assert.Equal(t, fiber.StatusInternalServerError, fe.Code)
}
