package templates

import (
	"bytes"
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/platform/storage/storagetest"
)

type mockRepository struct {
	templates map[uuid.UUID]Template
	updateErr error
}

func newMockRepository() *mockRepository {
	return &mockRepository{templates: map[uuid.UUID]Template{}}
}

func (m *mockRepository) Get(_ context.Context, id uuid.UUID) (*Template, error) {
	t, ok := m.templates[id]
	if !ok {
		return nil, fmt.Errorf("quotation template: %w", httpx.ErrNotFound)
	}
	return &t, nil
}

func (m *mockRepository) List(context.Context, string, int, int) ([]Template, int, error) {
	out := make([]Template, 0, len(m.templates))
	for _, t := range m.templates {
		out = append(out, t)
	}
	return out, len(out), nil
}

func (m *mockRepository) Create(_ context.Context, t Template) (uuid.UUID, error) {
	t.ID = uuid.New()
	m.templates[t.ID] = t
	return t.ID, nil
}

func (m *mockRepository) Update(_ context.Context, t Template) error {
	if m.updateErr != nil {
		return m.updateErr
	}
	if _, ok := m.templates[t.ID]; !ok {
		return fmt.Errorf("quotation template: %w", httpx.ErrNotFound)
	}
	m.templates[t.ID] = t
	return nil
}

func (m *mockRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.templates, id)
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService(t *testing.T) (*Service, *mockRepository, *storagetest.MemoryStore) {
	t.Helper()
	assets, store := storagetest.NewAssets()
	repo := newMockRepository()
	svc := NewService(repo, assets, nil)
	svc.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return svc, repo, store
}

func TestSectionTextPrefersMarkdown(t *testing.T) {
	assert.Equal(t, "**hi**", Section{HTML: "<b>hi</b>", Markdown: "**hi**"}.Text())
	assert.Equal(t, "<b>hi</b>", Section{HTML: "<b>hi</b>", Markdown: "  "}.Text())
	assert.Empty(t, Section{}.Text())
}

func TestCreateAndPartialUpdate(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, CreateTemplateRequest{
		Name:         "Standard",
		ProposalNote: SectionInput{Markdown: strPtr("We propose")},
	})
	require.NoError(t, err)

	updated, err := svc.Update(ctx, created.ID, UpdateTemplateRequest{
		ClosingNote: &SectionInput{HTML: strPtr("<p>Thanks</p>")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Standard", updated.Name)
	assert.Equal(t, "We propose", updated.ProposalNote.Markdown)
	assert.Equal(t, "<p>Thanks</p>", updated.ClosingNote.HTML)

	_, err = svc.Create(ctx, CreateTemplateRequest{Name: "x"})
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUploadImageReplacesOld(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateTemplateRequest{Name: "Luxury Kitchen"})
	require.NoError(t, err)

	got, err := svc.UploadImage(ctx, created.ID, SectionCover, storagetest.PNGImage())
	require.NoError(t, err)
	assert.Equal(t, storagetest.BaseURL+"/quotation-templates/cover/luxury-kitchen-1700000000000.png", got.Cover.Image)

	svc.now = func() time.Time { return time.UnixMilli(1700000000001) }
	got, err = svc.UploadImage(ctx, created.ID, SectionCover, storagetest.PNGImage())
	require.NoError(t, err)
	assert.True(t, store.Has("quotation-templates/cover/luxury-kitchen-1700000000001.png"))
	assert.False(t, store.Has("quotation-templates/cover/luxury-kitchen-1700000000000.png"))

	_, err = svc.UploadImage(ctx, created.ID, "footer", storagetest.PNGImage())
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUploadImageKeepsOldWhenWriteFails(t *testing.T) {
	svc, repo, store := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)
	_, err = svc.UploadImage(ctx, created.ID, SectionAboutUs, storagetest.PNGImage())
	require.NoError(t, err)
	require.Len(t, store.Objects, 1)

	repo.updateErr = fmt.Errorf("db down")
	svc.now = func() time.Time { return time.UnixMilli(1700000000500) }
	_, err = svc.UploadImage(ctx, created.ID, SectionAboutUs, storagetest.PNGImage())
	require.Error(t, err)

	assert.Len(t, store.Objects, 1)
	assert.True(t, store.Has("quotation-templates/aboutus/standard-1700000000000.png"))
}

func TestRemoveImageAndDelete(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)
	_, err = svc.UploadImage(ctx, created.ID, SectionClosingNote, storagetest.PNGImage())
	require.NoError(t, err)

	got, err := svc.RemoveImage(ctx, created.ID, SectionClosingNote)
	require.NoError(t, err)
	assert.Empty(t, got.ClosingNote.Image)
	assert.Empty(t, store.Objects)

	_, err = svc.UploadImage(ctx, created.ID, SectionCover, storagetest.PNGImage())
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, created.ID))
	assert.Empty(t, store.Objects)
}

func TestUpdateDiscardsDroppedImage(t *testing.T) {
	svc, _, store := newTestService(t)
	ctx := context.Background()
	created, err := svc.Create(ctx, CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)
	_, err = svc.UploadImage(ctx, created.ID, SectionCover, storagetest.PNGImage())
	require.NoError(t, err)

	_, err = svc.Update(ctx, created.ID, UpdateTemplateRequest{Cover: &SectionInput{Image: strPtr("")}})
	require.NoError(t, err)
	assert.Empty(t, store.Objects)
}

func TestHandlerUploadImage(t *testing.T) {
	svc, _, _ := newTestService(t)
	created, err := svc.Create(context.Background(), CreateTemplateRequest{Name: "Standard"})
	require.NoError(t, err)

	r := chi.NewRouter()
	NewHandler(nil, svc).MountRoutes(r)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", "cover.png")
	require.NoError(t, err)
	_, err = part.Write(storagetest.PNG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/"+created.ID.String()+"/images/cover", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), "quotation-templates/cover/standard-")

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/"+created.ID.String()+"/images/cover", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
