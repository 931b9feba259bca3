package companies

import (
	"bytes"
	"context"
	"encoding/json"
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
	company *Company
	saves   int
}

func (m *mockRepository) Get(context.Context) (Company, bool, error) {
	if m.company == nil {
		return Company{}, false, nil
	}
	return *m.company, true, nil
}

func (m *mockRepository) Save(_ context.Context, c Company) (Company, error) {
	m.saves++
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
		c.CreatedAt = time.Now()
	}
	c.UpdatedAt = time.Now()
	m.company = &c
	return c, nil
}

func strPtr(s string) *string { return &s }

func TestGetBeforeSaveIsEmpty(t *testing.T) {
	assets, _ := storagetest.NewAssets()
	svc := NewService(&mockRepository{}, assets, nil)

	c, err := svc.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, c.ID)
	assert.Empty(t, c.Name)
}

func TestSaveUpsertsSingleProfile(t *testing.T) {
	assets, _ := storagetest.NewAssets()
	repo := &mockRepository{}
	svc := NewService(repo, assets, nil)
	ctx := context.Background()

	first, err := svc.Save(ctx, CompanyInput{Name: strPtr("Interior Works"), TaxNumber: strPtr("27ABCDE1234F1Z5")}, nil)
	require.NoError(t, err)

	second, err := svc.Save(ctx, CompanyInput{Phone: strPtr(" +91 22 1234 5678 ")}, nil)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, "Interior Works", second.Name)
	assert.Equal(t, "27ABCDE1234F1Z5", second.TaxNumber)
	assert.Equal(t, "+91 22 1234 5678", second.Phone)
	assert.Equal(t, 2, repo.saves)
}

func TestSaveRejectsBadEmail(t *testing.T) {
	assets, _ := storagetest.NewAssets()
	repo := &mockRepository{}
	svc := NewService(repo, assets, nil)

	_, err := svc.Save(context.Background(), CompanyInput{Email: strPtr("not-an-email")}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)
	assert.Zero(t, repo.saves)
}

func TestSaveLogoOverwritesFixedKey(t *testing.T) {
	assets, store := storagetest.NewAssets()
	svc := NewService(&mockRepository{}, assets, nil)
	ctx := context.Background()
	img := storagetest.PNGImage()

	c, err := svc.Save(ctx, CompanyInput{}, &img)
	require.NoError(t, err)
	assert.Equal(t, storagetest.BaseURL+"/company/logo.png", c.Logo)

	_, err = svc.Save(ctx, CompanyInput{}, &img)
	require.NoError(t, err)
	assert.True(t, store.Has("company/logo.png"))
	assert.Empty(t, store.Deletes)

	c, err = svc.Save(ctx, CompanyInput{RemoveLogo: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, c.Logo)
	assert.False(t, store.Has("company/logo.png"))
}

func TestHandlerSaveMultipart(t *testing.T) {
	assets, store := storagetest.NewAssets()
	h := NewHandler(nil, NewService(&mockRepository{}, assets, nil))
	r := chi.NewRouter()
	h.MountRoutes(r)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("name", "Interior Works"))
	part, err := mw.CreateFormFile("logo", "logo.png")
	require.NoError(t, err)
	_, err = part.Write(storagetest.PNG)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var env struct {
		OK   bool    `json:"ok"`
		Data Company `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.True(t, env.OK)
	assert.Equal(t, "Interior Works", env.Data.Name)
	assert.True(t, store.Has("company/logo.png"))

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Interior Works")
}
