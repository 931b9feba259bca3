package dealers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/platform/storage/storagetest"
)

type mockRepository struct {
	dealers map[uuid.UUID]Dealer
}

func (m *mockRepository) List(_ context.Context, _ shared.ListFilters) ([]Dealer, int, error) {
	out := make([]Dealer, 0, len(m.dealers))
	for _, d := range m.dealers {
		out = append(out, d)
	}
	return out, len(out), nil
}

func (m *mockRepository) Get(_ context.Context, id uuid.UUID) (Dealer, error) {
	d, ok := m.dealers[id]
	if !ok {
		return Dealer{}, fmt.Errorf("dealer: %w", httpx.ErrNotFound)
	}
	return d, nil
}

func (m *mockRepository) Create(_ context.Context, d Dealer) (Dealer, error) {
	d.ID = uuid.New()
	m.dealers[d.ID] = d
	return d, nil
}

func (m *mockRepository) Update(_ context.Context, d Dealer) (Dealer, error) {
	m.dealers[d.ID] = d
	return d, nil
}

func (m *mockRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(m.dealers, id)
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService() (*Service, *mockRepository, *storagetest.MemoryStore) {
	repo := &mockRepository{dealers: map[uuid.UUID]Dealer{}}
	assets, store := storagetest.NewAssets()
	return NewService(repo, assets, nil), repo, store
}

func TestCreateDealerWithLogo(t *testing.T) {
	svc, _, store := newTestService()
	img := storagetest.PNGImage()

	d, err := svc.Create(context.Background(), DealerInput{Name: strPtr("Acme Trading"), Email: strPtr("sales@acme.test")}, &img)
	require.NoError(t, err)
	assert.Equal(t, storagetest.BaseURL+"/dealerlogo/acme-trading.png", d.Logo)
	assert.Equal(t, "active", d.Status)
	assert.True(t, store.Has("dealerlogo/acme-trading.png"))
}

func TestCreateDealerValidation(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.Create(context.Background(), DealerInput{Name: strPtr("A")}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.Create(context.Background(), DealerInput{Name: strPtr("Acme"), Email: strPtr("not-an-email")}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateDealerRenameMovesLogo(t *testing.T) {
	svc, _, store := newTestService()
	img := storagetest.PNGImage()
	d, err := svc.Create(context.Background(), DealerInput{Name: strPtr("Acme")}, &img)
	require.NoError(t, err)

	updated, err := svc.Update(context.Background(), d.ID, DealerInput{Name: strPtr("Acme Two")}, &img)
	require.NoError(t, err)
	assert.Equal(t, storagetest.BaseURL+"/dealerlogo/acme-two.png", updated.Logo)
	assert.False(t, store.Has("dealerlogo/acme.png"))
	assert.True(t, store.Has("dealerlogo/acme-two.png"))
}

func TestDeleteDealerDiscardsLogo(t *testing.T) {
	svc, repo, store := newTestService()
	img := storagetest.PNGImage()
	d, err := svc.Create(context.Background(), DealerInput{Name: strPtr("Acme")}, &img)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(context.Background(), d.ID))
	assert.Empty(t, repo.dealers)
	assert.False(t, store.Has("dealerlogo/acme.png"))
}

func TestDealerHandlerRoundTrip(t *testing.T) {
	svc, repo, _ := newTestService()
	r := chi.NewRouter()
	r.Route("/api/dealers", NewHandler(nil, svc).MountRoutes)

	req := httptest.NewRequest(http.MethodPost, "/api/dealers", strings.NewReader(`{"name":"Acme","phone":"123"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	require.Len(t, repo.dealers, 1)

	var id uuid.UUID
	for k := range repo.dealers {
		id = k
	}
	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/api/dealers/"+id.String(), nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/dealers/"+id.String(), nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
