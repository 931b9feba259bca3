package others

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/platform/storage/storagetest"
)

type mockRepository struct {
	brands   map[uuid.UUID]OtherBrand
	products map[uuid.UUID]OtherProduct
}

func newMockRepository() *mockRepository {
	return &mockRepository{brands: map[uuid.UUID]OtherBrand{}, products: map[uuid.UUID]OtherProduct{}}
}

func (m *mockRepository) ListBrands(context.Context, shared.ListFilters) ([]OtherBrand, int, error) {
	out := make([]OtherBrand, 0, len(m.brands))
	for _, b := range m.brands {
		out = append(out, b)
	}
	return out, len(out), nil
}

func (m *mockRepository) GetBrand(_ context.Context, id uuid.UUID) (OtherBrand, error) {
	b, ok := m.brands[id]
	if !ok {
		return OtherBrand{}, fmt.Errorf("other brand: %w", httpx.ErrNotFound)
	}
	return b, nil
}

func (m *mockRepository) CreateBrand(_ context.Context, b OtherBrand) (OtherBrand, error) {
	b.ID = uuid.New()
	b.CreatedAt = time.Now()
	m.brands[b.ID] = b
	return b, nil
}

func (m *mockRepository) UpdateBrand(_ context.Context, b OtherBrand) (OtherBrand, error) {
	m.brands[b.ID] = b
	return b, nil
}

func (m *mockRepository) DeleteBrand(_ context.Context, id uuid.UUID) error {
	delete(m.brands, id)
	return nil
}

func (m *mockRepository) ListProducts(_ context.Context, f shared.ListFilters) ([]OtherProduct, int, error) {
	var out []OtherProduct
	for _, p := range m.products {
		if f.BrandID != nil && (p.OtherBrandID == nil || *p.OtherBrandID != *f.BrandID) {
			continue
		}
		out = append(out, p)
	}
	return out, len(out), nil
}

func (m *mockRepository) GetProduct(_ context.Context, id uuid.UUID) (OtherProduct, error) {
	p, ok := m.products[id]
	if !ok {
		return OtherProduct{}, fmt.Errorf("other product: %w", httpx.ErrNotFound)
	}
	return p, nil
}

func (m *mockRepository) CreateProduct(_ context.Context, p OtherProduct) (OtherProduct, error) {
	p.ID = uuid.New()
	m.products[p.ID] = p
	return p, nil
}

func (m *mockRepository) UpdateProduct(_ context.Context, p OtherProduct) (OtherProduct, error) {
	m.products[p.ID] = p
	return p, nil
}

func (m *mockRepository) DeleteProduct(_ context.Context, id uuid.UUID) error {
	delete(m.products, id)
	return nil
}

func strPtr(s string) *string { return &s }

func flex(s string) *shared.FlexString {
	f := shared.FlexString(s)
	return &f
}

func TestCreateBrandUploadsLogo(t *testing.T) {
	assets, store := storagetest.NewAssets()
	svc := NewService(newMockRepository(), assets, nil)
	img := storagetest.PNGImage()

	b, err := svc.CreateBrand(context.Background(), OtherBrandInput{Name: strPtr("Häfele")}, &img)
	require.NoError(t, err)

	assert.Equal(t, shared.StatusActive, b.Status)
	assert.Equal(t, storagetest.BaseURL+"/other-brands/hafele/logo.png", b.Logo)
	assert.True(t, store.Has("other-brands/hafele/logo.png"))
}

func TestCreateBrandRejectsShortName(t *testing.T) {
	assets, _ := storagetest.NewAssets()
	svc := NewService(newMockRepository(), assets, nil)

	_, err := svc.CreateBrand(context.Background(), OtherBrandInput{Name: strPtr("x")}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}

func TestUpdateBrandRemoveLogo(t *testing.T) {
	assets, store := storagetest.NewAssets()
	svc := NewService(newMockRepository(), assets, nil)
	img := storagetest.PNGImage()
	ctx := context.Background()

	b, err := svc.CreateBrand(ctx, OtherBrandInput{Name: strPtr("Blum")}, &img)
	require.NoError(t, err)

	updated, err := svc.UpdateBrand(ctx, b.ID, OtherBrandInput{RemoveLogo: true}, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Logo)
	assert.False(t, store.Has("other-brands/blum/logo.png"))
}

func TestProductPriceValidation(t *testing.T) {
	assets, _ := storagetest.NewAssets()
	svc := NewService(newMockRepository(), assets, nil)

	_, err := svc.CreateProduct(context.Background(), OtherProductInput{Name: strPtr("Hinge"), Price: flex("-3")}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	_, err = svc.CreateProduct(context.Background(), OtherProductInput{Name: strPtr("Hinge"), Price: flex("abc")}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)

	p, err := svc.CreateProduct(context.Background(), OtherProductInput{Name: strPtr("Hinge"), Price: flex("12.5")}, nil)
	require.NoError(t, err)
	assert.Equal(t, 12.5, p.Price)
}

func TestProductImageReplacedAndDeleted(t *testing.T) {
	assets, store := storagetest.NewAssets()
	repo := newMockRepository()
	svc := NewService(repo, assets, nil)
	ctx := context.Background()
	img := storagetest.PNGImage()

	brand, err := svc.CreateBrand(ctx, OtherBrandInput{Name: strPtr("Grass")}, nil)
	require.NoError(t, err)

	p, err := svc.CreateProduct(ctx, OtherProductInput{Name: strPtr("Drawer runner"), OtherBrandID: strPtr(brand.ID.String())}, &img)
	require.NoError(t, err)
	require.NotNil(t, p.OtherBrandID)
	assert.Equal(t, brand.ID, *p.OtherBrandID)
	first := p.Image
	require.Len(t, store.Puts, 1)

	updated, err := svc.UpdateProduct(ctx, p.ID, OtherProductInput{}, &img)
	require.NoError(t, err)
	assert.NotEqual(t, first, updated.Image)
	assert.False(t, store.Has(store.Puts[0]))

	require.NoError(t, svc.DeleteProduct(ctx, p.ID))
	assert.Empty(t, store.Objects)

	_, err = svc.GetProduct(ctx, p.ID)
	assert.ErrorIs(t, err, httpx.ErrNotFound)
}

func TestUpdateProductClearsBrand(t *testing.T) {
	assets, _ := storagetest.NewAssets()
	svc := NewService(newMockRepository(), assets, nil)
	ctx := context.Background()
	brandID := uuid.New()

	p, err := svc.CreateProduct(ctx, OtherProductInput{Name: strPtr("Handle"), OtherBrandID: strPtr(brandID.String())}, nil)
	require.NoError(t, err)

	updated, err := svc.UpdateProduct(ctx, p.ID, OtherProductInput{OtherBrandID: strPtr("")}, nil)
	require.NoError(t, err)
	assert.Nil(t, updated.OtherBrandID)

	_, err = svc.UpdateProduct(ctx, p.ID, OtherProductInput{OtherBrandID: strPtr("nope")}, nil)
	assert.ErrorIs(t, err, httpx.ErrValidation)
}
