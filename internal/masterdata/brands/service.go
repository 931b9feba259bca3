package brands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/storage"
)

type Service struct {
	repo   Repository
	assets *storage.Assets
	logger *slog.Logger
}

func NewService(repo Repository, assets *storage.Assets, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, assets: assets, logger: logger}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Brand, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Brand, error) {
	return s.repo.Get(ctx, id)
}

// Create stores the brand, uploading logo first when given.
func (s *Service) Create(ctx context.Context, in BrandInput, logo *storage.Image) (Brand, error) {
	var b Brand
	in.apply(&b)
	if err := validate(b); err != nil {
		return Brand{}, err
	}

	if logo != nil {
		url, err := s.assets.Upload(ctx, storage.BrandLogoKey(b.Name, logo.Ext), *logo)
		if err != nil {
			return Brand{}, fmt.Errorf("upload brand logo: %w", err)
		}
		b.Logo = url
	}

	created, err := s.repo.Create(ctx, b)
	if err != nil {
		s.assets.Discard(ctx, b.Logo)
		return Brand{}, err
	}
	s.logger.Info("brand created", slog.String("id", created.ID.String()), slog.String("name", created.Name))
	return created, nil
}

// Update applies in to the stored brand. A new logo is uploaded before the
// document is written and the previous one is discarded afterwards.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in BrandInput, logo *storage.Image) (Brand, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Brand{}, err
	}

	next := existing
	in.apply(&next)
	if err := validate(next); err != nil {
		return Brand{}, err
	}

	switch {
	case logo != nil:
		url, err := s.assets.Upload(ctx, storage.BrandLogoKey(next.Name, logo.Ext), *logo)
		if err != nil {
			return Brand{}, fmt.Errorf("upload brand logo: %w", err)
		}
		next.Logo = url
	case bool(in.RemoveLogo):
		next.Logo = ""
	}

	updated, err := s.repo.Update(ctx, next)
	if err != nil {
		if next.Logo != existing.Logo {
			s.assets.Discard(ctx, next.Logo)
		}
		return Brand{}, err
	}
	s.assets.Replace(ctx, existing.Logo, updated.Logo)
	return updated, nil
}

// Delete removes the brand and its logo. Products keep their brand reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.assets.Discard(ctx, existing.Logo)
	s.logger.Info("brand deleted", slog.String("id", id.String()))
	return nil
}

func (s *Service) ProductOrder(ctx context.Context, brandID uuid.UUID) (ProductOrder, error) {
	if _, err := s.repo.Get(ctx, brandID); err != nil {
		return ProductOrder{}, err
	}
	ids, err := s.repo.GetProductOrder(ctx, brandID)
	if err != nil {
		return ProductOrder{}, err
	}
	return ProductOrder{BrandID: brandID, ProductIDs: ids}, nil
}

// SaveProductOrder replaces the order, dropping duplicate ids.
func (s *Service) SaveProductOrder(ctx context.Context, brandID uuid.UUID, in ProductOrderInput) (ProductOrder, error) {
	if _, err := s.repo.Get(ctx, brandID); err != nil {
		return ProductOrder{}, err
	}
	seen := make(map[uuid.UUID]struct{}, len(in.ProductIDs))
	ids := make([]uuid.UUID, 0, len(in.ProductIDs))
	for _, id := range in.ProductIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return s.repo.SaveProductOrder(ctx, brandID, ids)
}

// OrderedProductIDs lets the products listing honour the manual order.
func (s *Service) OrderedProductIDs(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error) {
	return s.repo.GetProductOrder(ctx, brandID)
}
