package others

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

func (s *Service) ListBrands(ctx context.Context, filters shared.ListFilters) ([]OtherBrand, int, error) {
	return s.repo.ListBrands(ctx, filters)
}

func (s *Service) GetBrand(ctx context.Context, id uuid.UUID) (OtherBrand, error) {
	return s.repo.GetBrand(ctx, id)
}

func (s *Service) CreateBrand(ctx context.Context, in OtherBrandInput, logo *storage.Image) (OtherBrand, error) {
	var b OtherBrand
	in.apply(&b)
	if err := validateBrand(b); err != nil {
		return OtherBrand{}, err
	}
	if logo != nil {
		url, err := s.assets.Upload(ctx, storage.OtherBrandLogoKey(b.Name, logo.Ext), *logo)
		if err != nil {
			return OtherBrand{}, fmt.Errorf("upload other brand logo: %w", err)
		}
		b.Logo = url
	}
	created, err := s.repo.CreateBrand(ctx, b)
	if err != nil {
		s.assets.Discard(ctx, b.Logo)
		return OtherBrand{}, err
	}
	s.logger.Info("other brand created", slog.String("id", created.ID.String()))
	return created, nil
}

func (s *Service) UpdateBrand(ctx context.Context, id uuid.UUID, in OtherBrandInput, logo *storage.Image) (OtherBrand, error) {
	existing, err := s.repo.GetBrand(ctx, id)
	if err != nil {
		return OtherBrand{}, err
	}
	next := existing
	in.apply(&next)
	if err := validateBrand(next); err != nil {
		return OtherBrand{}, err
	}
	switch {
	case logo != nil:
		url, err := s.assets.Upload(ctx, storage.OtherBrandLogoKey(next.Name, logo.Ext), *logo)
		if err != nil {
			return OtherBrand{}, fmt.Errorf("upload other brand logo: %w", err)
		}
		next.Logo = url
	case bool(in.RemoveLogo):
		next.Logo = ""
	}
	updated, err := s.repo.UpdateBrand(ctx, next)
	if err != nil {
		if next.Logo != existing.Logo {
			s.assets.Discard(ctx, next.Logo)
		}
		return OtherBrand{}, err
	}
	s.assets.Replace(ctx, existing.Logo, updated.Logo)
	return updated, nil
}

func (s *Service) DeleteBrand(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetBrand(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteBrand(ctx, id); err != nil {
		return err
	}
	s.assets.Discard(ctx, existing.Logo)
	return nil
}

func (s *Service) ListProducts(ctx context.Context, filters shared.ListFilters) ([]OtherProduct, int, error) {
	return s.repo.ListProducts(ctx, filters)
}

func (s *Service) GetProduct(ctx context.Context, id uuid.UUID) (OtherProduct, error) {
	return s.repo.GetProduct(ctx, id)
}

func (s *Service) CreateProduct(ctx context.Context, in OtherProductInput, image *storage.Image) (OtherProduct, error) {
	var p OtherProduct
	if err := in.apply(&p); err != nil {
		return OtherProduct{}, err
	}
	if err := validateProduct(p); err != nil {
		return OtherProduct{}, err
	}
	if image != nil {
		url, err := s.assets.Upload(ctx, storage.OtherProductImageKey(p.Name, image.Ext), *image)
		if err != nil {
			return OtherProduct{}, fmt.Errorf("upload other product image: %w", err)
		}
		p.Image = url
	}
	created, err := s.repo.CreateProduct(ctx, p)
	if err != nil {
		s.assets.Discard(ctx, p.Image)
		return OtherProduct{}, err
	}
	s.logger.Info("other product created", slog.String("id", created.ID.String()))
	return created, nil
}

func (s *Service) UpdateProduct(ctx context.Context, id uuid.UUID, in OtherProductInput, image *storage.Image) (OtherProduct, error) {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return OtherProduct{}, err
	}
	next := existing
	if err := in.apply(&next); err != nil {
		return OtherProduct{}, err
	}
	if err := validateProduct(next); err != nil {
		return OtherProduct{}, err
	}
	switch {
	case image != nil:
		url, err := s.assets.Upload(ctx, storage.OtherProductImageKey(next.Name, image.Ext), *image)
		if err != nil {
			return OtherProduct{}, fmt.Errorf("upload other product image: %w", err)
		}
		next.Image = url
	case bool(in.RemoveImage):
		next.Image = ""
	}
	updated, err := s.repo.UpdateProduct(ctx, next)
	if err != nil {
		if next.Image != existing.Image {
			s.assets.Discard(ctx, next.Image)
		}
		return OtherProduct{}, err
	}
	s.assets.Replace(ctx, existing.Image, updated.Image)
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.GetProduct(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return err
	}
	s.assets.Discard(ctx, existing.Image)
	return nil
}
