package dealers

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

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Dealer, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Dealer, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in DealerInput, logo *storage.Image) (Dealer, error) {
	var d Dealer
	in.apply(&d)
	if err := validate(d); err != nil {
		return Dealer{}, err
	}
	if logo != nil {
		url, err := s.assets.Upload(ctx, storage.DealerLogoKey(d.Name, logo.Ext), *logo)
		if err != nil {
			return Dealer{}, fmt.Errorf("upload dealer logo: %w", err)
		}
		d.Logo = url
	}
	created, err := s.repo.Create(ctx, d)
	if err != nil {
		s.assets.Discard(ctx, d.Logo)
		return Dealer{}, err
	}
	return created, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in DealerInput, logo *storage.Image) (Dealer, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return Dealer{}, err
	}
	next := existing
	in.apply(&next)
	if err := validate(next); err != nil {
		return Dealer{}, err
	}

	switch {
	case logo != nil:
		url, err := s.assets.Upload(ctx, storage.DealerLogoKey(next.Name, logo.Ext), *logo)
		if err != nil {
			return Dealer{}, fmt.Errorf("upload dealer logo: %w", err)
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
		return Dealer{}, err
	}
	s.assets.Replace(ctx, existing.Logo, updated.Logo)
	return updated, nil
}

// Delete removes the dealer and its logo. Quotations keep their dealer reference.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.assets.Discard(ctx, existing.Logo)
	s.logger.Info("dealer deleted", slog.String("id", id.String()))
	return nil
}
