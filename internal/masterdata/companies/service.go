package companies

import (
	"context"
	"fmt"
	"log/slog"

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

// Get returns the stored profile or an empty one.
func (s *Service) Get(ctx context.Context) (Company, error) {
	c, _, err := s.repo.Get(ctx)
	return c, err
}

// Save merges in into the profile, creating it on first use.
func (s *Service) Save(ctx context.Context, in CompanyInput, logo *storage.Image) (Company, error) {
	existing, _, err := s.repo.Get(ctx)
	if err != nil {
		return Company{}, err
	}

	next := existing
	in.apply(&next)
	if err := validate(next); err != nil {
		return Company{}, err
	}
	switch {
	case logo != nil:
		url, err := s.assets.Upload(ctx, storage.CompanyLogoKey(logo.Ext), *logo)
		if err != nil {
			return Company{}, fmt.Errorf("upload company logo: %w", err)
		}
		next.Logo = url
	case bool(in.RemoveLogo):
		next.Logo = ""
	}

	saved, err := s.repo.Save(ctx, next)
	if err != nil {
		return Company{}, err
	}
	s.assets.Replace(ctx, existing.Logo, saved.Logo)
	s.logger.Info("company profile saved", slog.String("id", saved.ID.String()))
	return saved, nil
}
