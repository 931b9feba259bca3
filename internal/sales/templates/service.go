package templates

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/platform/storage"
)

type Service struct {
	repo   Repository
	assets *storage.Assets
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, assets *storage.Assets, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, assets: assets, logger: logger, now: time.Now}
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Template, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) List(ctx context.Context, page httpx.Page) ([]Template, int, error) {
	return s.repo.List(ctx, page.Search, page.Limit, page.Offset())
}

func (s *Service) Create(ctx context.Context, req CreateTemplateRequest) (*Template, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := httpx.Validate(req); err != nil {
		return nil, err
	}
	t := Template{Name: req.Name}
	req.Cover.apply(&t.Cover)
	req.ProposalNote.apply(&t.ProposalNote)
	req.ClosingNote.apply(&t.ClosingNote)
	req.AboutUs.apply(&t.AboutUs)

	id, err := s.repo.Create(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("create quotation template: %w", err)
	}
	s.logger.Info("quotation template created", slog.String("id", id.String()))
	return s.repo.Get(ctx, id)
}

// Update replaces the supplied sections field by field. Images that a
// section no longer references are discarded once the row is written.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateTemplateRequest) (*Template, error) {
	if req.Name != nil {
		trimmed := strings.TrimSpace(*req.Name)
		req.Name = &trimmed
	}
	if err := httpx.Validate(req); err != nil {
		return nil, err
	}
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	next := *existing
	if req.Name != nil {
		next.Name = *req.Name
	}
	for _, p := range []struct {
		in  *SectionInput
		dst *Section
	}{
		{req.Cover, &next.Cover},
		{req.ProposalNote, &next.ProposalNote},
		{req.ClosingNote, &next.ClosingNote},
		{req.AboutUs, &next.AboutUs},
	} {
		if p.in != nil {
			p.in.apply(p.dst)
		}
	}

	if err := s.repo.Update(ctx, next); err != nil {
		return nil, fmt.Errorf("update quotation template: %w", err)
	}
	s.discardReplaced(ctx, existing.images(), next.images())
	return s.repo.Get(ctx, id)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.assets.DiscardAll(ctx, existing.images())
	s.logger.Info("quotation template deleted", slog.String("id", id.String()))
	return nil
}

// UploadImage stores img as the named section's image.
func (s *Service) UploadImage(ctx context.Context, id uuid.UUID, section string, img storage.Image) (*Template, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sec := t.section(section)
	if sec == nil {
		return nil, fmt.Errorf("%w: unknown section %q", httpx.ErrValidation, section)
	}
	old := sec.Image

	url, err := s.assets.Upload(ctx, storage.TemplateImageKey(section, t.Name, img.Ext, s.now()), img)
	if err != nil {
		return nil, fmt.Errorf("upload template image: %w", err)
	}
	sec.Image = url
	if err := s.repo.Update(ctx, *t); err != nil {
		s.assets.Discard(ctx, url)
		return nil, fmt.Errorf("update quotation template: %w", err)
	}
	s.assets.Replace(ctx, old, url)
	return t, nil
}

// RemoveImage clears the named section's image and discards the object.
func (s *Service) RemoveImage(ctx context.Context, id uuid.UUID, section string) (*Template, error) {
	t, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sec := t.section(section)
	if sec == nil {
		return nil, fmt.Errorf("%w: unknown section %q", httpx.ErrValidation, section)
	}
	old := sec.Image
	if old == "" {
		return t, nil
	}
	sec.Image = ""
	if err := s.repo.Update(ctx, *t); err != nil {
		return nil, fmt.Errorf("update quotation template: %w", err)
	}
	s.assets.Discard(ctx, old)
	return t, nil
}

func (s *Service) discardReplaced(ctx context.Context, before, after []string) {
	for i := range before {
		if before[i] != after[i] {
			s.assets.Discard(ctx, before[i])
		}
	}
}
