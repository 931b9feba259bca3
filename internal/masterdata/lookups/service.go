package lookups

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Item, int, error) {
	return s.repo.List(ctx, filters)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Item, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) Create(ctx context.Context, in ItemInput) (Item, error) {
	var it Item
	in.apply(&it)
	if err := validate(it); err != nil {
		return Item{}, err
	}
	return s.repo.Create(ctx, it)
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, in ItemInput) (Item, error) {
	it, err := s.repo.Get(ctx, id)
	if err != nil {
		return Item{}, err
	}
	in.apply(&it)
	if err := validate(it); err != nil {
		return Item{}, err
	}
	return s.repo.Update(ctx, it)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

func (in ItemInput) apply(it *Item) {
	if in.Name != nil {
		it.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		it.Description = strings.TrimSpace(*in.Description)
	}
}

func validate(it Item) error {
	if utf8.RuneCountInString(it.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", httpx.ErrValidation)
	}
	return nil
}
