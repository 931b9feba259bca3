package products

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/masterdata/brands"
	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/platform/storage"
)

// BrandDirectory resolves brand names for image keys and the manual product order.
type BrandDirectory interface {
	Get(ctx context.Context, id uuid.UUID) (brands.Brand, error)
	OrderedProductIDs(ctx context.Context, brandID uuid.UUID) ([]uuid.UUID, error)
}

type Service struct {
	repo   Repository
	brands BrandDirectory
	assets *storage.Assets
	logger *slog.Logger
	now    func() time.Time
}

func NewService(repo Repository, brands BrandDirectory, assets *storage.Assets, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, brands: brands, assets: assets, logger: logger, now: time.Now}
}

// WithClock replaces the time source used for price history and ledger rows.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// stamp matches the microsecond precision Postgres stores.
func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// List returns products; a brand filter sorts them by the brand's manual order,
// unordered products following by name.
func (s *Service) List(ctx context.Context, filters shared.ListFilters) ([]Product, int, error) {
	if filters.BrandID == nil {
		return s.repo.List(ctx, filters)
	}

	all := filters
	all.Limit = 0
	items, total, err := s.repo.List(ctx, all)
	if err != nil {
		return nil, 0, err
	}
	order, err := s.brands.OrderedProductIDs(ctx, *filters.BrandID)
	if err != nil {
		return nil, 0, err
	}
	SortByOrder(items, order)

	if filters.Limit > 0 {
		start := filters.Offset()
		if start > len(items) {
			start = len(items)
		}
		end := start + filters.Limit
		if end > len(items) {
			end = len(items)
		}
		items = items[start:end]
	}
	return items, total, nil
}

// SortByOrder places products listed in order first, in that order, and the rest by name.
func SortByOrder(items []Product, order []uuid.UUID) {
	rank := make(map[uuid.UUID]int, len(order))
	for i, id := range order {
		rank[id] = i
	}
	sort.SliceStable(items, func(i, j int) bool {
		ri, iok := rank[items[i].ID]
		rj, jok := rank[items[j].ID]
		switch {
		case iok && jok:
			return ri < rj
		case iok != jok:
			return iok
		default:
			return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
		}
	})
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (Product, error) {
	return s.repo.Get(ctx, id)
}

// Create seeds the price history with the creation price. No ledger row is
// written until the price first changes.
func (s *Service) Create(ctx context.Context, in ProductInput, images []storage.Image) (Product, error) {
	p := Product{Status: shared.StatusActive, Images: []string{}}
	if err := in.apply(&p); err != nil {
		return Product{}, err
	}
	if err := validate(p); err != nil {
		return Product{}, err
	}

	isPOR := in.IsPOR != nil && bool(*in.IsPOR)
	var raw string
	if in.Price != nil {
		raw = string(*in.Price)
	}
	now := s.stamp()
	p.IsPOR = isPOR
	p.Price = ResolvePrice(isPOR, raw)
	p.PriceHistory = []PricePoint{{Price: p.Price, Date: now}}
	p.CreatedAt = now

	uploaded, err := s.uploadImages(ctx, p, images)
	if err != nil {
		return Product{}, err
	}
	p.Images = append(p.Images, uploaded...)
	p.MainImage = pickMainImage(p.Images, p.MainImage)

	created, err := s.repo.Create(ctx, p)
	if err != nil {
		s.assets.DiscardAll(ctx, uploaded)
		return Product{}, err
	}
	s.logger.Info("product created", slog.String("id", created.ID.String()), slog.Float64("price", created.Price))
	return created, nil
}

// Update applies in inside one transaction with the product row locked, so the
// price history, the ledger and the product document always agree.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in ProductInput, images []storage.Image) (Product, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}

	// Keys use the post-update names so new uploads land next to the product.
	preview := current
	if err := in.apply(&preview); err != nil {
		return Product{}, err
	}
	if err := validate(preview); err != nil {
		return Product{}, err
	}
	uploaded, err := s.uploadImages(ctx, preview, images)
	if err != nil {
		return Product{}, err
	}

	var before Product
	err = s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		before = p
		if err := in.apply(&p); err != nil {
			return err
		}
		p.Images = append(p.Images, uploaded...)
		p.MainImage = pickMainImage(p.Images, p.MainImage)

		if in.Price != nil || in.IsPOR != nil {
			isPOR := p.IsPOR
			if in.IsPOR != nil {
				isPOR = bool(*in.IsPOR)
			}
			raw := formatPrice(p.Price)
			if in.Price != nil {
				raw = string(*in.Price)
			}
			if _, err := applyPrice(ctx, tx, &p, ResolvePrice(isPOR, raw), isPOR, "", s.stamp()); err != nil {
				return err
			}
		}
		return tx.Update(ctx, p)
	})
	if err != nil {
		s.assets.DiscardAll(ctx, uploaded)
		return Product{}, err
	}

	updated, err := s.repo.Get(ctx, id)
	if err != nil {
		return Product{}, err
	}
	s.assets.DiscardAll(ctx, removedImages(before.Images, updated.Images))
	return updated, nil
}

// SetPrice records a manual price with a note through the same ledger path.
func (s *Service) SetPrice(ctx context.Context, in ManualPriceInput) (Product, error) {
	if err := httpx.Validate(in); err != nil {
		return Product{}, err
	}
	var changed bool
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetForUpdate(ctx, in.ProductID)
		if err != nil {
			return err
		}
		isPOR := bool(in.IsPOR)
		changed, err = applyPrice(ctx, tx, &p, ResolvePrice(isPOR, string(in.Price)), isPOR, strings.TrimSpace(in.Note), s.stamp())
		if err != nil {
			return err
		}
		return tx.Update(ctx, p)
	})
	if err != nil {
		return Product{}, err
	}
	if changed {
		s.logger.Info("product price set", slog.String("id", in.ProductID.String()))
	}
	return s.repo.Get(ctx, in.ProductID)
}

func (s *Service) PriceChanges(ctx context.Context, productID uuid.UUID) ([]PriceChange, error) {
	return s.repo.ListPriceChanges(ctx, productID)
}

// Delete removes the product, its ledger and its images.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	var images []string
	err := s.repo.WithTx(ctx, func(ctx context.Context, tx TxRepository) error {
		p, err := tx.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		images = p.Images
		return tx.Delete(ctx, id)
	})
	if err != nil {
		return err
	}
	s.assets.DiscardAll(ctx, images)
	return nil
}

func (s *Service) uploadImages(ctx context.Context, p Product, images []storage.Image) ([]string, error) {
	if len(images) == 0 {
		return nil, nil
	}
	brandName := "unbranded"
	if p.BrandID != nil {
		if b, err := s.brands.Get(ctx, *p.BrandID); err == nil {
			brandName = b.Name
		}
	}
	urls := make([]string, 0, len(images))
	for _, img := range images {
		url, err := s.assets.Upload(ctx, storage.ProductImageKey(brandName, p.Name, img.Ext), img)
		if err != nil {
			s.assets.DiscardAll(ctx, urls)
			return nil, fmt.Errorf("upload product image: %w", err)
		}
		urls = append(urls, url)
	}
	return urls, nil
}

func (in ProductInput) apply(p *Product) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&p.Name, in.Name)
	set(&p.SKU, in.SKU)
	set(&p.Description, in.Description)
	set(&p.Status, in.Status)
	set(&p.MainImage, in.MainImage)

	for _, ref := range []struct {
		raw *string
		dst **uuid.UUID
	}{{in.BrandID, &p.BrandID}, {in.CategoryID, &p.CategoryID}, {in.FunctionID, &p.FunctionID}} {
		if ref.raw == nil {
			continue
		}
		id, err := httpx.ParseOptionalUUID(*ref.raw)
		if err != nil {
			return err
		}
		*ref.dst = id
	}
	if in.Images != nil {
		// only images already attached can be kept; new ones arrive as uploads
		owned := make(map[string]struct{}, len(p.Images))
		for _, u := range p.Images {
			owned[u] = struct{}{}
		}
		kept := []string{}
		for _, u := range *in.Images {
			if _, ok := owned[u]; ok {
				kept = append(kept, u)
			}
		}
		p.Images = kept
	}
	return nil
}

func validate(p Product) error {
	if utf8.RuneCountInString(p.Name) < 2 {
		return fmt.Errorf("%w: name must be at least 2 characters", httpx.ErrValidation)
	}
	if p.Status != shared.StatusActive && p.Status != shared.StatusInactive {
		return fmt.Errorf("%w: status must be one of [active inactive]", httpx.ErrValidation)
	}
	return nil
}

// pickMainImage keeps main when it is one of images, else falls back to the first.
func pickMainImage(images []string, main string) string {
	for _, img := range images {
		if img == main {
			return main
		}
	}
	if len(images) > 0 {
		return images[0]
	}
	return ""
}

func removedImages(before, after []string) []string {
	keep := make(map[string]struct{}, len(after))
	for _, u := range after {
		keep[u] = struct{}{}
	}
	var out []string
	for _, u := range before {
		if _, ok := keep[u]; !ok {
			out = append(out, u)
		}
	}
	return out
}
