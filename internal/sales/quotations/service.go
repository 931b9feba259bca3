package quotations

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Service struct {
	repo    Repository
	sources RenderSources
	logger  *slog.Logger
	now     func() time.Time
}

func NewService(repo Repository, sources RenderSources, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repo: repo, sources: sources, logger: logger, now: time.Now}
}

// WithClock overrides the clock used for numbering and expiry.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Create prices the payload, allocates a number when none was given and
// returns the stored document.
func (s *Service) Create(ctx context.Context, req CreateQuotationRequest) (*Quotation, error) {
	validUntil, err := parseDate(req.ValidUntil)
	if err != nil {
		return nil, err
	}
	q := Quotation{
		QuotationNumber: strings.TrimSpace(req.QuotationNumber),
		DealerID:        req.DealerID,
		ClientID:        req.ClientID,
		TemplateID:      req.TemplateID,
		Client:          req.Client,
		Status:          req.Status,
		Areas:           toAreas(req.Areas),
		Items:           toItems(req.Items),
		Discount:        req.Discount,
		ValidUntil:      validUntil,
		Notes:           req.Notes,
	}
	if q.Status == "" {
		q.Status = StatusDraft
	}
	q.reprice()

	var id uuid.UUID
	err = s.repo.WithTx(ctx, func(ctx context.Context, repo Repository) error {
		if q.QuotationNumber == "" {
			number, err := repo.GenerateNumber(ctx, s.now())
			if err != nil {
				return fmt.Errorf("generate quotation number: %w", err)
			}
			q.QuotationNumber = number
		}
		var err error
		id, err = repo.Create(ctx, q)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create quotation: %w", err)
	}
	s.logger.Info("quotation created",
		slog.String("id", id.String()),
		slog.String("number", q.QuotationNumber),
		slog.Float64("total", q.Total))
	return s.Get(ctx, id)
}

// Update replaces the supplied fields and recomputes totals when the priced
// content changed.
func (s *Service) Update(ctx context.Context, id uuid.UUID, req UpdateQuotationRequest) (*Quotation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	q := *existing

	if req.QuotationNumber != nil {
		q.QuotationNumber = strings.TrimSpace(*req.QuotationNumber)
	}
	if req.DealerID != nil {
		q.DealerID = nilIfZero(*req.DealerID)
	}
	if req.ClientID != nil {
		q.ClientID = nilIfZero(*req.ClientID)
	}
	if req.TemplateID != nil {
		q.TemplateID = nilIfZero(*req.TemplateID)
	}
	if req.Client != nil {
		q.Client = *req.Client
	}
	if req.Status != nil {
		q.Status = *req.Status
	}
	if req.ValidUntil != nil {
		if q.ValidUntil, err = parseDate(*req.ValidUntil); err != nil {
			return nil, err
		}
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}

	repriced := false
	if req.Areas != nil {
		q.Areas = toAreas(*req.Areas)
		repriced = true
	}
	if req.Items != nil {
		q.Items = toItems(*req.Items)
		repriced = true
	}
	if req.Discount != nil {
		q.Discount = *req.Discount
		repriced = true
	}
	if repriced {
		q.reprice()
	}

	if err := s.repo.Update(ctx, q); err != nil {
		return nil, fmt.Errorf("update quotation: %w", err)
	}
	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id uuid.UUID) (*Quotation, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	q.EffectiveStatus = q.effectiveStatus(s.now())
	return q, nil
}

func (s *Service) List(ctx context.Context, req ListQuotationsRequest) ([]Quotation, int, error) {
	items, total, err := s.repo.List(ctx, req)
	if err != nil {
		return nil, 0, err
	}
	now := s.now()
	for i := range items {
		items[i].EffectiveStatus = items[i].effectiveStatus(now)
	}
	return items, total, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("quotation deleted", slog.String("id", id.String()))
	return nil
}

// nilIfZero lets clients clear a reference by sending the nil UUID.
func nilIfZero(id uuid.UUID) *uuid.UUID {
	if id == uuid.Nil {
		return nil
	}
	return &id
}
