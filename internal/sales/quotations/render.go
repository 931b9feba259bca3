package quotations

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/quoteroom/quoteroom/internal/masterdata/companies"
	"github.com/quoteroom/quoteroom/internal/masterdata/dealers"
	"github.com/quoteroom/quoteroom/internal/sales/shared"
	"github.com/quoteroom/quoteroom/internal/sales/templates"
)

type TemplateSource interface {
	Get(ctx context.Context, id uuid.UUID) (*templates.Template, error)
}

type CompanySource interface {
	Get(ctx context.Context) (companies.Company, error)
}

type DealerSource interface {
	Get(ctx context.Context, id uuid.UUID) (dealers.Dealer, error)
}

// RenderSources are the optional documents merged into a printed quotation.
// Any of them may be nil.
type RenderSources struct {
	Templates TemplateSource
	Company   CompanySource
	Dealers   DealerSource
}

// RenderItem is a quotation line tagged with the area it belongs to.
type RenderItem struct {
	AreaRoomTypeID   string  `json:"areaRoomTypeId"`
	AreaRoomTypeName string  `json:"areaRoomTypeName"`
	ProductID        string  `json:"productId"`
	ProductName      string  `json:"productName"`
	Quantity         float64 `json:"quantity"`
	UnitPrice        float64 `json:"unitPrice"`
	Total            float64 `json:"total"`
}

// RenderProps is the flat view a print page needs.
type RenderProps struct {
	ID              uuid.UUID      `json:"id"`
	QuotationNumber string         `json:"quotationNumber"`
	Status          Status         `json:"status"`
	EffectiveStatus Status         `json:"effectiveStatus"`
	Client          ClientSnapshot `json:"client"`
	ValidUntil      *time.Time     `json:"validUntil"`
	Notes           string         `json:"notes"`
	CreatedAt       time.Time      `json:"createdAt"`
	Areas           []shared.Area  `json:"areas"`
	Items           []RenderItem   `json:"items"`
	Subtotal        float64        `json:"subtotal"`
	Tax             float64        `json:"tax"`
	TaxRate         float64        `json:"taxRate"`
	Discount        float64        `json:"discount"`
	Total           float64        `json:"total"`

	TemplateID   *uuid.UUID `json:"templateId"`
	TemplateName string     `json:"templateName"`
	CoverImage   string     `json:"coverImage"`
	ProposalNote string     `json:"proposalNote"`
	ClosingNote  string     `json:"closingNote"`
	ClosingImage string     `json:"closingImage"`
	AboutText    string     `json:"aboutText"`
	AboutImage   string     `json:"aboutImage"`

	Company *companies.Company `json:"company"`
	Dealer  *dealers.Dealer    `json:"dealer"`
}

// Render merges the quotation with its template. templateID overrides the
// quotation's own templateId. Only a missing quotation is an error; a missing
// template, company or dealer leaves the related fields empty.
func (s *Service) Render(ctx context.Context, id uuid.UUID, templateID *uuid.UUID) (*RenderProps, error) {
	q, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	props := &RenderProps{
		ID:              q.ID,
		QuotationNumber: q.QuotationNumber,
		Status:          q.Status,
		EffectiveStatus: q.EffectiveStatus,
		Client:          q.Client,
		ValidUntil:      q.ValidUntil,
		Notes:           q.Notes,
		CreatedAt:       q.CreatedAt,
		Areas:           q.Areas,
		Items:           flattenItems(q),
		Subtotal:        q.Subtotal,
		Tax:             q.Tax,
		TaxRate:         shared.TaxRate,
		Discount:        q.Discount,
		Total:           q.Total,
	}
	if props.Areas == nil {
		props.Areas = []shared.Area{}
	}
	if templateID == nil {
		templateID = q.TemplateID
	}

	var (
		tpl     *templates.Template
		company *companies.Company
		dealer  *dealers.Dealer
	)
	g, gctx := errgroup.WithContext(ctx)
	if templateID != nil && s.sources.Templates != nil {
		g.Go(func() error {
			t, err := s.sources.Templates.Get(gctx, *templateID)
			if err != nil {
				s.logger.Warn("render without template", slog.String("templateId", templateID.String()), slog.Any("error", err))
				return nil
			}
			tpl = t
			return nil
		})
	}
	if s.sources.Company != nil {
		g.Go(func() error {
			c, err := s.sources.Company.Get(gctx)
			if err != nil {
				s.logger.Warn("render without company profile", slog.Any("error", err))
				return nil
			}
			company = &c
			return nil
		})
	}
	if q.DealerID != nil && s.sources.Dealers != nil {
		g.Go(func() error {
			d, err := s.sources.Dealers.Get(gctx, *q.DealerID)
			if err != nil {
				s.logger.Warn("render without dealer", slog.String("dealerId", q.DealerID.String()), slog.Any("error", err))
				return nil
			}
			dealer = &d
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	props.Company = company
	props.Dealer = dealer
	if tpl != nil {
		id := tpl.ID
		props.TemplateID = &id
		props.TemplateName = tpl.Name
		props.CoverImage = tpl.Cover.Image
		props.ProposalNote = tpl.ProposalNote.Text()
		props.ClosingNote = tpl.ClosingNote.Text()
		props.ClosingImage = tpl.ClosingNote.Image
		props.AboutText = tpl.AboutUs.Text()
		props.AboutImage = tpl.AboutUs.Image
	}
	return props, nil
}

// flattenItems lists area items in order, falling back to the legacy flat
// items when the quotation has no areas.
func flattenItems(q *Quotation) []RenderItem {
	out := []RenderItem{}
	if len(q.Areas) == 0 {
		for _, it := range q.Items {
			out = append(out, renderItem(shared.Area{}, it))
		}
		return out
	}
	for _, a := range q.Areas {
		for _, it := range a.Items {
			out = append(out, renderItem(a, it))
		}
	}
	return out
}

func renderItem(a shared.Area, it shared.Item) RenderItem {
	return RenderItem{
		AreaRoomTypeID:   a.AreaRoomTypeID,
		AreaRoomTypeName: a.AreaRoomTypeName,
		ProductID:        it.ProductID,
		ProductName:      it.ProductName,
		Quantity:         it.Quantity,
		UnitPrice:        it.UnitPrice,
		Total:            it.Total,
	}
}
