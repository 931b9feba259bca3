package quotations

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/quoteroom/quoteroom/internal/platform/httpx"
)

// PrintTemplate is the print page rendered for PDF export.
const PrintTemplate = "quotation.html"

// Printer executes an HTML template by name.
type Printer interface {
	Execute(w io.Writer, name string, data any) error
}

// PDFConverter turns an HTML document into a PDF.
type PDFConverter interface {
	RenderHTML(ctx context.Context, html []byte) ([]byte, error)
}

type Handler struct {
	logger  *slog.Logger
	service *Service
	printer Printer
	pdf     PDFConverter
}

func NewHandler(logger *slog.Logger, service *Service, printer Printer, pdf PDFConverter) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service, printer: printer, pdf: pdf}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	page := httpx.ParsePage(r)
	q := r.URL.Query()
	dealerID, err := httpx.ParseOptionalUUID(q.Get("dealerId"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	items, total, err := h.service.List(r.Context(), ListQuotationsRequest{
		DealerID: dealerID,
		Status:   Status(q.Get("status")),
		Search:   page.Search,
		Limit:    page.Limit,
		Offset:   page.Offset(),
	})
	if err != nil {
		h.logger.Error("list quotations failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.NewList(items, total, page))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, q)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Create(r.Context(), req)
	if err != nil {
		h.logger.Error("create quotation failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, q)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var req UpdateQuotationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(req); err != nil {
		httpx.RespondError(w, err)
		return
	}
	q, err := h.service.Update(r.Context(), id, req)
	if err != nil {
		h.logger.Error("update quotation failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, q)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.Delete(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]string{"id": id.String()})
}

func (h *Handler) Render(w http.ResponseWriter, r *http.Request) {
	props, ok := h.renderProps(w, r)
	if !ok {
		return
	}
	httpx.OK(w, http.StatusOK, props)
}

func (h *Handler) PDF(w http.ResponseWriter, r *http.Request) {
	if h.printer == nil || h.pdf == nil {
		httpx.Fail(w, http.StatusServiceUnavailable, "pdf export is not configured")
		return
	}
	props, ok := h.renderProps(w, r)
	if !ok {
		return
	}

	var page bytes.Buffer
	if err := h.printer.Execute(&page, PrintTemplate, props); err != nil {
		h.logger.Error("render quotation page failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	pdf, err := h.pdf.RenderHTML(r.Context(), page.Bytes())
	if err != nil {
		h.logger.Error("convert quotation pdf failed", slog.Any("error", err), slog.String("id", props.ID.String()))
		httpx.Fail(w, http.StatusBadGateway, err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", props.QuotationNumber+".pdf"))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}

func (h *Handler) renderProps(w http.ResponseWriter, r *http.Request) (*RenderProps, bool) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return nil, false
	}
	// A malformed templateId renders with empty template fields, like an unknown one.
	templateID, err := httpx.ParseOptionalUUID(r.URL.Query().Get("templateId"))
	if err != nil {
		templateID = &uuid.Nil
	}
	props, err := h.service.Render(r.Context(), id, templateID)
	if err != nil {
		httpx.RespondError(w, err)
		return nil, false
	}
	return props, true
}
