package brands

import (
	"log/slog"
	"net/http"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/platform/storage"
)

type Handler struct {
	logger  *slog.Logger
	service *Service
}

func NewHandler(logger *slog.Logger, service *Service) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{logger: logger, service: service}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromRequest(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list brands failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.NewList(items, total, filters.AsPage()))
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, b)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in BrandInput
	form, err := shared.Bind(r, &in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	logo, err := storage.FormImage(form, "logo")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	b, err := h.service.Create(r.Context(), in, logo)
	if err != nil {
		h.logger.Error("create brand failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, b)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in BrandInput
	form, err := shared.Bind(r, &in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	logo, err := storage.FormImage(form, "logo")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	b, err := h.service.Update(r.Context(), id, in, logo)
	if err != nil {
		h.logger.Error("update brand failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, b)
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

func (h *Handler) ShowProductOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.ProductOrder(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, order)
}

func (h *Handler) UpdateProductOrder(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in ProductOrderInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := httpx.Validate(in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	order, err := h.service.SaveProductOrder(r.Context(), id, in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, order)
}
