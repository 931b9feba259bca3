package dealers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

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

func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}", h.Update)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromRequest(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list dealers failed", slog.Any("error", err))
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
	d, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, d)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in DealerInput
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
	d, err := h.service.Create(r.Context(), in, logo)
	if err != nil {
		h.logger.Error("create dealer failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, d)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in DealerInput
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
	d, err := h.service.Update(r.Context(), id, in, logo)
	if err != nil {
		h.logger.Error("update dealer failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, d)
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
