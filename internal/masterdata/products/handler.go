package products

import (
	"log/slog"
	"mime/multipart"
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

// MountRoutes registers /api/products.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Patch("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}

// MountPriceListRoutes registers /api/product-price-list.
func (h *Handler) MountPriceListRoutes(r chi.Router) {
	r.Get("/", h.PriceList)
	r.Post("/", h.SetPrice)
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromRequest(r)
	items, total, err := h.service.List(r.Context(), filters)
	if err != nil {
		h.logger.Error("list products failed", slog.Any("error", err))
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
	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var in ProductInput
	form, err := shared.Bind(r, &in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	images, err := storage.FormImages(form, "images")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.Create(r.Context(), in, images)
	if err != nil {
		h.logger.Error("create product failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in ProductInput
	form, err := shared.Bind(r, &in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	// File parts under images are new uploads; text values under images are the keep list.
	images, err := formUploads(form, "images", "newImages")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.Update(r.Context(), id, in, images)
	if err != nil {
		h.logger.Error("update product failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
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

func (h *Handler) PriceList(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseUUID(r.URL.Query().Get("productId"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	changes, err := h.service.PriceChanges(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, changes)
}

func (h *Handler) SetPrice(w http.ResponseWriter, r *http.Request) {
	var in ManualPriceInput
	if err := httpx.DecodeJSON(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.SetPrice(r.Context(), in)
	if err != nil {
		h.logger.Error("set product price failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
}

func formUploads(form *multipart.Form, fields ...string) ([]storage.Image, error) {
	var out []storage.Image
	for _, field := range fields {
		images, err := storage.FormImages(form, field)
		if err != nil {
			return nil, err
		}
		out = append(out, images...)
	}
	return out, nil
}
