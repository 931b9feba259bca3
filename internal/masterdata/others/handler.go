package others

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

// MountBrandRoutes registers /other-brands.
func (h *Handler) MountBrandRoutes(r chi.Router) {
	r.Get("/", h.ListBrands)
	r.Post("/", h.CreateBrand)
	r.Get("/{id}", h.ShowBrand)
	r.Patch("/{id}", h.UpdateBrand)
	r.Put("/{id}", h.UpdateBrand)
	r.Delete("/{id}", h.DeleteBrand)
}

// MountProductRoutes registers /other-products. The otherBrandId query
// parameter filters by brand.
func (h *Handler) MountProductRoutes(r chi.Router) {
	r.Get("/", h.ListProducts)
	r.Post("/", h.CreateProduct)
	r.Get("/{id}", h.ShowProduct)
	r.Patch("/{id}", h.UpdateProduct)
	r.Put("/{id}", h.UpdateProduct)
	r.Delete("/{id}", h.DeleteProduct)
}

func (h *Handler) ListBrands(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromRequest(r)
	items, total, err := h.service.ListBrands(r.Context(), filters)
	if err != nil {
		h.logger.Error("list other brands failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.NewList(items, total, filters.AsPage()))
}

func (h *Handler) ShowBrand(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	b, err := h.service.GetBrand(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, b)
}

func (h *Handler) CreateBrand(w http.ResponseWriter, r *http.Request) {
	var in OtherBrandInput
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
	b, err := h.service.CreateBrand(r.Context(), in, logo)
	if err != nil {
		h.logger.Error("create other brand failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, b)
}

func (h *Handler) UpdateBrand(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in OtherBrandInput
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
	b, err := h.service.UpdateBrand(r.Context(), id, in, logo)
	if err != nil {
		h.logger.Error("update other brand failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, b)
}

func (h *Handler) DeleteBrand(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteBrand(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]string{"id": id.String()})
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	filters := shared.FiltersFromRequest(r)
	if raw := r.URL.Query().Get("otherBrandId"); raw != "" {
		id, err := httpx.ParseOptionalUUID(raw)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filters.BrandID = id
	}
	items, total, err := h.service.ListProducts(r.Context(), filters)
	if err != nil {
		h.logger.Error("list other products failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, httpx.NewList(items, total, filters.AsPage()))
}

func (h *Handler) ShowProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.GetProduct(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
}

func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var in OtherProductInput
	form, err := shared.Bind(r, &in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	image, err := storage.FormImage(form, "image")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.CreateProduct(r.Context(), in, image)
	if err != nil {
		h.logger.Error("create other product failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusCreated, p)
}

func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	var in OtherProductInput
	form, err := shared.Bind(r, &in)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	image, err := storage.FormImage(form, "image")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	p, err := h.service.UpdateProduct(r.Context(), id, in, image)
	if err != nil {
		h.logger.Error("update other product failed", slog.Any("error", err), slog.String("id", id.String()))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, p)
}

func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := httpx.ParseID(r, "id")
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	if err := h.service.DeleteProduct(r.Context(), id); err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, map[string]string{"id": id.String()})
}
