package brands

import "github.com/go-chi/chi/v5"

// MountRoutes registers brand routes under the current router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Patch("/{id}", h.Update)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/products-order", h.ShowProductOrder)
	r.Patch("/{id}/products-order", h.UpdateProductOrder)
}
