package emailsettings

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quoteroom/quoteroom/internal/masterdata/shared"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
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
	r.Get("/", h.Show)
	r.Post("/", h.Save)
	r.Put("/", h.Save)
}

func (h *Handler) Show(w http.ResponseWriter, r *http.Request) {
	st, err := h.service.Get(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, st)
}

func (h *Handler) Save(w http.ResponseWriter, r *http.Request) {
	var in SettingInput
	if _, err := shared.Bind(r, &in); err != nil {
		httpx.RespondError(w, err)
		return
	}
	st, err := h.service.Save(r.Context(), in)
	if err != nil {
		h.logger.Error("save email settings failed", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.OK(w, http.StatusOK, st)
}
