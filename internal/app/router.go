package app

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quoteroom/quoteroom/internal/auth"
	"github.com/quoteroom/quoteroom/internal/masterdata/brands"
	"github.com/quoteroom/quoteroom/internal/masterdata/companies"
	"github.com/quoteroom/quoteroom/internal/masterdata/dealers"
	"github.com/quoteroom/quoteroom/internal/masterdata/emailsettings"
	"github.com/quoteroom/quoteroom/internal/masterdata/lookups"
	"github.com/quoteroom/quoteroom/internal/masterdata/others"
	"github.com/quoteroom/quoteroom/internal/masterdata/products"
	"github.com/quoteroom/quoteroom/internal/observability"
	"github.com/quoteroom/quoteroom/internal/platform/httpx"
	"github.com/quoteroom/quoteroom/internal/proxy"
	"github.com/quoteroom/quoteroom/internal/sales/clients"
	"github.com/quoteroom/quoteroom/internal/sales/quotations"
	"github.com/quoteroom/quoteroom/internal/sales/templates"
	"github.com/quoteroom/quoteroom/jobs"
	"github.com/quoteroom/quoteroom/report"
)

// RouterParams groups dependencies for building the HTTP router. Nil handlers
// are skipped.
type RouterParams struct {
	Logger  *slog.Logger
	Config  *Config
	Metrics *observability.Metrics
	Ready   func(ctx context.Context) error

	AuthService *auth.Service
	AuthHandler *auth.Handler

	BrandsHandler            *brands.Handler
	DealersHandler           *dealers.Handler
	ProductsHandler          *products.Handler
	ProductCategoriesHandler *lookups.Handler
	ProductFunctionsHandler  *lookups.Handler
	AreaRoomTypesHandler     *lookups.Handler
	OthersHandler            *others.Handler
	CompanyHandler           *companies.Handler
	EmailSettingsHandler     *emailsettings.Handler

	ClientsHandler    *clients.Handler
	TemplatesHandler  *templates.Handler
	QuotationsHandler *quotations.Handler

	ProxyHandler  *proxy.Handler
	ReportHandler *report.Handler
	JobHandler    *jobs.Handler
}

// LoginPath is reachable without a session even when auth is enforced.
const LoginPath = "/api/login"

// NewRouter constructs the chi.Router with the API defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httpx.Fail(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if params.Ready != nil {
			if err := params.Ready(r.Context()); err != nil {
				params.Logger.Warn("health check failed", slog.Any("error", err))
				httpx.Fail(w, http.StatusServiceUnavailable, "database unavailable")
				return
			}
		}
		httpx.OK(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(api chi.Router) {
		enforce := params.Config != nil && params.Config.AuthEnforce
		api.Use(auth.Middleware(params.AuthService, enforce, LoginPath, "/api/logout"))

		if params.AuthHandler != nil {
			params.AuthHandler.MountRoutes(api)
		}
		if h := params.BrandsHandler; h != nil {
			api.Route("/brands", h.MountRoutes)
		}
		if h := params.DealersHandler; h != nil {
			api.Route("/dealers", h.MountRoutes)
		}
		if h := params.ProductsHandler; h != nil {
			api.Route("/products", h.MountRoutes)
			api.Route("/product-price-list", h.MountPriceListRoutes)
		}
		if h := params.ProductCategoriesHandler; h != nil {
			api.Route("/product-categories", h.MountRoutes)
		}
		if h := params.ProductFunctionsHandler; h != nil {
			api.Route("/product-functions", h.MountRoutes)
		}
		if h := params.AreaRoomTypesHandler; h != nil {
			api.Route("/area-room-types", h.MountRoutes)
		}
		if h := params.OthersHandler; h != nil {
			api.Route("/other-brands", h.MountBrandRoutes)
			api.Route("/other-products", h.MountProductRoutes)
		}
		if h := params.CompanyHandler; h != nil {
			api.Route("/company", h.MountRoutes)
		}
		if h := params.EmailSettingsHandler; h != nil {
			api.Route("/email-settings", h.MountRoutes)
		}
		if h := params.ClientsHandler; h != nil {
			api.Route("/clients", h.MountRoutes)
		}
		if h := params.TemplatesHandler; h != nil {
			api.Route("/quotation-templates", h.MountRoutes)
		}
		if h := params.QuotationsHandler; h != nil {
			api.Route("/quotations", h.MountRoutes)
		}
		if h := params.ProxyHandler; h != nil {
			api.Route("/proxy", h.MountRoutes)
		}
	})

	if params.ReportHandler != nil {
		r.Route("/report", params.ReportHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
