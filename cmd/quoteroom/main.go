package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/quoteroom/quoteroom/cmd/quoteroom/cli"
	"github.com/quoteroom/quoteroom/internal/app"
	"github.com/quoteroom/quoteroom/internal/auth"
	"github.com/quoteroom/quoteroom/internal/masterdata/brands"
	"github.com/quoteroom/quoteroom/internal/masterdata/companies"
	"github.com/quoteroom/quoteroom/internal/masterdata/dealers"
	"github.com/quoteroom/quoteroom/internal/masterdata/emailsettings"
	"github.com/quoteroom/quoteroom/internal/masterdata/lookups"
	"github.com/quoteroom/quoteroom/internal/masterdata/others"
	"github.com/quoteroom/quoteroom/internal/masterdata/products"
	"github.com/quoteroom/quoteroom/internal/observability"
	"github.com/quoteroom/quoteroom/internal/platform/cache"
	"github.com/quoteroom/quoteroom/internal/platform/db"
	"github.com/quoteroom/quoteroom/internal/platform/storage"
	"github.com/quoteroom/quoteroom/internal/proxy"
	"github.com/quoteroom/quoteroom/internal/sales/clients"
	"github.com/quoteroom/quoteroom/internal/sales/quotations"
	"github.com/quoteroom/quoteroom/internal/sales/templates"
	"github.com/quoteroom/quoteroom/internal/view"
	"github.com/quoteroom/quoteroom/jobs"
	"github.com/quoteroom/quoteroom/report"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
		return
	}

	if len(os.Args) > 1 {
		if err := runCommand(os.Args[1], os.Args[2:]); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	dbpool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect postgres", slog.Any("error", err))
		os.Exit(1)
	}
	defer dbpool.Close()

	if err := db.NewMigrator(dbpool, logger).Run(ctx); err != nil {
		logger.Error("run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		redisClient *redis.Client
		revocations auth.Revocations
		cleanup     storage.CleanupEnqueuer
		inspector   jobs.QueueInspector
	)
	redisClient, err = cache.New(ctx, cfg.RedisAddr, "", 0)
	if err != nil {
		logger.Warn("redis unavailable, logout revocation and cleanup retries disabled", slog.Any("error", err))
	} else {
		defer func() {
			if err := redisClient.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}()
		revocations = auth.NewRedisRevocations(redisClient)

		redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
		jobClient := jobs.NewClient(redisOpts)
		defer func() {
			if err := jobClient.Close(); err != nil {
				logger.Warn("job client close", slog.Any("error", err))
			}
		}()
		cleanup = jobClient

		asynqInspector := asynq.NewInspector(redisOpts)
		defer func() {
			if err := asynqInspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		inspector = asynqInspector
	}

	var objectStore storage.ObjectStore
	if cfg.StorageConfigured() {
		s3Store, err := storage.NewS3(ctx, cfg.Storage())
		if err != nil {
			logger.Error("init object storage", slog.Any("error", err))
			os.Exit(1)
		}
		objectStore = s3Store
	} else {
		logger.Warn("object storage not configured, uploads are disabled")
	}
	assets := storage.NewAssets(objectStore, cfg.PublicDir, cleanup, logger)

	metrics := observability.NewMetrics()

	authService := auth.NewService(cfg.Credentials(), auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL), revocations)

	brandService := brands.NewService(brands.NewRepository(dbpool), assets, logger)
	dealerService := dealers.NewService(dealers.NewRepository(dbpool), assets, logger)
	productService := products.NewService(products.NewRepository(dbpool), brandService, assets, logger)
	companyService := companies.NewService(companies.NewRepository(dbpool), assets, logger)
	templateService := templates.NewService(templates.NewRepository(dbpool), assets, logger)
	quotationService := quotations.NewService(quotations.NewRepository(dbpool), quotations.RenderSources{
		Templates: templateService,
		Company:   companyService,
		Dealers:   dealerService,
	}, logger)

	printer, err := view.NewEngine()
	if err != nil {
		logger.Error("parse templates", slog.Any("error", err))
		os.Exit(1)
	}

	var (
		pdf           quotations.PDFConverter
		reportHandler *report.Handler
	)
	if cfg.GotenbergURL != "" {
		reportClient := report.NewClient(cfg.GotenbergURL)
		pdf = reportClient
		reportHandler = report.NewHandler(reportClient, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:  logger,
		Config:  cfg,
		Metrics: metrics,
		Ready:   pingPool(dbpool),

		AuthService: authService,
		AuthHandler: auth.NewHandler(logger, authService, cfg.IsProduction()),

		BrandsHandler:            brands.NewHandler(logger, brandService),
		DealersHandler:           dealers.NewHandler(logger, dealerService),
		ProductsHandler:          products.NewHandler(logger, productService),
		ProductCategoriesHandler: lookupHandler(dbpool, logger, lookups.ProductCategories),
		ProductFunctionsHandler:  lookupHandler(dbpool, logger, lookups.ProductFunctions),
		AreaRoomTypesHandler:     lookupHandler(dbpool, logger, lookups.AreaRoomTypes),
		OthersHandler:            others.NewHandler(logger, others.NewService(others.NewRepository(dbpool), assets, logger)),
		CompanyHandler:           companies.NewHandler(logger, companyService),
		EmailSettingsHandler:     emailsettings.NewHandler(logger, emailsettings.NewService(emailsettings.NewRepository(dbpool), logger)),

		ClientsHandler:    clients.NewHandler(logger, clients.NewService(clients.NewRepository(dbpool))),
		TemplatesHandler:  templates.NewHandler(logger, templateService),
		QuotationsHandler: quotations.NewHandler(logger, quotationService, printer, pdf),

		ProxyHandler:  proxy.NewHandler(nil, logger, metrics),
		ReportHandler: reportHandler,
		JobHandler:    jobs.NewHandler(inspector, logger),
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.Bool("auth_enforced", cfg.AuthEnforce))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}

func lookupHandler(pool *pgxpool.Pool, logger *slog.Logger, kind lookups.Kind) *lookups.Handler {
	return lookups.NewHandler(logger, lookups.NewService(lookups.NewRepository(pool, kind)), kind)
}

func pingPool(pool *pgxpool.Pool) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		return pool.Ping(ctx)
	}
}

func runCommand(name string, args []string) error {
	ctx := context.Background()
	switch name {
	case "hash-password":
		if len(args) != 1 {
			return fmt.Errorf("usage: quoteroom hash-password <password>")
		}
		hash, err := cli.HashPassword(args[0])
		if err != nil {
			return err
		}
		fmt.Println(hash)
		return nil
	case "migrate":
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return err
		}
		defer pool.Close()
		return db.NewMigrator(pool, app.NewLogger(cfg)).Run(ctx)
	case "queue-stats", "cleanup":
		cfg, err := app.LoadConfig()
		if err != nil {
			return err
		}
		jobsCLI := cli.NewJobsCLI(cfg.RedisAddr)
		defer func() {
			_ = jobsCLI.Close()
		}()
		if name == "cleanup" {
			if len(args) != 1 {
				return fmt.Errorf("usage: quoteroom cleanup <object-key>")
			}
			info, err := jobsCLI.RetryCleanup(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Printf("enqueued %s (%s)\n", info.ID, info.Type)
			return nil
		}
		stats, err := jobsCLI.InspectQueue(ctx)
		if err != nil {
			return err
		}
		return json.NewEncoder(os.Stdout).Encode(stats)
	default:
		return fmt.Errorf("unknown command %q (want hash-password, migrate, queue-stats or cleanup)", name)
	}
}
