package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"

	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/api/routes"
	"github.com/meetpatel1235/rrrr/internal/auth"
	"github.com/meetpatel1235/rrrr/internal/dashboard"
	"github.com/meetpatel1235/rrrr/internal/inventory"
	"github.com/meetpatel1235/rrrr/internal/invoices"
	"github.com/meetpatel1235/rrrr/internal/ledger"
	"github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/internal/platform"
	"github.com/meetpatel1235/rrrr/internal/reports"
	"github.com/meetpatel1235/rrrr/internal/users"
	pkgAuth "github.com/meetpatel1235/rrrr/pkg/auth"
	"github.com/meetpatel1235/rrrr/pkg/auth/session"
	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/metrics"
	"github.com/meetpatel1235/rrrr/pkg/redis"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

const (
	shutdownTimeout   = 15 * time.Second
	readHeaderTimeout = 10 * time.Second
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "api: %v\n", err)
		os.Exit(1)
	}
}

func run() (err error) {
	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := platform.Start(sigCtx, platform.Options{Service: "api", Redis: true, DevMigrations: true})
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, rt.Close()) }()

	cfg, logg := rt.Config, rt.Logger

	// amounts travel as JSON numbers
	decimal.MarshalJSONWithoutQuotes = true
	responses.ExposeStack(!cfg.App.IsProd())

	sessions, err := session.NewManager(rt.Redis, cfg.JWT)
	if err != nil {
		return fmt.Errorf("session manager: %w", err)
	}
	deps, err := buildDependencies(cfg, logg, rt.DB, rt.Redis, sessions)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}

	addr := ":" + cfg.App.Port
	ctx := logg.WithField(rt.Context(context.Background()), "addr", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           routes.NewRouter(cfg, logg, deps),
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	serveErr := make(chan error, 1)
	go func() { serveErr <- server.ListenAndServe() }()
	logg.Info(ctx, "api.listening")

	select {
	case err := <-serveErr:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-sigCtx.Done():
	}

	logg.Info(ctx, "api.shutting_down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func buildDependencies(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client, sessionManager *session.Manager) (routes.Dependencies, error) {
	loc := timeutil.Location(cfg.App.Timezone)
	business := metrics.NewBusinessMetrics(prometheus.DefaultRegisterer)

	userRepo := users.NewRepository(dbClient.DB())
	usersService, err := users.NewService(userRepo, cfg.Password)
	if err != nil {
		return routes.Dependencies{}, err
	}

	tokens, err := pkgAuth.NewTokens(cfg.JWT)
	if err != nil {
		return routes.Dependencies{}, err
	}
	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:       userRepo,
		SessionManager: sessionManager,
		Tokens:         tokens,
		PasswordConfig: cfg.Password,
		Logger:         logg,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	inventoryRepo := inventory.NewRepository(dbClient.DB())
	inventoryService, err := inventory.NewService(inventoryRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}
	stockLedger, err := inventory.NewLedger(inventoryRepo)
	if err != nil {
		return routes.Dependencies{}, err
	}

	ordersRepo := orders.NewRepository(dbClient.DB())
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      ordersRepo,
		Inventory: inventoryRepo,
		Ledger:    stockLedger,
		Tx:        dbClient,
		Logger:    logg,
		Metrics:   business,
		Location:  loc,
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	paymentLedger, err := ledger.NewService(ledger.NewRepository(dbClient.DB()))
	if err != nil {
		return routes.Dependencies{}, err
	}
	invoicesService, err := invoices.NewService(invoices.ServiceParams{
		Repo:           invoices.NewRepository(dbClient.DB()),
		Ledger:         paymentLedger,
		Tx:             dbClient,
		Logger:         logg,
		Metrics:        business,
		Location:       loc,
		DefaultDueDays: cfg.Invoice.DefaultDueDays,
		Business: invoices.Business{
			Name:     cfg.Invoice.BusinessName,
			Phone:    cfg.Invoice.BusinessPhone,
			Address:  cfg.Invoice.BusinessAddr,
			FontPath: cfg.Invoice.FontPath,
		},
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	dashboardService, err := dashboard.NewService(dashboard.ServiceParams{
		Orders:    ordersService,
		Inventory: inventoryRepo,
		Billing:   dashboard.NewRepository(dbClient.DB()),
	})
	if err != nil {
		return routes.Dependencies{}, err
	}

	exporter, err := reports.NewExporter(ordersRepo, loc)
	if err != nil {
		return routes.Dependencies{}, err
	}

	return routes.Dependencies{
		DB:          dbClient,
		Redis:       redisClient,
		Tokens:      tokens,
		Sessions:    sessionManager,
		Idempotency: redisClient,
		RateLimiter: redisClient,
		HTTPMetrics: metrics.NewHTTPMetrics(prometheus.DefaultRegisterer),
		Gatherer:    prometheus.DefaultGatherer,
		Auth:        authService,
		Users:       usersService,
		Inventory:   inventoryService,
		Orders:      ordersService,
		Invoices:    invoicesService,
		Dashboard:   dashboardService,
		Reports:     exporter,
	}, nil
}
