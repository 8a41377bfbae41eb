package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/meetpatel1235/rrrr/api/controllers"
	inventorycontrollers "github.com/meetpatel1235/rrrr/api/controllers/inventory"
	invoicecontrollers "github.com/meetpatel1235/rrrr/api/controllers/invoices"
	ordercontrollers "github.com/meetpatel1235/rrrr/api/controllers/orders"
	"github.com/meetpatel1235/rrrr/api/middleware"
	"github.com/meetpatel1235/rrrr/internal/auth"
	"github.com/meetpatel1235/rrrr/internal/dashboard"
	"github.com/meetpatel1235/rrrr/internal/inventory"
	"github.com/meetpatel1235/rrrr/internal/invoices"
	"github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/internal/reports"
	"github.com/meetpatel1235/rrrr/internal/users"
	"github.com/meetpatel1235/rrrr/pkg/auth/session"
	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/metrics"
)

// Dependencies carries everything the HTTP surface is wired to.
type Dependencies struct {
	DB          controllers.Pinger
	Redis       controllers.Pinger
	Tokens      middleware.TokenVerifier
	Sessions    session.Checker
	Idempotency middleware.IdempotencyStore
	RateLimiter middleware.RateLimitStore

	HTTPMetrics *metrics.HTTPMetrics
	Gatherer    prometheus.Gatherer

	Auth      auth.Service
	Users     users.Service
	Inventory inventory.Service
	Orders    orders.Service
	Invoices  invoices.Service
	Dashboard dashboard.Service
	Reports   *reports.Exporter
}

func NewRouter(cfg *config.Config, logg *logger.Logger, deps Dependencies) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.HTTPMetrics),
		middleware.Recoverer(logg),
		middleware.CORS(cfg.CORS),
	)

	loginThrottle := middleware.AuthRateLimit("login", middleware.LoginLimitsFromConfig(cfg.AuthRateLimit), deps.RateLimiter, logg)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, map[string]controllers.Pinger{
			"database": deps.DB,
			"redis":    deps.Redis,
		}, logg))
	})

	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))

	admin := middleware.RequireRole(logg, enums.UserRoleAdmin)
	idempotent := middleware.Idempotency(deps.Idempotency, cfg.Redis.IdempotencyTTL, logg)
	idempotentPayment := middleware.Idempotency(deps.Idempotency, cfg.Redis.PaymentIdempotencyTTL, logg)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(loginThrottle).Post("/login", controllers.AuthLogin(deps.Auth, logg))
			r.Post("/refresh", controllers.AuthRefresh(deps.Auth, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.Auth(deps.Tokens, deps.Sessions, logg))
				r.Get("/me", controllers.AuthMe(deps.Users, logg))
				r.Post("/logout", controllers.AuthLogout(deps.Auth, logg))
				r.With(admin).Post("/register", controllers.AuthRegister(deps.Users, logg))
			})
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(deps.Tokens, deps.Sessions, logg))

			r.With(admin).Get("/users", controllers.UsersList(deps.Users, logg))

			r.Route("/inventory", func(r chi.Router) {
				r.Get("/", inventorycontrollers.List(deps.Inventory, logg))
				r.Get("/{id}", inventorycontrollers.Detail(deps.Inventory, logg))
				r.With(admin).Post("/", inventorycontrollers.Create(deps.Inventory, logg))
				r.With(admin).Put("/{id}", inventorycontrollers.Update(deps.Inventory, logg))
				r.With(admin).Delete("/{id}", inventorycontrollers.Delete(deps.Inventory, logg))
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", ordercontrollers.List(deps.Orders, logg))
				r.With(idempotent).Post("/", ordercontrollers.Create(deps.Orders, logg))
				r.Get("/{id}", ordercontrollers.Detail(deps.Orders, logg))
				r.Put("/{id}", ordercontrollers.Update(deps.Orders, logg))
				r.Put("/{id}/status", ordercontrollers.UpdateStatus(deps.Orders, logg))
			})

			r.Route("/invoices", func(r chi.Router) {
				r.Get("/", invoicecontrollers.List(deps.Invoices, logg))
				r.With(idempotent).Post("/", invoicecontrollers.Create(deps.Invoices, logg))
				r.Get("/{id}", invoicecontrollers.Detail(deps.Invoices, logg))
				r.Get("/{id}/pdf", invoicecontrollers.PDF(deps.Invoices, logg))
				r.Get("/{id}/payments", invoicecontrollers.Payments(deps.Invoices, logg))
				r.With(admin).Put("/{id}", invoicecontrollers.Update(deps.Invoices, logg))
				r.With(admin, idempotentPayment).Post("/{id}/payments", invoicecontrollers.RecordPayment(deps.Invoices, logg))
			})

			r.Get("/dashboard/stats", controllers.DashboardStats(deps.Dashboard, logg))
			r.With(admin).Get("/reports/orders.csv", controllers.OrdersCSV(deps.Reports, logg))
		})
	})

	return r
}
