package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"

	"github.com/meetpatel1235/rrrr/internal/cron"
	"github.com/meetpatel1235/rrrr/internal/inventory"
	"github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/internal/platform"
	"github.com/meetpatel1235/rrrr/pkg/config"
	"github.com/meetpatel1235/rrrr/pkg/db"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/metrics"
	"github.com/meetpatel1235/rrrr/pkg/redis"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

func main() {
	once := flag.Bool("once", false, "run a single cycle and exit")
	flag.Parse()

	if err := run(*once); err != nil {
		fmt.Fprintf(os.Stderr, "cron-worker: %v\n", err)
		os.Exit(1)
	}
}

func run(once bool) (err error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rt, err := platform.Start(ctx, platform.Options{Service: "cron-worker", Redis: true, DevMigrations: true})
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, rt.Close()) }()

	service, err := buildService(rt.Config, rt.Logger, rt.DB, rt.Redis)
	if err != nil {
		return fmt.Errorf("build cron service: %w", err)
	}
	ctx = rt.Context(ctx)

	if once {
		return service.RunOnce(ctx)
	}
	rt.Logger.Info(ctx, "cron.worker.started")
	if err := service.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	rt.Logger.Info(ctx, "cron.worker.stopped")
	return nil
}

func buildService(cfg *config.Config, logg *logger.Logger, dbClient *db.Client, redisClient *redis.Client) (*cron.Service, error) {
	inventoryRepo := inventory.NewRepository(dbClient.DB())
	stockLedger, err := inventory.NewLedger(inventoryRepo)
	if err != nil {
		return nil, err
	}
	ordersService, err := orders.NewService(orders.ServiceParams{
		Repo:      orders.NewRepository(dbClient.DB()),
		Inventory: inventoryRepo,
		Ledger:    stockLedger,
		Tx:        dbClient,
		Logger:    logg,
		Metrics:   metrics.NewBusinessMetrics(prometheus.DefaultRegisterer),
		Location:  timeutil.Location(cfg.App.Timezone),
	})
	if err != nil {
		return nil, err
	}

	activation, err := cron.NewOrderActivationJob(cron.OrderActivationJobParams{
		Logger: logg,
		Orders: ordersService,
	})
	if err != nil {
		return nil, err
	}

	lock, err := cron.NewRedisLock(redisClient, redisClient.LockKey("cron-worker:"+cfg.App.Env), cfg.Cron.LockTTL)
	if err != nil {
		return nil, err
	}

	registry, err := cron.NewRegistry(activation)
	if err != nil {
		return nil, err
	}

	return cron.NewService(cron.ServiceParams{
		Logger:   logg,
		Registry: registry,
		Lock:     lock,
		Metrics:  metrics.NewCronJobMetrics(prometheus.DefaultRegisterer),
		Interval: cfg.Cron.Interval,
	})
}
