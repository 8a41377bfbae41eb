package controllers

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/pkg/config"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is a dependency the readiness probe must reach.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Rasoi-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings every dependency concurrently. Any failure answers 503
// with the failing dependencies listed in the error details.
func HealthReady(cfg *config.Config, deps map[string]Pinger, logg *logger.Logger) http.HandlerFunc {
	return responses.Handle(logg, func(w http.ResponseWriter, r *http.Request) error {
		w.Header().Set("X-Rasoi-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		var (
			mu     sync.Mutex
			failed = map[string]string{}
			g      errgroup.Group
		)
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			g.Go(func() error {
				if err := dep.Ping(ctx); err != nil {
					mu.Lock()
					failed[name] = err.Error()
					mu.Unlock()
					return fmt.Errorf("%s: %w", name, err)
				}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "not ready").WithDetails(failed)
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready"})
		return nil
	})
}
