package controllers

import (
	"net/http"

	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/internal/dashboard"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

func DashboardStats(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return serve(svc != nil, "dashboard", logg, func(w http.ResponseWriter, r *http.Request) error {
		stats, err := svc.Stats(r.Context())
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, stats)
		return nil
	})
}
