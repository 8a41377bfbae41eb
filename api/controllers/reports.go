package controllers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/meetpatel1235/rrrr/internal/reports"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

// OrdersCSV downloads the orders export filtered by status and event dates.
func OrdersCSV(exporter *reports.Exporter, logg *logger.Logger) http.HandlerFunc {
	return serve(exporter != nil, "reports", logg, func(w http.ResponseWriter, r *http.Request) error {
		q := r.URL.Query()
		req := reports.ExportRequest{
			Status:   q.Get("status"),
			FromDate: q.Get("from"),
			ToDate:   q.Get("to"),
		}

		// buffer so a failure can still be reported as JSON
		var buf bytes.Buffer
		if _, err := exporter.WriteOrdersCSV(r.Context(), &buf, req); err != nil {
			return err
		}

		filename := fmt.Sprintf("orders-%s.csv", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		w.WriteHeader(http.StatusOK)
		if _, err := buf.WriteTo(w); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "reports.csv.write_failed")
		}
		return nil
	})
}
