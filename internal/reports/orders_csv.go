package reports

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

// OrderRow is one line of the orders export.
type OrderRow struct {
	OrderNumber  string `csv:"order_number"`
	CustomerName string `csv:"customer_name"`
	Phone        string `csv:"phone"`
	Address      string `csv:"address"`
	EventDate    string `csv:"event_date"`
	ReturnDate   string `csv:"return_date"`
	Status       string `csv:"status"`
	Items        string `csv:"items"`
	TotalAmount  string `csv:"total_amount"`
	PaidAmount   string `csv:"paid_amount"`
	Balance      string `csv:"balance"`
	CreatedBy    string `csv:"created_by"`
	CreatedAt    string `csv:"created_at"`
}

// ExportRequest carries the raw filter values from a query string or flags.
type ExportRequest struct {
	Status   string
	FromDate string
	ToDate   string
}

type exportSource interface {
	ListForExport(ctx context.Context, filters orders.ExportFilters) ([]models.Order, error)
}

// Exporter renders order reports.
type Exporter struct {
	source   exportSource
	location *time.Location
}

func NewExporter(source exportSource, loc *time.Location) (*Exporter, error) {
	if source == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if loc == nil {
		loc = timeutil.IST
	}
	return &Exporter{source: source, location: loc}, nil
}

// WriteOrdersCSV streams the matching orders as CSV and returns the row count.
func (e *Exporter) WriteOrdersCSV(ctx context.Context, w io.Writer, req ExportRequest) (int, error) {
	filters, err := e.parse(req)
	if err != nil {
		return 0, err
	}

	rows, err := e.source.ListForExport(ctx, filters)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders for export")
	}

	out := make([]*OrderRow, 0, len(rows))
	for i := range rows {
		out = append(out, e.toRow(&rows[i]))
	}
	if err := gocsv.Marshal(out, w); err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "write csv")
	}
	return len(out), nil
}

func (e *Exporter) parse(req ExportRequest) (orders.ExportFilters, error) {
	var filters orders.ExportFilters
	if s := strings.TrimSpace(req.Status); s != "" {
		status, err := enums.ParseOrderStatus(strings.ToLower(s))
		if err != nil {
			return filters, pkgerrors.Validation("status", "Status must be upcoming, pending or completed")
		}
		filters.Status = &status
	}
	if s := strings.TrimSpace(req.FromDate); s != "" {
		d, err := timeutil.ParseDate(s, e.location)
		if err != nil {
			return filters, pkgerrors.Validation("from", "From date must be YYYY-MM-DD")
		}
		filters.FromDate = d
	}
	if s := strings.TrimSpace(req.ToDate); s != "" {
		d, err := timeutil.ParseDate(s, e.location)
		if err != nil {
			return filters, pkgerrors.Validation("to", "To date must be YYYY-MM-DD")
		}
		filters.ToDate = d
	}
	if !filters.FromDate.IsZero() && !filters.ToDate.IsZero() && filters.ToDate.Before(filters.FromDate) {
		return filters, pkgerrors.Validation("to", "To date cannot be before from date")
	}
	return filters, nil
}

func (e *Exporter) toRow(o *models.Order) *OrderRow {
	lines := make([]string, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, fmt.Sprintf("%s x%d", item.ItemName, item.Quantity))
	}
	creator := ""
	if o.Creator != nil {
		creator = o.Creator.Name
	}
	return &OrderRow{
		OrderNumber:  o.OrderNumber,
		CustomerName: o.CustomerName,
		Phone:        o.Phone,
		Address:      o.Address,
		EventDate:    timeutil.FormatDate(o.EventDate),
		ReturnDate:   timeutil.FormatDate(o.ReturnDate),
		Status:       string(o.Status),
		Items:        strings.Join(lines, "; "),
		TotalAmount:  o.TotalAmount.StringFixed(2),
		PaidAmount:   o.PaidAmount.StringFixed(2),
		Balance:      o.TotalAmount.Sub(o.PaidAmount).StringFixed(2),
		CreatedBy:    creator,
		CreatedAt:    o.CreatedAt.In(e.location).Format(time.RFC3339),
	}
}
