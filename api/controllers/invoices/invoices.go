package invoices

import (
	"net/http"
	"strconv"

	"github.com/meetpatel1235/rrrr/api/middleware"
	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/api/validators"
	internalinvoices "github.com/meetpatel1235/rrrr/internal/invoices"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

func guarded(svc internalinvoices.Service, logg *logger.Logger, h responses.Handler) http.HandlerFunc {
	if svc == nil {
		return responses.Handle(logg, responses.Unavailable("invoices"))
	}
	return responses.Handle(logg, h)
}

// Create issues the invoice for an order.
func Create(svc internalinvoices.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		actor, err := middleware.ActorID(r.Context())
		if err != nil {
			return err
		}
		var body internalinvoices.CreateInvoiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		invoice, err := svc.CreateInvoice(r.Context(), actor, body)
		if err != nil {
			return err
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
		return nil
	})
}

func List(svc internalinvoices.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		params, err := validators.PageParams(r)
		if err != nil {
			return err
		}
		status, err := validators.QueryEnum(r, "status", enums.ParseInvoiceStatus, "Status must be unpaid, partial or paid")
		if err != nil {
			return err
		}
		list, err := svc.ListInvoices(r.Context(), params, internalinvoices.ListFilters{Status: status})
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, list)
		return nil
	})
}

func Detail(svc internalinvoices.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		invoice, err := svc.GetInvoice(r.Context(), id)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, invoice)
		return nil
	})
}

// Update applies status, paid amount or due date changes. paidAmount here is
// the new total received, not an increment.
func Update(svc internalinvoices.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		actor, err := middleware.ActorID(r.Context())
		if err != nil {
			return err
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		var body internalinvoices.UpdateInvoiceRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		invoice, err := svc.UpdateInvoice(r.Context(), actor, id, body)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, invoice)
		return nil
	})
}

// RecordPayment adds an incremental payment against the invoice balance.
func RecordPayment(svc internalinvoices.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		actor, err := middleware.ActorID(r.Context())
		if err != nil {
			return err
		}
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		var body internalinvoices.RecordPaymentRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		invoice, err := svc.RecordPayment(r.Context(), actor, id, body)
		if err != nil {
			return err
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, invoice)
		return nil
	})
}

func Payments(svc internalinvoices.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		payments, err := svc.ListPayments(r.Context(), id)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, payments)
		return nil
	})
}

// PDF streams the printable invoice.
func PDF(svc internalinvoices.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		id, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		doc, err := svc.RenderPDF(r.Context(), id)
		if err != nil {
			return err
		}

		h := w.Header()
		h.Set("Content-Type", "application/pdf")
		h.Set("Content-Disposition", `inline; filename="`+doc.Filename+`"`)
		h.Set("Content-Length", strconv.Itoa(len(doc.Content)))
		if _, err := w.Write(doc.Content); err != nil && logg != nil {
			logg.Warn(logg.WithField(r.Context(), "error", err.Error()), "invoice.pdf.write_failed")
		}
		return nil
	})
}
