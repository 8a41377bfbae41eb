package orders

import (
	"net/http"
	"strings"

	"github.com/meetpatel1235/rrrr/api/middleware"
	"github.com/meetpatel1235/rrrr/api/responses"
	"github.com/meetpatel1235/rrrr/api/validators"
	internalorders "github.com/meetpatel1235/rrrr/internal/orders"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

const statusHint = "Status must be upcoming, pending or completed"

func guarded(svc internalorders.Service, logg *logger.Logger, h responses.Handler) http.HandlerFunc {
	if svc == nil {
		return responses.Handle(logg, responses.Unavailable("orders"))
	}
	return responses.Handle(logg, h)
}

// Create books a new rental order for the authenticated user.
func Create(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		actor, err := middleware.ActorID(r.Context())
		if err != nil {
			return err
		}
		var body internalorders.CreateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		body.CustomerName = validators.SanitizeString(body.CustomerName, 120)
		body.Phone = validators.SanitizeString(body.Phone, 20)
		body.Address = validators.SanitizeString(body.Address, 500)
		validators.SanitizeOptional(body.Notes, 1000)

		order, err := svc.CreateOrder(r.Context(), internalorders.CreateOrderInput{Request: body, CreatedBy: actor})
		if err != nil {
			return err
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, order)
		return nil
	})
}

// List returns a cursor page of orders, newest first. ?q= matches the
// customer name, phone or order number.
func List(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		params, err := validators.PageParams(r)
		if err != nil {
			return err
		}
		status, err := validators.QueryEnum(r, "status", enums.ParseOrderStatus, statusHint)
		if err != nil {
			return err
		}
		filters := internalorders.ListFilters{
			Status: status,
			Search: validators.SanitizeString(r.URL.Query().Get("q"), 120),
		}

		list, err := svc.ListOrders(r.Context(), params, filters)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, list)
		return nil
	})
}

func Detail(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		orderID, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		order, err := svc.GetOrder(r.Context(), orderID)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, order)
		return nil
	})
}

// Update edits customer details, dates or notes of an open order.
func Update(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		orderID, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		var body internalorders.UpdateOrderRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		validators.SanitizeOptional(body.CustomerName, 120)
		validators.SanitizeOptional(body.Phone, 20)
		validators.SanitizeOptional(body.Address, 500)
		validators.SanitizeOptional(body.Notes, 1000)

		order, err := svc.UpdateOrder(r.Context(), orderID, body)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, order)
		return nil
	})
}

// UpdateStatus moves an order along upcoming -> pending -> completed.
func UpdateStatus(svc internalorders.Service, logg *logger.Logger) http.HandlerFunc {
	return guarded(svc, logg, func(w http.ResponseWriter, r *http.Request) error {
		orderID, err := validators.PathUUID(r, "id")
		if err != nil {
			return err
		}
		var body internalorders.UpdateStatusRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			return err
		}
		status, err := enums.ParseOrderStatus(strings.ToLower(strings.TrimSpace(body.Status)))
		if err != nil {
			return pkgerrors.Validation("status", statusHint)
		}

		order, err := svc.UpdateStatus(r.Context(), orderID, status)
		if err != nil {
			return err
		}
		responses.WriteSuccess(w, order)
		return nil
	})
}
