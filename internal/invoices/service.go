package invoices

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/meetpatel1235/rrrr/internal/identifiers"
	"github.com/meetpatel1235/rrrr/internal/ledger"
	"github.com/meetpatel1235/rrrr/pkg/db"
	"github.com/meetpatel1235/rrrr/pkg/db/models"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	pkgerrors "github.com/meetpatel1235/rrrr/pkg/errors"
	"github.com/meetpatel1235/rrrr/pkg/logger"
	"github.com/meetpatel1235/rrrr/pkg/pagination"
	"github.com/meetpatel1235/rrrr/pkg/timeutil"
)

const DefaultDueDays = 7

// Service derives invoices from completed orders and tracks what was paid.
type Service interface {
	CreateInvoice(ctx context.Context, actor uuid.UUID, req CreateInvoiceRequest) (*InvoiceDTO, error)
	ListInvoices(ctx context.Context, params pagination.Params, filters ListFilters) (*InvoiceList, error)
	GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error)
	UpdateInvoice(ctx context.Context, actor uuid.UUID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceDTO, error)
	RecordPayment(ctx context.Context, actor uuid.UUID, id uuid.UUID, req RecordPaymentRequest) (*InvoiceDTO, error)
	ListPayments(ctx context.Context, id uuid.UUID) ([]PaymentDTO, error)
	RenderPDF(ctx context.Context, id uuid.UUID) (*Document, error)
}

// BillingObserver is notified after committed billing changes.
type BillingObserver interface {
	InvoiceCreated()
	PaymentCollected(amount decimal.Decimal)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// ServiceParams wires the invoice service.
type ServiceParams struct {
	Repo           Repository
	Ledger         ledger.Service
	Tx             txRunner
	Logger         *logger.Logger
	Metrics        BillingObserver
	Location       *time.Location
	Now            func() time.Time
	DefaultDueDays int
	Business       Business
}

type service struct {
	repo     Repository
	ledger   ledger.Service
	tx       txRunner
	logg     *logger.Logger
	metrics  BillingObserver
	loc      *time.Location
	now      func() time.Time
	dueDays  int
	business Business
}

// NewService builds the invoice service with the required dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Repo == nil {
		return nil, fmt.Errorf("invoices repository required")
	}
	if params.Ledger == nil {
		return nil, fmt.Errorf("ledger service required")
	}
	if params.Tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	svc := &service{
		repo:     params.Repo,
		ledger:   params.Ledger,
		tx:       params.Tx,
		logg:     params.Logger,
		metrics:  params.Metrics,
		loc:      params.Location,
		now:      params.Now,
		dueDays:  params.DefaultDueDays,
		business: params.Business,
	}
	if svc.metrics == nil {
		svc.metrics = noopObserver{}
	}
	if svc.loc == nil {
		svc.loc = timeutil.IST
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	if svc.dueDays <= 0 {
		svc.dueDays = DefaultDueDays
	}
	return svc, nil
}

func (s *service) CreateInvoice(ctx context.Context, actor uuid.UUID, req CreateInvoiceRequest) (*InvoiceDTO, error) {
	if actor == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if req.OrderID == uuid.Nil {
		return nil, pkgerrors.Validation("order", "Order is required")
	}
	requested, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}

	issued := timeutil.DateOf(s.now(), s.loc)
	due := timeutil.AddDays(issued, s.dueDays)
	if req.DueDate != nil && strings.TrimSpace(*req.DueDate) != "" {
		due, err = timeutil.ParseDate(*req.DueDate, s.loc)
		if err != nil {
			return nil, pkgerrors.Validation("dueDate", "Due date must be YYYY-MM-DD")
		}
		if due.Before(issued) {
			return nil, pkgerrors.Validation("dueDate", "Due date cannot be before the issue date")
		}
	}

	var invoiceID uuid.UUID
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindOrder(ctx, req.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.Status != enums.OrderStatusCompleted {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "only completed orders can be invoiced").
				WithDetails(map[string]any{"status": order.Status})
		}
		exists, err := repo.ExistsForOrder(ctx, order.ID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check existing invoice")
		}
		if exists {
			return pkgerrors.New(pkgerrors.CodeConflict, "order already has an invoice")
		}

		status := DerivePaymentStatus(order.PaidAmount, order.TotalAmount)
		if requested != nil && *requested != status {
			return statusMismatch(*requested, status)
		}

		invoice := &models.Invoice{
			OrderID:    order.ID,
			IssuedDate: issued,
			DueDate:    due,
			Status:     status,
			PaidAmount: order.PaidAmount,
			CreatedBy:  actor,
		}
		_, err = identifiers.Allocate(ctx, tx, identifiers.Invoices, func(number string) error {
			invoice.InvoiceNumber = number
			return repo.Create(ctx, invoice)
		})
		if err != nil {
			if db.IsUniqueViolation(err, "invoices_order_id_key", "order_id") {
				return pkgerrors.New(pkgerrors.CodeConflict, "order already has an invoice")
			}
			if pkgerrors.As(err) != nil {
				return err
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create invoice")
		}
		invoiceID = invoice.ID
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.InvoiceCreated()
	s.logg.Info(s.logg.WithOrderID(ctx, req.OrderID.String()), "invoice created")
	return s.GetInvoice(ctx, invoiceID)
}

func (s *service) ListInvoices(ctx context.Context, params pagination.Params, filters ListFilters) (*InvoiceList, error) {
	if filters.Status != nil && !filters.Status.IsValid() {
		return nil, pkgerrors.Validation("status", "invalid invoice status")
	}
	if err := params.Validate(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
	}
	rows, err := s.repo.List(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list invoices")
	}
	list := pagination.Build(rows, params, invoiceKey, FromModel)
	return &list, nil
}

func (s *service) GetInvoice(ctx context.Context, id uuid.UUID) (*InvoiceDTO, error) {
	invoice, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	dto := FromModel(*invoice)
	return &dto, nil
}

// RecordPayment adds amount to what was received. Payments beyond the order
// total are rejected.
func (s *service) RecordPayment(ctx context.Context, actor uuid.UUID, id uuid.UUID, req RecordPaymentRequest) (*InvoiceDTO, error) {
	if actor == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	amount := req.Amount.Round(2)
	if !amount.IsPositive() {
		return nil, pkgerrors.Validation("amount", "Amount must be greater than 0")
	}
	method, err := parseMethod(req.Method)
	if err != nil {
		return nil, err
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invoice, err := s.loadLocked(ctx, repo, id)
		if err != nil {
			return err
		}
		total := invoice.Order.TotalAmount
		newPaid := invoice.PaidAmount.Add(amount)
		if newPaid.GreaterThan(total) {
			return pkgerrors.New(pkgerrors.CodeValidation, "Payment exceeds the outstanding balance").
				WithDetails(pkgerrors.FieldErrors{"amount": "maximum is " + total.Sub(invoice.PaidAmount).StringFixed(2)})
		}
		if err := s.applyPaid(ctx, repo, invoice, newPaid); err != nil {
			return err
		}
		_, err = s.ledger.RecordEvent(ctx, tx, ledger.RecordPaymentEventInput{
			InvoiceID:  invoice.ID,
			OrderID:    invoice.OrderID,
			RecordedBy: actor,
			Type:       enums.PaymentEventTypePayment,
			Amount:     amount,
			Method:     method,
			Note:       req.Note,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record payment event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.PaymentCollected(amount)
	return s.GetInvoice(ctx, id)
}

// UpdateInvoice sets the absolute paid amount and/or the due date. The status
// is always derived; an explicit status must agree with it. A status alone
// settles the invoice fully (paid) or clears it (unpaid).
func (s *service) UpdateInvoice(ctx context.Context, actor uuid.UUID, id uuid.UUID, req UpdateInvoiceRequest) (*InvoiceDTO, error) {
	if actor == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	requested, err := parseStatus(req.Status)
	if err != nil {
		return nil, err
	}
	if requested == nil && req.PaidAmount == nil && req.DueDate == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "nothing to update")
	}
	var due *time.Time
	if req.DueDate != nil {
		d, err := timeutil.ParseDate(*req.DueDate, s.loc)
		if err != nil {
			return nil, pkgerrors.Validation("dueDate", "Due date must be YYYY-MM-DD")
		}
		due = &d
	}

	var delta decimal.Decimal
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		invoice, err := s.loadLocked(ctx, repo, id)
		if err != nil {
			return err
		}
		total := invoice.Order.TotalAmount

		if due != nil {
			if due.Before(invoice.IssuedDate) {
				return pkgerrors.Validation("dueDate", "Due date cannot be before the issue date")
			}
			if err := repo.UpdateDueDate(ctx, invoice.ID, *due); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update due date")
			}
		}

		newPaid := invoice.PaidAmount
		switch {
		case req.PaidAmount != nil:
			newPaid = req.PaidAmount.Round(2)
			if newPaid.IsNegative() || newPaid.GreaterThan(total) {
				return pkgerrors.Validation("paidAmount", "Paid amount must be between 0 and "+total.StringFixed(2))
			}
		case requested != nil && *requested == enums.InvoiceStatusPaid:
			newPaid = total
		case requested != nil && *requested == enums.InvoiceStatusUnpaid:
			newPaid = decimal.Zero
		case requested != nil && *requested == enums.InvoiceStatusPartial:
			return pkgerrors.Validation("paidAmount", "Paid amount is required for a partial payment")
		}

		derived := DerivePaymentStatus(newPaid, total)
		if requested != nil && *requested != derived {
			return statusMismatch(*requested, derived)
		}

		delta = newPaid.Sub(invoice.PaidAmount)
		if delta.IsZero() {
			return nil
		}
		if err := s.applyPaid(ctx, repo, invoice, newPaid); err != nil {
			return err
		}
		_, err = s.ledger.RecordEvent(ctx, tx, ledger.RecordPaymentEventInput{
			InvoiceID:  invoice.ID,
			OrderID:    invoice.OrderID,
			RecordedBy: actor,
			Type:       enums.PaymentEventTypeAdjustment,
			Amount:     delta,
			Note:       req.Note,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record adjustment event")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if !delta.IsZero() {
		s.metrics.PaymentCollected(delta)
		s.logg.Info(s.logg.WithField(ctx, "invoice_id", id.String()), "invoice paid amount adjusted by "+delta.StringFixed(2))
	}
	return s.GetInvoice(ctx, id)
}

func (s *service) ListPayments(ctx context.Context, id uuid.UUID) ([]PaymentDTO, error) {
	if _, err := s.load(ctx, s.repo, id); err != nil {
		return nil, err
	}
	events, err := s.ledger.ListEvents(ctx, id)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	out := make([]PaymentDTO, 0, len(events))
	for _, event := range events {
		out = append(out, paymentFromModel(event))
	}
	return out, nil
}

// applyPaid keeps the invoice and its order in agreement. The write only
// lands while paid_amount still holds the value the caller read.
func (s *service) applyPaid(ctx context.Context, repo Repository, invoice *models.Invoice, paid decimal.Decimal) error {
	status := DerivePaymentStatus(paid, invoice.Order.TotalAmount)
	ok, err := repo.UpdatePayment(ctx, invoice.ID, invoice.PaidAmount, paid, status)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update invoice payment")
	}
	if !ok {
		return pkgerrors.New(pkgerrors.CodeConflict, "invoice was changed by another request, retry")
	}
	if err := repo.UpdateOrderPaid(ctx, invoice.OrderID, paid); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order payment")
	}
	return nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Invoice, error) {
	return s.loadWith(ctx, repo.FindByID, id)
}

func (s *service) loadLocked(ctx context.Context, repo Repository, id uuid.UUID) (*models.Invoice, error) {
	return s.loadWith(ctx, repo.FindByIDForUpdate, id)
}

func (s *service) loadWith(ctx context.Context, find func(context.Context, uuid.UUID) (*models.Invoice, error), id uuid.UUID) (*models.Invoice, error) {
	invoice, err := find(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "invoice not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load invoice")
	}
	if invoice.Order == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "invoice order missing")
	}
	return invoice, nil
}

func parseStatus(raw *string) (*enums.InvoiceStatus, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	status, err := enums.ParseInvoiceStatus(strings.TrimSpace(*raw))
	if err != nil {
		return nil, pkgerrors.Validation("status", "Status must be one of unpaid, partial, paid")
	}
	return &status, nil
}

func parseMethod(raw *string) (*enums.PaymentMethod, error) {
	if raw == nil || strings.TrimSpace(*raw) == "" {
		return nil, nil
	}
	method, err := enums.ParsePaymentMethod(*raw)
	if err != nil {
		names := make([]string, 0, 4)
		for _, m := range enums.PaymentMethods() {
			names = append(names, m.String())
		}
		return nil, pkgerrors.Validation("method", "Method must be one of "+strings.Join(names, ", "))
	}
	return &method, nil
}

func statusMismatch(requested, derived enums.InvoiceStatus) error {
	return pkgerrors.Newf(pkgerrors.CodeValidation, "status %s does not match the paid amount", requested).
		WithDetails(pkgerrors.FieldErrors{"status": "expected " + derived.String()})
}

type noopObserver struct{}

func (noopObserver) InvoiceCreated()                  {}
func (noopObserver) PaymentCollected(decimal.Decimal) {}
