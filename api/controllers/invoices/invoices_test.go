package invoices

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meetpatel1235/rrrr/api/middleware"
	internalinvoices "github.com/meetpatel1235/rrrr/internal/invoices"
	"github.com/meetpatel1235/rrrr/pkg/enums"
	"github.com/meetpatel1235/rrrr/pkg/logger"
)

type stubInvoicesService struct {
	internalinvoices.Service
	payment *internalinvoices.RecordPaymentRequest
}

func (s *stubInvoicesService) RecordPayment(ctx context.Context, actor uuid.UUID, id uuid.UUID, req internalinvoices.RecordPaymentRequest) (*internalinvoices.InvoiceDTO, error) {
	s.payment = &req
	return &internalinvoices.InvoiceDTO{ID: id, Status: enums.InvoiceStatusPartial}, nil
}

func paymentRequest(t *testing.T, body string) *http.Request {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/invoices/x/payments", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", uuid.NewString())
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
	ctx = middleware.WithPrincipal(ctx, middleware.Principal{UserID: uuid.New(), Role: enums.UserRoleAdmin})
	return req.WithContext(ctx)
}

func TestRecordPaymentAcceptsLooseMethodSpelling(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test-invoices", Output: io.Discard})

	for _, method := range []string{"UPI", "Bank Transfer", "bank-transfer", "Cash", "cheque"} {
		svc := &stubInvoicesService{}
		resp := httptest.NewRecorder()

		RecordPayment(svc, logg).ServeHTTP(resp, paymentRequest(t, `{"amount":"10","method":"`+method+`"}`))

		require.Equal(t, http.StatusCreated, resp.Code, "%s: %s", method, resp.Body.String())
		require.NotNil(t, svc.payment)
		require.NotNil(t, svc.payment.Method)
		assert.Equal(t, method, *svc.payment.Method)
	}
}

func TestRecordPaymentRejectsUnknownFields(t *testing.T) {
	logg := logger.New(logger.Options{ServiceName: "test-invoices", Output: io.Discard})
	svc := &stubInvoicesService{}
	resp := httptest.NewRecorder()

	RecordPayment(svc, logg).ServeHTTP(resp, paymentRequest(t, `{"amount":"10","mode":"cash"}`))

	assert.Equal(t, http.StatusBadRequest, resp.Code)
	assert.Nil(t, svc.payment)
}
