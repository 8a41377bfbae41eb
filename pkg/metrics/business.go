package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// BusinessMetrics tracks order, stock and payment activity.
type BusinessMetrics struct {
	ordersCreated     prometheus.Counter
	statusChanges     *prometheus.CounterVec
	stockRejections   prometheus.Counter
	invoicesCreated   prometheus.Counter
	paymentsCollected prometheus.Counter
}

// NewBusinessMetrics registers the business counters on the provided registerer.
func NewBusinessMetrics(reg prometheus.Registerer) *BusinessMetrics {
	if reg == nil {
		return &BusinessMetrics{}
	}
	m := &BusinessMetrics{
		ordersCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rasoi_orders_created_total",
			Help: "Rental orders booked.",
		}),
		statusChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rasoi_order_status_changes_total",
			Help: "Order status transitions by target status.",
		}, []string{"status"}),
		stockRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rasoi_stock_reservations_rejected_total",
			Help: "Order lines rejected for insufficient stock.",
		}),
		invoicesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rasoi_invoices_created_total",
			Help: "Invoices issued.",
		}),
		paymentsCollected: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "rasoi_payments_collected_rupees_total",
			Help: "Sum of payments recorded against invoices.",
		}),
	}
	reg.MustRegister(m.ordersCreated, m.statusChanges, m.stockRejections, m.invoicesCreated, m.paymentsCollected)
	return m
}

func (m *BusinessMetrics) OrderCreated() {
	if m == nil || m.ordersCreated == nil {
		return
	}
	m.ordersCreated.Inc()
}

func (m *BusinessMetrics) OrderStatusChanged(status string) {
	if m == nil || m.statusChanges == nil {
		return
	}
	m.statusChanges.WithLabelValues(normalizeLabel(status)).Inc()
}

func (m *BusinessMetrics) StockRejected() {
	if m == nil || m.stockRejections == nil {
		return
	}
	m.stockRejections.Inc()
}

func (m *BusinessMetrics) InvoiceCreated() {
	if m == nil || m.invoicesCreated == nil {
		return
	}
	m.invoicesCreated.Inc()
}

// PaymentCollected adds a positive amount; corrections are not subtracted.
func (m *BusinessMetrics) PaymentCollected(amount decimal.Decimal) {
	if m == nil || m.paymentsCollected == nil || !amount.IsPositive() {
		return
	}
	m.paymentsCollected.Add(amount.InexactFloat64())
}
