package invoices

import (
	"github.com/shopspring/decimal"

	"github.com/meetpatel1235/rrrr/pkg/enums"
)

// DerivePaymentStatus computes the invoice status from the amount received.
// An order with nothing to pay is considered paid.
func DerivePaymentStatus(paid, total decimal.Decimal) enums.InvoiceStatus {
	switch {
	case paid.GreaterThanOrEqual(total):
		return enums.InvoiceStatusPaid
	case paid.IsPositive():
		return enums.InvoiceStatusPartial
	default:
		return enums.InvoiceStatusUnpaid
	}
}
