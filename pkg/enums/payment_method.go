package enums

import (
	"fmt"
	"strings"
)

// PaymentMethod records how a customer settled (part of) an invoice.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodUPI          PaymentMethod = "upi"
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCheque       PaymentMethod = "cheque"
)

// printed on invoices and receipts
var paymentMethodLabels = map[PaymentMethod]string{
	PaymentMethodCash:         "Cash",
	PaymentMethodUPI:          "UPI",
	PaymentMethodBankTransfer: "Bank transfer",
	PaymentMethodCheque:       "Cheque",
}

// PaymentMethods lists the accepted values in display order.
func PaymentMethods() []PaymentMethod {
	return []PaymentMethod{PaymentMethodCash, PaymentMethodUPI, PaymentMethodBankTransfer, PaymentMethodCheque}
}

func (p PaymentMethod) String() string {
	return string(p)
}

func (p PaymentMethod) IsValid() bool {
	_, ok := paymentMethodLabels[p]
	return ok
}

// Label is the human form, falling back to the raw value for unknown input.
func (p PaymentMethod) Label() string {
	if label, ok := paymentMethodLabels[p]; ok {
		return label
	}
	return string(p)
}

// ParsePaymentMethod accepts the canonical value in any case, with spaces
// or dashes in place of the underscore ("Bank Transfer" is bank_transfer).
func ParsePaymentMethod(value string) (PaymentMethod, error) {
	normalized := strings.NewReplacer(" ", "_", "-", "_").Replace(strings.ToLower(strings.TrimSpace(value)))
	if method := PaymentMethod(normalized); method.IsValid() {
		return method, nil
	}
	return "", fmt.Errorf("invalid payment method %q", value)
}
