package enums

import "fmt"

// PaymentEventType maps to the payment_event_type enum in Postgres.
type PaymentEventType string

const (
	PaymentEventTypePayment    PaymentEventType = "payment"
	PaymentEventTypeAdjustment PaymentEventType = "adjustment"
)

var validPaymentEventTypes = []PaymentEventType{
	PaymentEventTypePayment,
	PaymentEventTypeAdjustment,
}

// IsValid reports whether the value matches the payment event enum.
func (t PaymentEventType) IsValid() bool {
	for _, candidate := range validPaymentEventTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParsePaymentEventType converts raw input into PaymentEventType.
func ParsePaymentEventType(value string) (PaymentEventType, error) {
	for _, candidate := range validPaymentEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment event type %q", value)
}
