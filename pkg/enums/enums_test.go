package enums

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderStatusTransitions(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		allowed  bool
	}{
		{OrderStatusUpcoming, OrderStatusPending, true},
		{OrderStatusUpcoming, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusCompleted, true},
		{OrderStatusPending, OrderStatusUpcoming, false},
		{OrderStatusCompleted, OrderStatusPending, false},
		{OrderStatusCompleted, OrderStatusUpcoming, false},
		{OrderStatusPending, OrderStatusPending, false},
		{OrderStatusUpcoming, OrderStatus("cancelled"), false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
	assert.True(t, OrderStatusCompleted.IsTerminal())
	assert.False(t, OrderStatusPending.IsTerminal())
}

func TestParseOrderStatus(t *testing.T) {
	got, err := ParseOrderStatus("pending")
	require.NoError(t, err)
	assert.Equal(t, OrderStatusPending, got)

	_, err = ParseOrderStatus("Pending")
	assert.EqualError(t, err, `invalid order status "Pending"`)
}

func TestParseRoleAndInvoiceStatus(t *testing.T) {
	role, err := ParseUserRole("worker")
	require.NoError(t, err)
	assert.True(t, role.IsValid())
	_, err = ParseUserRole("owner")
	assert.Error(t, err)

	status, err := ParseInvoiceStatus("partial")
	require.NoError(t, err)
	assert.Equal(t, InvoiceStatusPartial, status)
	assert.False(t, InvoiceStatus("overdue").IsValid())

	method, err := ParsePaymentMethod("upi")
	require.NoError(t, err)
	assert.Equal(t, PaymentMethodUPI, method)
}

func TestParsePaymentMethodLenient(t *testing.T) {
	for _, raw := range []string{"bank_transfer", "Bank Transfer", "BANK-TRANSFER", " bank transfer "} {
		method, err := ParsePaymentMethod(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, PaymentMethodBankTransfer, method, raw)
	}
	_, err := ParsePaymentMethod("card")
	assert.Error(t, err)

	assert.Equal(t, "UPI", PaymentMethodUPI.Label())
	assert.Equal(t, "card", PaymentMethod("card").Label())
	assert.Len(t, PaymentMethods(), 4)
}
