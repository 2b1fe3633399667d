package models

import "github.com/shopspring/decimal"

// PaymentMethod is the operator-selected tender label
type PaymentMethod string

// PaymentMethod constants
const (
	PaymentMethodCash  PaymentMethod = "cash"
	PaymentMethodGcash PaymentMethod = "gcash"
)

// Valid reports whether m is a supported payment method
func (m PaymentMethod) Valid() bool {
	return m == PaymentMethodCash || m == PaymentMethodGcash
}

// Payment holds the fields sent with a completed order
type Payment struct {
	Method         PaymentMethod       `json:"method"`
	Reference      string              `json:"reference,omitempty"`
	AmountReceived decimal.NullDecimal `json:"amount_received"`
	Change         decimal.NullDecimal `json:"change"`
	ReceiptEmail   string              `json:"receipt_email,omitempty"`
}

// CashPayment builds a cash payment for amount received against total.
func CashPayment(received, change decimal.Decimal) Payment {
	return Payment{
		Method:         PaymentMethodCash,
		Reference:      "₱" + received.StringFixed(2) + " received",
		AmountReceived: decimal.NewNullDecimal(received),
		Change:         decimal.NewNullDecimal(change),
	}
}

// GcashPayment builds an e-wallet payment with the operator-entered reference.
func GcashPayment(reference string) Payment {
	return Payment{
		Method:    PaymentMethodGcash,
		Reference: reference,
	}
}
