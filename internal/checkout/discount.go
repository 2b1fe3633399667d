package checkout

import (
	"errors"
	"regexp"
	"strings"

	"github.com/ashendes/pos-terminal/internal/modal"
	"github.com/shopspring/decimal"
)

var (
	ErrDiscountType  = errors.New("discount type is required")
	ErrDiscountID    = errors.New("discount id must be 4 to 6 digits")
	ErrDiscountValue = errors.New("discount value must be a non-negative number")
)

var (
	idNumberPattern   = regexp.MustCompile(`^\d{4,6}$`)
	statutoryRate     = decimal.RequireFromString("0.20")
	hundred           = decimal.NewFromInt(100)
	discountResponses = map[error]string{
		ErrDiscountType:  "Please select a discount type",
		ErrDiscountID:    "Please enter a valid 4-6 digit ID number",
		ErrDiscountValue: "Please enter a valid discount value",
	}
)

// DiscountAmount resolves a discount form to a peso amount.
//
// Senior and PWD discounts are 20% of the subtotal whatever value was
// entered and need an ID number. Special discounts read the value as a
// percentage (0-100) or as a fixed amount; a percentage above 100 is
// taken as a fixed amount instead. Fixed amounts never exceed the subtotal.
func DiscountAmount(form modal.Discount, subtotal decimal.Decimal) (decimal.Decimal, error) {
	switch form.Type {
	case modal.DiscountSenior, modal.DiscountPWD:
		if !idNumberPattern.MatchString(strings.TrimSpace(form.IDNumber)) {
			return decimal.Zero, ErrDiscountID
		}
		return subtotal.Mul(statutoryRate).Round(2), nil

	case modal.DiscountSpecial:
		value, err := decimal.NewFromString(strings.TrimSpace(form.Value))
		if err != nil || value.IsNegative() {
			return decimal.Zero, ErrDiscountValue
		}
		if form.Method == modal.MethodPercentage && value.LessThanOrEqual(hundred) {
			return subtotal.Mul(value).Div(hundred).Round(2), nil
		}
		return decimal.Min(value, subtotal), nil

	default:
		return decimal.Zero, ErrDiscountType
	}
}

// CanApply reports whether the form resolves to an amount
func CanApply(form modal.Discount, subtotal decimal.Decimal) bool {
	_, err := DiscountAmount(form, subtotal)
	return err == nil
}
