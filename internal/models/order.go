package models

import (
	"github.com/shopspring/decimal"
)

// OrderItem represents a line in an order
type OrderItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
	Category string          `json:"category,omitempty"`
}

// Order represents the cashier's order. ID is zero until the order service assigns one.
type Order struct {
	ID        int64           `json:"id,omitempty"`
	Customer  string          `json:"customer"`
	Type      string          `json:"type"`
	Items     []OrderItem     `json:"items"`
	Subtotal  decimal.Decimal `json:"subtotal"`
	Discount  decimal.Decimal `json:"discount"`
	VAT       decimal.Decimal `json:"vat"`
	Total     decimal.Decimal `json:"total"`
	Notes     string          `json:"notes,omitempty"`
	HeldAt    string          `json:"held_at,omitempty"`
	Status    OrderStatus     `json:"order_status,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
}

// OrderStatus is the server-side lifecycle state of an order
type OrderStatus string

// OrderStatus constants
const (
	OrderStatusHeld      OrderStatus = "held"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Order defaults
const (
	DefaultCustomer  = "Walk-in Customer"
	OrderTypeDining  = "Dining"
	OrderTypeTakeout = "Takeout"
)

// VATRate is applied to the subtotal before the discount is subtracted.
var VATRate = decimal.RequireFromString("0.12")

// NewOrder returns the empty order a terminal starts with.
func NewOrder() Order {
	return Order{
		Customer: DefaultCustomer,
		Type:     OrderTypeDining,
		Items:    []OrderItem{},
		Subtotal: decimal.Zero,
		Discount: decimal.Zero,
		VAT:      decimal.Zero,
		Total:    decimal.Zero,
	}
}

// IsEmpty reports whether the order has no lines
func (o Order) IsEmpty() bool {
	return len(o.Items) == 0
}

// Recalculate derives line totals, subtotal, VAT and total from the items and discount.
func (o *Order) Recalculate() {
	subtotal := decimal.Zero
	for i := range o.Items {
		o.Items[i].Total = o.Items[i].Price.Mul(decimal.NewFromInt(int64(o.Items[i].Quantity)))
		subtotal = subtotal.Add(o.Items[i].Total)
	}
	o.Subtotal = subtotal
	o.VAT = subtotal.Mul(VATRate)
	o.recalculateTotal()
}

// SetDiscount replaces the discount and recomputes the total only.
func (o *Order) SetDiscount(amount decimal.Decimal) {
	o.Discount = amount
	o.recalculateTotal()
}

func (o *Order) recalculateTotal() {
	total := o.Subtotal.Add(o.VAT).Sub(o.Discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.Total = total
}

// FindItem returns the index of the line with the given id, or -1
func (o Order) FindItem(id string) int {
	for i, item := range o.Items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

// FindItemByName returns the index of the line with the given name, or -1
func (o Order) FindItemByName(name string) int {
	for i, item := range o.Items {
		if item.Name == name {
			return i
		}
	}
	return -1
}

// Clone returns a copy that shares no slices with o.
func (o Order) Clone() Order {
	items := make([]OrderItem, len(o.Items))
	copy(items, o.Items)
	o.Items = items
	return o
}

// CompletedSale is the snapshot carried from payment to receipt delivery.
type CompletedSale struct {
	Order         Order   `json:"order"`
	Payment       Payment `json:"payment"`
	DisplayNumber string  `json:"display_number"`
}
