package models

import (
	"strconv"

	"github.com/shopspring/decimal"
)

// OrderItemPayload is an order line as the order service sends and receives it
type OrderItemPayload struct {
	OrderItemID int64   `json:"order_item_id,omitempty"`
	ItemName    string  `json:"item_name" binding:"required"`
	UnitPrice   float64 `json:"unit_price"`
	Quantity    int     `json:"quantity" binding:"required,gt=0"`
	TotalPrice  float64 `json:"total_price"`
	Category    string  `json:"category,omitempty"`
}

// CreateOrderRequest represents the request to create a new order
type CreateOrderRequest struct {
	CustomerName     string             `json:"customer_name"`
	OrderType        string             `json:"order_type"`
	OrderStatus      OrderStatus        `json:"order_status" binding:"required"`
	CustomerNotes    string             `json:"customer_notes"`
	Subtotal         float64            `json:"subtotal"`
	Discount         float64            `json:"discount"`
	VAT              float64            `json:"vat"`
	TotalAmount      float64            `json:"total_amount"`
	OrderItems       []OrderItemPayload `json:"order_items" binding:"required,dive"`
	PaymentMethod    string             `json:"payment_method,omitempty"`
	PaymentReference string             `json:"payment_reference,omitempty"`
	AmountReceived   *float64           `json:"amount_received,omitempty"`
	ChangeAmount     *float64           `json:"change_amount,omitempty"`
	ReceiptEmail     string             `json:"receipt_email,omitempty"`
}

// CreateOrderResponse represents the response after creating an order
type CreateOrderResponse struct {
	OrderID int64 `json:"order_id"`
}

// OrderRecord is an order as listed by the order service
type OrderRecord struct {
	OrderID          int64              `json:"order_id"`
	CustomerName     string             `json:"customer_name"`
	OrderType        string             `json:"order_type"`
	OrderItems       []OrderItemPayload `json:"order_items"`
	Subtotal         float64            `json:"subtotal"`
	Discount         float64            `json:"discount"`
	VAT              float64            `json:"vat"`
	TotalAmount      float64            `json:"total_amount"`
	CustomerNotes    string             `json:"customer_notes"`
	CreatedAt        string             `json:"created_at"`
	OrderStatus      OrderStatus        `json:"order_status"`
	PaymentMethod    string             `json:"payment_method,omitempty"`
	PaymentReference string             `json:"payment_reference,omitempty"`
	AmountReceived   *float64           `json:"amount_received,omitempty"`
	ChangeAmount     *float64           `json:"change_amount,omitempty"`
	ReceiptEmail     string             `json:"receipt_email,omitempty"`
}

// StatusUpdateRequest represents a request to change an order's status
type StatusUpdateRequest struct {
	OrderStatus OrderStatus `json:"order_status" binding:"required"`
}

// StatusUpdateResponse represents the response after a status change
type StatusUpdateResponse struct {
	OrderID     int64       `json:"order_id"`
	OrderStatus OrderStatus `json:"order_status"`
}

// NewCreateOrderRequest maps an order to the order service's field names.
// payment may be nil for held orders.
func NewCreateOrderRequest(order Order, status OrderStatus, payment *Payment) CreateOrderRequest {
	req := CreateOrderRequest{
		CustomerName:  order.Customer,
		OrderType:     order.Type,
		OrderStatus:   status,
		CustomerNotes: order.Notes,
		Subtotal:      order.Subtotal.InexactFloat64(),
		Discount:      order.Discount.InexactFloat64(),
		VAT:           order.VAT.InexactFloat64(),
		TotalAmount:   order.Total.InexactFloat64(),
		OrderItems:    make([]OrderItemPayload, 0, len(order.Items)),
	}

	for _, item := range order.Items {
		req.OrderItems = append(req.OrderItems, OrderItemPayload{
			ItemName:   item.Name,
			UnitPrice:  item.Price.InexactFloat64(),
			Quantity:   item.Quantity,
			TotalPrice: item.Total.InexactFloat64(),
			Category:   item.Category,
		})
	}

	if payment != nil {
		req.PaymentMethod = string(payment.Method)
		req.PaymentReference = payment.Reference
		req.AmountReceived = nullFloat(payment.AmountReceived)
		req.ChangeAmount = nullFloat(payment.Change)
		req.ReceiptEmail = payment.ReceiptEmail
	}

	return req
}

// ToOrder maps an order service record back to the local order shape.
func (r OrderRecord) ToOrder() Order {
	order := Order{
		ID:        r.OrderID,
		Customer:  r.CustomerName,
		Type:      r.OrderType,
		Items:     make([]OrderItem, 0, len(r.OrderItems)),
		Subtotal:  decimal.NewFromFloat(r.Subtotal),
		Discount:  decimal.NewFromFloat(r.Discount),
		VAT:       decimal.NewFromFloat(r.VAT),
		Total:     decimal.NewFromFloat(r.TotalAmount),
		Notes:     r.CustomerNotes,
		HeldAt:    r.CreatedAt,
		Status:    r.OrderStatus,
		CreatedAt: r.CreatedAt,
	}

	for _, item := range r.OrderItems {
		order.Items = append(order.Items, OrderItem{
			ID:       strconv.FormatInt(item.OrderItemID, 10),
			Name:     item.ItemName,
			Quantity: item.Quantity,
			Price:    decimal.NewFromFloat(item.UnitPrice),
			Total:    decimal.NewFromFloat(item.TotalPrice),
			Category: item.Category,
		})
	}

	return order
}

func nullFloat(d decimal.NullDecimal) *float64 {
	if !d.Valid {
		return nil
	}
	f := d.Decimal.InexactFloat64()
	return &f
}
