package receipt

import (
	"strconv"
	"strings"
	"time"

	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/shopspring/decimal"
)

// StoreInfo is printed on every receipt
type StoreInfo struct {
	Name    string
	Address string
	Contact string
}

// Line is one receipt line
type Line struct {
	Name     string
	Quantity int
	Price    decimal.Decimal
	Total    decimal.Decimal
}

// Data is a receipt snapshot built from a completed sale. It does not
// read live order state, which has already been reset by the time a
// receipt is produced.
type Data struct {
	OrderID        int64
	DisplayNumber  string
	Customer       string
	OrderType      string
	Items          []Line
	Subtotal       decimal.Decimal
	VAT            decimal.Decimal
	Discount       decimal.Decimal
	Total          decimal.Decimal
	PaymentMethod  string
	Reference      string
	AmountReceived decimal.NullDecimal
	Change         decimal.NullDecimal
	Notes          string
	Email          string
	IssuedAt       time.Time
}

// Build snapshots a completed sale for rendering or delivery
func Build(sale models.CompletedSale, issuedAt time.Time) Data {
	order := sale.Order

	customer := order.Customer
	if customer == "" {
		customer = models.DefaultCustomer
	}
	orderType := order.Type
	if orderType == "" {
		orderType = models.OrderTypeDining
	}

	data := Data{
		OrderID:        order.ID,
		DisplayNumber:  sale.DisplayNumber,
		Customer:       customer,
		OrderType:      orderType,
		Items:          make([]Line, 0, len(order.Items)),
		Subtotal:       order.Subtotal,
		VAT:            order.VAT,
		Discount:       order.Discount,
		Total:          order.Total,
		PaymentMethod:  paymentLabel(sale.Payment.Method),
		Reference:      sale.Payment.Reference,
		AmountReceived: sale.Payment.AmountReceived,
		Change:         sale.Payment.Change,
		Notes:          order.Notes,
		Email:          sale.Payment.ReceiptEmail,
		IssuedAt:       issuedAt,
	}

	for _, item := range order.Items {
		data.Items = append(data.Items, Line{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
			Total:    item.Total,
		})
	}

	return data
}

func paymentLabel(method models.PaymentMethod) string {
	switch method {
	case models.PaymentMethodCash:
		return "Cash"
	case models.PaymentMethodGcash:
		return "GCash"
	case "":
		return ""
	default:
		return strings.ToUpper(string(method[:1])) + string(method[1:])
	}
}

// ItemsText lists lines as "<name> x<qty> - ₱<total>", one per line
func (d Data) ItemsText() string {
	lines := make([]string, 0, len(d.Items))
	for _, item := range d.Items {
		lines = append(lines, item.Name+" x"+strconv.Itoa(item.Quantity)+" - ₱"+item.Total.StringFixed(2))
	}
	return strings.Join(lines, "\n")
}

// HasDiscount reports whether a discount line should be shown
func (d Data) HasDiscount() bool {
	return d.Discount.IsPositive()
}

// EmailParams flattens a receipt into the template parameters the email
// template expects. Several keys carry the same value under the names
// different templates use.
func EmailParams(data Data, store StoreInfo) map[string]string {
	items := data.ItemsText()

	method := data.PaymentMethod
	if method == "" {
		method = "Cash"
	}
	reference := data.Reference
	if reference == "" {
		reference = "N/A"
	}
	notes := data.Notes
	if notes == "" {
		notes = "No special notes"
	}

	date := data.IssuedAt.Format("1/2/2006")
	clock := data.IssuedAt.Format("3:04:05 PM")

	return map[string]string{
		"to_email":          data.Email,
		"user_email":        data.Email,
		"recipient_email":   data.Email,
		"email":             data.Email,
		"reply_to":          data.Email,
		"customer_email":    data.Email,
		"to_name":           data.Customer,
		"customer_name":     data.Customer,
		"customer":          data.Customer,
		"order_type":        data.OrderType,
		"order_items":       items,
		"items":             items,
		"subtotal":          data.Subtotal.StringFixed(2),
		"vat":               data.VAT.StringFixed(2),
		"discount":          data.Discount.StringFixed(2),
		"total":             data.Total.StringFixed(2),
		"payment_method":    method,
		"payment_reference": reference,
		"notes":             notes,
		"order_number":      "#" + data.DisplayNumber,
		"order_date":        date + ", " + clock,
		"date":              date,
		"time":              clock,
		"store_name":        store.Name,
		"store_address":     store.Address,
		"store_contact":     store.Contact,
	}
}
