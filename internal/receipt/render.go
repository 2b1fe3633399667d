package receipt

import (
	"bytes"
	"fmt"
	htmltemplate "html/template"
	"io"
	"text/template"

	"github.com/shopspring/decimal"
)

var funcs = map[string]interface{}{
	"peso": func(d decimal.Decimal) string { return "₱" + d.StringFixed(2) },
	"pad":  func(width int, s string) string { return fmt.Sprintf("%-*s", width, s) },
	"date": func(d Data) string { return d.IssuedAt.Format("1/2/2006, 3:04:05 PM") },
}

const textLayout = `RECEIPT
{{ .Store.Name }} POS
{{ date .Data }}
--------------------------------
{{ pad 12 "Order #" }}{{ .Data.DisplayNumber }}
{{ pad 12 "Customer" }}{{ .Data.Customer }}
{{ pad 12 "Type" }}{{ .Data.OrderType }}
--------------------------------
Items:
{{ range .Data.Items }}{{ pad 22 (printf "%dx %s" .Quantity .Name) }} {{ peso .Total }}
{{ end }}--------------------------------
{{ pad 22 "Subtotal" }} {{ peso .Data.Subtotal }}
{{ pad 22 "VAT (incl.)" }} {{ peso .Data.VAT }}
{{ if .Data.HasDiscount }}{{ pad 22 "Discount" }} -{{ peso .Data.Discount }}
{{ end }}{{ pad 22 "Total" }} {{ peso .Data.Total }}
{{ if .Data.PaymentMethod }}{{ pad 22 "Payment" }} {{ .Data.PaymentMethod }}
{{ end }}{{ if .Data.Reference }}{{ pad 22 "Reference" }} {{ .Data.Reference }}
{{ end }}{{ if .Data.Change.Valid }}{{ pad 22 "Change" }} {{ peso .Data.Change.Decimal }}
{{ end }}{{ if .Data.Notes }}Notes: {{ .Data.Notes }}
{{ end }}--------------------------------
Thank you for dining with us!
`

const htmlLayout = `<div style="font-family: Arial, sans-serif; max-width: 400px; margin: 0 auto; padding: 20px; border: 1px solid #ccc;">
  <div style="text-align: center; margin-bottom: 20px;">
    <h2 style="margin: 0; color: #2c3e50;">{{ .Store.Name }}</h2>
    <p style="margin: 5px 0; font-size: 14px; color: #666;">Digital Receipt</p>
  </div>
  <div style="margin-bottom: 15px; padding-bottom: 15px; border-bottom: 1px dashed #ccc;">
    <p><strong>Order:</strong> #{{ .Data.DisplayNumber }}</p>
    <p><strong>Customer:</strong> {{ .Data.Customer }}</p>
    <p><strong>Order Type:</strong> {{ .Data.OrderType }}</p>
    <p><strong>Date:</strong> {{ date .Data }}</p>
  </div>
  <div style="margin-bottom: 15px;">
    <h3 style="margin: 0 0 10px 0;">Order Items:</h3>
{{- range .Data.Items }}
    <div style="display: flex; justify-content: space-between; margin-bottom: 5px;"><span>{{ .Name }} x{{ .Quantity }}</span><span>{{ peso .Total }}</span></div>
{{- end }}
  </div>
  <div style="margin-bottom: 15px; padding-top: 15px; border-top: 1px dashed #ccc;">
    <div style="display: flex; justify-content: space-between;"><span>Subtotal:</span><span>{{ peso .Data.Subtotal }}</span></div>
    <div style="display: flex; justify-content: space-between;"><span>VAT (12%):</span><span>{{ peso .Data.VAT }}</span></div>
{{- if .Data.HasDiscount }}
    <div style="display: flex; justify-content: space-between;"><span>Discount:</span><span>-{{ peso .Data.Discount }}</span></div>
{{- end }}
    <div style="display: flex; justify-content: space-between; font-weight: bold;"><span>Total:</span><span>{{ peso .Data.Total }}</span></div>
  </div>
  <div style="margin-bottom: 15px; font-size: 14px;">
    <p><strong>Payment Method:</strong> {{ .Data.PaymentMethod }}</p>
{{- if .Data.Reference }}
    <p><strong>Reference:</strong> {{ .Data.Reference }}</p>
{{- end }}
{{- if .Data.Notes }}
    <p><strong>Notes:</strong> {{ .Data.Notes }}</p>
{{- end }}
  </div>
  <div style="text-align: center; font-size: 12px; color: #666; margin-top: 20px;">
    <p>Thank you for dining with us!</p>
    <p>This is a digital receipt.</p>
  </div>
</div>
`

var (
	textTemplate = template.Must(template.New("receipt.txt").Funcs(funcs).Parse(textLayout))
	htmlTemplate = htmltemplate.Must(htmltemplate.New("receipt.html").Funcs(funcs).Parse(htmlLayout))
)

type view struct {
	Data  Data
	Store StoreInfo
}

// RenderText writes the printable receipt
func RenderText(w io.Writer, data Data, store StoreInfo) error {
	if err := textTemplate.Execute(w, view{Data: data, Store: store}); err != nil {
		return fmt.Errorf("render receipt: %w", err)
	}
	return nil
}

// RenderHTML renders the digital receipt with all values escaped
func RenderHTML(data Data, store StoreInfo) (string, error) {
	var buf bytes.Buffer
	if err := htmlTemplate.Execute(&buf, view{Data: data, Store: store}); err != nil {
		return "", fmt.Errorf("render receipt html: %w", err)
	}
	return buf.String(), nil
}
