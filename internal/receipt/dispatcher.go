package receipt

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/ashendes/pos-terminal/internal/metrics"
	"github.com/ashendes/pos-terminal/internal/models"
	log "github.com/sirupsen/logrus"
)

// Sender delivers a flat parameter map to an email template
type Sender interface {
	Validate() error
	Send(ctx context.Context, params map[string]string) error
}

// Dispatcher prints or emails receipts for completed sales
type Dispatcher struct {
	sender Sender
	store  StoreInfo
	now    func() time.Time
}

// NewDispatcher creates a dispatcher
func NewDispatcher(sender Sender, store StoreInfo) *Dispatcher {
	return &Dispatcher{
		sender: sender,
		store:  store,
		now:    time.Now,
	}
}

// Store returns the store details printed on receipts
func (d *Dispatcher) Store() StoreInfo {
	return d.store
}

// Print writes the printable receipt for a sale
func (d *Dispatcher) Print(w io.Writer, sale models.CompletedSale) error {
	data := Build(sale, d.now())
	if err := RenderText(w, data, d.store); err != nil {
		metrics.ReceiptsTotal.WithLabelValues("print", "error").Inc()
		return err
	}

	metrics.ReceiptsTotal.WithLabelValues("print", "success").Inc()
	log.WithFields(log.Fields{
		"order_id":       sale.Order.ID,
		"display_number": sale.DisplayNumber,
	}).Info("Receipt printed")
	return nil
}

// SendEmail validates the address and configuration, then mails the receipt
func (d *Dispatcher) SendEmail(ctx context.Context, sale models.CompletedSale, email string) error {
	if err := d.sender.Validate(); err != nil {
		metrics.ReceiptsTotal.WithLabelValues("email", "rejected").Inc()
		return err
	}

	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		metrics.ReceiptsTotal.WithLabelValues("email", "rejected").Inc()
		return ErrInvalidAddress
	}

	sale.Payment.ReceiptEmail = email
	params := EmailParams(Build(sale, d.now()), d.store)

	if err := d.sender.Send(ctx, params); err != nil {
		metrics.ReceiptsTotal.WithLabelValues("email", "error").Inc()
		return err
	}

	metrics.ReceiptsTotal.WithLabelValues("email", "success").Inc()
	log.WithFields(log.Fields{
		"order_id":       sale.Order.ID,
		"display_number": sale.DisplayNumber,
	}).Info("Receipt emailed")
	return nil
}
