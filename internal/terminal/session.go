package terminal

import (
	"context"

	"github.com/ashendes/pos-terminal/internal/checkout"
	"github.com/ashendes/pos-terminal/internal/modal"
	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/ashendes/pos-terminal/internal/notify"
	"github.com/ashendes/pos-terminal/internal/ordernum"
	"github.com/ashendes/pos-terminal/internal/pos"
	"github.com/ashendes/pos-terminal/internal/receipt"
	log "github.com/sirupsen/logrus"
)

// CircuitReporter exposes a remote dependency's breaker state
type CircuitReporter interface {
	CircuitState() string
}

// Session is the single cashier session a terminal process serves
type Session struct {
	Store    *pos.Store
	Checkout *checkout.Controller
	Modals   *modal.Manager
	Notifier *notify.Notifier
	Events   *notify.Recorder
	Numbers  *ordernum.Allocator
	Receipts *receipt.Dispatcher
	Menu     Menu
	Orders   CircuitReporter
}

// ModalView is an open modal as clients see it
type ModalView struct {
	Kind    modal.Kind  `json:"kind"`
	Data    modal.Modal `json:"data"`
	Command string      `json:"command,omitempty"`
}

// Snapshot is everything a client needs to draw the terminal
type Snapshot struct {
	Order            models.Order          `json:"order"`
	DisplayNumber    string                `json:"display_number"`
	HeldOrders       []models.Order        `json:"held_orders"`
	CheckoutState    checkout.State        `json:"checkout_state"`
	Sale             *models.CompletedSale `json:"sale,omitempty"`
	Modals           []ModalView           `json:"modals"`
	Notification     *notify.Notification  `json:"notification,omitempty"`
	Processing       bool                  `json:"processing"`
	CanApplyDiscount bool                  `json:"can_apply_discount"`
	OrderService     string                `json:"order_service_circuit,omitempty"`
}

// Snapshot captures the session state. A current order that came back
// from the server shows its stable display number; an unsaved order shows
// the number it would get next.
func (s *Session) Snapshot(ctx context.Context) Snapshot {
	order := s.Store.Current()

	snap := Snapshot{
		Order:            order,
		HeldOrders:       s.Store.HeldOrders(),
		CheckoutState:    s.Checkout.State(),
		Modals:           make([]ModalView, 0),
		Processing:       s.Store.IsProcessing(),
		CanApplyDiscount: s.Checkout.CanApplyDiscount(),
	}

	if sale, ok := s.Checkout.Sale(); ok {
		snap.Sale = &sale
	}

	for _, m := range s.Modals.OpenModals() {
		view := ModalView{Kind: m.Kind(), Data: m}
		if conf, ok := m.(modal.Confirmation); ok && conf.Command != nil {
			view.Command = conf.Command.CommandName()
		}
		snap.Modals = append(snap.Modals, view)
	}

	if note, ok := s.Notifier.Current(); ok {
		snap.Notification = &note
	}

	if s.Orders != nil {
		snap.OrderService = s.Orders.CircuitState()
	}

	// numbers are only consumed when an order completes
	var (
		found bool
		err   error
	)
	if order.ID > 0 {
		snap.DisplayNumber, found, err = s.Numbers.Lookup(ctx, order.ID)
	}
	if err == nil && !found {
		snap.DisplayNumber, err = s.Numbers.Peek(ctx)
	}
	if err != nil {
		log.WithError(err).Warn("Failed to read display number")
	}

	return snap
}
