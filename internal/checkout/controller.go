package checkout

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/ashendes/pos-terminal/internal/modal"
	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/ashendes/pos-terminal/internal/receipt"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// State is the checkout step the terminal is on
type State string

// Checkout states
const (
	StateIdle                   State = "idle"
	StateAwaitingPaymentMethod  State = "awaiting_payment_method"
	StateAwaitingGcashReference State = "awaiting_gcash_reference"
	StateAwaitingCashAmount     State = "awaiting_cash_amount"
	StateSubmitting             State = "submitting"
	StateAwaitingReceiptChoice  State = "awaiting_receipt_choice"
	StatePrintPreview           State = "print_preview"
	StateAwaitingEmailAddress   State = "awaiting_email_address"
)

// ReceiptChoice is what the cashier does with a completed sale's receipt
type ReceiptChoice string

// Receipt choices
const (
	ReceiptPrint ReceiptChoice = "print"
	ReceiptEmail ReceiptChoice = "email"
	ReceiptSkip  ReceiptChoice = "skip"
)

// Errors returned by controller actions
var (
	ErrEmptyOrder         = errors.New("order has no items")
	ErrWrongState         = errors.New("action not allowed in current checkout state")
	ErrNoConfirmation     = errors.New("no confirmation pending")
	ErrInvalidMethod      = errors.New("unknown payment method")
	ErrMissingReference   = errors.New("gcash reference is required")
	ErrInvalidAmount      = errors.New("cash amount must be a positive number")
	ErrInsufficientAmount = errors.New("cash amount is less than the total")
	ErrInvalidChoice      = errors.New("unknown receipt choice")
	ErrMissingEmail       = errors.New("customer email is required")
	ErrUnknownItem        = errors.New("item not in order")
	ErrHeldOrderNotFound  = errors.New("held order not found")
	ErrDiscountFormClosed = errors.New("discount form is not open")
	ErrNotesEditorClosed  = errors.New("notes editor is not open")
)

// OrderStore is the order state the controller drives
type OrderStore interface {
	Current() models.Order
	FindItem(itemID string) (models.OrderItem, bool)
	RemoveItem(itemID string)
	SetItemQuantity(itemID string, quantity int)
	ApplyDiscount(amount decimal.Decimal)
	SetCustomerInfo(customer, orderType string)
	SetNotes(notes string)
	Hold(ctx context.Context) error
	Complete(ctx context.Context, payment models.Payment) (*models.Order, error)
	Void(ctx context.Context) error
	RetrieveHeld(ctx context.Context, held models.Order) error
	DeleteHeld(ctx context.Context, orderID int64) error
	ReloadHeldOrders(ctx context.Context) error
	HeldOrders() []models.Order
	FindHeld(orderID int64) (models.Order, bool)
}

// Receipts prints or emails receipts for completed sales
type Receipts interface {
	Print(w io.Writer, sale models.CompletedSale) error
	SendEmail(ctx context.Context, sale models.CompletedSale, email string) error
}

// Numbers allocates the short display number printed for a server order
type Numbers interface {
	Assign(ctx context.Context, orderID int64) (string, error)
}

// Notifier receives one message per outcome
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Controller runs the checkout state machine and the confirmation-gated
// sub-flows around the current order. Remote calls run without mu held.
type Controller struct {
	mu    sync.Mutex
	state State
	sale  *models.CompletedSale

	store    OrderStore
	modals   *modal.Manager
	notifier Notifier
	receipts Receipts
	numbers  Numbers

	takeoutDelay time.Duration
	timers       map[*time.Timer]struct{}
	closed       bool
}

// NewController wires the controller to its collaborators
func NewController(store OrderStore, modals *modal.Manager, notifier Notifier, receipts Receipts, numbers Numbers, cfg config.WorkflowConfig) *Controller {
	delay := cfg.TakeoutDelay
	if delay <= 0 {
		delay = time.Second
	}

	return &Controller{
		state:        StateIdle,
		store:        store,
		modals:       modals,
		notifier:     notifier,
		receipts:     receipts,
		numbers:      numbers,
		takeoutDelay: delay,
		timers:       make(map[*time.Timer]struct{}),
	}
}

// State returns the current checkout step
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Sale returns the completed sale awaiting receipt delivery
func (c *Controller) Sale() (models.CompletedSale, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sale == nil {
		return models.CompletedSale{}, false
	}
	return *c.sale, true
}

// Modals exposes the modal manager for readers
func (c *Controller) Modals() *modal.Manager {
	return c.modals
}

// Close stops pending timers; later timers are not scheduled
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for timer := range c.timers {
		timer.Stop()
	}
	c.timers = make(map[*time.Timer]struct{})
}

func (c *Controller) transition(to State) {
	from := c.state
	c.state = to
	log.WithFields(log.Fields{
		"from": from,
		"to":   to,
	}).Debug("Checkout state changed")
}

// expect moves from one state to another, or reports ErrWrongState
func (c *Controller) expect(from, to State) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != from {
		return fmt.Errorf("%w: %s", ErrWrongState, c.state)
	}
	c.transition(to)
	return nil
}

func (c *Controller) confirm(title, message string, tone modal.Tone, cmd modal.Command) {
	c.modals.Open(modal.Confirmation{
		Title:   title,
		Message: message,
		Tone:    tone,
		Command: cmd,
	})
}

func peso(amount decimal.Decimal) string {
	return "₱" + amount.StringFixed(2)
}

// BeginPayment asks the cashier to confirm paying for the current order
func (c *Controller) BeginPayment() error {
	order := c.store.Current()
	if order.IsEmpty() {
		c.notifier.Error("Please add items to the order before processing payment")
		return ErrEmptyOrder
	}
	if state := c.State(); state != StateIdle {
		c.notifier.Error("Payment is already in progress")
		return fmt.Errorf("%w: %s", ErrWrongState, state)
	}

	c.confirm(
		"PROCESS PAYMENT",
		fmt.Sprintf("Process payment for %s with %d items?", peso(order.Total), len(order.Items)),
		modal.ToneDefault,
		OpenPayment{},
	)
	return nil
}

func (c *Controller) openPaymentMethods() error {
	order := c.store.Current()
	if order.IsEmpty() {
		c.notifier.Error("Please add items to the order before processing payment")
		return ErrEmptyOrder
	}
	if err := c.expect(StateIdle, StateAwaitingPaymentMethod); err != nil {
		return err
	}

	c.modals.Open(modal.Payment{Total: order.Total, ItemCount: len(order.Items)})
	return nil
}

// ChoosePaymentMethod moves on to capturing the GCash reference or the cash tendered
func (c *Controller) ChoosePaymentMethod(method models.PaymentMethod) error {
	if !method.Valid() {
		return fmt.Errorf("%w: %s", ErrInvalidMethod, method)
	}

	next := StateAwaitingCashAmount
	if method == models.PaymentMethodGcash {
		next = StateAwaitingGcashReference
	}
	if err := c.expect(StateAwaitingPaymentMethod, next); err != nil {
		return err
	}

	c.modals.Close(modal.KindPayment)
	if method == models.PaymentMethodGcash {
		c.modals.Open(modal.GcashReference{})
	} else {
		c.modals.Open(modal.CashPayment{})
	}
	return nil
}

// SetGcashReference records the reference as typed
func (c *Controller) SetGcashReference(reference string) error {
	if !modal.Update(c.modals, func(m *modal.GcashReference) { m.Reference = reference }) {
		return fmt.Errorf("%w: %s", ErrWrongState, c.State())
	}
	return nil
}

// SetCashAmount records the tendered amount as typed
func (c *Controller) SetCashAmount(amount string) error {
	if !modal.Update(c.modals, func(m *modal.CashPayment) { m.Amount = amount }) {
		return fmt.Errorf("%w: %s", ErrWrongState, c.State())
	}
	return nil
}

// ConfirmGcash completes the order with the entered e-wallet reference
func (c *Controller) ConfirmGcash(ctx context.Context) error {
	if state := c.State(); state != StateAwaitingGcashReference {
		return fmt.Errorf("%w: %s", ErrWrongState, state)
	}

	form, _ := modal.Lookup[modal.GcashReference](c.modals)
	reference := strings.TrimSpace(form.Reference)
	if reference == "" {
		c.notifier.Error("Please enter GCash reference number")
		return ErrMissingReference
	}

	if err := c.expect(StateAwaitingGcashReference, StateSubmitting); err != nil {
		return err
	}
	c.modals.Close(modal.KindGcashReference)
	return c.submit(ctx, models.GcashPayment(reference))
}

// ConfirmCash completes the order with the tendered amount and shows the change
func (c *Controller) ConfirmCash(ctx context.Context) error {
	if state := c.State(); state != StateAwaitingCashAmount {
		return fmt.Errorf("%w: %s", ErrWrongState, state)
	}

	form, _ := modal.Lookup[modal.CashPayment](c.modals)
	amount, err := decimal.NewFromString(strings.TrimSpace(form.Amount))
	if err != nil || !amount.IsPositive() {
		c.notifier.Error("Please enter a valid amount")
		return ErrInvalidAmount
	}

	total := c.store.Current().Total
	if amount.LessThan(total) {
		c.notifier.Error("Insufficient amount received")
		return ErrInsufficientAmount
	}

	if err := c.expect(StateAwaitingCashAmount, StateSubmitting); err != nil {
		return err
	}

	change := amount.Sub(total)
	if change.IsPositive() {
		c.notifier.Success("Change: " + peso(change))
	}

	c.modals.Close(modal.KindCashPayment)
	return c.submit(ctx, models.CashPayment(amount, change))
}

func (c *Controller) submit(ctx context.Context, payment models.Payment) error {
	completed, err := c.store.Complete(ctx, payment)
	if err != nil {
		c.mu.Lock()
		c.transition(StateIdle)
		c.mu.Unlock()
		return err
	}

	number, err := c.numbers.Assign(ctx, completed.ID)
	if err != nil {
		log.WithError(err).WithField("order_id", completed.ID).Warn("Failed to assign display number")
	}

	sale := models.CompletedSale{
		Order:         *completed,
		Payment:       payment,
		DisplayNumber: number,
	}

	c.mu.Lock()
	c.sale = &sale
	c.transition(StateAwaitingReceiptChoice)
	c.mu.Unlock()

	c.modals.Open(modal.ReceiptSelection{Sale: sale})

	log.WithFields(log.Fields{
		"order_id":       completed.ID,
		"display_number": number,
		"method":         payment.Method,
	}).Info("Payment accepted")
	return nil
}

// CancelPayment abandons the checkout step in progress and returns to idle.
// A completed sale's receipt is dropped; the order itself is already saved.
func (c *Controller) CancelPayment() error {
	c.mu.Lock()
	if c.state == StateSubmitting {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWrongState, c.state)
	}
	c.sale = nil
	c.transition(StateIdle)
	c.mu.Unlock()

	for _, kind := range []modal.Kind{
		modal.KindPayment,
		modal.KindGcashReference,
		modal.KindCashPayment,
		modal.KindReceiptSelection,
		modal.KindPrintPreview,
		modal.KindEmailReceipt,
	} {
		c.modals.Close(kind)
	}
	return nil
}

// ChooseReceipt routes a completed sale to print preview, email or nothing
func (c *Controller) ChooseReceipt(choice ReceiptChoice) error {
	var next State
	switch choice {
	case ReceiptPrint:
		next = StatePrintPreview
	case ReceiptEmail:
		next = StateAwaitingEmailAddress
	case ReceiptSkip:
		next = StateIdle
	default:
		return fmt.Errorf("%w: %s", ErrInvalidChoice, choice)
	}

	c.mu.Lock()
	if c.state != StateAwaitingReceiptChoice || c.sale == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWrongState, c.state)
	}
	sale := *c.sale
	if next == StateIdle {
		c.sale = nil
	}
	c.transition(next)
	c.mu.Unlock()

	c.modals.Close(modal.KindReceiptSelection)
	switch choice {
	case ReceiptPrint:
		c.modals.Open(modal.PrintPreview{Sale: sale})
	case ReceiptEmail:
		c.modals.Open(modal.EmailReceipt{Sale: sale})
	}
	return nil
}

// ConfirmPrint sends the previewed receipt to w
func (c *Controller) ConfirmPrint(w io.Writer) error {
	c.mu.Lock()
	if c.state != StatePrintPreview || c.sale == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWrongState, c.state)
	}
	sale := *c.sale
	c.mu.Unlock()

	if err := c.receipts.Print(w, sale); err != nil {
		c.notifier.Error("Failed to print receipt")
		return err
	}

	c.finishReceipt(modal.KindPrintPreview)
	c.notifier.Success("Receipt sent to printer")
	return nil
}

// SetReceiptEmail records the address as typed
func (c *Controller) SetReceiptEmail(email string) error {
	if !modal.Update(c.modals, func(m *modal.EmailReceipt) { m.Email = email }) {
		return fmt.Errorf("%w: %s", ErrWrongState, c.State())
	}
	return nil
}

// SendEmailReceipt mails the receipt. On failure the address form stays
// open so the cashier can correct it and retry.
func (c *Controller) SendEmailReceipt(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateAwaitingEmailAddress || c.sale == nil {
		c.mu.Unlock()
		return fmt.Errorf("%w: %s", ErrWrongState, c.state)
	}
	sale := *c.sale
	c.mu.Unlock()

	form, _ := modal.Lookup[modal.EmailReceipt](c.modals)
	if strings.TrimSpace(form.Email) == "" {
		c.notifier.Error("Please enter customer email")
		return ErrMissingEmail
	}

	if err := c.receipts.SendEmail(ctx, sale, form.Email); err != nil {
		c.notifier.Error(receipt.Describe(err))
		return err
	}

	c.finishReceipt(modal.KindEmailReceipt)
	c.notifier.Success("Receipt sent successfully!")
	return nil
}

func (c *Controller) finishReceipt(kind modal.Kind) {
	c.mu.Lock()
	c.sale = nil
	c.transition(StateIdle)
	c.mu.Unlock()
	c.modals.Close(kind)
}

// Accept runs the pending confirmation's command
func (c *Controller) Accept(ctx context.Context) error {
	c.mu.Lock()
	conf, ok := modal.Lookup[modal.Confirmation](c.modals)
	if !ok || conf.Command == nil {
		c.mu.Unlock()
		return ErrNoConfirmation
	}
	c.modals.Close(modal.KindConfirmation)
	c.mu.Unlock()

	log.WithField("command", conf.Command.CommandName()).Info("Confirmation accepted")
	return c.execute(ctx, conf.Command)
}

// Decline discards the pending confirmation
func (c *Controller) Decline() {
	if conf, ok := modal.Lookup[modal.Confirmation](c.modals); ok && conf.Command != nil {
		log.WithField("command", conf.Command.CommandName()).Info("Confirmation declined")
	}
	c.modals.Close(modal.KindConfirmation)
}

func (c *Controller) execute(ctx context.Context, cmd modal.Command) error {
	switch cmd := cmd.(type) {
	case OpenPayment:
		return c.openPaymentMethods()
	case HoldOrder:
		return c.store.Hold(ctx)
	case VoidOrder:
		err := c.store.Void(ctx)
		c.abandonCapture()
		return err
	case MarkTakeout:
		c.markTakeout()
		return nil
	case RemoveItem:
		c.store.RemoveItem(cmd.ItemID)
		return nil
	case RetrieveHeld:
		return c.retrieve(ctx, cmd.Order)
	case DeleteHeld:
		return c.store.DeleteHeld(ctx, cmd.OrderID)
	default:
		return fmt.Errorf("unknown command %q", cmd.CommandName())
	}
}

// a voided order cannot be paid for
func (c *Controller) abandonCapture() {
	c.mu.Lock()
	switch c.state {
	case StateAwaitingPaymentMethod, StateAwaitingGcashReference, StateAwaitingCashAmount:
		c.transition(StateIdle)
	default:
		c.mu.Unlock()
		return
	}
	c.mu.Unlock()

	c.modals.Close(modal.KindPayment)
	c.modals.Close(modal.KindGcashReference)
	c.modals.Close(modal.KindCashPayment)
}

// RequestHold asks to park the current order
func (c *Controller) RequestHold() error {
	order := c.store.Current()
	if order.IsEmpty() {
		c.notifier.Error("No items to hold")
		return ErrEmptyOrder
	}

	c.confirm(
		"HOLD ORDER",
		fmt.Sprintf("Hold current order (%s) with %d items?", order.Customer, len(order.Items)),
		modal.ToneDefault,
		HoldOrder{},
	)
	return nil
}

// RequestVoid asks to discard the current order
func (c *Controller) RequestVoid() error {
	order := c.store.Current()
	if order.IsEmpty() {
		c.notifier.Error("No items to void")
		return ErrEmptyOrder
	}

	c.confirm(
		"VOID ORDER",
		fmt.Sprintf("Are you sure you want to void this order with %d items? This action cannot be undone.", len(order.Items)),
		modal.ToneDanger,
		VoidOrder{},
	)
	return nil
}

// RequestTakeout asks to mark the order as takeout and go to payment
func (c *Controller) RequestTakeout() error {
	if c.store.Current().IsEmpty() {
		c.notifier.Error("No items for takeout")
		return ErrEmptyOrder
	}

	c.confirm(
		"TAKEOUT ORDER",
		"Mark this order as TAKEOUT and proceed to payment?",
		modal.ToneDefault,
		MarkTakeout{},
	)
	return nil
}

func (c *Controller) markTakeout() {
	order := c.store.Current()
	c.store.SetCustomerInfo(order.Customer, models.OrderTypeTakeout)
	c.notifier.Success("Order marked as TAKEOUT")

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}

	var timer *time.Timer
	timer = time.AfterFunc(c.takeoutDelay, func() {
		c.mu.Lock()
		delete(c.timers, timer)
		c.mu.Unlock()

		if err := c.BeginPayment(); err != nil {
			log.WithError(err).Debug("Takeout payment prompt skipped")
		}
	})
	c.timers[timer] = struct{}{}
}

// RequestRemoveItem asks to drop a line from the order
func (c *Controller) RequestRemoveItem(itemID string) error {
	item, ok := c.store.FindItem(itemID)
	if !ok {
		return ErrUnknownItem
	}

	c.confirm(
		"REMOVE ITEM",
		fmt.Sprintf("Remove \"%s\" from the order?", item.Name),
		modal.ToneWarning,
		RemoveItem{ItemID: itemID},
	)
	return nil
}

// UpdateQuantity sets a line's quantity. Dropping to zero or below asks
// for confirmation before the line is removed.
func (c *Controller) UpdateQuantity(itemID string, quantity int) error {
	if quantity <= 0 {
		if _, ok := c.store.FindItem(itemID); ok {
			return c.RequestRemoveItem(itemID)
		}
	}
	c.store.SetItemQuantity(itemID, quantity)
	return nil
}

// RenameCustomer sets the customer name; blank falls back to the walk-in default
func (c *Controller) RenameCustomer(name string) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = models.DefaultCustomer
	}
	c.store.SetCustomerInfo(name, c.store.Current().Type)
}

// OpenNotes starts editing the order notes
func (c *Controller) OpenNotes() {
	c.modals.Open(modal.Notes{Draft: c.store.Current().Notes})
}

// SetNotesDraft records the notes as typed
func (c *Controller) SetNotesDraft(draft string) error {
	if !modal.Update(c.modals, func(m *modal.Notes) { m.Draft = draft }) {
		return ErrNotesEditorClosed
	}
	return nil
}

// SaveNotes copies the draft onto the order
func (c *Controller) SaveNotes() error {
	form, ok := modal.Lookup[modal.Notes](c.modals)
	if !ok {
		return ErrNotesEditorClosed
	}
	c.store.SetNotes(form.Draft)
	c.modals.Close(modal.KindNotes)
	return nil
}

// OpenDiscount shows an empty discount form
func (c *Controller) OpenDiscount() {
	c.modals.Open(modal.NewDiscount())
}

// SetDiscountForm replaces the discount form contents
func (c *Controller) SetDiscountForm(form modal.Discount) error {
	if form.Method == "" {
		form.Method = modal.MethodPercentage
	}
	if !modal.Update(c.modals, func(m *modal.Discount) { *m = form }) {
		return ErrDiscountFormClosed
	}
	return nil
}

// CanApplyDiscount reports whether the open form is complete and valid
func (c *Controller) CanApplyDiscount() bool {
	form, ok := modal.Lookup[modal.Discount](c.modals)
	if !ok {
		return false
	}
	return CanApply(form, c.store.Current().Subtotal)
}

// ApplyDiscount resolves the open form and applies the amount to the order
func (c *Controller) ApplyDiscount() (decimal.Decimal, error) {
	form, ok := modal.Lookup[modal.Discount](c.modals)
	if !ok {
		return decimal.Zero, ErrDiscountFormClosed
	}

	amount, err := DiscountAmount(form, c.store.Current().Subtotal)
	if err != nil {
		c.notifier.Error(discountResponses[err])
		return decimal.Zero, err
	}

	c.store.ApplyDiscount(amount)
	c.modals.Close(modal.KindDiscount)

	log.WithFields(log.Fields{
		"type":   form.Type,
		"amount": amount.StringFixed(2),
		"reason": form.Reason,
	}).Info("Discount applied")
	return amount, nil
}

// ClearDiscount removes any discount from the order
func (c *Controller) ClearDiscount() {
	c.store.ApplyDiscount(decimal.Zero)
}

// OpenHeldOrders refreshes the held-orders list and shows it
func (c *Controller) OpenHeldOrders(ctx context.Context) error {
	if err := c.store.ReloadHeldOrders(ctx); err != nil {
		c.notifier.Error("Failed to load held orders")
		return err
	}
	c.modals.Open(modal.HeldOrders{Orders: c.store.HeldOrders()})
	return nil
}

// RequestRetrieveHeld resumes a held order. Replacing a non-empty current
// order needs confirmation first.
func (c *Controller) RequestRetrieveHeld(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		return c.store.RetrieveHeld(ctx, models.Order{ID: orderID})
	}

	held, ok := c.store.FindHeld(orderID)
	if !ok {
		c.notifier.Error("Held order not found")
		return ErrHeldOrderNotFound
	}

	current := c.store.Current()
	if !current.IsEmpty() {
		c.confirm(
			"RETRIEVE HELD ORDER",
			fmt.Sprintf("Current order has %d items. Retrieving Order #%d (%s) will replace the current order. Continue?",
				len(current.Items), held.ID, held.Customer),
			modal.ToneWarning,
			RetrieveHeld{Order: held},
		)
		return nil
	}

	return c.retrieve(ctx, held)
}

func (c *Controller) retrieve(ctx context.Context, held models.Order) error {
	if err := c.store.RetrieveHeld(ctx, held); err != nil {
		return err
	}
	c.modals.Close(modal.KindHeldOrders)
	return nil
}

// RequestDeleteHeld asks to permanently delete a held order
func (c *Controller) RequestDeleteHeld(orderID int64) error {
	held, ok := c.store.FindHeld(orderID)
	if !ok {
		c.notifier.Error("Held order not found")
		return ErrHeldOrderNotFound
	}

	c.confirm(
		"DELETE HELD ORDER",
		fmt.Sprintf("Permanently delete Order #%d (%s) with %d items? This cannot be undone.",
			held.ID, held.Customer, len(held.Items)),
		modal.ToneDanger,
		DeleteHeld{OrderID: held.ID},
	)
	return nil
}

// CloseModal dismisses a modal. Closing a checkout step abandons checkout.
func (c *Controller) CloseModal(kind modal.Kind) error {
	switch kind {
	case modal.KindConfirmation:
		c.Decline()
		return nil
	case modal.KindPayment, modal.KindGcashReference, modal.KindCashPayment,
		modal.KindReceiptSelection, modal.KindPrintPreview, modal.KindEmailReceipt:
		return c.CancelPayment()
	default:
		c.modals.Close(kind)
		return nil
	}
}
