package modal

import (
	"sort"
	"sync"

	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/shopspring/decimal"
)

// Kind names a modal slot
type Kind string

// Modal kinds
const (
	KindPayment          Kind = "payment"
	KindConfirmation     Kind = "confirmation"
	KindHeldOrders       Kind = "held-orders"
	KindEmailReceipt     Kind = "email-receipt"
	KindReceiptSelection Kind = "receipt-selection"
	KindGcashReference   Kind = "gcash-reference"
	KindCashPayment      Kind = "cash-payment"
	KindNotes            Kind = "notes"
	KindDiscount         Kind = "discount"
	KindPrintPreview     Kind = "print-preview"
)

// Modal is one variant of the modal union. Only the types in this
// package implement it; reset returns the payload as it is after closing.
type Modal interface {
	Kind() Kind
	reset() Modal
}

// Command is a pending action held by a confirmation until it is accepted
type Command interface {
	CommandName() string
}

// Tone styles a confirmation
type Tone string

// Confirmation tones
const (
	ToneDefault Tone = "default"
	ToneDanger  Tone = "danger"
	ToneWarning Tone = "warning"
)

// Payment is the payment-method chooser
type Payment struct {
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"item_count"`
}

// Confirmation gates a consequential action behind an explicit accept
type Confirmation struct {
	Title   string  `json:"title"`
	Message string  `json:"message"`
	Tone    Tone    `json:"tone"`
	Command Command `json:"-"`
}

// HeldOrders is the held-orders browser
type HeldOrders struct {
	Orders []models.Order `json:"orders"`
}

// ReceiptSelection offers print, email or skip for a completed sale
type ReceiptSelection struct {
	Sale models.CompletedSale `json:"sale"`
}

// EmailReceipt captures the address a receipt is mailed to
type EmailReceipt struct {
	Sale  models.CompletedSale `json:"sale"`
	Email string               `json:"email"`
}

// GcashReference captures the e-wallet transaction reference
type GcashReference struct {
	Reference string `json:"reference"`
}

// CashPayment captures the tendered amount as typed
type CashPayment struct {
	Amount string `json:"amount"`
}

// Notes edits the order notes
type Notes struct {
	Draft string `json:"draft"`
}

// DiscountType is the discount category
type DiscountType string

// Discount categories
const (
	DiscountNone    DiscountType = ""
	DiscountSenior  DiscountType = "senior"
	DiscountPWD     DiscountType = "pwd"
	DiscountSpecial DiscountType = "special"
)

// DiscountMethod tells how a special discount value is read
type DiscountMethod string

// Discount methods
const (
	MethodPercentage DiscountMethod = "percentage"
	MethodFixed      DiscountMethod = "fixed"
)

// Discount is the discount form
type Discount struct {
	Type     DiscountType   `json:"type"`
	Method   DiscountMethod `json:"method"`
	Value    string         `json:"value"`
	Reason   string         `json:"reason"`
	IDNumber string         `json:"id_number"`
}

// PrintPreview shows the printable receipt for a completed sale
type PrintPreview struct {
	Sale models.CompletedSale `json:"sale"`
}

func (Payment) Kind() Kind          { return KindPayment }
func (Confirmation) Kind() Kind     { return KindConfirmation }
func (HeldOrders) Kind() Kind       { return KindHeldOrders }
func (ReceiptSelection) Kind() Kind { return KindReceiptSelection }
func (EmailReceipt) Kind() Kind     { return KindEmailReceipt }
func (GcashReference) Kind() Kind   { return KindGcashReference }
func (CashPayment) Kind() Kind      { return KindCashPayment }
func (Notes) Kind() Kind            { return KindNotes }
func (Discount) Kind() Kind         { return KindDiscount }
func (PrintPreview) Kind() Kind     { return KindPrintPreview }

func (Payment) reset() Modal          { return Payment{} }
func (Confirmation) reset() Modal     { return Confirmation{Tone: ToneDefault} }
func (HeldOrders) reset() Modal       { return HeldOrders{} }
func (ReceiptSelection) reset() Modal { return ReceiptSelection{} }
func (EmailReceipt) reset() Modal     { return EmailReceipt{} }
func (GcashReference) reset() Modal   { return GcashReference{} }
func (CashPayment) reset() Modal      { return CashPayment{} }
func (Notes) reset() Modal            { return Notes{} }
func (Discount) reset() Modal         { return NewDiscount() }
func (PrintPreview) reset() Modal     { return PrintPreview{} }

// NewDiscount returns an empty discount form
func NewDiscount() Discount {
	return Discount{Method: MethodPercentage}
}

type slot struct {
	open  bool
	modal Modal
}

// Manager tracks which modals are open and their payloads. Slots are
// independent; opening one does not close another.
type Manager struct {
	mu    sync.RWMutex
	slots map[Kind]*slot
}

// NewManager creates a manager with every slot closed
func NewManager() *Manager {
	return &Manager{slots: make(map[Kind]*slot)}
}

// Open opens the modal's slot with m as its payload
func (mgr *Manager) Open(m Modal) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.slots[m.Kind()] = &slot{open: true, modal: m}
}

// Close closes a slot and resets its payload
func (mgr *Manager) Close(kind Kind) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	mgr.closeLocked(kind)
}

func (mgr *Manager) closeLocked(kind Kind) {
	s, ok := mgr.slots[kind]
	if !ok {
		return
	}
	s.open = false
	s.modal = s.modal.reset()
}

// CloseAll closes every slot
func (mgr *Manager) CloseAll() {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	for kind := range mgr.slots {
		mgr.closeLocked(kind)
	}
}

func (mgr *Manager) IsOpen(kind Kind) bool {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	s, ok := mgr.slots[kind]
	return ok && s.open
}

func (mgr *Manager) AnyOpen() bool {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	for _, s := range mgr.slots {
		if s.open {
			return true
		}
	}
	return false
}

// OpenModals returns the open modals ordered by kind
func (mgr *Manager) OpenModals() []Modal {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	out := make([]Modal, 0, len(mgr.slots))
	for _, s := range mgr.slots {
		if s.open {
			out = append(out, s.modal)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Kind() < out[j].Kind() })
	return out
}

// Lookup returns the payload of an open modal of type T.
// T must be one of this package's value types.
func Lookup[T Modal](mgr *Manager) (T, bool) {
	var zero T
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	s, ok := mgr.slots[zero.Kind()]
	if !ok || !s.open {
		return zero, false
	}
	m, ok := s.modal.(T)
	return m, ok
}

// Update edits the payload of an open modal of type T in place.
// It reports false when the modal is closed.
func Update[T Modal](mgr *Manager, fn func(*T)) bool {
	var zero T
	mgr.mu.Lock()
	defer mgr.mu.Unlock()

	s, ok := mgr.slots[zero.Kind()]
	if !ok || !s.open {
		return false
	}
	m, ok := s.modal.(T)
	if !ok {
		return false
	}
	fn(&m)
	s.modal = m
	return true
}
