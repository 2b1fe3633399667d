package checkout

import "github.com/ashendes/pos-terminal/internal/models"

// Pending commands carried by a confirmation until it is accepted.

// OpenPayment starts checkout on the current order
type OpenPayment struct{}

// HoldOrder parks the current order on the server
type HoldOrder struct{}

// VoidOrder discards the current order
type VoidOrder struct{}

// MarkTakeout switches the order to takeout before payment
type MarkTakeout struct{}

// RemoveItem drops one line from the order
type RemoveItem struct {
	ItemID string `json:"item_id"`
}

// RetrieveHeld makes a held order current
type RetrieveHeld struct {
	Order models.Order `json:"order"`
}

// DeleteHeld removes a held order from the server
type DeleteHeld struct {
	OrderID int64 `json:"order_id"`
}

func (OpenPayment) CommandName() string  { return "open-payment" }
func (HoldOrder) CommandName() string    { return "hold-order" }
func (VoidOrder) CommandName() string    { return "void-order" }
func (MarkTakeout) CommandName() string  { return "mark-takeout" }
func (RemoveItem) CommandName() string   { return "remove-item" }
func (RetrieveHeld) CommandName() string { return "retrieve-held" }
func (DeleteHeld) CommandName() string   { return "delete-held" }
