package pos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"github.com/ashendes/pos-terminal/internal/metrics"
	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/ashendes/pos-terminal/internal/patterns"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

var (
	// ErrEmptyOrder is returned when a transition needs at least one item
	ErrEmptyOrder = errors.New("order has no items")
	// ErrInvalidOrderID is returned when a held order has no server id
	ErrInvalidOrderID = errors.New("invalid order id")
	// ErrBusy is returned when another remote transition is in flight
	ErrBusy = errors.New("another action is still in progress")
)

// OrderService is the remote order API the store persists through
type OrderService interface {
	CreateOrder(ctx context.Context, req models.CreateOrderRequest) (int64, error)
	ListHeldOrders(ctx context.Context) ([]models.OrderRecord, error)
	UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) error
	CancelOrder(ctx context.Context, orderID int64) error
	DeleteOrder(ctx context.Context, orderID int64) error
}

// Notifier receives one message per operation outcome
type Notifier interface {
	Success(message string)
	Error(message string)
	Info(message string)
}

// Store owns the current order and the held-orders cache.
// Remote calls never run with mu held; the busy guard serialises them.
type Store struct {
	mu         sync.RWMutex
	current    models.Order
	held       []models.Order
	processing bool

	orders   OrderService
	notifier Notifier
	busy     *patterns.Bulkhead
	newID    func() string
}

// NewStore creates a store with an empty current order
func NewStore(orders OrderService, notifier Notifier) *Store {
	return &Store{
		current:  models.NewOrder(),
		held:     []models.Order{},
		orders:   orders,
		notifier: notifier,
		busy:     patterns.NewBulkhead(1, 0, "order-transitions", "pos-terminal"),
		newID:    uuid.NewString,
	}
}

// Current returns a copy of the current order
func (s *Store) Current() models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current.Clone()
}

// HeldOrders returns a copy of the held-orders cache
func (s *Store) HeldOrders() []models.Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Order, 0, len(s.held))
	for _, order := range s.held {
		out = append(out, order.Clone())
	}
	return out
}

// FindHeld looks up a cached held order by server id
func (s *Store) FindHeld(orderID int64) (models.Order, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, order := range s.held {
		if order.ID == orderID {
			return order.Clone(), true
		}
	}
	return models.Order{}, false
}

// IsProcessing reports whether a remote transition is in flight
func (s *Store) IsProcessing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.processing
}

// AddItem merges into the line with the same name or appends a new line.
func (s *Store) AddItem(name string, quantity int, price decimal.Decimal, category string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if idx := s.current.FindItemByName(name); idx >= 0 {
		s.current.Items[idx].Quantity += quantity
	} else {
		s.current.Items = append(s.current.Items, models.OrderItem{
			ID:       s.newID(),
			Name:     name,
			Quantity: quantity,
			Price:    price,
			Category: category,
		})
	}
	s.current.Recalculate()
}

// RemoveItem deletes the line; unknown ids are ignored
func (s *Store) RemoveItem(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLocked(itemID)
}

func (s *Store) removeLocked(itemID string) {
	idx := s.current.FindItem(itemID)
	if idx < 0 {
		return
	}
	s.current.Items = append(s.current.Items[:idx], s.current.Items[idx+1:]...)
	s.current.Recalculate()
}

// SetItemQuantity updates a line; quantity <= 0 removes it
func (s *Store) SetItemQuantity(itemID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if quantity <= 0 {
		s.removeLocked(itemID)
		return
	}

	idx := s.current.FindItem(itemID)
	if idx < 0 {
		return
	}
	s.current.Items[idx].Quantity = quantity
	s.current.Recalculate()
}

// FindItem returns a copy of the line with the given id
func (s *Store) FindItem(itemID string) (models.OrderItem, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.current.FindItem(itemID)
	if idx < 0 {
		return models.OrderItem{}, false
	}
	return s.current.Items[idx], true
}

// ApplyDiscount sets the discount amount and recomputes the total
func (s *Store) ApplyDiscount(amount decimal.Decimal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.SetDiscount(amount)
}

// SetCustomerInfo sets the customer name and order type
func (s *Store) SetCustomerInfo(customer, orderType string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Customer = customer
	s.current.Type = orderType
}

// SetNotes replaces the order notes
func (s *Store) SetNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current.Notes = notes
}

// NewOrder discards the current order
func (s *Store) NewOrder() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = models.NewOrder()
}

// Hold parks the current order on the order service.
func (s *Store) Hold(ctx context.Context) error {
	snapshot := s.Current()
	if snapshot.IsEmpty() {
		s.notifier.Error("Cannot hold empty order")
		metrics.OrdersTotal.WithLabelValues("hold", "rejected").Inc()
		return ErrEmptyOrder
	}

	return s.guard("hold", func() error {
		req := models.NewCreateOrderRequest(snapshot, models.OrderStatusHeld, nil)
		orderID, err := s.orders.CreateOrder(ctx, req)
		if err != nil {
			s.notifier.Error("Failed to hold order: " + describe(err))
			return fmt.Errorf("hold order: %w", err)
		}

		log.WithFields(log.Fields{
			"order_id": orderID,
			"items":    len(snapshot.Items),
			"total":    snapshot.Total.StringFixed(2),
		}).Info("Order held")

		s.NewOrder()
		s.reloadQuietly(ctx)
		s.notifier.Success("Order held successfully")
		return nil
	})
}

// Complete persists the current order as paid and returns it with its server id.
func (s *Store) Complete(ctx context.Context, payment models.Payment) (*models.Order, error) {
	snapshot := s.Current()
	if snapshot.IsEmpty() {
		s.notifier.Error("Cannot complete empty order")
		metrics.OrdersTotal.WithLabelValues("complete", "rejected").Inc()
		return nil, ErrEmptyOrder
	}

	var completed *models.Order
	err := s.guard("complete", func() error {
		req := models.NewCreateOrderRequest(snapshot, models.OrderStatusCompleted, &payment)
		orderID, err := s.orders.CreateOrder(ctx, req)
		if err != nil {
			s.notifier.Error("Failed to complete order: " + describe(err))
			return fmt.Errorf("complete order: %w", err)
		}

		order := snapshot
		order.ID = orderID
		order.Status = models.OrderStatusCompleted
		completed = &order

		metrics.PaymentAmount.WithLabelValues(string(payment.Method)).Observe(order.Total.InexactFloat64())
		log.WithFields(log.Fields{
			"order_id": orderID,
			"method":   payment.Method,
			"total":    order.Total.StringFixed(2),
		}).Info("Order completed")

		s.NewOrder()
		s.notifier.Success("Order completed successfully")
		return nil
	})
	if err != nil {
		return nil, err
	}

	return completed, nil
}

// Void cancels a persisted order when it has a server id, then always
// clears the current order locally.
func (s *Store) Void(ctx context.Context) error {
	snapshot := s.Current()

	if snapshot.ID <= 0 {
		return s.guard("void", func() error {
			s.NewOrder()
			s.notifier.Info("Order voided")
			log.Info("Order voided locally")
			return nil
		})
	}

	var cancelErr error
	err := s.guard("void", func() error {
		err := s.orders.CancelOrder(ctx, snapshot.ID)
		switch {
		case err == nil:
			s.notifier.Info("Order voided")
			s.reloadQuietly(ctx)
		case models.IsNotFound(err):
			log.WithField("order_id", snapshot.ID).Warn("Order not found on cancel, voiding locally")
			s.notifier.Info("Order not found in database. Voiding locally.")
		case models.HasStatus(err, http.StatusBadRequest):
			s.notifier.Error("Cannot cancel order: " + describe(err))
			cancelErr = err
		default:
			s.notifier.Error("Error canceling order: " + describe(err))
			cancelErr = err
		}

		s.NewOrder()
		return nil
	})
	if err != nil {
		return err
	}
	if cancelErr != nil {
		return fmt.Errorf("cancel order %d: %w", snapshot.ID, cancelErr)
	}
	return nil
}

// RetrieveHeld marks a held order pending and makes it the current order.
// Confirming the replacement of a non-empty current order is the caller's job.
func (s *Store) RetrieveHeld(ctx context.Context, held models.Order) error {
	if held.ID <= 0 {
		s.notifier.Error("Invalid order ID. Cannot retrieve order.")
		metrics.OrdersTotal.WithLabelValues("retrieve", "rejected").Inc()
		return ErrInvalidOrderID
	}

	return s.guard("retrieve", func() error {
		if err := s.orders.UpdateStatus(ctx, held.ID, models.OrderStatusPending); err != nil {
			s.notifier.Error(retrieveFailure(err))
			return fmt.Errorf("retrieve order %d: %w", held.ID, err)
		}

		order := held.Clone()
		order.Status = models.OrderStatusPending
		if order.Items == nil {
			order.Items = []models.OrderItem{}
		}

		s.mu.Lock()
		s.current = order
		s.mu.Unlock()

		log.WithField("order_id", held.ID).Info("Held order retrieved")

		s.reloadQuietly(ctx)
		s.notifier.Success("Order retrieved successfully")
		return nil
	})
}

// DeleteHeld permanently removes a held order
func (s *Store) DeleteHeld(ctx context.Context, orderID int64) error {
	if orderID <= 0 {
		s.notifier.Error("Failed to delete held order")
		metrics.OrdersTotal.WithLabelValues("delete", "rejected").Inc()
		return ErrInvalidOrderID
	}

	return s.guard("delete", func() error {
		if err := s.orders.DeleteOrder(ctx, orderID); err != nil {
			s.notifier.Error("Failed to delete held order")
			return fmt.Errorf("delete order %d: %w", orderID, err)
		}

		log.WithField("order_id", orderID).Info("Held order deleted")

		s.reloadQuietly(ctx)
		s.notifier.Success("Held order deleted successfully")
		return nil
	})
}

// ReloadHeldOrders replaces the held-orders cache with the server's list
func (s *Store) ReloadHeldOrders(ctx context.Context) error {
	records, err := s.orders.ListHeldOrders(ctx)
	if err != nil {
		return fmt.Errorf("load held orders: %w", err)
	}

	held := make([]models.Order, 0, len(records))
	for _, record := range records {
		held = append(held, record.ToOrder())
	}

	s.mu.Lock()
	s.held = held
	s.mu.Unlock()

	metrics.HeldOrders.Set(float64(len(held)))
	log.WithField("count", len(held)).Debug("Held orders reloaded")
	return nil
}

// a failed reload after a successful transition is logged, not surfaced
func (s *Store) reloadQuietly(ctx context.Context) {
	if err := s.ReloadHeldOrders(ctx); err != nil {
		log.WithError(err).Warn("Failed to refresh held orders")
	}
}

func (s *Store) guard(operation string, fn func() error) error {
	err := s.busy.Execute(func() error {
		s.setProcessing(true)
		defer s.setProcessing(false)
		return fn()
	})

	switch {
	case errors.Is(err, patterns.ErrBulkheadFull):
		s.notifier.Error("Another action is still in progress")
		metrics.OrdersTotal.WithLabelValues(operation, "busy").Inc()
		log.WithField("operation", operation).Warn("Rejected overlapping order transition")
		return ErrBusy
	case err != nil:
		metrics.OrdersTotal.WithLabelValues(operation, "error").Inc()
		return err
	default:
		metrics.OrdersTotal.WithLabelValues(operation, "success").Inc()
		return nil
	}
}

func (s *Store) setProcessing(processing bool) {
	s.mu.Lock()
	s.processing = processing
	s.mu.Unlock()
}

func describe(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Error()
	}
	return err.Error()
}

func retrieveFailure(err error) string {
	var apiErr *models.APIError
	if errors.As(err, &apiErr) {
		if strings.TrimSpace(apiErr.Detail) != "" {
			return apiErr.Detail
		}
		return fmt.Sprintf("Failed to retrieve order (Status: %d)", apiErr.StatusCode)
	}
	return "Error retrieving order"
}
