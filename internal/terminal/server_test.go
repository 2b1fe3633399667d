package terminal

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/ashendes/pos-terminal/internal/checkout"
	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/ashendes/pos-terminal/internal/modal"
	"github.com/ashendes/pos-terminal/internal/notify"
	"github.com/ashendes/pos-terminal/internal/orderapi"
	"github.com/ashendes/pos-terminal/internal/orderbackend"
	"github.com/ashendes/pos-terminal/internal/ordernum"
	"github.com/ashendes/pos-terminal/internal/pos"
	"github.com/ashendes/pos-terminal/internal/receipt"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type harness struct {
	router  http.Handler
	session *Session
	printer *bytes.Buffer
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	backend := httptest.NewServer(orderbackend.New(0).Router())
	t.Cleanup(backend.Close)

	orders := orderapi.NewClient(config.OrderServiceConfig{
		BaseURL: backend.URL,
		Timeout: 2 * time.Second,
		Paths: config.PathsConfig{
			Orders:      "/api/orders",
			Order:       "/api/orders/{id}",
			OrderStatus: "/api/orders/{id}/status",
			OrderCancel: "/api/orders/{id}/cancel",
		},
	})

	notifier := notify.NewNotifier(time.Minute)
	t.Cleanup(notifier.Stop)
	events := notify.NewRecorder(0)
	notifier.Subscribe(events.Record)

	store := pos.NewStore(orders, notifier)
	modals := modal.NewManager()
	dispatcher := receipt.NewDispatcher(
		receipt.NewEmailJSSender(config.EmailConfig{}),
		receipt.StoreInfo{Name: "Cardiac Delights"},
	)
	numbers := ordernum.NewAllocator(ordernum.NewMemoryStore(), 0)
	ctrl := checkout.NewController(store, modals, notifier, dispatcher, numbers, config.WorkflowConfig{
		TakeoutDelay: 10 * time.Millisecond,
	})
	t.Cleanup(ctrl.Close)

	session := &Session{
		Store:    store,
		Checkout: ctrl,
		Modals:   modals,
		Notifier: notifier,
		Events:   events,
		Numbers:  numbers,
		Receipts: dispatcher,
		Menu:     DefaultMenu,
		Orders:   orders,
	}

	printer := &bytes.Buffer{}
	return &harness{
		router:  NewServer(session, printer).Router(),
		session: session,
		printer: printer,
	}
}

func (h *harness) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.router.ServeHTTP(w, req)
	return w
}

type snapshotView struct {
	Order struct {
		ID       int64  `json:"id"`
		Customer string `json:"customer"`
		Type     string `json:"type"`
		Notes    string `json:"notes"`
		Items    []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Quantity int    `json:"quantity"`
		} `json:"items"`
		Subtotal decimal.Decimal `json:"subtotal"`
		Discount decimal.Decimal `json:"discount"`
		Total    decimal.Decimal `json:"total"`
	} `json:"order"`
	DisplayNumber string `json:"display_number"`
	HeldOrders    []struct {
		ID       int64  `json:"id"`
		Customer string `json:"customer"`
	} `json:"held_orders"`
	CheckoutState string `json:"checkout_state"`
	Sale          *struct {
		DisplayNumber string `json:"display_number"`
	} `json:"sale"`
	Modals []struct {
		Kind    string `json:"kind"`
		Command string `json:"command"`
	} `json:"modals"`
	Notification *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"notification"`
	OrderService string `json:"order_service_circuit"`
}

func (v snapshotView) hasModal(kind modal.Kind) bool {
	for _, m := range v.Modals {
		if m.Kind == string(kind) {
			return true
		}
	}
	return false
}

func decodeSnapshot(t *testing.T, w *httptest.ResponseRecorder) snapshotView {
	t.Helper()
	var view snapshotView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view), w.Body.String())
	return view
}

type errorView struct {
	Error   string       `json:"error"`
	Session snapshotView `json:"session"`
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorView {
	t.Helper()
	var view errorView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view), w.Body.String())
	return view
}

func (h *harness) addMenuItem(t *testing.T, id string) snapshotView {
	t.Helper()
	w := h.do(t, http.MethodPost, "/api/order/items", gin.H{"menu_id": id})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decodeSnapshot(t, w)
}

func (h *harness) accept(t *testing.T) *httptest.ResponseRecorder {
	t.Helper()
	return h.do(t, http.MethodPost, "/api/confirmation/accept", nil)
}

func TestHealthAndRequestID(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"healthy"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "till-1")
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	assert.Equal(t, "till-1", rec.Header().Get("X-Request-ID"))
}

func TestMenu(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/api/menu?category="+CategoryBeverages, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Items []MenuItem `json:"items"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Items, 9)
	assert.Equal(t, "Coke", body.Items[0].Name)
}

func TestAddItems(t *testing.T) {
	h := newHarness(t)

	h.addMenuItem(t, "37")
	view := h.addMenuItem(t, "37")
	require.Len(t, view.Order.Items, 1)
	assert.Equal(t, 2, view.Order.Items[0].Quantity)
	assert.Equal(t, "60", view.Order.Subtotal.String())
	assert.Equal(t, "001", view.DisplayNumber)
	assert.Equal(t, "idle", view.CheckoutState)
	assert.Equal(t, "closed", view.OrderService)

	w := h.do(t, http.MethodPost, "/api/order/items", gin.H{"name": "Extra Egg", "price": 20, "quantity": 3})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decodeSnapshot(t, w).Order.Items, 2)

	tests := []struct {
		name   string
		body   gin.H
		status int
	}{
		{"unknown menu id", gin.H{"menu_id": "999"}, http.StatusNotFound},
		{"missing name", gin.H{"price": 10}, http.StatusUnprocessableEntity},
		{"missing price", gin.H{"name": "Egg"}, http.StatusUnprocessableEntity},
		{"negative price", gin.H{"name": "Egg", "price": -1}, http.StatusUnprocessableEntity},
		{"negative quantity", gin.H{"name": "Egg", "price": 10, "quantity": -2}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := h.do(t, http.MethodPost, "/api/order/items", tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
		})
	}
}

func TestQuantityAndRemoveNeedConfirmation(t *testing.T) {
	h := newHarness(t)
	view := h.addMenuItem(t, "37")
	itemID := view.Order.Items[0].ID

	w := h.do(t, http.MethodPut, "/api/order/items/"+itemID, gin.H{"quantity": 4})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 4, decodeSnapshot(t, w).Order.Items[0].Quantity)

	w = h.do(t, http.MethodPut, "/api/order/items/"+itemID, gin.H{"quantity": 0})
	require.Equal(t, http.StatusOK, w.Code)
	view = decodeSnapshot(t, w)
	require.Len(t, view.Order.Items, 1)
	require.True(t, view.hasModal(modal.KindConfirmation))
	assert.Equal(t, "remove-item", view.Modals[0].Command)

	w = h.accept(t)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSnapshot(t, w).Order.Items)

	w = h.do(t, http.MethodDelete, "/api/order/items/nope", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = h.do(t, http.MethodPut, "/api/order/items/"+itemID, gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCashCheckoutAndPrint(t *testing.T) {
	h := newHarness(t)
	h.addMenuItem(t, "10")

	w := h.do(t, http.MethodPost, "/api/checkout/begin", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeSnapshot(t, w)
	require.Len(t, view.Modals, 1)
	assert.Equal(t, "open-payment", view.Modals[0].Command)

	w = h.accept(t)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "awaiting_payment_method", decodeSnapshot(t, w).CheckoutState)

	w = h.do(t, http.MethodPost, "/api/checkout/method", gin.H{"method": "cash"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "awaiting_cash_amount", decodeSnapshot(t, w).CheckoutState)

	w = h.do(t, http.MethodPut, "/api/checkout/cash", gin.H{"amount": "100"})
	require.Equal(t, http.StatusOK, w.Code)
	w = h.do(t, http.MethodPost, "/api/checkout/cash/confirm", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Insufficient amount received", decodeError(t, w).Session.Notification.Message)

	w = h.do(t, http.MethodPut, "/api/checkout/cash", gin.H{"amount": "300"})
	require.Equal(t, http.StatusOK, w.Code)
	w = h.do(t, http.MethodPost, "/api/checkout/cash/confirm", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view = decodeSnapshot(t, w)
	assert.Equal(t, "awaiting_receipt_choice", view.CheckoutState)
	require.NotNil(t, view.Sale)
	assert.Equal(t, "001", view.Sale.DisplayNumber)
	assert.Empty(t, view.Order.Items)
	assert.Equal(t, "002", view.DisplayNumber)
	assert.True(t, view.hasModal(modal.KindReceiptSelection))

	w = h.do(t, http.MethodPost, "/api/checkout/receipt", gin.H{"choice": "print"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "print_preview", decodeSnapshot(t, w).CheckoutState)

	w = h.do(t, http.MethodGet, "/api/checkout/receipt", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Bagnet Sisig")

	w = h.do(t, http.MethodGet, "/api/checkout/receipt?format=html", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
	assert.Contains(t, w.Body.String(), "Cardiac Delights")

	w = h.do(t, http.MethodPost, "/api/checkout/print", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var printed struct {
		Receipt string       `json:"receipt"`
		Session snapshotView `json:"session"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &printed))
	assert.Contains(t, printed.Receipt, "Bagnet Sisig")
	assert.Equal(t, printed.Receipt, h.printer.String())
	assert.Equal(t, "idle", printed.Session.CheckoutState)
	assert.Equal(t, "Receipt sent to printer", printed.Session.Notification.Message)

	w = h.do(t, http.MethodGet, "/api/checkout/receipt", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestEmailReceiptWithoutConfiguration(t *testing.T) {
	h := newHarness(t)
	h.addMenuItem(t, "37")

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/checkout/begin", nil).Code)
	require.Equal(t, http.StatusOK, h.accept(t).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/checkout/method", gin.H{"method": "gcash"}).Code)

	w := h.do(t, http.MethodPost, "/api/checkout/gcash/confirm", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/api/checkout/gcash", gin.H{"reference": "GC-123"}).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/checkout/gcash/confirm", nil).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/checkout/receipt", gin.H{"choice": "email"}).Code)

	w = h.do(t, http.MethodPost, "/api/checkout/email/send", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/api/checkout/email", gin.H{"email": "dana@example.com"}).Code)
	w = h.do(t, http.MethodPost, "/api/checkout/email/send", nil)
	require.Equal(t, http.StatusServiceUnavailable, w.Code)
	view := decodeError(t, w)
	assert.Equal(t, "awaiting_email_address", view.Session.CheckoutState)
	assert.Equal(t, "error", view.Session.Notification.Type)

	w = h.do(t, http.MethodPost, "/api/checkout/cancel", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view2 := decodeSnapshot(t, w)
	assert.Equal(t, "idle", view2.CheckoutState)
	assert.Nil(t, view2.Sale)
}

func TestCheckoutErrors(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodPost, "/api/checkout/begin", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "Please add items to the order before processing payment", decodeError(t, w).Session.Notification.Message)

	w = h.do(t, http.MethodPost, "/api/checkout/method", gin.H{"method": "cash"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.accept(t)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = h.do(t, http.MethodPost, "/api/checkout/method", gin.H{})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHoldRetrieveAndDelete(t *testing.T) {
	h := newHarness(t)
	h.addMenuItem(t, "37")

	w := h.do(t, http.MethodPut, "/api/order/customer", gin.H{"name": "Dana"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Dana", decodeSnapshot(t, w).Order.Customer)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/order/hold", nil).Code)
	w = h.accept(t)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeSnapshot(t, w)
	assert.Empty(t, view.Order.Items)
	require.Len(t, view.HeldOrders, 1)
	heldID := view.HeldOrders[0].ID
	assert.Equal(t, "Dana", view.HeldOrders[0].Customer)

	w = h.do(t, http.MethodGet, "/api/held", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeSnapshot(t, w).hasModal(modal.KindHeldOrders))

	w = h.do(t, http.MethodPost, "/api/held/abc/retrieve", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = h.do(t, http.MethodPost, "/api/held/"+strconv.FormatInt(heldID, 10)+"/retrieve", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view = decodeSnapshot(t, w)
	assert.Equal(t, heldID, view.Order.ID)
	assert.Equal(t, "Dana", view.Order.Customer)
	assert.Empty(t, view.HeldOrders)
	assert.Equal(t, "001", view.DisplayNumber)

	// showing a retrieved order does not use up its number
	w = h.do(t, http.MethodGet, "/api/display-number", nil)
	assert.JSONEq(t, `{"display_number":"001"}`, w.Body.String())
	_, assigned, err := h.session.Numbers.Lookup(context.Background(), heldID)
	require.NoError(t, err)
	assert.False(t, assigned)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/order/hold", nil).Code)
	require.Equal(t, http.StatusOK, h.accept(t).Code)

	w = h.do(t, http.MethodDelete, "/api/held/999", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	held := h.session.Store.HeldOrders()
	require.Len(t, held, 1)
	w = h.do(t, http.MethodDelete, "/api/held/"+strconv.FormatInt(held[0].ID, 10), nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "delete-held", decodeSnapshot(t, w).Modals[0].Command)

	w = h.accept(t)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSnapshot(t, w).HeldOrders)
}

func TestVoidAndDecline(t *testing.T) {
	h := newHarness(t)
	h.addMenuItem(t, "37")

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/order/void", nil).Code)
	w := h.do(t, http.MethodPost, "/api/confirmation/decline", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeSnapshot(t, w)
	assert.Len(t, view.Order.Items, 1)
	assert.Empty(t, view.Modals)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/order/void", nil).Code)
	w = h.accept(t)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, decodeSnapshot(t, w).Order.Items)

	w = h.do(t, http.MethodPost, "/api/order/void", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, "No items to void", decodeError(t, w).Session.Notification.Message)
}

func TestNotesAndDiscount(t *testing.T) {
	h := newHarness(t)
	h.addMenuItem(t, "8")

	w := h.do(t, http.MethodPut, "/api/notes", gin.H{"draft": "extra crispy"})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/notes/open", nil).Code)
	require.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/api/notes", gin.H{"draft": "extra crispy"}).Code)
	w = h.do(t, http.MethodPost, "/api/notes/save", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "extra crispy", decodeSnapshot(t, w).Order.Notes)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/discount/open", nil).Code)
	w = h.do(t, http.MethodPut, "/api/discount", gin.H{"type": "senior", "id_number": "12"})
	require.Equal(t, http.StatusOK, w.Code)
	w = h.do(t, http.MethodPost, "/api/discount/apply", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPut, "/api/discount", gin.H{"type": "senior", "id_number": "1234"}).Code)
	w = h.do(t, http.MethodPost, "/api/discount/apply", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	view := decodeSnapshot(t, w)
	assert.Equal(t, "126.00", view.Order.Discount.StringFixed(2))
	assert.Equal(t, "579.60", view.Order.Total.StringFixed(2))

	w = h.do(t, http.MethodDelete, "/api/discount", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, decodeSnapshot(t, w).Order.Discount.IsZero())
}

func TestTakeoutStartsPayment(t *testing.T) {
	h := newHarness(t)
	h.addMenuItem(t, "37")

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/order/takeout", nil).Code)
	w := h.accept(t)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Takeout", decodeSnapshot(t, w).Order.Type)

	assert.Eventually(t, func() bool {
		conf, ok := modal.Lookup[modal.Confirmation](h.session.Modals)
		return ok && conf.Title == "PROCESS PAYMENT"
	}, time.Second, 5*time.Millisecond)

	view := decodeSnapshot(t, h.do(t, http.MethodGet, "/api/session", nil))
	require.Len(t, view.Modals, 1)
	assert.Equal(t, "open-payment", view.Modals[0].Command)
}

func TestNotificationsAndEvents(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/api/notification", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	h.do(t, http.MethodPost, "/api/order/hold", nil)

	w = h.do(t, http.MethodGet, "/api/notification", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var note notify.Notification
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.Equal(t, "No items to hold", note.Message)

	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodDelete, "/api/notification", nil).Code)
	assert.Equal(t, http.StatusNoContent, h.do(t, http.MethodGet, "/api/notification", nil).Code)

	w = h.do(t, http.MethodGet, "/api/events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var events struct {
		Events []notify.Notification `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &events))
	require.Len(t, events.Events, 1)
	assert.Equal(t, notify.TypeError, events.Events[0].Type)
}

func TestCloseModalCancelsPayment(t *testing.T) {
	h := newHarness(t)
	h.addMenuItem(t, "37")

	require.Equal(t, http.StatusOK, h.do(t, http.MethodPost, "/api/checkout/begin", nil).Code)
	require.Equal(t, http.StatusOK, h.accept(t).Code)

	w := h.do(t, http.MethodDelete, "/api/modals/payment", nil)
	require.Equal(t, http.StatusOK, w.Code)
	view := decodeSnapshot(t, w)
	assert.Equal(t, "idle", view.CheckoutState)
	assert.Empty(t, view.Modals)
	assert.Len(t, view.Order.Items, 1)
}

func TestDisplayNumberEndpoints(t *testing.T) {
	h := newHarness(t)

	w := h.do(t, http.MethodGet, "/api/display-number", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"display_number":"001"}`, w.Body.String())

	_, err := h.session.Numbers.Assign(context.Background(), 42)
	require.NoError(t, err)

	w = h.do(t, http.MethodGet, "/api/display-number", nil)
	assert.JSONEq(t, `{"display_number":"002"}`, w.Body.String())

	w = h.do(t, http.MethodPost, "/api/display-number/reset", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "001", decodeSnapshot(t, w).DisplayNumber)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{checkout.ErrWrongState, http.StatusConflict},
		{pos.ErrBusy, http.StatusConflict},
		{checkout.ErrHeldOrderNotFound, http.StatusNotFound},
		{checkout.ErrInsufficientAmount, http.StatusUnprocessableEntity},
		{pos.ErrInvalidOrderID, http.StatusUnprocessableEntity},
		{receipt.ErrNotConfigured, http.StatusServiceUnavailable},
		{assert.AnError, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
