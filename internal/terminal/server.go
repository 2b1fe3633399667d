package terminal

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/ashendes/pos-terminal/internal/checkout"
	"github.com/ashendes/pos-terminal/internal/metrics"
	"github.com/ashendes/pos-terminal/internal/modal"
	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/ashendes/pos-terminal/internal/pos"
	"github.com/ashendes/pos-terminal/internal/receipt"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

const serviceName = "pos-terminal"

// Server exposes a session over JSON HTTP
type Server struct {
	session *Session
	printer io.Writer
}

// NewServer creates a server; printed receipts are also copied to printer when it is non-nil
func NewServer(session *Session, printer io.Writer) *Server {
	return &Server{session: session, printer: printer}
}

// Router builds the gin engine
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestID())
	router.Use(metrics.PrometheusMiddleware(serviceName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := router.Group("/api")
	api.GET("/session", s.getSession)
	api.GET("/menu", s.getMenu)

	order := api.Group("/order")
	order.POST("/items", s.addItem)
	order.PUT("/items/:itemId", s.updateItem)
	order.DELETE("/items/:itemId", s.removeItem)
	order.PUT("/customer", s.renameCustomer)
	order.POST("/new", s.newOrder)
	order.POST("/hold", s.requestHold)
	order.POST("/void", s.requestVoid)
	order.POST("/takeout", s.requestTakeout)

	notes := api.Group("/notes")
	notes.POST("/open", s.openNotes)
	notes.PUT("", s.setNotes)
	notes.POST("/save", s.saveNotes)

	discount := api.Group("/discount")
	discount.POST("/open", s.openDiscount)
	discount.PUT("", s.setDiscount)
	discount.POST("/apply", s.applyDiscount)
	discount.DELETE("", s.clearDiscount)

	api.POST("/confirmation/accept", s.acceptConfirmation)
	api.POST("/confirmation/decline", s.declineConfirmation)

	co := api.Group("/checkout")
	co.POST("/begin", s.beginPayment)
	co.POST("/method", s.choosePaymentMethod)
	co.PUT("/gcash", s.setGcashReference)
	co.POST("/gcash/confirm", s.confirmGcash)
	co.PUT("/cash", s.setCashAmount)
	co.POST("/cash/confirm", s.confirmCash)
	co.POST("/cancel", s.cancelPayment)
	co.POST("/receipt", s.chooseReceipt)
	co.GET("/receipt", s.previewReceipt)
	co.POST("/print", s.printReceipt)
	co.PUT("/email", s.setReceiptEmail)
	co.POST("/email/send", s.sendEmailReceipt)

	held := api.Group("/held")
	held.GET("", s.openHeldOrders)
	held.POST("/:orderId/retrieve", s.retrieveHeld)
	held.DELETE("/:orderId", s.deleteHeld)

	api.DELETE("/modals/:kind", s.closeModal)
	api.GET("/notification", s.getNotification)
	api.DELETE("/notification", s.dismissNotification)
	api.GET("/events", s.getEvents)

	api.GET("/display-number", s.peekDisplayNumber)
	api.POST("/display-number/reset", s.resetDisplayNumbers)

	return router
}

func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func (s *Server) respond(c *gin.Context) {
	c.JSON(http.StatusOK, s.session.Snapshot(c.Request.Context()))
}

// respondResult answers with the session snapshot, or the error and the snapshot
func (s *Server) respondResult(c *gin.Context, err error) {
	if err == nil {
		s.respond(c)
		return
	}

	status := statusFor(err)
	log.WithFields(log.Fields{
		"request_id": c.GetString("request_id"),
		"path":       c.FullPath(),
		"status":     status,
		"error":      err.Error(),
	}).Warn("Terminal request failed")

	c.JSON(status, gin.H{
		"error":   err.Error(),
		"session": s.session.Snapshot(c.Request.Context()),
	})
}

func badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, checkout.ErrWrongState),
		errors.Is(err, checkout.ErrNoConfirmation),
		errors.Is(err, pos.ErrBusy):
		return http.StatusConflict
	case errors.Is(err, checkout.ErrUnknownItem),
		errors.Is(err, checkout.ErrHeldOrderNotFound),
		errors.Is(err, errUnknownMenuItem):
		return http.StatusNotFound
	case errors.Is(err, pos.ErrEmptyOrder),
		errors.Is(err, pos.ErrInvalidOrderID),
		errors.Is(err, checkout.ErrEmptyOrder),
		errors.Is(err, checkout.ErrInvalidMethod),
		errors.Is(err, checkout.ErrMissingReference),
		errors.Is(err, checkout.ErrInvalidAmount),
		errors.Is(err, checkout.ErrInsufficientAmount),
		errors.Is(err, checkout.ErrInvalidChoice),
		errors.Is(err, checkout.ErrMissingEmail),
		errors.Is(err, checkout.ErrDiscountType),
		errors.Is(err, checkout.ErrDiscountID),
		errors.Is(err, checkout.ErrDiscountValue),
		errors.Is(err, checkout.ErrDiscountFormClosed),
		errors.Is(err, checkout.ErrNotesEditorClosed),
		errors.Is(err, receipt.ErrInvalidAddress),
		errors.Is(err, errInvalidItem):
		return http.StatusUnprocessableEntity
	case errors.Is(err, receipt.ErrNotConfigured),
		errors.Is(err, receipt.ErrMissingPublicKey):
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}

func (s *Server) getSession(c *gin.Context) {
	s.respond(c)
}

func (s *Server) getMenu(c *gin.Context) {
	if category := c.Query("category"); category != "" {
		c.JSON(http.StatusOK, gin.H{
			"category": category,
			"items":    s.session.Menu.InCategory(category),
		})
		return
	}
	c.JSON(http.StatusOK, s.session.Menu)
}

var (
	errUnknownMenuItem = errors.New("unknown menu item")
	errInvalidItem     = errors.New("item needs a name, a non-negative price and a positive quantity")
)

type addItemRequest struct {
	MenuID   string              `json:"menu_id"`
	Name     string              `json:"name"`
	Price    decimal.NullDecimal `json:"price"`
	Quantity int                 `json:"quantity"`
	Category string              `json:"category"`
}

func (s *Server) addItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	if req.Quantity == 0 {
		req.Quantity = 1
	}

	if req.MenuID != "" {
		entry, ok := s.session.Menu.Find(req.MenuID)
		if !ok {
			s.respondResult(c, errUnknownMenuItem)
			return
		}
		req.Name, req.Price, req.Category = entry.Name, decimal.NewNullDecimal(entry.Price), entry.Category
	}

	if req.Name == "" || !req.Price.Valid || req.Price.Decimal.IsNegative() || req.Quantity < 0 {
		s.respondResult(c, errInvalidItem)
		return
	}

	s.session.Store.AddItem(req.Name, req.Quantity, req.Price.Decimal, req.Category)
	s.respond(c)
}

type quantityRequest struct {
	Quantity *int `json:"quantity" binding:"required"`
}

func (s *Server) updateItem(c *gin.Context) {
	var req quantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.UpdateQuantity(c.Param("itemId"), *req.Quantity))
}

func (s *Server) removeItem(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.RequestRemoveItem(c.Param("itemId")))
}

type customerRequest struct {
	Name string `json:"name"`
}

func (s *Server) renameCustomer(c *gin.Context) {
	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.session.Checkout.RenameCustomer(req.Name)
	s.respond(c)
}

func (s *Server) newOrder(c *gin.Context) {
	s.session.Store.NewOrder()
	s.respond(c)
}

func (s *Server) requestHold(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.RequestHold())
}

func (s *Server) requestVoid(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.RequestVoid())
}

func (s *Server) requestTakeout(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.RequestTakeout())
}

func (s *Server) openNotes(c *gin.Context) {
	s.session.Checkout.OpenNotes()
	s.respond(c)
}

type notesRequest struct {
	Draft string `json:"draft"`
}

func (s *Server) setNotes(c *gin.Context) {
	var req notesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.SetNotesDraft(req.Draft))
}

func (s *Server) saveNotes(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.SaveNotes())
}

func (s *Server) openDiscount(c *gin.Context) {
	s.session.Checkout.OpenDiscount()
	s.respond(c)
}

func (s *Server) setDiscount(c *gin.Context) {
	var form modal.Discount
	if err := c.ShouldBindJSON(&form); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.SetDiscountForm(form))
}

func (s *Server) applyDiscount(c *gin.Context) {
	_, err := s.session.Checkout.ApplyDiscount()
	s.respondResult(c, err)
}

func (s *Server) clearDiscount(c *gin.Context) {
	s.session.Checkout.ClearDiscount()
	s.respond(c)
}

func (s *Server) acceptConfirmation(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.Accept(c.Request.Context()))
}

func (s *Server) declineConfirmation(c *gin.Context) {
	s.session.Checkout.Decline()
	s.respond(c)
}

func (s *Server) beginPayment(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.BeginPayment())
}

type methodRequest struct {
	Method models.PaymentMethod `json:"method" binding:"required"`
}

func (s *Server) choosePaymentMethod(c *gin.Context) {
	var req methodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.ChoosePaymentMethod(req.Method))
}

type referenceRequest struct {
	Reference string `json:"reference"`
}

func (s *Server) setGcashReference(c *gin.Context) {
	var req referenceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.SetGcashReference(req.Reference))
}

func (s *Server) confirmGcash(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.ConfirmGcash(c.Request.Context()))
}

type cashRequest struct {
	Amount string `json:"amount"`
}

func (s *Server) setCashAmount(c *gin.Context) {
	var req cashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.SetCashAmount(req.Amount))
}

func (s *Server) confirmCash(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.ConfirmCash(c.Request.Context()))
}

func (s *Server) cancelPayment(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.CancelPayment())
}

type receiptChoiceRequest struct {
	Choice checkout.ReceiptChoice `json:"choice" binding:"required"`
}

func (s *Server) chooseReceipt(c *gin.Context) {
	var req receiptChoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.ChooseReceipt(req.Choice))
}

// previewReceipt renders the pending sale's receipt as text or, with format=html, as HTML
func (s *Server) previewReceipt(c *gin.Context) {
	sale, ok := s.session.Checkout.Sale()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No completed sale awaiting a receipt"})
		return
	}

	data := receipt.Build(sale, time.Now())
	info := s.session.Receipts.Store()

	if c.Query("format") == "html" {
		html, err := receipt.RenderHTML(data, info)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
		return
	}

	var buf bytes.Buffer
	if err := receipt.RenderText(&buf, data, info); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.String(http.StatusOK, buf.String())
}

func (s *Server) printReceipt(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.session.Checkout.ConfirmPrint(&buf); err != nil {
		s.respondResult(c, err)
		return
	}

	if s.printer != nil {
		if _, err := s.printer.Write(buf.Bytes()); err != nil {
			log.WithError(err).Warn("Failed to copy receipt to printer")
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"receipt": buf.String(),
		"session": s.session.Snapshot(c.Request.Context()),
	})
}

type emailRequest struct {
	Email string `json:"email"`
}

func (s *Server) setReceiptEmail(c *gin.Context) {
	var req emailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	s.respondResult(c, s.session.Checkout.SetReceiptEmail(req.Email))
}

func (s *Server) sendEmailReceipt(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.SendEmailReceipt(c.Request.Context()))
}

func (s *Server) openHeldOrders(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.OpenHeldOrders(c.Request.Context()))
}

// a non-numeric id maps to 0, which the store rejects with a notification
func parseOrderID(c *gin.Context) int64 {
	id, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (s *Server) retrieveHeld(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.RequestRetrieveHeld(c.Request.Context(), parseOrderID(c)))
}

func (s *Server) deleteHeld(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.RequestDeleteHeld(parseOrderID(c)))
}

func (s *Server) closeModal(c *gin.Context) {
	s.respondResult(c, s.session.Checkout.CloseModal(modal.Kind(c.Param("kind"))))
}

func (s *Server) getNotification(c *gin.Context) {
	note, ok := s.session.Notifier.Current()
	if !ok {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, note)
}

func (s *Server) dismissNotification(c *gin.Context) {
	s.session.Notifier.Dismiss()
	c.Status(http.StatusNoContent)
}

func (s *Server) getEvents(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"events": s.session.Events.All()})
}

func (s *Server) peekDisplayNumber(c *gin.Context) {
	number, err := s.session.Numbers.Peek(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"display_number": number})
}

func (s *Server) resetDisplayNumbers(c *gin.Context) {
	if err := s.session.Numbers.Reset(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	s.respond(c)
}
