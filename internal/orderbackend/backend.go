package orderbackend

import (
	"fmt"
	"math/rand"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/ashendes/pos-terminal/internal/metrics"
	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

const serviceName = "order-backend"

// Backend is an in-memory implementation of the order service contract
// used for local runs and client tests.
type Backend struct {
	orders     map[int64]*models.OrderRecord
	nextID     int64
	nextItemID int64
	mutex      sync.RWMutex
	chaosRate  float64
	slowMode   bool
	slowDelay  func() time.Duration
	chaosMutex sync.RWMutex
	now        func() time.Time
}

// New creates a backend that fails the given fraction of requests with 503
func New(chaosRate float64) *Backend {
	b := &Backend{
		orders:    make(map[int64]*models.OrderRecord),
		slowDelay: randomDelay,
		now:       time.Now,
	}
	b.setChaosRate(chaosRate)
	return b
}

// Router builds a gin engine serving the order API, health, chaos and metrics endpoints
func (b *Backend) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(metrics.PrometheusMiddleware(serviceName))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/status", b.getStatus)

	b.RegisterRoutes(router.Group("/api"))

	// Chaos engineering endpoints
	router.POST("/chaos/enable", b.enableChaos)
	router.POST("/chaos/disable", b.disableChaos)
	router.POST("/chaos/slow", b.enableSlowMode)
	router.POST("/chaos/slow/disable", b.disableSlowMode)

	return router
}

// RegisterRoutes mounts the order endpoints under the given group
func (b *Backend) RegisterRoutes(api gin.IRouter) {
	orders := api.Group("/orders")
	orders.Use(b.chaosMiddleware())

	orders.POST("", b.createOrder)
	orders.GET("", b.listOrders)
	orders.GET("/:orderId", b.getOrder)
	orders.PUT("/:orderId/status", b.updateStatus)
	orders.PUT("/:orderId/cancel", b.cancelOrder)
	orders.DELETE("/:orderId", b.deleteOrder)
}

func (b *Backend) getStatus(c *gin.Context) {
	b.mutex.RLock()
	count := len(b.orders)
	b.mutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"service":    serviceName,
		"status":     "healthy",
		"orders":     count,
		"chaos_rate": b.getChaosRate(),
		"slow_mode":  b.getSlowMode(),
		"timestamp":  b.now().Format(time.RFC3339),
	})
}

func (b *Backend) createOrder(c *gin.Context) {
	var req models.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request: " + err.Error()})
		return
	}

	if len(req.OrderItems) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"detail": "order must contain at least one item"})
		return
	}

	b.mutex.Lock()
	b.nextID++
	record := &models.OrderRecord{
		OrderID:          b.nextID,
		CustomerName:     req.CustomerName,
		OrderType:        req.OrderType,
		OrderItems:       make([]models.OrderItemPayload, 0, len(req.OrderItems)),
		Subtotal:         req.Subtotal,
		Discount:         req.Discount,
		VAT:              req.VAT,
		TotalAmount:      req.TotalAmount,
		CustomerNotes:    req.CustomerNotes,
		CreatedAt:        b.now().UTC().Format(time.RFC3339),
		OrderStatus:      req.OrderStatus,
		PaymentMethod:    req.PaymentMethod,
		PaymentReference: req.PaymentReference,
		AmountReceived:   req.AmountReceived,
		ChangeAmount:     req.ChangeAmount,
		ReceiptEmail:     req.ReceiptEmail,
	}
	for _, item := range req.OrderItems {
		b.nextItemID++
		item.OrderItemID = b.nextItemID
		record.OrderItems = append(record.OrderItems, item)
	}
	b.orders[record.OrderID] = record
	b.mutex.Unlock()

	log.WithFields(log.Fields{
		"order_id": record.OrderID,
		"status":   record.OrderStatus,
		"items":    len(record.OrderItems),
	}).Info("Order created")

	c.JSON(http.StatusOK, models.CreateOrderResponse{OrderID: record.OrderID})
}

func (b *Backend) listOrders(c *gin.Context) {
	status := models.OrderStatus(c.Query("status"))

	b.mutex.RLock()
	records := make([]models.OrderRecord, 0, len(b.orders))
	for _, record := range b.orders {
		if status != "" && record.OrderStatus != status {
			continue
		}
		records = append(records, *record)
	}
	b.mutex.RUnlock()

	// Newest first
	sort.Slice(records, func(i, j int) bool {
		return records[i].OrderID > records[j].OrderID
	})

	c.JSON(http.StatusOK, records)
}

func (b *Backend) getOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	b.mutex.RLock()
	record, exists := b.orders[orderID]
	var out models.OrderRecord
	if exists {
		out = *record
	}
	b.mutex.RUnlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}

	c.JSON(http.StatusOK, out)
}

func (b *Backend) updateStatus(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	var req models.StatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Invalid request: " + err.Error()})
		return
	}

	b.mutex.Lock()
	record, exists := b.orders[orderID]
	if exists {
		record.OrderStatus = req.OrderStatus
	}
	b.mutex.Unlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}

	log.WithFields(log.Fields{
		"order_id": orderID,
		"status":   req.OrderStatus,
	}).Info("Order status updated")

	c.JSON(http.StatusOK, models.StatusUpdateResponse{OrderID: orderID, OrderStatus: req.OrderStatus})
}

func (b *Backend) cancelOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	b.mutex.Lock()
	defer b.mutex.Unlock()

	record, exists := b.orders[orderID]
	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}

	switch record.OrderStatus {
	case models.OrderStatusCompleted, models.OrderStatusCancelled:
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("Order is already %s", record.OrderStatus),
		})
		return
	}

	record.OrderStatus = models.OrderStatusCancelled
	log.WithField("order_id", orderID).Info("Order cancelled")

	c.JSON(http.StatusOK, models.StatusUpdateResponse{OrderID: orderID, OrderStatus: record.OrderStatus})
}

func (b *Backend) deleteOrder(c *gin.Context) {
	orderID, ok := parseOrderID(c)
	if !ok {
		return
	}

	b.mutex.Lock()
	_, exists := b.orders[orderID]
	delete(b.orders, orderID)
	b.mutex.Unlock()

	if !exists {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Order not found"})
		return
	}

	log.WithField("order_id", orderID).Info("Order deleted")
	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func parseOrderID(c *gin.Context) (int64, bool) {
	orderID, err := strconv.ParseInt(c.Param("orderId"), 10, 64)
	if err != nil || orderID <= 0 {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "order_id must be a positive integer"})
		return 0, false
	}
	return orderID, true
}

func (b *Backend) enableChaos(c *gin.Context) {
	rate := 0.3
	if raw := c.Query("rate"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil || parsed < 0 || parsed > 1 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "rate must be between 0 and 1"})
			return
		}
		rate = parsed
	}
	b.setChaosRate(rate)

	log.WithField("rate", rate).Info("Chaos mode ENABLED for order backend")
	c.JSON(http.StatusOK, gin.H{
		"message": "Chaos mode enabled",
		"rate":    rate,
	})
}

func (b *Backend) disableChaos(c *gin.Context) {
	b.setChaosRate(0)

	log.Info("Chaos mode DISABLED for order backend")
	c.JSON(http.StatusOK, gin.H{
		"message": "Chaos mode disabled",
	})
}

func (b *Backend) enableSlowMode(c *gin.Context) {
	b.setSlowMode(true)

	log.Info("Slow mode ENABLED for order backend")
	c.JSON(http.StatusOK, gin.H{
		"message": "Slow mode enabled",
	})
}

func (b *Backend) disableSlowMode(c *gin.Context) {
	b.setSlowMode(false)

	log.Info("Slow mode DISABLED for order backend")
	c.JSON(http.StatusOK, gin.H{
		"message": "Slow mode disabled",
	})
}

// randomDelay is slower than the terminal's default client timeout
func randomDelay() time.Duration {
	return time.Duration(2000+rand.Intn(3000)) * time.Millisecond
}

func (b *Backend) chaosMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if b.getSlowMode() {
			delay := b.slowDelay()
			log.WithField("delay_ms", delay.Milliseconds()).Debug("Chaos: Simulating slow response")
			select {
			case <-time.After(delay):
			case <-c.Request.Context().Done():
				c.Abort()
				return
			}
		}

		if rate := b.getChaosRate(); rate > 0 && rand.Float64() < rate {
			log.WithField("path", c.FullPath()).Warn("Chaos: Simulated failure")
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
				"detail": "Service temporarily unavailable",
			})
			return
		}
		c.Next()
	}
}

// Helper methods
func (b *Backend) setChaosRate(rate float64) {
	b.chaosMutex.Lock()
	defer b.chaosMutex.Unlock()
	b.chaosRate = rate
	metrics.ChaosFailureRate.WithLabelValues(serviceName).Set(rate)
}

func (b *Backend) setSlowMode(enabled bool) {
	b.chaosMutex.Lock()
	defer b.chaosMutex.Unlock()
	b.slowMode = enabled
	value := 0.0
	if enabled {
		value = 1
	}
	metrics.ChaosSlowMode.WithLabelValues(serviceName).Set(value)
}

func (b *Backend) getSlowMode() bool {
	b.chaosMutex.RLock()
	defer b.chaosMutex.RUnlock()
	return b.slowMode
}

func (b *Backend) getChaosRate() float64 {
	b.chaosMutex.RLock()
	defer b.chaosMutex.RUnlock()
	return b.chaosRate
}
