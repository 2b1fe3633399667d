package orderapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/ashendes/pos-terminal/internal/metrics"
	"github.com/ashendes/pos-terminal/internal/models"
	"github.com/ashendes/pos-terminal/internal/patterns"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const target = "order-service"

// Client talks to the remote order service through a circuit breaker
type Client struct {
	http    *resty.Client
	breaker *patterns.CircuitBreakerWrapper
	paths   config.PathsConfig
	timeout time.Duration
}

// NewClient creates an order service client from configuration
func NewClient(cfg config.OrderServiceConfig) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = patterns.DefaultTimeout
	}

	return &Client{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
			SetRetryCount(0), // No automatic retries, failures surface to the cashier
		breaker: patterns.NewCircuitBreaker("Orders", "pos-terminal", patterns.BreakerSettings{}),
		paths:   cfg.Paths,
		timeout: timeout,
	}
}

// CreateOrder submits an order and returns the server-assigned id
func (c *Client) CreateOrder(ctx context.Context, req models.CreateOrderRequest) (int64, error) {
	resp, err := c.do(ctx, "create", http.MethodPost, c.paths.Orders, func(r *resty.Request) {
		r.SetBody(req)
	})
	if err != nil {
		return 0, err
	}

	var response models.CreateOrderResponse
	if err := json.Unmarshal(resp.Body(), &response); err != nil {
		return 0, fmt.Errorf("failed to parse response: %w", err)
	}
	if response.OrderID <= 0 {
		return 0, fmt.Errorf("order service returned no order_id")
	}

	return response.OrderID, nil
}

// ListOrders fetches orders with the given status
func (c *Client) ListOrders(ctx context.Context, status models.OrderStatus) ([]models.OrderRecord, error) {
	resp, err := c.do(ctx, "list", http.MethodGet, c.paths.Orders, func(r *resty.Request) {
		if status != "" {
			r.SetQueryParam("status", string(status))
		}
	})
	if err != nil {
		return nil, err
	}

	var records []models.OrderRecord
	if err := json.Unmarshal(resp.Body(), &records); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	return records, nil
}

// ListHeldOrders fetches every order parked with status held
func (c *Client) ListHeldOrders(ctx context.Context) ([]models.OrderRecord, error) {
	return c.ListOrders(ctx, models.OrderStatusHeld)
}

// UpdateStatus changes an order's status
func (c *Client) UpdateStatus(ctx context.Context, orderID int64, status models.OrderStatus) error {
	_, err := c.do(ctx, "update_status", http.MethodPut, c.paths.OrderStatus, func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(orderID, 10)).
			SetBody(models.StatusUpdateRequest{OrderStatus: status})
	})
	return err
}

// CancelOrder voids a persisted order
func (c *Client) CancelOrder(ctx context.Context, orderID int64) error {
	_, err := c.do(ctx, "cancel", http.MethodPut, c.paths.OrderCancel, func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(orderID, 10))
	})
	return err
}

// DeleteOrder permanently removes a held order
func (c *Client) DeleteOrder(ctx context.Context, orderID int64) error {
	_, err := c.do(ctx, "delete", http.MethodDelete, c.paths.Order, func(r *resty.Request) {
		r.SetPathParam("id", strconv.FormatInt(orderID, 10))
	})
	return err
}

// CircuitState reports the breaker state for health endpoints
func (c *Client) CircuitState() string {
	return c.breaker.GetState()
}

// do runs one request through the breaker. Server errors and transport
// failures count against the breaker; 4xx responses do not.
func (c *Client) do(ctx context.Context, operation, method, path string, prepare func(*resty.Request)) (*resty.Response, error) {
	ctx, cancel := patterns.WithTimeout(ctx, c.timeout)
	defer cancel()

	started := time.Now()
	result, err := c.breaker.Execute(func() (interface{}, error) {
		req := c.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json")
		prepare(req)

		resp, httpErr := req.Execute(method, path)
		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, newAPIError(resp)
		}
		return resp, nil
	})

	if err != nil {
		metrics.ObserveRemote(target, operation, "error", started)
		log.WithFields(log.Fields{
			"operation": operation,
			"error":     err.Error(),
		}).Warn("Order service call failed")
		return nil, err
	}

	resp := result.(*resty.Response)
	if resp.IsError() {
		apiErr := newAPIError(resp)
		metrics.ObserveRemote(target, operation, "rejected", started)
		log.WithFields(log.Fields{
			"operation": operation,
			"status":    apiErr.StatusCode,
			"detail":    apiErr.Detail,
		}).Warn("Order service rejected request")
		return nil, apiErr
	}

	metrics.ObserveRemote(target, operation, "success", started)
	log.WithFields(log.Fields{
		"operation": operation,
		"status":    resp.StatusCode(),
	}).Debug("Order service call succeeded")

	return resp, nil
}

// newAPIError extracts the most specific message the server gave.
// FastAPI-style bodies carry either a string or a list under "detail".
func newAPIError(resp *resty.Response) *models.APIError {
	apiErr := &models.APIError{StatusCode: resp.StatusCode()}

	var body struct {
		Detail  json.RawMessage `json:"detail"`
		Message string          `json:"message"`
	}
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		if len(body.Detail) > 0 {
			var detail string
			if json.Unmarshal(body.Detail, &detail) == nil {
				apiErr.Detail = detail
			} else {
				apiErr.Detail = string(body.Detail)
			}
		}
		if apiErr.Detail == "" {
			apiErr.Detail = body.Message
		}
	}

	if apiErr.Detail == "" {
		apiErr.Detail = strings.TrimSpace(resp.String())
	}

	return apiErr
}
