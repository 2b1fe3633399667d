package receipt

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ashendes/pos-terminal/internal/config"
	"github.com/ashendes/pos-terminal/internal/metrics"
	"github.com/ashendes/pos-terminal/internal/patterns"
	"github.com/go-resty/resty/v2"
	log "github.com/sirupsen/logrus"
)

const (
	emailTarget = "emailjs"
	sendPath    = "/api/v1.0/email/send"
)

var (
	// ErrNotConfigured is returned when the service or template id is missing
	ErrNotConfigured = errors.New("email configuration is missing")
	// ErrMissingPublicKey is returned when no public key is configured
	ErrMissingPublicKey = errors.New("email service public key is missing")
	// ErrInvalidAddress is returned for a blank address or one without '@'
	ErrInvalidAddress = errors.New("valid email address is required")
)

// DeliveryError is a non-success answer from the email provider
type DeliveryError struct {
	Status int
	Text   string
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("email provider returned status %d: %s", e.Status, e.Text)
}

type emailRequest struct {
	ServiceID      string            `json:"service_id"`
	TemplateID     string            `json:"template_id"`
	UserID         string            `json:"user_id"`
	TemplateParams map[string]string `json:"template_params"`
}

// EmailJSSender delivers receipts through the EmailJS REST API
type EmailJSSender struct {
	http       *resty.Client
	breaker    *patterns.CircuitBreakerWrapper
	serviceID  string
	templateID string
	publicKey  string
	timeout    time.Duration
}

// NewEmailJSSender creates a sender from configuration
func NewEmailJSSender(cfg config.EmailConfig) *EmailJSSender {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = patterns.SlowServiceTimeout
	}

	return &EmailJSSender{
		http: resty.New().
			SetBaseURL(strings.TrimRight(cfg.Endpoint, "/")).
			SetRetryCount(0),
		breaker:    patterns.NewCircuitBreaker("EmailJS", "pos-terminal", patterns.BreakerSettings{}),
		serviceID:  cfg.ServiceID,
		templateID: cfg.TemplateID,
		publicKey:  cfg.PublicKey,
		timeout:    timeout,
	}
}

// Validate checks the sender has everything the provider needs
func (s *EmailJSSender) Validate() error {
	if s.serviceID == "" || s.templateID == "" {
		return ErrNotConfigured
	}
	if s.publicKey == "" {
		return ErrMissingPublicKey
	}
	return nil
}

// Send posts the template parameters to the provider
func (s *EmailJSSender) Send(ctx context.Context, params map[string]string) error {
	if err := s.Validate(); err != nil {
		return err
	}

	ctx, cancel := patterns.WithTimeout(ctx, s.timeout)
	defer cancel()

	started := time.Now()
	result, err := s.breaker.Execute(func() (interface{}, error) {
		resp, httpErr := s.http.R().
			SetContext(ctx).
			SetHeader("Content-Type", "application/json").
			SetBody(emailRequest{
				ServiceID:      s.serviceID,
				TemplateID:     s.templateID,
				UserID:         s.publicKey,
				TemplateParams: params,
			}).
			Post(sendPath)
		if httpErr != nil {
			return nil, fmt.Errorf("HTTP error: %w", httpErr)
		}
		if resp.StatusCode() >= http.StatusInternalServerError {
			return nil, &DeliveryError{Status: resp.StatusCode(), Text: strings.TrimSpace(resp.String())}
		}
		return resp, nil
	})
	if err != nil {
		metrics.ObserveRemote(emailTarget, "send", "error", started)
		log.WithFields(log.Fields{
			"provider": emailTarget,
			"error":    err.Error(),
		}).Warn("Email delivery failed")
		return err
	}

	resp := result.(*resty.Response)
	if resp.StatusCode() != http.StatusOK {
		metrics.ObserveRemote(emailTarget, "send", "rejected", started)
		deliveryErr := &DeliveryError{Status: resp.StatusCode(), Text: strings.TrimSpace(resp.String())}
		log.WithFields(log.Fields{
			"provider": emailTarget,
			"status":   deliveryErr.Status,
			"text":     deliveryErr.Text,
		}).Warn("Email provider rejected request")
		return deliveryErr
	}

	metrics.ObserveRemote(emailTarget, "send", "success", started)
	return nil
}

// Describe turns a delivery failure into the message shown to the cashier
func Describe(err error) string {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrNotConfigured):
		return "Email configuration is missing"
	case errors.Is(err, ErrMissingPublicKey):
		return "Email service public key is missing"
	case errors.Is(err, ErrInvalidAddress):
		return "Valid email address is required"
	}

	var deliveryErr *DeliveryError
	if !errors.As(err, &deliveryErr) {
		return "Email send failed: Email service temporarily unavailable. Please try again"
	}

	text := deliveryErr.Text
	if text == "" {
		text = "No error details provided"
	}

	var message string
	switch deliveryErr.Status {
	case http.StatusBadRequest:
		message = fmt.Sprintf("Bad Request: %s - Check your template parameters and service configuration", text)
	case http.StatusUnauthorized:
		message = fmt.Sprintf("Unauthorized: %s - Check your EmailJS public key", text)
	case http.StatusNotFound:
		message = fmt.Sprintf("Not Found: %s - Check your service ID and template ID", text)
	case http.StatusUnprocessableEntity:
		message = fmt.Sprintf("Validation Error: %s - Check your template parameters", text)
	default:
		message = fmt.Sprintf("EmailJS Error (%d): %s", deliveryErr.Status, text)
	}

	return "Email send failed: " + refine(message)
}

// refine replaces provider wording for the common misconfigurations
func refine(message string) string {
	switch {
	case strings.Contains(message, "Invalid 'to' address"), strings.Contains(message, "invalid_to"):
		return "Invalid email address format"
	case strings.Contains(message, "Service ID"), strings.Contains(message, "service_id"):
		return "Email service configuration error"
	case strings.Contains(message, "Template ID"), strings.Contains(message, "template_id"):
		return "Email template configuration error"
	case strings.Contains(message, "Public Key"), strings.Contains(message, "public_key"):
		return "Email service authentication error"
	default:
		return message
	}
}
