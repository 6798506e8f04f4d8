package notifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime"
)

// Notification is the message the customer notification partner relays by SMS.
type Notification struct {
	Ticket   string `json:"ticket"`
	Phone    string `json:"phone"`
	Template string `json:"template"`
	Status   string `json:"status,omitempty"`
}

// Error is the partner's problem body.
type Error struct {
	Message *string `json:"message,omitempty"`
	Status  *string `json:"status,omitempty"`
}

// Client posts notifications to the partner API.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NotifyOption configures Notify behavior.
type NotifyOption func(*notifyOptions)

type notifyOptions struct {
	idempotencyKey string
}

// WithIdempotencyKey sets the Idempotency-Key header for the request.
func WithIdempotencyKey(key string) NotifyOption {
	return func(opts *notifyOptions) {
		opts.idempotencyKey = strings.TrimSpace(key)
	}
}

// NewClient instantiates the notifier client with sane defaults.
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("notifier base URL is required")
	}
	if !strings.HasSuffix(baseURL, "/") {
		baseURL += "/"
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse notifier base URL: %w", err)
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Client{baseURL: parsed, httpClient: httpClient}, nil
}

// Notify posts a notification for the order to POST /orders/{orderId}/notifications.
func (c *Client) Notify(ctx context.Context, orderID string, notification Notification, optFns ...NotifyOption) error {
	if c == nil || c.httpClient == nil || c.baseURL == nil {
		return errors.New("notifier client not configured")
	}
	orderID = strings.TrimSpace(orderID)
	if orderID == "" {
		return errors.New("notifier order id is required")
	}
	var opts notifyOptions
	for _, fn := range optFns {
		if fn != nil {
			fn(&opts)
		}
	}
	pathParam, err := runtime.StyleParamWithLocation("simple", false, "orderId", runtime.ParamLocationPath, orderID)
	if err != nil {
		return fmt.Errorf("encode order id: %w", err)
	}
	target, err := c.baseURL.Parse(fmt.Sprintf("./orders/%s/notifications", pathParam))
	if err != nil {
		return fmt.Errorf("build notifier URL: %w", err)
	}
	body, err := json.Marshal(notification)
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notifier request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if opts.idempotencyKey != "" {
		req.Header.Set("Idempotency-Key", opts.idempotencyKey)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("call notifier API: %w", err)
	}
	defer resp.Body.Close()

	switch status := resp.StatusCode; {
	case status == http.StatusOK || status == http.StatusAccepted || status == http.StatusNoContent:
		return nil
	case status == http.StatusConflict:
		// The key was already delivered.
		return nil
	case status >= http.StatusBadRequest:
		return fmt.Errorf("notifier API error: %s", errorMessage(decodeError(resp.Body), resp.Status))
	default:
		return fmt.Errorf("notifier API unexpected status: %s", resp.Status)
	}
}

func decodeError(body io.Reader) *Error {
	var e Error
	if err := json.NewDecoder(io.LimitReader(body, 64<<10)).Decode(&e); err != nil {
		return nil
	}
	return &e
}

func errorMessage(body *Error, fallback string) string {
	if body == nil {
		return fallback
	}
	if body.Message != nil {
		if msg := strings.TrimSpace(*body.Message); msg != "" {
			return msg
		}
	}
	if body.Status != nil {
		if msg := strings.TrimSpace(*body.Status); msg != "" {
			return msg
		}
	}
	return fallback
}
