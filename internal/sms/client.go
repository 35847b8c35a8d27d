// Package sms talks to the campus SMS gateway. The gateway accepts a form
// POST with the API key, message body and recipient, and answers with a JSON
// document. Delivery failures are reported as an error-tagged Result rather
// than an error so callers can log and move on.
package sms

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/uap-campus/campus-fixer/internal/config"
)

// Gateway sends a single text message to one recipient.
type Gateway interface {
	Send(ctx context.Context, message, recipient string) Result
}

// Result is the gateway's parsed response. Failed is set for transport or
// decode errors as well as gateway-reported failures.
type Result struct {
	Failed   bool
	Message  string
	Response map[string]any
}

// Client implements Gateway against an HTTP endpoint.
type Client struct {
	endpoint string
	apiKey   string
	http     *http.Client
}

// NewClient builds a gateway client with a bounded request timeout.
func NewClient(cfg config.SMSConfig) *Client {
	return &Client{
		endpoint: cfg.Endpoint,
		apiKey:   cfg.APIKey,
		http:     &http.Client{Timeout: cfg.Timeout()},
	}
}

// Send posts the message. It never returns an error; failures come back as
// an error-tagged Result.
func (c *Client) Send(ctx context.Context, message, recipient string) Result {
	form := url.Values{}
	form.Set("api_key", c.apiKey)
	form.Set("msg", message)
	form.Set("to", recipient)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return Result{Failed: true, Message: err.Error()}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return Result{Failed: true, Message: err.Error()}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Result{Failed: true, Message: err.Error()}
	}

	var parsed map[string]any
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Result{Failed: true, Message: err.Error()}
	}
	if resp.StatusCode >= 400 {
		return Result{Failed: true, Message: resp.Status, Response: parsed}
	}
	return Result{Response: parsed}
}
