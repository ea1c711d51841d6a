// Package wppconnect is an HTTP client for a self-hosted WPPConnect server,
// the multi-session WhatsApp automation gateway.
package wppconnect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const (
	requestTimeout = 30 * time.Second
	healthTimeout  = 10 * time.Second

	// DefaultRetryDelay is the pause before the single StartSession retry.
	DefaultRetryDelay = 2 * time.Second

	qrNotAvailableMessage = "QRCode is not available..."
)

// ErrInvalidResponse is returned when the gateway answers with a body that is
// not JSON.
var ErrInvalidResponse = errors.New("invalid response from server")

// Response is the raw JSON object returned by the gateway. Its shape differs
// between endpoints and gateway versions, so it is kept untyped.
type Response map[string]interface{}

// String returns the string value stored under key, or "".
func (r Response) String(key string) string {
	if r == nil {
		return ""
	}
	if s, ok := r[key].(string); ok {
		return s
	}
	return ""
}

// List returns the array stored under key, or nil.
func (r Response) List(key string) []interface{} {
	if r == nil {
		return nil
	}
	if l, ok := r[key].([]interface{}); ok {
		return l
	}
	return nil
}

// Succeeded mirrors the gateway convention that a missing "success" field
// means success.
func (r Response) Succeeded() bool {
	if r == nil {
		return false
	}
	if v, ok := r["success"].(bool); ok {
		return v
	}
	return true
}

// StatusError is returned for non-2xx answers.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("wppconnect API error (%d): %s", e.StatusCode, e.Body)
}

// Client talks to one named session on a WPPConnect server.
type Client struct {
	baseURL      string
	session      string
	httpClient   *http.Client
	healthClient *http.Client
	retryDelay   time.Duration
}

// NewClient creates a gateway client. The secret is sent as a bearer token on
// every session call.
func NewClient(baseURL, secret, session string) *Client {
	if baseURL == "" {
		baseURL = "http://localhost:21465"
	}
	if session == "" {
		session = "corretora"
	}

	httpClient := &http.Client{}
	if secret != "" {
		httpClient = oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
			AccessToken: secret,
			TokenType:   "Bearer",
		}))
	}
	httpClient.Timeout = requestTimeout

	return &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		session:      session,
		httpClient:   httpClient,
		healthClient: &http.Client{Timeout: healthTimeout},
		retryDelay:   DefaultRetryDelay,
	}
}

// SetRetryDelay overrides the StartSession retry pause.
func (c *Client) SetRetryDelay(d time.Duration) {
	c.retryDelay = d
}

// BaseURL returns the gateway address.
func (c *Client) BaseURL() string { return c.baseURL }

// Session returns the session name used in every path.
func (c *Client) Session() string { return c.session }

// StartSession opens the session. A failed attempt, one whose body carries an
// error, or one reporting CLOSED is retried exactly once after the retry delay.
func (c *Client) StartSession(ctx context.Context) (Response, error) {
	resp, err := c.do(ctx, http.MethodPost, c.sessionPath("start-session"), nil)
	if err == nil && !needsRetry(resp) {
		return resp, nil
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(c.retryDelay):
	}

	return c.do(ctx, http.MethodPost, c.sessionPath("start-session"), nil)
}

func needsRetry(resp Response) bool {
	if !resp.Succeeded() || resp.String("status") == "CLOSED" {
		return true
	}
	v, ok := resp["error"]
	return ok && v != nil && v != false && v != ""
}

// CloseSession closes the session.
func (c *Client) CloseSession(ctx context.Context) (Response, error) {
	return c.do(ctx, http.MethodPost, c.sessionPath("close-session"), nil)
}

// SessionStatus returns the current session state.
func (c *Client) SessionStatus(ctx context.Context) (Response, error) {
	return c.do(ctx, http.MethodGet, c.sessionPath("status-session"), nil)
}

// IsConnected reports whether the session status is open or CONNECTED.
func IsConnected(status Response) bool {
	return status.String("status") == "open" || status.String("state") == "CONNECTED"
}

// QRCode returns the login QR code. The second value is false when the
// gateway says no code can be produced right now.
func (c *Client) QRCode(ctx context.Context) (Response, bool, error) {
	resp, err := c.do(ctx, http.MethodGet, c.sessionPath("qrcode-session"), nil)
	if err != nil {
		return nil, false, err
	}
	if !resp.Succeeded() || resp.String("message") == qrNotAvailableMessage {
		return resp, false, nil
	}
	return resp, true, nil
}

// SendMessage sends a text message. phone must already be normalized.
func (c *Client) SendMessage(ctx context.Context, phone, message string) (Response, error) {
	return c.do(ctx, http.MethodPost, c.sessionPath("send-message"), map[string]interface{}{
		"phone":   phone,
		"message": message,
	})
}

// AllContacts lists the contacts known to the session.
func (c *Client) AllContacts(ctx context.Context) (Response, error) {
	return c.do(ctx, http.MethodGet, c.sessionPath("all-contacts"), nil)
}

// AllChats lists the open chats of the session.
func (c *Client) AllChats(ctx context.Context) (Response, error) {
	return c.do(ctx, http.MethodGet, c.sessionPath("all-chats"), nil)
}

// Health calls the unauthenticated server status endpoint.
func (c *Client) Health(ctx context.Context) (Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/status", nil)
	if err != nil {
		return nil, err
	}
	return c.send(c.healthClient, req)
}

func (c *Client) sessionPath(action string) string {
	return fmt.Sprintf("/api/%s/%s", c.session, action)
}

func (c *Client) do(ctx context.Context, method, path string, payload interface{}) (Response, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	return c.send(c.httpClient, req)
}

func (c *Client) send(client *http.Client, req *http.Request) (Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("wppconnect request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	// Some gateway builds answer the QR endpoint with the PNG itself.
	contentType := strings.TrimSpace(strings.Split(resp.Header.Get("Content-Type"), ";")[0])
	if strings.HasPrefix(contentType, "image/") {
		return Response{
			"success": true,
			"qrcode":  "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(respBody),
		}, nil
	}

	var result Response
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, ErrInvalidResponse
	}
	return result, nil
}
