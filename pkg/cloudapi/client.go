// Package cloudapi is a minimal client for the WhatsApp Business Cloud API
// (Graph API messages endpoint) plus the inbound webhook payload types.
package cloudapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/oauth2"
)

const requestTimeout = 30 * time.Second

// APIError is returned for non-2xx answers. Message is taken from the Graph
// error object when present.
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("whatsapp cloud API error (%d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("whatsapp cloud API error (%d): %s", e.StatusCode, e.Body)
}

// Client sends messages from one business phone number.
type Client struct {
	baseURL       string
	phoneNumberID string
	httpClient    *http.Client
}

// NewClient creates a Cloud API client authenticated with a permanent or
// system-user access token.
func NewClient(baseURL, token, phoneNumberID string) *Client {
	if baseURL == "" {
		baseURL = "https://graph.facebook.com/v18.0"
	}
	httpClient := oauth2.NewClient(context.Background(), oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: token,
		TokenType:   "Bearer",
	}))
	httpClient.Timeout = requestTimeout

	return &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		phoneNumberID: phoneNumberID,
		httpClient:    httpClient,
	}
}

// BaseURL returns the Graph API root in use.
func (c *Client) BaseURL() string { return c.baseURL }

// PhoneNumberID returns the sending business number id.
func (c *Client) PhoneNumberID() string { return c.phoneNumberID }

type textBody struct {
	PreviewURL bool   `json:"preview_url"`
	Body       string `json:"body"`
}

type sendTextRequest struct {
	MessagingProduct string   `json:"messaging_product"`
	RecipientType    string   `json:"recipient_type"`
	To               string   `json:"to"`
	Type             string   `json:"type"`
	Text             textBody `json:"text"`
}

// SendResponse is the messages endpoint answer.
type SendResponse struct {
	MessagingProduct string `json:"messaging_product"`
	Contacts         []struct {
		Input string `json:"input"`
		WaID  string `json:"wa_id"`
	} `json:"contacts"`
	Messages []struct {
		ID string `json:"id"`
	} `json:"messages"`
}

// MessageID returns the id of the first accepted message, or "".
func (r *SendResponse) MessageID() string {
	if r == nil || len(r.Messages) == 0 {
		return ""
	}
	return r.Messages[0].ID
}

// SendText sends a plain text message. to must already be normalized.
func (c *Client) SendText(ctx context.Context, to, message string) (*SendResponse, error) {
	payload := sendTextRequest{
		MessagingProduct: "whatsapp",
		RecipientType:    "individual",
		To:               to,
		Type:             "text",
		Text:             textBody{Body: message},
	}

	var out SendResponse
	if err := c.do(ctx, http.MethodPost, "/"+c.phoneNumberID+"/messages", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// PhoneNumberInfo describes the business number.
type PhoneNumberInfo struct {
	ID                 string `json:"id"`
	VerifiedName       string `json:"verified_name"`
	DisplayPhoneNumber string `json:"display_phone_number"`
	QualityRating      string `json:"quality_rating"`
}

// PhoneNumber fetches the business number profile. It doubles as the
// connectivity check since the Cloud API has no session to poll.
func (c *Client) PhoneNumber(ctx context.Context) (*PhoneNumberInfo, error) {
	var out PhoneNumberInfo
	if err := c.do(ctx, http.MethodGet, "/"+c.phoneNumberID, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp cloud request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Body: string(respBody)}
		var graph struct {
			Error struct {
				Message string `json:"message"`
			} `json:"error"`
		}
		if json.Unmarshal(respBody, &graph) == nil {
			apiErr.Message = graph.Error.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
