package usecase

import (
	"context"
	"time"

	"corretora-backend/internal/whatsapp/domain"
)

// Result is the outcome of a provider call. Provider failures are reported
// here with Success false, never as Go errors.
type Result struct {
	Success   bool                   `json:"success"`
	Status    string                 `json:"status,omitempty"`
	MessageID string                 `json:"message_id,omitempty"`
	QRCode    string                 `json:"qrcode,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Error     string                 `json:"error,omitempty"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
	Items     []interface{}          `json:"items,omitempty"`
}

func failure(err error) *Result {
	return &Result{Success: false, Error: err.Error()}
}

// Status is the session state reported by the provider
type Status struct {
	State     string                 `json:"state"`
	Connected bool                   `json:"connected"`
	Error     string                 `json:"error,omitempty"`
	Raw       map[string]interface{} `json:"raw,omitempty"`
}

// Service is the messaging adapter. Both provider variants implement it and
// one instance is built at startup from configuration.
type Service interface {
	// Provider names the backing variant ("wppconnect" or "cloud")
	Provider() string

	StartSession(ctx context.Context) *Result
	CloseSession(ctx context.Context) *Result
	GetStatus(ctx context.Context) *Status
	IsConnected(ctx context.Context) bool

	// GetQRCode returns the login QR code, or domain.ErrQRCodeUnavailable
	GetQRCode(ctx context.Context) (*Result, error)

	// SendText normalizes phone and sends message. Provider failures come back
	// as a failed Result; the error is domain.ErrInvalidPhone for a phone with
	// no digits, otherwise a persistence failure.
	SendText(ctx context.Context, phone, message string) (*Result, error)

	// ReceiveWebhook processes an inbound provider notification and returns
	// how many messages were stored. The batch is all-or-nothing.
	ReceiveWebhook(ctx context.Context, body []byte) (int, error)

	HealthCheck(ctx context.Context) *Result

	// Contacts and Chats list the session's address book and conversations in
	// Result.Items. Providers without them return domain.ErrUnsupported.
	Contacts(ctx context.Context) (*Result, error)
	Chats(ctx context.Context) (*Result, error)

	// ListMessages reads the message log, newest first
	ListMessages(phone string, clientID *uint, limit int) ([]*domain.Message, error)
}

// StatusReport is the combined status endpoint payload
type StatusReport struct {
	Connected bool      `json:"connected"`
	Status    *Status   `json:"status"`
	Health    *Result   `json:"health"`
	Timestamp time.Time `json:"timestamp"`
}
