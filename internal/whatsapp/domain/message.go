package domain

import (
	"errors"
	"time"
)

var (
	ErrQRCodeUnavailable = errors.New("qr code is not available")
	ErrUnknownProvider   = errors.New("unknown whatsapp provider")
	ErrInvalidPhone      = errors.New("invalid phone number")
	ErrUnsupported       = errors.New("operation not supported by this provider")
)

// MessageType is the kind of content carried by a message
type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeDocument MessageType = "document"
)

// Direction tells whether a message was sent or received
type Direction string

const (
	DirectionIncoming Direction = "incoming"
	DirectionOutgoing Direction = "outgoing"
)

// MessageStatus is the delivery state of a message
type MessageStatus string

const (
	MessageStatusSent      MessageStatus = "sent"
	MessageStatusDelivered MessageStatus = "delivered"
	MessageStatusRead      MessageStatus = "read"
	MessageStatusFailed    MessageStatus = "failed"
	MessageStatusReceived  MessageStatus = "received"
)

// Message is one entry of the append-only WhatsApp message log
type Message struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	ClientID    *uint         `json:"client_id,omitempty" gorm:"index"`
	PhoneNumber string        `json:"phone_number" gorm:"size:20;not null;index"`
	MessageID   string        `json:"message_id,omitempty" gorm:"size:100"`
	Content     string        `json:"content" gorm:"type:text;not null"`
	MessageType MessageType   `json:"message_type" gorm:"size:20;not null;default:text"`
	Direction   Direction     `json:"direction" gorm:"size:10;not null"`
	Status      MessageStatus `json:"status" gorm:"size:20;not null;default:sent"`
	Timestamp   time.Time     `json:"timestamp" gorm:"index"`
}

// TableName pins the table name; gorm would otherwise derive "messages".
func (Message) TableName() string {
	return "whatsapp_messages"
}

// Validate checks the fields every log entry must carry.
func (m *Message) Validate() error {
	if m.PhoneNumber == "" {
		return ErrInvalidPhone
	}
	if m.Direction != DirectionIncoming && m.Direction != DirectionOutgoing {
		return errors.New("invalid message direction")
	}
	return nil
}

// MessageFilter narrows message log queries
type MessageFilter struct {
	PhoneNumbers []string
	ClientID     *uint
	Limit        int
}
