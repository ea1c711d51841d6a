package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	clientdomain "corretora-backend/internal/client/domain"
	"corretora-backend/internal/whatsapp/domain"
	"corretora-backend/internal/whatsapp/repository"
	"corretora-backend/pkg/cloudapi"
	"corretora-backend/pkg/config"
	"corretora-backend/pkg/phone"

	"go.uber.org/zap"
)

const (
	defaultImageContent    = "Imagem recebida"
	defaultDocumentContent = "Documento recebido"
)

// cloudService implements Service on the WhatsApp Business Cloud API. Sent
// and received messages are written to the message log.
type cloudService struct {
	messageLog
	client *cloudapi.Client
	now    func() time.Time
	log    *zap.Logger
}

// NewCloudService creates the Cloud API variant
func NewCloudService(client *cloudapi.Client, repo repository.MessageRepository) Service {
	return &cloudService{
		messageLog: messageLog{repo: repo},
		client:     client,
		now:        time.Now,
		log:        zap.L().Named("whatsapp.cloud"),
	}
}

func (s *cloudService) Provider() string {
	return config.WhatsAppProviderCloud
}

// StartSession is a no-op: the Cloud API has no login session.
func (s *cloudService) StartSession(ctx context.Context) *Result {
	return &Result{Success: true, Status: "CONNECTED", Message: "Cloud API does not use sessions"}
}

// CloseSession is a no-op: the Cloud API has no login session.
func (s *cloudService) CloseSession(ctx context.Context) *Result {
	return &Result{Success: true, Status: "CONNECTED", Message: "Cloud API does not use sessions"}
}

func (s *cloudService) GetStatus(ctx context.Context) *Status {
	info, err := s.client.PhoneNumber(ctx)
	if err != nil {
		s.log.Warn("cloud API status check failed", zap.Error(err))
		return &Status{State: "DISCONNECTED", Error: err.Error()}
	}
	return &Status{
		State:     "CONNECTED",
		Connected: true,
		Raw: map[string]interface{}{
			"id":                   info.ID,
			"verified_name":        info.VerifiedName,
			"display_phone_number": info.DisplayPhoneNumber,
			"quality_rating":       info.QualityRating,
		},
	}
}

func (s *cloudService) IsConnected(ctx context.Context) bool {
	return s.GetStatus(ctx).Connected
}

func (s *cloudService) GetQRCode(ctx context.Context) (*Result, error) {
	return nil, fmt.Errorf("%w: the Cloud API does not use qr code login", domain.ErrQRCodeUnavailable)
}

func (s *cloudService) SendText(ctx context.Context, rawPhone, message string) (*Result, error) {
	to := phone.Normalize(rawPhone)
	if to == "" {
		return nil, domain.ErrInvalidPhone
	}

	resp, err := s.client.SendText(ctx, to, message)
	if err != nil {
		var apiErr *cloudapi.APIError
		if errors.As(err, &apiErr) {
			s.log.Error("cloud API rejected message", zap.String("phone", to), zap.Int("status", apiErr.StatusCode), zap.String("error", apiErr.Message))
		} else {
			s.log.Error("failed to send message", zap.String("phone", to), zap.Error(err))
		}
		return failure(err), nil
	}

	msg := &domain.Message{
		PhoneNumber: to,
		MessageID:   resp.MessageID(),
		Content:     message,
		MessageType: domain.MessageTypeText,
		Direction:   domain.DirectionOutgoing,
		Status:      domain.MessageStatusSent,
		Timestamp:   s.now(),
	}

	client, err := s.repo.FindClientByPhone(phone.Candidates(rawPhone))
	if err != nil {
		s.log.Warn("client lookup failed, storing message without client", zap.String("phone", to), zap.Error(err))
	} else if client != nil {
		msg.ClientID = &client.ID
	}

	if err := s.repo.Create(msg); err != nil {
		return nil, fmt.Errorf("store outgoing message: %w", err)
	}

	s.log.Info("message sent", zap.String("phone", to), zap.String("message_id", msg.MessageID))
	return &Result{Success: true, Status: string(domain.MessageStatusSent), MessageID: msg.MessageID}, nil
}

// ReceiveWebhook stores every message of entry[0].changes[0]. A client is
// created as a prospect for unknown numbers. One failure rolls back the
// whole batch.
func (s *cloudService) ReceiveWebhook(ctx context.Context, body []byte) (int, error) {
	payload, err := cloudapi.ParseWebhook(body)
	if err != nil {
		return 0, err
	}

	inbound := payload.Messages()
	if len(inbound) == 0 {
		return 0, nil
	}

	err = s.repo.Transaction(func(tx repository.MessageRepository) error {
		for _, in := range inbound {
			if err := s.storeInbound(tx, in); err != nil {
				return fmt.Errorf("message %s: %w", in.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	s.log.Info("webhook processed", zap.Int("messages", len(inbound)))
	return len(inbound), nil
}

func (s *cloudService) storeInbound(tx repository.MessageRepository, in cloudapi.InboundMessage) error {
	if in.From == "" {
		return domain.ErrInvalidPhone
	}

	client, err := tx.FindClientByPhone(phone.Candidates(in.From))
	if err != nil {
		return err
	}
	if client == nil {
		client = &clientdomain.Client{
			Name:     "WhatsApp " + in.From,
			Phone:    in.From,
			WhatsApp: in.From,
			Status:   clientdomain.ClientStatusProspect,
		}
		if err := tx.CreateClient(client); err != nil {
			return err
		}
		s.log.Info("prospect created from inbound message", zap.Uint("client_id", client.ID), zap.String("phone", in.From))
	}

	msgType, content := inboundContent(in)
	ts := in.Time()
	if ts.IsZero() {
		ts = s.now()
	}

	return tx.Create(&domain.Message{
		ClientID:    &client.ID,
		PhoneNumber: in.From,
		MessageID:   in.ID,
		Content:     content,
		MessageType: msgType,
		Direction:   domain.DirectionIncoming,
		Status:      domain.MessageStatusReceived,
		Timestamp:   ts,
	})
}

func inboundContent(in cloudapi.InboundMessage) (domain.MessageType, string) {
	switch in.Type {
	case "image":
		if in.Image != nil && in.Image.Caption != "" {
			return domain.MessageTypeImage, in.Image.Caption
		}
		return domain.MessageTypeImage, defaultImageContent
	case "document":
		if in.Document != nil && in.Document.Filename != "" {
			return domain.MessageTypeDocument, in.Document.Filename
		}
		return domain.MessageTypeDocument, defaultDocumentContent
	case "text":
		if in.Text != nil {
			return domain.MessageTypeText, in.Text.Body
		}
		return domain.MessageTypeText, ""
	default:
		return domain.MessageTypeText, fmt.Sprintf("Mensagem recebida (%s)", in.Type)
	}
}

func (s *cloudService) HealthCheck(ctx context.Context) *Result {
	status := s.GetStatus(ctx)
	if !status.Connected {
		return &Result{Success: false, Status: "offline", Error: status.Error}
	}
	return &Result{Success: true, Status: "online", Raw: status.Raw}
}

func (s *cloudService) Contacts(ctx context.Context) (*Result, error) {
	return nil, fmt.Errorf("%w: the Cloud API has no contact list", domain.ErrUnsupported)
}

func (s *cloudService) Chats(ctx context.Context) (*Result, error) {
	return nil, fmt.Errorf("%w: the Cloud API has no chat list", domain.ErrUnsupported)
}
