package usecase

import (
	"context"
	"errors"
	"fmt"

	"corretora-backend/internal/whatsapp/domain"
	"corretora-backend/internal/whatsapp/repository"
	"corretora-backend/pkg/config"
	"corretora-backend/pkg/phone"
	"corretora-backend/pkg/wppconnect"

	"go.uber.org/zap"
)

// demoQRCode is a 1x1 PNG returned in place of a real login code when the
// gateway cannot produce one and demo mode is enabled.
const demoQRCode = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAYAAAAfFcSJAAAADUlEQVR42mNkYPhfDwAChwGA60e6kgAAAABJRU5ErkJggg=="

// gatewayService implements Service on a self-hosted WPPConnect server. It
// keeps no state of its own and does not write to the message log.
type gatewayService struct {
	messageLog
	client *wppconnect.Client
	demoQR bool
	log    *zap.Logger
}

// NewGatewayService creates the session-gateway variant
func NewGatewayService(client *wppconnect.Client, repo repository.MessageRepository, demoQR bool) Service {
	return &gatewayService{
		messageLog: messageLog{repo: repo},
		client:     client,
		demoQR:     demoQR,
		log:        zap.L().Named("whatsapp.wppconnect"),
	}
}

func (s *gatewayService) Provider() string {
	return config.WhatsAppProviderWPPConnect
}

func (s *gatewayService) StartSession(ctx context.Context) *Result {
	resp, err := s.client.StartSession(ctx)
	if err != nil {
		s.log.Error("failed to start session", zap.Error(err))
		return failure(err)
	}
	return fromResponse(resp)
}

func (s *gatewayService) CloseSession(ctx context.Context) *Result {
	resp, err := s.client.CloseSession(ctx)
	if err != nil {
		s.log.Error("failed to close session", zap.Error(err))
		return failure(err)
	}
	return fromResponse(resp)
}

func (s *gatewayService) GetStatus(ctx context.Context) *Status {
	resp, err := s.client.SessionStatus(ctx)
	if err != nil {
		s.log.Warn("failed to get session status", zap.Error(err))
		return &Status{State: "ERROR", Error: err.Error()}
	}

	state := resp.String("status")
	if state == "" {
		state = resp.String("state")
	}
	return &Status{State: state, Connected: wppconnect.IsConnected(resp), Raw: resp}
}

func (s *gatewayService) IsConnected(ctx context.Context) bool {
	return s.GetStatus(ctx).Connected
}

func (s *gatewayService) GetQRCode(ctx context.Context) (*Result, error) {
	resp, ok, err := s.client.QRCode(ctx)
	if err == nil && ok {
		res := fromResponse(resp)
		res.QRCode = resp.String("qrcode")
		return res, nil
	}

	reason := "gateway did not return a qr code"
	if err != nil {
		reason = err.Error()
	} else if msg := resp.String("message"); msg != "" {
		reason = msg
	}

	if s.demoQR {
		s.log.Warn("qr code unavailable, returning demo placeholder", zap.String("reason", reason))
		return &Result{
			Success: true,
			Status:  "DEMO",
			QRCode:  demoQRCode,
			Message: "Placeholder QR code; the gateway could not produce a real one",
		}, nil
	}
	return nil, fmt.Errorf("%w: %s", domain.ErrQRCodeUnavailable, reason)
}

func (s *gatewayService) SendText(ctx context.Context, rawPhone, message string) (*Result, error) {
	to := phone.Normalize(rawPhone)
	if to == "" {
		return nil, domain.ErrInvalidPhone
	}

	resp, err := s.client.SendMessage(ctx, to, message)
	if err != nil {
		s.log.Error("failed to send message", zap.String("phone", to), zap.Error(err))
		return failure(err), nil
	}
	if !resp.Succeeded() {
		msg := resp.String("message")
		if msg == "" {
			msg = "failed to send message"
		}
		return &Result{Success: false, Error: msg, Raw: resp}, nil
	}

	s.log.Info("message sent", zap.String("phone", to))
	res := fromResponse(resp)
	res.MessageID = resp.String("id")
	return res, nil
}

func (s *gatewayService) ReceiveWebhook(ctx context.Context, body []byte) (int, error) {
	s.log.Debug("gateway webhook ignored", zap.Int("bytes", len(body)))
	return 0, nil
}

func (s *gatewayService) HealthCheck(ctx context.Context) *Result {
	resp, err := s.client.Health(ctx)
	if err != nil {
		var statusErr *wppconnect.StatusError
		if errors.As(err, &statusErr) {
			s.log.Warn("gateway health check failed", zap.Int("status", statusErr.StatusCode))
		}
		return &Result{Success: false, Status: "offline", Error: err.Error()}
	}

	status := resp.String("status")
	if status == "" {
		status = "online"
	}
	return &Result{Success: true, Status: status, Raw: resp}
}

func (s *gatewayService) Contacts(ctx context.Context) (*Result, error) {
	resp, err := s.client.AllContacts(ctx)
	return s.listing("contacts", resp, err), nil
}

func (s *gatewayService) Chats(ctx context.Context) (*Result, error) {
	resp, err := s.client.AllChats(ctx)
	return s.listing("chats", resp, err), nil
}

func (s *gatewayService) listing(what string, resp wppconnect.Response, err error) *Result {
	if err != nil {
		s.log.Error("failed to list "+what, zap.Error(err))
		return failure(err)
	}
	res := fromResponse(resp)
	if !res.Success {
		res.Error = resp.String("message")
		if res.Error == "" {
			res.Error = "failed to list " + what
		}
		return res
	}
	res.Items = resp.List("response")
	if res.Items == nil {
		res.Items = []interface{}{}
	}
	return res
}

func fromResponse(resp wppconnect.Response) *Result {
	return &Result{
		Success: resp.Succeeded(),
		Status:  resp.String("status"),
		Message: resp.String("message"),
		Raw:     resp,
	}
}
