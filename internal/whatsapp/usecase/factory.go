package usecase

import (
	"fmt"

	"corretora-backend/internal/whatsapp/domain"
	"corretora-backend/internal/whatsapp/repository"
	"corretora-backend/pkg/cloudapi"
	"corretora-backend/pkg/config"
	"corretora-backend/pkg/wppconnect"

	"go.uber.org/zap"
)

// NewService builds the messaging adapter selected by WHATSAPP_PROVIDER.
func NewService(cfg *config.Config, repo repository.MessageRepository) (Service, error) {
	switch cfg.WhatsAppProvider {
	case config.WhatsAppProviderWPPConnect, "":
		client := wppconnect.NewClient(cfg.WPPConnectURL, cfg.WPPConnectSecret, cfg.WPPConnectSession)
		zap.L().Info("whatsapp provider: wppconnect",
			zap.String("url", client.BaseURL()),
			zap.String("session", client.Session()),
			zap.Bool("demo_qr", cfg.WPPConnectDemoQR))
		return NewGatewayService(client, repo, cfg.WPPConnectDemoQR), nil

	case config.WhatsAppProviderCloud:
		if cfg.WhatsAppAPIToken == "" || cfg.WhatsAppPhoneNumberID == "" {
			return nil, fmt.Errorf("cloud provider requires WHATSAPP_API_TOKEN and WHATSAPP_PHONE_NUMBER_ID")
		}
		client := cloudapi.NewClient(cfg.WhatsAppAPIURL, cfg.WhatsAppAPIToken, cfg.WhatsAppPhoneNumberID)
		zap.L().Info("whatsapp provider: cloud",
			zap.String("url", client.BaseURL()),
			zap.String("phone_number_id", client.PhoneNumberID()))
		return NewCloudService(client, repo), nil

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownProvider, cfg.WhatsAppProvider)
	}
}
