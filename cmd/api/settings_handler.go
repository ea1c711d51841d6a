package api

import (
	"net/http"

	"corretora-backend/pkg/config"

	"github.com/gin-gonic/gin"
)

// WhatsAppSettings describes the configured messaging provider. Secrets are
// reported only as set or unset.
type WhatsAppSettings struct {
	Provider string `json:"provider"`

	WPPConnectURL       string `json:"wppconnect_url,omitempty"`
	WPPConnectSession   string `json:"wppconnect_session,omitempty"`
	WPPConnectSecretSet bool   `json:"wppconnect_secret_set"`
	DemoQRCode          bool   `json:"demo_qr_code"`

	APIURL         string `json:"api_url,omitempty"`
	PhoneNumberID  string `json:"phone_number_id,omitempty"`
	APITokenSet    bool   `json:"api_token_set"`
	VerifyTokenSet bool   `json:"verify_token_set"`
}

func whatsAppSettings(provider string, cfg *config.Config) WhatsAppSettings {
	s := WhatsAppSettings{
		Provider:            provider,
		WPPConnectSecretSet: cfg.WPPConnectSecret != "",
		APITokenSet:         cfg.WhatsAppAPIToken != "",
		VerifyTokenSet:      cfg.WhatsAppVerifyToken != "",
	}
	switch provider {
	case config.WhatsAppProviderCloud:
		s.APIURL = cfg.WhatsAppAPIURL
		s.PhoneNumberID = cfg.WhatsAppPhoneNumberID
	default:
		s.WPPConnectURL = cfg.WPPConnectURL
		s.WPPConnectSession = cfg.WPPConnectSession
		s.DemoQRCode = cfg.WPPConnectDemoQR
	}
	return s
}

// GetWhatsAppSettings returns the active WhatsApp provider configuration
// GET /api/settings/whatsapp
func (h *Handler) GetWhatsAppSettings(c *gin.Context) {
	c.JSON(http.StatusOK, whatsAppSettings(h.whatsapp.Provider(), h.config))
}

// TestWhatsAppConnection runs a provider health check
// POST /api/settings/whatsapp/test
func (h *Handler) TestWhatsAppConnection(c *gin.Context) {
	result := h.whatsapp.HealthCheck(c.Request.Context())
	if !result.Success {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"connected": false,
			"provider":  h.whatsapp.Provider(),
			"error":     result.Error,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"connected": true,
		"provider":  h.whatsapp.Provider(),
		"status":    result.Status,
	})
}
