package delivery

import (
	"crypto/subtle"
	"errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"corretora-backend/internal/whatsapp/domain"
	"corretora-backend/internal/whatsapp/usecase"
	"corretora-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// maxWebhookBody bounds inbound webhook payloads.
const maxWebhookBody = 1 << 20

// WhatsAppHandler handles messaging HTTP requests and the provider webhook
type WhatsAppHandler struct {
	service     usecase.Service
	verifyToken string
	log         *zap.Logger
}

// NewWhatsAppHandler creates a new WhatsAppHandler
func NewWhatsAppHandler(service usecase.Service, verifyToken string) *WhatsAppHandler {
	validation.RegisterJSONTagNames()
	return &WhatsAppHandler{
		service:     service,
		verifyToken: verifyToken,
		log:         zap.L().Named("whatsapp.http"),
	}
}

// SendMessageRequest is the body of the send endpoint
type SendMessageRequest struct {
	Phone   string `json:"phone" binding:"required"`
	Message string `json:"message" binding:"required"`
}

// GetStatus reports session state and provider health
// GET /api/whatsapp/status
func (h *WhatsAppHandler) GetStatus(c *gin.Context) {
	ctx := c.Request.Context()
	status := h.service.GetStatus(ctx)
	health := h.service.HealthCheck(ctx)

	c.JSON(http.StatusOK, usecase.StatusReport{
		Connected: status.Connected,
		Status:    status,
		Health:    health,
		Timestamp: time.Now().UTC(),
	})
}

// StartSession opens the provider session
// POST /api/whatsapp/session/start
func (h *WhatsAppHandler) StartSession(c *gin.Context) {
	respond(c, h.service.StartSession(c.Request.Context()))
}

// CloseSession closes the provider session
// POST /api/whatsapp/session/close
func (h *WhatsAppHandler) CloseSession(c *gin.Context) {
	respond(c, h.service.CloseSession(c.Request.Context()))
}

// GetQRCode returns the login QR code
// GET /api/whatsapp/qrcode
func (h *WhatsAppHandler) GetQRCode(c *gin.Context) {
	result, err := h.service.GetQRCode(c.Request.Context())
	if err != nil {
		if errors.Is(err, domain.ErrQRCodeUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"success": false, "error": err.Error()})
			return
		}
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// SendMessage sends a text message to a phone number
// POST /api/whatsapp/send
func (h *WhatsAppHandler) SendMessage(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	result, err := h.service.SendText(c.Request.Context(), req.Phone, req.Message)
	if errors.Is(err, domain.ErrInvalidPhone) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.Add(nil, "phone", err.Error())})
		return
	}
	if err != nil {
		h.log.Error("failed to store sent message", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": result.Error, "result": result})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// GetContacts lists the session's contacts
// GET /api/whatsapp/contacts
func (h *WhatsAppHandler) GetContacts(c *gin.Context) {
	result, err := h.service.Contacts(c.Request.Context())
	h.listing(c, "contacts", result, err)
}

// GetChats lists the session's conversations
// GET /api/whatsapp/chats
func (h *WhatsAppHandler) GetChats(c *gin.Context) {
	result, err := h.service.Chats(c.Request.Context())
	h.listing(c, "chats", result, err)
}

func (h *WhatsAppHandler) listing(c *gin.Context, key string, result *usecase.Result, err error) {
	if err != nil {
		if errors.Is(err, domain.ErrUnsupported) {
			c.JSON(http.StatusNotImplemented, gin.H{"success": false, "error": err.Error()})
			return
		}
		h.log.Error("failed to list "+key, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": result.Error})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, key: result.Items, "count": len(result.Items)})
}

// ListMessages returns the message log
// GET /api/whatsapp/messages?phone=&client_id=&limit=
func (h *WhatsAppHandler) ListMessages(c *gin.Context) {
	var clientID *uint
	if raw := c.Query("client_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid client_id"})
			return
		}
		v := uint(id)
		clientID = &v
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	messages, err := h.service.ListMessages(c.Query("phone"), clientID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"messages": messages, "count": len(messages)})
}

// VerifyWebhook answers the provider's subscription challenge
// GET /webhook/whatsapp
func (h *WhatsAppHandler) VerifyWebhook(c *gin.Context) {
	mode := c.Query("hub.mode")
	token := c.Query("hub.verify_token")
	challenge := c.Query("hub.challenge")

	if mode == "subscribe" && h.verifyToken != "" &&
		subtle.ConstantTimeCompare([]byte(token), []byte(h.verifyToken)) == 1 {
		h.log.Info("webhook verified")
		c.String(http.StatusOK, challenge)
		return
	}

	h.log.Warn("webhook verification failed", zap.String("mode", mode))
	c.String(http.StatusForbidden, "Forbidden")
}

// ReceiveWebhook stores inbound messages. The provider always gets 200 so it
// does not redeliver; failures are only logged.
// POST /webhook/whatsapp
func (h *WhatsAppHandler) ReceiveWebhook(c *gin.Context) {
	body, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookBody))
	if err != nil {
		h.log.Error("failed to read webhook body", zap.Error(err))
		c.String(http.StatusOK, "OK")
		return
	}

	n, err := h.service.ReceiveWebhook(c.Request.Context(), body)
	if err != nil {
		h.log.Error("webhook processing failed, batch rolled back", zap.Error(err))
	} else if n > 0 {
		h.log.Debug("webhook stored messages", zap.Int("count", n))
	}

	c.String(http.StatusOK, "OK")
}

func respond(c *gin.Context, result *usecase.Result) {
	if !result.Success {
		c.JSON(http.StatusBadGateway, result)
		return
	}
	c.JSON(http.StatusOK, result)
}
