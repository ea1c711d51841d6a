package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"corretora-backend/internal/client/domain"
	"corretora-backend/internal/client/dto"
	"corretora-backend/internal/client/usecase"
	whatsappdomain "corretora-backend/internal/whatsapp/domain"
	whatsapp "corretora-backend/internal/whatsapp/usecase"
	"corretora-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ClientHandler handles client and policy HTTP requests
type ClientHandler struct {
	clientUsecase usecase.ClientUsecase
	policyUsecase usecase.PolicyUsecase
	whatsapp      whatsapp.Service
	log           *zap.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(clientUsecase usecase.ClientUsecase, policyUsecase usecase.PolicyUsecase, whatsappService whatsapp.Service) *ClientHandler {
	validation.RegisterJSONTagNames()
	return &ClientHandler{
		clientUsecase: clientUsecase,
		policyUsecase: policyUsecase,
		whatsapp:      whatsappService,
		log:           zap.L().Named("client.http"),
	}
}

// ListClients returns a page of clients
// GET /api/clients?page=&search=&status=
func (h *ClientHandler) ListClients(c *gin.Context) {
	status := c.Query("status")
	switch domain.ClientStatus(status) {
	case "", domain.ClientStatusProspect, domain.ClientStatusActive, domain.ClientStatusInactive:
	default:
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.Add(nil, "status", "Must be one of: prospect, active, inactive.")})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))

	resp, err := h.clientUsecase.ListClients(c.Query("search"), status, page)
	if err != nil {
		h.internalError(c, "list clients", err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// CreateClient registers a client
// POST /api/clients
func (h *ClientHandler) CreateClient(c *gin.Context) {
	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	client, err := h.clientUsecase.CreateClient(&req)
	if err != nil {
		h.internalError(c, "create client", err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

// GetClient returns a client with its policies
// GET /api/clients/:id
func (h *ClientHandler) GetClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	client, err := h.clientUsecase.GetClient(id)
	if err != nil {
		h.handleError(c, "get client", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// UpdateClient replaces a client's editable fields
// PUT /api/clients/:id
func (h *ClientHandler) UpdateClient(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	client, err := h.clientUsecase.UpdateClient(id, &req)
	if err != nil {
		h.handleError(c, "update client", err)
		return
	}
	c.JSON(http.StatusOK, client)
}

// SendWhatsApp messages a client on their WhatsApp or main phone
// POST /api/clients/:id/whatsapp
func (h *ClientHandler) SendWhatsApp(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.SendWhatsAppRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	client, err := h.clientUsecase.GetClient(id)
	if err != nil {
		h.handleError(c, "get client", err)
		return
	}
	to := client.ContactPhone()
	if to == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": domain.ErrClientHasNoPhoneNumber.Error()})
		return
	}

	result, err := h.whatsapp.SendText(c.Request.Context(), to, req.Message)
	if errors.Is(err, whatsappdomain.ErrInvalidPhone) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.Add(nil, "phone", err.Error())})
		return
	}
	if err != nil {
		h.internalError(c, "store sent message", err)
		return
	}
	if !result.Success {
		c.JSON(http.StatusBadGateway, gin.H{"success": false, "error": result.Error, "result": result})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "result": result})
}

// ListPolicies returns a client's policies
// GET /api/clients/:id/policies
func (h *ClientHandler) ListPolicies(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	policies, err := h.policyUsecase.ListByClient(id)
	if err != nil {
		h.handleError(c, "list policies", err)
		return
	}
	if policies == nil {
		policies = []*domain.Policy{}
	}
	c.JSON(http.StatusOK, policies)
}

// CreatePolicy adds a policy to a client
// POST /api/clients/:id/policies
func (h *ClientHandler) CreatePolicy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	policy, err := h.policyUsecase.CreatePolicy(id, &req)
	if err != nil {
		h.handleError(c, "create policy", err)
		return
	}
	c.JSON(http.StatusCreated, policy)
}

// GetPolicy returns one policy
// GET /api/policies/:id
func (h *ClientHandler) GetPolicy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	policy, err := h.policyUsecase.GetPolicy(id)
	if err != nil {
		h.handleError(c, "get policy", err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

// UpdatePolicy replaces a policy's editable fields
// PUT /api/policies/:id
func (h *ClientHandler) UpdatePolicy(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	policy, err := h.policyUsecase.UpdatePolicy(id, &req)
	if err != nil {
		h.handleError(c, "update policy", err)
		return
	}
	c.JSON(http.StatusOK, policy)
}

func (h *ClientHandler) handleError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrClientNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Client not found"})
	case errors.Is(err, domain.ErrPolicyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Policy not found"})
	case errors.Is(err, domain.ErrDuplicatePolicyNumber):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.Add(nil, "policy_number", "Policy number already exists.")})
	case errors.Is(err, domain.ErrInvalidPolicyDates):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.Add(nil, "end_date", "End date must not be before start date.")})
	default:
		h.internalError(c, op, err)
	}
}

func (h *ClientHandler) internalError(c *gin.Context, op string, err error) {
	h.log.Error(op+" failed", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}
