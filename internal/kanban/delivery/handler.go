package delivery

import (
	"errors"
	"net/http"
	"strconv"

	"corretora-backend/internal/kanban/domain"
	"corretora-backend/internal/kanban/dto"
	"corretora-backend/internal/kanban/usecase"
	"corretora-backend/pkg/validation"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// KanbanHandler handles board HTTP requests
type KanbanHandler struct {
	kanbanUsecase usecase.KanbanUsecase
	log           *zap.Logger
}

// NewKanbanHandler creates a new KanbanHandler
func NewKanbanHandler(kanbanUsecase usecase.KanbanUsecase) *KanbanHandler {
	validation.RegisterJSONTagNames()
	return &KanbanHandler{kanbanUsecase: kanbanUsecase, log: zap.L().Named("kanban.http")}
}

// GetBoard returns active columns with their ordered cards
// GET /api/kanban
func (h *KanbanHandler) GetBoard(c *gin.Context) {
	columns, err := h.kanbanUsecase.GetBoard()
	if err != nil {
		h.internalError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.BoardResponse{Columns: columns})
}

// ListCards returns every card with client and responsible names
// GET /api/kanban/cards
func (h *KanbanHandler) ListCards(c *gin.Context) {
	cards, err := h.kanbanUsecase.ListCards()
	if err != nil {
		h.internalError(c, err)
		return
	}
	if cards == nil {
		cards = []*domain.CardView{}
	}
	c.JSON(http.StatusOK, cards)
}

// CreateCard appends a card to a column
// POST /api/kanban/cards
func (h *KanbanHandler) CreateCard(c *gin.Context) {
	var req dto.CreateCardRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	card, err := h.kanbanUsecase.CreateCard(&req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrColumnNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.Add(nil, "column_id", "Column not found.")})
		case errors.Is(err, domain.ErrClientNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.Add(nil, "client_id", "Client not found.")})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "card_id": card.ID})
}

// MoveCard places a card at a 1-based rank of a column
// POST /api/kanban/cards/:id/move
func (h *KanbanHandler) MoveCard(c *gin.Context) {
	cardID, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.MoveCardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}
	position := 1
	if req.Position != nil {
		position = *req.Position
	}

	card, err := h.kanbanUsecase.MoveCard(cardID, req.ColumnID, position)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrCardNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Card not found"})
		case errors.Is(err, domain.ErrColumnNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Column not found"})
		case errors.Is(err, domain.ErrInvalidPosition):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		default:
			h.internalError(c, err)
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "column_id": card.ColumnID, "position": card.OrderPosition})
}

// DeleteCard removes a card
// DELETE /api/kanban/cards/:id
func (h *KanbanHandler) DeleteCard(c *gin.Context) {
	cardID, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.kanbanUsecase.DeleteCard(cardID); err != nil {
		if errors.Is(err, domain.ErrCardNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Card not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateColumn renames, recolors or deactivates a column
// PATCH /api/kanban/columns/:id
func (h *KanbanHandler) UpdateColumn(c *gin.Context) {
	columnID, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateColumnRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "errors": validation.FieldErrors(err)})
		return
	}

	column, err := h.kanbanUsecase.UpdateColumn(columnID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, column)
}

// CompactColumn renumbers a column's cards to 1..n
// POST /api/kanban/columns/:id/compact
func (h *KanbanHandler) CompactColumn(c *gin.Context) {
	columnID, ok := parseID(c)
	if !ok {
		return
	}

	changed, err := h.kanbanUsecase.CompactColumn(columnID)
	if err != nil {
		if errors.Is(err, domain.ErrColumnNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Column not found"})
			return
		}
		h.internalError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "updated": changed})
}

func (h *KanbanHandler) internalError(c *gin.Context, err error) {
	h.log.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
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
