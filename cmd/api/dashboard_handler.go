package api

import (
	"net/http"

	clientdomain "corretora-backend/internal/client/domain"
	kanbandomain "corretora-backend/internal/kanban/domain"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DashboardResponse summarizes clients, the pipeline and messaging
type DashboardResponse struct {
	Clients           *clientdomain.StatusCounts  `json:"clients"`
	Kanban            []*kanbandomain.ColumnCount `json:"kanban"`
	TotalCards        int64                       `json:"total_cards"`
	WhatsAppConnected bool                        `json:"whatsapp_connected"`
	WhatsAppProvider  string                      `json:"whatsapp_provider"`
}

// GetDashboard returns the overview statistics
// GET /api/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	resp := DashboardResponse{WhatsAppProvider: h.whatsapp.Provider()}

	var g errgroup.Group
	g.Go(func() error {
		counts, err := h.clientUsecase.Counts()
		if err != nil {
			return err
		}
		resp.Clients = counts
		return nil
	})
	g.Go(func() error {
		stats, err := h.kanbanUsecase.Stats()
		if err != nil {
			return err
		}
		resp.Kanban = stats.Columns
		resp.TotalCards = stats.TotalCards
		return nil
	})
	// a provider outage must not fail the dashboard
	g.Go(func() error {
		resp.WhatsAppConnected = h.whatsapp.IsConnected(c.Request.Context())
		return nil
	})

	if err := g.Wait(); err != nil {
		h.log.Error("failed to build dashboard", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}
