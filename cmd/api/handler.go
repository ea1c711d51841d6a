package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	authUsecase "corretora-backend/internal/auth/usecase"
	clientUsecase "corretora-backend/internal/client/usecase"
	kanbanUsecase "corretora-backend/internal/kanban/usecase"
	whatsappUsecase "corretora-backend/internal/whatsapp/usecase"
	"corretora-backend/pkg/config"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shutdownTimeout = 10 * time.Second

type Handler struct {
	authUsecase   authUsecase.AuthUsecase
	kanbanUsecase kanbanUsecase.KanbanUsecase
	clientUsecase clientUsecase.ClientUsecase
	policyUsecase clientUsecase.PolicyUsecase
	whatsapp      whatsappUsecase.Service
	db            *gorm.DB
	config        *config.Config
	log           *zap.Logger
}

func NewHandler(
	authUc authUsecase.AuthUsecase,
	kanbanUc kanbanUsecase.KanbanUsecase,
	clientUc clientUsecase.ClientUsecase,
	policyUc clientUsecase.PolicyUsecase,
	whatsapp whatsappUsecase.Service,
	db *gorm.DB,
	cfg *config.Config,
) *Handler {
	return &Handler{
		authUsecase:   authUc,
		kanbanUsecase: kanbanUc,
		clientUsecase: clientUc,
		policyUsecase: policyUc,
		whatsapp:      whatsapp,
		db:            db,
		config:        cfg,
		log:           zap.L().Named("api"),
	}
}

// Router builds the gin engine with middleware and routes, wrapped in CORS.
func (h *Handler) Router() http.Handler {
	r := gin.New()
	r.Use(RequestID(), AccessLog(h.log), Recovery(h.log))

	SetupRoutes(r, h)

	c := cors.New(cors.Options{
		AllowedOrigins: h.config.CORSOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "Accept", "Origin", "X-Requested-With", RequestIDHeader},
		ExposedHeaders: []string{RequestIDHeader},
		MaxAge:         600,
	})
	return c.Handler(r)
}

// Start serves until ctx is cancelled, then drains in-flight requests.
func (h *Handler) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		h.log.Info("server starting", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	h.log.Info("server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// Health reports service and database liveness
// GET /api/health
func (h *Handler) Health(c *gin.Context) {
	status := http.StatusOK
	database := "ok"

	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		h.log.Warn("database ping failed", zap.Error(err))
		status = http.StatusServiceUnavailable
		database = "unavailable"
	}

	c.JSON(status, gin.H{
		"status":    http.StatusText(status),
		"database":  database,
		"timestamp": time.Now().UTC(),
	})
}
