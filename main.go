package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	api "corretora-backend/cmd/api"
	authRepo "corretora-backend/internal/auth/repository"
	authUsecase "corretora-backend/internal/auth/usecase"
	clientRepo "corretora-backend/internal/client/repository"
	"corretora-backend/internal/client/scheduler"
	clientUsecase "corretora-backend/internal/client/usecase"
	kanbanRepo "corretora-backend/internal/kanban/repository"
	kanbanUsecase "corretora-backend/internal/kanban/usecase"
	"corretora-backend/internal/schema"
	whatsappRepo "corretora-backend/internal/whatsapp/repository"
	whatsappUsecase "corretora-backend/internal/whatsapp/usecase"
	"corretora-backend/pkg/config"
	"corretora-backend/pkg/database"
	"corretora-backend/pkg/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "corretora",
	Short:         "Corretora - insurance brokerage backend",
	Long:          `Corretora serves the brokerage API: clients, policies, the sales kanban and WhatsApp messaging.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the policy expiry job",
	RunE:  runServe,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply the database schema and seed defaults, then exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, db, err := bootstrap()
		if err != nil {
			return err
		}
		uc := newUsecases(cfg, db)
		if err := seed(cfg, uc.auth, uc.kanban); err != nil {
			return err
		}
		zap.L().Info("migration complete")
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, installs the logger and opens a migrated
// database connection.
func bootstrap() (*config.Config, *gorm.DB, error) {
	cfg := config.Load()

	log, err := logger.New(cfg.LogLevel, verbose)
	if err != nil {
		return nil, nil, err
	}

	db, err := database.NewConnection(cfg)
	if err != nil {
		log.Error("failed to connect to database", zap.Error(err))
		return nil, nil, err
	}

	if err := schema.Migrate(db); err != nil {
		log.Error("failed to migrate database", zap.Error(err))
		return nil, nil, err
	}
	return cfg, db, nil
}

func seed(cfg *config.Config, authUc authUsecase.AuthUsecase, kanbanUc kanbanUsecase.KanbanUsecase) error {
	if err := authUc.EnsureAdmin(cfg.AdminPassword); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}
	if _, err := kanbanUc.EnsureDefaultColumns(); err != nil {
		return fmt.Errorf("failed to seed kanban columns: %w", err)
	}
	return nil
}

type usecases struct {
	auth   authUsecase.AuthUsecase
	client clientUsecase.ClientUsecase
	policy clientUsecase.PolicyUsecase
	kanban kanbanUsecase.KanbanUsecase
}

func newUsecases(cfg *config.Config, db *gorm.DB) *usecases {
	// Initialize repositories (dependency injection)
	userRepo := authRepo.NewUserRepository(db)
	clientRepository := clientRepo.NewClientRepository(db)
	policyRepository := clientRepo.NewPolicyRepository(db)
	columnRepo := kanbanRepo.NewColumnRepository(db)
	cardRepo := kanbanRepo.NewCardRepository(db)

	clientUc := clientUsecase.NewClientUsecase(clientRepository, policyRepository)
	return &usecases{
		auth:   authUsecase.NewAuthUsecase(userRepo, cfg),
		client: clientUc,
		policy: clientUsecase.NewPolicyUsecase(clientRepository, policyRepository),
		kanban: kanbanUsecase.NewKanbanUsecase(columnRepo, cardRepo, clientUc),
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, db, err := bootstrap()
	if err != nil {
		return err
	}
	log := zap.L()
	defer func() { _ = log.Sync() }()

	uc := newUsecases(cfg, db)
	if err := seed(cfg, uc.auth, uc.kanban); err != nil {
		return err
	}

	whatsappService, err := whatsappUsecase.NewService(cfg, whatsappRepo.NewMessageRepository(db))
	if err != nil {
		log.Error("failed to configure whatsapp provider", zap.Error(err))
		return err
	}
	log.Info("whatsapp provider configured", zap.String("provider", whatsappService.Provider()))

	handler := api.NewHandler(uc.auth, uc.kanban, uc.client, uc.policy, whatsappService, db, cfg)
	expiry := scheduler.NewPolicyExpiryScheduler(uc.policy, cfg.PolicyCheckInterval)

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return handler.Start(ctx, ":"+cfg.Port)
	})
	g.Go(func() error {
		return expiry.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server stopped", zap.Error(err))
		return err
	}
	log.Info("server stopped")
	return nil
}
