package api

import (
	authDelivery "corretora-backend/internal/auth/delivery"
	clientDelivery "corretora-backend/internal/client/delivery"
	kanbanDelivery "corretora-backend/internal/kanban/delivery"
	whatsappDelivery "corretora-backend/internal/whatsapp/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, h *Handler) {
	authHandler := authDelivery.NewAuthHandler(h.authUsecase)
	kanbanHandler := kanbanDelivery.NewKanbanHandler(h.kanbanUsecase)
	clientHandler := clientDelivery.NewClientHandler(h.clientUsecase, h.policyUsecase, h.whatsapp)
	whatsappHandler := whatsappDelivery.NewWhatsAppHandler(h.whatsapp, h.config.WhatsAppVerifyToken)

	requireAuth := authDelivery.AuthMiddleware(h.authUsecase)

	// Provider webhook (public, verified by token)
	webhook := r.Group("/webhook")
	{
		webhook.GET("/whatsapp", whatsappHandler.VerifyWebhook)
		webhook.POST("/whatsapp", whatsappHandler.ReceiveWebhook)
	}

	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", h.Health)

		// Auth routes
		auth := api.Group("/auth")
		{
			auth.POST("/login", authHandler.Login)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", requireAuth, authHandler.Me)
		}

		// User administration (admin only)
		users := api.Group("/users")
		users.Use(requireAuth, authDelivery.RequireAdmin())
		{
			users.GET("", authHandler.ListUsers)
			users.POST("", authHandler.CreateUser)
			users.PUT("/:id", authHandler.UpdateUser)
			users.POST("/:id/toggle", authHandler.ToggleUserActive)
		}

		api.GET("/dashboard", requireAuth, h.GetDashboard)

		// Kanban routes (protected)
		kanban := api.Group("/kanban")
		kanban.Use(requireAuth)
		{
			kanban.GET("", kanbanHandler.GetBoard)
			kanban.GET("/cards", kanbanHandler.ListCards)
			kanban.POST("/cards", kanbanHandler.CreateCard)
			kanban.POST("/cards/:id/move", kanbanHandler.MoveCard)
			kanban.DELETE("/cards/:id", kanbanHandler.DeleteCard)
			kanban.PATCH("/columns/:id", kanbanHandler.UpdateColumn)
			kanban.POST("/columns/:id/compact", kanbanHandler.CompactColumn)
		}

		// Client and policy routes (protected)
		clients := api.Group("/clients")
		clients.Use(requireAuth)
		{
			clients.GET("", clientHandler.ListClients)
			clients.POST("", clientHandler.CreateClient)
			clients.GET("/:id", clientHandler.GetClient)
			clients.PUT("/:id", clientHandler.UpdateClient)
			clients.POST("/:id/whatsapp", clientHandler.SendWhatsApp)
			clients.GET("/:id/policies", clientHandler.ListPolicies)
			clients.POST("/:id/policies", clientHandler.CreatePolicy)
		}

		policies := api.Group("/policies")
		policies.Use(requireAuth)
		{
			policies.GET("/:id", clientHandler.GetPolicy)
			policies.PUT("/:id", clientHandler.UpdatePolicy)
		}

		// WhatsApp routes (protected)
		whatsapp := api.Group("/whatsapp")
		whatsapp.Use(requireAuth)
		{
			whatsapp.GET("/status", whatsappHandler.GetStatus)
			whatsapp.POST("/session/start", whatsappHandler.StartSession)
			whatsapp.POST("/session/close", whatsappHandler.CloseSession)
			whatsapp.GET("/qrcode", whatsappHandler.GetQRCode)
			whatsapp.POST("/send", whatsappHandler.SendMessage)
			whatsapp.GET("/contacts", whatsappHandler.GetContacts)
			whatsapp.GET("/chats", whatsappHandler.GetChats)
			whatsapp.GET("/messages", whatsappHandler.ListMessages)
		}

		// Settings routes (protected)
		settings := api.Group("/settings")
		settings.Use(requireAuth)
		{
			settings.GET("/whatsapp", h.GetWhatsAppSettings)
			settings.POST("/whatsapp/test", h.TestWhatsAppConnection)
		}
	}
}
