package server

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/chat"
	"github.com/fleveque/stock-chat/internal/config"
	"github.com/fleveque/stock-chat/internal/handler"
	"github.com/fleveque/stock-chat/internal/middleware"
	"github.com/fleveque/stock-chat/internal/session"
	"github.com/fleveque/stock-chat/internal/storage"
)

// Deps bundles what the route handlers need. Passing them explicitly —
// no DI container, no magic — keeps the wiring visible in one place.
type Deps struct {
	ChatService *chat.Service
	Sessions    *session.Store
	CallRepo    storage.CallRepository
}

// RegisterRoutes sets up all HTTP routes on the Gin engine.
func RegisterRoutes(r *gin.Engine, cfg *config.Config, deps Deps, logger *zap.Logger) {
	healthHandler := handler.NewHealthHandler()
	chatHandler := handler.NewChatHandler(deps.ChatService, deps.Sessions, logger)
	adminHandler := handler.NewAdminHandler(deps.CallRepo, deps.Sessions, logger)

	// Public endpoints (no auth)
	r.GET("/healthz", healthHandler.Healthz)

	// CORS middleware applies to the entire API group.
	api := r.Group("/api/v1")
	api.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	// Chat endpoints — gated only when API keys are configured.
	authed := api.Group("")
	authed.Use(middleware.APIKeyAuth(cfg.Auth.APIKeys))
	{
		authed.POST("/chat", chatHandler.Submit)
		authed.GET("/sessions/:id/messages", chatHandler.Transcript)
	}

	// Admin endpoints (separate auth with admin keys)
	admin := api.Group("/admin")
	admin.Use(middleware.AdminKeyAuth(cfg.Auth.AdminKeys))
	{
		admin.GET("/stats", adminHandler.Stats)
	}
}
