package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/session"
	"github.com/fleveque/stock-chat/internal/storage"
)

// AdminHandler handles administrative endpoints.
type AdminHandler struct {
	callRepo storage.CallRepository
	sessions *session.Store
	logger   *zap.Logger
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(callRepo storage.CallRepository, sessions *session.Store, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		callRepo: callRepo,
		sessions: sessions,
		logger:   logger,
	}
}

// Stats returns upstream call counts and live session statistics.
// Route: GET /api/v1/admin/stats
func (h *AdminHandler) Stats(c *gin.Context) {
	ctx := c.Request.Context()

	total, err := h.callRepo.Count(ctx)
	if err != nil {
		h.logger.Error("counting api calls", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	byProvider, err := h.callRepo.StatsByProvider(ctx)
	if err != nil {
		h.logger.Error("querying call stats", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"sessions":          h.sessions.Count(),
		"api_calls":         total,
		"calls_by_provider": byProvider,
	})
}
