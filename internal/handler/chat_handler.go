package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/fleveque/stock-chat/internal/chat"
	"github.com/fleveque/stock-chat/internal/model"
	"github.com/fleveque/stock-chat/internal/session"
)

// ChatHandler exposes the conversation pipeline over HTTP. Each request is
// one submission: classify → resolve → price lookup → two new transcript
// entries. The session holds the transcript between requests.
type ChatHandler struct {
	chatService *chat.Service
	sessions    *session.Store
	logger      *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(chatService *chat.Service, sessions *session.Store, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		sessions:    sessions,
		logger:      logger,
	}
}

// chatRequest is the POST body. Gin's binding tags validate on bind —
// an empty message is rejected before the pipeline runs.
type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message" binding:"required"`
}

type chatResponse struct {
	SessionID string          `json:"session_id"`
	Reply     string          `json:"reply"`
	Messages  []model.Message `json:"messages"`
}

// Submit handles one conversational turn.
// Route: POST /api/v1/chat
//
// With no session_id, a fresh session is created and its ID returned —
// clients carry it forward to keep one transcript across turns.
func (h *ChatHandler) Submit(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "message is required",
		})
		return
	}

	var sess *session.Session
	if req.SessionID == "" {
		sess = h.sessions.Create()
	} else {
		var ok bool
		sess, ok = h.sessions.Get(req.SessionID)
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "unknown session",
			})
			return
		}
	}

	var reply string
	sess.Do(func(conv *chat.Conversation) {
		reply = h.chatService.HandleSubmit(c.Request.Context(), conv, req.Message)
	})

	h.logger.Info("handled submission",
		zap.String("session_id", sess.ID),
		zap.Int("messages", len(sess.Messages())),
	)

	c.JSON(http.StatusOK, chatResponse{
		SessionID: sess.ID,
		Reply:     reply,
		Messages:  sess.Messages(),
	})
}

// Transcript returns a session's full message history in order.
// Route: GET /api/v1/sessions/:id/messages
func (h *ChatHandler) Transcript(c *gin.Context) {
	sess, ok := h.sessions.Get(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "unknown session",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"session_id": sess.ID,
		"messages":   sess.Messages(),
	})
}
