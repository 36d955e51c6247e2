// Package handler binds the HTTP surface to the session core.
package handler

import (
	"errors"
	"net/http"

	"EVChatbot_MultimodalProject/internal/chat"
	"EVChatbot_MultimodalProject/internal/config"
	"EVChatbot_MultimodalProject/internal/credential"
	"EVChatbot_MultimodalProject/internal/session"
	"EVChatbot_MultimodalProject/internal/storage"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler struct {
	users    *storage.UserStorage
	sessions *session.Manager
	cfg      *config.Config
	log      *zap.SugaredLogger
}

func New(users *storage.UserStorage, sessions *session.Manager, cfg *config.Config, log *zap.SugaredLogger) *Handler {
	return &Handler{users: users, sessions: sessions, cfg: cfg, log: log}
}

type SuccessResponse struct {
	Message string `json:"message" example:"OK"`
}
type ErrorResponse struct {
	Error string `json:"error" example:"error cause"`
}

// controller resolves the live session for an authenticated request, or
// answers 401 if the session has already expired or been logged out.
func (h *Handler) controller(c *gin.Context) (*chat.Controller, string, bool) {
	sessionID := c.GetString("session_id")
	ctrl, ok := h.sessions.Get(sessionID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again"})
		return nil, "", false
	}
	return ctrl, sessionID, true
}

// writeChatError maps core errors onto HTTP status codes and user-facing
// messages. Auth failure reasons are collapsed into one message so the API
// does not leak which usernames exist.
func (h *Handler) writeChatError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, credential.ErrNoSuchUser), errors.Is(err, credential.ErrBadPassword):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, credential.ErrStoreUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Login is temporarily unavailable, please try again"})
	case errors.Is(err, credential.ErrMalformedDigest):
		h.log.Errorw("malformed stored digest", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Account is misconfigured, contact an administrator"})
	case errors.Is(err, chat.ErrEmptyInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type a message or attach an image"})
	case errors.Is(err, chat.ErrUnsupportedImage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG and PNG images are supported"})
	case errors.Is(err, chat.ErrBusy):
		c.JSON(http.StatusConflict, gin.H{"error": "A request is already in progress"})
	case errors.Is(err, chat.ErrNotAuthenticated), errors.Is(err, chat.ErrSessionClosed):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again"})
	default:
		h.writeGatewayError(c, err)
	}
}

func (h *Handler) writeGatewayError(c *gin.Context, err error) {
	kind, ok := chat.GatewayKind(err)
	if !ok {
		h.log.Errorw("unexpected error", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
		return
	}
	switch kind {
	case chat.GatewayRateLimited:
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "The AI service is busy, try again shortly"})
	case chat.GatewayUnavailable:
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "The AI service is unreachable, try again shortly"})
	case chat.GatewayUnauthorized:
		h.log.Errorw("gateway rejected credentials", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "The AI service is misconfigured, contact an administrator"})
	case chat.GatewayContextTooLarge:
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "The conversation is too long, clear the history and retry"})
	default:
		h.log.Errorw("gateway failure", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "The AI service returned an error, try again"})
	}
}
