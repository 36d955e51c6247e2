package handler

import (
	"context"
	"errors"
	"net/http"

	"EVChatbot_MultimodalProject/internal/auth"
	"EVChatbot_MultimodalProject/internal/chat"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type wsReply struct {
	Reply string `json:"reply,omitempty"`
	Error string `json:"error,omitempty"`
}

// HandleChat godoc
// @Summary      Interactive chat over WebSocket
// @Description  Upgrades to a WebSocket and runs the chat loop: each text frame is submitted as a prompt, each reply comes back as a JSON frame. This is not a standard HTTP API; connect with ws:// or wss://. Authentication uses the token query parameter instead of a header.
// @Tags         WebSocket
// @Param        token query string true "JWT issued at login"
// @Success      101 {string} string "Switching Protocols"
// @Failure      401 {object} handler.ErrorResponse "Missing or invalid token"
// @Router       /ws/chat [get]
func (h *Handler) HandleChat(c *gin.Context) {
	claims, err := auth.ValidateToken(c.Query("token"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	ctrl, ok := h.sessions.Get(claims.SessionID)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please log in again"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Errorw("websocket upgrade failed", "username", claims.Username, "error", err)
		return
	}
	defer conn.Close()
	h.log.Infow("chat socket opened", "username", claims.Username)

	h.runChatLoop(c.Request.Context(), conn, ctrl, claims.Username)
	h.log.Infow("chat socket closed", "username", claims.Username)
}

func (h *Handler) runChatLoop(ctx context.Context, conn *websocket.Conn, ctrl *chat.Controller, username string) {
	for {
		messageType, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			h.log.Warnw("unsupported frame type", "username", username, "type", messageType)
			continue
		}

		reply, err := ctrl.Submit(ctx, string(message), nil)
		if err != nil {
			if errors.Is(err, chat.ErrNotAuthenticated) || errors.Is(err, chat.ErrSessionClosed) {
				_ = conn.WriteJSON(wsReply{Error: "Session expired, please log in again"})
				return
			}
			_ = conn.WriteJSON(wsReply{Error: wsErrorMessage(err)})
			continue
		}
		if err := conn.WriteJSON(wsReply{Reply: reply}); err != nil {
			return
		}
	}
}

func wsErrorMessage(err error) string {
	switch {
	case errors.Is(err, chat.ErrEmptyInput):
		return "Type a message or attach an image"
	case errors.Is(err, chat.ErrBusy):
		return "A request is already in progress"
	}
	kind, ok := chat.GatewayKind(err)
	if !ok {
		return "Internal error"
	}
	switch kind {
	case chat.GatewayRateLimited, chat.GatewayUnavailable:
		return "The AI service is busy, try again shortly"
	case chat.GatewayUnauthorized:
		return "The AI service is misconfigured, contact an administrator"
	case chat.GatewayContextTooLarge:
		return "The conversation is too long, clear the history and retry"
	default:
		return "The AI service returned an error, try again"
	}
}
