package handler

import (
	"io"
	"net/http"

	"EVChatbot_MultimodalProject/internal/models"

	"github.com/gin-gonic/gin"
)

// /api/chat request body
type ChatRequest struct {
	Message string `json:"message" example:"What EV charger is shown in the image?"`
}

type ChatResponse struct {
	Reply string `json:"reply" example:"That is a CCS2 fast charger."`
}

// One rendered history entry.
type TurnView struct {
	Role     string `json:"role" example:"assistant"`
	Text     string `json:"text" example:"Hello! How can I help?"`
	HasImage bool   `json:"has_image"`
}

// /api/state response
type StateResponse struct {
	Phase             string     `json:"phase" example:"chatting"`
	Username          string     `json:"username" example:"my_user"`
	Name              string     `json:"name" example:"Gil Dong"`
	PendingAttachment bool       `json:"pending_attachment"`
	History           []TurnView `json:"history"`
}

// Chat godoc
// @Summary      Submit a prompt
// @Description  Sends the message (plus any staged image) to the AI model and returns the reply. The user and assistant turns are appended to the session history only when the model call succeeds, so a failed prompt can simply be resubmitted.
// @Tags         API (Protected)
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body handler.ChatRequest true "Prompt"
// @Success      200 {object} handler.ChatResponse
// @Failure      400 {object} handler.ErrorResponse "Empty input"
// @Failure      401 {object} handler.ErrorResponse
// @Failure      409 {object} handler.ErrorResponse "A request is already in flight"
// @Failure      413 {object} handler.ErrorResponse "Conversation too long"
// @Failure      429 {object} handler.ErrorResponse "Model rate limited"
// @Failure      502 {object} handler.ErrorResponse
// @Failure      503 {object} handler.ErrorResponse
// @Router       /api/chat [post]
func (h *Handler) Chat(c *gin.Context) {
	ctrl, _, ok := h.controller(c)
	if !ok {
		return
	}

	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	reply, err := ctrl.Submit(c.Request.Context(), req.Message, nil)
	if err != nil {
		h.writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, ChatResponse{Reply: reply})
}

// Upload godoc
// @Summary      Stage an image for the next prompt
// @Description  Uploads a JPEG or PNG that will ride with the next submitted prompt. Uploading again before sending replaces the staged image; it is consumed only once a prompt is successfully sent.
// @Tags         API (Protected)
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        image formData file true "Image file (image/jpeg or image/png)"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse "Missing, oversized or unsupported image"
// @Failure      401 {object} handler.ErrorResponse
// @Failure      409 {object} handler.ErrorResponse
// @Router       /api/upload [post]
func (h *Handler) Upload(c *gin.Context) {
	ctrl, _, ok := h.controller(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image file required"})
		return
	}
	if fileHeader.Size > h.cfg.MaxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large"})
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	if !models.AllowedMimeType(mimeType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Only JPEG and PNG images are supported"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.cfg.MaxUploadBytes))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to read image"})
		return
	}

	if err := ctrl.AttachImage(models.Attachment{MimeType: mimeType, Data: data}); err != nil {
		h.writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Image staged for the next prompt"})
}

// ClearHistory godoc
// @Summary      Clear conversation history
// @Description  Empties the session's turn history and any staged image without logging out.
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.SuccessResponse
// @Failure      401 {object} handler.ErrorResponse
// @Failure      409 {object} handler.ErrorResponse
// @Router       /api/clear [post]
func (h *Handler) ClearHistory(c *gin.Context) {
	ctrl, _, ok := h.controller(c)
	if !ok {
		return
	}
	if err := ctrl.ClearHistory(); err != nil {
		h.writeChatError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "History cleared"})
}

// Logout godoc
// @Summary      Log out
// @Description  Destroys the session and its conversation state. Transcripts are never persisted.
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.SuccessResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	_, sessionID, ok := h.controller(c)
	if !ok {
		return
	}
	h.sessions.Destroy(sessionID)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// State godoc
// @Summary      Session state
// @Description  Returns the session phase, owner and rendered history for UI rendering and input gating (disable input while sending).
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} handler.StateResponse
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/state [get]
func (h *Handler) State(c *gin.Context) {
	ctrl, _, ok := h.controller(c)
	if !ok {
		return
	}

	phase, owner, name, turns, pending := ctrl.Snapshot()
	history := make([]TurnView, 0, len(turns))
	for _, t := range turns {
		history = append(history, TurnView{Role: string(t.Role), Text: t.Text, HasImage: t.HasImage()})
	}
	c.JSON(http.StatusOK, StateResponse{
		Phase:             phase.String(),
		Username:          owner,
		Name:              name,
		PendingAttachment: pending,
		History:           history,
	})
}
