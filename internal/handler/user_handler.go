package handler

import (
	"net/http"
	"strings"

	"EVChatbot_MultimodalProject/internal/auth"
	"EVChatbot_MultimodalProject/internal/credential"
	"EVChatbot_MultimodalProject/internal/storage"

	"github.com/gin-gonic/gin"
)

// /signup request body
type SignupRequest struct {
	Username string `json:"username" example:"new_user"`
	Password string `json:"password" example:"password123"`
	Name     string `json:"name" example:"Gil Dong"`
}

// /login request body
type LoginRequest struct {
	Username string `json:"username" example:"my_user"`
	Password string `json:"password" example:"password123"`
}

type LoginSuccessResponse struct {
	Token string `json:"token" example:"eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9..."`
	Name  string `json:"name" example:"Gil Dong"`
}

// Signup godoc
// @Summary      Provision a user account
// @Description  Creates a new account. Provisioning is an admin path gated by the X-Invite-Code header; the chat core itself never writes user records.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        X-Invite-Code header string true "Signup invite code"
// @Param        request body handler.SignupRequest true "Signup request"
// @Success      200 {object} handler.SuccessResponse
// @Failure      400 {object} handler.ErrorResponse
// @Failure      403 {object} handler.ErrorResponse
// @Failure      500 {object} handler.ErrorResponse
// @Router       /signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if strings.TrimSpace(req.Username) == "" || strings.TrimSpace(req.Password) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username and Password cannot be empty"})
		return
	}

	hash, err := credential.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	if err := h.users.CreateUser(c.Request.Context(), req.Username, hash, req.Name); err != nil {
		if err == storage.ErrUsernameExists {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username already exists"})
		} else {
			h.log.Errorw("create user failed", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User created successfully"})
}

// Login godoc
// @Summary      Log in
// @Description  Verifies credentials, starts a conversation session and issues a JWT bound to it.
// @Tags         User
// @Accept       json
// @Produce      json
// @Param        request body handler.LoginRequest true "Login request"
// @Success      200 {object} handler.LoginSuccessResponse
// @Failure      400 {object} handler.ErrorResponse "Bad request"
// @Failure      401 {object} handler.ErrorResponse "Invalid credentials"
// @Failure      503 {object} handler.ErrorResponse "Credential store unreachable"
// @Router       /login [post]
func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if req.Username == "" || req.Password == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	sessionID, ctrl, err := h.sessions.Create(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.writeChatError(c, err)
		return
	}

	token, err := auth.GenerateToken(req.Username, sessionID, h.cfg.SessionTTL)
	if err != nil {
		h.sessions.Destroy(sessionID)
		h.log.Errorw("token generation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	_, _, name, _, _ := ctrl.Snapshot()
	c.JSON(http.StatusOK, LoginSuccessResponse{Token: token, Name: name})
}

// Profile godoc
// @Summary      Current user profile
// @Description  Returns the authenticated username. (JWT required)
// @Tags         API (Protected)
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} object{username=string}
// @Failure      401 {object} handler.ErrorResponse
// @Router       /api/profile [get]
func (h *Handler) Profile(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"username": c.GetString("username")})
}
