package main

import (
	"net/http"
	"time"

	"EVChatbot_MultimodalProject/internal/auth"
	"EVChatbot_MultimodalProject/internal/chat"
	"EVChatbot_MultimodalProject/internal/config"
	"EVChatbot_MultimodalProject/internal/credential"
	"EVChatbot_MultimodalProject/internal/handler"
	"EVChatbot_MultimodalProject/internal/llm"
	"EVChatbot_MultimodalProject/internal/middleware"
	"EVChatbot_MultimodalProject/internal/session"
	"EVChatbot_MultimodalProject/internal/storage"

	_ "EVChatbot_MultimodalProject/docs"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	limit "github.com/yangxikun/gin-limit-by-key"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// @title           EV Chatbot API
// @version         1.0
// @description     Login-gated multimodal (text + image) AI chat service backed by Gemini.
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in              header
// @name            Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	var zl *zap.Logger
	if cfg.DebugMode {
		zl, err = zap.NewDevelopment()
	} else {
		zl, err = zap.NewProduction()
	}
	if err != nil {
		panic(err)
	}
	defer zl.Sync()
	log := zl.Sugar()

	if cfg.GeminiAPIKey == "" {
		log.Warn("GEMINI_API_KEY is not set; model calls will be rejected")
	}

	auth.SetSigningKey([]byte(cfg.JWTSecretKey))

	db, err := storage.Open(cfg.DBPath)
	if err != nil {
		log.Fatalw("open database", "error", err)
	}
	defer db.Close()

	users := storage.NewUserStorage(db)
	verifier := credential.NewVerifier(users)
	gateway := llm.NewGeminiClient(cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiBaseURL, log)
	composer := chat.NewComposer(cfg.SystemInstruction, cfg.MaxHistoryTurns)

	sessions := session.NewManager(cfg.SessionTTL, func() *chat.Controller {
		return chat.NewController(verifier, gateway, composer, log)
	}, log)

	h := handler.New(users, sessions, cfg, log)

	if !cfg.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Invite-Code")
	router.Use(cors.New(corsConfig))

	// Per-client-IP limiter on the endpoints that hit external services.
	rateLimiter := limit.NewRateLimiter(func(c *gin.Context) string {
		return c.ClientIP()
	}, func(c *gin.Context) (*rate.Limiter, time.Duration) {
		return rate.NewLimiter(rate.Every(time.Second), 5), time.Hour
	}, func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
	})

	router.POST("/signup", middleware.InviteCodeMiddleware(cfg.SignupInviteCode), h.Signup)
	router.POST("/login", rateLimiter, h.Login)

	protected := router.Group("/api").Use(middleware.AuthMiddleware())
	{
		protected.GET("/profile", h.Profile)
		protected.GET("/state", h.State)
		protected.POST("/chat", rateLimiter, h.Chat)
		protected.POST("/upload", h.Upload)
		protected.POST("/clear", h.ClearHistory)
		protected.POST("/logout", h.Logout)
	}

	router.GET("/ws/chat", h.HandleChat)
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	log.Infow("starting server", "addr", cfg.ListenAddr)
	if err := router.Run(cfg.ListenAddr); err != nil {
		log.Fatalw("server stopped", "error", err)
	}
}
