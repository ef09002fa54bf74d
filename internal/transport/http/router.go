package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/transport/http/middleware"
	"github.com/iamasit07/connect-four/pkg/auth"
)

type RouterConfig struct {
	Games          *GameHandler
	History        *HistoryHandler // nil without an archive
	WebSocket      gin.HandlerFunc // nil disables /ws
	Tokens         *auth.Tokens
	AllowedOrigins []string
	Logger         *zap.Logger
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())
	router.Use(middleware.SecurityHeadersMiddleware())
	router.Use(middleware.CORSMiddleware(cfg.AllowedOrigins, cfg.Logger))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := router.Group("/api")
	{
		api.POST("/games", cfg.Games.CreateGame)
		api.GET("/games", cfg.Games.GetLiveGames)
	}

	games := api.Group("/games/:id")
	games.Use(middleware.GameIDMiddleware())
	{
		games.GET("", cfg.Games.GetGame)
		games.GET("/suggestion", cfg.Games.Suggest)
	}

	// Protected Routes
	protected := games.Group("")
	protected.Use(middleware.GameAuthMiddleware(cfg.Tokens))
	{
		protected.POST("/moves", cfg.Games.DropDisc)
		protected.POST("/undo", cfg.Games.Undo)
		protected.POST("/reset", cfg.Games.Reset)
		protected.DELETE("", cfg.Games.DeleteGame)
	}

	if cfg.History != nil {
		api.GET("/history", cfg.History.GetHistory)
		api.GET("/history/:id", cfg.History.GetGameDetails)
	}

	// auth is checked inside the websocket handler
	if cfg.WebSocket != nil {
		router.GET("/ws/games/:id", cfg.WebSocket)
	}
	return router
}
