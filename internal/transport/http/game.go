package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/game"
	"github.com/iamasit07/connect-four/pkg/auth"
)

// Limits on client supplied games.
const (
	maxBoardSide     = 12
	maxNameLength    = 32
	defaultSearchCap = 10 * time.Second
)

type GameHandler struct {
	Sessions *game.SessionManager
	Tokens   *auth.Tokens
	// SearchTimeout bounds bot and suggestion searches per request.
	SearchTimeout time.Duration
	logger        *zap.Logger
}

func NewGameHandler(sessions *game.SessionManager, tokens *auth.Tokens, logger *zap.Logger) *GameHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &GameHandler{
		Sessions:      sessions,
		Tokens:        tokens,
		SearchTimeout: defaultSearchCap,
		logger:        logger.Named("http"),
	}
}

type seatRequest struct {
	Name string `json:"name"`
	Bot  string `json:"bot"`
}

type createGameRequest struct {
	Players       []seatRequest `json:"players" binding:"required,min=2,max=4"`
	Width         int           `json:"width" binding:"min=0"`
	Height        int           `json:"height" binding:"min=0"`
	VictoryLength int           `json:"victory_length" binding:"min=0"`
}

type createGameResponse struct {
	game.Snapshot
	Token string `json:"token"`
}

type moveRequest struct {
	Column *int `json:"column" binding:"required"`
}

func (h *GameHandler) searchContext(c *gin.Context) (context.Context, context.CancelFunc) {
	if h.SearchTimeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), h.SearchTimeout)
}

func (h *GameHandler) CreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if req.Width > maxBoardSide || req.Height > maxBoardSide {
		badRequest(c, "board sides are limited to "+strconv.Itoa(maxBoardSide))
		return
	}

	seats := make([]game.Seat, len(req.Players))
	for i, p := range req.Players {
		name := strings.TrimSpace(p.Name)
		if len(name) > maxNameLength {
			badRequest(c, "player names are limited to "+strconv.Itoa(maxNameLength)+" characters")
			return
		}
		if name == "" && p.Bot == "" {
			badRequest(c, "player "+strconv.Itoa(i)+" needs a name")
			return
		}
		seats[i] = game.Seat{Name: name, Difficulty: p.Bot}
	}

	ctx, cancel := h.searchContext(c)
	defer cancel()

	snap, err := h.Sessions.CreateSession(ctx, seats, domain.Options{
		Width:         req.Width,
		Height:        req.Height,
		VictoryLength: req.VictoryLength,
	})
	if err != nil && snap.GameID == "" {
		writeError(c, h.logger, err)
		return
	}
	if err != nil {
		// the session exists, only the opening bot move failed
		h.logger.Warn("opening bot move failed", zap.String("game_id", snap.GameID), zap.Error(err))
	}

	token, err := h.Tokens.GenerateGameToken(snap.GameID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, createGameResponse{Snapshot: snap, Token: token})
}

func (h *GameHandler) GetGame(c *gin.Context) {
	snap, err := h.Sessions.Snapshot(c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

// GetLiveGames returns all sessions available for spectating
func (h *GameHandler) GetLiveGames(c *gin.Context) {
	c.JSON(http.StatusOK, h.Sessions.GetActiveGames())
}

func (h *GameHandler) DropDisc(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	ctx, cancel := h.searchContext(c)
	defer cancel()

	snap, err := h.Sessions.DropDisc(ctx, c.Param("id"), *req.Column)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) Undo(c *gin.Context) {
	snap, err := h.Sessions.Undo(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) Reset(c *gin.Context) {
	ctx, cancel := h.searchContext(c)
	defer cancel()

	snap, err := h.Sessions.Reset(ctx, c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *GameHandler) Suggest(c *gin.Context) {
	depth := 0
	if raw := c.Query("depth"); raw != "" {
		d, err := strconv.Atoi(raw)
		if err != nil || d < 1 {
			badRequest(c, "depth must be a positive integer")
			return
		}
		depth = d
	}

	ctx, cancel := h.searchContext(c)
	defer cancel()

	s, err := h.Sessions.Suggest(ctx, c.Param("id"), depth)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, s)
}

func (h *GameHandler) DeleteGame(c *gin.Context) {
	if err := h.Sessions.RemoveSession(c.Param("id")); err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
