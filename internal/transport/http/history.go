package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/repository/postgres"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type HistoryRepository interface {
	ListRecent(ctx context.Context, limit int) ([]postgres.GameResult, error)
	GetResult(ctx context.Context, gameID string) (*postgres.GameResult, error)
}

type HistoryHandler struct {
	GameRepo HistoryRepository
	logger   *zap.Logger
}

func NewHistoryHandler(gameRepo HistoryRepository, logger *zap.Logger) *HistoryHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HistoryHandler{GameRepo: gameRepo, logger: logger.Named("history")}
}

func (h *HistoryHandler) GetHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			badRequest(c, "limit must be a positive integer")
			return
		}
		limit = min(n, maxHistoryLimit)
	}

	games, err := h.GameRepo.ListRecent(c.Request.Context(), limit)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, games)
}

func (h *HistoryHandler) GetGameDetails(c *gin.Context) {
	res, err := h.GameRepo.GetResult(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	if res == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, errorResponse{Error: "game not found", Code: "game_not_found"})
		return
	}
	c.JSON(http.StatusOK, res)
}
