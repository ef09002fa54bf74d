package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/domain"
	"github.com/iamasit07/connect-four/internal/service/bot"
	"github.com/iamasit07/connect-four/internal/service/game"
	"github.com/iamasit07/connect-four/pkg/auth"
)

var statusByError = []struct {
	err    error
	status int
	code   string
}{
	{game.ErrSessionNotFound, http.StatusNotFound, "game_not_found"},
	{auth.ErrInvalidToken, http.StatusUnauthorized, "invalid_token"},
	{domain.ErrBoardFull, http.StatusConflict, "board_full"},
	{domain.ErrColumnFull, http.StatusConflict, "column_full"},
	{domain.ErrGameDecided, http.StatusConflict, "game_decided"},
	{domain.ErrNothingToUndo, http.StatusConflict, "nothing_to_undo"},
	{game.ErrBotTurn, http.StatusConflict, "bot_turn"},
	{bot.ErrNoLegalMove, http.StatusConflict, "no_legal_move"},
	{domain.ErrInvalidColumn, http.StatusBadRequest, "invalid_column"},
	{domain.ErrInvalidSpace, http.StatusBadRequest, "invalid_space"},
	{domain.ErrInvalidPlayer, http.StatusBadRequest, "invalid_player"},
	{domain.ErrInvalidPlayerCount, http.StatusBadRequest, "invalid_player_count"},
	{domain.ErrInvalidDimensions, http.StatusBadRequest, "invalid_dimensions"},
	{domain.ErrInvalidVictoryLength, http.StatusBadRequest, "invalid_victory_length"},
	{bot.ErrUnknownDifficulty, http.StatusBadRequest, "unknown_difficulty"},
	{game.ErrNoHumanSeat, http.StatusBadRequest, "no_human_seat"},
	{game.ErrInvalidDepth, http.StatusBadRequest, "invalid_depth"},
	{context.DeadlineExceeded, http.StatusGatewayTimeout, "timeout"},
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps service errors onto HTTP. A full board matches board_full first.
func statusFor(err error) (int, string) {
	for _, e := range statusByError {
		if errors.Is(err, e.err) {
			return e.status, e.code
		}
	}
	return http.StatusInternalServerError, "internal"
}

func writeError(c *gin.Context, logger *zap.Logger, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.Error("request failed", zap.String("path", c.FullPath()), zap.Error(err))
		msg = "internal server error"
	}
	c.AbortWithStatusJSON(status, errorResponse{Error: msg, Code: code})
}

func badRequest(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusBadRequest, errorResponse{Error: msg, Code: "bad_request"})
}
