package websocket

import (
	"context"
	"errors"
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/iamasit07/connect-four/internal/service/game"
	"github.com/iamasit07/connect-four/internal/transport/http/middleware"
	"github.com/iamasit07/connect-four/pkg/auth"
	"github.com/iamasit07/connect-four/pkg/uid"
)

const messageTimeout = 10 * time.Second

var errSpectator = errors.New("spectators cannot change the game")

type Handler struct {
	Sessions *game.SessionManager
	Tokens   *auth.Tokens
	conns    *ConnectionManager
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewHandler builds the game socket endpoint. Browsers are only accepted from
// allowedOrigins; requests without an Origin header always pass.
func NewHandler(sessions *game.SessionManager, tokens *auth.Tokens, conns *ConnectionManager, allowedOrigins []string, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Sessions: sessions,
		Tokens:   tokens,
		conns:    conns,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
		logger: logger.Named("websocket"),
	}
}

// HandleWebSocket upgrades GET /ws/games/:id. A valid game token makes the
// client a player; without one it only spectates.
func (h *Handler) HandleWebSocket(c *gin.Context) {
	gameID := c.Param("id")
	if !uid.ValidGameID(gameID) {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": "game not found"})
		return
	}
	snap, err := h.Sessions.Snapshot(gameID)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	canPlay := false
	if token := middleware.GameTokenFromRequest(c); token != "" {
		if err := h.Tokens.Authorize(token, gameID); err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid game token"})
			return
		}
		canPlay = true
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("upgrade failed", zap.String("game_id", gameID), zap.Error(err))
		return
	}

	client := newClient(conn, gameID, canPlay)
	h.conns.AddConnection(client)
	go client.writePump()
	h.conns.SendMessage(client, stateMessage(snap))

	h.logger.Debug("client connected", zap.String("game_id", gameID), zap.Bool("player", canPlay))
	h.readLoop(client)
}

func (h *Handler) readLoop(client *Client) {
	defer func() {
		h.conns.RemoveConnection(client)
		client.conn.Close()
		h.logger.Debug("client disconnected", zap.String("game_id", client.gameID))
	}()

	client.conn.SetReadLimit(4096)
	client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		client.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		if err := client.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("read failed", zap.String("game_id", client.gameID), zap.Error(err))
			}
			return
		}
		client.conn.SetReadDeadline(time.Now().Add(pongWait))

		if reply, err := h.handleMessage(client, msg); err != nil {
			h.conns.SendMessage(client, errorMessage(err.Error()))
		} else if reply != nil {
			h.conns.SendMessage(client, *reply)
		}
	}
}

// handleMessage applies one client request. State changes reach every client
// through the broadcast listener, so they produce no direct reply.
func (h *Handler) handleMessage(client *Client, msg ClientMessage) (*ServerMessage, error) {
	ctx, cancel := context.WithTimeout(context.Background(), messageTimeout)
	defer cancel()

	switch msg.Type {
	case TypeState:
		snap, err := h.Sessions.Snapshot(client.gameID)
		if err != nil {
			return nil, err
		}
		reply := stateMessage(snap)
		return &reply, nil
	case TypeSuggest:
		s, err := h.Sessions.Suggest(ctx, client.gameID, msg.Depth)
		if err != nil {
			return nil, err
		}
		return &ServerMessage{Type: TypeSuggestion, Suggestion: &s}, nil
	case TypeDropDisc, TypeUndo, TypeReset:
		if !client.canPlay {
			return nil, errSpectator
		}
	default:
		return nil, errors.New("unknown message type: " + msg.Type)
	}

	var err error
	switch msg.Type {
	case TypeDropDisc:
		if msg.Column == nil {
			return nil, errors.New("column is required")
		}
		_, err = h.Sessions.DropDisc(ctx, client.gameID, *msg.Column)
	case TypeUndo:
		_, err = h.Sessions.Undo(ctx, client.gameID)
	case TypeReset:
		_, err = h.Sessions.Reset(ctx, client.gameID)
	}
	return nil, err
}
