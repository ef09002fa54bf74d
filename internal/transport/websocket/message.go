package websocket

import (
	"github.com/iamasit07/connect-four/internal/service/game"
)

// Client message types.
const (
	TypeState    = "state"
	TypeDropDisc = "drop_disc"
	TypeUndo     = "undo"
	TypeReset    = "reset"
	TypeSuggest  = "suggest"
)

// Server only message types.
const (
	TypeSuggestion = "suggestion"
	TypeError      = "error"
)

type ClientMessage struct {
	Type   string `json:"type"`
	Column *int   `json:"column,omitempty"`
	Depth  int    `json:"depth,omitempty"`
}

type ServerMessage struct {
	Type       string           `json:"type"`
	Game       *game.Snapshot   `json:"game,omitempty"`
	Suggestion *game.Suggestion `json:"suggestion,omitempty"`
	Message    string           `json:"message,omitempty"`
}

func stateMessage(s game.Snapshot) ServerMessage {
	return ServerMessage{Type: TypeState, Game: &s}
}

func errorMessage(msg string) ServerMessage {
	return ServerMessage{Type: TypeError, Message: msg}
}
