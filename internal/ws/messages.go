// internal/ws/messages.go
package ws

import (
	"encoding/json"

	"github.com/google/uuid"

	"github.com/flipout/server/internal/game"
)

// Client request types. Each request carries an optional id echoed back in
// the acknowledgement, so clients can match acks to requests.
const (
	MsgCreateGame      = "createGame"
	MsgJoinGame        = "joinGame"
	MsgReconnectPlayer = "reconnectPlayer"
	MsgToggleReady     = "toggleReady"
	MsgStartGame       = "startGame"
	MsgDrawCard        = "drawCard"
	MsgPlayCard        = "playCard"
	MsgDiscardCard     = "discardCard"
	MsgEndTurn         = "endTurn"
)

// Server message types.
const (
	MsgAck       = "ack"
	MsgGameState = "gameState" // public state, pushed to every member
	MsgYourState = "yourState" // private state, pushed to one player
)

// Request is the envelope for every client message.
type Request struct {
	ID   int64           `json:"id,omitempty"`
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// Ack is the acknowledgement for a request. On failure only Ok and Error
// are set; the error message comes verbatim from the core.
type Ack struct {
	Type        string           `json:"type"`
	ID          int64            `json:"id,omitempty"`
	Ok          bool             `json:"ok"`
	Error       string           `json:"error,omitempty"`
	RoomCode    string           `json:"roomCode,omitempty"`
	PlayerID    *uuid.UUID       `json:"playerId,omitempty"`
	ResumeToken string           `json:"resumeToken,omitempty"`
	Result      *game.PlayResult `json:"result,omitempty"`
}

// StatePush carries a public or private state projection.
type StatePush struct {
	Type  string      `json:"type"`
	State interface{} `json:"state"`
}

type createGamePayload struct {
	PlayerName string `json:"playerName"`
}

type joinGamePayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
}

type reconnectPayload struct {
	RoomCode    string    `json:"roomCode"`
	PlayerID    uuid.UUID `json:"playerId"`
	ResumeToken string    `json:"resumeToken,omitempty"`
}

// roomPayload covers toggleReady, startGame, drawCard and endTurn.
type roomPayload struct {
	RoomCode string    `json:"roomCode"`
	PlayerID uuid.UUID `json:"playerId"`
}

type playCardPayload struct {
	RoomCode       string    `json:"roomCode"`
	PlayerID       uuid.UUID `json:"playerId"`
	CardID         uuid.UUID `json:"cardId"`
	TargetPlayerID uuid.UUID `json:"targetPlayerId,omitempty"`
}

type discardCardPayload struct {
	RoomCode string    `json:"roomCode"`
	PlayerID uuid.UUID `json:"playerId"`
	CardID   uuid.UUID `json:"cardId"`
}
