// internal/game/errors.go
package game

import "errors"

// Sentinel errors for every way an action can be rejected. They are
// synchronous and local: an error aborts only the single action, leaving
// room state unchanged, and its message surfaces verbatim in the
// negative acknowledgement.
var (
	ErrRoomNotFound      = errors.New("room not found")
	ErrPlayerNotInRoom   = errors.New("not in room")
	ErrAlreadyStarted    = errors.New("game already started")
	ErrRoomFull          = errors.New("room full")
	ErrNotEnoughPlayers  = errors.New("need at least 2 players")
	ErrNotAllReady       = errors.New("all players must be ready")
	ErrGameNotStarted    = errors.New("game not started")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrCardNotFound      = errors.New("card not found in hand")
	ErrEmptyDeck         = errors.New("deck is empty")
	ErrMissingTarget     = errors.New("target player required")
	ErrSelfTarget        = errors.New("cannot target yourself")
	ErrInvalidTarget     = errors.New("invalid target")
	ErrUnknownCardType   = errors.New("unknown card type")
	ErrRoomCodeExhausted = errors.New("room codes exhausted")
)
