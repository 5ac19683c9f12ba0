// internal/game/state.go
package game

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/flipout/server/internal/models"
)

// PublicPlayer is the shared view of a room member: collection and flags
// are open information, the hand is a count only.
type PublicPlayer struct {
	ID         uuid.UUID     `json:"id"`
	Name       string        `json:"name"`
	Ready      bool          `json:"ready"`
	Collection []models.Mood `json:"collection"`
	HandCount  int           `json:"handCount"`
	Shield     bool          `json:"shield"`
	Connected  bool          `json:"connected"`
}

// PublicState is the view of a room broadcast to every member.
type PublicState struct {
	RoomCode            string               `json:"roomCode"`
	Started             bool                 `json:"started"`
	Players             []PublicPlayer       `json:"players"`
	CurrentTurnPlayerID *uuid.UUID           `json:"currentTurnPlayerId"`
	DeckCount           int                  `json:"deckCount"`
	DiscardTop          *models.Card         `json:"discardTop"`
	WinnerID            *uuid.UUID           `json:"winnerId"`
	Moods               []models.Mood        `json:"moods"`
	SwingEffects        []models.SwingEffect `json:"swingEffects"`
}

// PrivatePlayer identifies the requesting player in their private view.
type PrivatePlayer struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Connected bool      `json:"connected"`
}

// PrivateState carries the full ordered hand contents, revealed only to
// its owner and never broadcast to the room.
type PrivateState struct {
	RoomCode string        `json:"roomCode"`
	Player   PrivatePlayer `json:"player"`
	Hand     []models.Card `json:"hand"`
}

// PublicState derives the shared view of the room. Everything returned is
// a defensive copy; no live internal slice leaks to callers.
func (r *Room) PublicState() PublicState {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	players := make([]PublicPlayer, 0, len(r.Players))
	for _, p := range r.Players {
		collection := make([]models.Mood, len(p.Collection))
		copy(collection, p.Collection)
		players = append(players, PublicPlayer{
			ID:         p.ID,
			Name:       p.Name,
			Ready:      r.isReady(p.ID),
			Collection: collection,
			HandCount:  len(p.Hand),
			Shield:     p.Shield,
			Connected:  p.Connected(),
		})
	}

	st := PublicState{
		RoomCode:     r.Code,
		Started:      r.Started,
		Players:      players,
		DeckCount:    len(r.Deck),
		Moods:        models.Moods(),
		SwingEffects: models.SwingEffects(),
	}
	if id := r.currentTurnPlayerID(); id != uuid.Nil {
		st.CurrentTurnPlayerID = &id
	}
	if n := len(r.Discard); n > 0 {
		top := *r.Discard[n-1]
		st.DiscardTop = &top
	}
	if r.WinnerID != uuid.Nil {
		winner := r.WinnerID
		st.WinnerID = &winner
	}
	return st
}

// PrivateState derives the per-player view with the full ordered hand as
// value copies.
func (r *Room) PrivateState(playerID uuid.UUID) (PrivateState, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	p := r.playerByID(playerID)
	if p == nil {
		return PrivateState{}, ErrPlayerNotInRoom
	}
	hand := make([]models.Card, len(p.Hand))
	for i, c := range p.Hand {
		hand[i] = *c
	}
	return PrivateState{
		RoomCode: r.Code,
		Player:   PrivatePlayer{ID: p.ID, Name: p.Name, Connected: p.Connected()},
		Hand:     hand,
	}, nil
}

// MemberConn is a snapshot of a connected member's connection handle,
// taken for broadcasting outside the room lock.
type MemberConn struct {
	PlayerID uuid.UUID
	Conn     *websocket.Conn
}

// ConnectedMembers returns the connection handles of currently connected
// members.
func (r *Room) ConnectedMembers() []MemberConn {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	out := make([]MemberConn, 0, len(r.Players))
	for _, p := range r.Players {
		if p.Connected() {
			out = append(out, MemberConn{PlayerID: p.ID, Conn: p.Conn})
		}
	}
	return out
}

// MemberConnHandle returns the player's current connection handle, or nil
// while they are disconnected or not a member.
func (r *Room) MemberConnHandle(playerID uuid.UUID) *websocket.Conn {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if p := r.playerByID(playerID); p != nil {
		return p.Conn
	}
	return nil
}
