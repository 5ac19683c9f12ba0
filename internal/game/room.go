// internal/game/room.go
package game

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flipout/server/internal/cache"
	"github.com/flipout/server/internal/models"
)

// MaxPlayers is the room membership cap.
const MaxPlayers = 6

// Room is a single game session. All of its fields are mutated as a unit
// per action under Mu; the multi-field mutations in card-effect resolution
// are not individually atomic.
type Room struct {
	Code    string
	Players []*models.Player // insertion order, never shrinks

	Ready   map[uuid.UUID]struct{}
	Started bool

	Deck    []*models.Card // draw removes from the end
	Discard []*models.Card // append-only; top is the last element

	TurnOrder        []uuid.UUID // fixed at start, never shrinks
	CurrentTurnIndex int

	WinnerID  uuid.UUID // uuid.Nil until someone wins; set at most once
	CreatedAt time.Time
	EndedAt   time.Time

	Mu sync.Mutex

	rng         *rand.Rand
	log         logrus.FieldLogger
	actionIndex int
}

func newRoom(code string, log logrus.FieldLogger) *Room {
	return &Room{
		Code:      code,
		Players:   []*models.Player{},
		Ready:     make(map[uuid.UUID]struct{}),
		Deck:      []*models.Card{},
		Discard:   []*models.Card{},
		TurnOrder: []uuid.UUID{},
		CreatedAt: time.Now(),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		log:       log.WithField("room", code),
	}
}

// ToggleReady flips playerID's membership in the ready set.
func (r *Room) ToggleReady(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.playerByID(playerID) == nil {
		return ErrPlayerNotInRoom
	}
	if _, ok := r.Ready[playerID]; ok {
		delete(r.Ready, playerID)
	} else {
		r.Ready[playerID] = struct{}{}
	}
	r.logAction(playerID, "toggle_ready", map[string]interface{}{"ready": r.isReady(playerID)})
	return nil
}

// Start transitions the room into active play: it builds and shuffles the
// deck, resets per-player game state, and deals HandSize cards to each
// player in round-robin order. The caller must be a room member and every
// member must be ready.
func (r *Room) Start(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if r.Started {
		return ErrAlreadyStarted
	}
	if r.playerByID(playerID) == nil {
		return ErrPlayerNotInRoom
	}
	if len(r.Players) < 2 {
		return ErrNotEnoughPlayers
	}
	if len(r.Ready) != len(r.Players) {
		return ErrNotAllReady
	}

	r.Deck = NewDeck()
	shuffle(r.rng, r.Deck)
	r.Discard = []*models.Card{}
	r.Started = true
	r.CurrentTurnIndex = 0

	for _, p := range r.Players {
		p.Hand = []*models.Card{}
		p.Collection = []models.Mood{}
		p.Shield = false
	}
	for round := 0; round < HandSize; round++ {
		for _, p := range r.Players {
			card := r.popDeck()
			if card != nil {
				p.Hand = append(p.Hand, card)
			}
		}
	}

	r.log.WithField("players", len(r.Players)).Info("game started")
	r.logAction(playerID, "game_start", map[string]interface{}{"players": len(r.Players)})
	return nil
}

// CurrentTurnPlayerID returns whose turn it nominally is, or uuid.Nil
// before the game starts.
func (r *Room) CurrentTurnPlayerID() uuid.UUID {
	r.Mu.Lock()
	defer r.Mu.Unlock()
	return r.currentTurnPlayerID()
}

func (r *Room) currentTurnPlayerID() uuid.UUID {
	if !r.Started || len(r.TurnOrder) == 0 {
		return uuid.Nil
	}
	return r.TurnOrder[r.CurrentTurnIndex]
}

// ensureTurn is the turn guard every mutating in-game action passes first.
// Assumes lock is held by caller.
func (r *Room) ensureTurn(playerID uuid.UUID) error {
	if !r.Started {
		return ErrGameNotStarted
	}
	if r.TurnOrder[r.CurrentTurnIndex] != playerID {
		return ErrNotYourTurn
	}
	return nil
}

// advanceTurn cycles to the next turn-order slot. Turn order freezes once
// the game has a winner. Disconnected players are not auto-skipped: their
// slot still receives the turn and the room stalls until they act or
// reconnect.
// Assumes lock is held by caller.
func (r *Room) advanceTurn() {
	if r.WinnerID != uuid.Nil {
		return
	}
	r.CurrentTurnIndex = (r.CurrentTurnIndex + 1) % len(r.TurnOrder)
}

// checkWin scans players in membership insertion order and declares the
// first with a full collection the winner. WinnerID and EndedAt are set
// exactly once and never overwritten.
// Assumes lock is held by caller.
func (r *Room) checkWin() uuid.UUID {
	if r.WinnerID != uuid.Nil {
		return r.WinnerID
	}
	for _, p := range r.Players {
		if len(p.Collection) >= len(models.Moods()) {
			r.WinnerID = p.ID
			r.EndedAt = time.Now()
			r.log.WithField("winner", p.ID).Info("game over")
			r.logAction(p.ID, "game_end", map[string]interface{}{"winner": p.ID.String()})
			return p.ID
		}
	}
	return uuid.Nil
}

// playerByID finds a member by id, or nil.
// Assumes lock is held by caller.
func (r *Room) playerByID(playerID uuid.UUID) *models.Player {
	for _, p := range r.Players {
		if p.ID == playerID {
			return p
		}
	}
	return nil
}

func (r *Room) isReady(playerID uuid.UUID) bool {
	_, ok := r.Ready[playerID]
	return ok
}

// popDeck removes and returns the top (last) deck card, or nil when empty.
// Assumes lock is held by caller.
func (r *Room) popDeck() *models.Card {
	if len(r.Deck) == 0 {
		return nil
	}
	card := r.Deck[len(r.Deck)-1]
	r.Deck = r.Deck[:len(r.Deck)-1]
	return card
}

// removeFromHand removes the card with cardID from the player's hand,
// returning it, or nil if absent.
// Assumes lock is held by caller.
func (r *Room) removeFromHand(p *models.Player, cardID uuid.UUID) *models.Card {
	for i, c := range p.Hand {
		if c.ID == cardID {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// logAction publishes the action to the history queue asynchronously.
// Assumes lock is held by caller.
func (r *Room) logAction(actorID uuid.UUID, actionType string, payload map[string]interface{}) {
	r.actionIndex++
	if payload == nil {
		payload = make(map[string]interface{})
	}
	rec := cache.GameActionRecord{
		RoomCode:    r.Code,
		ActionIndex: r.actionIndex,
		ActorID:     actorID,
		ActionType:  actionType,
		Payload:     payload,
		Timestamp:   time.Now().UnixMilli(),
	}

	go func(rec cache.GameActionRecord) {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := cache.PublishGameAction(ctx, rec); err != nil {
			r.log.WithError(err).Warnf("failed publishing action %d (%s)", rec.ActionIndex, rec.ActionType)
		}
	}(rec)
}
