// internal/game/actions.go
package game

import (
	"github.com/google/uuid"

	"github.com/flipout/server/internal/models"
)

// StealOutcome describes a mood transferred by a resolved Steal.
type StealOutcome struct {
	From uuid.UUID   `json:"from"`
	Mood models.Mood `json:"mood"`
}

// SwapOutcome describes the moods exchanged by a resolved Swap.
type SwapOutcome struct {
	With uuid.UUID   `json:"with"`
	Give models.Mood `json:"give"`
	Take models.Mood `json:"take"`
}

// PlayResult is the descriptor returned by Play and echoed in the ack.
// Steal and Swap are set only when the effect actually moved moods; a
// shielded or empty-collection target leaves them nil.
type PlayResult struct {
	Action   string             `json:"action"` // "collect" or "swing"
	Mood     models.Mood        `json:"mood,omitempty"`
	Effect   models.SwingEffect `json:"effect,omitempty"`
	Steal    *StealOutcome      `json:"steal,omitempty"`
	Swap     *SwapOutcome       `json:"swap,omitempty"`
	WinnerID *uuid.UUID         `json:"winnerId,omitempty"`
}

// Draw moves one card from the deck's end into the player's hand. Drawing
// is a free action: it does not advance the turn.
func (r *Room) Draw(playerID uuid.UUID) (*models.Card, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if err := r.ensureTurn(playerID); err != nil {
		return nil, err
	}
	if len(r.Deck) == 0 {
		return nil, ErrEmptyDeck
	}
	player := r.playerByID(playerID)
	card := r.popDeck()
	player.Hand = append(player.Hand, card)
	r.logAction(playerID, "draw_card", map[string]interface{}{"cardId": card.ID.String()})
	return card, nil
}

// Play removes the card from the player's hand and resolves it: mood cards
// are merged into the collection, swing cards apply their effect. Win
// detection runs after every resolution and the turn then advances.
// Validation happens before any mutation; a rejected action changes nothing.
func (r *Room) Play(playerID, cardID, targetID uuid.UUID) (*PlayResult, error) {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if err := r.ensureTurn(playerID); err != nil {
		return nil, err
	}
	player := r.playerByID(playerID)

	var card *models.Card
	for _, c := range player.Hand {
		if c.ID == cardID {
			card = c
			break
		}
	}
	if card == nil {
		return nil, ErrCardNotFound
	}

	switch card.Type {
	case models.CardTypeMood:
		r.removeFromHand(player, cardID)
		player.AddMood(card.Mood)
		// The card is consumed: not placed in discard, effectively removed
		// from the game. Its mood lives on in the collection.
		r.checkWin()
		r.advanceTurn()
		result := &PlayResult{Action: "collect", Mood: card.Mood}
		if r.WinnerID != uuid.Nil {
			winner := r.WinnerID
			result.WinnerID = &winner
		}
		r.logAction(playerID, "play_mood", map[string]interface{}{"mood": string(card.Mood)})
		return result, nil

	case models.CardTypeSwing:
		return r.playSwing(player, card, targetID)

	default:
		return nil, ErrUnknownCardType
	}
}

// playSwing resolves a swing card. Target validation for Steal/Swap happens
// before the card leaves the hand.
// Assumes lock is held by caller.
func (r *Room) playSwing(player *models.Player, card *models.Card, targetID uuid.UUID) (*PlayResult, error) {
	result := &PlayResult{Action: "swing", Effect: card.Effect}

	switch card.Effect {
	case models.EffectBlock:
		r.removeFromHand(player, card.ID)
		player.Shield = true
		r.Discard = append(r.Discard, card)

	case models.EffectSteal:
		target, err := r.requireTarget(player.ID, targetID)
		if err != nil {
			return nil, err
		}
		r.removeFromHand(player, card.ID)
		if target.Shield {
			target.Shield = false // shield consumed, nothing else happens
		} else if len(target.Collection) > 0 {
			mood := target.Collection[r.rng.Intn(len(target.Collection))]
			target.RemoveMood(mood)
			player.AddMood(mood) // duplicate is absorbed with no further effect
			result.Steal = &StealOutcome{From: target.ID, Mood: mood}
		}
		r.Discard = append(r.Discard, card)

	case models.EffectSwap:
		target, err := r.requireTarget(player.ID, targetID)
		if err != nil {
			return nil, err
		}
		r.removeFromHand(player, card.ID)
		if target.Shield {
			target.Shield = false
		} else if len(player.Collection) > 0 && len(target.Collection) > 0 {
			give := player.Collection[r.rng.Intn(len(player.Collection))]
			take := target.Collection[r.rng.Intn(len(target.Collection))]
			player.RemoveMood(give)
			target.RemoveMood(take)
			player.AddMood(take)
			target.AddMood(give)
			result.Swap = &SwapOutcome{With: target.ID, Give: give, Take: take}
		}
		r.Discard = append(r.Discard, card)

	default:
		return nil, ErrUnknownCardType
	}

	r.checkWin()
	r.advanceTurn()
	if r.WinnerID != uuid.Nil {
		winner := r.WinnerID
		result.WinnerID = &winner
	}
	r.logAction(player.ID, "play_swing", map[string]interface{}{"effect": string(card.Effect)})
	return result, nil
}

// requireTarget validates a Steal/Swap target: present, not the actor,
// and a room member.
// Assumes lock is held by caller.
func (r *Room) requireTarget(actorID, targetID uuid.UUID) (*models.Player, error) {
	if targetID == uuid.Nil {
		return nil, ErrMissingTarget
	}
	if targetID == actorID {
		return nil, ErrSelfTarget
	}
	target := r.playerByID(targetID)
	if target == nil {
		return nil, ErrInvalidTarget
	}
	return target, nil
}

// DiscardCard moves the card from the player's hand to the discard pile
// and advances the turn.
func (r *Room) DiscardCard(playerID, cardID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if err := r.ensureTurn(playerID); err != nil {
		return err
	}
	player := r.playerByID(playerID)
	card := r.removeFromHand(player, cardID)
	if card == nil {
		return ErrCardNotFound
	}
	r.Discard = append(r.Discard, card)
	r.advanceTurn()
	r.logAction(playerID, "discard_card", map[string]interface{}{"cardId": cardID.String()})
	return nil
}

// EndTurn passes with no other state change.
func (r *Room) EndTurn(playerID uuid.UUID) error {
	r.Mu.Lock()
	defer r.Mu.Unlock()

	if err := r.ensureTurn(playerID); err != nil {
		return err
	}
	r.advanceTurn()
	r.logAction(playerID, "end_turn", nil)
	return nil
}
