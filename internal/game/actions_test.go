// internal/game/actions_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flipout/server/internal/models"
)

// giveCard puts a freshly minted card directly into the player's hand.
func giveCard(p *models.Player, cardType models.CardType, mood models.Mood, effect models.SwingEffect) *models.Card {
	card := &models.Card{ID: uuid.New(), Type: cardType, Mood: mood, Effect: effect}
	p.Hand = append(p.Hand, card)
	return card
}

func giveMoodCard(p *models.Player, mood models.Mood) *models.Card {
	return giveCard(p, models.CardTypeMood, mood, "")
}

func giveSwingCard(p *models.Player, effect models.SwingEffect) *models.Card {
	return giveCard(p, models.CardTypeSwing, "", effect)
}

func TestDrawCardIsAFreeAction(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	handBefore := len(players[0].Hand)
	deckBefore := len(room.Deck)

	card, err := room.Draw(players[0].ID)
	require.NoError(t, err)
	require.NotNil(t, card)

	assert.Len(t, players[0].Hand, handBefore+1)
	assert.Len(t, room.Deck, deckBefore-1)
	assert.Same(t, card, players[0].Hand[len(players[0].Hand)-1])
	assert.Equal(t, players[0].ID, room.CurrentTurnPlayerID(), "drawing must not advance the turn")
}

func TestDrawFromEmptyDeck(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	room.Deck = nil
	handBefore := len(players[0].Hand)

	_, err := room.Draw(players[0].ID)
	assert.ErrorIs(t, err, ErrEmptyDeck)
	assert.Len(t, players[0].Hand, handBefore, "a failed draw leaves the hand unchanged")
}

func TestDiscardAdvancesTurn(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	card := players[0].Hand[0]

	require.NoError(t, room.DiscardCard(players[0].ID, card.ID))

	assert.Equal(t, players[1].ID, room.CurrentTurnPlayerID())
	require.NotEmpty(t, room.Discard)
	assert.Same(t, card, room.Discard[len(room.Discard)-1])
	assert.Len(t, players[0].Hand, HandSize-1)
}

func TestDiscardUnknownCard(t *testing.T) {
	room, players := newStartedRoom(t, 2)

	err := room.DiscardCard(players[0].ID, uuid.New())
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Len(t, players[0].Hand, HandSize)
	assert.Equal(t, players[0].ID, room.CurrentTurnPlayerID())
}

func TestPlayMoodCollects(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	card := giveMoodCard(players[0], models.MoodJoy)
	discardBefore := len(room.Discard)

	result, err := room.Play(players[0].ID, card.ID, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, "collect", result.Action)
	assert.Equal(t, models.MoodJoy, result.Mood)
	assert.Nil(t, result.WinnerID)
	assert.True(t, players[0].HasMood(models.MoodJoy))
	assert.Len(t, room.Discard, discardBefore, "mood cards never reach the discard pile")
	assert.Equal(t, players[1].ID, room.CurrentTurnPlayerID())
}

func TestPlayDuplicateMoodIsAbsorbed(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[0].Collection = []models.Mood{models.MoodJoy}
	card := giveMoodCard(players[0], models.MoodJoy)

	result, err := room.Play(players[0].ID, card.ID, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, "collect", result.Action)
	assert.Equal(t, []models.Mood{models.MoodJoy}, players[0].Collection)
	assert.Empty(t, room.Discard, "the duplicate is consumed, not discarded")
}

func TestPlayUnknownCard(t *testing.T) {
	room, players := newStartedRoom(t, 2)

	_, err := room.Play(players[0].ID, uuid.New(), uuid.Nil)
	assert.ErrorIs(t, err, ErrCardNotFound)
	assert.Len(t, players[0].Hand, HandSize)
}

func TestPlayBlockRaisesShield(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	card := giveSwingCard(players[0], models.EffectBlock)

	result, err := room.Play(players[0].ID, card.ID, uuid.Nil)
	require.NoError(t, err)

	assert.Equal(t, "swing", result.Action)
	assert.Equal(t, models.EffectBlock, result.Effect)
	assert.True(t, players[0].Shield)
	assert.Same(t, card, room.Discard[len(room.Discard)-1])
	assert.Equal(t, players[1].ID, room.CurrentTurnPlayerID())
}

func TestStealConsumesShield(t *testing.T) {
	room, players := newStartedRoom(t, 2)

	// players[0] raises a shield, then players[1] tries to steal from them.
	block := giveSwingCard(players[0], models.EffectBlock)
	_, err := room.Play(players[0].ID, block.ID, uuid.Nil)
	require.NoError(t, err)

	players[0].Collection = []models.Mood{models.MoodFear}
	steal := giveSwingCard(players[1], models.EffectSteal)
	stealerBefore := len(players[1].Collection)

	result, err := room.Play(players[1].ID, steal.ID, players[0].ID)
	require.NoError(t, err)

	assert.False(t, players[0].Shield, "the shield is consumed")
	assert.Nil(t, result.Steal, "no mood is transferred through a shield")
	assert.Equal(t, []models.Mood{models.MoodFear}, players[0].Collection)
	assert.Len(t, players[1].Collection, stealerBefore)
	assert.Equal(t, players[0].ID, room.CurrentTurnPlayerID())
}

func TestStealTransfersAMood(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[1].Collection = []models.Mood{models.MoodSadness}
	card := giveSwingCard(players[0], models.EffectSteal)

	result, err := room.Play(players[0].ID, card.ID, players[1].ID)
	require.NoError(t, err)

	require.NotNil(t, result.Steal)
	assert.Equal(t, players[1].ID, result.Steal.From)
	assert.Equal(t, models.MoodSadness, result.Steal.Mood)
	assert.Empty(t, players[1].Collection)
	assert.True(t, players[0].HasMood(models.MoodSadness))
	assert.Same(t, card, room.Discard[len(room.Discard)-1])
}

func TestStealDuplicateIsAbsorbed(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[0].Collection = []models.Mood{models.MoodSadness}
	players[1].Collection = []models.Mood{models.MoodSadness}
	card := giveSwingCard(players[0], models.EffectSteal)

	result, err := room.Play(players[0].ID, card.ID, players[1].ID)
	require.NoError(t, err)

	require.NotNil(t, result.Steal)
	assert.Equal(t, []models.Mood{models.MoodSadness}, players[0].Collection)
	assert.Empty(t, players[1].Collection)
}

func TestStealFromEmptyCollection(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	card := giveSwingCard(players[0], models.EffectSteal)

	result, err := room.Play(players[0].ID, card.ID, players[1].ID)
	require.NoError(t, err)

	assert.Nil(t, result.Steal)
	assert.Empty(t, players[0].Collection)
	assert.Same(t, card, room.Discard[len(room.Discard)-1])
	assert.Equal(t, players[1].ID, room.CurrentTurnPlayerID())
}

func TestStealTargetValidation(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	card := giveSwingCard(players[0], models.EffectSteal)
	handBefore := len(players[0].Hand)

	_, err := room.Play(players[0].ID, card.ID, uuid.Nil)
	assert.ErrorIs(t, err, ErrMissingTarget)

	_, err = room.Play(players[0].ID, card.ID, players[0].ID)
	assert.ErrorIs(t, err, ErrSelfTarget)

	_, err = room.Play(players[0].ID, card.ID, uuid.New())
	assert.ErrorIs(t, err, ErrInvalidTarget)

	// validate-then-mutate: the card is still in hand after every rejection
	assert.Len(t, players[0].Hand, handBefore)
	assert.Empty(t, room.Discard)
	assert.Equal(t, players[0].ID, room.CurrentTurnPlayerID())
}

func TestSwapExchangesMoods(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[0].Collection = []models.Mood{models.MoodJoy}
	players[1].Collection = []models.Mood{models.MoodAnger}
	card := giveSwingCard(players[0], models.EffectSwap)

	result, err := room.Play(players[0].ID, card.ID, players[1].ID)
	require.NoError(t, err)

	require.NotNil(t, result.Swap)
	assert.Equal(t, players[1].ID, result.Swap.With)
	assert.Equal(t, models.MoodJoy, result.Swap.Give)
	assert.Equal(t, models.MoodAnger, result.Swap.Take)
	assert.Equal(t, []models.Mood{models.MoodAnger}, players[0].Collection)
	assert.Equal(t, []models.Mood{models.MoodJoy}, players[1].Collection)
}

func TestSwapWithEmptySideDoesNothing(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[1].Collection = []models.Mood{models.MoodAnger}
	card := giveSwingCard(players[0], models.EffectSwap)

	result, err := room.Play(players[0].ID, card.ID, players[1].ID)
	require.NoError(t, err)

	assert.Nil(t, result.Swap)
	assert.Empty(t, players[0].Collection)
	assert.Equal(t, []models.Mood{models.MoodAnger}, players[1].Collection)
	assert.Same(t, card, room.Discard[len(room.Discard)-1])
}

func TestSwapConsumesShield(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[0].Collection = []models.Mood{models.MoodJoy}
	players[1].Collection = []models.Mood{models.MoodAnger}
	players[1].Shield = true
	card := giveSwingCard(players[0], models.EffectSwap)

	result, err := room.Play(players[0].ID, card.ID, players[1].ID)
	require.NoError(t, err)

	assert.False(t, players[1].Shield)
	assert.Nil(t, result.Swap)
	assert.Equal(t, []models.Mood{models.MoodJoy}, players[0].Collection)
	assert.Equal(t, []models.Mood{models.MoodAnger}, players[1].Collection)
}

func TestWinByCollectingAllMoods(t *testing.T) {
	room, players := newStartedRoom(t, 2)

	for i, mood := range models.Moods() {
		card := giveMoodCard(players[0], mood)
		result, err := room.Play(players[0].ID, card.ID, uuid.Nil)
		require.NoError(t, err)

		if i < len(models.Moods())-1 {
			assert.Nil(t, result.WinnerID)
			require.NoError(t, room.EndTurn(players[1].ID))
		} else {
			require.NotNil(t, result.WinnerID)
			assert.Equal(t, players[0].ID, *result.WinnerID)
		}
	}

	assert.Equal(t, players[0].ID, room.WinnerID)
	assert.False(t, room.EndedAt.IsZero())
}

func TestWinnerIsSetExactlyOnce(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[0].Collection = append([]models.Mood{}, models.Moods()...)

	room.Mu.Lock()
	first := room.checkWin()
	endedAt := room.EndedAt
	room.Mu.Unlock()
	require.Equal(t, players[0].ID, first)

	// A second full collection never overwrites the recorded winner.
	players[1].Collection = append([]models.Mood{}, models.Moods()...)
	room.Mu.Lock()
	second := room.checkWin()
	room.Mu.Unlock()
	assert.Equal(t, players[0].ID, second)
	assert.Equal(t, players[0].ID, room.WinnerID)
	assert.Equal(t, endedAt, room.EndedAt)
}

func TestTurnFreezesAfterWin(t *testing.T) {
	room, players := newStartedRoom(t, 2)
	players[0].Collection = models.Moods()[:4]
	card := giveMoodCard(players[0], models.Moods()[4])

	result, err := room.Play(players[0].ID, card.ID, uuid.Nil)
	require.NoError(t, err)
	require.NotNil(t, result.WinnerID)

	// The turn no longer advances, but action validation itself is not
	// locked out: the nominal turn holder may still act.
	assert.Equal(t, players[0].ID, room.CurrentTurnPlayerID())
	require.NoError(t, room.EndTurn(players[0].ID))
	assert.Equal(t, players[0].ID, room.CurrentTurnPlayerID())

	_, err = room.Draw(players[0].ID)
	require.NoError(t, err)
}
