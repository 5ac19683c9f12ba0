// internal/game/deck.go
package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/flipout/server/internal/models"
)

// DeckSize is the fixed size of a freshly built deck.
const DeckSize = 60

// HandSize is how many cards each player is dealt at game start.
const HandSize = 5

// Copy counts for the 60-card multiset: 8 of each of the 5 moods plus
// 7 Steal, 7 Swap and 6 Block swing cards.
const (
	moodCopies  = 8
	stealCopies = 7
	swapCopies  = 7
	blockCopies = 6
)

// NewDeck builds the fixed 60-card multiset with globally unique card ids.
// The deck is returned unshuffled; callers shuffle it themselves.
func NewDeck() []*models.Card {
	deck := make([]*models.Card, 0, DeckSize)
	for _, mood := range models.Moods() {
		for i := 0; i < moodCopies; i++ {
			deck = append(deck, &models.Card{ID: uuid.New(), Type: models.CardTypeMood, Mood: mood})
		}
	}
	for i := 0; i < stealCopies; i++ {
		deck = append(deck, &models.Card{ID: uuid.New(), Type: models.CardTypeSwing, Effect: models.EffectSteal})
	}
	for i := 0; i < swapCopies; i++ {
		deck = append(deck, &models.Card{ID: uuid.New(), Type: models.CardTypeSwing, Effect: models.EffectSwap})
	}
	for i := 0; i < blockCopies; i++ {
		deck = append(deck, &models.Card{ID: uuid.New(), Type: models.CardTypeSwing, Effect: models.EffectBlock})
	}
	return deck
}

// shuffle applies a uniform Fisher-Yates permutation in place.
func shuffle(rng *rand.Rand, deck []*models.Card) {
	for i := len(deck) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		deck[i], deck[j] = deck[j], deck[i]
	}
}
