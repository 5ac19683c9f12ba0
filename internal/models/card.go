// internal/models/card.go
package models

import "github.com/google/uuid"

// CardType distinguishes collectible mood cards from swing (action) cards.
type CardType string

const (
	CardTypeMood  CardType = "mood"
	CardTypeSwing CardType = "swing"
)

// Mood is one of the five collectible values. Holding all five distinct
// moods at once wins the game.
type Mood string

const (
	MoodJoy     Mood = "Joy"
	MoodAnger   Mood = "Anger"
	MoodSadness Mood = "Sadness"
	MoodFear    Mood = "Fear"
	MoodDisgust Mood = "Disgust"
)

// SwingEffect is the action carried by a swing card.
type SwingEffect string

const (
	EffectSteal SwingEffect = "Steal"
	EffectSwap  SwingEffect = "Swap"
	EffectBlock SwingEffect = "Block"
)

// Moods returns the canonical mood enumeration in display order.
func Moods() []Mood {
	return []Mood{MoodJoy, MoodAnger, MoodSadness, MoodFear, MoodDisgust}
}

// SwingEffects returns the canonical swing effect enumeration.
func SwingEffects() []SwingEffect {
	return []SwingEffect{EffectSteal, EffectSwap, EffectBlock}
}

// Card is immutable once created. Ownership moves between containers
// (deck, hand, discard, collection) but identity never changes.
type Card struct {
	ID     uuid.UUID   `json:"id"`
	Type   CardType    `json:"type"`
	Mood   Mood        `json:"mood,omitempty"`   // set iff Type == mood
	Effect SwingEffect `json:"effect,omitempty"` // set iff Type == swing
}
