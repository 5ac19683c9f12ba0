// internal/models/player.go
package models

import (
	"strings"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is a room member. Players are created on room creation/join and
// never deleted; a disconnect only nulls the connection handle.
type Player struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`

	Conn *websocket.Conn `json:"-"` // nil while disconnected

	Hand       []*Card `json:"hand"`
	Collection []Mood  `json:"collection"` // distinct moods, insertion order
	Shield     bool    `json:"shield"`     // consumed by one incoming Steal/Swap
}

// NewPlayer creates a player with a sanitized display name bound to conn.
func NewPlayer(name string, conn *websocket.Conn) *Player {
	return &Player{
		ID:         uuid.New(),
		Name:       SanitizeName(name),
		Conn:       conn,
		Hand:       []*Card{},
		Collection: []Mood{},
	}
}

// SanitizeName trims the display name, defaults it to "Player" when empty,
// and truncates it to 16 characters.
func SanitizeName(name string) string {
	n := strings.TrimSpace(name)
	if n == "" {
		return "Player"
	}
	if runes := []rune(n); len(runes) > 16 {
		return string(runes[:16])
	}
	return n
}

// Connected reports whether the player has a live connection handle.
func (p *Player) Connected() bool {
	return p.Conn != nil
}

// HasMood reports whether mood is in the player's collection.
func (p *Player) HasMood(mood Mood) bool {
	for _, m := range p.Collection {
		if m == mood {
			return true
		}
	}
	return false
}

// AddMood adds mood to the collection. Re-collecting an already-held mood
// is a no-op; the collection stays a set of distinct values.
func (p *Player) AddMood(mood Mood) {
	if !p.HasMood(mood) {
		p.Collection = append(p.Collection, mood)
	}
}

// RemoveMood removes mood from the collection if present, reporting whether
// anything was removed.
func (p *Player) RemoveMood(mood Mood) bool {
	for i, m := range p.Collection {
		if m == mood {
			p.Collection = append(p.Collection[:i], p.Collection[i+1:]...)
			return true
		}
	}
	return false
}
