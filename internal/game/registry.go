// internal/game/registry.go
package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flipout/server/internal/models"
)

// roomCodeAlphabet excludes visually ambiguous glyphs (no I, O, 0, 1).
const roomCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

const (
	roomCodeLength  = 6
	codeGenAttempts = 10
)

// member binds a live connection to its (room, player) pair.
type member struct {
	roomCode string
	playerID uuid.UUID
}

// Registry is the process-wide room registry. Rooms are created here and
// destroyed only by process termination; there is no idle-room eviction.
// Registry state (room map, connection bindings) is guarded by mu; each
// room guards its own fields with its own mutex.
type Registry struct {
	mu    sync.Mutex
	rooms map[string]*Room
	conns map[*websocket.Conn]member

	rng     *rand.Rand
	genCode func() string // swapped out in tests
	log     logrus.FieldLogger
}

// NewRegistry creates an empty registry.
func NewRegistry(log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	reg := &Registry{
		rooms: make(map[string]*Room),
		conns: make(map[*websocket.Conn]member),
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
		log:   log,
	}
	reg.genCode = reg.randomCode
	return reg
}

// NormalizeCode upper-cases and trims an incoming room code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// randomCode draws a 6-character code from the ambiguity-reduced alphabet.
// Assumes mu is held by caller.
func (reg *Registry) randomCode() string {
	b := make([]byte, roomCodeLength)
	for i := range b {
		b[i] = roomCodeAlphabet[reg.rng.Intn(len(roomCodeAlphabet))]
	}
	return string(b)
}

// newCode generates a code not shared by any live room. Generation is a
// bounded loop: after codeGenAttempts collisions it fails rather than
// retrying forever.
// Assumes mu is held by caller.
func (reg *Registry) newCode() (string, error) {
	for attempt := 0; attempt < codeGenAttempts; attempt++ {
		code := reg.genCode()
		if _, taken := reg.rooms[code]; !taken {
			return code, nil
		}
	}
	return "", ErrRoomCodeExhausted
}

// CreateRoom creates a room with a fresh code and registers the creator as
// its sole member and sole turn-order entry.
func (reg *Registry) CreateRoom(name string, conn *websocket.Conn) (*Room, *models.Player, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	code, err := reg.newCode()
	if err != nil {
		return nil, nil, err
	}
	player := models.NewPlayer(name, conn)
	room := newRoom(code, reg.log)
	room.Players = append(room.Players, player)
	room.TurnOrder = append(room.TurnOrder, player.ID)
	reg.rooms[code] = room
	if conn != nil {
		reg.conns[conn] = member{roomCode: code, playerID: player.ID}
	}
	reg.log.WithFields(logrus.Fields{"room": code, "player": player.ID}).Info("room created")
	return room, player, nil
}

// JoinRoom appends a new player to the membership and to the end of the
// pending turn order. Joining is rejected once the game has started or the
// room is at capacity.
func (reg *Registry) JoinRoom(code, name string, conn *websocket.Conn) (*Room, *models.Player, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[NormalizeCode(code)]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	if room.Started {
		return nil, nil, ErrAlreadyStarted
	}
	if len(room.Players) >= MaxPlayers {
		return nil, nil, ErrRoomFull
	}
	player := models.NewPlayer(name, conn)
	room.Players = append(room.Players, player)
	room.TurnOrder = append(room.TurnOrder, player.ID)
	if conn != nil {
		reg.conns[conn] = member{roomCode: room.Code, playerID: player.ID}
	}
	reg.log.WithFields(logrus.Fields{"room": room.Code, "player": player.ID}).Info("player joined")
	return room, player, nil
}

// Reconnect rebinds the player's connection handle. Hand, collection,
// shield and name are untouched.
func (reg *Registry) Reconnect(code string, playerID uuid.UUID, conn *websocket.Conn) (*Room, *models.Player, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[NormalizeCode(code)]
	if !ok {
		return nil, nil, ErrRoomNotFound
	}

	room.Mu.Lock()
	defer room.Mu.Unlock()
	player := room.playerByID(playerID)
	if player == nil {
		return nil, nil, ErrPlayerNotInRoom
	}
	player.Conn = conn
	if conn != nil {
		reg.conns[conn] = member{roomCode: room.Code, playerID: playerID}
	}
	room.logAction(playerID, "player_reconnect", nil)
	reg.log.WithFields(logrus.Fields{"room": room.Code, "player": playerID}).Info("player reconnected")
	return room, player, nil
}

// Room looks up a live room by code.
func (reg *Registry) Room(code string) (*Room, error) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	room, ok := reg.rooms[NormalizeCode(code)]
	if !ok {
		return nil, ErrRoomNotFound
	}
	return room, nil
}

// HandleDisconnect looks up the (room, player) bound to the dropped
// connection and nulls the player's handle, unless a newer reconnect
// already rebound it (a stale disconnect must not clobber the live
// connection). It reports the affected room and player for re-broadcast.
func (reg *Registry) HandleDisconnect(conn *websocket.Conn) (string, uuid.UUID, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	m, ok := reg.conns[conn]
	if !ok {
		return "", uuid.Nil, false
	}
	delete(reg.conns, conn)

	room, ok := reg.rooms[m.roomCode]
	if !ok {
		return "", uuid.Nil, false
	}
	room.Mu.Lock()
	defer room.Mu.Unlock()
	if player := room.playerByID(m.playerID); player != nil && player.Conn == conn {
		player.Conn = nil
		room.logAction(m.playerID, "player_disconnect", nil)
		reg.log.WithFields(logrus.Fields{"room": m.roomCode, "player": m.playerID}).Info("player disconnected")
	}
	return m.roomCode, m.playerID, true
}
