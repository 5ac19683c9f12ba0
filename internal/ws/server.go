// internal/ws/server.go
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/flipout/server/internal/auth"
	"github.com/flipout/server/internal/game"
)

const writeTimeout = 5 * time.Second

// Server is the websocket transport: it accepts connections, routes
// request envelopes into the game core, acknowledges each request, and
// pushes public/private state projections after mutating actions.
type Server struct {
	registry *game.Registry
	tokens   *auth.TokenIssuer // nil disables resume-token verification
	log      logrus.FieldLogger

	// sendFn performs a single write; replaced in tests to capture output.
	sendFn func(conn *websocket.Conn, v interface{})
}

// NewServer builds the transport around a registry. tokens may be nil.
func NewServer(registry *game.Registry, tokens *auth.TokenIssuer, log logrus.FieldLogger) *Server {
	if log == nil {
		log = logrus.StandardLogger()
	}
	s := &Server{registry: registry, tokens: tokens, log: log}
	s.sendFn = s.writeJSON
	return s
}

// ServeHTTP upgrades the request and serves the connection's read loop
// until the peer drops.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		s.log.WithError(err).Warn("websocket accept failed")
		return
	}
	s.readLoop(r.Context(), conn)
}

func (s *Server) readLoop(ctx context.Context, conn *websocket.Conn) {
	defer s.dropConnection(conn)
	for {
		var req Request
		if err := wsjson.Read(ctx, conn, &req); err != nil {
			return
		}
		s.dispatch(conn, &req)
	}
}

// dropConnection handles a closed connection: the registry nulls the
// player's handle (unless a newer reconnect rebound it) and the room gets
// a public-state re-broadcast.
func (s *Server) dropConnection(conn *websocket.Conn) {
	conn.Close(websocket.StatusNormalClosure, "")
	code, _, ok := s.registry.HandleDisconnect(conn)
	if !ok {
		return
	}
	s.broadcastPublicState(code)
}

// dispatch routes one request envelope. Requests on a single connection
// are handled serially by its read loop; cross-room concurrency is safe
// because every room action runs under that room's lock.
func (s *Server) dispatch(conn *websocket.Conn, req *Request) {
	switch req.Type {
	case MsgCreateGame:
		s.handleCreateGame(conn, req)
	case MsgJoinGame:
		s.handleJoinGame(conn, req)
	case MsgReconnectPlayer:
		s.handleReconnect(conn, req)
	case MsgToggleReady:
		s.handleToggleReady(conn, req)
	case MsgStartGame:
		s.handleStartGame(conn, req)
	case MsgDrawCard:
		s.handleDrawCard(conn, req)
	case MsgPlayCard:
		s.handlePlayCard(conn, req)
	case MsgDiscardCard:
		s.handleDiscardCard(conn, req)
	case MsgEndTurn:
		s.handleEndTurn(conn, req)
	default:
		s.nack(conn, req.ID, "unknown message type")
	}
}

func (s *Server) handleCreateGame(conn *websocket.Conn, req *Request) {
	var p createGamePayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, player, err := s.registry.CreateRoom(p.PlayerName, conn)
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	playerID := player.ID
	s.sendFn(conn, Ack{
		Type:        MsgAck,
		ID:          req.ID,
		Ok:          true,
		RoomCode:    room.Code,
		PlayerID:    &playerID,
		ResumeToken: s.resumeToken(room.Code, playerID),
	})
	s.broadcastPublicState(room.Code)
}

func (s *Server) handleJoinGame(conn *websocket.Conn, req *Request) {
	var p joinGamePayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, player, err := s.registry.JoinRoom(p.RoomCode, p.PlayerName, conn)
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	playerID := player.ID
	s.sendFn(conn, Ack{
		Type:        MsgAck,
		ID:          req.ID,
		Ok:          true,
		RoomCode:    room.Code,
		PlayerID:    &playerID,
		ResumeToken: s.resumeToken(room.Code, playerID),
	})
	s.broadcastPublicState(room.Code)
}

func (s *Server) handleReconnect(conn *websocket.Conn, req *Request) {
	var p reconnectPayload
	if !s.decode(conn, req, &p) {
		return
	}
	code := game.NormalizeCode(p.RoomCode)
	if s.tokens != nil {
		if err := s.tokens.Verify(p.ResumeToken, code, p.PlayerID); err != nil {
			s.nack(conn, req.ID, err.Error())
			return
		}
	}
	room, player, err := s.registry.Reconnect(code, p.PlayerID, conn)
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	s.sendFn(conn, Ack{Type: MsgAck, ID: req.ID, Ok: true})
	s.sendPrivateState(room, player.ID)
	s.broadcastPublicState(room.Code)
}

func (s *Server) handleToggleReady(conn *websocket.Conn, req *Request) {
	var p roomPayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, err := s.registry.Room(p.RoomCode)
	if err == nil {
		err = room.ToggleReady(p.PlayerID)
	}
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	s.sendFn(conn, Ack{Type: MsgAck, ID: req.ID, Ok: true})
	s.broadcastPublicState(p.RoomCode)
}

func (s *Server) handleStartGame(conn *websocket.Conn, req *Request) {
	var p roomPayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, err := s.registry.Room(p.RoomCode)
	if err == nil {
		err = room.Start(p.PlayerID)
	}
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	s.sendFn(conn, Ack{Type: MsgAck, ID: req.ID, Ok: true})
	s.broadcastPublicState(p.RoomCode)
	// Hands were just dealt: every member gets their private view.
	s.broadcastPrivateStates(room)
}

func (s *Server) handleDrawCard(conn *websocket.Conn, req *Request) {
	var p roomPayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, err := s.registry.Room(p.RoomCode)
	if err == nil {
		_, err = room.Draw(p.PlayerID)
	}
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	s.sendFn(conn, Ack{Type: MsgAck, ID: req.ID, Ok: true})
	s.broadcastPublicState(p.RoomCode)
	s.sendPrivateState(room, p.PlayerID)
}

func (s *Server) handlePlayCard(conn *websocket.Conn, req *Request) {
	var p playCardPayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, err := s.registry.Room(p.RoomCode)
	var result *game.PlayResult
	if err == nil {
		result, err = room.Play(p.PlayerID, p.CardID, p.TargetPlayerID)
	}
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	s.sendFn(conn, Ack{Type: MsgAck, ID: req.ID, Ok: true, Result: result})
	s.broadcastPublicState(p.RoomCode)
	// Steal/Swap can change several hands' owners' views at once.
	s.broadcastPrivateStates(room)
}

func (s *Server) handleDiscardCard(conn *websocket.Conn, req *Request) {
	var p discardCardPayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, err := s.registry.Room(p.RoomCode)
	if err == nil {
		err = room.DiscardCard(p.PlayerID, p.CardID)
	}
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	s.sendFn(conn, Ack{Type: MsgAck, ID: req.ID, Ok: true})
	s.broadcastPublicState(p.RoomCode)
	s.sendPrivateState(room, p.PlayerID)
}

func (s *Server) handleEndTurn(conn *websocket.Conn, req *Request) {
	var p roomPayload
	if !s.decode(conn, req, &p) {
		return
	}
	room, err := s.registry.Room(p.RoomCode)
	if err == nil {
		err = room.EndTurn(p.PlayerID)
	}
	if err != nil {
		s.nack(conn, req.ID, err.Error())
		return
	}
	s.sendFn(conn, Ack{Type: MsgAck, ID: req.ID, Ok: true})
	s.broadcastPublicState(p.RoomCode)
}

// resumeToken issues a token for the new member, or "" when disabled.
func (s *Server) resumeToken(roomCode string, playerID uuid.UUID) string {
	if s.tokens == nil {
		return ""
	}
	token, err := s.tokens.Issue(roomCode, playerID)
	if err != nil {
		s.log.WithError(err).Warn("failed issuing resume token")
		return ""
	}
	return token
}

// broadcastPublicState pushes the room's shared view to every connected
// member.
func (s *Server) broadcastPublicState(code string) {
	room, err := s.registry.Room(code)
	if err != nil {
		return
	}
	push := StatePush{Type: MsgGameState, State: room.PublicState()}
	for _, m := range room.ConnectedMembers() {
		s.sendFn(m.Conn, push)
	}
}

// broadcastPrivateStates pushes each connected member their own hand.
func (s *Server) broadcastPrivateStates(room *game.Room) {
	for _, m := range room.ConnectedMembers() {
		st, err := room.PrivateState(m.PlayerID)
		if err != nil {
			continue
		}
		s.sendFn(m.Conn, StatePush{Type: MsgYourState, State: st})
	}
}

// sendPrivateState pushes one player their own hand, if connected.
func (s *Server) sendPrivateState(room *game.Room, playerID uuid.UUID) {
	conn := room.MemberConnHandle(playerID)
	if conn == nil {
		return
	}
	st, err := room.PrivateState(playerID)
	if err != nil {
		return
	}
	s.sendFn(conn, StatePush{Type: MsgYourState, State: st})
}

// decode unmarshals the request payload, nacking malformed data.
func (s *Server) decode(conn *websocket.Conn, req *Request, v interface{}) bool {
	if len(req.Data) == 0 {
		s.nack(conn, req.ID, "missing payload")
		return false
	}
	if err := json.Unmarshal(req.Data, v); err != nil {
		s.nack(conn, req.ID, "malformed payload")
		return false
	}
	return true
}

func (s *Server) nack(conn *websocket.Conn, id int64, msg string) {
	s.sendFn(conn, Ack{Type: MsgAck, ID: id, Ok: false, Error: msg})
}

// writeJSON is the default sendFn. Write errors are logged and otherwise
// ignored; a dying connection surfaces through its own read loop.
func (s *Server) writeJSON(conn *websocket.Conn, v interface{}) {
	if conn == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()
	if err := wsjson.Write(ctx, conn, v); err != nil {
		s.log.WithError(err).Debug("websocket write failed")
	}
}
