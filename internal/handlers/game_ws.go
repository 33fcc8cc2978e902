// internal/handlers/game_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gunsmokehq/gunsmoke/internal/database"
	"github.com/gunsmokehq/gunsmoke/internal/game"
	"github.com/gunsmokehq/gunsmoke/internal/protocol"
)

// GameWSHandler upgrades the HTTP connection to a websocket for one game
// instance, authenticates the user, verifies they are seated, and runs the
// envelope read loop until the connection drops.
func GameWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathParts := strings.Split(strings.TrimPrefix(r.URL.Path, "/game/ws/"), "/")
		if len(pathParts) < 1 || pathParts[0] == "" {
			http.Error(w, "Missing game_id in path (/game/ws/{game_id})", http.StatusBadRequest)
			return
		}
		gameID, err := uuid.Parse(pathParts[0])
		if err != nil {
			http.Error(w, "Invalid game_id format", http.StatusBadRequest)
			return
		}

		g, ok := gs.GameStore.GetGame(gameID)
		if !ok {
			http.Error(w, "Game not found", http.StatusNotFound)
			return
		}
		g.Mu.Lock()
		over := g.State.Phase == game.PhaseGameOver
		g.Mu.Unlock()
		if over {
			http.Error(w, "Game has already ended", http.StatusGone)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"gunsmoke"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for game %s: %v", gameID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "gunsmoke" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the gunsmoke subprotocol")
			return
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("User authentication failed for game %s: %v", gameID, err)
			c.Close(StatusInvalidToken, "Authentication failed.")
			return
		}

		g.Mu.Lock()
		player := g.State.PlayerByID(userID)
		g.Mu.Unlock()
		if player == nil {
			logger.Warnf("User %s is not seated in game %s. Closing connection.", userID, gameID)
			c.Close(StatusNotSeated, "You are not a player in this game.")
			return
		}

		// Attach the account so chat and results have a display name.
		if player.User == nil {
			if u, dbErr := database.GetUserByID(r.Context(), userID); dbErr == nil {
				g.Mu.Lock()
				player.User = u
				g.Mu.Unlock()
			}
		}

		g.Mu.Lock()
		if g.BroadcastStateFn == nil {
			g.BroadcastStateFn = makeStateBroadcaster(logger)
		}
		if g.BroadcastToPlayerFn == nil {
			g.BroadcastToPlayerFn = makePlayerStateBroadcaster(logger)
		}
		g.Mu.Unlock()

		g.HandleReconnect(userID, c)
		logger.Infof("Player %s connected to game %s from %s", userID, gameID, r.RemoteAddr)

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		readEnvelopes(ctx, c, g, userID, logger)

		logger.Infof("Player %s read loop exited for game %s", userID, gameID)
		g.HandleDisconnect(userID)
	}
}

// makeStateBroadcaster builds the BroadcastStateFn hook: it snapshots the
// connected players under the lock, then writes the state envelope to each
// socket asynchronously with a write timeout.
func makeStateBroadcaster(logger *logrus.Logger) func(state *game.GameState) {
	return func(state *game.GameState) {
		// Called while the game lock is held; collect targets, defer writes.
		env, err := protocol.NewEnvelope(protocol.KindGameState, uuid.Nil, state)
		if err != nil {
			logger.Errorf("failed to build state envelope for game %s: %v", state.ID, err)
			return
		}
		env.Timestamp = state.LastUpdate
		data, err := json.Marshal(env)
		if err != nil {
			logger.Errorf("failed to marshal state envelope for game %s: %v", state.ID, err)
			return
		}

		conns := make([]*websocket.Conn, 0, len(state.Players))
		for _, p := range state.Players {
			if p.Connected && p.Conn != nil {
				conns = append(conns, p.Conn)
			}
		}

		go func() {
			for _, conn := range conns {
				ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
				if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
					logger.Warnf("failed to write state to a player in game %s: %v", state.ID, err)
				}
				cancel()
			}
		}()
	}
}

// makePlayerStateBroadcaster builds the single-player variant.
func makePlayerStateBroadcaster(logger *logrus.Logger) func(playerID uuid.UUID, state *game.GameState) {
	return func(playerID uuid.UUID, state *game.GameState) {
		var conn *websocket.Conn
		for _, p := range state.Players {
			if p.ID == playerID && p.Connected && p.Conn != nil {
				conn = p.Conn
				break
			}
		}
		if conn == nil {
			return
		}
		env, err := protocol.NewEnvelope(protocol.KindGameState, uuid.Nil, state)
		if err != nil {
			logger.Errorf("failed to build state envelope for game %s: %v", state.ID, err)
			return
		}
		env.Timestamp = state.LastUpdate
		data, err := json.Marshal(env)
		if err != nil {
			logger.Errorf("failed to marshal state envelope for game %s: %v", state.ID, err)
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			defer cancel()
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("failed to write state to player %s in game %s: %v", playerID, state.ID, err)
			}
		}()
	}
}

// readEnvelopes decodes inbound envelopes and routes them into the engine.
// Malformed messages are logged and dropped, never fatal to the connection.
func readEnvelopes(ctx context.Context, c *websocket.Conn, g *game.Game, userID uuid.UUID, logger *logrus.Logger) {
	for {
		msgType, data, err := c.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway {
				logger.Infof("WebSocket closed normally for user %s", userID)
			} else if strings.Contains(err.Error(), "context canceled") {
				logger.Infof("WebSocket context canceled for user %s", userID)
			} else {
				logger.Warnf("Error reading from WebSocket for user %s: %v (status %d)", userID, err, status)
			}
			return
		}
		if msgType != websocket.MessageText {
			continue
		}

		var env protocol.Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			logger.Warnf("Dropping undecodable message from user %s: %v", userID, err)
			continue
		}

		switch env.Kind {
		case protocol.KindPlayCard:
			var msg protocol.PlayCardMessage
			if err := env.Decode(&msg); err != nil {
				logger.Warnf("Dropping malformed playCard from user %s: %v", userID, err)
				continue
			}
			if msg.StateChecksum != "" {
				g.Mu.Lock()
				local := protocol.Checksum(g.State)
				g.Mu.Unlock()
				if msg.StateChecksum != local {
					logger.Warnf("Checksum drift from user %s in game %s (theirs %s, ours %s)",
						userID, g.State.ID, msg.StateChecksum, local)
				}
			}
			res := g.ProcessPlay(userID, msg.CardID, msg.TargetPlayerID)
			if !res.Success {
				logger.Infof("Rejected play from user %s: %s", userID, res.Message)
				sendWsError(ctx, c, res.Message)
			}

		case protocol.KindResponseCard:
			var msg protocol.ResponseCardMessage
			if err := env.Decode(&msg); err != nil {
				logger.Warnf("Dropping malformed responseCard from user %s: %v", userID, err)
				continue
			}
			res := g.ProcessResponse(userID, msg.CardID, msg.Accepted)
			if !res.Success {
				logger.Infof("Rejected response from user %s: %s", userID, res.Message)
				sendWsError(ctx, c, res.Message)
			}

		case protocol.KindEndTurn:
			var msg protocol.EndTurnMessage
			if err := env.Decode(&msg); err != nil {
				logger.Warnf("Dropping malformed endTurn from user %s: %v", userID, err)
				continue
			}
			res := g.ProcessEndTurn(userID, msg.DiscardedCards)
			if !res.Success {
				logger.Infof("Rejected endTurn from user %s: %s", userID, res.Message)
				sendWsError(ctx, c, res.Message)
			}

		case protocol.KindGameState:
			var remote game.GameState
			if err := env.Decode(&remote); err != nil {
				logger.Warnf("Dropping malformed state snapshot from user %s: %v", userID, err)
				continue
			}
			if err := protocol.Validate(&remote); err != nil {
				logger.Warnf("Rejecting corrupt snapshot from user %s: %v", userID, err)
				continue
			}
			g.Mu.Lock()
			newer := protocol.IsNewerThan(&remote, g.State)
			g.Mu.Unlock()
			if !newer {
				logger.Debugf("Discarding stale snapshot from user %s", userID)
				continue
			}
			g.AdoptState(&remote)

		case protocol.KindChat:
			var msg protocol.ChatMessage
			if err := env.Decode(&msg); err != nil {
				logger.Warnf("Dropping malformed chat from user %s: %v", userID, err)
				continue
			}
			relayChat(g, userID, msg, logger)

		default:
			logger.Warnf("Unknown envelope kind %q from user %s", env.Kind, userID)
		}
	}
}

// relayChat fans a chat message out to every connected player verbatim.
func relayChat(g *game.Game, senderID uuid.UUID, msg protocol.ChatMessage, logger *logrus.Logger) {
	g.Mu.Lock()
	if msg.SenderName == "" {
		if p := g.State.PlayerByID(senderID); p != nil {
			msg.SenderName = p.DisplayName()
		}
	}
	conns := make([]*websocket.Conn, 0, len(g.State.Players))
	for _, p := range g.State.Players {
		if p.Connected && p.Conn != nil {
			conns = append(conns, p.Conn)
		}
	}
	g.Mu.Unlock()

	env, err := protocol.NewEnvelope(protocol.KindChat, senderID, msg)
	if err != nil {
		logger.Errorf("failed to build chat envelope: %v", err)
		return
	}
	data, err := json.Marshal(env)
	if err != nil {
		logger.Errorf("failed to marshal chat envelope: %v", err)
		return
	}
	go func() {
		for _, conn := range conns {
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			if err := conn.Write(ctx, websocket.MessageText, data); err != nil {
				logger.Warnf("failed to relay chat: %v", err)
			}
			cancel()
		}
	}()
}

// sendWsError writes a small error frame to one client.
func sendWsError(ctx context.Context, c *websocket.Conn, message string) {
	payload := map[string]string{"type": "error", "message": message}
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	writeCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	_ = c.Write(writeCtx, websocket.MessageText, data)
}
