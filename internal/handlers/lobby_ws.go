// internal/handlers/lobby_ws.go
package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gunsmokehq/gunsmoke/internal/game"
	"github.com/gunsmokehq/gunsmoke/internal/middleware"
)

// LobbyWSHandler handles WebSocket connections on /lobby/ws/{lobby_id}.
// It seats the user at the table and runs the read/write pumps until the
// connection drops.
func LobbyWSHandler(logger *logrus.Logger, gs *GameServer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		pathParts := strings.Split(r.URL.Path, "/")
		if len(pathParts) < 4 {
			http.Error(w, "missing lobby ID", http.StatusBadRequest)
			return
		}
		lobbyIDStr := pathParts[3]
		lobbyID, err := uuid.Parse(lobbyIDStr)
		if err != nil {
			http.Error(w, "invalid lobby ID", http.StatusBadRequest)
			return
		}

		lobby, ok := gs.LobbyStore.GetLobby(lobbyID)
		if !ok {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		c, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			Subprotocols:   []string{"lobby"},
			OriginPatterns: []string{"*"}, // Adjust for production security.
		})
		if err != nil {
			logger.Warnf("WebSocket accept error for lobby %s: %v", lobbyID, err)
			return
		}
		defer c.Close(websocket.StatusInternalError, "handler exit")

		if c.Subprotocol() != "lobby" {
			c.Close(websocket.StatusPolicyViolation, "client must speak the lobby subprotocol")
			return
		}

		userID, err := EnsureEphemeralUser(w, r)
		if err != nil {
			logger.Warnf("User authentication failed for lobby %s: %v", lobbyID, err)
			c.Close(StatusInvalidToken, "Authentication failed.")
			return
		}

		ctx, cancel := context.WithCancel(r.Context())
		defer cancel()

		conn := &game.LobbyConnection{
			UserID:  userID,
			Cancel:  cancel,
			OutChan: make(chan map[string]interface{}, 16),
			IsHost:  userID == lobby.HostUserID,
		}

		lobby.Mu.Lock()
		if err := lobby.AddConnection(userID, conn); err != nil {
			lobby.Mu.Unlock()
			logger.Warnf("User %s rejected from lobby %s: %v", userID, lobbyID, err)
			c.Close(websocket.StatusPolicyViolation, "You are not invited to this lobby.")
			return
		}
		lobby.BroadcastJoin(userID)
		lobby.Mu.Unlock()

		middleware.LogWebSocketConnect(logger, r.RemoteAddr, r.URL.Path)

		go writePump(ctx, c, conn, logger)
		readErr := readPump(ctx, c, lobby, conn, gs, logger)

		lobby.Mu.Lock()
		lobby.RemoveUser(userID)
		lobby.BroadcastLeave(userID)
		lobby.Mu.Unlock()
		middleware.LogWebSocketDisconnect(logger, r.RemoteAddr, r.URL.Path, readErr)
	}
}

// writePump forwards queued messages from the lobby to the socket.
func writePump(ctx context.Context, c *websocket.Conn, conn *game.LobbyConnection, logger *logrus.Logger) {
	for {
		select {
		case msg, ok := <-conn.OutChan:
			if !ok {
				return
			}
			writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
			err := wsjson.Write(writeCtx, c, msg)
			cancel()
			if err != nil {
				logger.Debugf("lobby write failed for user %s: %v", conn.UserID, err)
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// readPump reads client messages until the connection closes. It returns
// the read error that terminated the loop, if any.
func readPump(ctx context.Context, c *websocket.Conn, lobby *game.Lobby, conn *game.LobbyConnection, gs *GameServer, logger *logrus.Logger) error {
	for {
		typ, data, err := c.Read(ctx)
		if err != nil {
			if websocket.CloseStatus(err) == websocket.StatusNormalClosure || ctx.Err() != nil {
				return nil
			}
			return err
		}
		if typ != websocket.MessageText {
			continue
		}

		var msg map[string]interface{}
		if err := json.Unmarshal(data, &msg); err != nil {
			conn.WriteError("invalid message format")
			continue
		}
		handleLobbyMessage(lobby, conn, msg, gs, logger)
	}
}

// handleLobbyMessage dispatches a single lobby action from a client.
func handleLobbyMessage(lobby *game.Lobby, conn *game.LobbyConnection, msg map[string]interface{}, gs *GameServer, logger *logrus.Logger) {
	action, _ := msg["type"].(string)

	lobby.Mu.Lock()
	defer lobby.Mu.Unlock()

	switch action {
	case "ready":
		lobby.MarkUserReady(conn.UserID)
		maybeStartCountdown(lobby, gs, logger)
	case "unready":
		lobby.MarkUserUnready(conn.UserID)
	case "chat":
		text, _ := msg["msg"].(string)
		if text != "" {
			lobby.BroadcastChat(conn.UserID, text)
		}
	case "invite":
		if !conn.IsHost {
			conn.WriteError("only the host may invite")
			return
		}
		idStr, _ := msg["user_id"].(string)
		invitee, err := uuid.Parse(idStr)
		if err != nil {
			conn.WriteError("invalid user_id")
			return
		}
		lobby.InviteUser(invitee)
	case "rules":
		if !conn.IsHost {
			conn.WriteError("only the host may change rules")
			return
		}
		if settings, ok := msg["rules"].(map[string]interface{}); ok {
			if err := lobby.Rules.Update(settings); err != nil {
				conn.WriteError(err.Error())
				return
			}
			lobby.BroadcastAll(map[string]interface{}{
				"type":  "rules_update",
				"rules": lobby.Rules,
			})
		}
	case "start":
		if !conn.IsHost {
			conn.WriteError("only the host may start the game")
			return
		}
		if !lobby.CanStart() {
			conn.WriteError("not enough players to start")
			return
		}
		launchGame(lobby, gs, logger)
	case "leave":
		conn.Cancel()
	default:
		conn.WriteError("unknown action: " + action)
	}
}

// maybeStartCountdown kicks off the auto-start countdown once every seated
// player is ready. Caller holds lobby.Mu.
func maybeStartCountdown(lobby *game.Lobby, gs *GameServer, logger *logrus.Logger) {
	if !lobby.Settings.AutoStart || !lobby.AreAllReady() || !lobby.CanStart() {
		return
	}
	lobby.StartCountdown(3, func(lobbyID uuid.UUID) {
		l, ok := gs.LobbyStore.GetLobby(lobbyID)
		if !ok {
			return
		}
		l.Mu.Lock()
		defer l.Mu.Unlock()
		l.CountdownTimer = nil
		if !l.AreAllReady() || !l.CanStart() {
			return
		}
		launchGame(l, gs, logger)
	})
}

// launchGame creates the game instance from the lobby and notifies every
// connection. Caller holds lobby.Mu.
func launchGame(lobby *game.Lobby, gs *GameServer, logger *logrus.Logger) {
	if lobby.InGame {
		return
	}

	g, err := gs.NewGameFromLobby(lobby)
	if err != nil {
		logger.Errorf("failed to start game from lobby %s: %v", lobby.ID, err)
		lobby.BroadcastAll(map[string]interface{}{
			"type":    "error",
			"message": "failed to start game",
		})
		return
	}

	lobby.GameInstanceCreated = true
	lobby.GameID = g.State.ID
	lobby.InGame = true

	lobby.BroadcastAll(map[string]interface{}{
		"type":    "lobby_game_start",
		"game_id": g.State.ID.String(),
	})
	logger.Infof("Game %s started from lobby %s", g.State.ID, lobby.ID)
}
