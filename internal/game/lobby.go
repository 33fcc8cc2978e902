// internal/game/lobby.go
package game

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Lobby is the staging area where players gather before a game. Live games
// need 4 to 7 players; lobbies with AllowCompactGames set accept fewer for
// quick test tables.
type Lobby struct {
	ID         uuid.UUID `json:"id"`
	HostUserID uuid.UUID `json:"hostUserID"`
	Type       string    `json:"type"` // "private" or "public"; private lobbies are invite or link only

	Users map[uuid.UUID]bool // false if invited but not yet joined

	Connections map[uuid.UUID]*LobbyConnection
	ReadyStates map[uuid.UUID]bool

	GameInstanceCreated bool
	GameID              uuid.UUID

	// InGame blocks further starts while a game spawned from this lobby runs.
	InGame bool

	CountdownTimer *time.Timer

	// OnEmpty is invoked when the last user leaves, letting the store drop
	// the lobby.
	OnEmpty func(lobbyID uuid.UUID)

	Mu sync.Mutex

	Rules    TableRules    `json:"rules"`
	Settings LobbySettings `json:"settings"`
}

// LobbyConnection wraps a single user's active WebSocket connection for the lobby.
type LobbyConnection struct {
	UserID  uuid.UUID
	Cancel  context.CancelFunc
	OutChan chan map[string]interface{}
	IsHost  bool
}

// Write will push a message to the user's message channel.
func (conn *LobbyConnection) Write(msg map[string]interface{}) {
	conn.OutChan <- msg
}

// WriteError will push an error message to the user's message channel.
func (conn *LobbyConnection) WriteError(msg string) {
	conn.OutChan <- map[string]interface{}{
		"type":    "error",
		"message": msg,
	}
}

type LobbySettings struct {
	AutoStart bool `json:"autoStart"` // start the countdown once everyone is ready; default true
}

// NewLobbyWithDefaults creates a private lobby under the given host with the
// default table rules.
func NewLobbyWithDefaults(hostID uuid.UUID) *Lobby {
	lobbyID, _ := uuid.NewV7()

	return &Lobby{
		ID:          lobbyID,
		HostUserID:  hostID,
		Type:        "private",
		Users:       make(map[uuid.UUID]bool),
		Connections: make(map[uuid.UUID]*LobbyConnection),
		ReadyStates: make(map[uuid.UUID]bool),
		Rules:       DefaultTableRules(),
		Settings:    LobbySettings{AutoStart: true},
	}
}

// NewLobbyWithSettings creates a lobby with explicit rules and settings.
func NewLobbyWithSettings(hostID uuid.UUID, rules TableRules, settings LobbySettings) *Lobby {
	lobbyID, _ := uuid.NewV7()

	return &Lobby{
		ID:          lobbyID,
		HostUserID:  hostID,
		Type:        "private",
		Users:       make(map[uuid.UUID]bool),
		Connections: make(map[uuid.UUID]*LobbyConnection),
		ReadyStates: make(map[uuid.UUID]bool),
		Rules:       rules,
		Settings:    settings,
	}
}

// InviteUser grants a user permission to join. Only meaningful for private lobbies.
func (lobby *Lobby) InviteUser(userID uuid.UUID) {
	lobby.Users[userID] = false
}

// AddConnection registers a user's connection to the lobby and sets their
// ready status. This is effectively a "join lobby" operation.
func (lobby *Lobby) AddConnection(userID uuid.UUID, conn *LobbyConnection) error {
	if lobby.Type == "private" {
		if _, ok := lobby.Users[userID]; !ok && userID != lobby.HostUserID {
			return fmt.Errorf("user %s not invited to the private lobby", userID)
		}
	}

	lobby.Users[userID] = true
	lobby.Connections[userID] = conn
	lobby.ReadyStates[userID] = false

	return nil
}

// SeatCount is the number of joined users.
func (lobby *Lobby) SeatCount() int {
	return len(lobby.Connections)
}

// CanStart reports whether enough players have joined for the lobby's rules.
func (lobby *Lobby) CanStart() bool {
	n := lobby.SeatCount()
	if lobby.Rules.AllowCompactGames {
		return n >= 2 && n <= 7
	}
	return n >= 4 && n <= 7
}

// StartCountdown initiates a countdown unless one is already running. After
// it finishes, callback is invoked with the lobby ID.
func (lobby *Lobby) StartCountdown(seconds int, callback func(uuid.UUID)) bool {
	if lobby.InGame {
		return false
	}
	if lobby.CountdownTimer != nil {
		return false
	}

	lobby.BroadcastAll(map[string]interface{}{
		"type":    "lobby_countdown_start",
		"seconds": seconds,
	})

	lobby.CountdownTimer = time.AfterFunc(time.Duration(seconds)*time.Second, func() {
		callback(lobby.ID)
	})

	return true
}

// CancelCountdown stops an active countdown if present.
func (lobby *Lobby) CancelCountdown() {
	if lobby.CountdownTimer != nil {
		lobby.CountdownTimer.Stop()
		lobby.CountdownTimer = nil
	}
}

// MarkUserReady sets a user's ready state if they're connected.
func (lobby *Lobby) MarkUserReady(userID uuid.UUID) {
	if _, ok := lobby.Connections[userID]; !ok {
		return
	}
	lobby.ReadyStates[userID] = true
	lobby.BroadcastReadyState(userID, true)
}

// MarkUserUnready unsets a user's ready state, then cancels the countdown if any.
func (lobby *Lobby) MarkUserUnready(userID uuid.UUID) {
	if _, ok := lobby.Connections[userID]; !ok {
		return
	}
	lobby.ReadyStates[userID] = false
	lobby.BroadcastReadyState(userID, false)
	lobby.CancelCountdown()
}

// AreAllReady returns true if all joined participants are ready.
func (lobby *Lobby) AreAllReady() bool {
	if len(lobby.ReadyStates) == 0 {
		return false
	}
	for _, ready := range lobby.ReadyStates {
		if !ready {
			return false
		}
	}
	return true
}

func (lobby *Lobby) WhoIsReady() []uuid.UUID {
	var readyUsers []uuid.UUID
	for userID, ready := range lobby.ReadyStates {
		if ready {
			readyUsers = append(readyUsers, userID)
		}
	}
	return readyUsers
}

func (lobby *Lobby) WhoIsNotReady() []uuid.UUID {
	var notReadyUsers []uuid.UUID
	for userID, ready := range lobby.ReadyStates {
		if !ready {
			notReadyUsers = append(notReadyUsers, userID)
		}
	}
	return notReadyUsers
}

// BroadcastAll sends a JSON object to all connected users' OutChan.
func (lobby *Lobby) BroadcastAll(msg map[string]interface{}) {
	for _, conn := range lobby.Connections {
		conn.OutChan <- msg
	}
}

// BroadcastJoin sends a "lobby_update" message indicating a user joined.
func (lobby *Lobby) BroadcastJoin(userID uuid.UUID) {
	lobby.BroadcastAll(map[string]interface{}{
		"type":      "lobby_update",
		"user_join": userID.String(),
		"ready_map": lobby.ReadyStates,
	})
}

// BroadcastReadyState sends an update that a particular user changed their ready state.
func (lobby *Lobby) BroadcastReadyState(userID uuid.UUID, ready bool) {
	lobby.BroadcastAll(map[string]interface{}{
		"type":     "ready_update",
		"user_id":  userID.String(),
		"is_ready": ready,
	})
}

// BroadcastLeave sends a "lobby_update" message indicating a user left.
func (lobby *Lobby) BroadcastLeave(userID uuid.UUID) {
	lobby.BroadcastAll(map[string]interface{}{
		"type":      "lobby_update",
		"user_left": userID.String(),
		"ready_map": lobby.ReadyStates,
	})
}

// BroadcastChat sends a chat message from a given user.
func (lobby *Lobby) BroadcastChat(userID uuid.UUID, msg string) {
	lobby.BroadcastAll(map[string]interface{}{
		"type":    "chat",
		"user_id": userID.String(),
		"msg":     msg,
		"ts":      time.Now().Unix(),
	})
}

// RemoveUser removes a user from Connections & ReadyStates on an unexpected
// disconnect or leave.
func (lobby *Lobby) RemoveUser(userID uuid.UUID) {
	delete(lobby.Users, userID)
	delete(lobby.Connections, userID)
	delete(lobby.ReadyStates, userID)

	lobby.CancelCountdown()

	if len(lobby.Connections) == 0 && lobby.OnEmpty != nil {
		lobby.OnEmpty(lobby.ID)
	}
}
