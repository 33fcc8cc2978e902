// internal/handlers/lobby.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/auth"
	"github.com/gunsmokehq/gunsmoke/internal/game"
)

type createLobbyRequest struct {
	Type      string                 `json:"type"` // "private" or "public"
	AutoStart bool                   `json:"auto_start"`
	Rules     map[string]interface{} `json:"rules,omitempty"`
}

type lobbySummary struct {
	ID         uuid.UUID `json:"id"`
	Type       string    `json:"type"`
	HostUserID uuid.UUID `json:"host_user_id"`
	SeatCount  int       `json:"seat_count"`
	InGame     bool      `json:"in_game"`
}

// CreateLobbyHandler creates a new table owned by the requesting user.
func (gs *GameServer) CreateLobbyHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	userID, err := EnsureEphemeralUser(w, r)
	if err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	var req createLobbyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid lobby payload", http.StatusBadRequest)
		return
	}
	if req.Type != "private" && req.Type != "public" {
		http.Error(w, "lobby type must be private or public", http.StatusBadRequest)
		return
	}

	rules := game.DefaultTableRules()
	if len(req.Rules) > 0 {
		if err := rules.Update(req.Rules); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
	}
	lobby := game.NewLobbyWithSettings(userID, rules, game.LobbySettings{AutoStart: req.AutoStart})
	lobby.Type = req.Type
	lobby.OnEmpty = func(id uuid.UUID) {
		gs.LobbyStore.DeleteLobby(id)
	}
	gs.LobbyStore.AddLobby(lobby)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(lobby)
}

// ListLobbiesHandler returns public lobbies that are still seating players.
func (gs *GameServer) ListLobbiesHandler(w http.ResponseWriter, r *http.Request) {
	if _, err := EnsureEphemeralUser(w, r); err != nil {
		http.Error(w, "authentication failed", http.StatusForbidden)
		return
	}

	lobbies := gs.LobbyStore.ListLobbies()
	summaries := make([]lobbySummary, 0, len(lobbies))
	for _, l := range lobbies {
		l.Mu.Lock()
		if l.Type == "public" && !l.InGame {
			summaries = append(summaries, lobbySummary{
				ID:         l.ID,
				Type:       l.Type,
				HostUserID: l.HostUserID,
				SeatCount:  l.SeatCount(),
				InGame:     l.InGame,
			})
		}
		l.Mu.Unlock()
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summaries)
}

// extractTokenFromCookie reads the auth cookie directly, for callers that
// must not mint guest accounts.
func extractTokenFromCookie(r *http.Request) (uuid.UUID, error) {
	token := extractCookieToken(r.Header.Get("Cookie"), "auth_token")
	userIDStr, err := auth.AuthenticateJWT(token)
	if err != nil {
		return uuid.Nil, err
	}
	return uuid.Parse(userIDStr)
}
