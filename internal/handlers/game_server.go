// internal/handlers/game_server.go
package handlers

import (
	"sync"

	log "github.com/sirupsen/logrus"

	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/game"
	"github.com/gunsmokehq/gunsmoke/internal/models"
	"github.com/gunsmokehq/gunsmoke/internal/stats"
)

// GameServer is the high-level container wiring the in-memory stores to the
// websocket handlers and the stats recorder.
type GameServer struct {
	Mutex      sync.Mutex
	LobbyStore *game.LobbyStore
	GameStore  *game.GameStore
	Recorder   *stats.Recorder
}

func NewGameServer(logger *log.Logger) *GameServer {
	return &GameServer{
		LobbyStore: game.NewLobbyStore(),
		GameStore:  game.NewGameStore(),
		Recorder:   stats.NewRecorder(logger),
	}
}

// NewGameFromLobby seats the lobby's joined users into a fresh game, wires
// the event recorder and end-of-game hooks, and starts it.
func (gs *GameServer) NewGameFromLobby(lobby *game.Lobby) (*game.Game, error) {
	g := game.NewGame()
	g.State.LobbyID = lobby.ID
	g.Rules = lobby.Rules

	for userID := range lobby.Connections {
		player := &models.Player{
			ID:        userID,
			Hand:      []*models.Card{},
			Equipment: []*models.Card{},
			Connected: false, // attaches on the game websocket
		}
		g.AddPlayer(player)
	}

	if gs.Recorder != nil {
		g.State.AddObserver(gs.Recorder)
	}

	g.OnGameEnd = func(lobbyID uuid.UUID, winner models.Role, state *game.GameState) {
		if ls, exists := gs.LobbyStore.GetLobby(lobbyID); exists {
			ls.Mu.Lock()
			ls.InGame = false
			for uid := range ls.Connections {
				ls.ReadyStates[uid] = false
			}
			ls.BroadcastAll(map[string]interface{}{
				"type":   "game_results",
				"winner": string(winner),
			})
			ls.Mu.Unlock()
		}
		if gs.Recorder != nil {
			go gs.Recorder.RecordMatch(state)
		}
	}

	gs.GameStore.AddGame(g)

	if err := g.Start(); err != nil {
		gs.GameStore.DeleteGame(g.State.ID)
		return nil, err
	}
	return g, nil
}
