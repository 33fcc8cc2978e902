package game

import (
	"sync"

	"github.com/google/uuid"
)

type GameStore struct {
	mu    sync.Mutex
	games map[uuid.UUID]*Game
}

func NewGameStore() *GameStore {
	return &GameStore{
		games: make(map[uuid.UUID]*Game),
	}
}

func (s *GameStore) AddGame(g *Game) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.games[g.State.ID] = g
}

func (s *GameStore) GetGame(id uuid.UUID) (*Game, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	g, exists := s.games[id]
	return g, exists
}

func (s *GameStore) DeleteGame(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.games, id)
}

// GetGameByLobbyID returns the game spawned from a given lobby, or nil.
func (s *GameStore) GetGameByLobbyID(lobbyID uuid.UUID) *Game {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, g := range s.games {
		if g.State.LobbyID == lobbyID {
			return g
		}
	}
	return nil
}
