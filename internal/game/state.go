// internal/game/state.go
package game

import (
	"log"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/deck"
	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// Phase is the coarse game lifecycle.
type Phase string

const (
	PhaseSetup    Phase = "setup"
	PhasePlaying  Phase = "playing"
	PhaseGameOver Phase = "gameOver"
)

// TurnPhase is the stage within the current player's turn.
type TurnPhase string

const (
	TurnDraw    TurnPhase = "draw"
	TurnPlay    TurnPhase = "play"
	TurnDiscard TurnPhase = "discard"
)

// Reaction is the transient sub-state opened when an attack awaits an answer.
// While non-nil the turn cannot advance. Queue holds the players still to act
// for multi-target attacks (gatling, indians); for duels TargetID flips between
// the two duelists as each Bang! lands.
type Reaction struct {
	AttackerID       uuid.UUID       `json:"attackerId"`
	TargetID         uuid.UUID       `json:"targetId"`
	Source           models.CardType `json:"source"`
	CountersRequired int             `json:"countersRequired"`
	CountersPlayed   int             `json:"countersPlayed"`
	Queue            []uuid.UUID     `json:"queue,omitempty"`
}

// GameState is the complete serializable state of one game. It is the unit of
// exchange for the sync protocol: snapshots are replaced whole, never patched.
// LastUpdate is the logical timestamp deciding which of two snapshots is newer.
type GameState struct {
	ID                 uuid.UUID        `json:"id"`
	LobbyID            uuid.UUID        `json:"lobbyId"`
	Players            []*models.Player `json:"players"`
	CurrentPlayerIndex int              `json:"currentPlayerIndex"`
	Phase              Phase            `json:"phase"`
	TurnPhase          TurnPhase        `json:"turnPhase"`
	Deck               []*models.Card   `json:"deck"`
	DiscardPile        []*models.Card   `json:"discardPile"`
	SheriffIndex       int              `json:"sheriffIndex"`
	Winner             *models.Role     `json:"winner,omitempty"`
	BangPlayedThisTurn bool             `json:"bangPlayedThisTurn"`
	LastUpdate         float64          `json:"lastUpdate"`
	Pending            *Reaction        `json:"pendingReaction,omitempty"`

	obs []Observer
}

// NewGameState builds an empty game in the setup phase.
func NewGameState() *GameState {
	id, _ := uuid.NewRandom()
	return &GameState{
		ID:          id,
		Players:     []*models.Player{},
		Deck:        []*models.Card{},
		DiscardPile: []*models.Card{},
		Phase:       PhaseSetup,
		TurnPhase:   TurnDraw,
	}
}

// AddObserver registers a domain-event sink. Observers survive in memory only;
// receivers of a synced snapshot re-register their own.
func (g *GameState) AddObserver(o Observer) {
	g.obs = append(g.obs, o)
}

func (g *GameState) emit(ev Event) {
	ev.GameID = g.ID
	ev.At = time.Now()
	for _, o := range g.obs {
		o.Notify(ev)
	}
}

// Touch stamps the state with the current wall clock. Every mutation that
// should win a sync merge goes through it.
func (g *GameState) Touch() {
	g.LastUpdate = float64(time.Now().UnixNano()) / 1e9
}

// Setup shuffles seating, deals roles and characters, builds the deck, and
// deals each player an opening hand equal to their life total. The sheriff
// gets one extra life and opens the first turn.
func (g *GameState) Setup() error {
	n := len(g.Players)
	if n < 2 || n > 7 {
		return newError(ErrInvalidPlayerCount, "cannot start with %d players", n)
	}

	rand.Shuffle(n, func(i, j int) {
		g.Players[i], g.Players[j] = g.Players[j], g.Players[i]
	})
	for i, p := range g.Players {
		p.Position = i
	}

	roles := models.RolesFor(n)
	rand.Shuffle(len(roles), func(i, j int) { roles[i], roles[j] = roles[j], roles[i] })

	chars := deck.Characters()
	rand.Shuffle(len(chars), func(i, j int) { chars[i], chars[j] = chars[j], chars[i] })

	g.Deck = deck.New()

	for i, p := range g.Players {
		p.Role = roles[i]
		c := chars[i]
		p.Character = &c
		p.MaxLife = c.LifePoints
		if p.Role == models.RoleSheriff {
			p.MaxLife++
			g.SheriffIndex = i
			g.CurrentPlayerIndex = i
		}
		p.CurrentLife = p.MaxLife
		p.IsAlive = true
		p.Hand = make([]*models.Card, 0, p.CurrentLife)
		p.Equipment = []*models.Card{}
		p.Weapon = nil
	}

	// Opening hands after lives are final, so the sheriff's bonus counts.
	for _, p := range g.Players {
		for i := 0; i < p.CurrentLife; i++ {
			if c := g.drawFromDeck(); c != nil {
				p.AddCard(c)
			}
		}
	}

	g.Phase = PhasePlaying
	g.TurnPhase = TurnDraw
	g.Touch()
	return nil
}

// drawFromDeck pops the top card (slice end), reshuffling the discard pile
// under the top discard when the deck runs dry. Returns nil only when no card
// exists anywhere.
func (g *GameState) drawFromDeck() *models.Card {
	if len(g.Deck) == 0 {
		g.reshuffleDiscard()
	}
	if len(g.Deck) == 0 {
		return nil
	}
	c := g.Deck[len(g.Deck)-1]
	g.Deck = g.Deck[:len(g.Deck)-1]
	return c
}

// reshuffleDiscard folds all but the newest discard back into the deck.
func (g *GameState) reshuffleDiscard() {
	if len(g.DiscardPile) <= 1 {
		return
	}
	top := g.DiscardPile[len(g.DiscardPile)-1]
	pool := g.DiscardPile[:len(g.DiscardPile)-1]
	rand.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	g.Deck = append(g.Deck, pool...)
	g.DiscardPile = []*models.Card{top}
	log.Printf("game %s: reshuffled %d discards into the deck", g.ID, len(pool))
}

// discard puts a card on top of the discard pile.
func (g *GameState) discard(c *models.Card) {
	if c != nil {
		g.DiscardPile = append(g.DiscardPile, c)
	}
}

// PlayerByID finds a seated player, alive or not.
func (g *GameState) PlayerByID(id uuid.UUID) *models.Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// CurrentPlayer returns the player whose turn it is.
func (g *GameState) CurrentPlayer() *models.Player {
	if g.CurrentPlayerIndex < 0 || g.CurrentPlayerIndex >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentPlayerIndex]
}

// LivingPlayers returns the players still in the game, in seating order.
func (g *GameState) LivingPlayers() []*models.Player {
	out := make([]*models.Player, 0, len(g.Players))
	for _, p := range g.Players {
		if p.IsAlive {
			out = append(out, p)
		}
	}
	return out
}

// nextLivingIndex walks clockwise from i to the next living seat.
func (g *GameState) nextLivingIndex(i int) int {
	n := len(g.Players)
	for step := 1; step <= n; step++ {
		j := (i + step) % n
		if g.Players[j].IsAlive {
			return j
		}
	}
	return i
}

// CheckGameOver evaluates the win conditions and, on a hit, latches the winner
// and freezes the state. Safe to call repeatedly; a finished game stays
// finished.
func (g *GameState) CheckGameOver() bool {
	if g.Phase == PhaseGameOver {
		return true
	}

	var sheriffAlive bool
	var outlaws, renegades int
	for _, p := range g.Players {
		if !p.IsAlive {
			continue
		}
		switch p.Role {
		case models.RoleSheriff:
			sheriffAlive = true
		case models.RoleOutlaw:
			outlaws++
		case models.RoleRenegade:
			renegades++
		}
	}

	// With the sheriff dead a living renegade trumps the outlaws, whether or
	// not any outlaw survives.
	var winner models.Role
	switch {
	case !sheriffAlive && renegades > 0:
		winner = models.RoleRenegade
	case !sheriffAlive:
		winner = models.RoleOutlaw
	case outlaws == 0 && renegades == 0:
		winner = models.RoleSheriff
	default:
		return false
	}

	g.Winner = &winner
	g.Phase = PhaseGameOver
	g.Pending = nil
	g.Touch()
	g.emit(Event{Type: EventGameEnded, Winner: string(winner)})
	return true
}

// CountCards totals every card in the deck, discard pile, hands, equipment
// rows, and weapon slots. The invariant value for a live game is 80.
func (g *GameState) CountCards() int {
	n := len(g.Deck) + len(g.DiscardPile)
	for _, p := range g.Players {
		n += len(p.AllCards())
	}
	return n
}
