// internal/game/game.go
package game

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/coder/websocket"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// OnGameEndFunc receives the finished game so the lobby layer can broadcast
// results and persist them.
type OnGameEndFunc func(lobbyID uuid.UUID, winner models.Role, state *GameState)

// Game wraps a GameState with the service concerns around it: the per-game
// lock, the turn timer, connection tracking, and the broadcast hooks the
// websocket layer installs. All exported methods acquire Mu themselves.
type Game struct {
	State *GameState
	Rules TableRules

	Mu sync.Mutex

	TurnDuration time.Duration
	turnTimer    *time.Timer
	turnSeq      int
	lastSeen     map[uuid.UUID]time.Time
	ended        bool

	// BroadcastStateFn pushes a full snapshot to every connected player.
	// If nil, no broadcast is done.
	BroadcastStateFn func(state *GameState)

	// BroadcastToPlayerFn pushes a full snapshot to one player.
	BroadcastToPlayerFn func(playerID uuid.UUID, state *GameState)

	OnGameEnd OnGameEndFunc
}

// NewGame builds an empty game with default table rules.
func NewGame() *Game {
	rules := DefaultTableRules()
	return &Game{
		State:        NewGameState(),
		Rules:        rules,
		TurnDuration: time.Duration(rules.TurnTimerSec) * time.Second,
		lastSeen:     make(map[uuid.UUID]time.Time),
	}
}

// AddPlayer seats a player before the game starts, or refreshes the
// connection of an already-seated one.
func (g *Game) AddPlayer(p *models.Player) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	for _, existing := range g.State.Players {
		if existing.ID == p.ID {
			existing.Conn = p.Conn
			existing.Connected = true
			g.lastSeen[p.ID] = time.Now()
			return
		}
	}
	if g.State.Phase != PhaseSetup {
		log.Printf("game %s: rejecting late join from %s", g.State.ID, p.ID)
		return
	}
	p.Connected = p.Conn != nil
	g.State.Players = append(g.State.Players, p)
	g.lastSeen[p.ID] = time.Now()
}

// Start deals the game out and begins the first turn.
func (g *Game) Start() error {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	if g.State.Phase != PhaseSetup {
		return newError(ErrInvalidGameState, "game already started")
	}
	if g.Rules.TurnTimerSec > 0 {
		g.TurnDuration = time.Duration(g.Rules.TurnTimerSec) * time.Second
	}
	if err := g.State.Setup(); err != nil {
		return err
	}
	g.broadcastLocked()
	g.scheduleNextTurnTimer()
	return nil
}

// ProcessDrawPhase runs the current player's draw phase.
func (g *Game) ProcessDrawPhase(playerID uuid.UUID, opt *DrawOption) Result {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	player := g.State.PlayerByID(playerID)
	if player == nil {
		return fail(ErrInvalidTarget, "unknown player")
	}
	g.lastSeen[playerID] = time.Now()
	res := g.State.ExecuteDrawPhase(player, opt)
	g.afterActionLocked(res)
	return res
}

// ProcessPlay plays a card from a player's hand at an optional target.
func (g *Game) ProcessPlay(playerID, cardID uuid.UUID, targetID *uuid.UUID) Result {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	player := g.State.PlayerByID(playerID)
	if player == nil {
		return fail(ErrInvalidTarget, "unknown player")
	}
	card := player.CardInHand(cardID)
	if card == nil {
		return fail(ErrInvalidCardPlay, "card not in hand")
	}
	var target *models.Player
	if targetID != nil {
		target = g.State.PlayerByID(*targetID)
		if target == nil {
			return fail(ErrInvalidTarget, "unknown target")
		}
	}
	g.lastSeen[playerID] = time.Now()
	res := g.State.Execute(card, player, target)
	g.afterActionLocked(res)
	return res
}

// ProcessResponse answers the pending reaction.
func (g *Game) ProcessResponse(playerID uuid.UUID, cardID *uuid.UUID, accepted bool) Result {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.lastSeen[playerID] = time.Now()
	res := g.State.Respond(playerID, cardID, accepted)
	g.afterActionLocked(res)
	return res
}

// ProcessEndTurn ends the current player's turn after the given discards.
func (g *Game) ProcessEndTurn(playerID uuid.UUID, discards []uuid.UUID) Result {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.lastSeen[playerID] = time.Now()
	res := g.State.EndTurn(playerID, discards)
	if res.Success && g.State.Phase == PhasePlaying {
		g.scheduleNextTurnTimer()
	}
	g.afterActionLocked(res)
	return res
}

// ProcessTrade runs Sid Ketchum's two-cards-for-a-life trade.
func (g *Game) ProcessTrade(playerID uuid.UUID, cardIDs []uuid.UUID) Result {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	g.lastSeen[playerID] = time.Now()
	res := g.State.TradeCardsForLife(playerID, cardIDs)
	g.afterActionLocked(res)
	return res
}

// afterActionLocked broadcasts the new state and finishes the game when a
// mutation ended it. Lock must be held.
func (g *Game) afterActionLocked(res Result) {
	if !res.Success {
		return
	}
	g.broadcastLocked()
	if g.State.Phase == PhaseGameOver {
		g.endLocked()
	}
}

// AdoptState replaces the local state with a remote snapshot that already won
// the merge. Live connections, users, and observers survive the swap; the
// snapshot's players are re-attached to them by ID.
func (g *Game) AdoptState(remote *GameState) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	for _, rp := range remote.Players {
		if local := g.State.PlayerByID(rp.ID); local != nil {
			rp.Conn = local.Conn
			rp.User = local.User
			rp.Connected = local.Connected
		}
	}
	remote.obs = g.State.obs
	g.State = remote
	g.broadcastLocked()
	if g.State.Phase == PhaseGameOver {
		g.endLocked()
	} else {
		g.scheduleNextTurnTimer()
	}
}

// broadcastLocked pushes the current snapshot to all players. Lock must be
// held; the broadcast hook must not block on socket writes.
func (g *Game) broadcastLocked() {
	if g.BroadcastStateFn != nil {
		g.BroadcastStateFn(g.State)
	}
}

// scheduleNextTurnTimer arms the turn timeout for the current player. A
// stale callback (turn already moved on) is ignored. Lock must be held.
func (g *Game) scheduleNextTurnTimer() {
	if g.TurnDuration <= 0 {
		return
	}
	if g.turnTimer != nil {
		g.turnTimer.Stop()
	}
	current := g.State.CurrentPlayer()
	if current == nil || g.State.Phase != PhasePlaying {
		return
	}

	g.turnSeq++
	seq := g.turnSeq
	pid := current.ID
	g.turnTimer = time.AfterFunc(g.TurnDuration, func() {
		go func() {
			g.Mu.Lock()
			defer g.Mu.Unlock()
			if g.ended || g.turnSeq != seq || g.State.Phase != PhasePlaying {
				return
			}
			g.handleTimeoutLocked(pid)
		}()
	})
}

// handleTimeoutLocked force-resolves a stalled player: an outstanding
// reaction is declined on their behalf, otherwise their turn is played out
// minimally and ended. Lock must be held.
func (g *Game) handleTimeoutLocked(playerID uuid.UUID) {
	log.Printf("game %s: player %s timed out", g.State.ID, playerID)
	st := g.State

	if st.Pending != nil {
		target := st.Pending.TargetID
		st.Respond(target, nil, false)
		g.broadcastLocked()
		if st.Phase == PhaseGameOver {
			g.endLocked()
			return
		}
		g.scheduleNextTurnTimer()
		return
	}

	player := st.PlayerByID(playerID)
	if player == nil || st.CurrentPlayer() != player {
		return
	}

	if st.TurnPhase == TurnDraw {
		st.ExecuteDrawPhase(player, nil)
	}
	// Discard oldest cards down to the hand limit, then pass the turn.
	var discards []uuid.UUID
	for i := 0; i < player.HandSize()-player.CurrentLife; i++ {
		discards = append(discards, player.Hand[i].ID)
	}
	st.EndTurn(playerID, discards)
	g.broadcastLocked()
	if st.Phase == PhaseGameOver {
		g.endLocked()
		return
	}
	g.scheduleNextTurnTimer()
}

// HandleDisconnect marks a player disconnected. With forfeiture enabled the
// player is eliminated outright; otherwise their seat waits for a reconnect
// while timeouts keep the game moving.
func (g *Game) HandleDisconnect(playerID uuid.UUID) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	player := g.State.PlayerByID(playerID)
	if player == nil || !player.Connected {
		return
	}
	log.Printf("game %s: player %s disconnected", g.State.ID, playerID)
	player.Connected = false
	player.Conn = nil

	if g.State.Phase == PhasePlaying && g.Rules.ForfeitOnDisconnect && player.IsAlive {
		player.CurrentLife = 0
		g.State.eliminate(player, nil)
		g.State.Touch()
	}
	g.broadcastLocked()
	if g.State.Phase == PhaseGameOver {
		g.endLocked()
	}
}

// HandleReconnect re-attaches a returning player's connection and sends them
// the current snapshot.
func (g *Game) HandleReconnect(playerID uuid.UUID, conn *websocket.Conn) {
	g.Mu.Lock()
	defer g.Mu.Unlock()

	player := g.State.PlayerByID(playerID)
	if player == nil {
		log.Printf("game %s: reconnect from unknown player %s", g.State.ID, playerID)
		if conn != nil {
			conn.Close(websocket.StatusPolicyViolation, "not seated in this game")
		}
		return
	}
	player.Conn = conn
	player.Connected = true
	g.lastSeen[playerID] = time.Now()
	if g.BroadcastToPlayerFn != nil {
		g.BroadcastToPlayerFn(playerID, g.State)
	}
}

// EndGame stops the timers and fires the end callback once.
func (g *Game) EndGame() {
	g.Mu.Lock()
	defer g.Mu.Unlock()
	g.endLocked()
}

func (g *Game) endLocked() {
	if g.ended {
		return
	}
	g.ended = true
	if g.turnTimer != nil {
		g.turnTimer.Stop()
		g.turnTimer = nil
	}
	winner := models.Role("")
	if g.State.Winner != nil {
		winner = *g.State.Winner
	}
	if g.OnGameEnd != nil {
		g.OnGameEnd(g.State.LobbyID, winner, g.State)
	}
}
