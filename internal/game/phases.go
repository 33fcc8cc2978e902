// internal/game/phases.go
package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/deck"
	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// DrawOption carries the optional choices some characters have for their draw
// phase. A nil or zero option means the standard two-card draw.
type DrawOption struct {
	// FromPlayerID lets Jesse Jones take her first card from this player's hand.
	FromPlayerID *uuid.UUID
	// FromDiscard lets Pedro Ramirez take his first card from the discard pile.
	FromDiscard bool
}

// ExecuteDrawPhase runs the current player's turn start: dynamite and jail
// first, then the character's draw routine, finishing in the play phase unless
// jail skipped it.
func (g *GameState) ExecuteDrawPhase(player *models.Player, opt *DrawOption) Result {
	if g.Phase != PhasePlaying {
		return fail(ErrInvalidGameState, "game is not in progress")
	}
	if g.CurrentPlayer() != player {
		return fail(ErrNotPlayerTurn, "not %s's turn", player.DisplayName())
	}
	if g.TurnPhase != TurnDraw {
		return fail(ErrInvalidGameState, "draw phase already done")
	}

	// A fatal dynamite goes through eliminate, which already passes the turn.
	if res := g.resolveDynamite(player); !res.Success || !player.IsAlive || g.Phase == PhaseGameOver {
		g.Touch()
		return res
	}

	jailed := g.resolveJail(player)

	g.runDrawRoutine(player, opt)

	if jailed {
		// Jail skips the play phase; the player may only discard to limit.
		g.TurnPhase = TurnDiscard
	} else {
		g.TurnPhase = TurnPlay
	}
	g.Touch()
	return ok("%s drew cards", player.DisplayName())
}

// resolveDynamite runs the turn-start dynamite check. Spades 2 through 9
// explodes for 3 damage; anything else passes the stick to the next living
// player.
func (g *GameState) resolveDynamite(player *models.Player) Result {
	dyn := player.EquipmentOfType(models.CardDynamite)
	if dyn == nil {
		return ok("")
	}

	exploded := !g.drawCheck(player, func(c *models.Card) bool {
		v := c.RankValue()
		return !(c.Suit == models.SuitSpades && v >= 2 && v <= 9)
	})

	player.RemoveEquipment(dyn.ID)
	if exploded {
		g.discard(dyn)
		g.damagePlayer(player, 3, nil)
		return ok("the dynamite exploded on %s", player.DisplayName())
	}

	next := g.Players[g.nextLivingIndex(player.Position)]
	if next == player {
		g.discard(dyn)
	} else {
		next.Equipment = append(next.Equipment, dyn)
	}
	return ok("the dynamite moved on")
}

// resolveJail runs the turn-start jail check. A heart escapes; either way the
// jail card is spent. Returns true when the play phase must be skipped.
func (g *GameState) resolveJail(player *models.Player) bool {
	jail := player.EquipmentOfType(models.CardJail)
	if jail == nil {
		return false
	}
	escaped := g.drawCheck(player, func(c *models.Card) bool { return c.Suit == models.SuitHearts })
	player.RemoveEquipment(jail.ID)
	g.discard(jail)
	return !escaped
}

// runDrawRoutine performs the character-specific draw.
func (g *GameState) runDrawRoutine(player *models.Player, opt *DrawOption) {
	drawn := 0
	switch capabilityOf(player).DrawPhase {
	case drawSuitBonus:
		// Black Jack reveals his first card; a red suit grants a third draw.
		bonus := false
		if first := g.drawFromDeck(); first != nil {
			player.AddCard(first)
			drawn++
			bonus = first.IsRed()
		}
		if c := g.drawFromDeck(); c != nil {
			player.AddCard(c)
			drawn++
		}
		if bonus {
			if c := g.drawFromDeck(); c != nil {
				player.AddCard(c)
				drawn++
			}
		}
	case drawFromHand:
		if opt != nil && opt.FromPlayerID != nil {
			if victim := g.PlayerByID(*opt.FromPlayerID); victim != nil && victim != player && len(victim.Hand) > 0 {
				stolen := victim.Hand[rand.Intn(len(victim.Hand))]
				victim.RemoveCard(stolen.ID)
				player.AddCard(stolen)
				drawn++
				g.checkEmptyHandRefill(victim)
			}
		}
		for ; drawn < 2; drawn++ {
			c := g.drawFromDeck()
			if c == nil {
				break
			}
			player.AddCard(c)
		}
	case drawTopThree:
		drawn = g.drawTopThreeKeepTwo(player)
	case drawDiscard:
		if opt != nil && opt.FromDiscard && len(g.DiscardPile) > 0 {
			top := g.DiscardPile[len(g.DiscardPile)-1]
			g.DiscardPile = g.DiscardPile[:len(g.DiscardPile)-1]
			player.AddCard(top)
			drawn++
		}
		for ; drawn < 2; drawn++ {
			c := g.drawFromDeck()
			if c == nil {
				break
			}
			player.AddCard(c)
		}
	default:
		for ; drawn < 2; drawn++ {
			c := g.drawFromDeck()
			if c == nil {
				break
			}
			player.AddCard(c)
		}
	}
	g.emit(Event{Type: EventCardDrawn, PlayerID: player.ID, Amount: drawn})
}

// drawTopThreeKeepTwo is Kit Carlson's draw: look at up to three cards, keep
// the two best by priority, return the rest to the top of the deck in their
// relative order.
func (g *GameState) drawTopThreeKeepTwo(player *models.Player) int {
	var seen []*models.Card
	for i := 0; i < 3; i++ {
		c := g.drawFromDeck()
		if c == nil {
			break
		}
		seen = append(seen, c)
	}
	if len(seen) == 0 {
		return 0
	}

	keep := len(seen)
	if keep > 2 {
		keep = 2
	}
	for k := 0; k < keep; k++ {
		best := -1
		for i, c := range seen {
			if c == nil {
				continue
			}
			if best < 0 || deck.Priority(c.Type) > deck.Priority(seen[best].Type) {
				best = i
			}
		}
		player.AddCard(seen[best])
		seen[best] = nil
	}
	// Unkept cards go back on top preserving their relative order.
	for i := len(seen) - 1; i >= 0; i-- {
		if seen[i] != nil {
			g.Deck = append(g.Deck, seen[i])
		}
	}
	return keep
}

// EndTurn discards the named cards, enforces the hand limit (current life),
// and passes the turn to the next living player.
func (g *GameState) EndTurn(playerID uuid.UUID, discards []uuid.UUID) Result {
	if g.Phase != PhasePlaying {
		return fail(ErrInvalidGameState, "game is not in progress")
	}
	player := g.CurrentPlayer()
	if player == nil || player.ID != playerID {
		return fail(ErrNotPlayerTurn, "not this player's turn")
	}
	if g.Pending != nil {
		return fail(ErrInvalidGameState, "a reaction is still pending")
	}

	for _, id := range discards {
		if c := player.RemoveCard(id); c != nil {
			g.discard(c)
		}
	}
	if player.HandSize() > player.CurrentLife {
		return fail(ErrInvalidCardPlay, "must discard down to %d cards", player.CurrentLife)
	}
	g.checkEmptyHandRefill(player)

	g.BangPlayedThisTurn = false
	g.advanceTurn()
	g.emit(Event{Type: EventTurnEnded, PlayerID: playerID})
	g.Touch()
	return ok("%s ended their turn", player.DisplayName())
}

// advanceTurn moves the spotlight to the next living player.
func (g *GameState) advanceTurn() {
	g.CurrentPlayerIndex = g.nextLivingIndex(g.CurrentPlayerIndex)
	g.TurnPhase = TurnDraw
	g.BangPlayedThisTurn = false
}
