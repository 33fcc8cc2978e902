// internal/game/eliminate.go
package game

import (
	"log"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// eliminate is the single exit path for a player. It hands out the outlaw
// bounty, applies the sheriff-shot-a-deputy penalty, moves the victim's cards
// to a living Vulture Sam or the discard pile, emits the elimination event,
// and runs the game-over check. All deaths, whatever their cause, come
// through here.
func (g *GameState) eliminate(victim, killer *models.Player) {
	victim.IsAlive = false
	victim.CurrentLife = 0
	log.Printf("game %s: %s was eliminated (%s)", g.ID, victim.DisplayName(), victim.Role)

	killerID := targetID(killer)
	g.emit(Event{Type: EventPlayerEliminated, PlayerID: killerID, TargetID: victim.ID})

	if victim.Role == models.RoleOutlaw && killer != nil && killer.IsAlive && killer.Role != models.RoleOutlaw {
		for i := 0; i < 3; i++ {
			if c := g.drawFromDeck(); c != nil {
				killer.AddCard(c)
			}
		}
	}

	if victim.Role == models.RoleDeputy && killer != nil && killer.Role == models.RoleSheriff {
		for _, c := range killer.AllCards() {
			g.discard(c)
		}
		killer.Hand = []*models.Card{}
		killer.Equipment = []*models.Card{}
		killer.Weapon = nil
	}

	g.scatterCards(victim)
	g.scrubPending(victim)

	if victim.Position == g.CurrentPlayerIndex && g.Phase == PhasePlaying {
		g.advanceTurn()
	}

	g.CheckGameOver()
}

// scatterCards moves every card the victim held to a living Vulture Sam, or
// failing that to the discard pile. Either way no card leaves the table.
func (g *GameState) scatterCards(victim *models.Player) {
	var vulture *models.Player
	for _, p := range g.LivingPlayers() {
		if capabilityOf(p).AbsorbsEliminated {
			vulture = p
			break
		}
	}

	cards := victim.AllCards()
	victim.Hand = []*models.Card{}
	victim.Equipment = []*models.Card{}
	victim.Weapon = nil

	if vulture != nil {
		for _, c := range cards {
			vulture.AddCard(c)
		}
		return
	}
	for _, c := range cards {
		g.discard(c)
	}
}

// scrubPending drops a dead player out of any outstanding reaction queue.
// When the dead player is the reaction's current target the resolution path
// that killed them advances the queue itself, so only the queue and the
// attacker slot are touched here.
func (g *GameState) scrubPending(victim *models.Player) {
	r := g.Pending
	if r == nil {
		return
	}

	if len(r.Queue) > 0 {
		kept := r.Queue[:0]
		for _, id := range r.Queue {
			if id != victim.ID {
				kept = append(kept, id)
			}
		}
		r.Queue = kept
	}

	if r.AttackerID == victim.ID {
		g.Pending = nil
	}
}
