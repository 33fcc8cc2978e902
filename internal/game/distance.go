// internal/game/distance.go
package game

import (
	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// livingSeatOffset returns a and b's positions among the living players only.
// Dead seats drop out of the circle so neighbors close ranks.
func livingSeatOffset(a, b *models.Player, players []*models.Player) (int, int, int) {
	pa, pb, n := -1, -1, 0
	for _, p := range players {
		if !p.IsAlive && p != a && p != b {
			continue
		}
		if p == a {
			pa = n
		}
		if p == b {
			pb = n
		}
		n++
	}
	return pa, pb, n
}

// Distance measures how far a sees b: minimum steps around the circle of
// living players, adjusted by the defender's mustang and Paul Regret ability
// and the attacker's scope and Rose Doolan ability. Never below 1 for
// distinct players.
func Distance(a, b *models.Player, players []*models.Player) int {
	if a == b {
		return 0
	}
	pa, pb, n := livingSeatOffset(a, b, players)
	if pa < 0 || pb < 0 || n == 0 {
		return 0
	}

	diff := pa - pb
	if diff < 0 {
		diff = -diff
	}
	d := diff
	if n-diff < d {
		d = n - diff
	}

	// Each reduction floors at 1 on its own, so a later increase still counts:
	// a scoped attacker sees an adjacent Paul Regret at 2, not 1.
	if b.HasEquipped(models.CardMustang) {
		d++
	}
	if a.HasEquipped(models.CardScope) {
		d--
		if d < 1 {
			d = 1
		}
	}
	d += capabilityOf(b).SeenDistanceDelta
	if delta := capabilityOf(a).SeesDistanceDelta; delta != 0 {
		d += delta
		if d < 1 {
			d = 1
		}
	}
	return d
}

// EffectiveRange is how far the player can shoot: the equipped weapon's
// range, or 1 unarmed.
func EffectiveRange(p *models.Player) int {
	return p.WeaponRange()
}

// CanTarget reports whether a can shoot b with a Bang! right now.
func CanTarget(a, b *models.Player, players []*models.Player) bool {
	if a == b || !b.IsAlive {
		return false
	}
	return Distance(a, b, players) <= EffectiveRange(a)
}

// ValidTargets lists the players the given card may legally be aimed at.
// Cards that take no target return nil.
func (g *GameState) ValidTargets(card *models.Card, player *models.Player) []*models.Player {
	var out []*models.Player
	for _, p := range g.Players {
		if p == player || !p.IsAlive {
			continue
		}
		switch card.Type {
		case models.CardBang:
			if CanTarget(player, p, g.Players) {
				out = append(out, p)
			}
		case models.CardCatBalou, models.CardDuel:
			out = append(out, p)
		case models.CardPanic:
			if Distance(player, p, g.Players) == 1 && len(p.AllCards()) > 0 {
				out = append(out, p)
			}
		case models.CardJail:
			if p.Role != models.RoleSheriff && !p.HasEquipped(models.CardJail) {
				out = append(out, p)
			}
		}
	}
	return out
}
