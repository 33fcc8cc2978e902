// internal/game/special_actions.go
package game

import (
	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// TradeCardsForLife is Sid Ketchum's ability: discard two hand cards to regain
// one life point. Usable any time it is legal to act, including off-turn.
func (g *GameState) TradeCardsForLife(playerID uuid.UUID, cardIDs []uuid.UUID) Result {
	if g.Phase != PhasePlaying {
		return fail(ErrInvalidGameState, "game is not in progress")
	}
	player := g.PlayerByID(playerID)
	if player == nil || !player.IsAlive {
		return fail(ErrInvalidTarget, "unknown or eliminated player")
	}
	if player.Character == nil || player.Character.ID != models.CharSidKetchum {
		return fail(ErrInvalidCardPlay, "only Sid Ketchum can trade cards for life")
	}
	if player.CurrentLife >= player.MaxLife {
		return fail(ErrInvalidCardPlay, "already at full life")
	}
	if len(cardIDs) != 2 || cardIDs[0] == cardIDs[1] {
		return fail(ErrInsufficientCards, "exactly two distinct cards required")
	}
	for _, id := range cardIDs {
		if player.CardInHand(id) == nil {
			return fail(ErrInsufficientCards, "card not in hand")
		}
	}

	for _, id := range cardIDs {
		g.discard(player.RemoveCard(id))
	}
	player.Heal(1)
	g.emit(Event{Type: EventHeal, PlayerID: player.ID, Amount: 1})
	g.checkEmptyHandRefill(player)
	g.Touch()
	return ok("%s traded two cards for a life point", player.DisplayName())
}
