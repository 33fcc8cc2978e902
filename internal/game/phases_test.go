// internal/game/phases_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

func TestStandardDrawPhase(t *testing.T) {
	g := testState()
	p := g.Players
	g.TurnPhase = TurnDraw
	stockDeck(g, card(models.CardBang), card(models.CardBeer))

	res := g.ExecuteDrawPhase(p[0], nil)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 2, p[0].HandSize())
	assert.Equal(t, TurnPlay, g.TurnPhase)
}

func TestDrawPhaseGuards(t *testing.T) {
	g := testState()
	p := g.Players
	g.TurnPhase = TurnDraw

	res := g.ExecuteDrawPhase(p[1], nil)
	require.False(t, res.Success, "only the current player draws")

	g.TurnPhase = TurnPlay
	res = g.ExecuteDrawPhase(p[0], nil)
	require.False(t, res.Success, "no second draw phase")
}

func TestBlackJackRedFirstCardDrawsThird(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharBlackJack, LifePoints: 4}
	g.TurnPhase = TurnDraw
	stockDeck(g,
		suitCard(models.CardBeer, models.SuitHearts, "7"),
		suitCard(models.CardBang, models.SuitClubs, "5"),
		suitCard(models.CardMissed, models.SuitSpades, "4"),
	)

	require.True(t, g.ExecuteDrawPhase(p[0], nil).Success)
	assert.Equal(t, 3, p[0].HandSize(), "a red first card gives a third draw")
}

func TestBlackJackBlackFirstCardDrawsTwo(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharBlackJack, LifePoints: 4}
	g.TurnPhase = TurnDraw
	stockDeck(g,
		suitCard(models.CardBang, models.SuitClubs, "5"),
		suitCard(models.CardBeer, models.SuitHearts, "7"),
		suitCard(models.CardMissed, models.SuitSpades, "4"),
	)

	require.True(t, g.ExecuteDrawPhase(p[0], nil).Success)
	assert.Equal(t, 2, p[0].HandSize(), "a red second card earns nothing")
}

func TestJesseJonesDrawsFromAHand(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharJesseJones, LifePoints: 4}
	g.TurnPhase = TurnDraw
	loot := give(p[2], card(models.CardBeer))
	stockDeck(g, card(models.CardBang), card(models.CardMissed))

	res := g.ExecuteDrawPhase(p[0], &DrawOption{FromPlayerID: &p[2].ID})
	require.True(t, res.Success)
	assert.Equal(t, 2, p[0].HandSize())
	assert.NotNil(t, p[0].CardInHand(loot.ID))
	assert.Empty(t, p[2].Hand)
	assert.Len(t, g.Deck, 1, "only one deck card after the steal")
}

func TestJesseJonesFallsBackOnEmptyHand(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharJesseJones, LifePoints: 4}
	g.TurnPhase = TurnDraw
	stockDeck(g, card(models.CardBang), card(models.CardMissed))

	res := g.ExecuteDrawPhase(p[0], &DrawOption{FromPlayerID: &p[2].ID})
	require.True(t, res.Success)
	assert.Equal(t, 2, p[0].HandSize(), "an empty victim hand means two deck draws")
}

func TestKitCarlsonKeepsTwoOfThree(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharKitCarlson, LifePoints: 4}
	g.TurnPhase = TurnDraw
	stockDeck(g, card(models.CardSaloon), card(models.CardBang), card(models.CardMissed))

	require.True(t, g.ExecuteDrawPhase(p[0], nil).Success)
	assert.Equal(t, 2, p[0].HandSize())
	require.Len(t, g.Deck, 1)
	assert.Equal(t, models.CardSaloon, g.Deck[0].Type, "the lowest-priority card goes back on top")
	assert.NotNil(t, findByType(p[0].Hand, models.CardBang))
	assert.NotNil(t, findByType(p[0].Hand, models.CardMissed))
}

func TestKitCarlsonWithOneCardLeft(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharKitCarlson, LifePoints: 4}
	g.TurnPhase = TurnDraw
	stockDeck(g, card(models.CardBang))

	require.True(t, g.ExecuteDrawPhase(p[0], nil).Success)
	assert.Equal(t, 1, p[0].HandSize(), "a starved deck never blocks the draw phase")
	assert.Empty(t, g.Deck)
}

func TestPedroRamirezTakesTheDiscard(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharPedroRamirez, LifePoints: 4}
	g.TurnPhase = TurnDraw
	top := card(models.CardBeer)
	g.DiscardPile = []*models.Card{card(models.CardBang), top}
	stockDeck(g, card(models.CardMissed), card(models.CardSaloon))

	res := g.ExecuteDrawPhase(p[0], &DrawOption{FromDiscard: true})
	require.True(t, res.Success)
	assert.Equal(t, 2, p[0].HandSize())
	assert.NotNil(t, p[0].CardInHand(top.ID))
	assert.Len(t, g.DiscardPile, 1)
	assert.Len(t, g.Deck, 1)
}

func TestDynamiteExplodes(t *testing.T) {
	g := testState()
	p := g.Players
	g.TurnPhase = TurnDraw
	dyn := card(models.CardDynamite)
	p[0].Equipment = append(p[0].Equipment, dyn)
	stockDeck(g,
		suitCard(models.CardBang, models.SuitSpades, "5"), // the fatal flip
		card(models.CardBeer), card(models.CardMissed),
	)

	res := g.ExecuteDrawPhase(p[0], nil)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 2, p[0].CurrentLife, "three damage")
	assert.False(t, p[0].HasEquipped(models.CardDynamite))
	assert.Equal(t, 2, p[0].HandSize(), "the turn continues after surviving the blast")
	assert.Equal(t, TurnPlay, g.TurnPhase)
}

func TestDynamitePassesOn(t *testing.T) {
	g := testState()
	p := g.Players
	g.TurnPhase = TurnDraw
	dyn := card(models.CardDynamite)
	p[0].Equipment = append(p[0].Equipment, dyn)
	stockDeck(g,
		suitCard(models.CardBang, models.SuitHearts, "5"), // safe flip
		card(models.CardBeer), card(models.CardMissed),
	)

	require.True(t, g.ExecuteDrawPhase(p[0], nil).Success)
	assert.Equal(t, 5, p[0].CurrentLife)
	assert.False(t, p[0].HasEquipped(models.CardDynamite))
	assert.True(t, p[1].HasEquipped(models.CardDynamite), "the next living player inherits the stick")
}

func TestDynamiteDeathPassesTurn(t *testing.T) {
	g := testState()
	p := g.Players
	g.TurnPhase = TurnDraw
	p[0].CurrentLife = 2
	p[0].Equipment = append(p[0].Equipment, card(models.CardDynamite))
	stockDeck(g, suitCard(models.CardBang, models.SuitSpades, "9"))

	res := g.ExecuteDrawPhase(p[0], nil)
	require.True(t, res.Success, res.Message)
	assert.False(t, p[0].IsAlive)
	assert.Equal(t, PhaseGameOver, g.Phase, "the sheriff blowing up ends the game")
}

func TestJailSkipsPlayPhaseOnBlackSuit(t *testing.T) {
	g := testState()
	p := g.Players
	g.TurnPhase = TurnDraw
	p[0].Equipment = append(p[0].Equipment, card(models.CardJail))
	stockDeck(g,
		suitCard(models.CardBang, models.SuitClubs, "5"), // stays locked up
		card(models.CardBeer), card(models.CardMissed),
	)

	require.True(t, g.ExecuteDrawPhase(p[0], nil).Success)
	assert.False(t, p[0].HasEquipped(models.CardJail), "jail is spent either way")
	assert.Equal(t, 2, p[0].HandSize(), "the prisoner still draws")
	assert.Equal(t, TurnDiscard, g.TurnPhase, "but may not play")
}

func TestJailEscapeOnHeart(t *testing.T) {
	g := testState()
	p := g.Players
	g.TurnPhase = TurnDraw
	p[0].Equipment = append(p[0].Equipment, card(models.CardJail))
	stockDeck(g,
		suitCard(models.CardBang, models.SuitHearts, "5"),
		card(models.CardBeer), card(models.CardMissed),
	)

	require.True(t, g.ExecuteDrawPhase(p[0], nil).Success)
	assert.False(t, p[0].HasEquipped(models.CardJail))
	assert.Equal(t, TurnPlay, g.TurnPhase)
}

func TestEndTurnHandLimit(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].CurrentLife = 2
	a := give(p[0], card(models.CardBang))
	give(p[0], card(models.CardBeer))
	give(p[0], card(models.CardMissed))

	res := g.EndTurn(p[0].ID, nil)
	require.False(t, res.Success, "three cards on two life must discard")

	res = g.EndTurn(p[0].ID, []uuid.UUID{a.ID})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 2, p[0].HandSize())
	assert.Equal(t, 1, g.CurrentPlayerIndex)
	assert.Equal(t, TurnDraw, g.TurnPhase)
	assert.False(t, g.BangPlayedThisTurn)
}

func TestEndTurnBlockedByPendingReaction(t *testing.T) {
	g := testState()
	p := g.Players
	require.True(t, g.Execute(give(p[0], card(models.CardBang)), p[0], p[1]).Success)

	res := g.EndTurn(p[0].ID, nil)
	require.False(t, res.Success)

	g.Respond(p[1].ID, nil, false)
	res = g.EndTurn(p[0].ID, nil)
	require.True(t, res.Success)
}

func TestEndTurnRejectsOffTurnCaller(t *testing.T) {
	g := testState()
	res := g.EndTurn(g.Players[2].ID, nil)
	require.False(t, res.Success)
}

func TestTurnSkipsEliminatedSeats(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].IsAlive = false

	require.True(t, g.EndTurn(p[0].ID, nil).Success)
	assert.Equal(t, 2, g.CurrentPlayerIndex)
}

func findByType(cards []*models.Card, t models.CardType) *models.Card {
	for _, c := range cards {
		if c.Type == t {
			return c
		}
	}
	return nil
}
