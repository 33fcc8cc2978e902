// internal/game/helpers_test.go
package game

import (
	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// card builds a standalone card of the given type for tests, with the color
// and weapon range the catalog would assign.
func card(t models.CardType) *models.Card {
	c := &models.Card{ID: uuid.New(), Type: t, Suit: models.SuitClubs, Rank: "7"}
	switch t {
	case models.CardDynamite, models.CardJail, models.CardBarrel, models.CardScope, models.CardMustang:
		c.Color = models.ColorBlue
	case models.CardVolcanic, models.CardSchofield, models.CardRemington,
		models.CardRevCarabine, models.CardWinchester:
		c.Color = models.ColorGreen
		r := map[models.CardType]int{
			models.CardVolcanic:    1,
			models.CardSchofield:   2,
			models.CardRemington:   3,
			models.CardRevCarabine: 4,
			models.CardWinchester:  5,
		}[t]
		c.Range = &r
	default:
		c.Color = models.ColorBrown
	}
	return c
}

// suitCard builds a card with an explicit suit and rank for draw! tests.
func suitCard(t models.CardType, suit, rank string) *models.Card {
	c := card(t)
	c.Suit = suit
	c.Rank = rank
	return c
}

// seatPlayer builds a living player with the given role and character.
func seatPlayer(role models.Role, char models.CharacterID, life int) *models.Player {
	name := "Tester"
	return &models.Player{
		ID:          uuid.New(),
		Role:        role,
		Character:   &models.Character{ID: char, Name: name, LifePoints: life},
		CurrentLife: life,
		MaxLife:     life,
		Hand:        []*models.Card{},
		Equipment:   []*models.Card{},
		IsAlive:     true,
	}
}

// testState seats four plain gunslingers around a table mid-game: seat 0 is
// the sheriff and holds the turn in the play phase. No characters are
// assigned, so no ability hooks fire; tests that need one swap a character in.
// The deck starts empty; tests stock it as needed.
func testState() *GameState {
	g := NewGameState()
	roles := []models.Role{models.RoleSheriff, models.RoleOutlaw, models.RoleRenegade, models.RoleOutlaw}
	for i := 0; i < 4; i++ {
		life := 4
		if i == 0 {
			life = 5 // sheriff bonus
		}
		p := &models.Player{
			ID:          uuid.New(),
			Role:        roles[i],
			CurrentLife: life,
			MaxLife:     life,
			Hand:        []*models.Card{},
			Equipment:   []*models.Card{},
			IsAlive:     true,
			Position:    i,
		}
		g.Players = append(g.Players, p)
	}
	g.SheriffIndex = 0
	g.CurrentPlayerIndex = 0
	g.Phase = PhasePlaying
	g.TurnPhase = TurnPlay
	return g
}

// give puts a card in the player's hand and returns it.
func give(p *models.Player, c *models.Card) *models.Card {
	p.AddCard(c)
	return c
}

// stockDeck pushes cards onto the deck so they are drawn in argument order.
func stockDeck(g *GameState, cards ...*models.Card) {
	for i := len(cards) - 1; i >= 0; i-- {
		g.Deck = append(g.Deck, cards[i])
	}
}
