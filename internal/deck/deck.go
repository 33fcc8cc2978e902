// internal/deck/deck.go
//
// Package deck builds the fixed 80-card playing deck and the character roster.
// Card identity is a fresh UUID per build so two games never share card IDs.
package deck

import (
	"math/rand"

	"github.com/google/uuid"
	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// spec is one catalog entry expanded into a concrete card.
type spec struct {
	t    models.CardType
	suit string
	rank string
}

func intPtr(n int) *int { return &n }

// color returns the play style for a card type.
func color(t models.CardType) models.CardColor {
	switch t {
	case models.CardSchofield, models.CardRemington, models.CardRevCarabine,
		models.CardWinchester, models.CardVolcanic:
		return models.ColorGreen
	case models.CardBarrel, models.CardScope, models.CardMustang,
		models.CardDynamite, models.CardJail:
		return models.ColorBlue
	default:
		return models.ColorBrown
	}
}

// weaponRange returns the targeting range for weapon types, nil otherwise.
func weaponRange(t models.CardType) *int {
	switch t {
	case models.CardVolcanic:
		return intPtr(1)
	case models.CardSchofield:
		return intPtr(2)
	case models.CardRemington:
		return intPtr(3)
	case models.CardRevCarabine:
		return intPtr(4)
	case models.CardWinchester:
		return intPtr(5)
	default:
		return nil
	}
}

var descriptions = map[models.CardType]string{
	models.CardBang:         "Deal 1 damage to a player within range",
	models.CardMissed:       "Cancel a shot aimed at you",
	models.CardBeer:         "Regain 1 life point",
	models.CardCatBalou:     "Force any player to discard a card",
	models.CardPanic:        "Steal a card from a player at distance 1",
	models.CardStagecoach:   "Draw 2 cards",
	models.CardWellsFargo:   "Draw 3 cards",
	models.CardGeneralStore: "Reveal cards; every player picks one",
	models.CardSaloon:       "All players regain 1 life point",
	models.CardIndians:      "Everyone else discards a Bang! or loses 1 life",
	models.CardDuel:         "Trade Bang! cards; first to run out loses 1 life",
	models.CardGatling:      "Shoot every other player",
	models.CardDynamite:     "Passes around; may explode for 3 damage",
	models.CardJail:         "Skip the jailed player's turn unless they escape",
	models.CardBarrel:       "May deflect shots on a heart",
	models.CardScope:        "You see other players at distance -1",
	models.CardMustang:      "Others see you at distance +1",
	models.CardSchofield:    "Weapon, range 2",
	models.CardRemington:    "Weapon, range 3",
	models.CardRevCarabine:  "Weapon, range 4",
	models.CardWinchester:   "Weapon, range 5",
	models.CardVolcanic:     "Weapon, range 1, unlimited Bang!",
}

// catalog lists all 80 cards with their printed suits and ranks.
func catalog() []spec {
	h, d, c, s := models.SuitHearts, models.SuitDiamonds, models.SuitClubs, models.SuitSpades
	specs := make([]spec, 0, 80)
	add := func(t models.CardType, suit string, ranks ...string) {
		for _, r := range ranks {
			specs = append(specs, spec{t, suit, r})
		}
	}

	// Bang! (25)
	add(models.CardBang, s, "A")
	add(models.CardBang, d, "2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K")
	add(models.CardBang, c, "2", "3", "4", "5", "6", "7", "8", "9")
	add(models.CardBang, h, "A", "K", "Q", "J")

	// Missed! (12)
	add(models.CardMissed, c, "10", "J", "Q", "K", "A")
	add(models.CardMissed, s, "2", "3", "4", "5", "6", "7", "8")

	// Beer (6)
	add(models.CardBeer, h, "6", "7", "8", "9", "10")
	add(models.CardBeer, s, "J")

	add(models.CardSaloon, h, "5")
	add(models.CardStagecoach, s, "9", "9")
	add(models.CardWellsFargo, h, "3")
	add(models.CardCatBalou, h, "K")
	add(models.CardCatBalou, d, "9", "10", "J")
	add(models.CardPanic, h, "A", "3", "4")
	add(models.CardPanic, d, "8")
	add(models.CardGeneralStore, c, "9")
	add(models.CardGeneralStore, s, "Q")
	add(models.CardIndians, d, "K", "A")
	add(models.CardDuel, d, "Q")
	add(models.CardDuel, s, "J")
	add(models.CardDuel, c, "8")
	add(models.CardGatling, h, "10")
	add(models.CardDynamite, h, "2")
	add(models.CardJail, s, "4", "5")
	add(models.CardJail, h, "J")
	add(models.CardBarrel, s, "Q", "K")
	add(models.CardScope, s, "A")
	add(models.CardMustang, h, "8", "9")
	add(models.CardSchofield, c, "J", "Q")
	add(models.CardSchofield, s, "K")
	add(models.CardRemington, c, "K")
	add(models.CardRevCarabine, c, "A")
	add(models.CardWinchester, s, "8")
	add(models.CardVolcanic, s, "10")
	add(models.CardVolcanic, c, "10")

	return specs
}

// New builds a fresh, shuffled 80-card deck.
func New() []*models.Card {
	specs := catalog()
	cards := make([]*models.Card, len(specs))
	for i, sp := range specs {
		cards[i] = &models.Card{
			ID:          uuid.New(),
			Type:        sp.t,
			Suit:        sp.suit,
			Rank:        sp.rank,
			Color:       color(sp.t),
			Description: descriptions[sp.t],
			Range:       weaponRange(sp.t),
		}
	}
	rand.Shuffle(len(cards), func(i, j int) { cards[i], cards[j] = cards[j], cards[i] })
	return cards
}

// Characters returns the full character roster in enum order.
func Characters() []models.Character {
	return []models.Character{
		{ID: models.CharBartCassidy, Name: "Bart Cassidy", LifePoints: 4, Ability: "Draws a card each time he loses a life point"},
		{ID: models.CharBlackJack, Name: "Black Jack", LifePoints: 4, Ability: "Shows his second drawn card; draws again on hearts or diamonds"},
		{ID: models.CharCalamityJanet, Name: "Calamity Janet", LifePoints: 4, Ability: "May play Bang! as Missed! and vice versa"},
		{ID: models.CharElGringo, Name: "El Gringo", LifePoints: 3, Ability: "Draws a card from the hand of whoever damages him"},
		{ID: models.CharJesseJones, Name: "Jesse Jones", LifePoints: 4, Ability: "May draw his first card from another player's hand"},
		{ID: models.CharJourdonnais, Name: "Jourdonnais", LifePoints: 4, Ability: "Always counts as having a Barrel in play"},
		{ID: models.CharKitCarlson, Name: "Kit Carlson", LifePoints: 4, Ability: "Looks at the top three cards and keeps two"},
		{ID: models.CharLuckyDuke, Name: "Lucky Duke", LifePoints: 4, Ability: "Flips two cards on every draw! and picks the better"},
		{ID: models.CharPaulRegret, Name: "Paul Regret", LifePoints: 3, Ability: "Others see him at distance +1"},
		{ID: models.CharPedroRamirez, Name: "Pedro Ramirez", LifePoints: 4, Ability: "May draw his first card from the discard pile"},
		{ID: models.CharRoseDoolan, Name: "Rose Doolan", LifePoints: 4, Ability: "Sees others at distance -1"},
		{ID: models.CharSidKetchum, Name: "Sid Ketchum", LifePoints: 4, Ability: "May discard two cards to regain one life point"},
		{ID: models.CharSlabTheKiller, Name: "Slab the Killer", LifePoints: 4, Ability: "His Bang! needs two Missed! to cancel"},
		{ID: models.CharSuzyLafayette, Name: "Suzy Lafayette", LifePoints: 4, Ability: "Draws a card whenever her hand is empty"},
		{ID: models.CharVultureSam, Name: "Vulture Sam", LifePoints: 4, Ability: "Takes the cards of every eliminated player"},
		{ID: models.CharWillyTheKid, Name: "Willy the Kid", LifePoints: 4, Ability: "May play any number of Bang! cards"},
	}
}

// Priority ranks card types for pick policies such as Kit Carlson's keep-two
// and the general store selection. Higher is better.
func Priority(t models.CardType) int {
	switch t {
	case models.CardBang:
		return 10
	case models.CardMissed:
		return 9
	case models.CardBeer:
		return 8
	case models.CardGatling:
		return 7
	case models.CardDuel:
		return 6
	case models.CardIndians:
		return 5
	case models.CardCatBalou, models.CardPanic:
		return 4
	case models.CardStagecoach, models.CardWellsFargo:
		return 3
	case models.CardBarrel, models.CardScope, models.CardMustang:
		return 2
	default:
		return 1
	}
}
