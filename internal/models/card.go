// internal/models/card.go
package models

import "github.com/google/uuid"

// CardType identifies one of the fixed kinds of cards in the catalog.
type CardType string

const (
	CardBang         CardType = "bang"
	CardMissed       CardType = "missed"
	CardBeer         CardType = "beer"
	CardCatBalou     CardType = "cat_balou"
	CardPanic        CardType = "panic"
	CardStagecoach   CardType = "stagecoach"
	CardWellsFargo   CardType = "wells_fargo"
	CardGeneralStore CardType = "general_store"
	CardSaloon       CardType = "saloon"
	CardIndians      CardType = "indians"
	CardDuel         CardType = "duel"
	CardGatling      CardType = "gatling"
	CardDynamite     CardType = "dynamite"
	CardJail         CardType = "jail"
	CardBarrel       CardType = "barrel"
	CardScope        CardType = "scope"
	CardMustang      CardType = "mustang"
	CardSchofield    CardType = "schofield"
	CardRemington    CardType = "remington"
	CardRevCarabine  CardType = "rev_carabine"
	CardWinchester   CardType = "winchester"
	CardVolcanic     CardType = "volcanic"
)

// Suit names used throughout the catalog.
const (
	SuitHearts   = "hearts"
	SuitDiamonds = "diamonds"
	SuitClubs    = "clubs"
	SuitSpades   = "spades"
)

// CardColor groups card types by how they are played: brown cards resolve
// instantly, blue cards stay in play as equipment, green cards are weapons.
type CardColor string

const (
	ColorBrown CardColor = "brown"
	ColorBlue  CardColor = "blue"
	ColorGreen CardColor = "green"
)

// Card is an immutable playing card. Range is only set for weapons.
type Card struct {
	ID          uuid.UUID `json:"id"`
	Type        CardType  `json:"type"`
	Suit        string    `json:"suit"`
	Rank        string    `json:"rank"`
	Color       CardColor `json:"color"`
	Description string    `json:"description"`
	Range       *int      `json:"range,omitempty"`
}

// IsWeapon reports whether the card is a weapon (green).
func (c *Card) IsWeapon() bool { return c.Color == ColorGreen }

// IsEquipment reports whether the card is persistent non-weapon equipment (blue).
func (c *Card) IsEquipment() bool { return c.Color == ColorBlue }

// IsInstant reports whether the card resolves immediately when played (brown).
func (c *Card) IsInstant() bool { return c.Color == ColorBrown }

// IsRed reports whether the card's suit is hearts or diamonds.
func (c *Card) IsRed() bool { return c.Suit == SuitHearts || c.Suit == SuitDiamonds }

// RankValue maps the rank to its ordering value (2-10, J=11, Q=12, K=13, A=14).
// Used by the "draw!" checks for dynamite and similar suit/rank tests.
func (c *Card) RankValue() int {
	switch c.Rank {
	case "A":
		return 14
	case "K":
		return 13
	case "Q":
		return 12
	case "J":
		return 11
	default:
		n := 0
		for _, r := range c.Rank {
			if r < '0' || r > '9' {
				return 0
			}
			n = n*10 + int(r-'0')
		}
		return n
	}
}
