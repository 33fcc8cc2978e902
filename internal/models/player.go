// internal/models/player.go
package models

import (
	"github.com/coder/websocket"
	"github.com/google/uuid"
)

// Player is one seat at the table. User and Conn tie the player to the live
// roster and are never serialized; receivers re-attach them by ID.
type Player struct {
	ID          uuid.UUID  `json:"id"`
	Character   *Character `json:"character,omitempty"`
	Role        Role       `json:"role,omitempty"`
	CurrentLife int        `json:"currentLife"`
	MaxLife     int        `json:"maxLife"`
	Hand        []*Card    `json:"hand"`
	Equipment   []*Card    `json:"equipment"`
	Weapon      *Card      `json:"weapon,omitempty"`
	IsAlive     bool       `json:"isAlive"`
	Position    int        `json:"position"`

	User      *User           `json:"-"`
	Conn      *websocket.Conn `json:"-"`
	Connected bool            `json:"-"`
}

// DisplayName resolves the best available name for logs and chat.
func (p *Player) DisplayName() string {
	if p.User != nil && p.User.Username != "" {
		return p.User.Username
	}
	if p.Character != nil {
		return p.Character.Name
	}
	return p.ID.String()
}

// TakeDamage subtracts life, clamped at zero, and flips IsAlive atomically
// with the transition to zero. Elimination side effects belong to the engine.
func (p *Player) TakeDamage(amount int) {
	p.CurrentLife -= amount
	if p.CurrentLife <= 0 {
		p.CurrentLife = 0
		p.IsAlive = false
	}
}

// Heal adds life capped at MaxLife.
func (p *Player) Heal(amount int) {
	p.CurrentLife += amount
	if p.CurrentLife > p.MaxLife {
		p.CurrentLife = p.MaxLife
	}
}

// AddCard appends a card to the player's hand.
func (p *Player) AddCard(c *Card) {
	p.Hand = append(p.Hand, c)
}

// RemoveCard removes a card from the hand by ID and returns it, or nil.
func (p *Player) RemoveCard(id uuid.UUID) *Card {
	for i, c := range p.Hand {
		if c.ID == id {
			p.Hand = append(p.Hand[:i], p.Hand[i+1:]...)
			return c
		}
	}
	return nil
}

// CardInHand returns the hand card with the given ID, or nil.
func (p *Player) CardInHand(id uuid.UUID) *Card {
	for _, c := range p.Hand {
		if c.ID == id {
			return c
		}
	}
	return nil
}

// HasEquipped reports whether a card of the given type is active in the
// player's equipment row or weapon slot. Slots are unique per type.
func (p *Player) HasEquipped(t CardType) bool {
	for _, c := range p.Equipment {
		if c.Type == t {
			return true
		}
	}
	return p.Weapon != nil && p.Weapon.Type == t
}

// RemoveEquipment removes an equipment card by ID and returns it, or nil.
func (p *Player) RemoveEquipment(id uuid.UUID) *Card {
	for i, c := range p.Equipment {
		if c.ID == id {
			p.Equipment = append(p.Equipment[:i], p.Equipment[i+1:]...)
			return c
		}
	}
	return nil
}

// EquipmentOfType returns the active equipment card of the given type, or nil.
func (p *Player) EquipmentOfType(t CardType) *Card {
	for _, c := range p.Equipment {
		if c.Type == t {
			return c
		}
	}
	return nil
}

// AllCards returns every card the player holds or has in play.
func (p *Player) AllCards() []*Card {
	cards := make([]*Card, 0, len(p.Hand)+len(p.Equipment)+1)
	cards = append(cards, p.Hand...)
	cards = append(cards, p.Equipment...)
	if p.Weapon != nil {
		cards = append(cards, p.Weapon)
	}
	return cards
}

// WeaponRange is the player's effective targeting range: the equipped weapon's
// range, or 1 for the default sidearm.
func (p *Player) WeaponRange() int {
	if p.Weapon != nil && p.Weapon.Range != nil {
		return *p.Weapon.Range
	}
	return 1
}

// HandSize is the number of cards in hand.
func (p *Player) HandSize() int { return len(p.Hand) }
