// internal/game/characters.go
package game

import (
	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// capability describes the rule hooks a character owns. The table is keyed by
// the closed CharacterID enum, so adding a character means adding exactly one
// row here and the engine picks it up everywhere.
type capability struct {
	// UnlimitedBang lifts the one-Bang!-per-turn limit.
	UnlimitedBang bool
	// CountersRequired is how many Missed! cancel this character's Bang!.
	CountersRequired int
	// BangMissedInterchangeable lets Bang! and Missed! stand in for each other.
	BangMissedInterchangeable bool
	// InnateBarrel counts as a Barrel always in play.
	InnateBarrel bool
	// SeenDistanceDelta adjusts how far others see this character.
	SeenDistanceDelta int
	// SeesDistanceDelta adjusts how far this character sees others.
	SeesDistanceDelta int
	// DrawsOnDamage draws one card per life point lost.
	DrawsOnDamage bool
	// StealsFromDamager takes a random hand card from whoever damaged them.
	StealsFromDamager bool
	// DrawsOnEmptyHand immediately refills an emptied hand with one card.
	DrawsOnEmptyHand bool
	// AbsorbsEliminated takes every card of an eliminated player.
	AbsorbsEliminated bool
	// LuckyDraw flips two cards on every draw! and keeps the better.
	LuckyDraw bool
	// DrawPhase selects a non-standard draw phase routine.
	DrawPhase drawStyle
}

type drawStyle int

const (
	drawStandard drawStyle = iota
	drawSuitBonus // Black Jack: reveal second card, red suits draw a third
	drawFromHand  // Jesse Jones: first card may come from a player's hand
	drawTopThree  // Kit Carlson: look at three, keep two
	drawDiscard   // Pedro Ramirez: first card may come from the discard pile
)

var capabilities = [models.NumCharacters]capability{
	models.CharBartCassidy:   {CountersRequired: 1, DrawsOnDamage: true},
	models.CharBlackJack:     {CountersRequired: 1, DrawPhase: drawSuitBonus},
	models.CharCalamityJanet: {CountersRequired: 1, BangMissedInterchangeable: true},
	models.CharElGringo:      {CountersRequired: 1, StealsFromDamager: true},
	models.CharJesseJones:    {CountersRequired: 1, DrawPhase: drawFromHand},
	models.CharJourdonnais:   {CountersRequired: 1, InnateBarrel: true},
	models.CharKitCarlson:    {CountersRequired: 1, DrawPhase: drawTopThree},
	models.CharLuckyDuke:     {CountersRequired: 1, LuckyDraw: true},
	models.CharPaulRegret:    {CountersRequired: 1, SeenDistanceDelta: 1},
	models.CharPedroRamirez:  {CountersRequired: 1, DrawPhase: drawDiscard},
	models.CharRoseDoolan:    {CountersRequired: 1, SeesDistanceDelta: -1},
	models.CharSidKetchum:    {CountersRequired: 1},
	models.CharSlabTheKiller: {CountersRequired: 2},
	models.CharSuzyLafayette: {CountersRequired: 1, DrawsOnEmptyHand: true},
	models.CharVultureSam:    {CountersRequired: 1, AbsorbsEliminated: true},
	models.CharWillyTheKid:   {CountersRequired: 1, UnlimitedBang: true},
}

// capabilityOf returns the hooks for a player, defaulting to a plain gunslinger
// when no character is assigned (compact test setups).
func capabilityOf(p *models.Player) capability {
	if p == nil || p.Character == nil {
		return capability{CountersRequired: 1}
	}
	id := p.Character.ID
	if int(id) < 0 || int(id) >= models.NumCharacters {
		return capability{CountersRequired: 1}
	}
	return capabilities[id]
}
