// internal/game/engine_test.go
package game

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

func TestCanPlayTurnAndPhaseGates(t *testing.T) {
	g := testState()
	p := g.Players

	bang := give(p[0], card(models.CardBang))
	assert.True(t, g.CanPlay(bang, p[0]))

	g.TurnPhase = TurnDraw
	assert.False(t, g.CanPlay(bang, p[0]), "no proactive plays before drawing")
	g.TurnPhase = TurnPlay

	offTurn := give(p[1], card(models.CardBang))
	assert.False(t, g.CanPlay(offTurn, p[1]), "not their turn")

	missed := give(p[1], card(models.CardMissed))
	assert.True(t, g.CanPlay(missed, p[1]), "Missed! is reactive")

	g.Pending = &Reaction{}
	assert.False(t, g.CanPlay(bang, p[0]), "no proactive plays under a pending reaction")
	g.Pending = nil

	p[0].IsAlive = false
	assert.False(t, g.CanPlay(bang, p[0]))
}

func TestCanPlayBangLimit(t *testing.T) {
	g := testState()
	p := g.Players
	bang := give(p[0], card(models.CardBang))

	g.BangPlayedThisTurn = true
	assert.False(t, g.CanPlay(bang, p[0]))

	p[0].Weapon = card(models.CardVolcanic)
	assert.True(t, g.CanPlay(bang, p[0]), "volcanic lifts the limit")
	p[0].Weapon = nil

	p[0].Character = &models.Character{ID: models.CharWillyTheKid, LifePoints: 4}
	assert.True(t, g.CanPlay(bang, p[0]), "Willy the Kid lifts the limit")
}

func TestCanPlayBeerRules(t *testing.T) {
	g := testState()
	p := g.Players
	beer := give(p[0], card(models.CardBeer))

	assert.False(t, g.CanPlay(beer, p[0]), "no beer at full life")

	p[0].CurrentLife = 3
	assert.True(t, g.CanPlay(beer, p[0]))

	g.Players[2].IsAlive = false
	g.Players[3].IsAlive = false
	assert.False(t, g.CanPlay(beer, p[0]), "beer has no effect heads-up")
}

func TestCanPlayDuplicateEquipment(t *testing.T) {
	g := testState()
	p := g.Players

	p[0].Equipment = append(p[0].Equipment, card(models.CardBarrel))
	assert.False(t, g.CanPlay(give(p[0], card(models.CardBarrel)), p[0]))
	assert.True(t, g.CanPlay(give(p[0], card(models.CardMustang)), p[0]), "different equipment is fine")

	p[0].Weapon = card(models.CardSchofield)
	assert.False(t, g.CanPlay(give(p[0], card(models.CardSchofield)), p[0]), "same weapon twice")
	assert.True(t, g.CanPlay(give(p[0], card(models.CardRemington)), p[0]), "a different weapon replaces")
}

func TestBangHitAndMiss(t *testing.T) {
	g := testState()
	p := g.Players
	bang := give(p[0], card(models.CardBang))

	res := g.Execute(bang, p[0], p[1])
	require.True(t, res.Success, res.Message)
	assert.True(t, res.RequiresResponse)
	require.NotNil(t, g.Pending)
	assert.Equal(t, p[1].ID, g.Pending.TargetID)
	assert.True(t, g.BangPlayedThisTurn)

	// Declining takes the hit.
	res = g.Respond(p[1].ID, nil, false)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 3, p[1].CurrentLife)
	assert.Nil(t, g.Pending)

	// Countering with a Missed! deflects.
	g.BangPlayedThisTurn = false
	bang2 := give(p[0], card(models.CardBang))
	require.True(t, g.Execute(bang2, p[0], p[1]).Success)
	missed := give(p[1], card(models.CardMissed))
	res = g.Respond(p[1].ID, &missed.ID, true)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 3, p[1].CurrentLife)
	assert.Nil(t, g.Pending)
	assert.Nil(t, p[1].CardInHand(missed.ID), "the counter is spent")
}

func TestBangOutOfRangeAndSecondBang(t *testing.T) {
	g := testState()
	p := g.Players

	far := give(p[0], card(models.CardBang))
	res := g.Execute(far, p[0], p[2])
	require.False(t, res.Success)
	require.NotNil(t, res.Err)
	assert.Equal(t, ErrInvalidDistance, res.Err.Kind)
	assert.NotNil(t, p[0].CardInHand(far.ID), "a refused play stays in hand")

	require.True(t, g.Execute(far, p[0], p[1]).Success)
	g.Respond(p[1].ID, nil, false)

	second := give(p[0], card(models.CardBang))
	res = g.Execute(second, p[0], p[1])
	require.False(t, res.Success)
	assert.Equal(t, ErrBangLimit, res.Err.Kind)
}

func TestSlabTheKillerNeedsTwoMissed(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharSlabTheKiller, LifePoints: 4}

	require.True(t, g.Execute(give(p[0], card(models.CardBang)), p[0], p[1]).Success)
	require.NotNil(t, g.Pending)
	assert.Equal(t, 2, g.Pending.CountersRequired)

	first := give(p[1], card(models.CardMissed))
	res := g.Respond(p[1].ID, &first.ID, true)
	require.True(t, res.Success)
	assert.True(t, res.RequiresResponse, "one Missed! is not enough")
	require.NotNil(t, g.Pending)

	second := give(p[1], card(models.CardMissed))
	res = g.Respond(p[1].ID, &second.ID, true)
	require.True(t, res.Success)
	assert.Nil(t, g.Pending)
	assert.Equal(t, 4, p[1].CurrentLife)
}

func TestBarrelDeflectsOnHeart(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Equipment = append(p[1].Equipment, card(models.CardBarrel))
	stockDeck(g, suitCard(models.CardBeer, models.SuitHearts, "6"))

	res := g.Execute(give(p[0], card(models.CardBang)), p[0], p[1])
	require.True(t, res.Success)
	assert.False(t, res.RequiresResponse, "the barrel already cancelled the shot")
	assert.Nil(t, g.Pending)
	assert.Equal(t, 4, p[1].CurrentLife)
}

func TestBarrelMissesOnBlackSuit(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Equipment = append(p[1].Equipment, card(models.CardBarrel))
	stockDeck(g, suitCard(models.CardBeer, models.SuitSpades, "6"))

	res := g.Execute(give(p[0], card(models.CardBang)), p[0], p[1])
	require.True(t, res.Success)
	assert.True(t, res.RequiresResponse)
	require.NotNil(t, g.Pending)
}

func TestJourdonnaisHasInnateBarrel(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Character = &models.Character{ID: models.CharJourdonnais, LifePoints: 4}
	stockDeck(g, suitCard(models.CardBeer, models.SuitHearts, "6"))

	res := g.Execute(give(p[0], card(models.CardBang)), p[0], p[1])
	require.True(t, res.Success)
	assert.Nil(t, g.Pending)
	assert.Equal(t, 4, p[1].CurrentLife)
}

func TestLuckyDukeFlipsTwice(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Character = &models.Character{ID: models.CharLuckyDuke, LifePoints: 4}
	p[1].Equipment = append(p[1].Equipment, card(models.CardBarrel))
	// First flip misses, second is a heart; Lucky Duke keeps the better.
	stockDeck(g,
		suitCard(models.CardBang, models.SuitSpades, "3"),
		suitCard(models.CardBeer, models.SuitHearts, "6"),
	)

	res := g.Execute(give(p[0], card(models.CardBang)), p[0], p[1])
	require.True(t, res.Success)
	assert.Nil(t, g.Pending)
	assert.Len(t, g.DiscardPile, 3, "both flips and the Bang! are discarded")
}

func TestCalamityJanetSwapsBangAndMissed(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Character = &models.Character{ID: models.CharCalamityJanet, LifePoints: 4}

	// She counters a Bang! with a Bang!.
	require.True(t, g.Execute(give(p[0], card(models.CardBang)), p[0], p[1]).Success)
	counter := give(p[1], card(models.CardBang))
	res := g.Respond(p[1].ID, &counter.ID, true)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 4, p[1].CurrentLife)

	// And fires a Missed! as a Bang! on her own turn.
	g.CurrentPlayerIndex = 1
	g.BangPlayedThisTurn = false
	shot := give(p[1], card(models.CardMissed))
	res = g.Execute(shot, p[1], p[2])
	require.True(t, res.Success, res.Message)
	require.NotNil(t, g.Pending)
	assert.Equal(t, models.CardBang, g.Pending.Source)
	assert.True(t, g.BangPlayedThisTurn, "the swapped shot counts against the limit")
}

func TestCalamityJanetSwapNeedsHerTurn(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Character = &models.Character{ID: models.CharCalamityJanet, LifePoints: 4}

	// Off-turn the swap is no shot at all.
	shot := give(p[1], card(models.CardMissed))
	res := g.Execute(shot, p[1], p[2])
	require.False(t, res.Success)
	assert.Equal(t, ErrNotPlayerTurn, res.Err.Kind)
	assert.Nil(t, g.Pending)
	assert.NotNil(t, p[1].CardInHand(shot.ID), "the card stays in hand")

	// Nor may it clobber someone else's open reaction.
	require.True(t, g.Execute(give(p[0], card(models.CardBang)), p[0], p[3]).Success)
	require.NotNil(t, g.Pending)
	g.CurrentPlayerIndex = 1
	res = g.Execute(shot, p[1], p[2])
	require.False(t, res.Success)
	assert.Equal(t, p[3].ID, g.Pending.TargetID, "the open reaction is untouched")
}

func TestOffTurnBeerOnlyWhileTargeted(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].CurrentLife = 2
	beer := give(p[1], card(models.CardBeer))

	res := g.Execute(beer, p[1], nil)
	require.False(t, res.Success, "no defensive beer without an incoming attack")
	assert.Equal(t, 2, p[1].CurrentLife)

	require.True(t, g.Execute(give(p[0], card(models.CardBang)), p[0], p[1]).Success)
	require.NotNil(t, g.Pending)
	res = g.Execute(beer, p[1], nil)
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 3, p[1].CurrentLife, "beer under fire buys a life point")
}

func TestCalamityJanetStillBoundByBangLimit(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharCalamityJanet, LifePoints: 4}
	g.BangPlayedThisTurn = true

	shot := give(p[0], card(models.CardMissed))
	res := g.Execute(shot, p[0], p[1])
	require.False(t, res.Success)
	assert.Equal(t, ErrBangLimit, res.Err.Kind)
}

func TestBeerHealsOne(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].CurrentLife = 2

	res := g.Execute(give(p[0], card(models.CardBeer)), p[0], nil)
	require.True(t, res.Success)
	assert.Equal(t, 3, p[0].CurrentLife)
}

func TestCatBalouDiscardsAndPanicSteals(t *testing.T) {
	g := testState()
	p := g.Players
	loot := give(p[1], card(models.CardWinchester))

	res := g.Execute(give(p[0], card(models.CardCatBalou)), p[0], p[1])
	require.True(t, res.Success)
	assert.Empty(t, p[1].Hand)
	assert.Equal(t, loot.ID, g.DiscardPile[len(g.DiscardPile)-1].ID)

	loot2 := give(p[1], card(models.CardBeer))
	res = g.Execute(give(p[0], card(models.CardPanic)), p[0], p[1])
	require.True(t, res.Success)
	assert.NotNil(t, p[0].CardInHand(loot2.ID), "panic moves the card to the thief")

	res = g.Execute(give(p[0], card(models.CardPanic)), p[0], p[2])
	require.False(t, res.Success)
	assert.Equal(t, ErrInvalidDistance, res.Err.Kind)
}

func TestCatBalouCanHitEquipment(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Weapon = card(models.CardRemington)

	res := g.Execute(give(p[0], card(models.CardCatBalou)), p[0], p[1])
	require.True(t, res.Success)
	assert.Nil(t, p[1].Weapon, "the only card was the weapon")
}

func TestStagecoachAndWellsFargo(t *testing.T) {
	g := testState()
	p := g.Players
	stockDeck(g, card(models.CardBang), card(models.CardBeer), card(models.CardMissed),
		card(models.CardBang), card(models.CardBang))

	require.True(t, g.Execute(give(p[0], card(models.CardStagecoach)), p[0], nil).Success)
	assert.Equal(t, 2, p[0].HandSize())

	require.True(t, g.Execute(give(p[0], card(models.CardWellsFargo)), p[0], nil).Success)
	assert.Equal(t, 5, p[0].HandSize())
}

func TestDrawCardsSurvivesShortDeck(t *testing.T) {
	g := testState()
	p := g.Players
	stockDeck(g, card(models.CardBang))

	res := g.Execute(give(p[0], card(models.CardWellsFargo)), p[0], nil)
	require.True(t, res.Success, "drawing past the table's last card is not an error")
	assert.Equal(t, 1, p[0].HandSize())
}

func TestGeneralStoreDealsOnePerLivingPlayer(t *testing.T) {
	g := testState()
	p := g.Players
	stockDeck(g, card(models.CardBang), card(models.CardBeer), card(models.CardMissed), card(models.CardSaloon))

	res := g.Execute(give(p[0], card(models.CardGeneralStore)), p[0], nil)
	require.True(t, res.Success)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 1, p[i].HandSize(), "seat %d", i)
	}
	assert.Empty(t, g.Deck)
	assert.Equal(t, models.CardBang, p[0].Hand[0].Type, "the player picks first and takes the best card")
}

func TestSaloonHealsTheWounded(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].CurrentLife = 2
	p[3].CurrentLife = 1

	res := g.Execute(give(p[0], card(models.CardSaloon)), p[0], nil)
	require.True(t, res.Success)
	assert.Equal(t, 3, p[1].CurrentLife)
	assert.Equal(t, 4, p[2].CurrentLife, "full players stay at cap")
	assert.Equal(t, 2, p[3].CurrentLife)
}

func TestIndiansQueueEveryOpponent(t *testing.T) {
	g := testState()
	p := g.Players

	res := g.Execute(give(p[0], card(models.CardIndians)), p[0], nil)
	require.True(t, res.Success)
	require.NotNil(t, g.Pending)
	assert.Equal(t, p[1].ID, g.Pending.TargetID, "seating order from the attacker")

	// Seat 1 throws a Bang! back.
	counter := give(p[1], card(models.CardBang))
	res = g.Respond(p[1].ID, &counter.ID, true)
	require.True(t, res.Success)
	require.NotNil(t, g.Pending)
	assert.Equal(t, p[2].ID, g.Pending.TargetID)
	assert.Equal(t, 4, p[1].CurrentLife)

	// Seat 2 takes the arrow.
	res = g.Respond(p[2].ID, nil, false)
	require.True(t, res.Success)
	require.NotNil(t, g.Pending)
	assert.Equal(t, p[3].ID, g.Pending.TargetID)
	assert.Equal(t, 3, p[2].CurrentLife)

	res = g.Respond(p[3].ID, nil, false)
	require.True(t, res.Success)
	assert.Nil(t, g.Pending, "the raid ends after the last seat")
	assert.Equal(t, 3, p[3].CurrentLife)
}

func TestIndiansRejectWrongResponder(t *testing.T) {
	g := testState()
	p := g.Players
	require.True(t, g.Execute(give(p[0], card(models.CardIndians)), p[0], nil).Success)

	res := g.Respond(p[2].ID, nil, false)
	require.False(t, res.Success, "only the queued target may respond")
	assert.Equal(t, p[1].ID, g.Pending.TargetID)
}

func TestGatlingRunsBarrelPerTarget(t *testing.T) {
	g := testState()
	p := g.Players
	p[2].Equipment = append(p[2].Equipment, card(models.CardBarrel))
	stockDeck(g, suitCard(models.CardBeer, models.SuitHearts, "6"))

	require.True(t, g.Execute(give(p[0], card(models.CardGatling)), p[0], nil).Success)
	require.NotNil(t, g.Pending)
	assert.Equal(t, p[1].ID, g.Pending.TargetID)

	// Seat 1 takes the hit; seat 2's barrel flips a heart and skips them.
	res := g.Respond(p[1].ID, nil, false)
	require.True(t, res.Success)
	require.NotNil(t, g.Pending)
	assert.Equal(t, p[3].ID, g.Pending.TargetID, "the barrel deflected seat 2")
	assert.Equal(t, 4, p[2].CurrentLife)

	g.Respond(p[3].ID, nil, false)
	assert.Nil(t, g.Pending)
	assert.Equal(t, 3, p[1].CurrentLife)
	assert.Equal(t, 3, p[3].CurrentLife)
}

func TestIndiansIgnoreMissedButBangCounters(t *testing.T) {
	g := testState()
	p := g.Players
	require.True(t, g.Execute(give(p[0], card(models.CardIndians)), p[0], nil).Success)

	wrong := give(p[1], card(models.CardMissed))
	res := g.Respond(p[1].ID, &wrong.ID, true)
	require.False(t, res.Success, "Missed! does not answer Indians!")
}

func TestDuelVolley(t *testing.T) {
	g := testState()
	p := g.Players

	require.True(t, g.Execute(give(p[0], card(models.CardDuel)), p[0], p[2]).Success)
	require.NotNil(t, g.Pending)
	assert.Equal(t, p[2].ID, g.Pending.TargetID, "the challenged player answers first")

	// Target answers; the roles flip back to the challenger.
	b1 := give(p[2], card(models.CardBang))
	res := g.Respond(p[2].ID, &b1.ID, true)
	require.True(t, res.Success)
	assert.Equal(t, p[0].ID, g.Pending.TargetID)

	b2 := give(p[0], card(models.CardBang))
	res = g.Respond(p[0].ID, &b2.ID, true)
	require.True(t, res.Success)
	assert.Equal(t, p[2].ID, g.Pending.TargetID)

	// Out of Bang!s: the loser takes one damage and the duel closes.
	res = g.Respond(p[2].ID, nil, false)
	require.True(t, res.Success)
	assert.Nil(t, g.Pending)
	assert.Equal(t, 3, p[2].CurrentLife)
	assert.Equal(t, 5, p[0].CurrentLife)
}

func TestDuelBangsDoNotCountAgainstLimit(t *testing.T) {
	g := testState()
	p := g.Players

	require.True(t, g.Execute(give(p[0], card(models.CardDuel)), p[0], p[1]).Success)
	b := give(p[1], card(models.CardBang))
	require.True(t, g.Respond(p[1].ID, &b.ID, true).Success)
	g.Respond(p[0].ID, nil, false)

	assert.False(t, g.BangPlayedThisTurn, "duel answers are not turn Bang!s")
}

func TestJailTargeting(t *testing.T) {
	g := testState()
	p := g.Players

	res := g.Execute(give(p[0], card(models.CardJail)), p[0], p[2])
	require.True(t, res.Success)
	assert.True(t, p[2].HasEquipped(models.CardJail), "jail sits in front of the target")

	res = g.Execute(give(p[0], card(models.CardJail)), p[0], p[2])
	require.False(t, res.Success, "no stacking jails")

	g.CurrentPlayerIndex = 1
	res = g.Execute(give(p[1], card(models.CardJail)), p[1], p[0])
	require.False(t, res.Success)
	assert.Equal(t, ErrInvalidTarget, res.Err.Kind, "the sheriff cannot be jailed")
}

func TestEquipmentAndWeaponSlots(t *testing.T) {
	g := testState()
	p := g.Players

	require.True(t, g.Execute(give(p[0], card(models.CardBarrel)), p[0], nil).Success)
	assert.True(t, p[0].HasEquipped(models.CardBarrel))

	dup := give(p[0], card(models.CardBarrel))
	res := g.Execute(dup, p[0], nil)
	require.False(t, res.Success)
	assert.Equal(t, ErrDuplicateEquipment, res.Err.Kind)

	require.True(t, g.Execute(give(p[0], card(models.CardSchofield)), p[0], nil).Success)
	old := p[0].Weapon
	require.True(t, g.Execute(give(p[0], card(models.CardWinchester)), p[0], nil).Success)
	assert.Equal(t, models.CardWinchester, p[0].Weapon.Type)
	assert.Equal(t, old.ID, g.DiscardPile[len(g.DiscardPile)-1].ID, "the replaced weapon is discarded")
}

func TestBartCassidyDrawsOnDamage(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Character = &models.Character{ID: models.CharBartCassidy, LifePoints: 4}
	stockDeck(g, card(models.CardBeer))

	require.True(t, g.Execute(give(p[0], card(models.CardBang)), p[0], p[1]).Success)
	g.Respond(p[1].ID, nil, false)

	assert.Equal(t, 3, p[1].CurrentLife)
	assert.Equal(t, 1, p[1].HandSize(), "one card per life point lost")
}

func TestElGringoStealsFromDamager(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Character = &models.Character{ID: models.CharElGringo, LifePoints: 3}
	p[1].MaxLife, p[1].CurrentLife = 3, 3
	keep := give(p[0], card(models.CardBeer))

	require.True(t, g.Execute(give(p[0], card(models.CardBang)), p[0], p[1]).Success)
	g.Respond(p[1].ID, nil, false)

	assert.Equal(t, 2, p[1].CurrentLife)
	assert.NotNil(t, p[1].CardInHand(keep.ID), "the card came from the shooter's hand")
	assert.Empty(t, p[0].Hand)
}

func TestSuzyLafayetteRefillsEmptyHand(t *testing.T) {
	g := testState()
	p := g.Players
	p[0].Character = &models.Character{ID: models.CharSuzyLafayette, LifePoints: 4}
	stockDeck(g, card(models.CardMissed))

	bang := give(p[0], card(models.CardBang))
	require.True(t, g.Execute(bang, p[0], p[1]).Success)

	require.Equal(t, 1, p[0].HandSize(), "her hand emptied and refilled")
	assert.Equal(t, models.CardMissed, p[0].Hand[0].Type)
}

func TestSidKetchumTradesCardsForLife(t *testing.T) {
	g := testState()
	p := g.Players
	p[1].Character = &models.Character{ID: models.CharSidKetchum, LifePoints: 4}
	p[1].CurrentLife = 3
	a := give(p[1], card(models.CardBang))
	b := give(p[1], card(models.CardBeer))

	res := g.TradeCardsForLife(p[1].ID, []uuid.UUID{a.ID, b.ID})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, 4, p[1].CurrentLife)
	assert.Empty(t, p[1].Hand)

	// At full life the trade is refused.
	c := give(p[1], card(models.CardBang))
	d := give(p[1], card(models.CardBeer))
	res = g.TradeCardsForLife(p[1].ID, []uuid.UUID{c.ID, d.ID})
	require.False(t, res.Success)

	// Everyone else is refused outright.
	p[2].CurrentLife = 2
	e := give(p[2], card(models.CardBang))
	f := give(p[2], card(models.CardBeer))
	res = g.TradeCardsForLife(p[2].ID, []uuid.UUID{e.ID, f.ID})
	require.False(t, res.Success)
}

func TestExecuteRequiresCardInHand(t *testing.T) {
	g := testState()
	p := g.Players

	res := g.Execute(card(models.CardBang), p[0], p[1])
	require.False(t, res.Success)
	assert.Equal(t, ErrInvalidCardPlay, res.Err.Kind)
}
