// internal/game/engine.go
package game

import (
	"math/rand"

	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/deck"
	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// CanPlay checks the legality of playing a card proactively. Missed! is the
// reactive exception allowed off-turn, and beer only while a reaction is aimed
// at the drinker; everything else requires the player's own play phase with no
// reaction outstanding.
func (g *GameState) CanPlay(card *models.Card, player *models.Player) bool {
	if g.Phase != PhasePlaying || !player.IsAlive {
		return false
	}

	reactive := card.Type == models.CardMissed ||
		(card.Type == models.CardBeer && g.Pending != nil && g.Pending.TargetID == player.ID)
	if !reactive {
		if g.CurrentPlayer() != player || g.TurnPhase != TurnPlay || g.Pending != nil {
			return false
		}
	}

	switch card.Type {
	case models.CardBang:
		if g.BangPlayedThisTurn && !capabilityOf(player).UnlimitedBang && !playerHasVolcanic(player) {
			return false
		}
	case models.CardBeer:
		if player.CurrentLife >= player.MaxLife || len(g.LivingPlayers()) <= 2 {
			return false
		}
	}

	if card.IsEquipment() && player.HasEquipped(card.Type) && card.Type != models.CardJail {
		return false
	}
	if card.IsWeapon() && player.Weapon != nil && player.Weapon.Type == card.Type {
		return false
	}
	return true
}

// answersReaction reports whether the played card type counters the pending
// attack for this responder, honoring Calamity Janet's Bang!/Missed! swap.
func answersReaction(source models.CardType, played models.CardType, responder *models.Player) bool {
	swap := capabilityOf(responder).BangMissedInterchangeable
	switch source {
	case models.CardBang, models.CardGatling:
		return played == models.CardMissed || (swap && played == models.CardBang)
	case models.CardIndians, models.CardDuel:
		return played == models.CardBang || (swap && played == models.CardMissed)
	}
	return false
}

func playerHasVolcanic(p *models.Player) bool {
	return p.Weapon != nil && p.Weapon.Type == models.CardVolcanic
}

// Execute plays a card from the player's hand, applying all side effects in
// place. Target is required for aimed cards and ignored otherwise.
func (g *GameState) Execute(card *models.Card, player *models.Player, target *models.Player) Result {
	if g.Phase != PhasePlaying {
		return fail(ErrInvalidGameState, "game is not in progress")
	}
	if player.CardInHand(card.ID) == nil {
		return fail(ErrInvalidCardPlay, "card not in hand")
	}
	if !g.CanPlay(card, player) {
		if g.CurrentPlayer() != player && card.Type != models.CardMissed && card.Type != models.CardBeer {
			return fail(ErrNotPlayerTurn, "not %s's turn", player.DisplayName())
		}
		if card.Type == models.CardBang {
			return fail(ErrBangLimit, "already played a Bang! this turn")
		}
		if card.IsEquipment() || card.IsWeapon() {
			return fail(ErrDuplicateEquipment, "%s already in play", card.Type)
		}
		return fail(ErrInvalidCardPlay, "cannot play %s now", card.Type)
	}

	var res Result
	played := card.Type
	if capabilityOf(player).BangMissedInterchangeable &&
		card.Type == models.CardMissed && target != nil {
		// Calamity Janet fires her Missed! as a Bang! when she aims it. The
		// swap makes the card proactive, so the full turn gates apply.
		if g.CurrentPlayer() != player {
			return fail(ErrNotPlayerTurn, "not %s's turn", player.DisplayName())
		}
		if g.TurnPhase != TurnPlay || g.Pending != nil {
			return fail(ErrInvalidCardPlay, "cannot fire a Missed! as a Bang! now")
		}
		played = models.CardBang
	}

	switch played {
	case models.CardBang:
		res = g.playBang(card, player, target)
	case models.CardMissed:
		return fail(ErrInvalidCardPlay, "Missed! is only played in response to a shot")
	case models.CardBeer:
		res = g.playBeer(card, player)
	case models.CardCatBalou:
		res = g.playCatBalou(card, player, target)
	case models.CardPanic:
		res = g.playPanic(card, player, target)
	case models.CardStagecoach:
		res = g.playDrawCards(card, player, 2)
	case models.CardWellsFargo:
		res = g.playDrawCards(card, player, 3)
	case models.CardGeneralStore:
		res = g.playGeneralStore(card, player)
	case models.CardSaloon:
		res = g.playSaloon(card, player)
	case models.CardIndians:
		res = g.playIndians(card, player)
	case models.CardDuel:
		res = g.playDuel(card, player, target)
	case models.CardGatling:
		res = g.playGatling(card, player)
	case models.CardJail:
		res = g.playJail(card, player, target)
	case models.CardDynamite, models.CardBarrel, models.CardScope, models.CardMustang:
		res = g.playEquipment(card, player)
	case models.CardSchofield, models.CardRemington, models.CardRevCarabine,
		models.CardWinchester, models.CardVolcanic:
		res = g.playWeapon(card, player)
	default:
		return fail(ErrInvalidCardPlay, "unknown card type %s", card.Type)
	}

	if res.Success {
		g.emit(Event{Type: EventCardPlayed, PlayerID: player.ID, Card: card.Type, TargetID: targetID(target)})
		g.checkEmptyHandRefill(player)
		g.Touch()
	}
	return res
}

func targetID(p *models.Player) uuid.UUID {
	if p == nil {
		return uuid.Nil
	}
	return p.ID
}

// spendCard moves a played instant from hand to the discard pile.
func (g *GameState) spendCard(card *models.Card, player *models.Player) {
	player.RemoveCard(card.ID)
	g.discard(card)
}

func (g *GameState) playBang(card *models.Card, player, target *models.Player) Result {
	if g.BangPlayedThisTurn && !capabilityOf(player).UnlimitedBang && !playerHasVolcanic(player) {
		return fail(ErrBangLimit, "already played a Bang! this turn")
	}
	if target == nil || !target.IsAlive || target == player {
		return fail(ErrInvalidTarget, "Bang! needs a living target")
	}
	if !CanTarget(player, target, g.Players) {
		return fail(ErrInvalidDistance, "%s is out of range", target.DisplayName())
	}
	g.spendCard(card, player)
	g.BangPlayedThisTurn = true
	required := capabilityOf(player).CountersRequired
	if g.openShotReaction(player, target, models.CardBang, required, nil) {
		return Result{Success: true, Message: "Bang!", RequiresResponse: true, Target: target, ResponseCard: models.CardMissed}
	}
	return ok("Bang! deflected")
}

// openShotReaction opens a PendingReaction for a shot at target, running the
// barrel draw! first. Returns false when the barrel already cancelled the shot
// (or, for queued attacks, advances past it).
func (g *GameState) openShotReaction(attacker, target *models.Player, source models.CardType, required int, queue []uuid.UUID) bool {
	counters := 0
	if capabilityOf(target).InnateBarrel || target.HasEquipped(models.CardBarrel) {
		if g.drawCheck(target, func(c *models.Card) bool { return c.Suit == models.SuitHearts }) {
			counters++
		}
	}
	if counters >= required {
		if len(queue) > 0 {
			return g.advancePendingQueue(&Reaction{AttackerID: attacker.ID, Source: source, CountersRequired: required, Queue: queue})
		}
		return false
	}
	g.Pending = &Reaction{
		AttackerID:       attacker.ID,
		TargetID:         target.ID,
		Source:           source,
		CountersRequired: required,
		CountersPlayed:   counters,
		Queue:            queue,
	}
	return true
}

// drawCheck flips the top card for a "draw!" test. Lucky Duke flips two and
// the check passes if either is favorable. Flipped cards go to the discard.
func (g *GameState) drawCheck(p *models.Player, favorable func(*models.Card) bool) bool {
	flips := 1
	if capabilityOf(p).LuckyDraw {
		flips = 2
	}
	hit := false
	for i := 0; i < flips; i++ {
		c := g.drawFromDeck()
		if c == nil {
			break
		}
		g.discard(c)
		if favorable(c) {
			hit = true
		}
	}
	return hit
}

func (g *GameState) playBeer(card *models.Card, player *models.Player) Result {
	g.spendCard(card, player)
	player.Heal(1)
	g.emit(Event{Type: EventHeal, PlayerID: player.ID, Amount: 1})
	return ok("%s drinks a beer", player.DisplayName())
}

func (g *GameState) playCatBalou(card *models.Card, player, target *models.Player) Result {
	if target == nil || !target.IsAlive || target == player {
		return fail(ErrInvalidTarget, "Cat Balou needs another living player")
	}
	all := target.AllCards()
	if len(all) == 0 {
		return fail(ErrInsufficientCards, "%s has no cards", target.DisplayName())
	}
	g.spendCard(card, player)
	victimCard := all[rand.Intn(len(all))]
	g.removeCardFromPlayer(target, victimCard)
	g.discard(victimCard)
	g.checkEmptyHandRefill(target)
	return ok("%s forced %s to discard", player.DisplayName(), target.DisplayName())
}

func (g *GameState) playPanic(card *models.Card, player, target *models.Player) Result {
	if target == nil || !target.IsAlive || target == player {
		return fail(ErrInvalidTarget, "Panic! needs another living player")
	}
	if Distance(player, target, g.Players) != 1 {
		return fail(ErrInvalidDistance, "%s is not at distance 1", target.DisplayName())
	}
	all := target.AllCards()
	if len(all) == 0 {
		return fail(ErrInsufficientCards, "%s has no cards", target.DisplayName())
	}
	g.spendCard(card, player)
	stolen := all[rand.Intn(len(all))]
	g.removeCardFromPlayer(target, stolen)
	player.AddCard(stolen)
	g.checkEmptyHandRefill(target)
	return ok("%s stole a card from %s", player.DisplayName(), target.DisplayName())
}

// removeCardFromPlayer takes a specific card out of whichever zone holds it.
func (g *GameState) removeCardFromPlayer(p *models.Player, c *models.Card) {
	if p.RemoveCard(c.ID) != nil {
		return
	}
	if p.RemoveEquipment(c.ID) != nil {
		return
	}
	if p.Weapon != nil && p.Weapon.ID == c.ID {
		p.Weapon = nil
	}
}

func (g *GameState) playDrawCards(card *models.Card, player *models.Player, n int) Result {
	g.spendCard(card, player)
	drawn := 0
	for i := 0; i < n; i++ {
		c := g.drawFromDeck()
		if c == nil {
			break
		}
		player.AddCard(c)
		drawn++
	}
	g.emit(Event{Type: EventCardDrawn, PlayerID: player.ID, Amount: drawn})
	return ok("%s drew %d cards", player.DisplayName(), drawn)
}

// playGeneralStore reveals one card per living player (fewer if the deck runs
// out) and deals them out in seating order starting with the player, each seat
// taking the best remaining card by priority.
func (g *GameState) playGeneralStore(card *models.Card, player *models.Player) Result {
	g.spendCard(card, player)

	living := g.livingFrom(player)
	reveal := make([]*models.Card, 0, len(living))
	for range living {
		c := g.drawFromDeck()
		if c == nil {
			break
		}
		reveal = append(reveal, c)
	}

	for _, p := range living {
		if len(reveal) == 0 {
			break
		}
		best := 0
		for i, c := range reveal {
			if deck.Priority(c.Type) > deck.Priority(reveal[best].Type) {
				best = i
			}
		}
		p.AddCard(reveal[best])
		reveal = append(reveal[:best], reveal[best+1:]...)
	}
	return ok("general store opened by %s", player.DisplayName())
}

// livingFrom lists living players in seating order starting at p.
func (g *GameState) livingFrom(p *models.Player) []*models.Player {
	n := len(g.Players)
	start := p.Position
	out := make([]*models.Player, 0, n)
	for step := 0; step < n; step++ {
		q := g.Players[(start+step)%n]
		if q.IsAlive {
			out = append(out, q)
		}
	}
	return out
}

func (g *GameState) playSaloon(card *models.Card, player *models.Player) Result {
	g.spendCard(card, player)
	for _, p := range g.LivingPlayers() {
		if p.CurrentLife < p.MaxLife {
			p.Heal(1)
			g.emit(Event{Type: EventHeal, PlayerID: p.ID, Amount: 1})
		}
	}
	return ok("saloon round on %s", player.DisplayName())
}

func (g *GameState) playIndians(card *models.Card, player *models.Player) Result {
	g.spendCard(card, player)
	queue := g.otherLivingIDs(player)
	if len(queue) == 0 {
		return ok("nobody left to raid")
	}
	r := &Reaction{AttackerID: player.ID, Source: models.CardIndians, CountersRequired: 1, Queue: queue}
	if !g.advancePendingQueue(r) {
		return ok("the raid fizzled")
	}
	return Result{Success: true, Message: "Indians!", RequiresResponse: true, ResponseCard: models.CardBang}
}

func (g *GameState) playGatling(card *models.Card, player *models.Player) Result {
	g.spendCard(card, player)
	queue := g.otherLivingIDs(player)
	if len(queue) == 0 {
		return ok("nobody in the line of fire")
	}
	r := &Reaction{AttackerID: player.ID, Source: models.CardGatling, CountersRequired: 1, Queue: queue}
	if !g.advancePendingQueue(r) {
		return ok("every shot was deflected")
	}
	return Result{Success: true, Message: "Gatling!", RequiresResponse: true, ResponseCard: models.CardMissed}
}

func (g *GameState) otherLivingIDs(player *models.Player) []uuid.UUID {
	var out []uuid.UUID
	for _, p := range g.livingFrom(player) {
		if p != player {
			out = append(out, p.ID)
		}
	}
	return out
}

// advancePendingQueue points the reaction at the next living queued target,
// running per-target barrel checks for gatling. Returns false when the queue
// exhausted and the reaction closed.
func (g *GameState) advancePendingQueue(r *Reaction) bool {
	for len(r.Queue) > 0 {
		nextID := r.Queue[0]
		r.Queue = r.Queue[1:]
		target := g.PlayerByID(nextID)
		if target == nil || !target.IsAlive {
			continue
		}

		counters := 0
		if r.Source == models.CardGatling &&
			(capabilityOf(target).InnateBarrel || target.HasEquipped(models.CardBarrel)) {
			if g.drawCheck(target, func(c *models.Card) bool { return c.Suit == models.SuitHearts }) {
				counters++
			}
		}
		if counters >= r.CountersRequired {
			continue
		}

		r.TargetID = nextID
		r.CountersPlayed = counters
		g.Pending = r
		return true
	}
	g.Pending = nil
	return false
}

func (g *GameState) playDuel(card *models.Card, player, target *models.Player) Result {
	if target == nil || !target.IsAlive || target == player {
		return fail(ErrInvalidTarget, "a duel needs an opponent")
	}
	g.spendCard(card, player)
	g.Pending = &Reaction{
		AttackerID:       player.ID,
		TargetID:         target.ID,
		Source:           models.CardDuel,
		CountersRequired: 1,
	}
	return Result{Success: true, Message: "duel!", RequiresResponse: true, Target: target, ResponseCard: models.CardBang}
}

func (g *GameState) playJail(card *models.Card, player, target *models.Player) Result {
	if target == nil || !target.IsAlive || target == player {
		return fail(ErrInvalidTarget, "jail needs a living target")
	}
	if target.Role == models.RoleSheriff {
		return fail(ErrInvalidTarget, "the sheriff cannot be jailed")
	}
	if target.HasEquipped(models.CardJail) {
		return fail(ErrDuplicateEquipment, "%s is already in jail", target.DisplayName())
	}
	player.RemoveCard(card.ID)
	target.Equipment = append(target.Equipment, card)
	return ok("%s jailed %s", player.DisplayName(), target.DisplayName())
}

func (g *GameState) playEquipment(card *models.Card, player *models.Player) Result {
	if player.HasEquipped(card.Type) {
		return fail(ErrDuplicateEquipment, "%s already in play", card.Type)
	}
	player.RemoveCard(card.ID)
	player.Equipment = append(player.Equipment, card)
	return ok("%s put %s in play", player.DisplayName(), card.Type)
}

func (g *GameState) playWeapon(card *models.Card, player *models.Player) Result {
	if player.Weapon != nil && player.Weapon.Type == card.Type {
		return fail(ErrDuplicateEquipment, "%s already equipped", card.Type)
	}
	player.RemoveCard(card.ID)
	if player.Weapon != nil {
		g.discard(player.Weapon)
	}
	player.Weapon = card
	return ok("%s equipped a %s", player.DisplayName(), card.Type)
}

// Respond answers the pending reaction: either a counter card from the
// responder's hand or a decline that lets the effect land.
func (g *GameState) Respond(playerID uuid.UUID, cardID *uuid.UUID, accepted bool) Result {
	r := g.Pending
	if r == nil {
		return fail(ErrInvalidGameState, "nothing to respond to")
	}
	responder := g.PlayerByID(playerID)
	if responder == nil || r.TargetID != playerID {
		return fail(ErrInvalidTarget, "it is not this player's response")
	}
	attacker := g.PlayerByID(r.AttackerID)

	if accepted && cardID != nil {
		card := responder.CardInHand(*cardID)
		if card == nil {
			return fail(ErrInvalidCardPlay, "response card not in hand")
		}
		if !answersReaction(r.Source, card.Type, responder) {
			return fail(ErrInvalidCardPlay, "%s does not answer %s", card.Type, r.Source)
		}
		g.spendCard(card, responder)
		g.checkEmptyHandRefill(responder)
		res := g.resolveCounter(r, responder, attacker)
		g.Touch()
		return res
	}

	// Declined: the effect lands.
	res := g.resolveDecline(r, responder, attacker)
	g.Touch()
	return res
}

func (g *GameState) resolveCounter(r *Reaction, responder, attacker *models.Player) Result {
	switch r.Source {
	case models.CardBang:
		r.CountersPlayed++
		if r.CountersPlayed < r.CountersRequired {
			return Result{Success: true, Message: "one more Missed! needed", RequiresResponse: true, ResponseCard: models.CardMissed}
		}
		g.Pending = nil
		return ok("shot deflected")
	case models.CardGatling, models.CardIndians:
		if g.advancePendingQueue(r) {
			return Result{Success: true, Message: "next player must respond", RequiresResponse: true}
		}
		return ok("attack resolved")
	case models.CardDuel:
		// The Bang! lands; the other duelist must now answer.
		other := r.AttackerID
		r.AttackerID = r.TargetID
		r.TargetID = other
		return Result{Success: true, Message: "duel continues", RequiresResponse: true, ResponseCard: models.CardBang}
	}
	g.Pending = nil
	return fail(ErrInvalidGameState, "unknown reaction source %s", r.Source)
}

func (g *GameState) resolveDecline(r *Reaction, responder, attacker *models.Player) Result {
	switch r.Source {
	case models.CardBang:
		g.Pending = nil
		g.damagePlayer(responder, 1, attacker)
		return ok("the shot hit %s", responder.DisplayName())
	case models.CardGatling, models.CardIndians:
		g.damagePlayer(responder, 1, attacker)
		if g.Phase != PhaseGameOver && g.advancePendingQueue(r) {
			return Result{Success: true, Message: "next player must respond", RequiresResponse: true}
		}
		g.Pending = nil
		return ok("attack resolved")
	case models.CardDuel:
		g.Pending = nil
		g.damagePlayer(responder, 1, attacker)
		return ok("%s lost the duel", responder.DisplayName())
	}
	g.Pending = nil
	return fail(ErrInvalidGameState, "unknown reaction source %s", r.Source)
}

// damagePlayer applies damage with the on-damage character triggers and routes
// a death into the elimination handler. source is nil for dynamite and other
// unattributed damage.
func (g *GameState) damagePlayer(victim *models.Player, amount int, source *models.Player) {
	if amount <= 0 || !victim.IsAlive {
		return
	}
	victim.TakeDamage(amount)
	g.emit(Event{Type: EventDamage, PlayerID: targetID(source), TargetID: victim.ID, Amount: amount})

	if !victim.IsAlive {
		g.eliminate(victim, source)
		return
	}

	cap := capabilityOf(victim)
	if cap.DrawsOnDamage {
		for i := 0; i < amount; i++ {
			if c := g.drawFromDeck(); c != nil {
				victim.AddCard(c)
			}
		}
	}
	if cap.StealsFromDamager && source != nil && source.IsAlive {
		for i := 0; i < amount && len(source.Hand) > 0; i++ {
			stolen := source.Hand[rand.Intn(len(source.Hand))]
			source.RemoveCard(stolen.ID)
			victim.AddCard(stolen)
		}
		g.checkEmptyHandRefill(source)
	}
}

// checkEmptyHandRefill gives Suzy Lafayette her card the moment her hand
// empties.
func (g *GameState) checkEmptyHandRefill(p *models.Player) {
	if !p.IsAlive || p.HandSize() > 0 {
		return
	}
	if !capabilityOf(p).DrawsOnEmptyHand {
		return
	}
	if c := g.drawFromDeck(); c != nil {
		p.AddCard(c)
	}
}
