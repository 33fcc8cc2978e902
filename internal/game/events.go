// internal/game/events.go
package game

import (
	"time"

	"github.com/google/uuid"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// EventType enumerates the domain events the engine emits to its observers.
type EventType string

const (
	EventCardPlayed       EventType = "card_played"
	EventCardDrawn        EventType = "card_drawn"
	EventDamage           EventType = "damage"
	EventHeal             EventType = "heal"
	EventPlayerEliminated EventType = "player_eliminated"
	EventTurnEnded        EventType = "turn_ended"
	EventGameEnded        EventType = "game_ended"
)

// Event is one domain occurrence. GameID and At are stamped by the state on
// emit; the remaining fields are set by the call site that knows them.
type Event struct {
	Type     EventType       `json:"type"`
	GameID   uuid.UUID       `json:"gameId"`
	PlayerID uuid.UUID       `json:"playerId,omitempty"`
	TargetID uuid.UUID       `json:"targetId,omitempty"`
	Card     models.CardType `json:"card,omitempty"`
	Amount   int             `json:"amount,omitempty"`
	Winner   string          `json:"winner,omitempty"`
	At       time.Time       `json:"at"`
}

// Observer receives domain events as they happen. Implementations must not
// call back into the engine; they run inline under the game lock.
type Observer interface {
	Notify(ev Event)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(ev Event)

func (f ObserverFunc) Notify(ev Event) { f(ev) }
