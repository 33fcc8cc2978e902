// internal/game/errors.go
package game

import (
	"fmt"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// ErrorKind classifies engine failures so callers can react without string
// matching.
type ErrorKind string

const (
	ErrInvalidTarget      ErrorKind = "invalid_target"
	ErrInvalidCardPlay    ErrorKind = "invalid_card_play"
	ErrNotPlayerTurn      ErrorKind = "not_player_turn"
	ErrBangLimit          ErrorKind = "bang_limit"
	ErrDuplicateEquipment ErrorKind = "duplicate_equipment"
	ErrInsufficientCards  ErrorKind = "insufficient_cards"
	ErrDeckEmpty          ErrorKind = "deck_empty"
	ErrInvalidDistance    ErrorKind = "invalid_distance"
	ErrInvalidGameState   ErrorKind = "invalid_game_state"
	ErrInvalidPlayerCount ErrorKind = "invalid_player_count"
)

// GameError is a typed engine failure. The engine reports it as data inside a
// Result rather than aborting; callers decide whether to surface it.
type GameError struct {
	Kind    ErrorKind
	Message string
}

func (e *GameError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newError(kind ErrorKind, format string, args ...interface{}) *GameError {
	return &GameError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Result reports the outcome of a card play or response. RequiresResponse
// means a PendingReaction was opened and the turn cannot advance until the
// target answers.
type Result struct {
	Success          bool           `json:"success"`
	Message          string         `json:"message"`
	RequiresResponse bool           `json:"requiresResponse"`
	Target           *models.Player `json:"-"`
	ResponseCard     models.CardType `json:"responseCard,omitempty"`
	Err              *GameError     `json:"-"`
}

func ok(format string, args ...interface{}) Result {
	return Result{Success: true, Message: fmt.Sprintf(format, args...)}
}

func fail(kind ErrorKind, format string, args ...interface{}) Result {
	e := newError(kind, format, args...)
	return Result{Success: false, Message: e.Message, Err: e}
}
