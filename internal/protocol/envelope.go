// internal/protocol/envelope.go
//
// Package protocol defines the wire format games exchange over websockets:
// a small envelope wrapping typed payloads, a state checksum for drift
// detection, and the last-writer-wins merge rule for full state snapshots.
package protocol

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MessageKind discriminates envelope payloads.
type MessageKind string

const (
	KindGameState    MessageKind = "gameState"
	KindPlayCard     MessageKind = "playCard"
	KindResponseCard MessageKind = "responseCard"
	KindEndTurn      MessageKind = "endTurn"
	KindChat         MessageKind = "chat"
)

// Envelope is the outer frame of every message. Data holds the kind-specific
// payload still encoded; Timestamp is unix seconds with fractional precision,
// stamped by the sender.
type Envelope struct {
	Kind      MessageKind     `json:"kind"`
	Data      json.RawMessage `json:"data"`
	Timestamp float64         `json:"timestamp"`
	PlayerID  string          `json:"playerId"`
}

// NewEnvelope wraps a payload, stamping the current time. Returns an error
// when the payload does not encode.
func NewEnvelope(kind MessageKind, playerID uuid.UUID, payload interface{}) (*Envelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", kind, err)
	}
	return &Envelope{
		Kind:      kind,
		Data:      data,
		Timestamp: float64(time.Now().UnixNano()) / 1e9,
		PlayerID:  playerID.String(),
	}, nil
}

// Decode unmarshals the payload into out.
func (e *Envelope) Decode(out interface{}) error {
	if err := json.Unmarshal(e.Data, out); err != nil {
		return fmt.Errorf("decode %s payload: %w", e.Kind, err)
	}
	return nil
}

// PlayCardMessage asks the engine to play a card. StateChecksum carries the
// sender's view of the state so receivers can spot drift before applying.
type PlayCardMessage struct {
	CardID         uuid.UUID  `json:"cardId"`
	TargetPlayerID *uuid.UUID `json:"targetPlayerId,omitempty"`
	StateChecksum  string     `json:"stateChecksum,omitempty"`
}

// ResponseCardMessage answers a pending reaction. A nil CardID with
// Accepted=false is a decline.
type ResponseCardMessage struct {
	CardID             *uuid.UUID `json:"cardId,omitempty"`
	Accepted           bool       `json:"accepted"`
	ResponseToPlayerID uuid.UUID  `json:"responseToPlayerId"`
}

// EndTurnMessage ends the sender's turn, discarding the listed cards first.
type EndTurnMessage struct {
	PlayerID       uuid.UUID   `json:"playerId"`
	DiscardedCards []uuid.UUID `json:"discardedCards,omitempty"`
}

// ChatMessage is a table chat line.
type ChatMessage struct {
	Message    string `json:"message"`
	SenderName string `json:"senderName"`
}
