// internal/protocol/checksum.go
package protocol

import (
	"fmt"
	"hash/fnv"

	"github.com/gunsmokehq/gunsmoke/internal/game"
)

// Checksum digests the fields of a state that any divergence must touch:
// whose turn it is, the phases, the head counts, and the logical timestamp.
// It is a cheap drift detector, not a cryptographic commitment.
func Checksum(state *game.GameState) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%s|%d|%d|%.6f",
		state.CurrentPlayerIndex,
		state.Phase,
		state.TurnPhase,
		len(state.Players),
		len(state.Deck),
		state.LastUpdate,
	)
	return fmt.Sprintf("%016x", h.Sum64())
}

// IsNewerThan implements the last-writer-wins rule: a snapshot replaces the
// local state only when its timestamp is strictly greater.
func IsNewerThan(remote, local *game.GameState) bool {
	return remote.LastUpdate > local.LastUpdate
}

// Validate rejects snapshots that cannot belong to a legal game: bad player
// counts, an out-of-range turn index, lives outside [0, max], or cards
// missing from (or added to) the 80-card set.
func Validate(state *game.GameState) error {
	n := len(state.Players)
	if n < 4 || n > 7 {
		return fmt.Errorf("invalid player count %d", n)
	}
	if state.CurrentPlayerIndex < 0 || state.CurrentPlayerIndex >= n {
		return fmt.Errorf("current player index %d out of range", state.CurrentPlayerIndex)
	}
	for _, p := range state.Players {
		if p.CurrentLife < 0 || p.CurrentLife > p.MaxLife {
			return fmt.Errorf("player %s has life %d outside [0,%d]", p.ID, p.CurrentLife, p.MaxLife)
		}
	}
	if total := state.CountCards(); total != 80 {
		return fmt.Errorf("card count %d, want 80", total)
	}
	return nil
}
