// internal/stats/recorder.go
//
// Package stats bridges the engine's domain events to the outside world: each
// event is streamed onto the Redis historian queue, and a finished game is
// written to postgres. The engine knows nothing about either sink; it only
// sees the Observer interface.
package stats

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gunsmokehq/gunsmoke/internal/cache"
	"github.com/gunsmokehq/gunsmoke/internal/database"
	"github.com/gunsmokehq/gunsmoke/internal/game"
)

// Recorder implements game.Observer by forwarding events to the Redis queue.
// Notify runs under the game lock, so the publish happens on a goroutine.
type Recorder struct {
	Logger *logrus.Logger
}

func NewRecorder(logger *logrus.Logger) *Recorder {
	return &Recorder{Logger: logger}
}

// Notify forwards one domain event to the historian queue.
func (r *Recorder) Notify(ev game.Event) {
	record := cache.GameEventRecord{
		GameID:    ev.GameID,
		EventType: string(ev.Type),
		ActorID:   ev.PlayerID,
		TargetID:  ev.TargetID,
		Card:      string(ev.Card),
		Amount:    ev.Amount,
		Winner:    ev.Winner,
		Timestamp: ev.At.UnixMilli(),
	}
	go func() {
		if cache.Rdb == nil {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := cache.PublishGameEvent(ctx, record); err != nil && r.Logger != nil {
			r.Logger.Warnf("failed to publish %s event for game %s: %v", ev.Type, ev.GameID, err)
		}
	}()
}

// RecordMatch persists the final outcome of a game. Call it once, off the
// game lock, when the game ends.
func (r *Recorder) RecordMatch(state *game.GameState) {
	if database.DB == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := database.RecordMatchAndResults(ctx, state); err != nil && r.Logger != nil {
		r.Logger.Errorf("failed to record match %s: %v", state.ID, err)
	}
}
