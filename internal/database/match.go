// internal/database/match.go
package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/gunsmokehq/gunsmoke/internal/game"
	"github.com/gunsmokehq/gunsmoke/internal/models"
)

// RecordMatchAndResults persists a finished game: the match row, one result
// row per seat, and the per-user lifetime counters. A player is credited with
// the win when their role's side took the game (sheriff and deputies win
// together).
func RecordMatchAndResults(ctx context.Context, state *game.GameState) error {
	if state.Winner == nil {
		return fmt.Errorf("game %s has no winner to record", state.ID)
	}
	winner := *state.Winner

	return pgx.BeginTxFunc(ctx, DB, pgx.TxOptions{}, func(tx pgx.Tx) error {
		upsertMatch := `
			INSERT INTO matches (id, lobby_id, winner_role, status)
			VALUES ($1, $2, $3, 'completed')
			ON CONFLICT (id) DO UPDATE SET winner_role = $3, status = 'completed'
		`
		if _, err := tx.Exec(ctx, upsertMatch, state.ID, state.LobbyID, string(winner)); err != nil {
			return err
		}

		for _, p := range state.Players {
			won := sideWon(p.Role, winner)
			characterName := ""
			if p.Character != nil {
				characterName = p.Character.Name
			}

			insertResult := `
				INSERT INTO match_results (match_id, player_id, role, character_name, did_win, survived)
				VALUES ($1, $2, $3, $4, $5, $6)
				ON CONFLICT (match_id, player_id)
				DO UPDATE SET role=$3, character_name=$4, did_win=$5, survived=$6
			`
			if _, err := tx.Exec(ctx, insertResult,
				state.ID, p.ID, string(p.Role), characterName, won, p.IsAlive,
			); err != nil {
				return err
			}

			winColumn := ""
			switch {
			case won && (p.Role == models.RoleSheriff || p.Role == models.RoleDeputy):
				winColumn = "wins_as_law"
			case won && p.Role == models.RoleOutlaw:
				winColumn = "wins_as_outlaw"
			case won && p.Role == models.RoleRenegade:
				winColumn = "wins_as_renegade"
			}

			updateUser := `UPDATE users SET games_played = games_played + 1`
			if won {
				updateUser += `, games_won = games_won + 1, ` + winColumn + ` = ` + winColumn + ` + 1`
			}
			updateUser += ` WHERE id = $1`
			if _, err := tx.Exec(ctx, updateUser, p.ID); err != nil {
				return err
			}
		}
		return nil
	})
}

// sideWon maps a seat's role onto the winning side.
func sideWon(role, winner models.Role) bool {
	switch winner {
	case models.RoleSheriff:
		return role == models.RoleSheriff || role == models.RoleDeputy
	case models.RoleOutlaw:
		return role == models.RoleOutlaw
	case models.RoleRenegade:
		return role == models.RoleRenegade
	}
	return false
}
