package models

import "github.com/google/uuid"

type User struct {
	ID       uuid.UUID `json:"id"`
	Email    string    `json:"email"`
	Password string    `json:"password,omitempty"`
	Username string    `json:"username"`

	IsEphemeral bool `json:"is_ephemeral"`
	IsAdmin     bool `json:"is_admin"`

	// Lifetime results, split by the side the player won on.
	GamesPlayed    int `json:"games_played"`
	GamesWon       int `json:"games_won"`
	WinsAsLaw      int `json:"wins_as_law"`
	WinsAsOutlaw   int `json:"wins_as_outlaw"`
	WinsAsRenegade int `json:"wins_as_renegade"`
}
