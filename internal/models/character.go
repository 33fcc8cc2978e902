// internal/models/character.go
package models

// CharacterID enumerates the sixteen playable characters. Keeping the set
// closed lets the engine's ability table be exhaustively checked.
type CharacterID int

const (
	CharBartCassidy CharacterID = iota
	CharBlackJack
	CharCalamityJanet
	CharElGringo
	CharJesseJones
	CharJourdonnais
	CharKitCarlson
	CharLuckyDuke
	CharPaulRegret
	CharPedroRamirez
	CharRoseDoolan
	CharSidKetchum
	CharSlabTheKiller
	CharSuzyLafayette
	CharVultureSam
	CharWillyTheKid

	NumCharacters = int(CharWillyTheKid) + 1
)

// Character is an immutable character definition. The ability text is
// descriptive only; the behavior lives in the engine, keyed by ID.
type Character struct {
	ID         CharacterID `json:"id"`
	Name       string      `json:"name"`
	LifePoints int         `json:"lifePoints"`
	Ability    string      `json:"ability"`
}
