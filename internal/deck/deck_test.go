// internal/deck/deck_test.go
package deck

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gunsmokehq/gunsmoke/internal/models"
)

func TestNewDeckSize(t *testing.T) {
	cards := New()
	require.Len(t, cards, 80)

	seen := map[string]bool{}
	for _, c := range cards {
		assert.False(t, seen[c.ID.String()], "duplicate card ID")
		seen[c.ID.String()] = true
	}
}

func TestNewDeckComposition(t *testing.T) {
	counts := map[models.CardType]int{}
	for _, c := range New() {
		counts[c.Type]++
	}

	expected := map[models.CardType]int{
		models.CardBang:         25,
		models.CardMissed:       12,
		models.CardBeer:         6,
		models.CardSchofield:    3,
		models.CardRemington:    1,
		models.CardRevCarabine:  1,
		models.CardWinchester:   1,
		models.CardVolcanic:     2,
		models.CardBarrel:       2,
		models.CardScope:        1,
		models.CardMustang:      2,
		models.CardCatBalou:     4,
		models.CardPanic:        4,
		models.CardStagecoach:   2,
		models.CardWellsFargo:   1,
		models.CardGeneralStore: 2,
		models.CardSaloon:       1,
		models.CardIndians:      2,
		models.CardDuel:         3,
		models.CardGatling:      1,
		models.CardDynamite:     1,
		models.CardJail:         3,
	}
	assert.Equal(t, expected, counts)
}

func TestWeaponRanges(t *testing.T) {
	want := map[models.CardType]int{
		models.CardVolcanic:    1,
		models.CardSchofield:   2,
		models.CardRemington:   3,
		models.CardRevCarabine: 4,
		models.CardWinchester:  5,
	}
	for _, c := range New() {
		if r, ok := want[c.Type]; ok {
			require.NotNil(t, c.Range, "%s missing range", c.Type)
			assert.Equal(t, r, *c.Range)
			assert.Equal(t, models.ColorGreen, c.Color)
		} else {
			assert.Nil(t, c.Range, "%s should not have a range", c.Type)
		}
	}
}

func TestCardColors(t *testing.T) {
	for _, c := range New() {
		switch c.Type {
		case models.CardBarrel, models.CardScope, models.CardMustang,
			models.CardDynamite, models.CardJail:
			assert.Equal(t, models.ColorBlue, c.Color, string(c.Type))
		case models.CardSchofield, models.CardRemington, models.CardRevCarabine,
			models.CardWinchester, models.CardVolcanic:
			assert.Equal(t, models.ColorGreen, c.Color, string(c.Type))
		default:
			assert.Equal(t, models.ColorBrown, c.Color, string(c.Type))
		}
	}
}

func TestCharacters(t *testing.T) {
	chars := Characters()
	require.Len(t, chars, models.NumCharacters)

	lives := map[string]int{}
	for i, ch := range chars {
		assert.Equal(t, models.CharacterID(i), ch.ID, "roster must be in enum order")
		assert.NotEmpty(t, ch.Name)
		assert.NotEmpty(t, ch.Ability)
		lives[ch.Name] = ch.LifePoints
	}
	assert.Equal(t, 3, lives["El Gringo"])
	assert.Equal(t, 3, lives["Paul Regret"])
	assert.Equal(t, 4, lives["Willy the Kid"])
}

func TestPriorityOrdering(t *testing.T) {
	assert.Greater(t, Priority(models.CardBang), Priority(models.CardMissed))
	assert.Greater(t, Priority(models.CardMissed), Priority(models.CardBeer))
	assert.Greater(t, Priority(models.CardBeer), Priority(models.CardGatling))
	assert.Equal(t, Priority(models.CardCatBalou), Priority(models.CardPanic))
	assert.Equal(t, 1, Priority(models.CardDynamite))
}
