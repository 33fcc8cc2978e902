// internal/game/rules.go
package game

import "fmt"

// TableRules defines per-lobby options that modify how a game is run.
type TableRules struct {
	ForfeitOnDisconnect bool `json:"forfeitOnDisconnect"` // eliminate a player who drops; if false their seat waits for a rejoin
	TurnTimerSec        int  `json:"turnTimerSec"`        // seconds before a stalled player is force-resolved; 0 disables
	AllowCompactGames   bool `json:"allowCompactGames"`   // permit 2-3 player games for quick tables
}

// DefaultTableRules returns the rules a fresh lobby starts with.
func DefaultTableRules() TableRules {
	return TableRules{
		ForfeitOnDisconnect: false,
		TurnTimerSec:        30,
		AllowCompactGames:   false,
	}
}

// Update applies the provided rules on top of the current ones. Keys that are
// absent or nil keep their old value.
func (rules *TableRules) Update(newRules map[string]interface{}) error {
	assignBool := func(field *bool, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			b, ok := val.(bool)
			if !ok {
				return fmt.Errorf("invalid type for %s", key)
			}
			*field = b
		}
		return nil
	}

	assignInt := func(field *int, key string) error {
		if val, exists := newRules[key]; exists && val != nil {
			// JSON numbers decode as float64.
			switch v := val.(type) {
			case float64:
				*field = int(v)
			case int:
				*field = v
			default:
				return fmt.Errorf("invalid type for %s", key)
			}
			if *field < 0 {
				return fmt.Errorf("%s must be non-negative", key)
			}
		}
		return nil
	}

	if err := assignBool(&rules.ForfeitOnDisconnect, "forfeitOnDisconnect"); err != nil {
		return err
	}
	if err := assignBool(&rules.AllowCompactGames, "allowCompactGames"); err != nil {
		return err
	}
	if err := assignInt(&rules.TurnTimerSec, "turnTimerSec"); err != nil {
		return err
	}
	return nil
}

// ParseRules applies a rules map on top of current and returns the result.
func ParseRules(newRules map[string]interface{}, current TableRules) (TableRules, error) {
	rules := current
	err := rules.Update(newRules)
	return rules, err
}
