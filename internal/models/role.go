// internal/models/role.go
package models

// Role is a player's hidden (or, for the sheriff, public) allegiance.
type Role string

const (
	RoleSheriff  Role = "sheriff"
	RoleDeputy   Role = "deputy"
	RoleOutlaw   Role = "outlaw"
	RoleRenegade Role = "renegade"
)

// Objective returns the win condition text shown to the player holding the role.
func (r Role) Objective() string {
	switch r {
	case RoleSheriff:
		return "Eliminate all Outlaws and Renegades"
	case RoleDeputy:
		return "Help the Sheriff win"
	case RoleOutlaw:
		return "Kill the Sheriff"
	case RoleRenegade:
		return "Be the last player standing"
	default:
		return ""
	}
}

// RolesFor returns the role distribution for a given player count. Counts of
// 2 and 3 are reduced testing setups; live games are validated to 4-7 players.
func RolesFor(playerCount int) []Role {
	switch playerCount {
	case 2:
		return []Role{RoleSheriff, RoleOutlaw}
	case 3:
		return []Role{RoleSheriff, RoleRenegade, RoleOutlaw}
	case 4:
		return []Role{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw}
	case 5:
		return []Role{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw, RoleDeputy}
	case 6:
		return []Role{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw, RoleOutlaw, RoleDeputy}
	case 7:
		return []Role{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw, RoleOutlaw, RoleDeputy, RoleDeputy}
	default:
		return []Role{RoleSheriff, RoleRenegade, RoleOutlaw, RoleOutlaw}
	}
}
