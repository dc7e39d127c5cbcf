package authz

// Role is a user's permission level. Four roles form an ordered ladder;
// "relatives" sits outside it and only grants location-history visibility.
type Role string

const (
	RoleViewer    Role = "viewer"
	RoleEditor    Role = "editor"
	RoleAdmin     Role = "admin"
	RoleOwner     Role = "owner"
	RoleRelatives Role = "relatives"
)

// roleLevels is the single source of truth for the ladder ordering.
// Roles absent from the map (including "relatives") rank below viewer.
var roleLevels = map[Role]int{
	RoleViewer: 0,
	RoleEditor: 1,
	RoleAdmin:  2,
	RoleOwner:  3,
}

// Level returns a role's position on the ladder, or -1 for roles that are
// not on it (relatives, unknown values, or no role at all).
func Level(role Role) int {
	level, ok := roleLevels[role]
	if !ok {
		return -1
	}
	return level
}

// Valid reports whether role is one of the five assignable roles.
func Valid(role Role) bool {
	switch role {
	case RoleViewer, RoleEditor, RoleAdmin, RoleOwner, RoleRelatives:
		return true
	}
	return false
}

// OnLadder reports whether role is one of the four ordered ladder roles.
func OnLadder(role Role) bool {
	_, ok := roleLevels[role]
	return ok
}
