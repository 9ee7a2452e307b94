package auth

import "strings"

// Role is a portal privilege level. The set is closed: a role string that
// does not normalize to one of these constants fails every privilege check.
type Role string

const (
	RoleOperator Role = "operator"
	RoleEditor   Role = "editor"
	RoleAdmin    Role = "admin"
)

// roleRanks is the total order over valid roles. A higher rank carries every
// privilege of the ranks below it.
var roleRanks = map[Role]int{
	RoleOperator: 1,
	RoleEditor:   2,
	RoleAdmin:    3,
}

// NormalizeRole maps a raw claim string onto the Role enum, ignoring case and
// surrounding whitespace. ok is false for anything outside the closed set.
func NormalizeRole(raw string) (Role, bool) {
	role := Role(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := roleRanks[role]; !ok {
		return "", false
	}
	return role, true
}

// Rank returns the ordinal privilege level of a role. ok is false for an
// unrecognized role; callers must treat that as denial, never as rank zero.
func Rank(role Role) (int, bool) {
	rank, ok := roleRanks[role]
	return rank, ok
}

// AtLeast reports whether role carries at least the privilege of min.
//
// This is the single privilege predicate shared by the access decision engine
// and the session view guard. It denies whenever either side is unrecognized.
func AtLeast(role, min Role) bool {
	r, ok := Rank(role)
	if !ok {
		return false
	}
	m, ok := Rank(min)
	if !ok {
		return false
	}
	return r >= m
}
