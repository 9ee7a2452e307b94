package session

import (
	"portaldesa.com/gate/auth"
)

// Requirement specifies what a view needs before it renders. MinRole gates
// on the role ranking; AllowedRoles gates on membership. An empty
// Requirement admits any authenticated identity.
type Requirement struct {
	MinRole      auth.Role
	AllowedRoles []auth.Role
}

// RequireRole builds a minimum-role requirement.
func RequireRole(min auth.Role) Requirement {
	return Requirement{MinRole: min}
}

// RequireAnyOf builds a membership requirement.
func RequireAnyOf(roles ...auth.Role) Requirement {
	return Requirement{AllowedRoles: roles}
}

// RequireAuth admits any authenticated identity.
func RequireAuth() Requirement {
	return Requirement{}
}

// Verdict is the view guard's rendering decision.
type Verdict int

const (
	// VerdictPending means the session is still loading; render a neutral
	// placeholder rather than guessing either way.
	VerdictPending Verdict = iota
	VerdictShow
	VerdictHide
)

// Evaluate derives a rendering verdict from the session snapshot. It is a
// UX optimization, not a security boundary: it mirrors the access decision
// engine's role check through the same auth.AtLeast predicate, so the two
// cannot drift, but the real enforcement happens before any page is served.
func Evaluate(snap Snapshot, req Requirement) Verdict {
	if snap.Status == StatusLoading {
		return VerdictPending
	}
	if snap.Identity == nil {
		return VerdictHide
	}

	role, ok := auth.NormalizeRole(snap.Identity.Role)
	if !ok {
		return VerdictHide
	}

	if len(req.AllowedRoles) > 0 {
		for _, allowed := range req.AllowedRoles {
			if role == allowed {
				return VerdictShow
			}
		}
		return VerdictHide
	}

	if req.MinRole != "" && !auth.AtLeast(role, req.MinRole) {
		return VerdictHide
	}

	return VerdictShow
}

// Allowed reports whether the view may render now. Pending counts as not
// allowed; use Evaluate when the placeholder state matters.
func Allowed(snap Snapshot, req Requirement) bool {
	return Evaluate(snap, req) == VerdictShow
}
