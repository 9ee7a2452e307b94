package auth

import (
	"log/slog"
	"net/url"
)

// OutcomeKind tags an access decision. Exactly one variant is produced per
// decision; the engine never silently allows on a verification error.
type OutcomeKind int

const (
	OutcomeAllow OutcomeKind = iota
	OutcomeDenyNoCredential
	OutcomeDenyInvalidCredential
	OutcomeDenyInsufficientRole
)

// Outcome is the terminal result of a single access decision.
type Outcome struct {
	Kind OutcomeKind

	// Allow fields.
	Claims  *Claims
	Headers map[string]string

	// Deny fields. RedirectTo is the concrete target the caller must send
	// the client to. ClearCredential instructs the caller to drop the stored
	// credential because it is poisoned.
	RedirectTo      string
	ClearCredential bool
	ActualRole      Role // insufficient-role denials; empty when unrecognized
	RequiredRole    Role
}

// EnginePaths are the redirect targets for denied requests.
type EnginePaths struct {
	Login        string
	Unauthorized string
	RoleFallback string
}

// DefaultEnginePaths returns the portal's standard deny targets. The role
// fallback is the administrative landing area the lowest role may manage.
func DefaultEnginePaths() EnginePaths {
	return EnginePaths{
		Login:        "/auth/login",
		Unauthorized: "/unauthorized",
		RoleFallback: "/admin/services",
	}
}

// Engine composes the route classifier and credential verifier into one
// access decision per request. A decision is a pure function of the path,
// the credential and the clock; concurrent decisions share no mutable state.
type Engine struct {
	rules  *RuleSet
	tokens *TokenService
	paths  EnginePaths
	logger *slog.Logger
}

// NewEngine creates an access decision engine.
func NewEngine(rules *RuleSet, tokens *TokenService, paths EnginePaths, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		rules:  rules,
		tokens: tokens,
		paths:  paths,
		logger: logger,
	}
}

// Rules exposes the classifier, so the enforcement boundary can short-circuit
// excluded paths before deciding.
func (e *Engine) Rules() *RuleSet {
	return e.rules
}

// Decide classifies the path, verifies the credential if the tier demands
// one, and resolves exactly one outcome. An empty token means no credential
// was presented.
func (e *Engine) Decide(path, token string) Outcome {
	if e.rules.Excluded(path) {
		return Outcome{Kind: OutcomeAllow}
	}

	tier := e.rules.Classify(path)
	if tier.Kind == TierPublic {
		// Public paths skip verification entirely.
		return Outcome{Kind: OutcomeAllow}
	}

	if token == "" {
		return Outcome{
			Kind:       OutcomeDenyNoCredential,
			RedirectTo: e.loginRedirect(path),
		}
	}

	claims, err := e.tokens.Verify(token)
	if err != nil {
		e.logger.Warn("credential rejected", "path", path, "reason", reasonTag(err))
		return Outcome{
			Kind:            OutcomeDenyInvalidCredential,
			RedirectTo:      e.loginRedirect(path),
			ClearCredential: true,
		}
	}

	role, ok := NormalizeRole(claims.Role)
	if !ok {
		// Closed world: an unrecognized role is denied, identically to an
		// insufficient one.
		e.logger.Warn("unrecognized role in credential", "path", path, "role", claims.Role)
		return Outcome{
			Kind:         OutcomeDenyInsufficientRole,
			RedirectTo:   e.unauthorizedRedirect(""),
			RequiredRole: requiredFor(tier),
		}
	}

	if tier.Kind == TierRoleGated && !AtLeast(role, tier.MinRole) {
		return e.denyInsufficient(path, role, tier.MinRole)
	}

	return Outcome{
		Kind:    OutcomeAllow,
		Claims:  claims,
		Headers: claims.IdentityHeaders(role),
	}
}

// denyInsufficient resolves the redirect for a valid-but-underprivileged
// caller. The lowest valid role denied inside the administrative area is
// downgraded to the landing sub-area it may manage; every other case goes to
// the generic unauthorized page, which displays the caller's actual role.
func (e *Engine) denyInsufficient(path string, actual, required Role) Outcome {
	out := Outcome{
		Kind:         OutcomeDenyInsufficientRole,
		ActualRole:   actual,
		RequiredRole: required,
	}
	if actual == e.rules.AdminFloor() && e.rules.UnderAdmin(path) {
		out.RedirectTo = e.paths.RoleFallback
	} else {
		out.RedirectTo = e.unauthorizedRedirect(actual)
	}
	return out
}

// loginRedirect preserves the original path as the post-login return target.
func (e *Engine) loginRedirect(path string) string {
	return e.paths.Login + "?redirect=" + url.QueryEscape(normalizePath(path))
}

// unauthorizedRedirect carries the caller's actual role, when known, so the
// unauthorized page can show it.
func (e *Engine) unauthorizedRedirect(role Role) string {
	if role == "" {
		return e.paths.Unauthorized
	}
	return e.paths.Unauthorized + "?role=" + url.QueryEscape(string(role))
}

// requiredFor names the role a tier demands, for denial diagnostics.
func requiredFor(tier Tier) Role {
	if tier.Kind == TierRoleGated {
		return tier.MinRole
	}
	return RoleOperator
}

// reasonTag extracts the stable taxonomy tag for logging without exposing
// library error text.
func reasonTag(err error) string {
	if authErr, ok := err.(*AuthError); ok {
		return authErr.Type
	}
	return "INVALID"
}
