package auth

import (
	"regexp"
	"sort"
	"strings"
)

// TierKind is the protection level a path classifies to.
type TierKind int

const (
	TierPublic TierKind = iota
	TierAuthenticated
	TierRoleGated
)

// Tier is the classification result. MinRole is meaningful only for
// TierRoleGated.
type Tier struct {
	Kind    TierKind
	MinRole Role
}

// RoleRule gates a path family under the administrative prefix with a
// minimum role stricter than the area floor.
type RoleRule struct {
	Prefix  string
	MinRole Role
}

// RuleSet classifies request paths. Evaluation order is fixed: excluded
// bypass, administrative sub-rules (most specific prefix first), the
// administrative floor, authenticated families, the public set, and an
// explicit public default. Every path classifies to exactly one tier.
type RuleSet struct {
	excludedPrefixes []string
	excludedExact    map[string]struct{}

	publicExact    map[string]struct{}
	publicPatterns []*regexp.Regexp

	authenticated []string

	adminPrefix string
	adminFloor  Role
	adminRules  []RoleRule
}

// NewRuleSet builds a classifier. Administrative sub-rules are ordered by
// descending prefix length so the most specific rule wins regardless of the
// order they were declared in.
func NewRuleSet(adminPrefix string, adminFloor Role, adminRules []RoleRule) *RuleSet {
	rules := append([]RoleRule(nil), adminRules...)
	sort.SliceStable(rules, func(i, j int) bool {
		return len(rules[i].Prefix) > len(rules[j].Prefix)
	})
	return &RuleSet{
		excludedExact: make(map[string]struct{}),
		publicExact:   make(map[string]struct{}),
		adminPrefix:   adminPrefix,
		adminFloor:    adminFloor,
		adminRules:    rules,
	}
}

// DefaultRules is the portal's pinned route table. Nothing here is implicit:
// unmatched paths are public because the portal is a public content site, and
// the administrative family rule is itself the total default for its prefix.
func DefaultRules() *RuleSet {
	rs := NewRuleSet("/admin", RoleOperator, []RoleRule{
		{Prefix: "/admin/posts", MinRole: RoleEditor},
		{Prefix: "/admin/events", MinRole: RoleEditor},
		{Prefix: "/admin/umkm", MinRole: RoleEditor},
		{Prefix: "/admin/users", MinRole: RoleAdmin},
	})
	rs.ExcludePrefixes("/assets", "/static", "/api")
	rs.ExcludeExact("/favicon.ico")
	rs.Public("/", "/auth/login", "/posts", "/events", "/umkm", "/contact", "/unauthorized")
	rs.PublicSlug("/posts", "/events", "/umkm")
	rs.Authenticated("/profile")
	return rs
}

// ExcludePrefixes marks path families that bypass authorization entirely:
// assets, the backend API proxy and framework internals. The backend enforces
// its own authorization independently.
func (rs *RuleSet) ExcludePrefixes(prefixes ...string) {
	rs.excludedPrefixes = append(rs.excludedPrefixes, prefixes...)
}

// ExcludeExact marks single paths (favicon and friends) that bypass
// authorization entirely.
func (rs *RuleSet) ExcludeExact(paths ...string) {
	for _, p := range paths {
		rs.excludedExact[p] = struct{}{}
	}
}

// Public adds exact literal paths to the public set.
func (rs *RuleSet) Public(paths ...string) {
	for _, p := range paths {
		rs.publicExact[p] = struct{}{}
	}
}

// PublicSlug adds public detail-page families with exactly one dynamic
// segment, e.g. "/posts" admits "/posts/my-slug". Matching requires the
// segment boundary, so "/posts-archive" never collides with "/posts".
func (rs *RuleSet) PublicSlug(bases ...string) {
	for _, base := range bases {
		pattern := "^" + regexp.QuoteMeta(base) + "/[^/]+$"
		rs.publicPatterns = append(rs.publicPatterns, regexp.MustCompile(pattern))
	}
}

// Authenticated adds path families that require any valid role.
func (rs *RuleSet) Authenticated(prefixes ...string) {
	rs.authenticated = append(rs.authenticated, prefixes...)
}

// Excluded reports whether a path bypasses the authorization engine.
func (rs *RuleSet) Excluded(path string) bool {
	path = normalizePath(path)
	if _, ok := rs.excludedExact[path]; ok {
		return true
	}
	for _, prefix := range rs.excludedPrefixes {
		if pathWithinPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// UnderAdmin reports whether a path falls in the administrative family.
func (rs *RuleSet) UnderAdmin(path string) bool {
	return pathWithinPrefix(normalizePath(path), rs.adminPrefix)
}

// AdminFloor is the minimum role required to enter the administrative area.
func (rs *RuleSet) AdminFloor() Role {
	return rs.adminFloor
}

// Classify maps a request path to its protection tier. Query and fragment
// are stripped before matching. The result is total: every path yields
// exactly one tier, never "unknown".
func (rs *RuleSet) Classify(path string) Tier {
	path = normalizePath(path)

	if pathWithinPrefix(path, rs.adminPrefix) {
		for _, rule := range rs.adminRules {
			if pathWithinPrefix(path, rule.Prefix) {
				return Tier{Kind: TierRoleGated, MinRole: rule.MinRole}
			}
		}
		return Tier{Kind: TierRoleGated, MinRole: rs.adminFloor}
	}

	for _, prefix := range rs.authenticated {
		if pathWithinPrefix(path, prefix) {
			return Tier{Kind: TierAuthenticated}
		}
	}

	if _, ok := rs.publicExact[path]; ok {
		return Tier{Kind: TierPublic}
	}
	for _, pattern := range rs.publicPatterns {
		if pattern.MatchString(path) {
			return Tier{Kind: TierPublic}
		}
	}

	// Explicit default: unmatched paths outside the families above are
	// public content pages.
	return Tier{Kind: TierPublic}
}

// normalizePath strips the query and fragment from a request target.
func normalizePath(path string) string {
	if i := strings.IndexAny(path, "?#"); i >= 0 {
		path = path[:i]
	}
	if path == "" {
		return "/"
	}
	return path
}

// pathWithinPrefix matches a path prefix on segment boundaries only:
// "/posts" covers "/posts" and "/posts/x" but never "/posts-archive".
func pathWithinPrefix(path, prefix string) bool {
	if prefix == "" {
		return false
	}
	return path == prefix || strings.HasPrefix(path, prefix+"/")
}
