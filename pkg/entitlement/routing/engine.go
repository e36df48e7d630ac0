package routing

import (
	"strings"

	"tapcard-be/internal/entity"
)

// Canonical paths. Each role owns exactly one home; the reactivation path is
// the single surface a suspended tenant's corporate users may reach.
const (
	HomeSuperAdmin      = "/admin"
	HomeFinancialAdmin  = "/admin/finance"
	HomeCorporateAdmin  = "/corporate"
	HomeCorporateMember = "/corporate/profile"
	HomePersonal        = "/dashboard"

	ReactivationPath = "/corporate/settings"
)

// DecisionKind discriminates the engine's output.
type DecisionKind string

const (
	DecisionAllow    DecisionKind = "allow"
	DecisionRedirect DecisionKind = "redirect"
)

type Decision struct {
	Kind DecisionKind
	Path string
}

func Allow() Decision {
	return Decision{Kind: DecisionAllow}
}

func RedirectTo(path string) Decision {
	return Decision{Kind: DecisionRedirect, Path: path}
}

// rule declares ownership of one path prefix. Longest prefix wins. A rule
// with an empty capability is reachable by any authenticated subject.
type rule struct {
	prefix     string
	capability entity.Capability
	adminOnly  bool
}

// pathTable centralizes path ownership; precedence is by prefix length, so
// /corporate/users shadows /corporate.
var pathTable = []rule{
	{prefix: "/admin/users", capability: entity.CapManageUsers},
	{prefix: "/admin/finance", capability: entity.CapViewFinancialData},
	{prefix: "/admin/financial-admins", capability: entity.CapManageFinancialAdmins},
	{prefix: "/admin/emails", capability: entity.CapManageEmails},
	{prefix: "/admin/notifications", capability: entity.CapManageNotifications},
	{prefix: "/admin/cancellations", capability: entity.CapViewCancelRequests},
	{prefix: "/admin/export", capability: entity.CapExportUserData},
	{prefix: "/admin", capability: entity.CapAccessSystemInfo},

	{prefix: "/corporate/users", capability: entity.CapManageUsers, adminOnly: true},
	{prefix: "/corporate/subscription", capability: entity.CapManageSubscriptions, adminOnly: true},
	{prefix: "/corporate/emails", capability: entity.CapManageEmails, adminOnly: true},
	{prefix: "/corporate/settings"}, // reactivation surface, always reachable
	{prefix: "/corporate/profile", capability: entity.CapViewProfiles},
	{prefix: "/corporate", capability: entity.CapViewProfiles},

	{prefix: "/profiles", capability: entity.CapViewProfiles},
	{prefix: "/dashboard"},
}

// HomePath returns the canonical landing path for a role. A suspended
// tenant's corporate users land on the reactivation surface instead.
func HomePath(role entity.Role, state entity.LifecycleState) string {
	if state.Kind == entity.LifecycleSuspended &&
		(role == entity.RoleCorporateAdmin || role == entity.RoleCorporateMember) {
		return ReactivationPath
	}
	switch role {
	case entity.RoleSuperAdmin:
		return HomeSuperAdmin
	case entity.RoleFinancialAdmin:
		return HomeFinancialAdmin
	case entity.RolePermanentAdmin, entity.RoleCorporateAdmin:
		return HomeCorporateAdmin
	case entity.RoleCorporateMember:
		return HomeCorporateMember
	default:
		return HomePersonal
	}
}

// Decide applies the table-driven rules to one requested path. The engine
// never redirects to the current path: a self-redirect collapses to Allow.
func Decide(ent *entity.Entitlement, requestedPath string) Decision {
	requestedPath = normalize(requestedPath)
	matched, ok := match(requestedPath)

	redirect := func(target string) Decision {
		if target == requestedPath {
			return Allow()
		}
		return RedirectTo(target)
	}

	// Suspended corporate users are funneled to the reactivation surface
	// before anything else.
	if ent.Lifecycle.Kind == entity.LifecycleSuspended &&
		(ent.Role == entity.RoleCorporateAdmin || ent.Role == entity.RoleCorporateMember) &&
		!strings.HasPrefix(requestedPath, ReactivationPath) {
		return redirect(ReactivationPath)
	}

	if !ok {
		// Unowned paths are outside the resolver's jurisdiction.
		return Allow()
	}

	if matched.capability != "" && !ent.Permissions.Has(matched.capability) {
		return redirect(HomePath(ent.Role, ent.Lifecycle))
	}

	if matched.adminOnly && ent.Role == entity.RoleCorporateMember {
		return redirect(HomeCorporateMember)
	}

	return Allow()
}

func match(path string) (rule, bool) {
	best := rule{}
	found := false
	for _, r := range pathTable {
		if strings.HasPrefix(path, r.prefix) && len(r.prefix) > len(best.prefix) {
			best = r
			found = true
		}
	}
	return best, found
}

func normalize(path string) string {
	if path == "" {
		return "/"
	}
	if len(path) > 1 {
		path = strings.TrimRight(path, "/")
	}
	return path
}
