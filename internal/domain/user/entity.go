package user

import "strings"

// Role is the normalized organizational role of an employee. Raw role strings
// from tokens or the directory go through ParseRole before any comparison.
type Role string

const (
	RoleIntern     Role = "intern"
	RoleEmployee   Role = "employee"
	RoleTeamAdmin  Role = "team_admin"
	RoleTeamLead   Role = "team_lead"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
	RoleDeveloper  Role = "developer"
	RoleUnknown    Role = "unknown"
)

var roleAliases = map[string]Role{
	"intern":      RoleIntern,
	"employee":    RoleEmployee,
	"team_admin":  RoleTeamAdmin,
	"teamadmin":   RoleTeamAdmin,
	"team_lead":   RoleTeamLead,
	"teamlead":    RoleTeamLead,
	"admin":       RoleAdmin,
	"super_admin": RoleSuperAdmin,
	"superadmin":  RoleSuperAdmin,
	"developer":   RoleDeveloper,
	"dev":         RoleDeveloper,
}

// ParseRole maps case and separator variants ("Super-admin", "TEAM LEAD",
// "team_admin") onto a Role. Unrecognized input yields RoleUnknown.
func ParseRole(raw string) Role {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if role, ok := roleAliases[key]; ok {
		return role
	}
	return RoleUnknown
}

// escalationChain lists, per role, the roles that must be alerted when the
// role's holder breaches a timecard policy.
var escalationChain = map[Role][]Role{
	RoleIntern:     {RoleTeamAdmin, RoleTeamLead, RoleAdmin, RoleSuperAdmin, RoleDeveloper},
	RoleEmployee:   {RoleTeamAdmin, RoleTeamLead, RoleAdmin, RoleSuperAdmin, RoleDeveloper},
	RoleTeamAdmin:  {RoleTeamLead, RoleAdmin, RoleSuperAdmin, RoleDeveloper},
	RoleTeamLead:   {RoleAdmin, RoleSuperAdmin, RoleDeveloper},
	RoleAdmin:      {RoleSuperAdmin, RoleDeveloper},
	RoleSuperAdmin: {},
	RoleDeveloper:  {},
}

// EscalationRecipients returns the roles above r. Roles outside the table
// escalate like a regular employee.
func (r Role) EscalationRecipients() []Role {
	chain, ok := escalationChain[r]
	if !ok {
		chain = escalationChain[RoleEmployee]
	}
	out := make([]Role, len(chain))
	copy(out, chain)
	return out
}

// IsManagement reports whether r sits at team-admin level or above.
func (r Role) IsManagement() bool {
	switch r {
	case RoleTeamAdmin, RoleTeamLead, RoleAdmin, RoleSuperAdmin, RoleDeveloper:
		return true
	}
	return false
}
