// Package authz is the capability policy over {role, assigned regions}.
// It is evaluated once per request in middleware and stays fully decoupled
// from the alert/health engine.
package authz

import (
	"github.com/a2s-soft/subtrack/internal/core"
)

type Action string

const (
	ActionRead        Action = "read"
	ActionWrite       Action = "write"
	ActionManageUsers Action = "manage_users"
)

type Policy struct{}

func NewPolicy() Policy {
	return Policy{}
}

// Can decides whether the user may perform action. Region is the record's
// region, empty for resources without one; it only constrains the sales
// role, which is limited to its assigned regions.
func (Policy) Can(u core.User, action Action, region string) bool {
	if u.Status != core.UserActive {
		return false
	}

	switch u.Role {
	case core.RoleSuperAdmin, core.RoleAdmin:
		return true
	case core.RoleSales:
		if action == ActionManageUsers {
			return false
		}
		if region == "" {
			return true
		}
		for _, r := range u.AssignedRegions {
			if r == region {
				return true
			}
		}
		return false
	case core.RoleStaff:
		return action != ActionManageUsers
	case core.RoleViewer:
		return action == ActionRead
	default:
		return false
	}
}

// CanEdit reports whether the user may perform any write at all.
func (p Policy) CanEdit(u core.User) bool {
	return p.Can(u, ActionWrite, "")
}

// IsAdmin covers both admin tiers.
func (Policy) IsAdmin(u core.User) bool {
	return u.Role == core.RoleSuperAdmin || u.Role == core.RoleAdmin
}
