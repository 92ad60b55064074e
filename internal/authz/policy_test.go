package authz

import (
	"testing"

	"github.com/a2s-soft/subtrack/internal/core"
)

func user(role core.Role, regions ...string) core.User {
	return core.User{
		Role:            role,
		Status:          core.UserActive,
		AssignedRegions: regions,
	}
}

func TestAdminsCanDoEverything(t *testing.T) {
	p := NewPolicy()
	for _, role := range []core.Role{core.RoleSuperAdmin, core.RoleAdmin} {
		u := user(role)
		for _, action := range []Action{ActionRead, ActionWrite, ActionManageUsers} {
			if !p.Can(u, action, "algiers") {
				t.Errorf("%s: expected %s allowed", role, action)
			}
		}
	}
}

func TestSalesLimitedToAssignedRegions(t *testing.T) {
	p := NewPolicy()
	u := user(core.RoleSales, "oran", "algiers")

	if !p.Can(u, ActionWrite, "oran") {
		t.Error("expected write allowed in assigned region")
	}
	if p.Can(u, ActionWrite, "annaba") {
		t.Error("expected write denied outside assigned regions")
	}
	if p.Can(u, ActionManageUsers, "") {
		t.Error("expected user management denied for sales")
	}
	// Resources without a region are not region-constrained.
	if !p.Can(u, ActionRead, "") {
		t.Error("expected read allowed on region-free resources")
	}
}

func TestViewerIsReadOnly(t *testing.T) {
	p := NewPolicy()
	u := user(core.RoleViewer)

	if !p.Can(u, ActionRead, "oran") {
		t.Error("expected viewer read allowed anywhere")
	}
	if p.Can(u, ActionWrite, "oran") {
		t.Error("expected viewer write denied")
	}
	if p.CanEdit(u) {
		t.Error("expected CanEdit false for viewer")
	}
}

func TestStaffCannotManageUsers(t *testing.T) {
	p := NewPolicy()
	u := user(core.RoleStaff)

	if !p.Can(u, ActionWrite, "oran") {
		t.Error("expected staff write allowed")
	}
	if p.Can(u, ActionManageUsers, "") {
		t.Error("expected staff user management denied")
	}
}

func TestInactiveUsersDeniedEverything(t *testing.T) {
	p := NewPolicy()
	for _, status := range []core.UserStatus{core.UserInactive, core.UserSuspended} {
		u := user(core.RoleSuperAdmin)
		u.Status = status
		if p.Can(u, ActionRead, "") {
			t.Errorf("status %s: expected read denied", status)
		}
	}
}
