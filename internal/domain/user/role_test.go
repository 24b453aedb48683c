package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	cases := map[string]Role{
		"Super-admin": RoleSuperAdmin,
		"super-admin": RoleSuperAdmin,
		"SUPER_ADMIN": RoleSuperAdmin,
		"Team Lead":   RoleTeamLead,
		"Team-Lead":   RoleTeamLead,
		"team-admin":  RoleTeamAdmin,
		"Intern":      RoleIntern,
		" employee ":  RoleEmployee,
		"Developer":   RoleDeveloper,
		"Admin":       RoleAdmin,
		"contractor":  RoleUnknown,
		"":            RoleUnknown,
	}
	for raw, want := range cases {
		assert.Equal(t, want, ParseRole(raw), "ParseRole(%q)", raw)
	}
}

func TestEscalationRecipients(t *testing.T) {
	everyoneAboveEmployee := []Role{RoleTeamAdmin, RoleTeamLead, RoleAdmin, RoleSuperAdmin, RoleDeveloper}

	assert.Equal(t, everyoneAboveEmployee, RoleIntern.EscalationRecipients())
	assert.Equal(t, everyoneAboveEmployee, RoleEmployee.EscalationRecipients())
	assert.Equal(t, []Role{RoleTeamLead, RoleAdmin, RoleSuperAdmin, RoleDeveloper}, RoleTeamAdmin.EscalationRecipients())
	assert.Equal(t, []Role{RoleAdmin, RoleSuperAdmin, RoleDeveloper}, RoleTeamLead.EscalationRecipients())
	assert.Equal(t, []Role{RoleSuperAdmin, RoleDeveloper}, RoleAdmin.EscalationRecipients())
	assert.Empty(t, RoleSuperAdmin.EscalationRecipients())
	assert.Equal(t, everyoneAboveEmployee, RoleUnknown.EscalationRecipients())
	assert.Equal(t, everyoneAboveEmployee, Role("contractor").EscalationRecipients())
}

func TestEscalationRecipientsReturnsCopy(t *testing.T) {
	got := RoleAdmin.EscalationRecipients()
	got[0] = RoleIntern
	assert.Equal(t, RoleSuperAdmin, RoleAdmin.EscalationRecipients()[0])
}

func TestHasPermission(t *testing.T) {
	assert.True(t, HasPermission(RoleEmployee, PermissionTimecardRecordOwn))
	assert.False(t, HasPermission(RoleEmployee, PermissionPayrollManage))
	assert.True(t, HasPermission(RoleSuperAdmin, PermissionPayrollApprove))
	assert.False(t, HasPermission(RoleAdmin, PermissionPayrollApprove))
	assert.False(t, HasPermission(RoleUnknown, PermissionTimecardViewOwn))
}
