package user

type Permission string

const (
	// Timecard
	PermissionTimecardRecordOwn Permission = "timecard.record_own"
	PermissionTimecardViewOwn   Permission = "timecard.view_own"
	PermissionTimecardViewAll   Permission = "timecard.view_all"

	// Settings
	PermissionSettingsManage Permission = "settings.manage"

	// Payroll
	PermissionPayrollView    Permission = "payroll.view"
	PermissionPayrollManage  Permission = "payroll.manage"
	PermissionPayrollApprove Permission = "payroll.approve"
)

var employeePermissions = []Permission{
	PermissionTimecardRecordOwn,
	PermissionTimecardViewOwn,
}

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleIntern:   employeePermissions,
	RoleEmployee: employeePermissions,
	RoleTeamAdmin: {
		PermissionTimecardRecordOwn,
		PermissionTimecardViewOwn,
		PermissionTimecardViewAll,
	},
	RoleTeamLead: {
		PermissionTimecardRecordOwn,
		PermissionTimecardViewOwn,
		PermissionTimecardViewAll,
		PermissionPayrollView,
	},
	RoleAdmin: {
		PermissionTimecardRecordOwn,
		PermissionTimecardViewOwn,
		PermissionTimecardViewAll,
		PermissionSettingsManage,
		PermissionPayrollView,
		PermissionPayrollManage,
	},
	RoleSuperAdmin: {
		PermissionTimecardRecordOwn,
		PermissionTimecardViewOwn,
		PermissionTimecardViewAll,
		PermissionSettingsManage,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollApprove,
	},
	RoleDeveloper: {
		PermissionTimecardRecordOwn,
		PermissionTimecardViewOwn,
		PermissionTimecardViewAll,
		PermissionSettingsManage,
		PermissionPayrollView,
		PermissionPayrollManage,
		PermissionPayrollApprove,
	},
}

// HasPermission checks if a role has a specific permission
func HasPermission(role Role, permission Permission) bool {
	permissions, exists := RolePermissions[role]
	if !exists {
		return false
	}

	for _, p := range permissions {
		if p == permission {
			return true
		}
	}

	return false
}
