package user

type Permission string

const (
	// Employees
	PermissionEmployeeView   Permission = "employee.view"
	PermissionEmployeeManage Permission = "employee.manage"

	// Gift shipments
	PermissionShipmentView   Permission = "shipment.view"
	PermissionShipmentManage Permission = "shipment.manage"

	// Catalog and calendar
	PermissionGiftManage    Permission = "gift.manage"
	PermissionHolidayManage Permission = "holiday.manage"

	// Organization
	PermissionOrganizationManage Permission = "organization.manage"

	// Reports
	PermissionReportsView Permission = "reports.view"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleOwner: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionShipmentView,
		PermissionShipmentManage,
		PermissionGiftManage,
		PermissionHolidayManage,
		PermissionOrganizationManage,
		PermissionReportsView,
	},
	RoleHR: {
		PermissionEmployeeView,
		PermissionEmployeeManage,
		PermissionShipmentView,
		PermissionShipmentManage,
		PermissionGiftManage,
		PermissionHolidayManage,
		PermissionReportsView,
	},
	RoleViewer: {
		PermissionEmployeeView,
		PermissionShipmentView,
		PermissionReportsView,
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
