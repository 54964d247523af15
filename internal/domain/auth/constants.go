package auth

const (
	RoleEmployee = "employee"
	RoleHR       = "hr"
	RoleAdmin    = "admin"
)

const (
	PermTasksRead      = "onboarding.tasks.read"
	PermTasksWrite     = "onboarding.tasks.write"
	PermEmployeesRead  = "onboarding.employees.read"
	PermEmployeesWrite = "onboarding.employees.write"
	PermMetricsRead    = "onboarding.metrics.read"
	PermFeedbackSubmit = "feedback.submit"
	PermFeedbackManage = "feedback.manage"
	PermReportsRead    = "reports.read"
	PermIntegrations   = "integrations.write"
	PermSystemAdmin    = "admin.system"
)

var RolePermissions = map[string][]string{
	RoleEmployee: {
		PermTasksRead,
		PermTasksWrite,
		PermFeedbackSubmit,
	},
	RoleHR: {
		PermTasksRead,
		PermTasksWrite,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermMetricsRead,
		PermFeedbackSubmit,
		PermFeedbackManage,
		PermReportsRead,
	},
	RoleAdmin: {
		PermTasksRead,
		PermTasksWrite,
		PermEmployeesRead,
		PermEmployeesWrite,
		PermMetricsRead,
		PermFeedbackSubmit,
		PermFeedbackManage,
		PermReportsRead,
		PermIntegrations,
		PermSystemAdmin,
	},
}

// HasPermission reports whether role grants permission.
func HasPermission(role, permission string) bool {
	for _, candidate := range RolePermissions[role] {
		if candidate == permission {
			return true
		}
	}
	return false
}

func ValidRole(role string) bool {
	_, ok := RolePermissions[role]
	return ok
}
