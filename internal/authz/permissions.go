package authz

// Permission constants define the available permissions in the system.
// These are used for group-based access control to restrict access to
// specific actions.
const (
	// PermCreateUser allows registering new user accounts.
	PermCreateUser = "create_user"
	// PermViewLogs allows reading the audit log partitions.
	PermViewLogs = "view_logs"
	// PermChangeRoles allows changing the role of existing accounts.
	PermChangeRoles = "change_roles"

	// PermManageITAssets allows managing IT asset records.
	PermManageITAssets = "manage_it_assets"
	// PermViewSystemSettings allows viewing system-wide settings.
	PermViewSystemSettings = "view_system_settings"

	// PermViewUsers allows listing user accounts.
	PermViewUsers = "view_users"
	// PermUpdateUser allows updating user account details.
	PermUpdateUser = "update_user"
)

// defaultUserGroups maps usernames to the groups they belong to.
// Users without an entry hold no elevated permissions.
func defaultUserGroups() map[string][]string {
	return map[string][]string{
		"Dr_Smith_1001":    {"Dean"},
		"Dr_Williams_1003": {"CIO"},
		"Dr_Brown_1004":    {"Department_Head"},
		"TA_Miller_1007":   {"TA"},
	}
}

// defaultGroupPermissions maps group names to the permissions they grant.
func defaultGroupPermissions() map[string][]string {
	return map[string][]string{
		"Dean":            {PermCreateUser, PermViewLogs, PermChangeRoles},
		"CIO":             {PermManageITAssets, PermViewSystemSettings},
		"Department_Head": {PermViewUsers, PermUpdateUser},
		"TA":              {},
	}
}
