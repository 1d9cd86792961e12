package authn

const (
	RoleSuperAdmin = "super_admin"
	RoleAdmin      = "admin"
	RoleCoach      = "coach"
	RolePlayer     = "player"
)

// AdminTier covers roles allowed to manage accounts and credentials.
func AdminTier(role string) bool {
	return role == RoleSuperAdmin || role == RoleAdmin
}

// StaffTier additionally admits coaches, who may remove players from
// their own teams.
func StaffTier(role string) bool {
	return AdminTier(role) || role == RoleCoach
}

// ValidRole reports whether role names one of the known roles.
func ValidRole(role string) bool {
	switch role {
	case RoleSuperAdmin, RoleAdmin, RoleCoach, RolePlayer:
		return true
	}
	return false
}
