package admin

// Permission represents an admin permission
type Permission string

const (
	// Moderation queue
	PermQueueView    Permission = "queue.view"
	PermQueueSubmit  Permission = "queue.submit"
	PermQueueClaim   Permission = "queue.claim"
	PermQueueResolve Permission = "queue.resolve"

	// User moderation
	PermViewUsers Permission = "users.view"
	PermBanUsers  Permission = "users.ban"

	// Hackathon moderation
	PermViewHackathons   Permission = "hackathons.view"
	PermReviewHackathons Permission = "hackathons.review"

	// System
	PermViewAnalytics Permission = "analytics.view"
	PermViewAuditLogs Permission = "audit.view"
	PermManageAdmins  Permission = "admins.manage"
)

// RolePermissions maps roles to their permissions
var RolePermissions = map[Role][]Permission{
	RoleSuperAdmin: {
		PermQueueView, PermQueueSubmit, PermQueueClaim, PermQueueResolve,
		PermViewUsers, PermBanUsers,
		PermViewHackathons, PermReviewHackathons,
		PermViewAnalytics, PermViewAuditLogs, PermManageAdmins,
	},
	RoleAdmin: {
		PermQueueView, PermQueueSubmit, PermQueueClaim, PermQueueResolve,
		PermViewUsers, PermBanUsers,
		PermViewHackathons, PermReviewHackathons,
		PermViewAnalytics, PermViewAuditLogs,
	},
	RoleModerator: {
		PermQueueView, PermQueueClaim, PermQueueResolve,
		PermViewUsers,
		PermViewHackathons,
		PermViewAnalytics,
	},
	RoleSupport: {
		PermQueueView,
		PermViewUsers,
		PermViewHackathons,
	},
}

// RoleHierarchy defines role levels (higher = more permissions)
var RoleHierarchy = map[Role]int{
	RoleSuperAdmin: 100,
	RoleAdmin:      80,
	RoleModerator:  60,
	RoleSupport:    40,
}

// CanManage checks if role1 can manage role2
func CanManage(role1, role2 Role) bool {
	return RoleHierarchy[role1] > RoleHierarchy[role2]
}
