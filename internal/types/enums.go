package types

// User role values
const (
	RoleAdmin = "admin"
)

// Admin action values for the privileged action endpoint
const (
	ActionChangePassword = "change_password"
	ActionCreateAdmin    = "create_admin"
	ActionListAdmins     = "list_admins"
	ActionDeleteAdmin    = "delete_admin"
)

// Storage buckets
const (
	BucketReports    = "reports"
	BucketSiteAssets = "site-assets"
)

// Default report statuses seeded on first run
const (
	StatusPending    = "Pending"
	StatusInProgress = "Diproses"
	StatusResolved   = "Selesai"
)

// DefaultStatuses lists the seeded statuses in display order
var DefaultStatuses = []string{StatusPending, StatusInProgress, StatusResolved}

// Default status colors
var DefaultStatusColors = map[string]string{
	StatusPending:    "#f59e0b",
	StatusInProgress: "#3b82f6",
	StatusResolved:   "#10b981",
}

// Valid admin actions for validation
var ValidAdminActions = []string{
	ActionChangePassword, ActionCreateAdmin,
	ActionListAdmins, ActionDeleteAdmin,
}
