// Package ctxkeys defines typed context keys shared between middleware and handlers.
// This avoids import cycles: both middleware and handlers import this package,
// but neither imports the other for context key types.
package ctxkeys

// Key is a typed string used as context key to prevent collisions.
type Key string

const (
	UserID   Key = "userID"
	UserRole Key = "userRole"
)

// ValidRoles lists all valid role strings.
// There is no hierarchy between them: every protected route names the exact
// set of roles it permits, and super_admin is not implicitly a member of
// sets that do not list it.
var ValidRoles = map[string]bool{
	"super_admin":       true,
	"admin":             true,
	"complaint_manager": true,
	"inspector":         true,
	"controller":        true,
	"administrative":    true,
}

// DefaultRole is assigned to every self-registered account.
// Higher roles are granted by admins via User Management.
const DefaultRole = "administrative"

// Per-area permission sets. Routes reference these instead of carrying
// ad hoc role lists, so the whole access policy reads in one place.
var (
	ProvinceRoles  = []string{"super_admin"}
	DirectionRoles = []string{"super_admin"}

	BranchRoles    = []string{"super_admin", "admin"}
	UserAdminRoles = []string{"super_admin", "admin"}

	// ComplaintStaffRoles covers everyone who works complaint records:
	// status changes, assignments, reports, documents, invitations.
	ComplaintStaffRoles = []string{"super_admin", "admin", "complaint_manager", "inspector"}
)
