package models

import "github.com/Ergy12/inspection-du-travail/internal/ctxkeys"

// User is a staff account. The role string is the sole authorization
// input; direction_id/branch_id scope the account to an org unit.
type User struct {
	ID           string  `json:"id"`
	Email        string  `json:"email"`
	PasswordHash string  `json:"-"` // Never expose in JSON responses
	FirstName    string  `json:"first_name"`
	LastName     string  `json:"last_name"`
	Role         string  `json:"role"`
	DirectionID  *string `json:"direction_id,omitempty"`
	BranchID     *string `json:"branch_id,omitempty"`
	IsActive     bool    `json:"is_active"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// RegisterRequest contains the fields needed to create a new account.
// All new users start as "administrative"; higher roles are granted
// through User Management.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Validate checks that all required registration fields are present.
func (r *RegisterRequest) Validate() map[string]string {
	errors := map[string]string{}

	if !emailRe.MatchString(r.Email) {
		errors["email"] = "A valid email address is required"
	}
	if len(r.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters"
	}
	if r.FirstName == "" {
		errors["first_name"] = "First name is required"
	}
	if r.LastName == "" {
		errors["last_name"] = "Last name is required"
	}

	return errors
}

// LoginRequest contains the credentials for authentication.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate checks that login credentials are present.
func (r *LoginRequest) Validate() map[string]string {
	errors := map[string]string{}

	if r.Email == "" {
		errors["email"] = "Email is required"
	}
	if r.Password == "" {
		errors["password"] = "Password is required"
	}

	return errors
}

// UpdateRoleRequest is used by admins to change a user's role.
type UpdateRoleRequest struct {
	Role string `json:"role"`
}

// Validate checks that the role is one of the allowed values.
func (r *UpdateRoleRequest) Validate() map[string]string {
	errors := map[string]string{}
	if !ctxkeys.ValidRoles[r.Role] {
		errors["role"] = "Role must be 'super_admin', 'admin', 'complaint_manager', 'inspector', 'controller', or 'administrative'"
	}
	return errors
}

// SetActiveRequest activates or deactivates an account.
type SetActiveRequest struct {
	IsActive bool `json:"is_active"`
}

// AssignScopeRequest sets the org-unit scoping of a user. Either field
// may be null to clear the assignment.
type AssignScopeRequest struct {
	DirectionID *string `json:"direction_id"`
	BranchID    *string `json:"branch_id"`
}

// AuthResponse is sent back after successful login/registration.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
