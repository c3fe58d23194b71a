package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ergy12/inspection-du-travail/internal/ctxkeys"
	"github.com/Ergy12/inspection-du-travail/internal/database"
	"github.com/Ergy12/inspection-du-travail/internal/models"
)

// UserManagementHandler provides admin-only user listing, role changes,
// activation, org-unit assignment, and deletion.
type UserManagementHandler struct {
	db database.Service
}

func NewUserManagementHandler(db database.Service) *UserManagementHandler {
	return &UserManagementHandler{db: db}
}

// List returns users visible to the current admin.
// admin sees everyone except super_admin/admin; super_admin sees all.
func (h *UserManagementHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()
	currentRole, _ := r.Context().Value(ctxkeys.UserRole).(string)

	query := `SELECT ` + userCols + ` FROM users`
	if currentRole != "super_admin" {
		query += ` WHERE role NOT IN ('super_admin', 'admin')`
	}
	query += ` ORDER BY created_at DESC`

	rows, err := pool.Query(ctx, query)
	if err != nil {
		log.Printf("Failed to list users: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch users")
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		var u models.User
		if err := scanUser(rows, &u); err != nil {
			log.Printf("Failed to scan user row: %v", err)
			continue
		}
		users = append(users, u)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": users})
}

// UpdateRole changes a user's role with hierarchical restrictions:
// only super_admin may grant admin/super_admin or touch users holding
// those roles. Self-modification is always rejected.
func (h *UserManagementHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	currentUserID, _ := r.Context().Value(ctxkeys.UserID).(string)
	currentRole, _ := r.Context().Value(ctxkeys.UserRole).(string)

	if targetID == currentUserID {
		JSONError(w, http.StatusBadRequest, "Cannot change your own role")
		return
	}

	var req models.UpdateRoleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		ValidationError(w, errs)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	if currentRole != "super_admin" {
		if req.Role == "admin" || req.Role == "super_admin" {
			JSONError(w, http.StatusForbidden, "Only super_admin can assign admin or super_admin roles")
			return
		}
		// The guard must know the target's current role; an unreadable
		// role must block the change, not wave it through.
		var targetRole string
		err := h.db.GetPool().QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, targetID).Scan(&targetRole)
		if err != nil {
			JSONError(w, http.StatusNotFound, "User not found")
			return
		}
		if targetRole == "admin" || targetRole == "super_admin" {
			JSONError(w, http.StatusForbidden, "Cannot modify admin or super_admin users")
			return
		}
	}

	pool := h.db.GetPool()

	var user models.User
	err := scanUser(pool.QueryRow(ctx, `
		UPDATE users SET role = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userCols,
		req.Role, targetID), &user)
	if err != nil {
		JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    user,
		"message": "Role updated successfully",
	})
}

// SetActive activates or deactivates an account. Deactivated users can
// no longer log in; existing tokens expire naturally.
func (h *UserManagementHandler) SetActive(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	currentUserID, _ := r.Context().Value(ctxkeys.UserID).(string)

	if targetID == currentUserID {
		JSONError(w, http.StatusBadRequest, "Cannot deactivate your own account")
		return
	}

	var req models.SetActiveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var user models.User
	err := scanUser(pool.QueryRow(ctx, `
		UPDATE users SET is_active = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+userCols,
		req.IsActive, targetID), &user)
	if err != nil {
		JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    user,
		"message": "Account status updated",
	})
}

// AssignScope sets the direction/branch a user is scoped to.
func (h *UserManagementHandler) AssignScope(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")

	var req models.AssignScopeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var user models.User
	err := scanUser(pool.QueryRow(ctx, `
		UPDATE users SET direction_id = $1, branch_id = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING `+userCols,
		req.DirectionID, req.BranchID, targetID), &user)
	if err != nil {
		if isForeignKeyError(err) {
			JSONError(w, http.StatusUnprocessableEntity, "Direction or branch does not exist")
			return
		}
		JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    user,
		"message": "Org-unit assignment updated",
	})
}

// Delete removes a user with hierarchical restrictions.
func (h *UserManagementHandler) Delete(w http.ResponseWriter, r *http.Request) {
	targetID := chi.URLParam(r, "id")
	currentUserID, _ := r.Context().Value(ctxkeys.UserID).(string)
	currentRole, _ := r.Context().Value(ctxkeys.UserRole).(string)

	if targetID == currentUserID {
		JSONError(w, http.StatusBadRequest, "Cannot delete your own account")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var targetRole string
	err := pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, targetID).Scan(&targetRole)
	if err != nil {
		JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	if currentRole != "super_admin" && (targetRole == "admin" || targetRole == "super_admin") {
		JSONError(w, http.StatusForbidden, "Cannot delete admin or super_admin users")
		return
	}

	tag, err := pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, targetID)
	if err != nil {
		log.Printf("Failed to delete user: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete user")
		return
	}

	if tag.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "User not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"message": "User deleted successfully"})
}
