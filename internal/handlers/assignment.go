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

// AssignmentHandler manages which inspectors work a complaint.
// Assignments are never deleted; removal stamps removed_at so the
// record doubles as audit history.
type AssignmentHandler struct {
	db database.Service
}

func NewAssignmentHandler(db database.Service) *AssignmentHandler {
	return &AssignmentHandler{db: db}
}

// ListByComplaint handles GET /api/complaints/{id}/assignments.
// Includes removed assignments; active ones have removedAt == null.
func (h *AssignmentHandler) ListByComplaint(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT a.id, a.complaint_id, a.inspector_id,
			a.assigned_at::text, a.removed_at::text,
			u.first_name, u.last_name
		FROM complaint_assignments a
		JOIN users u ON u.id = a.inspector_id
		WHERE a.complaint_id = $1
		ORDER BY a.assigned_at DESC
	`, complaintID)
	if err != nil {
		log.Printf("Failed to list assignments: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch assignments")
		return
	}
	defer rows.Close()

	type AssignmentWithInspector struct {
		models.ComplaintAssignment
		InspectorFirstName string `json:"inspectorFirstName"`
		InspectorLastName  string `json:"inspectorLastName"`
	}

	assignments := []AssignmentWithInspector{}
	for rows.Next() {
		var a AssignmentWithInspector
		if err := rows.Scan(
			&a.ID, &a.ComplaintID, &a.InspectorID,
			&a.AssignedAt, &a.RemovedAt,
			&a.InspectorFirstName, &a.InspectorLastName,
		); err != nil {
			log.Printf("Failed to scan assignment: %v", err)
			continue
		}
		assignments = append(assignments, a)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": assignments})
}

// Assign handles POST /api/complaints/{id}/assignments.
// The target user must hold the inspector role.
func (h *AssignmentHandler) Assign(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	var req struct {
		InspectorID string `json:"inspector_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.InspectorID == "" {
		JSONError(w, http.StatusUnprocessableEntity, "inspector_id is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var role string
	if err := pool.QueryRow(ctx, `SELECT role FROM users WHERE id = $1`, req.InspectorID).Scan(&role); err != nil {
		JSONError(w, http.StatusNotFound, "Inspector not found")
		return
	}
	if role != "inspector" {
		JSONError(w, http.StatusUnprocessableEntity, "Assigned user must hold the inspector role")
		return
	}

	var assignment models.ComplaintAssignment
	err := pool.QueryRow(ctx, `
		INSERT INTO complaint_assignments (complaint_id, inspector_id)
		VALUES ($1, $2)
		RETURNING id, complaint_id, inspector_id, assigned_at::text, removed_at::text
	`, complaintID, req.InspectorID,
	).Scan(
		&assignment.ID, &assignment.ComplaintID, &assignment.InspectorID,
		&assignment.AssignedAt, &assignment.RemovedAt,
	)
	if err != nil {
		if isForeignKeyError(err) {
			JSONError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		log.Printf("Failed to create assignment: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to assign inspector")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	go logHistory(pool, complaintID, userID, "assignment_change", "Inspector assigned")

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    assignment,
		"message": "Inspector assigned successfully",
	})
}

// Remove handles DELETE /api/complaints/{id}/assignments/{assignmentId}.
// Stamps removed_at rather than deleting the row.
func (h *AssignmentHandler) Remove(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")
	assignmentID := chi.URLParam(r, "assignmentId")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tag, err := pool.Exec(ctx, `
		UPDATE complaint_assignments SET removed_at = NOW()
		WHERE id = $1 AND complaint_id = $2 AND removed_at IS NULL
	`, assignmentID, complaintID)
	if err != nil {
		log.Printf("Failed to remove assignment: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to remove assignment")
		return
	}

	if tag.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Active assignment not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	go logHistory(pool, complaintID, userID, "assignment_change", "Inspector removed")

	JSON(w, http.StatusOK, map[string]interface{}{"message": "Assignment removed"})
}
