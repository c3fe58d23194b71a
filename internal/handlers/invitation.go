package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ergy12/inspection-du-travail/internal/database"
	"github.com/Ergy12/inspection-du-travail/internal/models"
)

// InvitationHandler manages notifications to complainants. Staff create
// them against a complaint; the complainant reads them on the tracking
// page, keyed by tracking code (no account involved).
type InvitationHandler struct {
	db database.Service
}

func NewInvitationHandler(db database.Service) *InvitationHandler {
	return &InvitationHandler{db: db}
}

// Create handles POST /api/complaints/{id}/invitations (staff).
func (h *InvitationHandler) Create(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	var req models.CreateInvitationRequest
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

	pool := h.db.GetPool()

	var inv models.Invitation
	err := pool.QueryRow(ctx, `
		INSERT INTO invitations (complaint_id, message)
		VALUES ($1, $2)
		RETURNING id, complaint_id, message, is_read, created_at::text
	`, complaintID, req.Message,
	).Scan(&inv.ID, &inv.ComplaintID, &inv.Message, &inv.IsRead, &inv.CreatedAt)
	if err != nil {
		if isForeignKeyError(err) {
			JSONError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		log.Printf("Failed to create invitation: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create invitation")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    inv,
		"message": "Invitation created successfully",
	})
}

// ListByCode handles GET /api/complaints/track/{code}/invitations (public).
// Newest first, with an unread count for the notification badge.
func (h *InvitationHandler) ListByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT i.id, i.complaint_id, i.message, i.is_read, i.created_at::text
		FROM invitations i
		JOIN complaints c ON c.id = i.complaint_id
		WHERE c.code = $1
		ORDER BY i.created_at DESC
	`, code)
	if err != nil {
		log.Printf("Failed to list invitations: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch invitations")
		return
	}
	defer rows.Close()

	invitations := []models.Invitation{}
	unread := 0
	for rows.Next() {
		var inv models.Invitation
		if err := rows.Scan(&inv.ID, &inv.ComplaintID, &inv.Message, &inv.IsRead, &inv.CreatedAt); err != nil {
			log.Printf("Failed to scan invitation: %v", err)
			continue
		}
		if !inv.IsRead {
			unread++
		}
		invitations = append(invitations, inv)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":        invitations,
		"unreadCount": unread,
	})
}

// MarkRead handles PATCH /api/complaints/track/{code}/invitations/{id}/read
// (public). Marking read is the only mutation invitations ever see, and
// like every public invitation operation it is gated by the tracking
// code: an invitation id alone is not enough.
func (h *InvitationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	id := chi.URLParam(r, "id")
	if code == "" || id == "" {
		JSONError(w, http.StatusBadRequest, "Tracking code and invitation id are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	tag, err := pool.Exec(ctx, `
		UPDATE invitations i SET is_read = TRUE
		FROM complaints c
		WHERE i.id = $1 AND c.id = i.complaint_id AND c.code = $2
	`, id, code)
	if err != nil {
		log.Printf("Failed to mark invitation read: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to update invitation")
		return
	}

	if tag.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Invitation not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{"message": "Invitation marked as read"})
}
