package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Ergy12/inspection-du-travail/internal/database"
	"github.com/Ergy12/inspection-du-travail/internal/models"
)

// logHistory records a staff action on a complaint. Runs in its own
// goroutine at call sites — a failed audit write must not fail the
// action itself, so errors are only logged.
func logHistory(pool *pgxpool.Pool, complaintID, userID, action, details string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := pool.Exec(ctx, `
		INSERT INTO complaint_history (complaint_id, user_id, action, details)
		VALUES ($1, $2, $3, $4)
	`, complaintID, nilIfEmpty(userID), action, details)
	if err != nil {
		log.Printf("Failed to log history for complaint %s: %v", complaintID, err)
	}
}

// HistoryHandler exposes the audit trail of a complaint.
type HistoryHandler struct {
	db database.Service
}

func NewHistoryHandler(db database.Service) *HistoryHandler {
	return &HistoryHandler{db: db}
}

// ListByComplaint handles GET /api/complaints/{id}/history, newest first.
func (h *HistoryHandler) ListByComplaint(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT id, complaint_id, user_id::text, action, details, created_at::text
		FROM complaint_history
		WHERE complaint_id = $1
		ORDER BY created_at DESC
	`, complaintID)
	if err != nil {
		log.Printf("Failed to list history: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch history")
		return
	}
	defer rows.Close()

	entries := []models.ComplaintHistory{}
	for rows.Next() {
		var e models.ComplaintHistory
		if err := rows.Scan(&e.ID, &e.ComplaintID, &e.UserID, &e.Action, &e.Details, &e.CreatedAt); err != nil {
			log.Printf("Failed to scan history row: %v", err)
			continue
		}
		entries = append(entries, e)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": entries})
}
