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

// ReportHandler manages inspector reports on complaints.
type ReportHandler struct {
	db database.Service
}

func NewReportHandler(db database.Service) *ReportHandler {
	return &ReportHandler{db: db}
}

// ListByComplaint handles GET /api/complaints/{id}/reports, newest first.
func (h *ReportHandler) ListByComplaint(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT id, complaint_id, content, author_id::text, created_at::text
		FROM complaint_reports
		WHERE complaint_id = $1
		ORDER BY created_at DESC
	`, complaintID)
	if err != nil {
		log.Printf("Failed to list reports: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch reports")
		return
	}
	defer rows.Close()

	reports := []models.ComplaintReport{}
	for rows.Next() {
		var rep models.ComplaintReport
		if err := rows.Scan(&rep.ID, &rep.ComplaintID, &rep.Content, &rep.AuthorID, &rep.CreatedAt); err != nil {
			log.Printf("Failed to scan report: %v", err)
			continue
		}
		reports = append(reports, rep)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": reports})
}

// Create handles POST /api/complaints/{id}/reports.
func (h *ReportHandler) Create(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	var req struct {
		Content string `json:"content"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}
	if req.Content == "" {
		JSONError(w, http.StatusUnprocessableEntity, "Report content is required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()
	userID, _ := r.Context().Value(ctxkeys.UserID).(string)

	var report models.ComplaintReport
	err := pool.QueryRow(ctx, `
		INSERT INTO complaint_reports (complaint_id, content, author_id)
		VALUES ($1, $2, $3)
		RETURNING id, complaint_id, content, author_id::text, created_at::text
	`, complaintID, req.Content, nilIfEmpty(userID),
	).Scan(&report.ID, &report.ComplaintID, &report.Content, &report.AuthorID, &report.CreatedAt)
	if err != nil {
		if isForeignKeyError(err) {
			JSONError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		log.Printf("Failed to create report: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create report")
		return
	}

	go logHistory(pool, complaintID, userID, "report_update", "Report added")

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    report,
		"message": "Report created successfully",
	})
}
