package handlers

import (
	"context"
	"encoding/json"
	"log"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Ergy12/inspection-du-travail/internal/ctxkeys"
	"github.com/Ergy12/inspection-du-travail/internal/database"
	"github.com/Ergy12/inspection-du-travail/internal/models"
	"github.com/Ergy12/inspection-du-travail/internal/tracking"
)

// ComplaintHandler handles the public submission/tracking flow and the
// staff-side complaint management operations.
type ComplaintHandler struct {
	db database.Service
}

// NewComplaintHandler creates a new ComplaintHandler.
func NewComplaintHandler(db database.Service) *ComplaintHandler {
	return &ComplaintHandler{db: db}
}

// ── Columns ────────────────────────────────────────────────────
// Central column list keeps Submit/GetByID/List in sync.
const complaintCols = `id, code, status,
	email, first_name, last_name, middle_name, age, gender,
	marital_status, address, phone,
	company_name, position, contract_start_year, company_address,
	reason, details,
	created_at::text, updated_at::text`

func scanComplaint(scanner interface{ Scan(dest ...interface{}) error }, c *models.Complaint) error {
	return scanner.Scan(
		&c.ID, &c.Code, &c.Status,
		&c.PersonalInfo.Email, &c.PersonalInfo.FirstName, &c.PersonalInfo.LastName,
		&c.PersonalInfo.MiddleName, &c.PersonalInfo.Age, &c.PersonalInfo.Gender,
		&c.PersonalInfo.MaritalStatus, &c.PersonalInfo.Address, &c.PersonalInfo.Phone,
		&c.ProfessionalInfo.CompanyName, &c.ProfessionalInfo.Position,
		&c.ProfessionalInfo.ContractStartYear, &c.ProfessionalInfo.CompanyAddress,
		&c.ComplaintInfo.Reason, &c.ComplaintInfo.Details,
		&c.CreatedAt, &c.UpdatedAt,
	)
}

// ── Public: submission ─────────────────────────────────────────

// Submit handles POST /api/complaints — the public complaint form.
// A rejected submission returns every field error at once along with the
// submitted values, so the form can re-render without losing input.
// On success the complaint is stored with status "received" and the
// tracking code is returned.
func (h *ComplaintHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitComplaintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		JSONError(w, http.StatusBadRequest, "Invalid JSON body")
		return
	}

	if errs := req.Validate(); len(errs) > 0 {
		JSON(w, http.StatusUnprocessableEntity, map[string]interface{}{
			"error":     "Validation failed",
			"details":   errs,
			"submitted": req,
		})
		return
	}

	// Validate guaranteed these parse.
	age, _ := req.PersonalInfo.Age.Int64()
	startYear, _ := req.ProfessionalInfo.ContractStartYear.Int64()

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	// Codes are random, so a collision with an already-issued code is
	// possible. The UNIQUE constraint on complaints.code catches it and
	// we retry with a fresh code a few times before giving up.
	var complaint models.Complaint
	for attempt := 0; attempt < 3; attempt++ {
		code, err := tracking.GenerateCode()
		if err != nil {
			log.Printf("Failed to generate tracking code: %v", err)
			JSONError(w, http.StatusInternalServerError, "Failed to submit complaint")
			return
		}

		err = scanComplaint(pool.QueryRow(ctx, `
			INSERT INTO complaints (
				code, status,
				email, first_name, last_name, middle_name, age, gender,
				marital_status, address, phone,
				company_name, position, contract_start_year, company_address,
				reason, details
			)
			VALUES ($1, 'received', $2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
			RETURNING `+complaintCols,
			code,
			req.PersonalInfo.Email, req.PersonalInfo.FirstName, req.PersonalInfo.LastName,
			req.PersonalInfo.MiddleName, age, req.PersonalInfo.Gender,
			req.PersonalInfo.MaritalStatus, req.PersonalInfo.Address, req.PersonalInfo.Phone,
			req.ProfessionalInfo.CompanyName, req.ProfessionalInfo.Position,
			startYear, req.ProfessionalInfo.CompanyAddress,
			req.ComplaintInfo.Reason, req.ComplaintInfo.Details,
		), &complaint)

		if err == nil {
			JSON(w, http.StatusCreated, map[string]interface{}{
				"code":    complaint.Code,
				"status":  complaint.Status,
				"message": "Complaint submitted successfully. Keep this code to track your complaint.",
			})
			return
		}
		if !isDuplicateKeyError(err) {
			log.Printf("Failed to insert complaint: %v", err)
			JSONError(w, http.StatusInternalServerError, "Failed to submit complaint")
			return
		}
		log.Printf("Tracking code collision on %s, retrying", code)
	}

	JSONError(w, http.StatusInternalServerError, "Failed to submit complaint")
}

// ── Public: tracking ───────────────────────────────────────────

// TrackByCode handles GET /api/complaints/track/{code}.
// The code is the only credential a complainant holds; the response
// includes the full record they submitted plus its current status.
func (h *ComplaintHandler) TrackByCode(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var complaint models.Complaint
	err := scanComplaint(pool.QueryRow(ctx, `
		SELECT `+complaintCols+` FROM complaints WHERE code = $1
	`, code), &complaint)
	if err != nil {
		JSONError(w, http.StatusNotFound, "No complaint found for this code")
		return
	}

	JSON(w, http.StatusOK, complaint)
}

// ── Staff: list / detail ───────────────────────────────────────

// List handles GET /api/complaints with optional ?status= filter and
// limit/offset pagination.
func (h *ComplaintHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit <= 0 || limit > 100 {
		limit = 25
	}
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))
	if offset < 0 {
		offset = 0
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	argIdx := 1

	if status := r.URL.Query().Get("status"); status != "" {
		if !models.ValidStatuses[status] {
			JSONError(w, http.StatusBadRequest, "Unknown status filter")
			return
		}
		where += " AND status = $" + strconv.Itoa(argIdx)
		args = append(args, status)
		argIdx++
	}

	var total int
	if err := pool.QueryRow(ctx, "SELECT COUNT(*) FROM complaints "+where, args...).Scan(&total); err != nil {
		log.Printf("Failed to count complaints: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}

	query := "SELECT " + complaintCols + " FROM complaints " + where +
		" ORDER BY created_at DESC LIMIT $" + strconv.Itoa(argIdx) +
		" OFFSET $" + strconv.Itoa(argIdx+1)
	args = append(args, limit, offset)

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Failed to list complaints: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch complaints")
		return
	}
	defer rows.Close()

	complaints := []models.Complaint{}
	for rows.Next() {
		var c models.Complaint
		if err := scanComplaint(rows, &c); err != nil {
			log.Printf("Failed to scan complaint: %v", err)
			continue
		}
		complaints = append(complaints, c)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":       complaints,
		"total":      total,
		"totalPages": int(math.Ceil(float64(total) / float64(limit))),
	})
}

// GetByID handles GET /api/complaints/{id} for staff.
func (h *ComplaintHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	var complaint models.Complaint
	err := scanComplaint(pool.QueryRow(ctx, `
		SELECT `+complaintCols+` FROM complaints WHERE id = $1
	`, id), &complaint)
	if err != nil {
		JSONError(w, http.StatusNotFound, "Complaint not found")
		return
	}

	JSON(w, http.StatusOK, complaint)
}

// ── Staff: status workflow ─────────────────────────────────────

// UpdateStatus handles PATCH /api/complaints/{id}/status.
// The change is recorded in complaint_history.
func (h *ComplaintHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.UpdateStatusRequest
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

	var complaint models.Complaint
	err := scanComplaint(pool.QueryRow(ctx, `
		UPDATE complaints SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+complaintCols,
		req.Status, id), &complaint)
	if err != nil {
		JSONError(w, http.StatusNotFound, "Complaint not found")
		return
	}

	userID, _ := r.Context().Value(ctxkeys.UserID).(string)
	go logHistory(pool, id, userID, "status_change", "Status changed to "+req.Status)

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    complaint,
		"message": "Status updated successfully",
	})
}
