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

// BranchHandler handles branch reference-data requests.
type BranchHandler struct {
	db database.Service
}

// NewBranchHandler creates a new BranchHandler.
func NewBranchHandler(db database.Service) *BranchHandler {
	return &BranchHandler{db: db}
}

// ── List ───────────────────────────────────────────────────────

// List returns all branches ordered by name, with their parent direction name.
// Optional ?direction_id= narrows to one direction.
func (h *BranchHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	query := `
		SELECT b.id, b.name, b.direction_id, b.address,
			b.created_at::text, b.updated_at::text,
			d.name AS direction_name
		FROM branches b
		JOIN directions d ON d.id = b.direction_id
	`
	args := []interface{}{}
	if directionID := r.URL.Query().Get("direction_id"); directionID != "" {
		query += ` WHERE b.direction_id = $1`
		args = append(args, directionID)
	}
	query += ` ORDER BY b.name ASC`

	rows, err := pool.Query(ctx, query, args...)
	if err != nil {
		log.Printf("Error fetching branches: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch branches")
		return
	}
	defer rows.Close()

	type BranchWithDirection struct {
		models.Branch
		DirectionName string `json:"directionName"`
	}

	branches := []BranchWithDirection{}
	for rows.Next() {
		var b BranchWithDirection
		if err := rows.Scan(
			&b.ID, &b.Name, &b.DirectionID, &b.Address,
			&b.CreatedAt, &b.UpdatedAt, &b.DirectionName,
		); err != nil {
			log.Printf("Error scanning branch: %v", err)
			continue
		}
		branches = append(branches, b)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": branches,
	})
}

// ── Create ─────────────────────────────────────────────────────

// Create adds a new branch under a direction.
func (h *BranchHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.BranchRequest
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

	var branch models.Branch
	err := pool.QueryRow(ctx, `
		INSERT INTO branches (name, direction_id, address)
		VALUES ($1, $2, $3)
		RETURNING id, name, direction_id, address, created_at::text, updated_at::text
	`, req.Name, req.DirectionID, req.Address,
	).Scan(
		&branch.ID, &branch.Name, &branch.DirectionID,
		&branch.Address, &branch.CreatedAt, &branch.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A branch with this name already exists")
			return
		}
		if isForeignKeyError(err) {
			JSONError(w, http.StatusUnprocessableEntity, "Parent direction does not exist")
			return
		}
		log.Printf("Error creating branch: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create branch")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    branch,
		"message": "Branch created successfully",
	})
}

// ── Update ─────────────────────────────────────────────────────

// Update modifies a branch's name, parent direction, or address.
func (h *BranchHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.BranchRequest
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

	var branch models.Branch
	err := pool.QueryRow(ctx, `
		UPDATE branches SET name = $1, direction_id = $2, address = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, direction_id, address, created_at::text, updated_at::text
	`, req.Name, req.DirectionID, req.Address, id,
	).Scan(
		&branch.ID, &branch.Name, &branch.DirectionID,
		&branch.Address, &branch.CreatedAt, &branch.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A branch with this name already exists")
			return
		}
		if isForeignKeyError(err) {
			JSONError(w, http.StatusUnprocessableEntity, "Parent direction does not exist")
			return
		}
		JSONError(w, http.StatusNotFound, "Branch not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    branch,
		"message": "Branch updated successfully",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete removes a branch.
func (h *BranchHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	result, err := pool.Exec(ctx, "DELETE FROM branches WHERE id = $1", id)
	if err != nil {
		log.Printf("Error deleting branch: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete branch")
		return
	}

	if result.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Branch not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Branch deleted successfully",
	})
}
