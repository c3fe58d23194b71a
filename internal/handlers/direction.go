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

// DirectionHandler handles direction reference-data requests.
type DirectionHandler struct {
	db database.Service
}

// NewDirectionHandler creates a new DirectionHandler.
func NewDirectionHandler(db database.Service) *DirectionHandler {
	return &DirectionHandler{db: db}
}

// ── List ───────────────────────────────────────────────────────

// List returns all directions ordered by name, with parent province name
// and branch count.
func (h *DirectionHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT d.id, d.name, d.province_id, d.address,
			d.created_at::text, d.updated_at::text,
			p.name AS province_name,
			COUNT(b.id) AS branch_count
		FROM directions d
		JOIN provinces p ON p.id = d.province_id
		LEFT JOIN branches b ON b.direction_id = d.id
		GROUP BY d.id, d.name, d.province_id, d.address,
			d.created_at, d.updated_at, p.name
		ORDER BY d.name ASC
	`)
	if err != nil {
		log.Printf("Error fetching directions: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch directions")
		return
	}
	defer rows.Close()

	type DirectionWithDetails struct {
		models.Direction
		ProvinceName string `json:"provinceName"`
		BranchCount  int    `json:"branchCount"`
	}

	directions := []DirectionWithDetails{}
	for rows.Next() {
		var d DirectionWithDetails
		if err := rows.Scan(
			&d.ID, &d.Name, &d.ProvinceID, &d.Address,
			&d.CreatedAt, &d.UpdatedAt,
			&d.ProvinceName, &d.BranchCount,
		); err != nil {
			log.Printf("Error scanning direction: %v", err)
			continue
		}
		directions = append(directions, d)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": directions,
	})
}

// ── Create ─────────────────────────────────────────────────────

// Create adds a new direction under a province.
func (h *DirectionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.DirectionRequest
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

	var direction models.Direction
	err := pool.QueryRow(ctx, `
		INSERT INTO directions (name, province_id, address)
		VALUES ($1, $2, $3)
		RETURNING id, name, province_id, address, created_at::text, updated_at::text
	`, req.Name, req.ProvinceID, req.Address,
	).Scan(
		&direction.ID, &direction.Name, &direction.ProvinceID,
		&direction.Address, &direction.CreatedAt, &direction.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A direction with this name already exists")
			return
		}
		if isForeignKeyError(err) {
			JSONError(w, http.StatusUnprocessableEntity, "Parent province does not exist")
			return
		}
		log.Printf("Error creating direction: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create direction")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    direction,
		"message": "Direction created successfully",
	})
}

// ── Update ─────────────────────────────────────────────────────

// Update modifies a direction's name, parent province, or address.
func (h *DirectionHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.DirectionRequest
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

	var direction models.Direction
	err := pool.QueryRow(ctx, `
		UPDATE directions SET name = $1, province_id = $2, address = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING id, name, province_id, address, created_at::text, updated_at::text
	`, req.Name, req.ProvinceID, req.Address, id,
	).Scan(
		&direction.ID, &direction.Name, &direction.ProvinceID,
		&direction.Address, &direction.CreatedAt, &direction.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A direction with this name already exists")
			return
		}
		if isForeignKeyError(err) {
			JSONError(w, http.StatusUnprocessableEntity, "Parent province does not exist")
			return
		}
		JSONError(w, http.StatusNotFound, "Direction not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    direction,
		"message": "Direction updated successfully",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete removes a direction. Blocked while branches still reference it.
func (h *DirectionHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	result, err := pool.Exec(ctx, "DELETE FROM directions WHERE id = $1", id)
	if err != nil {
		if isForeignKeyError(err) {
			JSONError(w, http.StatusConflict, "Cannot delete a direction that still has branches")
			return
		}
		log.Printf("Error deleting direction: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete direction")
		return
	}

	if result.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Direction not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Direction deleted successfully",
	})
}
