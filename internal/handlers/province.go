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

// ProvinceHandler handles province reference-data requests.
type ProvinceHandler struct {
	db database.Service
}

// NewProvinceHandler creates a new ProvinceHandler.
func NewProvinceHandler(db database.Service) *ProvinceHandler {
	return &ProvinceHandler{db: db}
}

// ── List ───────────────────────────────────────────────────────

// List returns all provinces ordered by name, with a count of attached
// directions so the admin table can warn before a blocked delete.
func (h *ProvinceHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT p.id, p.name, p.created_at::text, p.updated_at::text,
			COUNT(d.id) AS direction_count
		FROM provinces p
		LEFT JOIN directions d ON d.province_id = p.id
		GROUP BY p.id, p.name, p.created_at, p.updated_at
		ORDER BY p.name ASC
	`)
	if err != nil {
		log.Printf("Error fetching provinces: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch provinces")
		return
	}
	defer rows.Close()

	type ProvinceWithCount struct {
		models.Province
		DirectionCount int `json:"directionCount"`
	}

	provinces := []ProvinceWithCount{}
	for rows.Next() {
		var p ProvinceWithCount
		if err := rows.Scan(&p.ID, &p.Name, &p.CreatedAt, &p.UpdatedAt, &p.DirectionCount); err != nil {
			log.Printf("Error scanning province: %v", err)
			continue
		}
		provinces = append(provinces, p)
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data": provinces,
	})
}

// ── Create ─────────────────────────────────────────────────────

// Create adds a new province.
func (h *ProvinceHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.ProvinceRequest
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

	var province models.Province
	err := pool.QueryRow(ctx, `
		INSERT INTO provinces (name)
		VALUES ($1)
		RETURNING id, name, created_at::text, updated_at::text
	`, req.Name,
	).Scan(&province.ID, &province.Name, &province.CreatedAt, &province.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A province with this name already exists")
			return
		}
		log.Printf("Error creating province: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to create province")
		return
	}

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    province,
		"message": "Province created successfully",
	})
}

// ── Update ─────────────────────────────────────────────────────

// Update renames a province.
func (h *ProvinceHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req models.ProvinceRequest
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

	var province models.Province
	err := pool.QueryRow(ctx, `
		UPDATE provinces SET name = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING id, name, created_at::text, updated_at::text
	`, req.Name, id,
	).Scan(&province.ID, &province.Name, &province.CreatedAt, &province.UpdatedAt)
	if err != nil {
		if isDuplicateKeyError(err) {
			JSONError(w, http.StatusConflict, "A province with this name already exists")
			return
		}
		JSONError(w, http.StatusNotFound, "Province not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"data":    province,
		"message": "Province updated successfully",
	})
}

// ── Delete ─────────────────────────────────────────────────────

// Delete removes a province. Blocked while directions still reference it.
func (h *ProvinceHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	result, err := pool.Exec(ctx, "DELETE FROM provinces WHERE id = $1", id)
	if err != nil {
		if isForeignKeyError(err) {
			JSONError(w, http.StatusConflict, "Cannot delete a province that still has directions")
			return
		}
		log.Printf("Error deleting province: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to delete province")
		return
	}

	if result.RowsAffected() == 0 {
		JSONError(w, http.StatusNotFound, "Province not found")
		return
	}

	JSON(w, http.StatusOK, map[string]interface{}{
		"message": "Province deleted successfully",
	})
}
