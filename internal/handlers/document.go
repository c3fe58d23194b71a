package handlers

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Ergy12/inspection-du-travail/internal/ctxkeys"
	"github.com/Ergy12/inspection-du-travail/internal/database"
	"github.com/Ergy12/inspection-du-travail/internal/models"
	"github.com/Ergy12/inspection-du-travail/internal/storage"
)

// Allowed file types and size limit for complaint document uploads.
const maxUploadSize = 10 << 20 // 10 MB

var allowedTypes = map[string]bool{
	"application/pdf": true,
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
}

// DocumentHandler attaches uploaded files (summons, evidence, scanned
// letters) to complaints. It depends on the storage.Store interface,
// not a specific backend.
type DocumentHandler struct {
	db       database.Service
	store    storage.Store
	localDir string // where ServeFile reads from when storage is local
}

func NewDocumentHandler(db database.Service, store storage.Store, localDir string) *DocumentHandler {
	return &DocumentHandler{db: db, store: store, localDir: localDir}
}

// ListByComplaint handles GET /api/complaints/{id}/documents.
func (h *DocumentHandler) ListByComplaint(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()

	rows, err := pool.Query(ctx, `
		SELECT id, complaint_id, name, type, url, uploaded_by::text, created_at::text
		FROM complaint_documents
		WHERE complaint_id = $1
		ORDER BY created_at DESC
	`, complaintID)
	if err != nil {
		log.Printf("Failed to list documents: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to fetch documents")
		return
	}
	defer rows.Close()

	documents := []models.ComplaintDocument{}
	for rows.Next() {
		var d models.ComplaintDocument
		if err := rows.Scan(&d.ID, &d.ComplaintID, &d.Name, &d.Type, &d.URL, &d.UploadedBy, &d.CreatedAt); err != nil {
			log.Printf("Failed to scan document: %v", err)
			continue
		}
		documents = append(documents, d)
	}

	JSON(w, http.StatusOK, map[string]interface{}{"data": documents})
}

// Upload handles POST /api/complaints/{id}/documents with
// multipart/form-data containing a "file" field.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	complaintID := chi.URLParam(r, "id")

	// Enforce size limit before reading body
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		JSONError(w, http.StatusBadRequest, "File too large. Maximum size is 10MB.")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		JSONError(w, http.StatusBadRequest, "Missing 'file' field in form data.")
		return
	}
	defer file.Close()

	// Validate file type by reading the first 512 bytes (MIME sniffing)
	buffer := make([]byte, 512)
	n, err := file.Read(buffer)
	if err != nil && err != io.EOF {
		JSONError(w, http.StatusBadRequest, "Could not read file.")
		return
	}
	contentType := http.DetectContentType(buffer[:n])

	if !allowedTypes[contentType] {
		JSONError(w, http.StatusBadRequest, fmt.Sprintf(
			"File type '%s' not allowed. Accepted: PDF, JPG, PNG.", contentType,
		))
		return
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		JSONError(w, http.StatusInternalServerError, "Failed to process file.")
		return
	}

	// Object keys are complaints/<complaintID>/<uuid>_<name> — the UUID
	// prevents collisions between files with the same original name.
	safeName := sanitizeFilename(header.Filename)
	storagePath := fmt.Sprintf("complaints/%s/%s_%s", complaintID, uuid.NewString(), safeName)

	info, err := h.store.Save(r.Context(), storagePath, file, contentType)
	if err != nil {
		log.Printf("Upload failed: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to save file.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	pool := h.db.GetPool()
	userID, _ := r.Context().Value(ctxkeys.UserID).(string)

	var doc models.ComplaintDocument
	err = pool.QueryRow(ctx, `
		INSERT INTO complaint_documents (complaint_id, name, type, url, uploaded_by)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, complaint_id, name, type, url, uploaded_by::text, created_at::text
	`, complaintID, safeName, contentType, info.URL, nilIfEmpty(userID),
	).Scan(&doc.ID, &doc.ComplaintID, &doc.Name, &doc.Type, &doc.URL, &doc.UploadedBy, &doc.CreatedAt)
	if err != nil {
		// The file is orphaned if the row insert fails; remove it.
		if delErr := h.store.Delete(ctx, storagePath); delErr != nil {
			log.Printf("Failed to clean up orphaned upload %s: %v", storagePath, delErr)
		}
		if isForeignKeyError(err) {
			JSONError(w, http.StatusNotFound, "Complaint not found")
			return
		}
		log.Printf("Failed to record document: %v", err)
		JSONError(w, http.StatusInternalServerError, "Failed to save document")
		return
	}

	go logHistory(pool, complaintID, userID, "document_upload", "Document uploaded: "+safeName)

	JSON(w, http.StatusCreated, map[string]interface{}{
		"data":    doc,
		"message": "Document uploaded successfully",
	})
}

// ServeFile serves uploaded files.
// For R2 storage, redirects to the public CDN URL.
// For local storage, serves from disk.
func (h *DocumentHandler) ServeFile(w http.ResponseWriter, r *http.Request) {
	filePath := strings.TrimPrefix(r.URL.Path, "/api/files/")
	if filePath == "" {
		JSONError(w, http.StatusBadRequest, "File path required.")
		return
	}

	if url := h.store.URL(filePath); strings.HasPrefix(url, "https://") {
		http.Redirect(w, r, url, http.StatusTemporaryRedirect)
		return
	}

	http.ServeFile(w, r, filepath.Join(h.localDir, filepath.Clean(filePath)))
}

// sanitizeFilename removes path separators and unsafe characters.
func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, " ", "_")
	return name
}
