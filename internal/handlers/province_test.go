package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Validation runs before any database call, so these paths can be
// exercised with a nil database service: reaching the pool would panic
// and fail the test.

func TestProvinceCreate_EmptyName(t *testing.T) {
	h := NewProvinceHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/provinces", strings.NewReader(`{"name":""}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "name")
}

func TestProvinceCreate_InvalidJSON(t *testing.T) {
	h := NewProvinceHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/provinces", strings.NewReader(`{`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDirectionCreate_MissingParent(t *testing.T) {
	h := NewDirectionHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/directions",
		strings.NewReader(`{"name":"Direction Provinciale de Kinshasa"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "province_id")
}

func TestBranchCreate_MissingParent(t *testing.T) {
	h := NewBranchHandler(nil)

	req := httptest.NewRequest(http.MethodPost, "/api/branches",
		strings.NewReader(`{"name":"Antenne de Gombe"}`))
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "direction_id")
}
