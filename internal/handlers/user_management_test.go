package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"

	"github.com/Ergy12/inspection-du-travail/internal/ctxkeys"
)

// The permission guards run before any database call, so these paths can
// be exercised with a nil database service: reaching the pool would panic
// and fail the test.

// adminRequest builds a request carrying an authenticated identity and a
// {id} route parameter, as the middleware and router would.
func adminRequest(method, target, body, userID, role, targetID string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))

	ctx := context.WithValue(req.Context(), ctxkeys.UserID, userID)
	ctx = context.WithValue(ctx, ctxkeys.UserRole, role)

	rctx := chi.NewRouteContext()
	rctx.URLParams.Add("id", targetID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, rctx)

	return req.WithContext(ctx)
}

func TestUpdateRole_SelfChangeBlocked(t *testing.T) {
	h := NewUserManagementHandler(nil)

	req := adminRequest(http.MethodPatch, "/api/users/u1/role",
		`{"role":"inspector"}`, "u1", "super_admin", "u1")
	rec := httptest.NewRecorder()
	h.UpdateRole(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "own role")
}

// Only super_admin may hand out the admin and super_admin roles.
func TestUpdateRole_AdminCannotGrantAdmin(t *testing.T) {
	h := NewUserManagementHandler(nil)

	for _, granted := range []string{"admin", "super_admin"} {
		req := adminRequest(http.MethodPatch, "/api/users/u2/role",
			`{"role":"`+granted+`"}`, "u1", "admin", "u2")
		rec := httptest.NewRecorder()
		h.UpdateRole(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code, "granting %s", granted)
	}
}

func TestUpdateRole_UnknownRole(t *testing.T) {
	h := NewUserManagementHandler(nil)

	req := adminRequest(http.MethodPatch, "/api/users/u2/role",
		`{"role":"viewer"}`, "u1", "super_admin", "u2")
	rec := httptest.NewRecorder()
	h.UpdateRole(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestSetActive_SelfDeactivationBlocked(t *testing.T) {
	h := NewUserManagementHandler(nil)

	req := adminRequest(http.MethodPatch, "/api/users/u1/active",
		`{"is_active":false}`, "u1", "super_admin", "u1")
	rec := httptest.NewRecorder()
	h.SetActive(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "own account")
}

func TestDelete_SelfDeleteBlocked(t *testing.T) {
	h := NewUserManagementHandler(nil)

	req := adminRequest(http.MethodDelete, "/api/users/u1",
		``, "u1", "super_admin", "u1")
	rec := httptest.NewRecorder()
	h.Delete(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
