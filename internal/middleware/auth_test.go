package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ergy12/inspection-du-travail/internal/ctxkeys"
	"github.com/Ergy12/inspection-du-travail/internal/middleware"
)

const testSecret = "test-secret"

func signToken(t *testing.T, userID, role string) string {
	t.Helper()
	claims := jwt.MapClaims{
		"userId": userID,
		"role":   role,
		"exp":    time.Now().Add(time.Hour).Unix(),
		"iat":    time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return token
}

// okHandler records that the request made it through the middleware chain.
func okHandler(hit *bool) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*hit = true
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuth_MissingHeader(t *testing.T) {
	var hit bool
	handler := middleware.Auth(testSecret)(okHandler(&hit))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/auth/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, hit)
}

func TestAuth_MalformedHeader(t *testing.T) {
	var hit bool
	handler := middleware.Auth(testSecret)(okHandler(&hit))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Token abc123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, hit)
}

func TestAuth_WrongSecret(t *testing.T) {
	var hit bool
	handler := middleware.Auth("another-secret")(okHandler(&hit))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", "admin"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, hit)
}

func TestAuth_InjectsIdentity(t *testing.T) {
	var gotID, gotRole string
	handler := middleware.Auth(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID, _ = r.Context().Value(ctxkeys.UserID).(string)
		gotRole, _ = r.Context().Value(ctxkeys.UserRole).(string)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "user-42", "inspector"))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "user-42", gotID)
	assert.Equal(t, "inspector", gotRole)
}

// requestAs runs a request through Auth + RequireRole with the given role.
func requestAs(t *testing.T, role string, allowed []string) (int, bool) {
	t.Helper()
	var hit bool
	handler := middleware.Auth(testSecret)(
		middleware.RequireRole(allowed...)(okHandler(&hit)),
	)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "u1", role))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec.Code, hit
}

func TestRequireRole_ExactMembership(t *testing.T) {
	// An inspector may work complaints but not reference data.
	code, hit := requestAs(t, "inspector", ctxkeys.ProvinceRoles)
	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, hit)

	code, hit = requestAs(t, "inspector", ctxkeys.ComplaintStaffRoles)
	assert.Equal(t, http.StatusOK, code)
	assert.True(t, hit)
}

// Membership is a plain string match: no role implies another, so a set
// listing only "inspector" rejects super_admin too.
func TestRequireRole_NoHierarchy(t *testing.T) {
	code, hit := requestAs(t, "super_admin", []string{"inspector"})

	assert.Equal(t, http.StatusForbidden, code)
	assert.False(t, hit)
}

func TestRequireRole_PermissionSets(t *testing.T) {
	cases := []struct {
		role    string
		allowed []string
		ok      bool
	}{
		{"super_admin", ctxkeys.ProvinceRoles, true},
		{"admin", ctxkeys.ProvinceRoles, false},
		{"admin", ctxkeys.BranchRoles, true},
		{"complaint_manager", ctxkeys.BranchRoles, false},
		{"complaint_manager", ctxkeys.ComplaintStaffRoles, true},
		{"controller", ctxkeys.ComplaintStaffRoles, false},
		{"administrative", ctxkeys.UserAdminRoles, false},
	}

	for _, tc := range cases {
		code, hit := requestAs(t, tc.role, tc.allowed)
		if tc.ok {
			assert.Equal(t, http.StatusOK, code, "%s should be permitted", tc.role)
			assert.True(t, hit)
		} else {
			assert.Equal(t, http.StatusForbidden, code, "%s should be rejected", tc.role)
			assert.False(t, hit)
		}
	}
}
