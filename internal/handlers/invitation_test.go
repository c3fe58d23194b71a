package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func invitationRequest(method, target, body string, params map[string]string) *http.Request {
	req := httptest.NewRequest(method, target, strings.NewReader(body))

	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
}

func TestInvitationCreate_EmptyMessage(t *testing.T) {
	h := NewInvitationHandler(nil)

	req := invitationRequest(http.MethodPost, "/api/complaints/c1/invitations",
		`{"message":""}`, map[string]string{"id": "c1"})
	rec := httptest.NewRecorder()
	h.Create(rec, req)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "message")
}

// An invitation id alone is not enough to mark it read; the tracking
// code gates every public invitation operation.
func TestMarkRead_RequiresTrackingCode(t *testing.T) {
	h := NewInvitationHandler(nil)

	req := invitationRequest(http.MethodPatch, "/read",
		``, map[string]string{"id": "inv-1"})
	rec := httptest.NewRecorder()
	h.MarkRead(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
