package handlers

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJSONError(t *testing.T) {
	rec := httptest.NewRecorder()

	JSONError(rec, 404, "Province not found")

	assert.Equal(t, 404, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Province not found", body["error"])
}

func TestValidationError(t *testing.T) {
	rec := httptest.NewRecorder()

	ValidationError(rec, map[string]string{
		"personalInfo.age": "You must be at least 18 years old",
	})

	assert.Equal(t, 422, rec.Code)

	var body struct {
		Error   string            `json:"error"`
		Details map[string]string `json:"details"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Error)
	assert.Contains(t, body.Details, "personalInfo.age")
}

func TestIsDuplicateKeyError(t *testing.T) {
	assert.False(t, isDuplicateKeyError(nil))
	assert.False(t, isDuplicateKeyError(errors.New("connection refused")))
	assert.True(t, isDuplicateKeyError(errors.New(`ERROR: duplicate key value violates unique constraint "provinces_name_key" (SQLSTATE 23505)`)))
}

func TestIsForeignKeyError(t *testing.T) {
	assert.False(t, isForeignKeyError(nil))
	assert.False(t, isForeignKeyError(errors.New("connection refused")))
	assert.True(t, isForeignKeyError(errors.New(`ERROR: update or delete on table "provinces" violates foreign key constraint (SQLSTATE 23503)`)))
}

func TestNilIfEmpty(t *testing.T) {
	assert.Nil(t, nilIfEmpty(""))
	assert.Equal(t, "abc", nilIfEmpty("abc"))
}
