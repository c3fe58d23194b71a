package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ergy12/inspection-du-travail/internal/models"
)

func TestRegisterValidate(t *testing.T) {
	req := models.RegisterRequest{
		Email:     "agent@travail.gouv.cd",
		Password:  "secret123",
		FirstName: "Marie",
		LastName:  "Kabongo",
	}
	assert.Empty(t, req.Validate())

	req.Email = "not-an-email"
	assert.Contains(t, req.Validate(), "email")

	req.Email = "agent@travail.gouv.cd"
	req.Password = "short"
	assert.Contains(t, req.Validate(), "password")

	req.Password = "secret123"
	req.FirstName = ""
	assert.Contains(t, req.Validate(), "first_name")
}

func TestUpdateRoleValidate(t *testing.T) {
	for _, role := range []string{"super_admin", "admin", "complaint_manager", "inspector", "controller", "administrative"} {
		req := models.UpdateRoleRequest{Role: role}
		assert.Empty(t, req.Validate(), role)
	}

	req := models.UpdateRoleRequest{Role: "viewer"}
	assert.Contains(t, req.Validate(), "role")
}

func TestLoginValidate(t *testing.T) {
	req := models.LoginRequest{Email: "agent@travail.gouv.cd", Password: "secret123"}
	assert.Empty(t, req.Validate())

	req.Password = ""
	assert.Contains(t, req.Validate(), "password")
}
