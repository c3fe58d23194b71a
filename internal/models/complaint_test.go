package models_test

import (
	"encoding/json"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ergy12/inspection-du-travail/internal/models"
)

// validSubmission returns a submission that satisfies every field rule.
func validSubmission() models.SubmitComplaintRequest {
	var r models.SubmitComplaintRequest
	r.PersonalInfo.Email = "jean.dupont@example.com"
	r.PersonalInfo.FirstName = "Jean"
	r.PersonalInfo.LastName = "Dupont"
	r.PersonalInfo.MiddleName = ""
	r.PersonalInfo.Age = json.Number("35")
	r.PersonalInfo.Gender = "male"
	r.PersonalInfo.MaritalStatus = "married"
	r.PersonalInfo.Address = "123 Rue Exemple, Kinshasa"
	r.PersonalInfo.Phone = "+243123456789"
	r.ProfessionalInfo.CompanyName = "Entreprise ABC"
	r.ProfessionalInfo.Position = "Technicien"
	r.ProfessionalInfo.ContractStartYear = json.Number("2020")
	r.ProfessionalInfo.CompanyAddress = "456 Avenue Business"
	r.ComplaintInfo.Reason = "Conditions de travail inadéquates"
	r.ComplaintInfo.Details = "Les conditions de sécurité ne sont pas respectées sur le lieu de travail."
	return r
}

func TestSubmitValidate_AcceptsValidSubmission(t *testing.T) {
	req := validSubmission()

	errs := req.Validate()

	assert.Empty(t, errs, "a fully valid submission must produce zero errors")
}

func TestSubmitValidate_MiddleNameIsOptional(t *testing.T) {
	req := validSubmission()
	req.PersonalInfo.MiddleName = ""

	assert.Empty(t, req.Validate())
}

func TestSubmitValidate_IsPure(t *testing.T) {
	req := validSubmission()
	req.PersonalInfo.Age = json.Number("17")

	first := req.Validate()
	second := req.Validate()

	assert.Equal(t, first, second, "same input must yield identical results")
}

// Each case breaks exactly one rule and must produce exactly one error,
// on that field only.
func TestSubmitValidate_SingleFieldErrors(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*models.SubmitComplaintRequest)
		field  string
	}{
		{"bad email", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Email = "not-an-email" }, "personalInfo.email"},
		{"short first name", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.FirstName = "J" }, "personalInfo.firstName"},
		{"short last name", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.LastName = "D" }, "personalInfo.lastName"},
		{"age below minimum", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Age = json.Number("17") }, "personalInfo.age"},
		{"age above maximum", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Age = json.Number("101") }, "personalInfo.age"},
		{"non-numeric age", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Age = json.Number("abc") }, "personalInfo.age"},
		{"fractional age", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Age = json.Number("18.5") }, "personalInfo.age"},
		{"unknown gender", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Gender = "unknown" }, "personalInfo.gender"},
		{"missing marital status", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.MaritalStatus = "" }, "personalInfo.maritalStatus"},
		{"short address", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Address = "Rue" }, "personalInfo.address"},
		{"short phone", func(r *models.SubmitComplaintRequest) { r.PersonalInfo.Phone = "12345" }, "personalInfo.phone"},
		{"short company name", func(r *models.SubmitComplaintRequest) { r.ProfessionalInfo.CompanyName = "A" }, "professionalInfo.companyName"},
		{"short position", func(r *models.SubmitComplaintRequest) { r.ProfessionalInfo.Position = "X" }, "professionalInfo.position"},
		{"contract year too early", func(r *models.SubmitComplaintRequest) { r.ProfessionalInfo.ContractStartYear = json.Number("1949") }, "professionalInfo.contractStartYear"},
		{"contract year in future", func(r *models.SubmitComplaintRequest) {
			r.ProfessionalInfo.ContractStartYear = json.Number(strconv.Itoa(time.Now().Year() + 1))
		}, "professionalInfo.contractStartYear"},
		{"short company address", func(r *models.SubmitComplaintRequest) { r.ProfessionalInfo.CompanyAddress = "456" }, "professionalInfo.companyAddress"},
		{"short reason", func(r *models.SubmitComplaintRequest) { r.ComplaintInfo.Reason = "Abus" }, "complaintInfo.reason"},
		{"short details", func(r *models.SubmitComplaintRequest) { r.ComplaintInfo.Details = "Trop court" }, "complaintInfo.details"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := validSubmission()
			tc.mutate(&req)

			errs := req.Validate()

			require.Len(t, errs, 1, "exactly one field must be rejected")
			assert.Contains(t, errs, tc.field)
			assert.NotEmpty(t, errs[tc.field])
		})
	}
}

func TestSubmitValidate_AgeBoundaries(t *testing.T) {
	req := validSubmission()

	req.PersonalInfo.Age = json.Number("17")
	errs := req.Validate()
	require.Contains(t, errs, "personalInfo.age")
	assert.Contains(t, errs["personalInfo.age"], "18", "message must mention the minimum age")

	req.PersonalInfo.Age = json.Number("18")
	assert.Empty(t, req.Validate(), "18 is the inclusive minimum")

	req.PersonalInfo.Age = json.Number("100")
	assert.Empty(t, req.Validate(), "100 is the inclusive maximum")
}

func TestSubmitValidate_DetailsBoundaries(t *testing.T) {
	req := validSubmission()

	req.ComplaintInfo.Details = strings.Repeat("a", 400)
	assert.Empty(t, req.Validate(), "exactly 400 characters is accepted")

	req.ComplaintInfo.Details = strings.Repeat("a", 401)
	errs := req.Validate()
	require.Len(t, errs, 1)
	assert.Contains(t, errs, "complaintInfo.details")

	req.ComplaintInfo.Details = strings.Repeat("a", 10)
	assert.Empty(t, req.Validate(), "exactly 10 characters is accepted")

	req.ComplaintInfo.Details = strings.Repeat("a", 9)
	assert.Contains(t, req.Validate(), "complaintInfo.details")
}

// Character counts are rune counts: 400 accented characters occupy more
// than 400 bytes but still pass.
func TestSubmitValidate_DetailsCountsRunes(t *testing.T) {
	req := validSubmission()
	req.ComplaintInfo.Details = strings.Repeat("é", 400)

	assert.Empty(t, req.Validate())
}

func TestSubmitValidate_ReportsAllErrorsAtOnce(t *testing.T) {
	var req models.SubmitComplaintRequest // everything empty

	errs := req.Validate()

	// Every required field except the optional middle name is invalid.
	assert.Contains(t, errs, "personalInfo.email")
	assert.Contains(t, errs, "personalInfo.age")
	assert.Contains(t, errs, "complaintInfo.details")
	assert.NotContains(t, errs, "personalInfo.middleName")
	assert.GreaterOrEqual(t, len(errs), 10)
}

func TestUpdateStatusValidate(t *testing.T) {
	for status := range models.ValidStatuses {
		req := models.UpdateStatusRequest{Status: status}
		assert.Empty(t, req.Validate(), status)
	}

	req := models.UpdateStatusRequest{Status: "archived"}
	assert.Contains(t, req.Validate(), "status")
}
