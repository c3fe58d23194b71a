package models

import (
	"encoding/json"
	"regexp"
	"time"
	"unicode/utf8"
)

// Complaint is a citizen-filed labor complaint. Complainants are not
// authenticated; the generated code is their only handle on the record.
type Complaint struct {
	ID               string           `json:"id"`
	Code             string           `json:"code"`
	Status           string           `json:"status"`
	PersonalInfo     PersonalInfo     `json:"personalInfo"`
	ProfessionalInfo ProfessionalInfo `json:"professionalInfo"`
	ComplaintInfo    ComplaintInfo    `json:"complaintInfo"`
	CreatedAt        string           `json:"createdAt"`
	UpdatedAt        string           `json:"updatedAt"`
}

// PersonalInfo identifies the complainant.
type PersonalInfo struct {
	Email         string `json:"email"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	MiddleName    string `json:"middleName"`
	Age           int    `json:"age"`
	Gender        string `json:"gender"`
	MaritalStatus string `json:"maritalStatus"`
	Address       string `json:"address"`
	Phone         string `json:"phone"`
}

// ProfessionalInfo describes the employment the complaint is about.
type ProfessionalInfo struct {
	CompanyName       string `json:"companyName"`
	Position          string `json:"position"`
	ContractStartYear int    `json:"contractStartYear"`
	CompanyAddress    string `json:"companyAddress"`
}

// ComplaintInfo is the substance of the complaint.
type ComplaintInfo struct {
	Reason  string `json:"reason"`
	Details string `json:"details"`
}

// ValidStatuses is the complaint workflow vocabulary.
var ValidStatuses = map[string]bool{
	"received":    true,
	"pending":     true,
	"in_progress": true,
	"resolved":    true,
	"classified":  true,
}

var validGenders = map[string]bool{"male": true, "female": true, "other": true}

var validMaritalStatuses = map[string]bool{
	"single":   true,
	"married":  true,
	"divorced": true,
	"widowed":  true,
}

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// ── Submission ─────────────────────────────────────────────────

// SubmitComplaintRequest is the public complaint form payload.
// Numeric fields are json.Number so that fractional or out-of-range
// input surfaces as a field error instead of failing the whole decode.
type SubmitComplaintRequest struct {
	PersonalInfo struct {
		Email         string      `json:"email"`
		FirstName     string      `json:"firstName"`
		LastName      string      `json:"lastName"`
		MiddleName    string      `json:"middleName"`
		Age           json.Number `json:"age"`
		Gender        string      `json:"gender"`
		MaritalStatus string      `json:"maritalStatus"`
		Address       string      `json:"address"`
		Phone         string      `json:"phone"`
	} `json:"personalInfo"`
	ProfessionalInfo struct {
		CompanyName       string      `json:"companyName"`
		Position          string      `json:"position"`
		ContractStartYear json.Number `json:"contractStartYear"`
		CompanyAddress    string      `json:"companyAddress"`
	} `json:"professionalInfo"`
	ComplaintInfo struct {
		Reason  string `json:"reason"`
		Details string `json:"details"`
	} `json:"complaintInfo"`
}

// Validate checks every field rule and returns one message per invalid
// field, keyed by field path. It is pure: no I/O, no mutation, and the
// same input always yields the same result. An empty map means the
// submission is accepted as a whole.
func (r *SubmitComplaintRequest) Validate() map[string]string {
	errors := map[string]string{}
	p := &r.PersonalInfo

	if !emailRe.MatchString(p.Email) {
		errors["personalInfo.email"] = "A valid email address is required"
	}
	if utf8.RuneCountInString(p.FirstName) < 2 {
		errors["personalInfo.firstName"] = "First name must be at least 2 characters"
	}
	if utf8.RuneCountInString(p.LastName) < 2 {
		errors["personalInfo.lastName"] = "Last name must be at least 2 characters"
	}
	// middleName is optional — no rule.

	if age, err := p.Age.Int64(); err != nil {
		errors["personalInfo.age"] = "Age must be a whole number"
	} else if age < 18 {
		errors["personalInfo.age"] = "You must be at least 18 years old"
	} else if age > 100 {
		errors["personalInfo.age"] = "Age is invalid"
	}

	if !validGenders[p.Gender] {
		errors["personalInfo.gender"] = "Gender must be 'male', 'female' or 'other'"
	}
	if !validMaritalStatuses[p.MaritalStatus] {
		errors["personalInfo.maritalStatus"] = "Please select your marital status"
	}
	if utf8.RuneCountInString(p.Address) < 5 {
		errors["personalInfo.address"] = "Address must be at least 5 characters"
	}
	if utf8.RuneCountInString(p.Phone) < 10 {
		errors["personalInfo.phone"] = "Phone number must be at least 10 characters"
	}

	pro := &r.ProfessionalInfo
	if utf8.RuneCountInString(pro.CompanyName) < 2 {
		errors["professionalInfo.companyName"] = "Company name must be at least 2 characters"
	}
	if utf8.RuneCountInString(pro.Position) < 2 {
		errors["professionalInfo.position"] = "Position must be at least 2 characters"
	}
	if year, err := pro.ContractStartYear.Int64(); err != nil {
		errors["professionalInfo.contractStartYear"] = "Contract start year must be a whole number"
	} else if year < 1950 || year > int64(time.Now().Year()) {
		errors["professionalInfo.contractStartYear"] = "Contract start year must be between 1950 and the current year"
	}
	if utf8.RuneCountInString(pro.CompanyAddress) < 5 {
		errors["professionalInfo.companyAddress"] = "Company address must be at least 5 characters"
	}

	c := &r.ComplaintInfo
	if utf8.RuneCountInString(c.Reason) < 5 {
		errors["complaintInfo.reason"] = "A complaint reason is required"
	}
	if details := utf8.RuneCountInString(c.Details); details < 10 {
		errors["complaintInfo.details"] = "Details must be at least 10 characters"
	} else if details > 400 {
		errors["complaintInfo.details"] = "Details must not exceed 400 characters"
	}

	return errors
}

// ── Staff operations ───────────────────────────────────────────

// UpdateStatusRequest changes a complaint's workflow status.
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// Validate checks the status against the workflow vocabulary.
func (r *UpdateStatusRequest) Validate() map[string]string {
	errors := map[string]string{}
	if !ValidStatuses[r.Status] {
		errors["status"] = "Status must be 'received', 'pending', 'in_progress', 'resolved', or 'classified'"
	}
	return errors
}

// ComplaintHistory records a staff action taken on a complaint.
type ComplaintHistory struct {
	ID          string  `json:"id"`
	ComplaintID string  `json:"complaintId"`
	UserID      *string `json:"userId"`
	Action      string  `json:"action"`
	Details     string  `json:"details"`
	CreatedAt   string  `json:"createdAt"`
}

// ComplaintAssignment links an inspector to a complaint. A removed
// assignment keeps its row with removed_at set — assignments are audit
// history, not mutable state.
type ComplaintAssignment struct {
	ID          string  `json:"id"`
	ComplaintID string  `json:"complaintId"`
	InspectorID string  `json:"inspectorId"`
	AssignedAt  string  `json:"assignedAt"`
	RemovedAt   *string `json:"removedAt"`
}

// ComplaintReport is an inspector's written report on a complaint.
type ComplaintReport struct {
	ID          string  `json:"id"`
	ComplaintID string  `json:"complaintId"`
	Content     string  `json:"content"`
	AuthorID    *string `json:"authorId"`
	CreatedAt   string  `json:"createdAt"`
}

// ComplaintDocument is an uploaded file attached to a complaint.
type ComplaintDocument struct {
	ID          string  `json:"id"`
	ComplaintID string  `json:"complaintId"`
	Name        string  `json:"name"`
	Type        string  `json:"type"`
	URL         string  `json:"url"`
	UploadedBy  *string `json:"uploadedBy"`
	CreatedAt   string  `json:"createdAt"`
}
