package models

// Invitation is a notification to a complainant (meeting summons, new
// document, ...). Created by staff, read by the complainant on the
// tracking page. Never deleted; only the is_read flag changes.
type Invitation struct {
	ID          string `json:"id"`
	ComplaintID string `json:"complaintId"`
	Message     string `json:"message"`
	IsRead      bool   `json:"isRead"`
	CreatedAt   string `json:"createdAt"`
}

// CreateInvitationRequest is the staff-side payload for notifying a
// complainant.
type CreateInvitationRequest struct {
	Message string `json:"message"`
}

func (r *CreateInvitationRequest) Validate() map[string]string {
	errors := map[string]string{}
	if r.Message == "" {
		errors["message"] = "A message is required"
	}
	return errors
}
