package agency

type CreateAgencyRequest struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Phone string `json:"phone"`
	Notes string `json:"notes"`
}

type JoinAgencyRequest struct {
	AgencyID string `json:"agency_id" binding:"required,uuid"`
}

type AgencyResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Phone     string `json:"phone,omitempty"`
	Notes     string `json:"notes,omitempty"`
	Slug      string `json:"slug"`
	CreatedAt string `json:"created_at"`
}

type AgencyEmployeeResponse struct {
	ID           string `json:"id"`
	AgencyID     string `json:"agency_id"`
	UserID       string `json:"user_id"`
	IsApproved   bool   `json:"is_approved"`
	TimeApproved string `json:"time_approved,omitempty"`
	CreatedAt    string `json:"created_at"`
}
