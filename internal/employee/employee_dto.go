package employee

type CreateEmployeeRequest struct {
	UserID       string `json:"user_id" binding:"required,uuid"`
	AgencyID     string `json:"agency_id" binding:"required,uuid"`
	SupervisorID string `json:"supervisor_id" binding:"omitempty,uuid"`
}

type EmployeeResponse struct {
	ID           string `json:"id"`
	EmployeeID   int64  `json:"employee_id"`
	ClientID     int64  `json:"client_id"`
	AgencyID     string `json:"agency_id"`
	UserID       string `json:"user_id"`
	SupervisorID string `json:"supervisor_id,omitempty"`
	IsActive     bool   `json:"is_active"`
	TimeApproved string `json:"time_approved,omitempty"`
	CreatedAt    string `json:"created_at"`
}

// EmployeeDetailResponse adds the derived clock state and total worked
// time to the base response.
type EmployeeDetailResponse struct {
	EmployeeResponse
	IsClockedIn      bool  `json:"is_clocked_in"`
	TotalTimeSeconds int64 `json:"total_time_seconds"`
}
