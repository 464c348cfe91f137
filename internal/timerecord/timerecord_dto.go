package timerecord

type ClockInRequest struct {
	JobID string `json:"job_id" binding:"required,uuid"`
}

type TimeRecordResponse struct {
	ID                string `json:"id"`
	EmployeeID        string `json:"employee_id"`
	JobID             string `json:"job_id,omitempty"`
	PayRate           string `json:"pay_rate"`
	TimeStart         string `json:"time_start"`
	TimeEnd           string `json:"time_end,omitempty"`
	TotalTimeSeconds  int64  `json:"total_time_seconds"`
	ProjectedEarnings string `json:"projected_earnings"`
	IsApproved        bool   `json:"is_approved"`
}

// TimeSummaryResponse aggregates an employee's completed records over
// an optional date range. Total time is rounded to pay blocks;
// earnings keep the exact decimal value.
type TimeSummaryResponse struct {
	TotalTimeSeconds  int64  `json:"total_time_seconds"`
	ProjectedEarnings string `json:"projected_earnings"`
	RecordCount       int    `json:"record_count"`
}
