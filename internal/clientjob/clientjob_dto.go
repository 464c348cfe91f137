package clientjob

type CreateJobRequest struct {
	Name        string `json:"name" binding:"required"`
	PayRate     string `json:"pay_rate" binding:"required"`
	Description string `json:"description"`
}

type UpdateJobRequest struct {
	Name        string `json:"name" binding:"required"`
	PayRate     string `json:"pay_rate" binding:"required"`
	Description string `json:"description"`
}

type JobResponse struct {
	ID          string `json:"id"`
	ClientID    int64  `json:"client_id"`
	Name        string `json:"name"`
	PayRate     string `json:"pay_rate"`
	Description string `json:"description,omitempty"`
	Slug        string `json:"slug"`
}

// JobOption is the trimmed form used to populate clock-in job pickers.
type JobOption struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
