package model

// Job statuses as reported by the render farm. The farm owns the job
// lifecycle; this service only reads and classifies.
const (
	JobStatusPending   = "Pending"
	JobStatusQueued    = "Queued"
	JobStatusRendering = "Rendering"
	JobStatusActive    = "Active"
	JobStatusCompleted = "Completed"
	JobStatusFailed    = "Failed"
	JobStatusSuspended = "Suspended"
)

// Job is the REST projection of a render farm job.
type Job struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Status   string `json:"status"`
	User     string `json:"user"`
	Pool     string `json:"pool,omitempty"`
	Region   string `json:"region,omitempty"`
	Priority int    `json:"priority,omitempty"`
	Progress int    `json:"progress,omitempty"`
}

// SubmitJobRequest is passed through to the farm; the service never
// stores submitted jobs locally.
type SubmitJobRequest struct {
	Name      string `json:"name" validate:"required"`
	User      string `json:"user" validate:"required"`
	Pool      string `json:"pool"`
	Group     string `json:"group"`
	Priority  int    `json:"priority" validate:"min=0,max=100"`
	SceneFile string `json:"scene_file"`
}

// SubmitJobResponse acknowledges a farm submission.
type SubmitJobResponse struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}

// ServiceStatus is the statistics block served by GET /{module}/status.
type ServiceStatus struct {
	ServiceAvailable bool          `json:"service_available"`
	Statistics       JobStatistics `json:"statistics"`
}

type JobStatistics struct {
	TotalJobs       int            `json:"total_jobs"`
	StatusBreakdown map[string]int `json:"status_breakdown"`
	UserBreakdown   map[string]int `json:"user_breakdown"`
	ActiveUsers     []string       `json:"active_users"`
}

// JobFilters narrows a job listing. Zero values mean "no filter";
// Limit falls back to the default when unset.
type JobFilters struct {
	Status string
	User   string
	Limit  int
}
