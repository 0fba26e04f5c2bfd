package model

// Tool projections: fixed, minimal shapes for agent callers. These are
// deliberately separate from the REST types so the two contracts can
// evolve independently. The jsonschema tags feed the MCP tool schemas.

// JobInfo is the simplified job shape returned by list-style tools.
type JobInfo struct {
	ID     string `json:"id" jsonschema:"unique job identifier"`
	Name   string `json:"name" jsonschema:"job name or title"`
	Status string `json:"status" jsonschema:"current job status"`
	User   string `json:"user" jsonschema:"user who submitted the job"`
}

// JobStatusResult is the fixed shape of a single-job status check.
type JobStatusResult struct {
	JobID          string `json:"job_id" jsonschema:"job identifier"`
	Status         string `json:"status" jsonschema:"current status"`
	IsRunning      bool   `json:"is_running" jsonschema:"whether the job is currently running"`
	IsCompleted    bool   `json:"is_completed" jsonschema:"whether the job is completed"`
	NeedsAttention bool   `json:"needs_attention" jsonschema:"whether the job needs human attention"`
}

// WorkloadSummary aggregates job counts for agent analysis.
type WorkloadSummary struct {
	TotalJobs     int      `json:"total_jobs" jsonschema:"total number of jobs"`
	RunningJobs   int      `json:"running_jobs" jsonschema:"number of currently running jobs"`
	CompletedJobs int      `json:"completed_jobs" jsonschema:"number of completed jobs"`
	FailedJobs    int      `json:"failed_jobs" jsonschema:"number of failed jobs"`
	ActiveUsers   []string `json:"active_users" jsonschema:"users with running jobs"`
}

// BusynessResult reports system load for submission decisions.
type BusynessResult struct {
	IsBusy         bool    `json:"is_busy" jsonschema:"whether the farm is busy"`
	TotalJobs      int     `json:"total_jobs" jsonschema:"total number of jobs"`
	RunningJobs    int     `json:"running_jobs" jsonschema:"number of running jobs"`
	LoadPercentage float64 `json:"load_percentage" jsonschema:"running share of all jobs, percent"`
	Recommendation string  `json:"recommendation" jsonschema:"whether to submit new jobs now"`
}

// Tool inputs (MCP side; the HTTP tools layer takes the same values as
// path parameters).

type StatusInput struct {
	Status string `json:"status" jsonschema:"job status to filter by"`
}

type UsernameInput struct {
	Username string `json:"username" jsonschema:"username to filter jobs by"`
}

type JobIDInput struct {
	JobID string `json:"job_id" jsonschema:"unique identifier of the job"`
}

type EmptyInput struct{}

// Tool outputs that wrap plain collections.

type JobListResult struct {
	Jobs []JobInfo `json:"jobs" jsonschema:"matching jobs"`
}

type StatusCountsResult struct {
	Counts map[string]int `json:"counts" jsonschema:"job counts keyed by status"`
}

type ActiveUsersResult struct {
	Users []string `json:"users" jsonschema:"sorted usernames with jobs in the system"`
}
