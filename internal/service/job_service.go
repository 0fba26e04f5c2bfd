package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/studiopipe/gateway/internal/farm"
	"github.com/studiopipe/gateway/internal/model"
)

// Listing limits for the REST projection.
const (
	DefaultJobLimit = 100
	MaxJobLimit     = 1000
)

// busyThreshold: the farm counts as busy when strictly more than this
// share of jobs is running.
const busyThreshold = 0.7

// ErrJobNotFound mirrors farm.ErrJobNotFound for handler boundaries.
var ErrJobNotFound = farm.ErrJobNotFound

// JobService reads and classifies render farm jobs. The farm owns the
// job lifecycle; nothing here mutates job status.
type JobService struct {
	client farm.Client
}

func NewJobService(client farm.Client) *JobService {
	return &JobService{client: client}
}

func isRunningStatus(status string) bool {
	switch strings.ToLower(status) {
	case "rendering", "queued", "processing", "active":
		return true
	}
	return false
}

func isCompletedStatus(status string) bool {
	return strings.EqualFold(status, model.JobStatusCompleted)
}

func isFailedStatus(status string) bool {
	switch strings.ToLower(status) {
	case "failed", "error", "suspended":
		return true
	}
	return false
}

// List returns jobs filtered by status and user (both
// case-insensitive) and capped by limit.
func (s *JobService) List(ctx context.Context, filters model.JobFilters) ([]model.Job, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	limit := filters.Limit
	if limit <= 0 {
		limit = DefaultJobLimit
	}
	if limit > MaxJobLimit {
		limit = MaxJobLimit
	}

	out := make([]model.Job, 0, len(jobs))
	for _, job := range jobs {
		if filters.Status != "" && !strings.EqualFold(job.Status, filters.Status) {
			continue
		}
		if filters.User != "" && !strings.EqualFold(job.User, filters.User) {
			continue
		}
		out = append(out, job)
		if len(out) >= limit {
			break
		}
	}
	return out, nil
}

// Get returns a single job. Unknown ids surface farm.ErrJobNotFound.
func (s *JobService) Get(ctx context.Context, id string) (model.Job, error) {
	return s.client.GetJob(ctx, id)
}

// Submit passes a submission through to the farm.
func (s *JobService) Submit(ctx context.Context, req *model.SubmitJobRequest) (*model.SubmitJobResponse, error) {
	id, err := s.client.SubmitJob(ctx, req)
	if err != nil {
		return nil, err
	}
	return &model.SubmitJobResponse{JobID: id, Status: model.JobStatusQueued}, nil
}

// Cancel passes a cancellation through to the farm.
func (s *JobService) Cancel(ctx context.Context, id string) error {
	return s.client.CancelJob(ctx, id)
}

func (s *JobService) Pools(ctx context.Context) ([]string, error) {
	return s.client.ListPools(ctx)
}

func (s *JobService) Groups(ctx context.Context) ([]string, error) {
	return s.client.ListGroups(ctx)
}

// ByStatus returns jobs whose status matches, case-insensitively.
func (s *JobService) ByStatus(ctx context.Context, status string) ([]model.Job, error) {
	return s.List(ctx, model.JobFilters{Status: status, Limit: MaxJobLimit})
}

// ByUser returns jobs owned by user, case-insensitively.
func (s *JobService) ByUser(ctx context.Context, user string) ([]model.Job, error) {
	return s.List(ctx, model.JobFilters{User: user, Limit: MaxJobLimit})
}

// Failed returns jobs needing attention (failed, error or suspended).
func (s *JobService) Failed(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Job, 0)
	for _, job := range jobs {
		if isFailedStatus(job.Status) {
			out = append(out, job)
		}
	}
	return out, nil
}

// Running returns jobs currently being processed.
func (s *JobService) Running(ctx context.Context) ([]model.Job, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.Job, 0)
	for _, job := range jobs {
		if isRunningStatus(job.Status) {
			out = append(out, job)
		}
	}
	return out, nil
}

// CheckStatus classifies a single job into the fixed tool shape.
func (s *JobService) CheckStatus(ctx context.Context, id string) (*model.JobStatusResult, error) {
	job, err := s.client.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return &model.JobStatusResult{
		JobID:          job.ID,
		Status:         job.Status,
		IsRunning:      isRunningStatus(job.Status),
		IsCompleted:    isCompletedStatus(job.Status),
		NeedsAttention: isFailedStatus(job.Status),
	}, nil
}

// WorkloadSummary counts jobs by classification. Active users are the
// owners of running jobs, sorted.
func (s *JobService) WorkloadSummary(ctx context.Context) (*model.WorkloadSummary, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	summary := &model.WorkloadSummary{
		TotalJobs:   len(jobs),
		ActiveUsers: []string{},
	}
	seen := map[string]bool{}
	for _, job := range jobs {
		switch {
		case isRunningStatus(job.Status):
			summary.RunningJobs++
			if !seen[job.User] {
				seen[job.User] = true
				summary.ActiveUsers = append(summary.ActiveUsers, job.User)
			}
		case isCompletedStatus(job.Status):
			summary.CompletedJobs++
		case isFailedStatus(job.Status):
			summary.FailedJobs++
		}
	}
	sort.Strings(summary.ActiveUsers)
	return summary, nil
}

// CountByStatus returns raw status counts keyed by the status string
// as reported by the farm.
func (s *JobService) CountByStatus(ctx context.Context) (map[string]int, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	counts := map[string]int{}
	for _, job := range jobs {
		counts[job.Status]++
	}
	return counts, nil
}

// ActiveUsers returns the sorted usernames of everyone with a job in
// the system.
func (s *JobService) ActiveUsers(ctx context.Context) ([]string, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, err
	}
	seen := map[string]bool{}
	users := []string{}
	for _, job := range jobs {
		if !seen[job.User] {
			seen[job.User] = true
			users = append(users, job.User)
		}
	}
	sort.Strings(users)
	return users, nil
}

// Busyness reports whether the farm is busy. An empty farm is never
// busy; the threshold comparison is strictly greater.
func (s *JobService) Busyness(ctx context.Context) (*model.BusynessResult, error) {
	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return nil, err
	}

	total := len(jobs)
	running := 0
	for _, job := range jobs {
		if isRunningStatus(job.Status) {
			running++
		}
	}

	result := &model.BusynessResult{
		TotalJobs:   total,
		RunningJobs: running,
	}
	if total > 0 {
		result.IsBusy = float64(running) > float64(total)*busyThreshold
		result.LoadPercentage = math.Round(float64(running)/float64(total)*1000) / 10
	}
	if result.IsBusy {
		result.Recommendation = "Wait for current jobs to complete"
	} else {
		result.Recommendation = "System available for new jobs"
	}
	return result, nil
}

// Status builds the statistics block for the module status endpoint.
// When the farm is unreachable the block reports unavailable with
// empty statistics instead of failing the request.
func (s *JobService) Status(ctx context.Context) *model.ServiceStatus {
	status := &model.ServiceStatus{
		Statistics: model.JobStatistics{
			StatusBreakdown: map[string]int{},
			UserBreakdown:   map[string]int{},
			ActiveUsers:     []string{},
		},
	}

	jobs, err := s.client.ListJobs(ctx)
	if err != nil {
		return status
	}

	status.ServiceAvailable = true
	status.Statistics.TotalJobs = len(jobs)
	seen := map[string]bool{}
	for _, job := range jobs {
		status.Statistics.StatusBreakdown[job.Status]++
		status.Statistics.UserBreakdown[job.User]++
		if isRunningStatus(job.Status) && !seen[job.User] {
			seen[job.User] = true
			status.Statistics.ActiveUsers = append(status.Statistics.ActiveUsers, job.User)
		}
	}
	sort.Strings(status.Statistics.ActiveUsers)
	return status
}

// IsUnavailable reports whether err means the farm cannot be reached.
func IsUnavailable(err error) bool {
	return errors.Is(err, farm.ErrUnavailable)
}
