// Package agent exposes the job tool set over the Model Context
// Protocol so AI agents can call the same narrow functions the HTTP
// tools layer serves. Both layers delegate to the shared JobService;
// the tool shapes stay independent of the REST projection. Beyond the
// tools, the server publishes two read-only resources and two report
// prompts.
package agent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
)

const serverVersion = "0.1.0"

// Server wraps an MCP server bound to a JobService.
type Server struct {
	jobs   *service.JobService
	server *mcp.Server
}

// New builds the MCP server and registers the job tools.
func New(jobs *service.JobService) *Server {
	s := &Server{
		jobs: jobs,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "studiopipe-gateway",
			Version: serverVersion,
		}, nil),
	}
	s.registerTools()
	s.registerResources()
	s.registerPrompts()
	return s
}

// Run serves MCP over stdio until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_all_jobs",
		Description: "Get all render farm jobs with basic information.",
	}, s.getAllJobs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_jobs_by_status",
		Description: "Get jobs filtered by status, e.g. Rendering, Completed, Failed.",
	}, s.getJobsByStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_jobs_by_user",
		Description: "Get jobs submitted by a specific user.",
	}, s.getJobsByUser)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "check_job_status",
		Description: "Check the status of a single job by id.",
	}, s.checkJobStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_workload_summary",
		Description: "Summarize the current workload: counts by classification and active users.",
	}, s.getWorkloadSummary)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_failed_jobs",
		Description: "Get jobs that failed, errored or were suspended.",
	}, s.getFailedJobs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_running_jobs",
		Description: "Get jobs currently being processed.",
	}, s.getRunningJobs)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "count_jobs_by_status",
		Description: "Count jobs grouped by their raw status.",
	}, s.countJobsByStatus)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_active_users",
		Description: "List users who have jobs in the system, sorted.",
	}, s.listActiveUsers)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "is_system_busy",
		Description: "Check whether the farm is busy before submitting new work.",
	}, s.isSystemBusy)
}

const (
	jobsResourceURI   = "deadline://jobs"
	configResourceURI = "deadline://config"
)

// farmConfigReference is served as a static resource so agents can look
// up farm limits without a tool call.
const farmConfigReference = `Render Farm Configuration:
- Max concurrent jobs: 10
- Default timeout: 30 minutes
- Supported formats: .blend, .ma, .max
- Render engines: Cycles, Arnold, V-Ray
`

func (s *Server) registerResources() {
	s.server.AddResource(&mcp.Resource{
		Name:        "deadline_jobs",
		Description: "Read-only view of all render farm jobs.",
		MIMEType:    "text/plain",
		URI:         jobsResourceURI,
	}, s.jobsResource)

	s.server.AddResource(&mcp.Resource{
		Name:        "deadline_config",
		Description: "Render farm configuration reference.",
		MIMEType:    "text/plain",
		URI:         configResourceURI,
	}, s.configResource)
}

func (s *Server) registerPrompts() {
	s.server.AddPrompt(&mcp.Prompt{
		Name:        "job_report_prompt",
		Description: "Generate a detailed report for a specific job.",
		Arguments: []*mcp.PromptArgument{
			{Name: "job_id", Description: "unique identifier of the job", Required: true},
		},
	}, s.jobReportPrompt)

	s.server.AddPrompt(&mcp.Prompt{
		Name:        "system_status_prompt",
		Description: "Generate a human-readable system status report.",
	}, s.systemStatusPrompt)
}

func (s *Server) jobsResource(ctx context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	jobs, err := s.jobs.List(ctx, model.JobFilters{Limit: service.MaxJobLimit})
	if err != nil {
		return nil, fmt.Errorf("list jobs failed: %w", err)
	}

	names := make([]string, 0, len(jobs))
	for _, job := range jobs {
		names = append(names, job.Name)
	}
	text := fmt.Sprintf("Total jobs: %d\nJobs: %s", len(jobs), strings.Join(names, ", "))

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: jobsResourceURI, MIMEType: "text/plain", Text: text},
		},
	}, nil
}

func (s *Server) configResource(_ context.Context, _ *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: configResourceURI, MIMEType: "text/plain", Text: farmConfigReference},
		},
	}, nil
}

func promptText(text string) *mcp.GetPromptResult {
	return &mcp.GetPromptResult{
		Messages: []*mcp.PromptMessage{
			{Role: "user", Content: &mcp.TextContent{Text: text}},
		},
	}
}

func (s *Server) jobReportPrompt(ctx context.Context, req *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	jobID := req.Params.Arguments["job_id"]

	status, err := s.jobs.CheckStatus(ctx, jobID)
	if err != nil {
		if errors.Is(err, service.ErrJobNotFound) {
			return promptText(fmt.Sprintf("Job %s not found.", jobID)), nil
		}
		return nil, fmt.Errorf("job %s: %w", jobID, err)
	}
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("job %s: %w", jobID, err)
	}

	var summary, action string
	switch {
	case status.IsCompleted:
		summary = "Job completed successfully."
		action = "No action needed."
	case status.IsRunning:
		summary = "Job is still processing."
		action = "Monitor progress."
	default:
		summary = "Job needs attention."
		action = "Check logs and restart if necessary."
	}

	return promptText(fmt.Sprintf(`# Render Job Report

**Job ID**: %s
**Name**: %s
**Status**: %s
**User**: %s

## Summary
%s

## Recommendations
%s
`, job.ID, job.Name, job.Status, job.User, summary, action)), nil
}

func (s *Server) systemStatusPrompt(ctx context.Context, _ *mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	summary, err := s.jobs.WorkloadSummary(ctx)
	if err != nil {
		return nil, fmt.Errorf("workload summary failed: %w", err)
	}

	return promptText(fmt.Sprintf(`# Render Farm Status Report

## Overview
- Total jobs: %d
- Running: %d
- Completed: %d
- Failed: %d
- Active users: %s
`, summary.TotalJobs, summary.RunningJobs, summary.CompletedJobs,
		summary.FailedJobs, strings.Join(summary.ActiveUsers, ", "))), nil
}

func toJobInfos(jobs []model.Job) []model.JobInfo {
	out := make([]model.JobInfo, 0, len(jobs))
	for _, job := range jobs {
		out = append(out, model.JobInfo{
			ID:     job.ID,
			Name:   job.Name,
			Status: job.Status,
			User:   job.User,
		})
	}
	return out
}

func (s *Server) getAllJobs(ctx context.Context, _ *mcp.CallToolRequest, _ model.EmptyInput) (*mcp.CallToolResult, model.JobListResult, error) {
	jobs, err := s.jobs.List(ctx, model.JobFilters{Limit: service.MaxJobLimit})
	if err != nil {
		return nil, model.JobListResult{}, fmt.Errorf("list jobs failed: %w", err)
	}
	return nil, model.JobListResult{Jobs: toJobInfos(jobs)}, nil
}

func (s *Server) getJobsByStatus(ctx context.Context, _ *mcp.CallToolRequest, input model.StatusInput) (*mcp.CallToolResult, model.JobListResult, error) {
	jobs, err := s.jobs.ByStatus(ctx, input.Status)
	if err != nil {
		return nil, model.JobListResult{}, fmt.Errorf("list jobs by status failed: %w", err)
	}
	return nil, model.JobListResult{Jobs: toJobInfos(jobs)}, nil
}

func (s *Server) getJobsByUser(ctx context.Context, _ *mcp.CallToolRequest, input model.UsernameInput) (*mcp.CallToolResult, model.JobListResult, error) {
	jobs, err := s.jobs.ByUser(ctx, input.Username)
	if err != nil {
		return nil, model.JobListResult{}, fmt.Errorf("list jobs by user failed: %w", err)
	}
	return nil, model.JobListResult{Jobs: toJobInfos(jobs)}, nil
}

func (s *Server) checkJobStatus(ctx context.Context, _ *mcp.CallToolRequest, input model.JobIDInput) (*mcp.CallToolResult, model.JobStatusResult, error) {
	result, err := s.jobs.CheckStatus(ctx, input.JobID)
	if err != nil {
		return nil, model.JobStatusResult{}, fmt.Errorf("job %s: %w", input.JobID, err)
	}
	return nil, *result, nil
}

func (s *Server) getWorkloadSummary(ctx context.Context, _ *mcp.CallToolRequest, _ model.EmptyInput) (*mcp.CallToolResult, model.WorkloadSummary, error) {
	summary, err := s.jobs.WorkloadSummary(ctx)
	if err != nil {
		return nil, model.WorkloadSummary{}, fmt.Errorf("workload summary failed: %w", err)
	}
	return nil, *summary, nil
}

func (s *Server) getFailedJobs(ctx context.Context, _ *mcp.CallToolRequest, _ model.EmptyInput) (*mcp.CallToolResult, model.JobListResult, error) {
	jobs, err := s.jobs.Failed(ctx)
	if err != nil {
		return nil, model.JobListResult{}, fmt.Errorf("list failed jobs failed: %w", err)
	}
	return nil, model.JobListResult{Jobs: toJobInfos(jobs)}, nil
}

func (s *Server) getRunningJobs(ctx context.Context, _ *mcp.CallToolRequest, _ model.EmptyInput) (*mcp.CallToolResult, model.JobListResult, error) {
	jobs, err := s.jobs.Running(ctx)
	if err != nil {
		return nil, model.JobListResult{}, fmt.Errorf("list running jobs failed: %w", err)
	}
	return nil, model.JobListResult{Jobs: toJobInfos(jobs)}, nil
}

func (s *Server) countJobsByStatus(ctx context.Context, _ *mcp.CallToolRequest, _ model.EmptyInput) (*mcp.CallToolResult, model.StatusCountsResult, error) {
	counts, err := s.jobs.CountByStatus(ctx)
	if err != nil {
		return nil, model.StatusCountsResult{}, fmt.Errorf("count jobs failed: %w", err)
	}
	return nil, model.StatusCountsResult{Counts: counts}, nil
}

func (s *Server) listActiveUsers(ctx context.Context, _ *mcp.CallToolRequest, _ model.EmptyInput) (*mcp.CallToolResult, model.ActiveUsersResult, error) {
	users, err := s.jobs.ActiveUsers(ctx)
	if err != nil {
		return nil, model.ActiveUsersResult{}, fmt.Errorf("list active users failed: %w", err)
	}
	return nil, model.ActiveUsersResult{Users: users}, nil
}

func (s *Server) isSystemBusy(ctx context.Context, _ *mcp.CallToolRequest, _ model.EmptyInput) (*mcp.CallToolResult, model.BusynessResult, error) {
	result, err := s.jobs.Busyness(ctx)
	if err != nil {
		return nil, model.BusynessResult{}, fmt.Errorf("busyness check failed: %w", err)
	}
	return nil, *result, nil
}
