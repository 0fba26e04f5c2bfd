package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/studiopipe/gateway/internal/farm"
	"github.com/studiopipe/gateway/internal/model"
)

// unavailableClient simulates an unreachable farm webservice.
type unavailableClient struct{}

func (unavailableClient) ListJobs(context.Context) ([]model.Job, error) {
	return nil, fmt.Errorf("%w: connection refused", farm.ErrUnavailable)
}
func (unavailableClient) GetJob(context.Context, string) (model.Job, error) {
	return model.Job{}, fmt.Errorf("%w: connection refused", farm.ErrUnavailable)
}
func (unavailableClient) SubmitJob(context.Context, *model.SubmitJobRequest) (string, error) {
	return "", fmt.Errorf("%w: connection refused", farm.ErrUnavailable)
}
func (unavailableClient) CancelJob(context.Context, string) error {
	return fmt.Errorf("%w: connection refused", farm.ErrUnavailable)
}
func (unavailableClient) ListPools(context.Context) ([]string, error) {
	return nil, fmt.Errorf("%w: connection refused", farm.ErrUnavailable)
}
func (unavailableClient) ListGroups(context.Context) ([]string, error) {
	return nil, fmt.Errorf("%w: connection refused", farm.ErrUnavailable)
}

func jobServiceWith(jobs ...model.Job) *JobService {
	return NewJobService(farm.NewStubClientWithJobs(jobs...))
}

func TestWorkloadSummary(t *testing.T) {
	svc := jobServiceWith(
		model.Job{ID: "j1", Status: "Completed", User: "alice"},
		model.Job{ID: "j2", Status: "Rendering", User: "bob"},
		model.Job{ID: "j3", Status: "Failed", User: "carol"},
	)

	summary, err := svc.WorkloadSummary(context.Background())
	if err != nil {
		t.Fatalf("workload summary failed: %v", err)
	}

	if summary.TotalJobs != 3 {
		t.Errorf("total_jobs = %d, want 3", summary.TotalJobs)
	}
	if summary.RunningJobs != 1 {
		t.Errorf("running_jobs = %d, want 1", summary.RunningJobs)
	}
	if summary.CompletedJobs != 1 {
		t.Errorf("completed_jobs = %d, want 1", summary.CompletedJobs)
	}
	if summary.FailedJobs != 1 {
		t.Errorf("failed_jobs = %d, want 1", summary.FailedJobs)
	}
	if len(summary.ActiveUsers) != 1 || summary.ActiveUsers[0] != "bob" {
		t.Errorf("active_users = %v, want [bob]", summary.ActiveUsers)
	}
}

func busynessFixture(total, running int) *JobService {
	jobs := make([]model.Job, 0, total)
	for i := 0; i < total; i++ {
		status := "Completed"
		if i < running {
			status = "Rendering"
		}
		jobs = append(jobs, model.Job{ID: fmt.Sprintf("j%d", i), Status: status, User: "u"})
	}
	return jobServiceWith(jobs...)
}

func TestBusynessBoundary(t *testing.T) {
	// Exactly 70% running is not busy: the threshold is strictly greater.
	result, err := busynessFixture(10, 7).Busyness(context.Background())
	if err != nil {
		t.Fatalf("busyness failed: %v", err)
	}
	if result.IsBusy {
		t.Error("7/10 running should not be busy")
	}
	if result.LoadPercentage != 70.0 {
		t.Errorf("load = %v, want 70.0", result.LoadPercentage)
	}

	result, err = busynessFixture(10, 8).Busyness(context.Background())
	if err != nil {
		t.Fatalf("busyness failed: %v", err)
	}
	if !result.IsBusy {
		t.Error("8/10 running should be busy")
	}
	if result.LoadPercentage != 80.0 {
		t.Errorf("load = %v, want 80.0", result.LoadPercentage)
	}
}

func TestBusynessEmptyFarm(t *testing.T) {
	result, err := jobServiceWith().Busyness(context.Background())
	if err != nil {
		t.Fatalf("busyness failed: %v", err)
	}
	if result.IsBusy {
		t.Error("empty farm should not be busy")
	}
	if result.LoadPercentage != 0 {
		t.Errorf("load = %v, want 0", result.LoadPercentage)
	}
}

func TestByStatusCaseInsensitive(t *testing.T) {
	svc := jobServiceWith(
		model.Job{ID: "j1", Status: "Completed", User: "alice"},
		model.Job{ID: "j2", Status: "Rendering", User: "alice"},
	)

	jobs, err := svc.ByStatus(context.Background(), "completed")
	if err != nil {
		t.Fatalf("by status failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "j1" {
		t.Errorf("expected lowercase filter to match Completed, got %+v", jobs)
	}
}

func TestByUserCaseInsensitive(t *testing.T) {
	svc := jobServiceWith(
		model.Job{ID: "j1", Status: "Queued", User: "Alice"},
		model.Job{ID: "j2", Status: "Queued", User: "bob"},
	)

	jobs, err := svc.ByUser(context.Background(), "ALICE")
	if err != nil {
		t.Fatalf("by user failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "j1" {
		t.Errorf("expected case-insensitive user match, got %+v", jobs)
	}
}

func TestListLimit(t *testing.T) {
	jobs := make([]model.Job, 0, 150)
	for i := 0; i < 150; i++ {
		jobs = append(jobs, model.Job{ID: fmt.Sprintf("j%d", i), Status: "Queued", User: "u"})
	}
	svc := jobServiceWith(jobs...)

	got, err := svc.List(context.Background(), model.JobFilters{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != DefaultJobLimit {
		t.Errorf("default limit: got %d jobs, want %d", len(got), DefaultJobLimit)
	}

	got, err = svc.List(context.Background(), model.JobFilters{Limit: 5})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 5 {
		t.Errorf("explicit limit: got %d jobs, want 5", len(got))
	}

	got, err = svc.List(context.Background(), model.JobFilters{Limit: 5000})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(got) != 150 {
		t.Errorf("capped limit: got %d jobs, want all 150", len(got))
	}
}

func TestCheckStatusClassification(t *testing.T) {
	svc := jobServiceWith(
		model.Job{ID: "run", Status: "Rendering", User: "u"},
		model.Job{ID: "done", Status: "Completed", User: "u"},
		model.Job{ID: "bad", Status: "Suspended", User: "u"},
	)

	cases := []struct {
		id             string
		running, done  bool
		needsAttention bool
	}{
		{"run", true, false, false},
		{"done", false, true, false},
		{"bad", false, false, true},
	}
	for _, tc := range cases {
		result, err := svc.CheckStatus(context.Background(), tc.id)
		if err != nil {
			t.Fatalf("check status %s failed: %v", tc.id, err)
		}
		if result.IsRunning != tc.running || result.IsCompleted != tc.done || result.NeedsAttention != tc.needsAttention {
			t.Errorf("%s classified as %+v", tc.id, result)
		}
	}
}

func TestCheckStatusUnknownJob(t *testing.T) {
	svc := jobServiceWith()

	_, err := svc.CheckStatus(context.Background(), "nope")
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestStatusReportsUnavailableFarm(t *testing.T) {
	svc := NewJobService(unavailableClient{})

	status := svc.Status(context.Background())
	if status.ServiceAvailable {
		t.Error("unreachable farm should report service_available=false")
	}
	if status.Statistics.TotalJobs != 0 {
		t.Errorf("expected empty statistics, got %+v", status.Statistics)
	}
}

func TestStatusBreakdowns(t *testing.T) {
	svc := jobServiceWith(
		model.Job{ID: "j1", Status: "Rendering", User: "alice"},
		model.Job{ID: "j2", Status: "Rendering", User: "alice"},
		model.Job{ID: "j3", Status: "Completed", User: "bob"},
	)

	status := svc.Status(context.Background())
	if !status.ServiceAvailable {
		t.Fatal("stub farm should be available")
	}
	if status.Statistics.StatusBreakdown["Rendering"] != 2 {
		t.Errorf("status breakdown = %v", status.Statistics.StatusBreakdown)
	}
	if status.Statistics.UserBreakdown["alice"] != 2 {
		t.Errorf("user breakdown = %v", status.Statistics.UserBreakdown)
	}
	if len(status.Statistics.ActiveUsers) != 1 || status.Statistics.ActiveUsers[0] != "alice" {
		t.Errorf("active users = %v", status.Statistics.ActiveUsers)
	}
}

func TestActiveUsersSorted(t *testing.T) {
	svc := jobServiceWith(
		model.Job{ID: "j1", Status: "Queued", User: "zara"},
		model.Job{ID: "j2", Status: "Completed", User: "adam"},
		model.Job{ID: "j3", Status: "Failed", User: "zara"},
	)

	users, err := svc.ActiveUsers(context.Background())
	if err != nil {
		t.Fatalf("active users failed: %v", err)
	}
	if len(users) != 2 || users[0] != "adam" || users[1] != "zara" {
		t.Errorf("users = %v, want [adam zara]", users)
	}
}
