package farm

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/studiopipe/gateway/internal/model"
)

// StubClient serves a seeded in-memory job set. It is used whenever no
// webservice URL is configured, so the gateway stays fully functional
// in development and tests.
type StubClient struct {
	mu   sync.RWMutex
	jobs []model.Job
}

// NewStubClient returns a stub preloaded with a representative job mix.
func NewStubClient() *StubClient {
	return &StubClient{
		jobs: []model.Job{
			{ID: "job-001", Name: "Scene_01_Render", Status: model.JobStatusCompleted, User: "lynloveyounever", Pool: "none", Progress: 100},
			{ID: "job-002", Name: "Scene_02_Render", Status: model.JobStatusRendering, User: "lynloveyounever", Pool: "none", Progress: 47},
			{ID: "job-003", Name: "Comp_Final_v3", Status: model.JobStatusQueued, User: "testuser", Pool: "comp"},
			{ID: "job-004", Name: "Sim_Water_Cache", Status: model.JobStatusFailed, User: "fxlead", Pool: "sim"},
			{ID: "job-005", Name: "Lighting_Seq010", Status: model.JobStatusSuspended, User: "testuser", Pool: "none"},
		},
	}
}

// NewStubClientWithJobs returns a stub serving exactly the given jobs.
func NewStubClientWithJobs(jobs ...model.Job) *StubClient {
	return &StubClient{jobs: jobs}
}

func (c *StubClient) ListJobs(ctx context.Context) ([]model.Job, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]model.Job, len(c.jobs))
	copy(out, c.jobs)
	return out, nil
}

func (c *StubClient) GetJob(ctx context.Context, id string) (model.Job, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, job := range c.jobs {
		if job.ID == id {
			return job, nil
		}
	}
	return model.Job{}, ErrJobNotFound
}

// SubmitJob records the job as queued so follow-up queries see it.
func (c *StubClient) SubmitJob(ctx context.Context, req *model.SubmitJobRequest) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := "job-" + uuid.New().String()[:8]
	c.jobs = append(c.jobs, model.Job{
		ID:       id,
		Name:     req.Name,
		Status:   model.JobStatusQueued,
		User:     req.User,
		Pool:     req.Pool,
		Priority: req.Priority,
	})
	return id, nil
}

func (c *StubClient) CancelJob(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i, job := range c.jobs {
		if job.ID == id {
			c.jobs[i].Status = model.JobStatusSuspended
			return nil
		}
	}
	return ErrJobNotFound
}

func (c *StubClient) ListPools(ctx context.Context) ([]string, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	seen := map[string]bool{"none": true}
	pools := []string{"none"}
	for _, job := range c.jobs {
		pool := strings.ToLower(job.Pool)
		if pool == "" || seen[pool] {
			continue
		}
		seen[pool] = true
		pools = append(pools, pool)
	}
	return pools, nil
}

func (c *StubClient) ListGroups(ctx context.Context) ([]string, error) {
	return []string{"none", "render", "comp"}, nil
}
