package farm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/studiopipe/gateway/internal/config"
	"github.com/studiopipe/gateway/internal/model"
)

// WebserviceClient talks to the Deadline webservice REST API.
type WebserviceClient struct {
	httpClient *http.Client
	baseURL    string
}

// NewWebserviceClient creates a client against cfg.WebserviceURL with
// the configured bounded timeout.
func NewWebserviceClient(cfg *config.FarmConfig) *WebserviceClient {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &WebserviceClient{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.WebserviceURL,
	}
}

// NewClient picks the webservice client when a URL is configured and
// the seeded stub otherwise.
func NewClient(cfg *config.FarmConfig) Client {
	if cfg.WebserviceURL == "" {
		return NewStubClient()
	}
	return NewWebserviceClient(cfg)
}

func (c *WebserviceClient) ListJobs(ctx context.Context) ([]model.Job, error) {
	var jobs []model.Job
	if err := c.getJSON(ctx, "/api/jobs", &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (c *WebserviceClient) GetJob(ctx context.Context, id string) (model.Job, error) {
	var job model.Job
	err := c.getJSON(ctx, "/api/jobs/"+id, &job)
	if err != nil {
		var se *statusError
		if errors.As(err, &se) && se.code == http.StatusNotFound {
			return model.Job{}, ErrJobNotFound
		}
		return model.Job{}, err
	}
	return job, nil
}

func (c *WebserviceClient) SubmitJob(ctx context.Context, req *model.SubmitJobRequest) (string, error) {
	bodyBytes, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/jobs", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: submit returned status %d", ErrUnavailable, resp.StatusCode)
	}

	var result model.SubmitJobResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode submit response: %w", err)
	}
	return result.JobID, nil
}

func (c *WebserviceClient) CancelJob(ctx context.Context, id string) error {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/api/jobs/"+id, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrJobNotFound
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return fmt.Errorf("%w: cancel returned status %d", ErrUnavailable, resp.StatusCode)
	}
	return nil
}

func (c *WebserviceClient) ListPools(ctx context.Context) ([]string, error) {
	var pools []string
	if err := c.getJSON(ctx, "/api/pools", &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

func (c *WebserviceClient) ListGroups(ctx context.Context) ([]string, error) {
	var groups []string
	if err := c.getJSON(ctx, "/api/groups", &groups); err != nil {
		return nil, err
	}
	return groups, nil
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("webservice returned status %d", e.code)
}

func (c *WebserviceClient) getJSON(ctx context.Context, path string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return &statusError{code: http.StatusNotFound}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %v", ErrUnavailable, &statusError{code: resp.StatusCode})
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
