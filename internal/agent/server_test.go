package agent

import (
	"context"
	"strings"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/studiopipe/gateway/internal/farm"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
)

func serverWith(jobs ...model.Job) *Server {
	return New(service.NewJobService(farm.NewStubClientWithJobs(jobs...)))
}

func promptBody(t *testing.T, result *mcp.GetPromptResult) string {
	t.Helper()
	if len(result.Messages) != 1 {
		t.Fatalf("expected one prompt message, got %d", len(result.Messages))
	}
	text, ok := result.Messages[0].Content.(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected text content, got %T", result.Messages[0].Content)
	}
	return text.Text
}

func TestJobsResource(t *testing.T) {
	s := serverWith(
		model.Job{ID: "j1", Name: "Scene_01", Status: "Rendering", User: "alice"},
		model.Job{ID: "j2", Name: "Scene_02", Status: "Completed", User: "bob"},
	)

	result, err := s.jobsResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("jobs resource failed: %v", err)
	}
	if len(result.Contents) != 1 {
		t.Fatalf("expected one content block, got %d", len(result.Contents))
	}

	content := result.Contents[0]
	if content.URI != jobsResourceURI {
		t.Errorf("uri = %q", content.URI)
	}
	if !strings.Contains(content.Text, "Total jobs: 2") {
		t.Errorf("missing job count: %q", content.Text)
	}
	if !strings.Contains(content.Text, "Scene_01") || !strings.Contains(content.Text, "Scene_02") {
		t.Errorf("missing job names: %q", content.Text)
	}
}

func TestConfigResource(t *testing.T) {
	s := serverWith()

	result, err := s.configResource(context.Background(), &mcp.ReadResourceRequest{})
	if err != nil {
		t.Fatalf("config resource failed: %v", err)
	}
	if len(result.Contents) != 1 || result.Contents[0].URI != configResourceURI {
		t.Fatalf("unexpected contents: %+v", result.Contents)
	}
	if !strings.Contains(result.Contents[0].Text, "Render engines") {
		t.Errorf("missing configuration body: %q", result.Contents[0].Text)
	}
}

func TestJobReportPrompt(t *testing.T) {
	s := serverWith(
		model.Job{ID: "j1", Name: "Scene_01", Status: "Completed", User: "alice"},
	)

	result, err := s.jobReportPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"job_id": "j1"}},
	})
	if err != nil {
		t.Fatalf("job report prompt failed: %v", err)
	}

	body := promptBody(t, result)
	for _, want := range []string{"j1", "Scene_01", "alice", "No action needed."} {
		if !strings.Contains(body, want) {
			t.Errorf("report missing %q:\n%s", want, body)
		}
	}
}

func TestJobReportPromptUnknownJob(t *testing.T) {
	s := serverWith()

	result, err := s.jobReportPrompt(context.Background(), &mcp.GetPromptRequest{
		Params: &mcp.GetPromptParams{Arguments: map[string]string{"job_id": "nope"}},
	})
	if err != nil {
		t.Fatalf("unknown job should produce a message, not an error: %v", err)
	}
	if body := promptBody(t, result); !strings.Contains(body, "Job nope not found.") {
		t.Errorf("unexpected body: %q", body)
	}
}

func TestSystemStatusPrompt(t *testing.T) {
	s := serverWith(
		model.Job{ID: "j1", Status: "Rendering", User: "alice"},
		model.Job{ID: "j2", Status: "Completed", User: "bob"},
		model.Job{ID: "j3", Status: "Failed", User: "carol"},
	)

	result, err := s.systemStatusPrompt(context.Background(), &mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("system status prompt failed: %v", err)
	}

	body := promptBody(t, result)
	for _, want := range []string{"Total jobs: 3", "Running: 1", "Completed: 1", "Failed: 1", "alice"} {
		if !strings.Contains(body, want) {
			t.Errorf("status report missing %q:\n%s", want, body)
		}
	}
}
