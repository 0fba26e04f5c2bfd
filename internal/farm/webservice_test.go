package farm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/studiopipe/gateway/internal/config"
	"github.com/studiopipe/gateway/internal/model"
)

func TestWebserviceListJobs(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/jobs" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]model.Job{
			{ID: "job-100", Name: "Remote_Render", Status: "Rendering", User: "remoteuser"},
		})
	}))
	defer srv.Close()

	client := NewWebserviceClient(&config.FarmConfig{WebserviceURL: srv.URL, TimeoutSeconds: 2})

	jobs, err := client.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("list jobs failed: %v", err)
	}
	if len(jobs) != 1 || jobs[0].ID != "job-100" {
		t.Errorf("unexpected jobs: %+v", jobs)
	}
}

func TestWebserviceGetJobNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	client := NewWebserviceClient(&config.FarmConfig{WebserviceURL: srv.URL, TimeoutSeconds: 2})

	_, err := client.GetJob(context.Background(), "job-missing")
	if !errors.Is(err, ErrJobNotFound) {
		t.Fatalf("expected ErrJobNotFound, got %v", err)
	}
}

func TestWebserviceUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	client := NewWebserviceClient(&config.FarmConfig{WebserviceURL: srv.URL, TimeoutSeconds: 1})

	_, err := client.ListJobs(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestWebserviceServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := NewWebserviceClient(&config.FarmConfig{WebserviceURL: srv.URL, TimeoutSeconds: 2})

	_, err := client.ListPools(context.Background())
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestNewClientFallsBackToStub(t *testing.T) {
	client := NewClient(&config.FarmConfig{})

	if _, ok := client.(*StubClient); !ok {
		t.Fatalf("expected stub client when no URL configured, got %T", client)
	}

	jobs, err := client.ListJobs(context.Background())
	if err != nil {
		t.Fatalf("stub list failed: %v", err)
	}
	if len(jobs) == 0 {
		t.Error("expected seeded jobs from stub")
	}
}
