// Package farm talks to the render farm webservice. The gateway never
// embeds farm logic; everything goes through the narrow Client
// interface so the rest of the system does not care whether a real
// webservice or the seeded stub is behind it.
package farm

import (
	"context"
	"errors"

	"github.com/studiopipe/gateway/internal/model"
)

// ErrUnavailable wraps transport failures against the farm webservice.
// Callers degrade to an explicit "service unavailable" answer instead
// of failing the request pipeline.
var ErrUnavailable = errors.New("render farm webservice unavailable")

// ErrJobNotFound reports a job id unknown to the farm.
var ErrJobNotFound = errors.New("job not found")

// Client is the narrow render-farm interface consumed by the job
// service.
type Client interface {
	ListJobs(ctx context.Context) ([]model.Job, error)
	GetJob(ctx context.Context, id string) (model.Job, error)
	SubmitJob(ctx context.Context, req *model.SubmitJobRequest) (string, error)
	CancelJob(ctx context.Context, id string) error
	ListPools(ctx context.Context) ([]string, error)
	ListGroups(ctx context.Context) ([]string, error)
}
