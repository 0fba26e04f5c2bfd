package service

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/store"
)

// TaskTypeTransfer is the asynq task that drives a transfer to
// completion in the background.
const TaskTypeTransfer = "transfer:process"

// TransferTaskPayload is the asynq payload for TaskTypeTransfer.
type TransferTaskPayload struct {
	TransferID int `json:"transfer_id"`
}

// TransferService owns the transfer store. Transfers are fully local
// state; no external system of record exists for them.
type TransferService struct {
	store       *store.Store[model.Transfer]
	asynqClient *asynq.Client
}

// NewTransferService creates the service. asynqClient may be nil, in
// which case transfers stay pending until updated by hand.
func NewTransferService(asynqClient *asynq.Client) *TransferService {
	return &TransferService{
		store:       store.New[model.Transfer](),
		asynqClient: asynqClient,
	}
}

// Seed loads the demo transfer set.
func (s *TransferService) Seed() {
	for _, t := range []model.Transfer{
		{SourcePath: "/mnt/source/file1.mov", DestinationPath: "/mnt/dest/file1.mov", Status: model.TransferStatusCompleted, Progress: 100},
		{SourcePath: "/mnt/source/file2.exr", DestinationPath: "/mnt/dest/file2.exr", Status: model.TransferStatusPending},
	} {
		s.create(t)
	}
}

func (s *TransferService) create(t model.Transfer) model.Transfer {
	return s.store.Create(func(id int) model.Transfer {
		t.ID = id
		return t
	})
}

// Create stores a new transfer and enqueues background processing.
// Queue failures are logged, not surfaced; the transfer is created
// either way.
func (s *TransferService) Create(ctx context.Context, req *model.CreateTransferRequest) model.Transfer {
	status := req.Status
	if status == "" {
		status = model.TransferStatusPending
	}
	t := s.create(model.Transfer{
		SourcePath:      req.SourcePath,
		DestinationPath: req.DestinationPath,
		Status:          status,
	})

	if s.asynqClient != nil && t.Status == model.TransferStatusPending {
		payload, _ := json.Marshal(TransferTaskPayload{TransferID: t.ID})
		if _, err := s.asynqClient.EnqueueContext(ctx, asynq.NewTask(TaskTypeTransfer, payload)); err != nil {
			log.Printf("Failed to enqueue transfer %d: %v", t.ID, err)
		}
	}
	return t
}

// List returns all transfers in creation order.
func (s *TransferService) List() []model.Transfer {
	return s.store.List()
}

// Get returns one transfer; store misses carry a typed not-found error.
func (s *TransferService) Get(id int) (model.Transfer, error) {
	return s.store.Get(id)
}

// Update merges only the provided fields into the stored transfer.
func (s *TransferService) Update(id int, req *model.UpdateTransferRequest) (model.Transfer, error) {
	return s.store.Update(id, func(t model.Transfer) model.Transfer {
		if req.SourcePath != nil {
			t.SourcePath = *req.SourcePath
		}
		if req.DestinationPath != nil {
			t.DestinationPath = *req.DestinationPath
		}
		if req.Status != nil {
			t.Status = *req.Status
		}
		if req.Progress != nil {
			t.Progress = *req.Progress
		}
		return t
	})
}

// Delete removes and returns the transfer.
func (s *TransferService) Delete(id int) (model.Transfer, error) {
	return s.store.Delete(id)
}
