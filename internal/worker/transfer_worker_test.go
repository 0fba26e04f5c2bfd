package worker

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
)

func transferTask(t *testing.T, id int) *asynq.Task {
	t.Helper()
	payload, err := json.Marshal(service.TransferTaskPayload{TransferID: id})
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	return asynq.NewTask(service.TaskTypeTransfer, payload)
}

func TestProcessTaskCompletesTransfer(t *testing.T) {
	transfers := service.NewTransferService(nil)
	created := transfers.Create(context.Background(), &model.CreateTransferRequest{
		SourcePath:      "/mnt/source/shot010.exr",
		DestinationPath: "/mnt/dest/shot010.exr",
	})

	w := NewTransferWorker(transfers, nil)
	w.stepDelay = 0

	if err := w.ProcessTask(context.Background(), transferTask(t, created.ID)); err != nil {
		t.Fatalf("process task failed: %v", err)
	}

	got, err := transfers.Get(created.ID)
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if got.Status != model.TransferStatusCompleted {
		t.Errorf("status = %q, want completed", got.Status)
	}
	if got.Progress != 100 {
		t.Errorf("progress = %d, want 100", got.Progress)
	}
	if got.SourcePath != "/mnt/source/shot010.exr" {
		t.Errorf("worker clobbered source path: %+v", got)
	}
}

func TestProcessTaskDropsDeletedTransfer(t *testing.T) {
	transfers := service.NewTransferService(nil)

	w := NewTransferWorker(transfers, nil)
	w.stepDelay = 0

	// Unknown id: the task is dropped without error so asynq does not
	// retry forever.
	if err := w.ProcessTask(context.Background(), transferTask(t, 999)); err != nil {
		t.Fatalf("expected deleted transfer to be dropped, got %v", err)
	}
}

func TestProcessTaskBadPayload(t *testing.T) {
	w := NewTransferWorker(service.NewTransferService(nil), nil)
	w.stepDelay = 0

	task := asynq.NewTask(service.TaskTypeTransfer, []byte("{not json"))
	if err := w.ProcessTask(context.Background(), task); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}
