package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/hibiken/asynq"
	"github.com/studiopipe/gateway/internal/model"
	"github.com/studiopipe/gateway/internal/service"
	"github.com/studiopipe/gateway/internal/websocket"
)

// TransferWorker drives pending transfers to completion in the
// background and streams progress to websocket subscribers.
type TransferWorker struct {
	transfers *service.TransferService
	hub       *websocket.Hub

	// stepDelay spaces the progress updates; tests shorten it.
	stepDelay time.Duration
}

func NewTransferWorker(transfers *service.TransferService, hub *websocket.Hub) *TransferWorker {
	return &TransferWorker{
		transfers: transfers,
		hub:       hub,
		stepDelay: 2 * time.Second,
	}
}

// ProcessTask handles one transfer:process task.
func (w *TransferWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload service.TransferTaskPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal transfer payload: %w", err)
	}

	id := payload.TransferID
	log.Printf("Starting transfer %d", id)

	if _, err := w.transfers.Get(id); err != nil {
		// Deleted before the worker got to it; nothing to do.
		log.Printf("Transfer %d no longer exists, dropping task", id)
		return nil
	}

	for _, progress := range []int{25, 50, 75} {
		select {
		case <-ctx.Done():
			log.Printf("Transfer %d cancelled", id)
			return ctx.Err()
		default:
		}

		if err := w.setProgress(id, model.TransferStatusTransferring, progress); err != nil {
			return err
		}
		w.broadcastProgress(id, model.TransferStatusTransferring, progress)

		time.Sleep(w.stepDelay)
	}

	if err := w.setProgress(id, model.TransferStatusCompleted, 100); err != nil {
		return err
	}
	if w.hub != nil {
		transfer, err := w.transfers.Get(id)
		if err == nil {
			w.hub.BroadcastComplete(id, transfer)
		}
	}

	log.Printf("Transfer %d completed", id)
	return nil
}

func (w *TransferWorker) setProgress(id int, status string, progress int) error {
	_, err := w.transfers.Update(id, &model.UpdateTransferRequest{
		Status:   &status,
		Progress: &progress,
	})
	if err != nil {
		return fmt.Errorf("failed to update transfer %d: %w", id, err)
	}
	return nil
}

func (w *TransferWorker) broadcastProgress(id int, status string, progress int) {
	if w.hub != nil {
		w.hub.BroadcastProgress(id, status, progress)
	}
}
