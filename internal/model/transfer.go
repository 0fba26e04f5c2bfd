package model

// Transfer statuses. "pending" transfers are picked up by the
// background worker.
const (
	TransferStatusPending      = "pending"
	TransferStatusTransferring = "transferring"
	TransferStatusCompleted    = "completed"
	TransferStatusFailed       = "failed"
)

type Transfer struct {
	ID              int    `json:"id"`
	SourcePath      string `json:"source_path"`
	DestinationPath string `json:"destination_path"`
	Status          string `json:"status"`
	Progress        int    `json:"progress"`
}

type CreateTransferRequest struct {
	SourcePath      string `json:"source_path" validate:"required"`
	DestinationPath string `json:"destination_path" validate:"required"`
	Status          string `json:"status"`
}

// UpdateTransferRequest merges only the provided fields; nil pointers
// leave the stored value untouched.
type UpdateTransferRequest struct {
	SourcePath      *string `json:"source_path"`
	DestinationPath *string `json:"destination_path"`
	Status          *string `json:"status"`
	Progress        *int    `json:"progress" validate:"omitempty,min=0,max=100"`
}
