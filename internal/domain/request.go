package domain

import "time"

// Request state constants
const (
	StatePending    = "pending"
	StateProcessing = "processing"
	StateCompleted  = "completed"
	StateFailed     = "failed"
)

// RequestRecord is the persisted envelope tracking a single invoice-generation
// request. It is keyed in the request store by "request:<request_id>" and
// carries the lifecycle state plus, on terminal states, either the artifact
// paths or the failure reason.
type RequestRecord struct {
	RequestID       string    `json:"request_id"`
	UserID          int       `json:"user_id"`
	TransactionID   string    `json:"transaction_id"`
	CurrentState    string    `json:"current_state"`
	ErrorMessage    string    `json:"error_message,omitempty"`
	SpreadsheetPath string    `json:"spreadsheet_path,omitempty"`
	PDFPath         string    `json:"pdf_path,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// JobMessage is the queue message published by the API service and consumed
// by the worker. RequestID rides along so the worker can write the terminal
// state transition back to the request store.
type JobMessage struct {
	RequestID     string `json:"request_id"`
	UserID        int    `json:"user_id"`
	TransactionID string `json:"transaction_id"`
	DeliveryTag   uint64 `json:"-"`
}
