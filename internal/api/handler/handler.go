package handler

import (
	"context"
	"log/slog"

	"github.com/cuongbtq/invoice-service/internal/storage"
)

// Publisher submits job messages to the queue. Satisfied by the shared
// RabbitMQ client; tests substitute a fake.
type Publisher interface {
	PublishWithRetry(ctx context.Context, body []byte, contentType string) error
}

// Dependencies holds all dependencies needed by handlers
type Dependencies struct {
	Logger    *slog.Logger
	Requests  storage.RequestStore
	Publisher Publisher
}

// InvoiceHandler handles invoice-related HTTP requests
type InvoiceHandler struct {
	logger    *slog.Logger
	requests  storage.RequestStore
	publisher Publisher
}

// NewInvoiceHandler creates a new InvoiceHandler instance
func NewInvoiceHandler(deps *Dependencies) *InvoiceHandler {
	return &InvoiceHandler{
		logger:    deps.Logger,
		requests:  deps.Requests,
		publisher: deps.Publisher,
	}
}
