package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/cuongbtq/invoice-service/internal/domain"
	"github.com/cuongbtq/invoice-service/internal/invoice"
	"github.com/cuongbtq/invoice-service/internal/storage"
	"github.com/cuongbtq/invoice-service/shared/rabbitmq"
)

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	RabbitClient  *rabbitmq.Client
	Requests      storage.RequestStore
	Users         storage.UserStore
	Transactions  storage.TransactionStore
	Renderer      *invoice.Renderer
	Concurrency   int
	JobTimeout    time.Duration
	PrefetchCount int
}

// Worker consumes invoice jobs from the queue, runs the fetch-and-render
// pipeline and writes the terminal state back to the request store.
type Worker struct {
	logger        *slog.Logger
	rabbitClient  *rabbitmq.Client
	requests      storage.RequestStore
	users         storage.UserStore
	transactions  storage.TransactionStore
	renderer      *invoice.Renderer
	concurrency   int
	jobTimeout    time.Duration
	prefetchCount int
	workerID      string
	jobsChan      chan *domain.JobMessage
	wg            sync.WaitGroup
	stopChan      chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "invoice-worker"
	}

	return &Worker{
		logger:        cfg.Logger,
		rabbitClient:  cfg.RabbitClient,
		requests:      cfg.Requests,
		users:         cfg.Users,
		transactions:  cfg.Transactions,
		renderer:      cfg.Renderer,
		concurrency:   cfg.Concurrency,
		jobTimeout:    cfg.JobTimeout,
		prefetchCount: cfg.PrefetchCount,
		workerID:      fmt.Sprintf("%s-%d", hostname, os.Getpid()),
		jobsChan:      make(chan *domain.JobMessage),
		stopChan:      make(chan struct{}),
	}
}

// Start begins consuming and processing jobs until the context is canceled
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("job_timeout", w.jobTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to setup consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	w.startMessageDispatcher(ctx, deliveries)

	return nil
}

// Stop gracefully stops the worker
func (w *Worker) Stop() {
	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}
