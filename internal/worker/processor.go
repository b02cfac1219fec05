package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cuongbtq/invoice-service/internal/domain"
)

var (
	invoiceJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "invoice_jobs_total",
		Help: "Total invoice jobs processed, labeled by outcome",
	}, []string{"outcome"})

	invoiceJobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "invoice_job_duration_seconds",
		Help:    "Latency distribution of the fetch-and-render pipeline",
		Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	})
)

// processJob runs the fetch-and-render pipeline for one request and records
// the terminal state in the request store. Errors wrapped as
// domain.RetryableError mean the outcome could not be recorded.
func (w *Worker) processJob(ctx context.Context, msg *domain.JobMessage) error {
	start := time.Now()

	w.logger.Info("Processing invoice job",
		slog.String("request_id", msg.RequestID),
		slog.Int("user_id", msg.UserID),
		slog.String("transaction_id", msg.TransactionID),
	)

	jobCtx, cancel := context.WithTimeout(ctx, w.jobTimeout)
	defer cancel()

	record, err := w.requests.Get(jobCtx, msg.RequestID)
	if err != nil {
		if !errors.Is(err, domain.ErrRequestNotFound) {
			return domain.NewRetryableError(fmt.Errorf("failed to load request record: %w", err))
		}
		// The record should exist; reconstruct it from the message so the
		// outcome is still observable.
		w.logger.Warn("Request record missing, reconstructing from message",
			slog.String("request_id", msg.RequestID),
		)
		record = &domain.RequestRecord{
			RequestID:     msg.RequestID,
			UserID:        msg.UserID,
			TransactionID: msg.TransactionID,
			CreatedAt:     time.Now().UTC(),
		}
	}

	record.CurrentState = domain.StateProcessing
	if err := w.requests.Put(jobCtx, record); err != nil {
		return domain.NewRetryableError(fmt.Errorf("failed to mark request processing: %w", err))
	}

	user, err := w.users.FetchUser(jobCtx, msg.UserID)
	if err != nil {
		invoiceJobsTotal.WithLabelValues("failed").Inc()
		return w.markFailed(jobCtx, record, fmt.Errorf("user lookup failed: %w", err))
	}

	txn, err := w.transactions.FetchTransaction(jobCtx, msg.TransactionID)
	if err != nil {
		invoiceJobsTotal.WithLabelValues("failed").Inc()
		return w.markFailed(jobCtx, record, fmt.Errorf("transaction lookup failed: %w", err))
	}

	artifacts, err := w.renderer.Render(user, txn)
	if err != nil {
		invoiceJobsTotal.WithLabelValues("failed").Inc()
		return w.markFailed(jobCtx, record, fmt.Errorf("render failed: %w", err))
	}

	record.CurrentState = domain.StateCompleted
	record.ErrorMessage = ""
	record.SpreadsheetPath = artifacts.SpreadsheetPath
	record.PDFPath = artifacts.PDFPath
	if err := w.requests.Put(jobCtx, record); err != nil {
		return domain.NewRetryableError(fmt.Errorf("failed to mark request completed: %w", err))
	}

	invoiceJobsTotal.WithLabelValues("completed").Inc()
	invoiceJobDuration.Observe(time.Since(start).Seconds())

	w.logger.Info("Invoice job completed",
		slog.String("request_id", msg.RequestID),
		slog.String("spreadsheet", artifacts.SpreadsheetPath),
		slog.String("pdf", artifacts.PDFPath),
		slog.Duration("duration", time.Since(start)),
	)

	return nil
}

// markFailed records the failure reason as the request's terminal state.
// The returned error is non-retryable once the state is persisted.
func (w *Worker) markFailed(ctx context.Context, record *domain.RequestRecord, cause error) error {
	record.CurrentState = domain.StateFailed
	record.ErrorMessage = cause.Error()

	if err := w.requests.Put(ctx, record); err != nil {
		return domain.NewRetryableError(fmt.Errorf("failed to record failure %q: %w", cause.Error(), err))
	}

	w.logger.Warn("Invoice job failed",
		slog.String("request_id", record.RequestID),
		slog.String("error", cause.Error()),
	)

	return cause
}
