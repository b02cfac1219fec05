package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/cuongbtq/invoice-service/internal/api/dto"
	"github.com/cuongbtq/invoice-service/internal/domain"
)

var invoiceRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "invoice_requests_total",
	Help: "Total invoice-generation requests accepted, labeled by status code",
}, []string{"status"})

// GenerateInvoice handles POST /api/v1/invoices
// Persists a pending request record, enqueues the fetch-and-render job and
// returns immediately; the worker reports the terminal state back through
// the request store.
func (h *InvoiceHandler) GenerateInvoice(c *gin.Context) {
	var req dto.GenerateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Error("Invalid request body", slog.String("error", err.Error()))
		invoiceRequestsTotal.WithLabelValues("400").Inc()
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request body",
		})
		return
	}

	now := time.Now().UTC()
	record := &domain.RequestRecord{
		RequestID:     uuid.New().String(),
		UserID:        req.UserID,
		TransactionID: req.TransactionID,
		CurrentState:  domain.StatePending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := h.requests.Put(c.Request.Context(), record); err != nil {
		h.logger.Error("Failed to persist request record",
			slog.String("request_id", record.RequestID),
			slog.String("error", err.Error()),
		)
		record.CurrentState = domain.StateFailed
		invoiceRequestsTotal.WithLabelValues("500").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start invoice processing",
		})
		return
	}

	msg := domain.JobMessage{
		RequestID:     record.RequestID,
		UserID:        record.UserID,
		TransactionID: record.TransactionID,
	}

	body, err := json.Marshal(msg)
	if err == nil {
		err = h.publisher.PublishWithRetry(c.Request.Context(), body, "application/json")
	}
	if err != nil {
		h.logger.Error("Failed to enqueue invoice job",
			slog.String("request_id", record.RequestID),
			slog.String("error", err.Error()),
		)

		record.CurrentState = domain.StateFailed
		record.ErrorMessage = "failed to enqueue job"
		// Best effort: the pending record is already persisted, try to
		// flip it so pollers don't wait on a job that never ran.
		if putErr := h.requests.Put(c.Request.Context(), record); putErr != nil {
			h.logger.Error("Failed to persist failed state",
				slog.String("request_id", record.RequestID),
				slog.String("error", putErr.Error()),
			)
		}

		invoiceRequestsTotal.WithLabelValues("500").Inc()
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to start invoice processing",
		})
		return
	}

	h.logger.Info("Invoice request accepted",
		slog.String("request_id", record.RequestID),
		slog.Int("user_id", record.UserID),
		slog.String("transaction_id", record.TransactionID),
	)

	invoiceRequestsTotal.WithLabelValues("202").Inc()
	c.JSON(http.StatusAccepted, dto.GenerateInvoiceResponse{
		Message:   "File processing has been started",
		RequestID: record.RequestID,
	})
}

// GetRequestStatus handles GET /api/v1/invoices/:request_id
// Returns the tracked lifecycle state so callers can poll for completion.
func (h *InvoiceHandler) GetRequestStatus(c *gin.Context) {
	requestID := c.Param("request_id")

	if _, err := uuid.Parse(requestID); err != nil {
		h.logger.Error("Invalid request_id format",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "request_id must be a valid UUID",
		})
		return
	}

	record, err := h.requests.Get(c.Request.Context(), requestID)
	if err != nil {
		if err == domain.ErrRequestNotFound {
			c.JSON(http.StatusNotFound, gin.H{
				"error": "Request ID not found",
			})
			return
		}

		h.logger.Error("Failed to fetch request record",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to fetch request status",
		})
		return
	}

	c.JSON(http.StatusOK, dto.RequestStatusResponse{
		RequestID:       record.RequestID,
		UserID:          record.UserID,
		TransactionID:   record.TransactionID,
		CurrentState:    record.CurrentState,
		ErrorMessage:    record.ErrorMessage,
		SpreadsheetPath: record.SpreadsheetPath,
		PDFPath:         record.PDFPath,
		CreatedAt:       record.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       record.UpdatedAt.Format(time.RFC3339),
	})
}
