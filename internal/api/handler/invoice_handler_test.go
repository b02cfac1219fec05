package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/invoice-service/internal/api/dto"
	"github.com/cuongbtq/invoice-service/internal/domain"
	"github.com/cuongbtq/invoice-service/internal/storage"
	"github.com/cuongbtq/invoice-service/shared/logger"
)

type fakePublisher struct {
	mu       sync.Mutex
	messages [][]byte
	err      error
}

func (p *fakePublisher) PublishWithRetry(_ context.Context, body []byte, _ string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.err != nil {
		return p.err
	}
	p.messages = append(p.messages, body)
	return nil
}

func (p *fakePublisher) published() [][]byte {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.messages
}

func newTestHandler(requests storage.RequestStore, publisher Publisher) *gin.Engine {
	gin.SetMode(gin.TestMode)

	h := NewInvoiceHandler(&Dependencies{
		Logger:    logger.NewDefault().Logger,
		Requests:  requests,
		Publisher: publisher,
	})

	r := gin.New()
	r.POST("/api/v1/invoices", h.GenerateInvoice)
	r.GET("/api/v1/invoices/:request_id", h.GetRequestStatus)
	return r
}

func postInvoice(t *testing.T, r *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestGenerateInvoice_Accepted(t *testing.T) {
	requests := storage.NewMemoryRequestStore()
	publisher := &fakePublisher{}
	r := newTestHandler(requests, publisher)

	w := postInvoice(t, r, `{"user_id": 42, "transaction_id": "txn-1001"}`)

	require.Equal(t, http.StatusAccepted, w.Code)

	var resp dto.GenerateInvoiceResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "File processing has been started", resp.Message)
	require.NotEmpty(t, resp.RequestID)
	_, err := uuid.Parse(resp.RequestID)
	require.NoError(t, err)

	// Exactly one pending record was persisted
	assert.Equal(t, 1, requests.Len())
	record, err := requests.Get(context.Background(), resp.RequestID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, record.CurrentState)
	assert.Equal(t, 42, record.UserID)
	assert.Equal(t, "txn-1001", record.TransactionID)

	// The queue message carries the request ID alongside the lookup keys
	published := publisher.published()
	require.Len(t, published, 1)

	var msg domain.JobMessage
	require.NoError(t, json.Unmarshal(published[0], &msg))
	assert.Equal(t, resp.RequestID, msg.RequestID)
	assert.Equal(t, 42, msg.UserID)
	assert.Equal(t, "txn-1001", msg.TransactionID)
}

func TestGenerateInvoice_InvalidBody(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"user_id": `},
		{"missing user_id", `{"transaction_id": "txn-1001"}`},
		{"missing transaction_id", `{"user_id": 42}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			requests := storage.NewMemoryRequestStore()
			r := newTestHandler(requests, &fakePublisher{})

			w := postInvoice(t, r, tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 0, requests.Len())
		})
	}
}

func TestGenerateInvoice_PublishFailure(t *testing.T) {
	requests := storage.NewMemoryRequestStore()
	publisher := &fakePublisher{err: errors.New("broker unavailable")}
	r := newTestHandler(requests, publisher)

	w := postInvoice(t, r, `{"user_id": 42, "transaction_id": "txn-1001"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "Failed to start invoice processing")

	// The already-persisted record is flipped to failed so pollers are not
	// left waiting on a job that never ran.
	require.Equal(t, 1, requests.Len())
	records := requestRecords(t, requests)
	require.Len(t, records, 1)
	assert.Equal(t, domain.StateFailed, records[0].CurrentState)
	assert.Equal(t, "failed to enqueue job", records[0].ErrorMessage)
}

func TestGenerateInvoice_StoreFailure(t *testing.T) {
	requests := storage.NewMemoryRequestStore().WithPutError(errors.New("store down"))
	publisher := &fakePublisher{}
	r := newTestHandler(requests, publisher)

	w := postInvoice(t, r, `{"user_id": 42, "transaction_id": "txn-1001"}`)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, publisher.published(), "no job may be enqueued without a persisted record")
}

func TestGetRequestStatus(t *testing.T) {
	requests := storage.NewMemoryRequestStore()
	r := newTestHandler(requests, &fakePublisher{})

	requestID := uuid.New().String()
	now := time.Now().UTC().Truncate(time.Second)
	require.NoError(t, requests.Put(context.Background(), &domain.RequestRecord{
		RequestID:     requestID,
		UserID:        42,
		TransactionID: "txn-1001",
		CurrentState:  domain.StateCompleted,
		PDFPath:       "/tmp/invoices/invoice_42_txn-1001.pdf",
		CreatedAt:     now,
		UpdatedAt:     now,
	}))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+requestID, nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.RequestStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, requestID, resp.RequestID)
	assert.Equal(t, domain.StateCompleted, resp.CurrentState)
	assert.Equal(t, "/tmp/invoices/invoice_42_txn-1001.pdf", resp.PDFPath)
}

func TestGetRequestStatus_NotFound(t *testing.T) {
	r := newTestHandler(storage.NewMemoryRequestStore(), &fakePublisher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/"+uuid.New().String(), nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetRequestStatus_InvalidID(t *testing.T) {
	r := newTestHandler(storage.NewMemoryRequestStore(), &fakePublisher{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/invoices/not-a-uuid", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// requestRecords drains every record out of a memory store for assertions
func requestRecords(t *testing.T, store *storage.MemoryRequestStore) []*domain.RequestRecord {
	t.Helper()

	var records []*domain.RequestRecord
	for _, id := range store.RequestIDs() {
		record, err := store.Get(context.Background(), id)
		require.NoError(t, err)
		records = append(records, record)
	}
	return records
}
