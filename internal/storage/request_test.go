package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cuongbtq/invoice-service/internal/domain"
)

func TestRequestKey(t *testing.T) {
	assert.Equal(t, "request:abc-123", requestKey("abc-123"))
}

func TestMemoryRequestStore_RoundTrip(t *testing.T) {
	store := NewMemoryRequestStore()
	ctx := context.Background()

	record := &domain.RequestRecord{
		RequestID:     "5f1c7b2e-9a30-4f45-8d15-1f2a3b4c5d6e",
		UserID:        42,
		TransactionID: "txn-1001",
		CurrentState:  domain.StatePending,
		CreatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
		UpdatedAt:     time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	require.NoError(t, store.Put(ctx, record))

	got, err := store.Get(ctx, record.RequestID)
	require.NoError(t, err)
	assert.Equal(t, record, got)
}

func TestMemoryRequestStore_GetMissing(t *testing.T) {
	store := NewMemoryRequestStore()

	_, err := store.Get(context.Background(), "no-such-request")
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrRequestNotFound)
}

func TestMemoryRequestStore_LastWriteWins(t *testing.T) {
	store := NewMemoryRequestStore()
	ctx := context.Background()

	record := &domain.RequestRecord{
		RequestID:    "req-1",
		CurrentState: domain.StatePending,
	}
	require.NoError(t, store.Put(ctx, record))

	record.CurrentState = domain.StateCompleted
	record.PDFPath = "/tmp/invoices/invoice_1_txn-1.pdf"
	require.NoError(t, store.Put(ctx, record))

	got, err := store.Get(ctx, "req-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, got.CurrentState)
	assert.Equal(t, "/tmp/invoices/invoice_1_txn-1.pdf", got.PDFPath)
	assert.Equal(t, 1, store.Len())
}

func TestMemoryRequestStore_PutError(t *testing.T) {
	wantErr := errors.New("store unavailable")
	store := NewMemoryRequestStore().WithPutError(wantErr)

	err := store.Put(context.Background(), &domain.RequestRecord{RequestID: "req-1"})
	assert.ErrorIs(t, err, wantErr)
	assert.Equal(t, 0, store.Len())
}
