package invoice

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/cuongbtq/invoice-service/internal/domain"
	"github.com/cuongbtq/invoice-service/shared/logger"
)

func testUser() *domain.UserRecord {
	return &domain.UserRecord{
		UserID:  7,
		Name:    "Alice",
		Email:   "a@x.com",
		Address: "221B Baker St",
	}
}

func testTransaction(id string) *domain.TransactionRecord {
	return &domain.TransactionRecord{
		TransactionID: id,
		Date:          "2025-03-01",
		OrderNumber:   "ORD-1001",
		PaymentMode:   "card",
		Items: []domain.LineItem{
			{
				ItemName:    "Widget",
				Description: "A fine widget",
				Quantity:    2,
				Price:       100.00,
				SoldBy:      "Widget Works, 12 Industrial Estate, Pune, Maharashtra, India",
			},
			{
				ItemName:    "Gadget",
				Description: "A small gadget",
				Quantity:    1,
				Price:       50.00,
			},
		},
	}
}

func TestLineTotals(t *testing.T) {
	amount, tax, total := lineTotals(domain.LineItem{Quantity: 2, Price: 100.00})

	assert.InDelta(t, 200.00, amount, 1e-9)
	assert.InDelta(t, 36.00, tax, 1e-9)
	assert.InDelta(t, 236.00, total, 1e-9)
}

func TestInvoiceTotal(t *testing.T) {
	items := []domain.LineItem{
		{Quantity: 2, Price: 100.00}, // 236.00
		{Quantity: 1, Price: 50.00},  // 59.00
	}

	assert.InDelta(t, 295.00, invoiceTotal(items), 1e-9)
}

func TestInvoiceTotal_Empty(t *testing.T) {
	assert.Zero(t, invoiceTotal(nil))
}

func TestWrapWords(t *testing.T) {
	// Each rune is one unit wide, so width is just string length.
	measure := func(s string) float64 { return float64(len(s)) }

	tests := []struct {
		name     string
		text     string
		maxWidth float64
		want     []string
	}{
		{
			name:     "fits on one line",
			text:     "short address",
			maxWidth: 20,
			want:     []string{"short address"},
		},
		{
			name:     "wraps at width",
			text:     "one two three four",
			maxWidth: 9,
			want:     []string{"one two", "three", "four"},
		},
		{
			name:     "single oversized word gets its own line",
			text:     "tiny enormousword tiny",
			maxWidth: 6,
			want:     []string{"tiny", "enormousword", "tiny"},
		},
		{
			name:     "empty text",
			text:     "   ",
			maxWidth: 10,
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, wrapWords(tt.text, tt.maxWidth, measure))
		})
	}
}

func TestRenderer_Render(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, logger.NewDefault().Logger)

	artifacts, err := r.Render(testUser(), testTransaction("txn-42"))
	require.NoError(t, err)
	require.NotNil(t, artifacts)

	assert.Equal(t, filepath.Join(dir, "invoice_7_txn-42.xlsx"), artifacts.SpreadsheetPath)
	assert.Equal(t, filepath.Join(dir, "invoice_7_txn-42.pdf"), artifacts.PDFPath)

	assert.FileExists(t, artifacts.SpreadsheetPath)
	assert.FileExists(t, artifacts.PDFPath)

	// No temp leftovers from the atomic writes
	leftovers, err := filepath.Glob(filepath.Join(dir, ".render-*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestRenderer_SpreadsheetContents(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, logger.NewDefault().Logger)

	artifacts, err := r.Render(testUser(), testTransaction("txn-42"))
	require.NoError(t, err)

	f, err := excelize.OpenFile(artifacts.SpreadsheetPath)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	require.NoError(t, err)
	require.Len(t, rows, 3) // header + 2 items

	assert.Equal(t, "Invoice", rows[0][0])
	assert.Equal(t, "User Name", rows[0][1])
	assert.Equal(t, "Order Number", rows[0][9])

	assert.Equal(t, "Alice", rows[1][1])
	assert.Equal(t, "a@x.com", rows[1][2])
	assert.Equal(t, "Widget", rows[1][4])
	assert.Equal(t, "ORD-1001", rows[1][9])
	assert.Equal(t, "Gadget", rows[2][4])
}

func TestRenderer_NoLineItems(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, logger.NewDefault().Logger)

	txn := testTransaction("txn-empty")
	txn.Items = nil

	artifacts, err := r.Render(testUser(), txn)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNoLineItems)
	assert.Nil(t, artifacts)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "failed render must not leave files behind")
}

func TestRenderer_FailureKeepsPriorArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, logger.NewDefault().Logger)

	artifacts, err := r.Render(testUser(), testTransaction("txn-42"))
	require.NoError(t, err)

	before, err := os.ReadFile(artifacts.PDFPath)
	require.NoError(t, err)

	// Same identifiers, but the transaction now resolves to no items.
	broken := testTransaction("txn-42")
	broken.Items = nil
	_, err = r.Render(testUser(), broken)
	require.Error(t, err)

	after, err := os.ReadFile(artifacts.PDFPath)
	require.NoError(t, err)
	assert.Equal(t, before, after, "failed render must not corrupt prior output")
}

func TestRenderer_ConcurrentRendersProduceDistinctArtifacts(t *testing.T) {
	dir := t.TempDir()
	r := NewRenderer(dir, logger.NewDefault().Logger)

	const n = 2
	results := make([]*Artifacts, n)
	errs := make([]error, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			txn := testTransaction(fmt.Sprintf("txn-%d", i))
			results[i], errs[i] = r.Render(testUser(), txn)
		}(i)
	}
	wg.Wait()

	for i := 0; i < n; i++ {
		require.NoError(t, errs[i])
	}

	assert.NotEqual(t, results[0].SpreadsheetPath, results[1].SpreadsheetPath)
	assert.NotEqual(t, results[0].PDFPath, results[1].PDFPath)
	for _, a := range results {
		assert.FileExists(t, a.SpreadsheetPath)
		assert.FileExists(t, a.PDFPath)
	}
}
