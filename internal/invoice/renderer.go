package invoice

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/cuongbtq/invoice-service/internal/domain"
)

// TaxRate is the flat tax applied to every line item. Fixed business
// constant, not configurable.
const TaxRate = 0.18

// Artifacts references the documents produced for a single request
type Artifacts struct {
	SpreadsheetPath string
	PDFPath         string
}

// Renderer produces the spreadsheet and PDF artifacts for an invoice.
// Output names are derived from the user and transaction identifiers, so
// concurrent renders for distinct requests never clobber each other.
type Renderer struct {
	outputDir string
	logger    *slog.Logger
}

// NewRenderer creates a renderer writing into outputDir
func NewRenderer(outputDir string, logger *slog.Logger) *Renderer {
	return &Renderer{
		outputDir: outputDir,
		logger:    logger,
	}
}

// Render produces both artifacts from the two input records. Either path
// failing fails the whole render; a failed render never leaves a partial
// file behind, and never overwrites a previously written artifact.
func (r *Renderer) Render(user *domain.UserRecord, txn *domain.TransactionRecord) (*Artifacts, error) {
	if len(txn.Items) == 0 {
		return nil, domain.ErrNoLineItems
	}

	spreadsheetPath, err := r.renderSpreadsheet(user, txn)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet render failed: %w", err)
	}

	pdfPath, err := r.renderPDF(user, txn)
	if err != nil {
		return nil, fmt.Errorf("pdf render failed: %w", err)
	}

	r.logger.Info("Invoice artifacts rendered",
		slog.String("spreadsheet", spreadsheetPath),
		slog.String("pdf", pdfPath),
	)

	return &Artifacts{
		SpreadsheetPath: spreadsheetPath,
		PDFPath:         pdfPath,
	}, nil
}

func (r *Renderer) artifactPath(user *domain.UserRecord, txn *domain.TransactionRecord, ext string) string {
	name := fmt.Sprintf("invoice_%d_%s.%s", user.UserID, txn.TransactionID, ext)
	return filepath.Join(r.outputDir, name)
}

// lineTotals computes the taxed amounts for one line item
func lineTotals(item domain.LineItem) (amount, tax, total float64) {
	amount = float64(item.Quantity) * item.Price
	tax = amount * TaxRate
	total = amount + tax
	return amount, tax, total
}

// invoiceTotal sums the taxed line totals across all items
func invoiceTotal(items []domain.LineItem) float64 {
	var sum float64
	for _, item := range items {
		_, _, total := lineTotals(item)
		sum += total
	}
	return sum
}

// writeFileAtomic renders into a temp file in the target directory and
// renames it into place, so readers never observe a partial artifact and a
// failed render leaves any previous artifact untouched.
func writeFileAtomic(path string, render func(f *os.File) error) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".render-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if err := render(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}

	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to move artifact into place: %w", err)
	}

	return nil
}
