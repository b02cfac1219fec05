package invoice

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-pdf/fpdf"

	"github.com/cuongbtq/invoice-service/internal/domain"
)

const (
	pageWidth = 612 // Letter, points

	soldByWrapWidth = 380
	soldByLineStep  = 20
)

// renderPDF draws the fixed one-page invoice layout: title, name/email
// block, wrapped "sold by" address, shipping address, order metadata, the
// line-item table and the running total.
func (r *Renderer) renderPDF(user *domain.UserRecord, txn *domain.TransactionRecord) (string, error) {
	pdf := fpdf.New("P", "pt", "Letter", "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()

	// Title
	pdf.SetFont("Helvetica", "B", 18)
	title := "Invoice"
	pdf.Text((pageWidth-pdf.GetStringWidth(title))/2, 42, title)

	label := func(x, y float64, s string) {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.Text(x, y, s)
	}
	value := func(x, y float64, s string) {
		pdf.SetFont("Helvetica", "", 12)
		pdf.Text(x, y, s)
	}

	label(100, 92, "Name:")
	value(150, 92, user.Name)
	label(100, 112, "Email:")
	value(150, 112, user.Email)

	label(400, 92, "Date:")
	value(430, 92, txn.Date)
	label(400, 112, "Payment Mode:")
	value(500, 112, txn.PaymentMode)

	// Sold-by address comes from the first line item and is word-wrapped
	// against the actual font metrics.
	label(100, 152, "Sold By:")
	pdf.SetFont("Helvetica", "", 12)
	y := 172.0
	for _, line := range wrapWords(txn.Items[0].SoldBy, soldByWrapWidth, pdf.GetStringWidth) {
		pdf.Text(100, y, line)
		y += soldByLineStep
	}

	label(100, 212, "Shipping Address:")
	value(100, 232, user.Address)

	label(100, 272, "Order Number:")
	value(200, 272, txn.OrderNumber)

	drawItemTable(pdf, txn.Items)

	path := r.artifactPath(user, txn, "pdf")
	err := writeFileAtomic(path, func(out *os.File) error {
		if err := pdf.Output(out); err != nil {
			return fmt.Errorf("failed to write pdf: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return path, nil
}

var tableColumns = []struct {
	title string
	width float64
}{
	{"Item Bought", 85},
	{"Item Description", 125},
	{"Quantity", 55},
	{"Price", 70},
	{"Tax", 45},
	{"Total Amount Payable", 100},
}

func drawItemTable(pdf *fpdf.Fpdf, items []domain.LineItem) {
	const (
		tableX    = 66.0
		tableY    = 310.0
		rowHeight = 24.0
	)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.SetFillColor(190, 190, 190)
	pdf.SetXY(tableX, tableY)
	for _, col := range tableColumns {
		pdf.CellFormat(col.width, rowHeight, col.title, "1", 0, "C", true, 0, "")
	}

	pdf.SetFont("Helvetica", "", 11)
	pdf.SetFillColor(245, 245, 220)
	y := tableY + rowHeight
	for _, item := range items {
		_, _, total := lineTotals(item)

		cells := []string{
			item.ItemName,
			item.Description,
			fmt.Sprintf("%d", item.Quantity),
			fmt.Sprintf("rs. %.2f", item.Price),
			"18%",
			fmt.Sprintf("%.2f", total),
		}

		pdf.SetXY(tableX, y)
		for i, cell := range cells {
			pdf.CellFormat(tableColumns[i].width, rowHeight, cell, "1", 0, "C", true, 0, "")
		}
		y += rowHeight
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.Text(tableX+180, y+30, "Total Amount Payable: rs.")
	pdf.SetFont("Helvetica", "", 12)
	pdf.Text(tableX+340, y+30, fmt.Sprintf("%.2f", invoiceTotal(items)))
}

// wrapWords greedily packs words into lines no wider than maxWidth as
// measured by the supplied width function. A single word wider than
// maxWidth gets a line of its own.
func wrapWords(text string, maxWidth float64, width func(string) float64) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	var lines []string
	line := []string{words[0]}
	for _, word := range words[1:] {
		candidate := strings.Join(line, " ") + " " + word
		if width(candidate) > maxWidth {
			lines = append(lines, strings.Join(line, " "))
			line = []string{word}
		} else {
			line = append(line, word)
		}
	}

	return append(lines, strings.Join(line, " "))
}
