package invoice

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/cuongbtq/invoice-service/internal/domain"
)

var spreadsheetHeader = []interface{}{
	"Invoice",
	"User Name",
	"User Email",
	"User Address",
	"Item Bought",
	"Quantity",
	"Price",
	"Description",
	"Date",
	"Order Number",
}

// renderSpreadsheet writes one sheet with a fixed header row and one row per
// line item, mixing user fields and item fields.
func (r *Renderer) renderSpreadsheet(user *domain.UserRecord, txn *domain.TransactionRecord) (string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)

	if err := f.SetSheetRow(sheet, "A1", &spreadsheetHeader); err != nil {
		return "", fmt.Errorf("failed to write header row: %w", err)
	}

	for i, item := range txn.Items {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return "", fmt.Errorf("failed to compute row cell: %w", err)
		}

		row := []interface{}{
			"Invoice",
			user.Name,
			user.Email,
			user.Address,
			item.ItemName,
			item.Quantity,
			item.Price,
			item.Description,
			txn.Date,
			txn.OrderNumber,
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return "", fmt.Errorf("failed to write item row: %w", err)
		}
	}

	path := r.artifactPath(user, txn, "xlsx")
	err := writeFileAtomic(path, func(out *os.File) error {
		if _, err := f.WriteTo(out); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", err
	}

	return path, nil
}
