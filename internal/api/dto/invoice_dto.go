package dto

type GenerateInvoiceRequest struct {
	UserID        int    `json:"user_id" binding:"required"`
	TransactionID string `json:"transaction_id" binding:"required"`
}

type GenerateInvoiceResponse struct {
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
}

type RequestStatusResponse struct {
	RequestID       string `json:"request_id"`
	UserID          int    `json:"user_id"`
	TransactionID   string `json:"transaction_id"`
	CurrentState    string `json:"current_state"`
	ErrorMessage    string `json:"error_message,omitempty"`
	SpreadsheetPath string `json:"spreadsheet_path,omitempty"`
	PDFPath         string `json:"pdf_path,omitempty"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}
