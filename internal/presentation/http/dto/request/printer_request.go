package request

// PrintReceiptRequest is the request body for reprinting a receipt.
type PrintReceiptRequest struct {
	ReceiptID string `json:"receipt_id" binding:"required,uuid"`
}
