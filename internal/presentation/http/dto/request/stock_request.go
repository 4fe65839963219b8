package request

import "github.com/google/uuid"

// StockMovementRequest represents a manual stock operation (addition,
// wastage or return)
type StockMovementRequest struct {
	BookID    uuid.UUID `json:"book_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
	Reference *string   `json:"reference"`
	Note      *string   `json:"note"`
}

// MovementFilterRequest represents stock ledger filter parameters
type MovementFilterRequest struct {
	Type      *int   `form:"type"`
	UserID    string `form:"user_id"`
	StartDate string `form:"start_date"`
	EndDate   string `form:"end_date"`
	SortOrder string `form:"sort_order"`
	Page      int    `form:"page"`
	PerPage   int    `form:"per_page"`
}
