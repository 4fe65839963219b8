package request

import "github.com/google/uuid"

// CreateBookRequest represents a book creation request
type CreateBookRequest struct {
	SupplierID  *uuid.UUID `json:"supplier_id"`
	Title       string     `json:"title" binding:"required,min=2,max=255"`
	Code        string     `json:"code" binding:"omitempty,max=100"`
	Class       string     `json:"class" binding:"omitempty,max=50"`
	Subject     string     `json:"subject" binding:"omitempty,max=100"`
	Author      string     `json:"author" binding:"omitempty,max=255"`
	Type        string     `json:"type" binding:"omitempty,oneof=textbook revision stationery storybook other"`
	CostPrice   float64    `json:"cost_price" binding:"min=0"`
	SellPrice   float64    `json:"sell_price" binding:"min=0"`
	Stock       int        `json:"stock" binding:"min=0"`
	MinStock    int        `json:"min_stock" binding:"min=0"`
	Description *string    `json:"description"`
}

// UpdateBookRequest represents a book update request
type UpdateBookRequest struct {
	SupplierID  *uuid.UUID `json:"supplier_id"`
	Title       *string    `json:"title" binding:"omitempty,min=2,max=255"`
	Code        *string    `json:"code" binding:"omitempty,min=1,max=100"`
	Class       *string    `json:"class" binding:"omitempty,max=50"`
	Subject     *string    `json:"subject" binding:"omitempty,max=100"`
	Author      *string    `json:"author" binding:"omitempty,max=255"`
	Type        *string    `json:"type" binding:"omitempty,oneof=textbook revision stationery storybook other"`
	CostPrice   *float64   `json:"cost_price" binding:"omitempty,min=0"`
	SellPrice   *float64   `json:"sell_price" binding:"omitempty,min=0"`
	MinStock    *int       `json:"min_stock" binding:"omitempty,min=0"`
	Description *string    `json:"description"`
}

// BookFilterRequest represents book filter parameters
type BookFilterRequest struct {
	Search     string `form:"search"`
	Class      string `form:"class"`
	Subject    string `form:"subject"`
	Type       string `form:"type"`
	SupplierID string `form:"supplier_id"`
	LowStock   bool   `form:"low_stock"`
	SortBy     string `form:"sort_by"`
	SortOrder  string `form:"sort_order"`
	Page       int    `form:"page"`
	PerPage    int    `form:"per_page"`
	Limit      int    `form:"limit"` // For cursor-based pagination
}
