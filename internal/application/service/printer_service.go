package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/kiplagat/bookshop-api/internal/domain/entity"
	"github.com/kiplagat/bookshop-api/internal/domain/repository"
	"github.com/kiplagat/bookshop-api/pkg/apperror"
	"github.com/kiplagat/bookshop-api/pkg/printer"
)

// PrinterService handles receipt formatting and thermal printing.
type PrinterService struct {
	printer      printer.Printer
	receiptRepo  repository.ReceiptRepository
	settingsRepo repository.SettingsRepository
	printerType  string
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	receiptRepo repository.ReceiptRepository,
	settingsRepo repository.SettingsRepository,
	printerType string,
) *PrinterService {
	return &PrinterService{
		printer:      p,
		receiptRepo:  receiptRepo,
		settingsRepo: settingsRepo,
		printerType:  printerType,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printerType != "none" && s.printerType != "",
		Connected:  s.printer.IsConnected(),
		Type:       s.printerType,
	}
}

// shopHeader carries the shop details printed at the top of every receipt
type shopHeader struct {
	Name    string
	Address string
	Phone   string
	Footer  string
}

func (s *PrinterService) headerFor(ctx context.Context, userID uuid.UUID) shopHeader {
	header := shopHeader{
		Name:   "School Bookshop",
		Footer: "Thank you for shopping with us",
	}

	settings, err := s.settingsRepo.GetByUserID(ctx, userID)
	if err != nil || settings == nil {
		return header
	}

	if settings.ShopName != "" {
		header.Name = settings.ShopName
	}
	if settings.ShopAddress != nil {
		header.Address = *settings.ShopAddress
	}
	if settings.ShopPhone != nil {
		header.Phone = *settings.ShopPhone
	}
	if settings.ReceiptFooter != "" {
		header.Footer = settings.ReceiptFooter
	}

	return header
}

// TestPrint sends a test page to the printer.
func (s *PrinterService) TestPrint() error {
	receipt := &entity.Receipt{
		ReceiptNo:   "TEST-001",
		CashierName: "System",
		SubTotal:    2000,
		Total:       2000,
		CreatedAt:   time.Now(),
		Lines: []entity.ReceiptLine{
			{Title: "Test Item 1", Quantity: 1, UnitPrice: 1000, Total: 1000},
			{Title: "Test Item 2", Quantity: 2, UnitPrice: 500, Total: 1000},
		},
	}

	header := shopHeader{
		Name:    "PRINTER TEST",
		Address: "Test Address",
		Phone:   "+254 000 000 000",
		Footer:  "Test complete",
	}

	if err := s.printer.Print(FormatReceipt(receipt, header)); err != nil {
		return fmt.Errorf("test print failed: %w", err)
	}

	return nil
}

// PrintReceipt fetches a receipt (with lines and payments) and prints it.
// Printing is a read-only projection; the stored receipt never changes.
func (s *PrinterService) PrintReceipt(ctx context.Context, receiptID uuid.UUID) (*entity.Receipt, error) {
	receipt, err := s.receiptRepo.GetWithDetails(ctx, receiptID)
	if err != nil {
		return nil, err
	}
	if receipt == nil {
		return nil, apperror.NewNotFoundError("Receipt")
	}

	header := s.headerFor(ctx, receipt.UserID)

	if err := s.printer.Print(FormatReceipt(receipt, header)); err != nil {
		log.Printf("Printer error (receipt %s): %v", receipt.ReceiptNo, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}

	return receipt, nil
}

// FormatReceipt converts a receipt into ESC/POS bytes.
func FormatReceipt(r *entity.Receipt, header shopHeader) []byte {
	doc := printer.NewDocument(32) // 58mm paper = 32 chars

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(header.Name).
		SetFontSize(printer.FontNormal).
		SetBold(false)

	if header.Address != "" {
		doc.Text(header.Address)
	}
	if header.Phone != "" {
		doc.Text(header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-')

	doc.KeyValue("Receipt:", r.ReceiptNo).
		KeyValue("Date:", r.CreatedAt.Format("2006-01-02 15:04"))

	if r.CashierName != "" {
		doc.KeyValue("Cashier:", r.CashierName)
	}
	if r.StudentName != nil {
		doc.KeyValue("Student:", *r.StudentName)
	}

	doc.Separator('-')

	for _, line := range r.Lines {
		doc.ItemLine(line.Quantity, line.Title, fmt.Sprintf("%.2f", float64(line.Total)/100))
		if line.Quantity > 1 {
			doc.TextF("  @ %.2f each", float64(line.UnitPrice)/100)
		}
	}

	doc.Separator('-')

	doc.KeyValue("Subtotal:", fmt.Sprintf("%.2f", float64(r.SubTotal)/100))
	if r.DiscountAmount > 0 {
		doc.KeyValue("Discount:", fmt.Sprintf("-%.2f", float64(r.DiscountAmount)/100))
	}
	doc.SetBold(true).
		KeyValue("TOTAL:", fmt.Sprintf("%.2f", float64(r.Total)/100)).
		SetBold(false)

	for _, p := range r.Payments {
		doc.KeyValue(p.Method.String()+":", fmt.Sprintf("%.2f", float64(p.Amount)/100))
	}

	doc.Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text(header.Footer).
		LineFeed().
		SetAlign(printer.AlignLeft)

	doc.FeedLines(3).
		PartialCut()

	return doc.Bytes()
}
