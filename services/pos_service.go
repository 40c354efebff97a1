package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"bookstore/models"
	"bookstore/pricing"
)

// POSService runs the sales associate's register. Each associate has at most
// one open transaction, held as a pending pos-channel order.
type POSService struct {
	pos      POSRepository
	books    BookRepository
	mailer   Mailer
	currency string
	now      func() time.Time
}

func NewPOSService(pos POSRepository, books BookRepository, mailer Mailer, currency string) *POSService {
	return &POSService{pos: pos, books: books, mailer: mailer, currency: currency, now: time.Now}
}

// Open returns the associate's open transaction, starting a new one when needed.
func (s *POSService) Open(ctx context.Context, staffID int) (*models.Order, error) {
	id, err := s.pos.Open(ctx, staffID, newOrderNumber("POS", s.now()))
	if err != nil {
		return nil, fmt.Errorf("open transaction: %w", err)
	}
	return s.pos.Get(ctx, id)
}

func (s *POSService) Current(ctx context.Context, staffID int) (*models.Order, error) {
	return s.pos.FindOpen(ctx, staffID)
}

// openTransaction loads a transaction the associate may still modify.
func (s *POSService) openTransaction(ctx context.Context, staffID, orderID int) (*models.Order, error) {
	order, err := s.pos.Get(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Channel != models.ChannelPOS || order.StaffID == nil || *order.StaffID != staffID {
		return nil, models.ErrForbidden
	}
	if order.Status != models.OrderStatusPending {
		return nil, models.ErrTransactionClosed
	}
	return order, nil
}

func lineQuantity(order *models.Order, bookID int) int {
	for _, item := range order.Items {
		if item.BookID == bookID {
			return item.Quantity
		}
	}
	return 0
}

func (s *POSService) refresh(ctx context.Context, orderID int) (*models.Order, error) {
	if err := s.pos.Recalculate(ctx, orderID); err != nil {
		return nil, fmt.Errorf("recalculate totals: %w", err)
	}
	return s.pos.Get(ctx, orderID)
}

func (s *POSService) AddLine(ctx context.Context, staffID, orderID, bookID, quantity int) (*models.Order, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	order, err := s.openTransaction(ctx, staffID, orderID)
	if err != nil {
		return nil, err
	}
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, models.ErrBookUnavailable
	}
	if lineQuantity(order, bookID)+quantity > book.Stock {
		return nil, models.ErrInsufficientStock
	}

	item := models.OrderItem{
		BookID:    book.ID,
		Title:     book.Title,
		Quantity:  quantity,
		ListPrice: book.Price,
		UnitPrice: pricing.DiscountedPrice(book.Price, book.OnSale, book.DiscountPercentage),
	}
	if err := s.pos.AddLine(ctx, orderID, item); err != nil {
		return nil, err
	}
	return s.refresh(ctx, orderID)
}

// UpdateLine sets the quantity of a line; zero removes it.
func (s *POSService) UpdateLine(ctx context.Context, staffID, orderID, bookID, quantity int) (*models.Order, error) {
	if quantity < 0 {
		return nil, models.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveLine(ctx, staffID, orderID, bookID)
	}
	if _, err := s.openTransaction(ctx, staffID, orderID); err != nil {
		return nil, err
	}
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, models.ErrBookUnavailable
	}
	if quantity > book.Stock {
		return nil, models.ErrInsufficientStock
	}
	if err := s.pos.SetLineQuantity(ctx, orderID, bookID, quantity); err != nil {
		return nil, err
	}
	return s.refresh(ctx, orderID)
}

func (s *POSService) RemoveLine(ctx context.Context, staffID, orderID, bookID int) (*models.Order, error) {
	if _, err := s.openTransaction(ctx, staffID, orderID); err != nil {
		return nil, err
	}
	if err := s.pos.RemoveLine(ctx, orderID, bookID); err != nil {
		return nil, err
	}
	return s.refresh(ctx, orderID)
}

// Finalize takes payment, decrements stock and closes the transaction. A
// receipt is emailed when the customer gave an address.
func (s *POSService) Finalize(ctx context.Context, staffID, orderID int, req models.POSFinalizeRequest) (*models.Order, error) {
	if req.PaymentType != models.PaymentTypeCash && req.PaymentType != models.PaymentTypeCard {
		return nil, models.NewValidationError("payment type must be cash or card")
	}
	order, err := s.openTransaction(ctx, staffID, orderID)
	if err != nil {
		return nil, err
	}
	if len(order.Items) == 0 {
		return nil, models.ErrCartEmpty
	}

	order, err = s.pos.Finalize(ctx, orderID, staffID, req.PaymentType, req.CustomerEmail)
	if err != nil {
		return nil, err
	}

	if req.CustomerEmail != "" && s.mailer != nil {
		if err := s.mailer.SendReceipt(req.CustomerEmail, order, s.Receipt(order)); err != nil {
			log.Printf("pos: failed to email receipt for %s: %v", order.OrderNumber, err)
		}
	}
	return order, nil
}

func (s *POSService) Cancel(ctx context.Context, staffID, orderID int) (*models.Order, error) {
	if _, err := s.openTransaction(ctx, staffID, orderID); err != nil {
		return nil, err
	}
	ok, err := s.pos.Cancel(ctx, orderID, staffID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrTransactionClosed
	}
	return s.pos.Get(ctx, orderID)
}

// GetReceipt renders the receipt for one of the associate's completed transactions.
func (s *POSService) GetReceipt(ctx context.Context, staffID, orderID int) (string, error) {
	order, err := s.pos.Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	if order.Channel != models.ChannelPOS || order.StaffID == nil || *order.StaffID != staffID {
		return "", models.ErrForbidden
	}
	if order.Status != models.OrderStatusCompleted {
		return "", models.ErrTransactionClosed
	}
	return s.Receipt(order), nil
}

const receiptWidth = 40

func receiptRow(label, amount string) string {
	pad := receiptWidth - len(label) - len(amount)
	if pad < 1 {
		pad = 1
	}
	return label + strings.Repeat(" ", pad) + amount + "\n"
}

// Receipt renders a plain-text receipt for a POS transaction.
func (s *POSService) Receipt(order *models.Order) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth) + "\n"

	b.WriteString("BOOKSTORE\n")
	b.WriteString("Order: " + order.OrderNumber + "\n")
	b.WriteString("Date:  " + order.UpdatedAt.Format("2006-01-02 15:04") + "\n")
	b.WriteString(rule)
	for _, item := range order.Items {
		b.WriteString(fmt.Sprintf("%d x %s\n", item.Quantity, item.Title))
		b.WriteString(receiptRow("  @ "+pricing.Format(item.UnitPrice, s.currency), pricing.Format(item.UnitPrice*item.Quantity, s.currency)))
	}
	b.WriteString(rule)
	b.WriteString(receiptRow("Subtotal", pricing.Format(order.Subtotal, s.currency)))
	if order.DiscountTotal > 0 {
		b.WriteString(receiptRow("Discount", "-"+pricing.Format(order.DiscountTotal, s.currency)))
	}
	b.WriteString(receiptRow("TOTAL", pricing.Format(order.Total, s.currency)))
	if order.PaymentType != nil {
		b.WriteString("Paid by: " + *order.PaymentType + "\n")
	}
	b.WriteString("Thank you for shopping with us!\n")
	return b.String()
}
