package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"bookstore/config"
	"bookstore/models"
	"bookstore/pricing"
	"bookstore/storage"
)

const guestCartPrefix = "guest_cart:"

// CartService exposes the same cart operations for signed-in users, whose
// carts live in Postgres, and guests, whose carts live in the KV store.
type CartService struct {
	carts CartRepository
	books BookRepository
	kv    storage.KV
	cfg   *config.Config
	now   func() time.Time
}

func NewCartService(carts CartRepository, books BookRepository, kv storage.KV, cfg *config.Config) *CartService {
	return &CartService{carts: carts, books: books, kv: kv, cfg: cfg, now: time.Now}
}

func guestCartKey(guestID string) string {
	return guestCartPrefix + guestID
}

func (s *CartService) loadGuestCart(ctx context.Context, guestID string) (*models.GuestCart, error) {
	cart := &models.GuestCart{GuestID: guestID, Items: []models.GuestCartItem{}}
	err := storage.GetJSON(ctx, s.kv, guestCartKey(guestID), cart)
	if errors.Is(err, storage.ErrMiss) {
		return cart, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load guest cart: %w", err)
	}
	return cart, nil
}

func (s *CartService) saveGuestCart(ctx context.Context, cart *models.GuestCart) error {
	cart.UpdatedAt = s.now()
	if err := storage.SetJSON(ctx, s.kv, guestCartKey(cart.GuestID), cart, s.cfg.GuestCartTTL); err != nil {
		return fmt.Errorf("save guest cart: %w", err)
	}
	return nil
}

// buildView prices the lines and fills in the totals.
func (s *CartService) buildView(owner models.CartOwner, items []models.CartItem) *models.CartView {
	view := &models.CartView{UserID: owner.UserID, GuestID: owner.GuestID, Items: []models.CartItem{}}

	lines := make([]pricing.Line, 0, len(items))
	for _, item := range items {
		line := pricing.Line{
			ListPrice:          item.Book.Price,
			OnSale:             item.Book.OnSale,
			DiscountPercentage: item.Book.DiscountPercentage,
			Quantity:           item.Quantity,
		}
		item.UnitPrice = pricing.UnitPrice(line)
		item.LineTotal = pricing.LineTotal(line)
		lines = append(lines, line)
		view.Items = append(view.Items, item)
	}

	merchandise := pricing.Compute(lines, 0).Total
	view.Totals = pricing.Compute(lines, pricing.ShippingFee(merchandise, s.cfg.ShippingFee, s.cfg.FreeShippingMin))
	return view
}

func (s *CartService) GetCart(ctx context.Context, owner models.CartOwner) (*models.CartView, error) {
	if !owner.IsGuest() {
		items, err := s.carts.GetItems(ctx, owner.UserID)
		if err != nil {
			return nil, err
		}
		active := items[:0]
		for _, item := range items {
			if item.Book != nil && item.Book.IsActive {
				active = append(active, item)
			}
		}
		return s.buildView(owner, active), nil
	}

	cart, err := s.loadGuestCart(ctx, owner.GuestID)
	if err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(cart.Items))
	for _, item := range cart.Items {
		ids = append(ids, item.BookID)
	}
	books, err := s.books.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	items := make([]models.CartItem, 0, len(cart.Items))
	for _, g := range cart.Items {
		book, ok := books[g.BookID]
		if !ok || !book.IsActive {
			continue
		}
		items = append(items, models.CartItem{BookID: g.BookID, Book: book, Quantity: g.Quantity, AddedAt: g.AddedAt})
	}
	return s.buildView(owner, items), nil
}

func (s *CartService) availableBook(ctx context.Context, bookID int) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, models.ErrBookUnavailable
	}
	return book, nil
}

// ensureEditable refuses changes to a user's cart while a confirmed checkout
// is waiting on its payment; the order is recorded from that cart.
func (s *CartService) ensureEditable(ctx context.Context, userID int) error {
	var session models.CheckoutSession
	err := storage.GetJSON(ctx, s.kv, checkoutKey(userID), &session)
	if err == nil && session.Step == models.StepPaymentPending {
		return fmt.Errorf("%w: a payment is pending for this cart", models.ErrCheckoutStep)
	}
	if err != nil && !errors.Is(err, storage.ErrMiss) {
		return err
	}
	return nil
}

// AddItem adds quantity on top of whatever the cart already holds for the book.
func (s *CartService) AddItem(ctx context.Context, owner models.CartOwner, bookID, quantity int) (*models.CartView, error) {
	if quantity <= 0 {
		return nil, models.ErrInvalidQuantity
	}
	book, err := s.availableBook(ctx, bookID)
	if err != nil {
		return nil, err
	}

	if !owner.IsGuest() {
		if err := s.ensureEditable(ctx, owner.UserID); err != nil {
			return nil, err
		}
		current, err := s.carts.GetQuantity(ctx, owner.UserID, bookID)
		if err != nil {
			return nil, err
		}
		if current+quantity > book.Stock {
			return nil, models.ErrInsufficientStock
		}
		if err := s.carts.AddItem(ctx, owner.UserID, bookID, quantity); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, owner)
	}

	cart, err := s.loadGuestCart(ctx, owner.GuestID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range cart.Items {
		if cart.Items[i].BookID == bookID {
			if cart.Items[i].Quantity+quantity > book.Stock {
				return nil, models.ErrInsufficientStock
			}
			cart.Items[i].Quantity += quantity
			found = true
			break
		}
	}
	if !found {
		if quantity > book.Stock {
			return nil, models.ErrInsufficientStock
		}
		cart.Items = append(cart.Items, models.GuestCartItem{BookID: bookID, Quantity: quantity, AddedAt: s.now()})
	}
	if err := s.saveGuestCart(ctx, cart); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

// UpdateQuantity sets the line quantity; zero removes the line.
func (s *CartService) UpdateQuantity(ctx context.Context, owner models.CartOwner, bookID, quantity int) (*models.CartView, error) {
	if quantity < 0 {
		return nil, models.ErrInvalidQuantity
	}
	if quantity == 0 {
		return s.RemoveItem(ctx, owner, bookID)
	}

	book, err := s.availableBook(ctx, bookID)
	if err != nil {
		return nil, err
	}
	if quantity > book.Stock {
		return nil, models.ErrInsufficientStock
	}

	if !owner.IsGuest() {
		if err := s.ensureEditable(ctx, owner.UserID); err != nil {
			return nil, err
		}
		if err := s.carts.SetQuantity(ctx, owner.UserID, bookID, quantity); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, owner)
	}

	cart, err := s.loadGuestCart(ctx, owner.GuestID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range cart.Items {
		if cart.Items[i].BookID == bookID {
			cart.Items[i].Quantity = quantity
			found = true
			break
		}
	}
	if !found {
		cart.Items = append(cart.Items, models.GuestCartItem{BookID: bookID, Quantity: quantity, AddedAt: s.now()})
	}
	if err := s.saveGuestCart(ctx, cart); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

func (s *CartService) RemoveItem(ctx context.Context, owner models.CartOwner, bookID int) (*models.CartView, error) {
	if !owner.IsGuest() {
		if err := s.ensureEditable(ctx, owner.UserID); err != nil {
			return nil, err
		}
		if err := s.carts.RemoveItem(ctx, owner.UserID, bookID); err != nil {
			return nil, err
		}
		return s.GetCart(ctx, owner)
	}

	cart, err := s.loadGuestCart(ctx, owner.GuestID)
	if err != nil {
		return nil, err
	}
	kept := cart.Items[:0]
	for _, item := range cart.Items {
		if item.BookID != bookID {
			kept = append(kept, item)
		}
	}
	if len(kept) == len(cart.Items) {
		return nil, models.ErrNotFound
	}
	cart.Items = kept
	if err := s.saveGuestCart(ctx, cart); err != nil {
		return nil, err
	}
	return s.GetCart(ctx, owner)
}

func (s *CartService) Clear(ctx context.Context, owner models.CartOwner) error {
	if !owner.IsGuest() {
		if err := s.ensureEditable(ctx, owner.UserID); err != nil {
			return err
		}
		return s.carts.Clear(ctx, owner.UserID)
	}
	return s.kv.Delete(ctx, guestCartKey(owner.GuestID))
}

// MergeGuestCart moves every guest line into the user's cart, summing
// quantities with lines already there, then drops the guest cart. Books that
// are gone or inactive are skipped. Nothing is merged while the user has a
// payment pending.
func (s *CartService) MergeGuestCart(ctx context.Context, userID int, guestID string) (*models.CartView, error) {
	owner := models.CartOwner{UserID: userID}
	if guestID == "" {
		return s.GetCart(ctx, owner)
	}

	if err := s.ensureEditable(ctx, userID); err != nil {
		if !errors.Is(err, models.ErrCheckoutStep) {
			return nil, err
		}
		log.Printf("cart merge: user %d has a payment pending, keeping guest cart %s", userID, guestID)
		return s.GetCart(ctx, owner)
	}

	guest, err := s.loadGuestCart(ctx, guestID)
	if err != nil {
		return nil, err
	}

	if len(guest.Items) > 0 {
		ids := make([]int, 0, len(guest.Items))
		for _, item := range guest.Items {
			ids = append(ids, item.BookID)
		}
		books, err := s.books.GetByIDs(ctx, ids)
		if err != nil {
			return nil, err
		}

		for _, item := range guest.Items {
			if book, ok := books[item.BookID]; !ok || !book.IsActive {
				log.Printf("cart merge: skipping unavailable book %d for user %d", item.BookID, userID)
				continue
			}
			if err := s.carts.AddItem(ctx, userID, item.BookID, item.Quantity); err != nil {
				return nil, fmt.Errorf("merge guest line %d: %w", item.BookID, err)
			}
		}
	}

	if err := s.kv.Delete(ctx, guestCartKey(guestID)); err != nil {
		log.Printf("cart merge: failed to drop guest cart %s: %v", guestID, err)
	}
	return s.GetCart(ctx, owner)
}
