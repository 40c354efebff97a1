package repositories

import (
	"context"

	"bookstore/models"
	"bookstore/pricing"

	"github.com/jackc/pgx/v5/pgxpool"
)

// CartRepository stores signed-in users' carts. Every query is scoped by user id.
type CartRepository struct {
	db *pgxpool.Pool
}

func NewCartRepository(db *pgxpool.Pool) *CartRepository {
	return &CartRepository{db: db}
}

func (r *CartRepository) ensureCart(ctx context.Context, userID int) (int, error) {
	var cartID int
	err := r.db.QueryRow(ctx, `
		INSERT INTO carts (user_id) VALUES ($1)
		ON CONFLICT (user_id) DO UPDATE SET updated_at = NOW()
		RETURNING id`, userID).Scan(&cartID)
	return cartID, err
}

func (r *CartRepository) GetItems(ctx context.Context, userID int) ([]models.CartItem, error) {
	rows, err := r.db.Query(ctx, `
		SELECT ci.id, ci.cart_id, ci.quantity, ci.created_at, `+bookColumns+`
		FROM cart_items ci
		JOIN carts ct ON ct.id = ci.cart_id
		JOIN books b ON b.id = ci.book_id
		LEFT JOIN book_categories c ON c.id = b.category_id
		WHERE ct.user_id = $1 AND b.is_active
		ORDER BY ci.created_at, ci.id`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := []models.CartItem{}
	for rows.Next() {
		var item models.CartItem
		var b models.Book
		if err := rows.Scan(
			&item.ID, &item.CartID, &item.Quantity, &item.AddedAt,
			&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Description,
			&b.CategoryID, &b.CategoryName, &b.Price, &b.Stock, &b.OnSale,
			&b.DiscountPercentage, &b.CoverURL, &b.CoverPublicID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		b.SalePrice = pricing.DiscountedPrice(b.Price, b.OnSale, b.DiscountPercentage)
		item.BookID = b.ID
		item.Book = &b
		items = append(items, item)
	}
	return items, rows.Err()
}

// GetQuantity returns 0 when the book is not in the cart.
func (r *CartRepository) GetQuantity(ctx context.Context, userID, bookID int) (int, error) {
	var qty int
	err := r.db.QueryRow(ctx, `
		SELECT COALESCE(SUM(ci.quantity), 0)
		FROM cart_items ci JOIN carts ct ON ct.id = ci.cart_id
		WHERE ct.user_id = $1 AND ci.book_id = $2`, userID, bookID).Scan(&qty)
	return qty, err
}

// AddItem adds quantity to the existing line, creating it when absent.
func (r *CartRepository) AddItem(ctx context.Context, userID, bookID, quantity int) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO cart_items (cart_id, book_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = cart_items.quantity + EXCLUDED.quantity, updated_at = NOW()`,
		cartID, bookID, quantity)
	return err
}

func (r *CartRepository) SetQuantity(ctx context.Context, userID, bookID, quantity int) error {
	cartID, err := r.ensureCart(ctx, userID)
	if err != nil {
		return err
	}
	_, err = r.db.Exec(ctx, `
		INSERT INTO cart_items (cart_id, book_id, quantity) VALUES ($1, $2, $3)
		ON CONFLICT (cart_id, book_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = NOW()`,
		cartID, bookID, quantity)
	return err
}

func (r *CartRepository) RemoveItem(ctx context.Context, userID, bookID int) error {
	tag, err := r.db.Exec(ctx, `
		DELETE FROM cart_items ci USING carts ct
		WHERE ct.id = ci.cart_id AND ct.user_id = $1 AND ci.book_id = $2`, userID, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CartRepository) Clear(ctx context.Context, userID int) error {
	_, err := r.db.Exec(ctx, `
		DELETE FROM cart_items ci USING carts ct
		WHERE ct.id = ci.cart_id AND ct.user_id = $1`, userID)
	return err
}
