package repositories

import (
	"context"
	"errors"
	"fmt"

	"bookstore/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// POSRepository keeps register transactions as pending pos-channel orders.
// Totals are always recomputed by recalculate_order_totals.
type POSRepository struct {
	db *pgxpool.Pool
}

func NewPOSRepository(db *pgxpool.Pool) *POSRepository {
	return &POSRepository{db: db}
}

// Open returns the id of the staff member's open transaction, creating one
// under orderNumber when none exists.
func (r *POSRepository) Open(ctx context.Context, staffID int, orderNumber string) (int, error) {
	var id int
	err := r.db.QueryRow(ctx, `SELECT create_pos_order($1, $2)`, staffID, orderNumber).Scan(&id)
	return id, err
}

func (r *POSRepository) FindOpen(ctx context.Context, staffID int) (*models.Order, error) {
	var id int
	err := r.db.QueryRow(ctx, `
		SELECT id FROM orders
		WHERE staff_id = $1 AND channel = 'pos' AND status = 'pending'
		ORDER BY created_at DESC LIMIT 1`, staffID).Scan(&id)
	if err != nil {
		return nil, translateErr(err)
	}
	return loadOrder(ctx, r.db, id)
}

func (r *POSRepository) Get(ctx context.Context, orderID int) (*models.Order, error) {
	return loadOrder(ctx, r.db, orderID)
}

// AddLine adds quantity to an existing line for the same book.
func (r *POSRepository) AddLine(ctx context.Context, orderID int, item models.OrderItem) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO order_items (order_id, book_id, title, quantity, list_price, unit_price)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (order_id, book_id)
		DO UPDATE SET quantity = order_items.quantity + EXCLUDED.quantity,
		              list_price = EXCLUDED.list_price, unit_price = EXCLUDED.unit_price`,
		orderID, item.BookID, item.Title, item.Quantity, item.ListPrice, item.UnitPrice)
	return err
}

func (r *POSRepository) SetLineQuantity(ctx context.Context, orderID, bookID, quantity int) error {
	tag, err := r.db.Exec(ctx, `UPDATE order_items SET quantity = $1 WHERE order_id = $2 AND book_id = $3`, quantity, orderID, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *POSRepository) RemoveLine(ctx context.Context, orderID, bookID int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM order_items WHERE order_id = $1 AND book_id = $2`, orderID, bookID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *POSRepository) Recalculate(ctx context.Context, orderID int) error {
	_, err := r.db.Exec(ctx, `SELECT recalculate_order_totals($1)`, orderID)
	return err
}

// Finalize locks the transaction and its books, checks and decrements stock
// and marks the order completed.
func (r *POSRepository) Finalize(ctx context.Context, orderID, staffID int, paymentType, customerEmail string) (*models.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var status string
	err = tx.QueryRow(ctx, `
		SELECT status FROM orders
		WHERE id = $1 AND staff_id = $2 AND channel = 'pos'
		FOR UPDATE`, orderID, staffID).Scan(&status)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if status != models.OrderStatusPending {
		return nil, models.ErrTransactionClosed
	}

	rows, err := tx.Query(ctx, `
		SELECT oi.book_id, oi.quantity, b.title, b.stock
		FROM order_items oi JOIN books b ON b.id = oi.book_id
		WHERE oi.order_id = $1
		ORDER BY b.id
		FOR UPDATE OF b`, orderID)
	if err != nil {
		return nil, err
	}

	type line struct {
		bookID, quantity, stock int
		title                   string
	}
	lines := []line{}
	for rows.Next() {
		var l line
		if err := rows.Scan(&l.bookID, &l.quantity, &l.title, &l.stock); err != nil {
			rows.Close()
			return nil, err
		}
		lines = append(lines, l)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(lines) == 0 {
		return nil, models.ErrCartEmpty
	}
	for _, l := range lines {
		if l.stock < l.quantity {
			return nil, fmt.Errorf("%w: %s", models.ErrInsufficientStock, l.title)
		}
	}
	for _, l := range lines {
		if _, err := tx.Exec(ctx, `UPDATE books SET stock = stock - $1, updated_at = NOW() WHERE id = $2`, l.quantity, l.bookID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `SELECT recalculate_order_totals($1)`, orderID); err != nil {
		return nil, err
	}
	if _, err := tx.Exec(ctx, `
		UPDATE orders SET status = $1, payment_type = $2, customer_email = $3, updated_at = NOW()
		WHERE id = $4`, models.OrderStatusCompleted, paymentType, customerEmail, orderID); err != nil {
		return nil, err
	}

	order, err := loadOrder(ctx, tx, orderID)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return order, nil
}

// Cancel reports false when the transaction was not open or not owned by staffID.
func (r *POSRepository) Cancel(ctx context.Context, orderID, staffID int) (bool, error) {
	var ok bool
	err := r.db.QueryRow(ctx, `SELECT cancel_point_of_sale_transaction($1, $2)`, orderID, staffID).Scan(&ok)
	return ok, err
}
