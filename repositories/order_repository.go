package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore/models"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const orderColumns = `o.id, o.order_number, o.user_id, o.staff_id, o.channel, o.status,
	o.shipping_name, o.shipping_phone, o.shipping_line, o.shipping_city, o.shipping_postal, o.shipping_country,
	o.customer_email, o.payment_method_id, o.payment_intent_id, o.payment_type,
	o.subtotal, o.discount_total, o.shipping_fee, o.total, o.created_at, o.updated_at`

type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(db *pgxpool.Pool) *OrderRepository {
	return &OrderRepository{db: db}
}

func scanOrder(row rowScanner) (*models.Order, error) {
	var o models.Order
	err := row.Scan(
		&o.ID, &o.OrderNumber, &o.UserID, &o.StaffID, &o.Channel, &o.Status,
		&o.Shipping.FullName, &o.Shipping.Phone, &o.Shipping.Line, &o.Shipping.City, &o.Shipping.PostalCode, &o.Shipping.Country,
		&o.CustomerEmail, &o.PaymentMethodID, &o.PaymentIntentID, &o.PaymentType,
		&o.Subtotal, &o.DiscountTotal, &o.ShippingFee, &o.Total, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

type querier interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

func loadOrder(ctx context.Context, q querier, id int) (*models.Order, error) {
	order, err := scanOrder(q.QueryRow(ctx, "SELECT "+orderColumns+" FROM orders o WHERE o.id = $1", id))
	if err != nil {
		return nil, translateErr(err)
	}

	rows, err := q.Query(ctx, `
		SELECT id, order_id, book_id, title, quantity, list_price, unit_price
		FROM order_items WHERE order_id = $1 ORDER BY id`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	order.Items = []models.OrderItem{}
	for rows.Next() {
		var item models.OrderItem
		if err := rows.Scan(&item.ID, &item.OrderID, &item.BookID, &item.Title, &item.Quantity, &item.ListPrice, &item.UnitPrice); err != nil {
			return nil, err
		}
		item.LineTotal = item.UnitPrice * item.Quantity
		order.Items = append(order.Items, item)
	}
	return order, rows.Err()
}

func (r *OrderRepository) GetByID(ctx context.Context, id int) (*models.Order, error) {
	return loadOrder(ctx, r.db, id)
}

func (r *OrderRepository) FindByPaymentIntent(ctx context.Context, intentID string) (*models.Order, error) {
	var id int
	err := r.db.QueryRow(ctx, `SELECT id FROM orders WHERE payment_intent_id = $1`, intentID).Scan(&id)
	if err != nil {
		return nil, translateErr(err)
	}
	return loadOrder(ctx, r.db, id)
}

func (r *OrderRepository) ListByUser(ctx context.Context, userID int) ([]models.OrderSummary, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, order_number, channel, status, total, item_count, created_at
		FROM get_user_orders($1)`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	orders := []models.OrderSummary{}
	for rows.Next() {
		var o models.OrderSummary
		var itemCount int64
		if err := rows.Scan(&o.ID, &o.OrderNumber, &o.Channel, &o.Status, &o.Total, &itemCount, &o.CreatedAt); err != nil {
			return nil, err
		}
		o.ItemCount = int(itemCount)
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

func (r *OrderRepository) List(ctx context.Context, filter models.OrderFilter) ([]models.Order, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if filter.Status != "" {
		args = append(args, filter.Status)
		conditions = append(conditions, fmt.Sprintf("o.status = $%d", len(args)))
	}
	if filter.Channel != "" {
		args = append(args, filter.Channel)
		conditions = append(conditions, fmt.Sprintf("o.channel = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToUpper(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(UPPER(o.order_number) LIKE $%d OR UPPER(o.customer_email) LIKE $%d)", len(args), len(args)))
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM orders o "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, offsetFor(filter.Page, filter.Limit))
	query := fmt.Sprintf("SELECT %s FROM orders o %s ORDER BY o.created_at DESC, o.id DESC LIMIT $%d OFFSET $%d",
		orderColumns, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	orders := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, 0, err
		}
		orders = append(orders, *o)
	}
	return orders, total, rows.Err()
}

func (r *OrderRepository) UpdateStatus(ctx context.Context, id int, status string) error {
	tag, err := r.db.Exec(ctx, `UPDATE orders SET status = $1, updated_at = $2 WHERE id = $3`, status, time.Now(), id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// FinalizeCheckout records a paid online order in one transaction from the
// lines captured when the payment was created. It is keyed on the payment
// intent id: a repeated call for an intent that already produced an order
// returns that order unchanged.
func (r *OrderRepository) FinalizeCheckout(ctx context.Context, params models.FinalizeCheckoutParams) (*models.Order, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	var existingID int
	err = tx.QueryRow(ctx, `SELECT id FROM orders WHERE payment_intent_id = $1`, params.PaymentIntentID).Scan(&existingID)
	if err == nil {
		return loadOrder(ctx, tx, existingID)
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	if len(params.Lines) == 0 {
		return nil, models.ErrCartEmpty
	}
	if params.Totals.Total != params.ExpectedTotal {
		return nil, fmt.Errorf("%w: order total %d, paid %d", models.ErrPaymentMismatch, params.Totals.Total, params.ExpectedTotal)
	}

	ids := make([]int, 0, len(params.Lines))
	for _, l := range params.Lines {
		ids = append(ids, l.BookID)
	}
	rows, err := tx.Query(ctx, `SELECT id, stock FROM books WHERE id = ANY($1) ORDER BY id FOR UPDATE`, ids)
	if err != nil {
		return nil, err
	}
	stock := map[int]int{}
	for rows.Next() {
		var id, onHand int
		if err := rows.Scan(&id, &onHand); err != nil {
			rows.Close()
			return nil, err
		}
		stock[id] = onHand
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// The customer has paid for these lines, so a book deactivated since
	// confirmation is still sold; only missing rows and stock stop the order.
	for _, l := range params.Lines {
		onHand, ok := stock[l.BookID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", models.ErrBookUnavailable, l.Title)
		}
		if onHand < l.Quantity {
			return nil, fmt.Errorf("%w: %s", models.ErrInsufficientStock, l.Title)
		}
	}

	totals := params.Totals
	var orderID int
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (order_number, user_id, channel, status,
		                    shipping_name, shipping_phone, shipping_line, shipping_city, shipping_postal, shipping_country,
		                    customer_email, payment_method_id, payment_intent_id, payment_type,
		                    subtotal, discount_total, shipping_fee, total)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, NULLIF($12, 0), $13, $14, $15, $16, $17, $18)
		RETURNING id`,
		params.OrderNumber, params.UserID, models.ChannelOnline, models.OrderStatusPaid,
		params.Shipping.FullName, params.Shipping.Phone, params.Shipping.Line, params.Shipping.City,
		params.Shipping.PostalCode, params.Shipping.Country,
		params.CustomerEmail, params.PaymentMethodID, params.PaymentIntentID, models.PaymentTypeCard,
		totals.Subtotal, totals.DiscountTotal, totals.ShippingFee, totals.Total,
	).Scan(&orderID)
	if isUniqueViolation(err) {
		// A concurrent finalize for the same intent won the race.
		tx.Rollback(ctx)
		return r.FindByPaymentIntent(ctx, params.PaymentIntentID)
	}
	if err != nil {
		return nil, err
	}

	for _, l := range params.Lines {
		if _, err := tx.Exec(ctx, `
			INSERT INTO order_items (order_id, book_id, title, quantity, list_price, unit_price)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			orderID, l.BookID, l.Title, l.Quantity, l.ListPrice, l.UnitPrice,
		); err != nil {
			return nil, err
		}
		if _, err := tx.Exec(ctx, `UPDATE books SET stock = stock - $1, updated_at = NOW() WHERE id = $2`, l.Quantity, l.BookID); err != nil {
			return nil, err
		}
	}

	if _, err := tx.Exec(ctx, `
		DELETE FROM cart_items ci USING carts ct
		WHERE ct.id = ci.cart_id AND ct.user_id = $1`, params.UserID); err != nil {
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
