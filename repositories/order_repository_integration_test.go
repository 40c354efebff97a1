//go:build integration

package repositories

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"bookstore/config"
	"bookstore/models"
	"bookstore/pricing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Run with: DATABASE_URL=postgres://... go test -tags integration ./repositories/
func integrationDB(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	config.AppConfig = &config.Config{
		AppEnv:        "test",
		DatabaseURL:   dsn,
		MigrationsDir: "../database/migration",
	}
	require.NoError(t, config.MigrateUp())

	pool, err := config.ConnectDB(context.Background())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

type finalizeFixture struct {
	orders *OrderRepository
	books  *BookRepository
	carts  *CartRepository
	user   *models.User
	book   *models.Book
}

func newFinalizeFixture(t *testing.T, stock int) *finalizeFixture {
	t.Helper()
	ctx := context.Background()
	pool := integrationDB(t)
	suffix := time.Now().UnixNano()

	user := &models.User{Email: fmt.Sprintf("reader-%d@example.com", suffix), Password: "x", Role: models.RoleCustomer}
	require.NoError(t, NewUserRepository(pool).Create(ctx, user, &models.UserProfile{FullName: "Ada Reader"}))

	books := NewBookRepository(pool)
	book := &models.Book{ISBN: fmt.Sprintf("%013d", suffix%1e13), Title: "Concurrency in Go", Author: "K. Cox-Buday", Price: 3999, Stock: stock}
	require.NoError(t, books.Create(ctx, book))

	carts := NewCartRepository(pool)
	require.NoError(t, carts.AddItem(ctx, user.ID, book.ID, 1))

	return &finalizeFixture{orders: NewOrderRepository(pool), books: books, carts: carts, user: user, book: book}
}

func (f *finalizeFixture) params(intentID string) models.FinalizeCheckoutParams {
	lines := []pricing.Line{{ListPrice: f.book.Price, Quantity: 1}}
	merch := pricing.Compute(lines, 0).Total
	totals := pricing.Compute(lines, pricing.ShippingFee(merch, 499, 5000))
	return models.FinalizeCheckoutParams{
		UserID:          f.user.ID,
		CustomerEmail:   f.user.Email,
		OrderNumber:     "BK-" + intentID,
		PaymentIntentID: intentID,
		Shipping:        models.ShippingAddress{FullName: "Ada Reader", Line: "1 Library Way", City: "Springfield", PostalCode: "12345", Country: "US"},
		Lines: []models.OrderItem{{
			BookID: f.book.ID, Title: f.book.Title, Quantity: 1,
			ListPrice: f.book.Price, UnitPrice: f.book.Price, LineTotal: f.book.Price,
		}},
		Totals:        totals,
		ExpectedTotal: totals.Total,
	}
}

func TestOrderRepository_FinalizeCheckoutIsIdempotent(t *testing.T) {
	f := newFinalizeFixture(t, 5)
	ctx := context.Background()
	intentID := fmt.Sprintf("pi_%d", time.Now().UnixNano())

	order, err := f.orders.FinalizeCheckout(ctx, f.params(intentID))
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusPaid, order.Status)
	assert.Equal(t, 4498, order.Total)
	require.Len(t, order.Items, 1)

	repeat, err := f.orders.FinalizeCheckout(ctx, f.params(intentID))
	require.NoError(t, err)
	assert.Equal(t, order.ID, repeat.ID)

	book, err := f.books.GetByID(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, 4, book.Stock)

	items, err := f.carts.GetItems(ctx, f.user.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestOrderRepository_FinalizeCheckoutRefusesMismatchedTotal(t *testing.T) {
	f := newFinalizeFixture(t, 5)
	ctx := context.Background()

	params := f.params(fmt.Sprintf("pi_%d", time.Now().UnixNano()))
	params.ExpectedTotal--
	_, err := f.orders.FinalizeCheckout(ctx, params)
	assert.ErrorIs(t, err, models.ErrPaymentMismatch)

	book, err := f.books.GetByID(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, book.Stock)
}

func TestOrderRepository_FinalizeCheckoutSellsLastCopyOnce(t *testing.T) {
	f := newFinalizeFixture(t, 1)
	ctx := context.Background()
	base := time.Now().UnixNano()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.orders.FinalizeCheckout(ctx, f.params(fmt.Sprintf("pi_%d_%d", base, i)))
		}(i)
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			assert.ErrorIs(t, err, models.ErrInsufficientStock)
			failed++
		}
	}
	assert.Equal(t, 1, failed)

	book, err := f.books.GetByID(ctx, f.book.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, book.Stock)
}
