package services

import (
	"context"
	"testing"
	"time"

	"bookstore/models"
	"bookstore/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func catalogFixture() *fakeBooks {
	return newFakeBooks(
		models.Book{ID: 1, Title: "The Go Programming Language", Price: 3999, Stock: 10, IsActive: true},
		models.Book{ID: 2, Title: "Clean Code", Price: 2500, OnSale: true, DiscountPercentage: 20, Stock: 3, IsActive: true},
		models.Book{ID: 3, Title: "Dune", Price: 1099, Stock: 5, IsActive: false},
	)
}

func newCartFixture() (*CartService, *fakeCarts, *fakeBooks, *storage.MemoryKV) {
	books := catalogFixture()
	carts := newFakeCarts(books)
	kv := storage.NewMemoryKV()
	return NewCartService(carts, books, kv, testConfig()), carts, books, kv
}

func quantities(view *models.CartView) map[int]int {
	out := map[int]int{}
	for _, item := range view.Items {
		out[item.BookID] = item.Quantity
	}
	return out
}

func TestCartService_GuestAddItem(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	ctx := context.Background()
	guest := models.CartOwner{GuestID: "5f0c6f8e-1111-4a6b-9c1d-000000000001"}

	view, err := svc.AddItem(ctx, guest, 1, 2)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 3999, view.Items[0].UnitPrice)
	assert.Equal(t, 7998, view.Items[0].LineTotal)

	view, err = svc.AddItem(ctx, guest, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, quantities(view))
	assert.Equal(t, 10498, view.Totals.Subtotal)
	assert.Equal(t, 500, view.Totals.DiscountTotal)
	assert.Equal(t, 0, view.Totals.ShippingFee)
	assert.Equal(t, 9998, view.Totals.Total)

	view, err = svc.AddItem(ctx, guest, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, quantities(view)[1])
}

func TestCartService_AddItemRejections(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	ctx := context.Background()
	guest := models.CartOwner{GuestID: "guest-a"}
	user := models.CartOwner{UserID: 9}

	_, err := svc.AddItem(ctx, guest, 1, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	_, err = svc.AddItem(ctx, guest, 3, 1)
	assert.ErrorIs(t, err, models.ErrBookUnavailable)

	_, err = svc.AddItem(ctx, guest, 42, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = svc.AddItem(ctx, guest, 2, 4)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	_, err = svc.AddItem(ctx, user, 2, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, user, 2, 2)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)
}

func TestCartService_UserCartTotalsIncludeShipping(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	ctx := context.Background()
	user := models.CartOwner{UserID: 4}

	view, err := svc.AddItem(ctx, user, 2, 1)
	require.NoError(t, err)

	assert.Equal(t, 2000, view.Items[0].UnitPrice)
	assert.Equal(t, 2500, view.Totals.Subtotal)
	assert.Equal(t, 500, view.Totals.DiscountTotal)
	assert.Equal(t, 499, view.Totals.ShippingFee)
	assert.Equal(t, 2499, view.Totals.Total)
	assert.Equal(t, 1, view.Totals.ItemCount)
}

func TestCartService_TotalEqualsSumOfLines(t *testing.T) {
	svc, _, _, _ := newCartFixture()
	ctx := context.Background()
	user := models.CartOwner{UserID: 5}

	_, err := svc.AddItem(ctx, user, 1, 1)
	require.NoError(t, err)
	view, err := svc.AddItem(ctx, user, 2, 3)
	require.NoError(t, err)

	sum := 0
	for _, item := range view.Items {
		sum += item.UnitPrice * item.Quantity
	}
	assert.Equal(t, sum+view.Totals.ShippingFee, view.Totals.Total)
}

func TestCartService_UpdateAndRemove(t *testing.T) {
	for _, owner := range []models.CartOwner{{GuestID: "guest-b"}, {UserID: 7}} {
		svc, _, _, _ := newCartFixture()
		ctx := context.Background()

		_, err := svc.AddItem(ctx, owner, 1, 1)
		require.NoError(t, err)

		view, err := svc.UpdateQuantity(ctx, owner, 1, 5)
		require.NoError(t, err)
		assert.Equal(t, 5, quantities(view)[1])

		_, err = svc.UpdateQuantity(ctx, owner, 1, 11)
		assert.ErrorIs(t, err, models.ErrInsufficientStock)

		_, err = svc.UpdateQuantity(ctx, owner, 1, -1)
		assert.ErrorIs(t, err, models.ErrInvalidQuantity)

		view, err = svc.UpdateQuantity(ctx, owner, 1, 0)
		require.NoError(t, err)
		assert.Empty(t, view.Items)
		assert.Equal(t, 0, view.Totals.Total)

		_, err = svc.RemoveItem(ctx, owner, 1)
		assert.ErrorIs(t, err, models.ErrNotFound)
	}
}

func TestCartService_GuestCartHidesDeactivatedBooks(t *testing.T) {
	svc, _, books, _ := newCartFixture()
	ctx := context.Background()
	guest := models.CartOwner{GuestID: "guest-c"}

	_, err := svc.AddItem(ctx, guest, 1, 1)
	require.NoError(t, err)
	require.NoError(t, books.Deactivate(ctx, 1))

	view, err := svc.GetCart(ctx, guest)
	require.NoError(t, err)
	assert.Empty(t, view.Items)
}

func TestCartService_UserCartHidesDeactivatedBooks(t *testing.T) {
	svc, _, books, _ := newCartFixture()
	ctx := context.Background()
	owner := models.CartOwner{UserID: 9}

	_, err := svc.AddItem(ctx, owner, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, owner, 2, 1)
	require.NoError(t, err)
	require.NoError(t, books.Deactivate(ctx, 1))

	view, err := svc.GetCart(ctx, owner)
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 2, view.Items[0].BookID)
	assert.Equal(t, 2500, view.Totals.Subtotal)
	assert.Equal(t, 500, view.Totals.DiscountTotal)
}

func TestCartService_UserCartLockedWhilePaymentPending(t *testing.T) {
	svc, _, _, kv := newCartFixture()
	ctx := context.Background()
	owner := models.CartOwner{UserID: 9}

	_, err := svc.AddItem(ctx, owner, 1, 1)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, models.CartOwner{GuestID: "guest-p"}, 2, 1)
	require.NoError(t, err)

	require.NoError(t, storage.SetJSON(ctx, kv, checkoutKey(9), models.CheckoutSession{
		ID: "cs_1", UserID: 9, Step: models.StepPaymentPending,
	}, time.Hour))

	_, err = svc.AddItem(ctx, owner, 1, 1)
	assert.ErrorIs(t, err, models.ErrCheckoutStep)
	_, err = svc.UpdateQuantity(ctx, owner, 1, 3)
	assert.ErrorIs(t, err, models.ErrCheckoutStep)
	_, err = svc.RemoveItem(ctx, owner, 1)
	assert.ErrorIs(t, err, models.ErrCheckoutStep)
	assert.ErrorIs(t, svc.Clear(ctx, owner), models.ErrCheckoutStep)

	view, err := svc.MergeGuestCart(ctx, 9, "guest-p")
	require.NoError(t, err)
	require.Len(t, view.Items, 1)
	assert.Equal(t, 1, view.Items[0].Quantity)

	guest, err := svc.GetCart(ctx, models.CartOwner{GuestID: "guest-p"})
	require.NoError(t, err)
	assert.Len(t, guest.Items, 1)

	require.NoError(t, kv.Delete(ctx, checkoutKey(9)))
	view, err = svc.UpdateQuantity(ctx, owner, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, view.Items[0].Quantity)
}

func TestCartService_ClearGuestCart(t *testing.T) {
	svc, _, _, kv := newCartFixture()
	ctx := context.Background()
	guest := models.CartOwner{GuestID: "guest-d"}

	_, err := svc.AddItem(ctx, guest, 1, 1)
	require.NoError(t, err)
	require.NoError(t, svc.Clear(ctx, guest))

	_, err = kv.Get(ctx, guestCartKey("guest-d"))
	assert.ErrorIs(t, err, storage.ErrMiss)
}

func TestCartService_MergeGuestCartPreservesQuantities(t *testing.T) {
	svc, carts, _, kv := newCartFixture()
	ctx := context.Background()
	guest := models.CartOwner{GuestID: "guest-e"}

	_, err := svc.AddItem(ctx, guest, 1, 2)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, guest, 2, 1)
	require.NoError(t, err)
	require.NoError(t, carts.AddItem(ctx, 11, 1, 1))

	view, err := svc.MergeGuestCart(ctx, 11, guest.GuestID)
	require.NoError(t, err)

	assert.Equal(t, map[int]int{1: 3, 2: 1}, quantities(view))
	_, err = kv.Get(ctx, guestCartKey(guest.GuestID))
	assert.ErrorIs(t, err, storage.ErrMiss)
}

func TestCartService_MergeSkipsUnavailableBooks(t *testing.T) {
	svc, _, _, kv := newCartFixture()
	ctx := context.Background()

	stale := models.GuestCart{
		GuestID: "guest-f",
		Items: []models.GuestCartItem{
			{BookID: 3, Quantity: 1, AddedAt: time.Now()},
			{BookID: 99, Quantity: 1, AddedAt: time.Now()},
			{BookID: 2, Quantity: 2, AddedAt: time.Now()},
		},
	}
	require.NoError(t, storage.SetJSON(ctx, kv, guestCartKey("guest-f"), stale, time.Hour))

	view, err := svc.MergeGuestCart(ctx, 12, "guest-f")
	require.NoError(t, err)
	assert.Equal(t, map[int]int{2: 2}, quantities(view))
}

func TestCartService_MergeWithoutGuestCart(t *testing.T) {
	svc, _, _, _ := newCartFixture()

	view, err := svc.MergeGuestCart(context.Background(), 13, "never-used")
	require.NoError(t, err)
	assert.Empty(t, view.Items)
	assert.Equal(t, 13, view.UserID)
}
