package services

import (
	"context"
	"mime/multipart"
	"testing"

	"bookstore/models"
	"bookstore/services/mocks"
	"bookstore/storage"
	"bookstore/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newBookFixture(t *testing.T) (*BookService, *fakeBooks, *mocks.MockImageStore) {
	t.Helper()
	books := catalogFixture()
	images := mocks.NewMockImageStore(gomock.NewController(t))
	cats := newFakeCategories(models.BookCategory{ID: 1, Name: "Programming", Slug: "programming"})
	return NewBookService(books, cats, storage.NewMemoryKV(), images), books, images
}

func TestBookService_ListIsCachedUntilInventoryChanges(t *testing.T) {
	svc, books, _ := newBookFixture(t)
	ctx := context.Background()
	filter := models.BookFilter{Page: 1, Limit: 10}

	list, total, err := svc.ListBooks(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Len(t, list, 2)

	_, _, err = svc.ListBooks(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 1, books.lists)

	_, err = svc.CreateBook(ctx, models.CreateBookRequest{ISBN: "9780000000001", Title: "New", Author: "A", Price: 1000, Stock: 1, CategoryID: 1})
	require.NoError(t, err)

	_, total, err = svc.ListBooks(ctx, filter)
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, books.lists)

	_, _, err = svc.ListBooks(ctx, models.BookFilter{Page: 1, Limit: 10, IncludeInactive: true})
	require.NoError(t, err)
	assert.Equal(t, 3, books.lists)
}

func TestBookService_GetBookHidesInactive(t *testing.T) {
	svc, _, _ := newBookFixture(t)
	ctx := context.Background()

	book, err := svc.GetBook(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, 2000, book.SalePrice)

	_, err = svc.GetBook(ctx, 3)
	assert.ErrorIs(t, err, models.ErrNotFound)

	book, err = svc.GetBookAdmin(ctx, 3)
	require.NoError(t, err)
	assert.False(t, book.IsActive)
}

func TestBookService_UpdateAndStock(t *testing.T) {
	svc, _, _ := newBookFixture(t)
	ctx := context.Background()

	pct := 150
	_, err := svc.UpdateBook(ctx, 1, models.UpdateBookRequest{DiscountPercentage: &pct})
	assert.True(t, models.IsValidation(err))

	onSale, half := true, 50
	book, err := svc.UpdateBook(ctx, 1, models.UpdateBookRequest{OnSale: &onSale, DiscountPercentage: &half})
	require.NoError(t, err)
	assert.Equal(t, 2000, book.SalePrice)

	missing := 42
	_, err = svc.UpdateBook(ctx, 1, models.UpdateBookRequest{CategoryID: &missing})
	assert.True(t, models.IsValidation(err))

	book, err = svc.AdjustStock(ctx, 2, -3)
	require.NoError(t, err)
	assert.Equal(t, 0, book.Stock)

	_, err = svc.AdjustStock(ctx, 2, -1)
	assert.ErrorIs(t, err, models.ErrInsufficientStock)

	_, err = svc.AdjustStock(ctx, 2, 0)
	assert.ErrorIs(t, err, models.ErrInvalidQuantity)

	require.NoError(t, svc.DeactivateBook(ctx, 1))
	_, err = svc.GetBook(ctx, 1)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestBookService_UploadCoverReplacesOldImage(t *testing.T) {
	svc, books, images := newBookFixture(t)
	ctx := context.Background()
	require.NoError(t, books.SetCover(ctx, 1, "https://img/old.jpg", "covers/old"))

	fh := &multipart.FileHeader{Filename: "new.jpg", Size: 10}
	images.EXPECT().Upload(gomock.Any(), fh, "covers").Return("https://img/new.jpg", "covers/new", nil)
	images.EXPECT().Delete(gomock.Any(), "covers/old").Return(nil)

	book, err := svc.UploadCover(ctx, 1, fh)
	require.NoError(t, err)
	assert.Equal(t, "https://img/new.jpg", book.CoverURL)

	images.EXPECT().Upload(gomock.Any(), gomock.Any(), "covers").Return("", "", utils.ErrInvalidFileType)
	_, err = svc.UploadCover(ctx, 1, &multipart.FileHeader{Filename: "x.pdf"})
	assert.True(t, models.IsValidation(err))
}

func TestBookService_Categories(t *testing.T) {
	svc, _, _ := newBookFixture(t)
	ctx := context.Background()

	cat, err := svc.CreateCategory(ctx, models.CategoryRequest{Name: "Ciencia Ficción"})
	require.NoError(t, err)
	assert.Equal(t, "ciencia-ficcion", cat.Slug)

	_, err = svc.CreateCategory(ctx, models.CategoryRequest{Name: "ciencia ficcion"})
	assert.True(t, models.IsValidation(err))

	cat, err = svc.UpdateCategory(ctx, cat.ID, models.CategoryRequest{Name: "Sci-Fi"})
	require.NoError(t, err)
	assert.Equal(t, "sci-fi", cat.Slug)

	require.NoError(t, svc.DeleteCategory(ctx, cat.ID))
	assert.ErrorIs(t, svc.DeleteCategory(ctx, cat.ID), models.ErrNotFound)
}
