package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"time"

	"bookstore/models"
	"bookstore/storage"
	"bookstore/utils"
)

const (
	bookCachePrefix = "books:"
	bookCacheTTL    = 5 * time.Minute
	coverFolder     = "covers"
)

// BookService serves the public catalog and the back-office inventory.
// Public listings are cached in the KV store; every inventory write flushes them.
type BookService struct {
	books      BookRepository
	categories CategoryRepository
	kv         storage.KV
	images     ImageStore
}

func NewBookService(books BookRepository, categories CategoryRepository, kv storage.KV, images ImageStore) *BookService {
	return &BookService{books: books, categories: categories, kv: kv, images: images}
}

type BookPage struct {
	Books []models.Book `json:"books"`
	Total int           `json:"total"`
}

func listCacheKey(f models.BookFilter) string {
	return fmt.Sprintf("%slist:p%d:l%d:c%d:s%t:q%s", bookCachePrefix, f.Page, f.Limit, f.CategoryID, f.OnSale, f.Search)
}

func (s *BookService) ListBooks(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	if filter.IncludeInactive {
		return s.books.List(ctx, filter)
	}

	key := listCacheKey(filter)
	var page BookPage
	if err := storage.GetJSON(ctx, s.kv, key, &page); err == nil {
		return page.Books, page.Total, nil
	}

	books, total, err := s.books.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	if err := storage.SetJSON(ctx, s.kv, key, BookPage{Books: books, Total: total}, bookCacheTTL); err != nil {
		log.Printf("catalog: failed to cache book list: %v", err)
	}
	return books, total, nil
}

// GetBook hides inactive books from the storefront.
func (s *BookService) GetBook(ctx context.Context, id int) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !book.IsActive {
		return nil, models.ErrNotFound
	}
	return book, nil
}

func (s *BookService) GetBookAdmin(ctx context.Context, id int) (*models.Book, error) {
	return s.books.GetByID(ctx, id)
}

func (s *BookService) ListCategories(ctx context.Context) ([]models.BookCategory, error) {
	return s.categories.List(ctx)
}

func (s *BookService) BooksByCategory(ctx context.Context, slug string) ([]models.Book, error) {
	return s.books.ListByCategorySlug(ctx, slug)
}

func (s *BookService) invalidate(ctx context.Context) {
	if err := s.kv.DeletePrefix(ctx, bookCachePrefix); err != nil {
		log.Printf("catalog: failed to invalidate cache: %v", err)
	}
}

func (s *BookService) CreateBook(ctx context.Context, req models.CreateBookRequest) (*models.Book, error) {
	if req.CategoryID > 0 {
		if _, err := s.categories.GetByID(ctx, req.CategoryID); err != nil {
			return nil, models.NewValidationError("category does not exist")
		}
	}

	book := &models.Book{
		ISBN:               req.ISBN,
		Title:              req.Title,
		Author:             req.Author,
		Description:        req.Description,
		CategoryID:         req.CategoryID,
		Price:              req.Price,
		Stock:              req.Stock,
		OnSale:             req.OnSale,
		DiscountPercentage: req.DiscountPercentage,
	}
	if err := s.books.Create(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return book, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id int, req models.UpdateBookRequest) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		book.Title = *req.Title
	}
	if req.Author != nil {
		book.Author = *req.Author
	}
	if req.Description != nil {
		book.Description = *req.Description
	}
	if req.CategoryID != nil {
		if *req.CategoryID > 0 {
			if _, err := s.categories.GetByID(ctx, *req.CategoryID); err != nil {
				return nil, models.NewValidationError("category does not exist")
			}
		}
		book.CategoryID = *req.CategoryID
	}
	if req.Price != nil {
		book.Price = *req.Price
	}
	if req.OnSale != nil {
		book.OnSale = *req.OnSale
	}
	if req.DiscountPercentage != nil {
		book.DiscountPercentage = *req.DiscountPercentage
	}
	if req.IsActive != nil {
		book.IsActive = *req.IsActive
	}
	if book.DiscountPercentage < 0 || book.DiscountPercentage > 100 {
		return nil, models.NewValidationError("discount percentage must be between 0 and 100")
	}

	if err := s.books.Update(ctx, book); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return s.books.GetByID(ctx, id)
}

func (s *BookService) DeactivateBook(ctx context.Context, id int) error {
	if err := s.books.Deactivate(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

// AdjustStock never lets stock drop below zero.
func (s *BookService) AdjustStock(ctx context.Context, id, delta int) (*models.Book, error) {
	if delta == 0 {
		return nil, models.ErrInvalidQuantity
	}
	book, err := s.books.AdjustStock(ctx, id, delta)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return book, nil
}

// UploadCover stores the new cover and removes the previous one.
func (s *BookService) UploadCover(ctx context.Context, id int, fileHeader *multipart.FileHeader) (*models.Book, error) {
	book, err := s.books.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	url, publicID, err := s.images.Upload(ctx, fileHeader, coverFolder)
	if err != nil {
		if errors.Is(err, utils.ErrFileTooLarge) || errors.Is(err, utils.ErrInvalidFileType) {
			return nil, models.NewValidationError(err.Error())
		}
		return nil, fmt.Errorf("upload cover: %w", err)
	}
	if err := s.books.SetCover(ctx, id, url, publicID); err != nil {
		return nil, err
	}
	if book.CoverPublicID != "" {
		if err := s.images.Delete(ctx, book.CoverPublicID); err != nil {
			log.Printf("catalog: failed to delete old cover %s: %v", book.CoverPublicID, err)
		}
	}

	s.invalidate(ctx)
	book.CoverURL = url
	book.CoverPublicID = publicID
	return book, nil
}

func (s *BookService) CreateCategory(ctx context.Context, req models.CategoryRequest) (*models.BookCategory, error) {
	cat := &models.BookCategory{Name: req.Name, Slug: utils.Slugify(req.Name)}
	if cat.Slug == "" {
		return nil, models.NewValidationError("category name must contain letters or digits")
	}
	if err := s.categories.Create(ctx, cat); err != nil {
		return nil, err
	}
	return cat, nil
}

func (s *BookService) UpdateCategory(ctx context.Context, id int, req models.CategoryRequest) (*models.BookCategory, error) {
	cat, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	cat.Name = req.Name
	cat.Slug = utils.Slugify(req.Name)
	if cat.Slug == "" {
		return nil, models.NewValidationError("category name must contain letters or digits")
	}
	if err := s.categories.Update(ctx, cat); err != nil {
		return nil, err
	}
	s.invalidate(ctx)
	return cat, nil
}

func (s *BookService) DeleteCategory(ctx context.Context, id int) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}
