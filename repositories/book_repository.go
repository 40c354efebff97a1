package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"bookstore/models"
	"bookstore/pricing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const bookColumns = `b.id, b.isbn, b.title, b.author, b.description,
	COALESCE(b.category_id, 0), COALESCE(c.name, ''), b.price, b.stock, b.on_sale,
	b.discount_percentage, b.cover_url, b.cover_public_id, b.is_active, b.created_at, b.updated_at`

const bookFrom = `FROM books b LEFT JOIN book_categories c ON c.id = b.category_id`

type BookRepository struct {
	db *pgxpool.Pool
}

func NewBookRepository(db *pgxpool.Pool) *BookRepository {
	return &BookRepository{db: db}
}

func scanBook(row rowScanner) (*models.Book, error) {
	var b models.Book
	err := row.Scan(
		&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Description,
		&b.CategoryID, &b.CategoryName, &b.Price, &b.Stock, &b.OnSale,
		&b.DiscountPercentage, &b.CoverURL, &b.CoverPublicID, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.SalePrice = pricing.DiscountedPrice(b.Price, b.OnSale, b.DiscountPercentage)
	return &b, nil
}

func (r *BookRepository) List(ctx context.Context, filter models.BookFilter) ([]models.Book, int, error) {
	conditions := []string{}
	args := []interface{}{}

	if !filter.IncludeInactive {
		conditions = append(conditions, "b.is_active = TRUE")
	}
	if filter.Search != "" {
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(b.title) LIKE $%d OR LOWER(b.author) LIKE $%d OR b.isbn LIKE $%d)", len(args), len(args), len(args)))
	}
	if filter.CategoryID > 0 {
		args = append(args, filter.CategoryID)
		conditions = append(conditions, fmt.Sprintf("b.category_id = $%d", len(args)))
	}
	if filter.OnSale {
		conditions = append(conditions, "b.on_sale = TRUE AND b.discount_percentage > 0")
	}

	where := ""
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) "+bookFrom+" "+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, filter.Limit, offsetFor(filter.Page, filter.Limit))
	query := fmt.Sprintf("SELECT %s %s %s ORDER BY b.created_at DESC, b.id DESC LIMIT $%d OFFSET $%d",
		bookColumns, bookFrom, where, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, err
		}
		books = append(books, *b)
	}
	return books, total, rows.Err()
}

func (r *BookRepository) GetByID(ctx context.Context, id int) (*models.Book, error) {
	row := r.db.QueryRow(ctx, "SELECT "+bookColumns+" "+bookFrom+" WHERE b.id = $1", id)
	b, err := scanBook(row)
	if err != nil {
		return nil, translateErr(err)
	}
	return b, nil
}

// GetByIDs returns the books found, keyed by id; missing ids are simply absent.
func (r *BookRepository) GetByIDs(ctx context.Context, ids []int) (map[int]*models.Book, error) {
	books := make(map[int]*models.Book, len(ids))
	if len(ids) == 0 {
		return books, nil
	}

	rows, err := r.db.Query(ctx, "SELECT "+bookColumns+" "+bookFrom+" WHERE b.id = ANY($1)", ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books[b.ID] = b
	}
	return books, rows.Err()
}

func (r *BookRepository) ListByCategorySlug(ctx context.Context, slug string) ([]models.Book, error) {
	rows, err := r.db.Query(ctx, `
		SELECT id, isbn, title, author, description, category_id, category_name,
		       price, stock, on_sale, discount_percentage, cover_url, is_active, created_at, updated_at
		FROM get_books_by_category($1)`, slug)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	books := []models.Book{}
	for rows.Next() {
		var b models.Book
		if err := rows.Scan(
			&b.ID, &b.ISBN, &b.Title, &b.Author, &b.Description, &b.CategoryID, &b.CategoryName,
			&b.Price, &b.Stock, &b.OnSale, &b.DiscountPercentage, &b.CoverURL, &b.IsActive, &b.CreatedAt, &b.UpdatedAt,
		); err != nil {
			return nil, err
		}
		b.SalePrice = pricing.DiscountedPrice(b.Price, b.OnSale, b.DiscountPercentage)
		books = append(books, b)
	}
	return books, rows.Err()
}

func (r *BookRepository) Create(ctx context.Context, book *models.Book) error {
	query := `
		INSERT INTO books (isbn, title, author, description, category_id, price, stock,
		                   on_sale, discount_percentage, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, 0), $6, $7, $8, $9, TRUE, $10, $10)
		RETURNING id, is_active, created_at, updated_at
	`
	err := r.db.QueryRow(ctx, query,
		book.ISBN, book.Title, book.Author, book.Description, book.CategoryID, book.Price, book.Stock,
		book.OnSale, book.DiscountPercentage, time.Now(),
	).Scan(&book.ID, &book.IsActive, &book.CreatedAt, &book.UpdatedAt)
	if isUniqueViolation(err) {
		return models.NewValidationError("a book with this ISBN already exists")
	}
	book.SalePrice = pricing.DiscountedPrice(book.Price, book.OnSale, book.DiscountPercentage)
	return err
}

func (r *BookRepository) Update(ctx context.Context, book *models.Book) error {
	query := `
		UPDATE books SET title = $1, author = $2, description = $3, category_id = NULLIF($4, 0),
		       price = $5, on_sale = $6, discount_percentage = $7, is_active = $8, updated_at = $9
		WHERE id = $10
	`
	tag, err := r.db.Exec(ctx, query,
		book.Title, book.Author, book.Description, book.CategoryID,
		book.Price, book.OnSale, book.DiscountPercentage, book.IsActive, time.Now(), book.ID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AdjustStock applies delta atomically and refuses to take stock below zero.
func (r *BookRepository) AdjustStock(ctx context.Context, id, delta int) (*models.Book, error) {
	var stock int
	err := r.db.QueryRow(ctx, `
		UPDATE books SET stock = stock + $1, updated_at = NOW()
		WHERE id = $2 AND stock + $1 >= 0
		RETURNING stock`, delta, id).Scan(&stock)
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetByID(ctx, id); getErr != nil {
			return nil, getErr
		}
		return nil, models.ErrInsufficientStock
	}
	if err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

func (r *BookRepository) SetCover(ctx context.Context, id int, url, publicID string) error {
	tag, err := r.db.Exec(ctx,
		`UPDATE books SET cover_url = $1, cover_public_id = $2, updated_at = NOW() WHERE id = $3`,
		url, publicID, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *BookRepository) Deactivate(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `UPDATE books SET is_active = FALSE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
