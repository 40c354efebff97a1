package repositories

import (
	"context"

	"bookstore/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CategoryRepository struct {
	db *pgxpool.Pool
}

func NewCategoryRepository(db *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{db: db}
}

func (r *CategoryRepository) List(ctx context.Context) ([]models.BookCategory, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, slug, created_at FROM book_categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []models.BookCategory{}
	for rows.Next() {
		var cat models.BookCategory
		if err := rows.Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt); err != nil {
			return nil, err
		}
		categories = append(categories, cat)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetByID(ctx context.Context, id int) (*models.BookCategory, error) {
	var cat models.BookCategory
	err := r.db.QueryRow(ctx, `SELECT id, name, slug, created_at FROM book_categories WHERE id = $1`, id).
		Scan(&cat.ID, &cat.Name, &cat.Slug, &cat.CreatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return &cat, nil
}

func (r *CategoryRepository) Create(ctx context.Context, cat *models.BookCategory) error {
	err := r.db.QueryRow(ctx,
		`INSERT INTO book_categories (name, slug) VALUES ($1, $2) RETURNING id, created_at`,
		cat.Name, cat.Slug,
	).Scan(&cat.ID, &cat.CreatedAt)
	if isUniqueViolation(err) {
		return models.NewValidationError("category already exists")
	}
	return err
}

func (r *CategoryRepository) Update(ctx context.Context, cat *models.BookCategory) error {
	tag, err := r.db.Exec(ctx, `UPDATE book_categories SET name = $1, slug = $2 WHERE id = $3`, cat.Name, cat.Slug, cat.ID)
	if isUniqueViolation(err) {
		return models.NewValidationError("category already exists")
	}
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *CategoryRepository) Delete(ctx context.Context, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM book_categories WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
