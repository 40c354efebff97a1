package repositories

import (
	"context"

	"bookstore/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PaymentMethodRepository struct {
	db *pgxpool.Pool
}

func NewPaymentMethodRepository(db *pgxpool.Pool) *PaymentMethodRepository {
	return &PaymentMethodRepository{db: db}
}

const paymentMethodColumns = `id, user_id, processor_token, brand, last4, exp_month, exp_year, is_default, created_at`

func scanPaymentMethod(row rowScanner) (*models.PaymentMethod, error) {
	var pm models.PaymentMethod
	err := row.Scan(&pm.ID, &pm.UserID, &pm.ProcessorToken, &pm.Brand, &pm.Last4, &pm.ExpMonth, &pm.ExpYear, &pm.IsDefault, &pm.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &pm, nil
}

func (r *PaymentMethodRepository) ListByUser(ctx context.Context, userID int) ([]models.PaymentMethod, error) {
	rows, err := r.db.Query(ctx, `SELECT `+paymentMethodColumns+` FROM payment_methods
		WHERE user_id = $1 ORDER BY is_default DESC, created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	methods := []models.PaymentMethod{}
	for rows.Next() {
		pm, err := scanPaymentMethod(rows)
		if err != nil {
			return nil, err
		}
		methods = append(methods, *pm)
	}
	return methods, rows.Err()
}

// GetForUser only returns methods owned by userID.
func (r *PaymentMethodRepository) GetForUser(ctx context.Context, userID, id int) (*models.PaymentMethod, error) {
	pm, err := scanPaymentMethod(r.db.QueryRow(ctx,
		`SELECT `+paymentMethodColumns+` FROM payment_methods WHERE id = $1 AND user_id = $2`, id, userID))
	if err != nil {
		return nil, translateErr(err)
	}
	return pm, nil
}

func (r *PaymentMethodRepository) Create(ctx context.Context, pm *models.PaymentMethod) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	var count int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM payment_methods WHERE user_id = $1`, pm.UserID).Scan(&count); err != nil {
		return err
	}
	if count == 0 {
		pm.IsDefault = true
	}
	if pm.IsDefault {
		if _, err := tx.Exec(ctx, `UPDATE payment_methods SET is_default = FALSE WHERE user_id = $1`, pm.UserID); err != nil {
			return err
		}
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO payment_methods (user_id, processor_token, brand, last4, exp_month, exp_year, is_default)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at`,
		pm.UserID, pm.ProcessorToken, pm.Brand, pm.Last4, pm.ExpMonth, pm.ExpYear, pm.IsDefault,
	).Scan(&pm.ID, &pm.CreatedAt)
	if err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PaymentMethodRepository) Delete(ctx context.Context, userID, id int) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM payment_methods WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *PaymentMethodRepository) SetDefault(ctx context.Context, userID, id int) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE payment_methods SET is_default = (id = $1) WHERE user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM payment_methods WHERE id = $1 AND user_id = $2)`, id, userID).Scan(&exists); err != nil {
		return err
	}
	if tag.RowsAffected() == 0 || !exists {
		return models.ErrNotFound
	}
	return tx.Commit(ctx)
}
