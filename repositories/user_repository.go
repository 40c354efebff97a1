package repositories

import (
	"context"
	"fmt"
	"strings"
	"time"

	"bookstore/models"

	"github.com/jackc/pgx/v5/pgxpool"
)

type UserRepository struct {
	db *pgxpool.Pool
}

func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts the user and its profile together.
func (r *UserRepository) Create(ctx context.Context, user *models.User, profile *models.UserProfile) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	now := time.Now()
	err = tx.QueryRow(ctx, `
		INSERT INTO users (email, password, role, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at`,
		user.Email, user.Password, user.Role, now,
	).Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if isUniqueViolation(err) {
		return models.ErrEmailTaken
	}
	if err != nil {
		return err
	}

	profile.UserID = user.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO user_profiles (user_id, full_name, phone, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING id, created_at, updated_at`,
		profile.UserID, profile.FullName, profile.Phone, now,
	).Scan(&profile.ID, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		return err
	}

	return tx.Commit(ctx)
}

func (r *UserRepository) scanUser(row rowScanner) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(&user.ID, &user.Email, &user.Password, &user.Role, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return nil, translateErr(err)
	}
	return user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(ctx,
		`SELECT id, email, password, role, created_at, updated_at FROM users WHERE LOWER(email) = LOWER($1)`, email))
}

func (r *UserRepository) FindByID(ctx context.Context, id int) (*models.User, error) {
	return r.scanUser(r.db.QueryRow(ctx,
		`SELECT id, email, password, role, created_at, updated_at FROM users WHERE id = $1`, id))
}

const userWithProfileQuery = `
	SELECT u.id, u.email, u.role, u.created_at,
	       COALESCE(up.full_name, ''), COALESCE(up.phone, ''), COALESCE(up.address_line, ''),
	       COALESCE(up.city, ''), COALESCE(up.postal_code, ''), COALESCE(up.country, ''),
	       COALESCE(up.photo_url, '')
	FROM users u
	LEFT JOIN user_profiles up ON u.id = up.user_id`

func scanUserWithProfile(row rowScanner) (*models.UserWithProfile, error) {
	var u models.UserWithProfile
	err := row.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt,
		&u.FullName, &u.Phone, &u.Line, &u.City, &u.PostalCode, &u.Country, &u.PhotoURL)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) GetUserWithProfile(ctx context.Context, userID int) (*models.UserWithProfile, error) {
	u, err := scanUserWithProfile(r.db.QueryRow(ctx, userWithProfileQuery+" WHERE u.id = $1", userID))
	if err != nil {
		return nil, translateErr(err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, page, limit int, search string) ([]models.UserWithProfile, int, error) {
	where := ""
	args := []interface{}{}
	if search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		where = " WHERE LOWER(u.email) LIKE $1 OR LOWER(up.full_name) LIKE $1"
	}

	var total int
	if err := r.db.QueryRow(ctx, "SELECT COUNT(*) FROM users u LEFT JOIN user_profiles up ON u.id = up.user_id"+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	args = append(args, limit, offsetFor(page, limit))
	query := fmt.Sprintf("%s%s ORDER BY u.created_at DESC LIMIT $%d OFFSET $%d", userWithProfileQuery, where, len(args)-1, len(args))
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	users := []models.UserWithProfile{}
	for rows.Next() {
		u, err := scanUserWithProfile(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, *u)
	}
	return users, total, rows.Err()
}

func (r *UserRepository) GetProfile(ctx context.Context, userID int) (*models.UserProfile, error) {
	profile := &models.UserProfile{}
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, full_name, phone, address_line, city, postal_code, country, photo_url, created_at, updated_at
		FROM user_profiles WHERE user_id = $1`, userID).Scan(
		&profile.ID, &profile.UserID, &profile.FullName, &profile.Phone, &profile.Line,
		&profile.City, &profile.PostalCode, &profile.Country, &profile.PhotoURL,
		&profile.CreatedAt, &profile.UpdatedAt,
	)
	if err != nil {
		return nil, translateErr(err)
	}
	return profile, nil
}

func (r *UserRepository) UpdateProfile(ctx context.Context, profile *models.UserProfile) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE user_profiles
		SET full_name = $1, phone = $2, address_line = $3, city = $4, postal_code = $5,
		    country = $6, photo_url = $7, updated_at = $8
		WHERE user_id = $9`,
		profile.FullName, profile.Phone, profile.Line, profile.City, profile.PostalCode,
		profile.Country, profile.PhotoURL, time.Now(), profile.UserID,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile for user %d: %w", profile.UserID, models.ErrNotFound)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID int, hashedPassword string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET password = $1, updated_at = $2 WHERE id = $3`, hashedPassword, time.Now(), userID)
	return err
}

func (r *UserRepository) UpdateEmail(ctx context.Context, userID int, email string) error {
	_, err := r.db.Exec(ctx, `UPDATE users SET email = $1, updated_at = $2 WHERE id = $3`, email, time.Now(), userID)
	if isUniqueViolation(err) {
		return models.ErrEmailTaken
	}
	return err
}

func (r *UserRepository) UpdateRole(ctx context.Context, userID int, role string) error {
	tag, err := r.db.Exec(ctx, `UPDATE users SET role = $1, updated_at = $2 WHERE id = $3`, role, time.Now(), userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
