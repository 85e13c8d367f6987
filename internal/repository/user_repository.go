package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"ngplus/api/internal/models"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUsernameTaken     = errors.New("username already taken")
	ErrCounterUnderflow  = errors.New("rating count already zero")
	ErrNoUpdatableFields = errors.New("no fields to update")
)

const userColumns = `id, profile_picture_url, username, email, password_hash,
	refresh_token_hash, account_type, rating_count, last_login, created_at, updated_at`

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

func scanUser(row pgx.Row) (models.User, error) {
	var user models.User
	if err := row.Scan(
		&user.ID,
		&user.ProfilePictureURL,
		&user.Username,
		&user.Email,
		&user.PasswordHash,
		&user.RefreshTokenHash,
		&user.AccountType,
		&user.RatingCount,
		&user.LastLogin,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		return models.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Create(ctx context.Context, user models.User) error {
	const query = `
		INSERT INTO users (
			id, profile_picture_url, username, email, password_hash, account_type, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		user.ID,
		user.ProfilePictureURL,
		user.Username,
		user.Email,
		user.PasswordHash,
		user.AccountType,
	)
	if isUniqueViolation(err) {
		return ErrUsernameTaken
	}
	return err
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return scanUser(r.pool.QueryRow(ctx, query, id))
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE username = $1`
	return scanUser(r.pool.QueryRow(ctx, query, username))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return scanUser(r.pool.QueryRow(ctx, query, email))
}

func (r *UserRepository) List(ctx context.Context, limit, offset int) ([]models.User, int, error) {
	query := `SELECT ` + userColumns + `
		FROM users
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// ListAll returns every user, oldest first. Report runs need the full set.
func (r *UserRepository) ListAll(ctx context.Context) ([]models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users ORDER BY created_at ASC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []models.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, user)
	}
	return users, rows.Err()
}

// UserPatch carries the partial-field update set. Nil fields are left alone.
type UserPatch struct {
	ProfilePictureURL *string
	Username          *string
	Email             *string
	PasswordHash      []byte
	AccountType       *models.AccountType
	RatingCount       *int
}

func (r *UserRepository) Update(ctx context.Context, id string, patch UserPatch) (models.User, error) {
	sets := make([]string, 0, 6)
	args := make([]any, 0, 7)
	args = append(args, id)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.ProfilePictureURL != nil {
		add("profile_picture_url", *patch.ProfilePictureURL)
	}
	if patch.Username != nil {
		add("username", *patch.Username)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password_hash", patch.PasswordHash)
	}
	if patch.AccountType != nil {
		add("account_type", *patch.AccountType)
	}
	if patch.RatingCount != nil {
		add("rating_count", *patch.RatingCount)
	}
	if len(sets) == 0 {
		return models.User{}, ErrNoUpdatableFields
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + `, updated_at = NOW()
		WHERE id = $1
		RETURNING ` + userColumns

	user, err := scanUser(r.pool.QueryRow(ctx, query, args...))
	if isUniqueViolation(err) {
		return models.User{}, ErrUsernameTaken
	}
	return user, err
}

func (r *UserRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetLastLogin(ctx context.Context, id string, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE users SET last_login = $2, updated_at = NOW() WHERE id = $1`, id, at)
	return err
}

// SetRefreshTokenHash stores the rotation anchor; nil clears it, which
// invalidates every outstanding refresh token for the user.
func (r *UserRepository) SetRefreshTokenHash(ctx context.Context, id string, hash []byte) error {
	cmd, err := r.pool.Exec(ctx, `UPDATE users SET refresh_token_hash = $2, updated_at = NOW() WHERE id = $1`, id, hash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepository) SetPassword(ctx context.Context, id string, passwordHash []byte) error {
	const query = `
		UPDATE users
		SET password_hash = $2, refresh_token_hash = NULL, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrUserNotFound
	}
	return nil
}

// CounterDrift is one user whose denormalized rating_count disagrees with the
// live rating rows. Used by the nightly audit job.
type CounterDrift struct {
	UserID      string
	RatingCount int
	LiveCount   int
}

func (r *UserRepository) FindCounterDrift(ctx context.Context) ([]CounterDrift, error) {
	const query = `
		SELECT u.id, u.rating_count, COUNT(rt.id) AS live
		FROM users u
		LEFT JOIN ratings rt ON rt.user_id = u.id
		GROUP BY u.id, u.rating_count
		HAVING u.rating_count != COUNT(rt.id)
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var drift []CounterDrift
	for rows.Next() {
		var d CounterDrift
		if err := rows.Scan(&d.UserID, &d.RatingCount, &d.LiveCount); err != nil {
			return nil, err
		}
		drift = append(drift, d)
	}
	return drift, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
