package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ngplus/api/internal/models"
)

var (
	ErrRatingNotFound  = errors.New("rating not found")
	ErrDuplicateRating = errors.New("user has already rated this media")
)

const ratingColumns = `r.id, r.rating, r.user_id, r.media_id, r.created_at, r.updated_at`

const ratingJoinedColumns = ratingColumns + `,
	u.id, u.profile_picture_url, u.username, u.email, u.account_type,
	u.rating_count, u.last_login, u.created_at, u.updated_at,
	m.id, m.title, m.description, m.thumbnail_url, m.content_url,
	m.category, m.user_id, m.created_at, m.updated_at`

type RatingRepository struct {
	pool *pgxpool.Pool
}

func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

func scanRating(row pgx.Row) (models.Rating, error) {
	var rating models.Rating
	if err := row.Scan(
		&rating.ID,
		&rating.Value,
		&rating.UserID,
		&rating.MediaID,
		&rating.CreatedAt,
		&rating.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rating{}, ErrRatingNotFound
		}
		return models.Rating{}, err
	}
	return rating, nil
}

func scanRatingJoined(row pgx.Row) (models.Rating, error) {
	var rating models.Rating
	var rater models.User
	var media models.Media
	if err := row.Scan(
		&rating.ID,
		&rating.Value,
		&rating.UserID,
		&rating.MediaID,
		&rating.CreatedAt,
		&rating.UpdatedAt,
		&rater.ID,
		&rater.ProfilePictureURL,
		&rater.Username,
		&rater.Email,
		&rater.AccountType,
		&rater.RatingCount,
		&rater.LastLogin,
		&rater.CreatedAt,
		&rater.UpdatedAt,
		&media.ID,
		&media.Title,
		&media.Description,
		&media.ThumbnailURL,
		&media.ContentURL,
		&media.Category,
		&media.UserID,
		&media.CreatedAt,
		&media.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Rating{}, ErrRatingNotFound
		}
		return models.Rating{}, err
	}
	rating.Rater = &rater
	rating.Media = &media
	return rating, nil
}

// CreateWithCounter inserts the rating and increments the rater's
// rating_count in one transaction. A crash between the two statements can
// never leave the counter out of sync with the rows.
func (r *RatingRepository) CreateWithCounter(ctx context.Context, rating models.Rating) (models.Rating, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const insert = `
		INSERT INTO ratings (id, rating, user_id, media_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, NOW(), NOW())
		RETURNING id, rating, user_id, media_id, created_at, updated_at
	`
	saved, err := scanRating(tx.QueryRow(ctx, insert, rating.ID, rating.Value, rating.UserID, rating.MediaID))
	if err != nil {
		if isUniqueViolation(err) {
			return models.Rating{}, ErrDuplicateRating
		}
		return models.Rating{}, err
	}

	const increment = `UPDATE users SET rating_count = rating_count + 1, updated_at = NOW() WHERE id = $1`
	cmd, err := tx.Exec(ctx, increment, rating.UserID)
	if err != nil {
		return models.Rating{}, fmt.Errorf("increment rating_count: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.Rating{}, ErrUserNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Rating{}, fmt.Errorf("commit: %w", err)
	}
	return saved, nil
}

// DeleteWithCounter removes the rating and decrements the rater's
// rating_count in one transaction. The decrement is conditional on the
// counter being positive; if it is not, the whole transaction rolls back and
// ErrCounterUnderflow surfaces to the caller.
func (r *RatingRepository) DeleteWithCounter(ctx context.Context, id string) (models.Rating, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return models.Rating{}, fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback(ctx)

	const remove = `
		DELETE FROM ratings WHERE id = $1
		RETURNING id, rating, user_id, media_id, created_at, updated_at
	`
	removed, err := scanRating(tx.QueryRow(ctx, remove, id))
	if err != nil {
		return models.Rating{}, err
	}

	const decrement = `
		UPDATE users SET rating_count = rating_count - 1, updated_at = NOW()
		WHERE id = $1 AND rating_count > 0
	`
	cmd, err := tx.Exec(ctx, decrement, removed.UserID)
	if err != nil {
		return models.Rating{}, fmt.Errorf("decrement rating_count: %w", err)
	}
	if cmd.RowsAffected() == 0 {
		return models.Rating{}, ErrCounterUnderflow
	}

	if err := tx.Commit(ctx); err != nil {
		return models.Rating{}, fmt.Errorf("commit: %w", err)
	}
	return removed, nil
}

func (r *RatingRepository) GetByID(ctx context.Context, id string) (models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings r WHERE r.id = $1`
	return scanRating(r.pool.QueryRow(ctx, query, id))
}

func (r *RatingRepository) GetByIDJoined(ctx context.Context, id string) (models.Rating, error) {
	query := `SELECT ` + ratingJoinedColumns + `
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		JOIN media m ON m.id = r.media_id
		WHERE r.id = $1`
	return scanRatingJoined(r.pool.QueryRow(ctx, query, id))
}

func (r *RatingRepository) FindByUserAndMedia(ctx context.Context, userID, mediaID string) (models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings r WHERE r.user_id = $1 AND r.media_id = $2`
	return scanRating(r.pool.QueryRow(ctx, query, userID, mediaID))
}

// RatingFilter narrows List by equality; empty fields match everything.
type RatingFilter struct {
	MediaID string
	UserID  string
}

func (r *RatingRepository) List(ctx context.Context, filter RatingFilter, limit, offset int) ([]models.Rating, int, error) {
	where := ""
	var filterArgs []any

	if filter.MediaID != "" {
		filterArgs = append(filterArgs, filter.MediaID)
		where += fmt.Sprintf(" AND r.media_id = $%d", len(filterArgs))
	}
	if filter.UserID != "" {
		filterArgs = append(filterArgs, filter.UserID)
		where += fmt.Sprintf(" AND r.user_id = $%d", len(filterArgs))
	}

	query := fmt.Sprintf(`SELECT `+ratingJoinedColumns+`
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		JOIN media m ON m.id = r.media_id
		WHERE TRUE`+where+`
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d`, len(filterArgs)+1, len(filterArgs)+2)

	rows, err := r.pool.Query(ctx, query, append(append([]any{}, filterArgs...), limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []models.Rating
	for rows.Next() {
		rating, err := scanRatingJoined(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, rating)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countQuery := `SELECT COUNT(*) FROM ratings r WHERE TRUE` + where
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filterArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAllJoined returns every rating with rater and media joined, for the
// reporting export.
func (r *RatingRepository) ListAllJoined(ctx context.Context) ([]models.Rating, error) {
	query := `SELECT ` + ratingJoinedColumns + `
		FROM ratings r
		JOIN users u ON u.id = r.user_id
		JOIN media m ON m.id = r.media_id
		ORDER BY r.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Rating
	for rows.Next() {
		rating, err := scanRatingJoined(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, rating)
	}
	return entries, rows.Err()
}

func (r *RatingRepository) UpdateValue(ctx context.Context, id string, value int) (models.Rating, error) {
	const query = `
		UPDATE ratings SET rating = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING id, rating, user_id, media_id, created_at, updated_at
	`
	return scanRating(r.pool.QueryRow(ctx, query, id, value))
}
