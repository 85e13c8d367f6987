package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"ngplus/api/internal/models"
)

var ErrMediaNotFound = errors.New("media not found")

const mediaColumns = `m.id, m.title, m.description, m.thumbnail_url, m.content_url,
	m.category, m.user_id, m.created_at, m.updated_at`

// mediaOwnerColumns joins the redacted owner. Sensitive user columns are
// never selected on this path.
const mediaOwnerColumns = mediaColumns + `,
	u.id, u.profile_picture_url, u.username, u.email, u.account_type,
	u.rating_count, u.last_login, u.created_at, u.updated_at`

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

func scanMedia(row pgx.Row) (models.Media, error) {
	var media models.Media
	if err := row.Scan(
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
			return models.Media{}, ErrMediaNotFound
		}
		return models.Media{}, err
	}
	return media, nil
}

func scanMediaWithOwner(row pgx.Row) (models.Media, error) {
	var media models.Media
	var owner models.User
	if err := row.Scan(
		&media.ID,
		&media.Title,
		&media.Description,
		&media.ThumbnailURL,
		&media.ContentURL,
		&media.Category,
		&media.UserID,
		&media.CreatedAt,
		&media.UpdatedAt,
		&owner.ID,
		&owner.ProfilePictureURL,
		&owner.Username,
		&owner.Email,
		&owner.AccountType,
		&owner.RatingCount,
		&owner.LastLogin,
		&owner.CreatedAt,
		&owner.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Media{}, ErrMediaNotFound
		}
		return models.Media{}, err
	}
	media.Owner = &owner
	return media, nil
}

func (r *MediaRepository) Create(ctx context.Context, media models.Media) (models.Media, error) {
	const query = `
		INSERT INTO media (
			id, title, description, thumbnail_url, content_url, category, user_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, NOW(), NOW()
		)
		RETURNING id, title, description, thumbnail_url, content_url, category, user_id, created_at, updated_at
	`

	return scanMedia(r.pool.QueryRow(ctx, query,
		media.ID,
		media.Title,
		media.Description,
		media.ThumbnailURL,
		media.ContentURL,
		media.Category,
		media.UserID,
	))
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (models.Media, error) {
	query := `SELECT ` + mediaColumns + ` FROM media m WHERE m.id = $1`
	return scanMedia(r.pool.QueryRow(ctx, query, id))
}

func (r *MediaRepository) GetByIDWithOwner(ctx context.Context, id string) (models.Media, error) {
	query := `SELECT ` + mediaOwnerColumns + `
		FROM media m
		JOIN users u ON u.id = m.user_id
		WHERE m.id = $1`
	return scanMediaWithOwner(r.pool.QueryRow(ctx, query, id))
}

func (r *MediaRepository) List(ctx context.Context, limit, offset int) ([]models.Media, int, error) {
	query := `SELECT ` + mediaOwnerColumns + `
		FROM media m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var entries []models.Media
	for rows.Next() {
		media, err := scanMediaWithOwner(rows)
		if err != nil {
			return nil, 0, err
		}
		entries = append(entries, media)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM media`).Scan(&total); err != nil {
		return nil, 0, err
	}
	return entries, total, nil
}

// ListAllWithOwner returns every media row with its owner joined, for the
// reporting export. Unbounded on purpose.
func (r *MediaRepository) ListAllWithOwner(ctx context.Context) ([]models.Media, error) {
	query := `SELECT ` + mediaOwnerColumns + `
		FROM media m
		JOIN users u ON u.id = m.user_id
		ORDER BY m.created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.Media
	for rows.Next() {
		media, err := scanMediaWithOwner(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, media)
	}
	return entries, rows.Err()
}

// MediaPatch carries the partial-field update set. Nil fields are left alone.
type MediaPatch struct {
	Title        *string
	Description  *string
	ThumbnailURL *string
	ContentURL   *string
	Category     *models.MediaCategory
}

func (r *MediaRepository) Update(ctx context.Context, id string, patch MediaPatch) (models.Media, error) {
	sets := make([]string, 0, 5)
	args := make([]any, 0, 6)
	args = append(args, id)

	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Title != nil {
		add("title", *patch.Title)
	}
	if patch.Description != nil {
		add("description", *patch.Description)
	}
	if patch.ThumbnailURL != nil {
		add("thumbnail_url", *patch.ThumbnailURL)
	}
	if patch.ContentURL != nil {
		add("content_url", *patch.ContentURL)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if len(sets) == 0 {
		return models.Media{}, ErrNoUpdatableFields
	}

	query := `UPDATE media m SET ` + strings.Join(sets, ", ") + `, updated_at = NOW()
		WHERE m.id = $1
		RETURNING ` + mediaColumns

	return scanMedia(r.pool.QueryRow(ctx, query, args...))
}

func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM media WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}
