package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// schema is applied at startup. Statements are idempotent so repeated boots
// are safe; real deployments can run them out-of-band instead.
const schema = `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY,
	profile_picture_url VARCHAR(255) DEFAULT 'https://example.com/default-profile.png',
	username VARCHAR(255) NOT NULL UNIQUE,
	email VARCHAR(255) NOT NULL,
	password_hash VARCHAR(255) NOT NULL,
	refresh_token_hash VARCHAR(255),
	account_type VARCHAR(16) NOT NULL DEFAULT 'user',
	rating_count INT NOT NULL DEFAULT 0,
	last_login TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS media (
	id UUID PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	description TEXT NOT NULL,
	thumbnail_url VARCHAR(255) DEFAULT 'https://example.com/default-profile.png',
	content_url VARCHAR(255) NOT NULL,
	category VARCHAR(16) NOT NULL,
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS ratings (
	id UUID PRIMARY KEY,
	rating INT NOT NULL CHECK (rating BETWEEN 1 AND 5),
	user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	media_id UUID NOT NULL REFERENCES media(id) ON DELETE CASCADE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	UNIQUE (user_id, media_id)
);

CREATE INDEX IF NOT EXISTS idx_media_user_id ON media (user_id);
CREATE INDEX IF NOT EXISTS idx_ratings_media_id ON ratings (media_id);
CREATE INDEX IF NOT EXISTS idx_ratings_user_id ON ratings (user_id);
`

func Migrate(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
