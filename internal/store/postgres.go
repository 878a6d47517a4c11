package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

// PostgresStore is the remote backend. Tables are created on open if
// missing.
type PostgresStore struct {
	db *pgxpool.Pool
}

var (
	_ rsvp.Store    = (*PostgresStore)(nil)
	_ gallery.Store = (*PostgresStore)(nil)
)

func NewPostgresStore(ctx context.Context, dsn string) (*PostgresStore, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("invalid database DSN: %w", err)
	}
	config.MaxConns = 10
	config.MinConns = 1
	config.MaxConnLifetime = time.Hour
	config.MaxConnIdleTime = 30 * time.Minute
	config.HealthCheckPeriod = time.Minute

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}
	if err := initSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &PostgresStore{db: pool}, nil
}

const schema = `
	CREATE TABLE IF NOT EXISTS rsvp_config (
	    wedding_id TEXT PRIMARY KEY,
	    enabled BOOLEAN NOT NULL DEFAULT TRUE,
	    questions JSONB NOT NULL DEFAULT '[]'::jsonb,
	    deadline DATE,
	    welcome_message TEXT,
	    thank_you_message TEXT,
	    allow_plus_one BOOLEAN NOT NULL DEFAULT TRUE,
	    ask_dietary_restrictions BOOLEAN NOT NULL DEFAULT TRUE,
	    max_guests_per_response INTEGER NOT NULL DEFAULT 5,
	    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS rsvp_responses (
	    id TEXT PRIMARY KEY,
	    wedding_id TEXT NOT NULL,
	    respondent_name TEXT NOT NULL,
	    respondent_email TEXT NOT NULL DEFAULT '',
	    respondent_phone TEXT,
	    attendance TEXT NOT NULL,
	    guests JSONB NOT NULL DEFAULT '[]'::jsonb,
	    answers JSONB NOT NULL DEFAULT '[]'::jsonb,
	    message TEXT,
	    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
	    updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_rsvp_responses_wedding_created ON rsvp_responses(wedding_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS gallery_media (
	    id TEXT PRIMARY KEY,
	    wedding_id TEXT NOT NULL,
	    type TEXT NOT NULL,
	    url TEXT NOT NULL,
	    thumbnail_url TEXT,
	    author TEXT NOT NULL,
	    caption TEXT,
	    favorite_count INTEGER NOT NULL DEFAULT 0,
	    reactions JSONB NOT NULL DEFAULT '{}'::jsonb,
	    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_gallery_media_wedding ON gallery_media(wedding_id, created_at DESC);

	CREATE TABLE IF NOT EXISTS guestbook_messages (
	    id TEXT PRIMARY KEY,
	    wedding_id TEXT NOT NULL,
	    author TEXT NOT NULL,
	    text TEXT NOT NULL,
	    created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW()
	);
	CREATE INDEX IF NOT EXISTS idx_guestbook_messages_wedding ON guestbook_messages(wedding_id, created_at DESC);
`

func initSchema(ctx context.Context, db *pgxpool.Pool) error {
	_, err := db.Exec(ctx, schema)
	return err
}

func (p *PostgresStore) Close() error {
	p.db.Close()
	return nil
}

func nullable(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
