package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
)

type mediaRow struct {
	ID            string
	WeddingID     string
	Type          string
	URL           string
	ThumbnailURL  *string
	Author        string
	Caption       *string
	FavoriteCount int
	Reactions     []byte
	CreatedAt     time.Time
}

func (r mediaRow) toMedia() (gallery.MediaItem, error) {
	item := gallery.MediaItem{
		ID:            r.ID,
		WeddingID:     r.WeddingID,
		Type:          gallery.MediaType(r.Type),
		URL:           r.URL,
		ThumbnailURL:  deref(r.ThumbnailURL),
		Author:        r.Author,
		Caption:       deref(r.Caption),
		FavoriteCount: r.FavoriteCount,
		CreatedAt:     r.CreatedAt,
	}
	if len(r.Reactions) > 0 {
		if err := json.Unmarshal(r.Reactions, &item.Reactions); err != nil {
			return gallery.MediaItem{}, fmt.Errorf("unmarshaling reactions of %s: %w", r.ID, err)
		}
	}
	return item, nil
}

const mediaColumns = `id, wedding_id, type, url, thumbnail_url, author, caption, favorite_count, reactions, created_at`

func scanMedia(row pgx.Row) (gallery.MediaItem, error) {
	var r mediaRow
	err := row.Scan(
		&r.ID,
		&r.WeddingID,
		&r.Type,
		&r.URL,
		&r.ThumbnailURL,
		&r.Author,
		&r.Caption,
		&r.FavoriteCount,
		&r.Reactions,
		&r.CreatedAt,
	)
	if err != nil {
		return gallery.MediaItem{}, err
	}
	return r.toMedia()
}

func (p *PostgresStore) ListMedia(ctx context.Context, weddingID string) ([]gallery.MediaItem, error) {
	query := fmt.Sprintf("SELECT %s FROM gallery_media WHERE wedding_id = $1 ORDER BY created_at DESC, id DESC", mediaColumns)
	rows, err := p.db.Query(ctx, query, weddingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list media: %w", err)
	}
	defer rows.Close()

	items := []gallery.MediaItem{}
	for rows.Next() {
		item, err := scanMedia(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan media: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media: %w", err)
	}
	return items, nil
}

func (p *PostgresStore) CreateMedia(ctx context.Context, item gallery.MediaItem) error {
	reactions := item.Reactions
	if reactions == nil {
		reactions = map[gallery.ReactionType]int{}
	}
	reactionsJSON, err := json.Marshal(reactions)
	if err != nil {
		return fmt.Errorf("failed to marshal reactions: %w", err)
	}

	query := fmt.Sprintf("INSERT INTO gallery_media (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)", mediaColumns)
	_, err = p.db.Exec(ctx, query,
		item.ID,
		item.WeddingID,
		string(item.Type),
		item.URL,
		nullable(item.ThumbnailURL),
		item.Author,
		nullable(item.Caption),
		item.FavoriteCount,
		reactionsJSON,
		item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create media: %w", err)
	}
	return nil
}

func (p *PostgresStore) DeleteMedia(ctx context.Context, weddingID, id string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM gallery_media WHERE wedding_id = $1 AND id = $2`, weddingID, id)
	if err != nil {
		return fmt.Errorf("failed to delete media: %w", err)
	}
	return nil
}

func (p *PostgresStore) updateMedia(ctx context.Context, query string, args ...any) (*gallery.MediaItem, error) {
	item, err := scanMedia(p.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &item, nil
}

func (p *PostgresStore) AddReaction(ctx context.Context, weddingID, mediaID string, reaction gallery.ReactionType) (*gallery.MediaItem, error) {
	query := fmt.Sprintf(`UPDATE gallery_media
	          SET reactions = jsonb_set(reactions, ARRAY[$3::text], to_jsonb(COALESCE((reactions->>$3::text)::int, 0) + 1))
	          WHERE wedding_id = $1 AND id = $2
	          RETURNING %s`, mediaColumns)

	item, err := p.updateMedia(ctx, query, weddingID, mediaID, string(reaction))
	if err != nil {
		return nil, fmt.Errorf("failed to add reaction: %w", err)
	}
	return item, nil
}

func (p *PostgresStore) AdjustFavorites(ctx context.Context, weddingID, mediaID string, delta int) (*gallery.MediaItem, error) {
	query := fmt.Sprintf(`UPDATE gallery_media
	          SET favorite_count = GREATEST(favorite_count + $3, 0)
	          WHERE wedding_id = $1 AND id = $2
	          RETURNING %s`, mediaColumns)

	item, err := p.updateMedia(ctx, query, weddingID, mediaID, delta)
	if err != nil {
		return nil, fmt.Errorf("failed to update favorites: %w", err)
	}
	return item, nil
}

func (p *PostgresStore) ListMessages(ctx context.Context, weddingID string) ([]gallery.Message, error) {
	rows, err := p.db.Query(ctx,
		`SELECT id, wedding_id, author, text, created_at FROM guestbook_messages
		 WHERE wedding_id = $1 ORDER BY created_at DESC, id DESC`, weddingID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guestbook messages: %w", err)
	}
	defer rows.Close()

	msgs := []gallery.Message{}
	for rows.Next() {
		var m gallery.Message
		if err := rows.Scan(&m.ID, &m.WeddingID, &m.Author, &m.Text, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan guestbook message: %w", err)
		}
		msgs = append(msgs, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating guestbook messages: %w", err)
	}
	return msgs, nil
}

func (p *PostgresStore) CreateMessage(ctx context.Context, msg gallery.Message) error {
	_, err := p.db.Exec(ctx,
		`INSERT INTO guestbook_messages (id, wedding_id, author, text, created_at) VALUES ($1, $2, $3, $4, $5)`,
		msg.ID, msg.WeddingID, msg.Author, msg.Text, msg.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create guestbook message: %w", err)
	}
	return nil
}
