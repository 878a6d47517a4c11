// Package gallery manages a wedding's media metadata, guestbook messages and
// guest reactions. Media files themselves live in blob storage; only their
// URLs are recorded here.
package gallery

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const (
	MaxAuthorLength  = 100
	MaxCaptionLength = 500
	MaxMessageLength = 1000
)

// Store is the persistence port of the gallery. AddReaction and
// AdjustFavorites return nil, nil when the media item does not exist.
type Store interface {
	ListMedia(ctx context.Context, weddingID string) ([]MediaItem, error)
	CreateMedia(ctx context.Context, item MediaItem) error
	DeleteMedia(ctx context.Context, weddingID, id string) error
	AddReaction(ctx context.Context, weddingID, mediaID string, reaction ReactionType) (*MediaItem, error)
	AdjustFavorites(ctx context.Context, weddingID, mediaID string, delta int) (*MediaItem, error)
	ListMessages(ctx context.Context, weddingID string) ([]Message, error)
	CreateMessage(ctx context.Context, msg Message) error
}

type Service struct {
	weddingID string
	store     Store
	now       func() time.Time
}

func NewService(weddingID string, store Store) *Service {
	return &Service{
		weddingID: weddingID,
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

func (s *Service) logger() *log.Entry {
	return log.WithField("wedding_id", s.weddingID)
}

// ListMedia returns the wedding's media newest first, or an empty list if
// the store fails.
func (s *Service) ListMedia(ctx context.Context) []MediaItem {
	items, err := s.store.ListMedia(ctx, s.weddingID)
	if err != nil {
		s.logger().WithError(err).Error("failed to list media")
		return []MediaItem{}
	}
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if items == nil {
		items = []MediaItem{}
	}
	return items
}

func (s *Service) ListMessages(ctx context.Context) []Message {
	msgs, err := s.store.ListMessages(ctx, s.weddingID)
	if err != nil {
		s.logger().WithError(err).Error("failed to list guestbook messages")
		return []Message{}
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.After(msgs[j].CreatedAt)
	})
	if msgs == nil {
		msgs = []Message{}
	}
	return msgs
}

func (s *Service) AddMedia(ctx context.Context, item MediaItem) (MediaItem, error) {
	if item.Type != MediaImage && item.Type != MediaVideo {
		return MediaItem{}, invalid("media type must be image or video")
	}
	if strings.TrimSpace(item.URL) == "" {
		return MediaItem{}, invalid("media url is required")
	}
	item.Author = strings.TrimSpace(item.Author)
	if item.Author == "" {
		return MediaItem{}, invalid("media author is required")
	}
	if utf8.RuneCountInString(item.Author) > MaxAuthorLength {
		return MediaItem{}, invalid("author exceeds %d characters", MaxAuthorLength)
	}
	if utf8.RuneCountInString(item.Caption) > MaxCaptionLength {
		return MediaItem{}, invalid("caption exceeds %d characters", MaxCaptionLength)
	}

	item.ID = uuid.NewString()
	item.WeddingID = s.weddingID
	if item.CreatedAt.IsZero() {
		item.CreatedAt = s.now()
	}
	if item.FavoriteCount < 0 {
		item.FavoriteCount = 0
	}
	for r, n := range item.Reactions {
		if !r.Valid() || n < 0 {
			return MediaItem{}, invalid("invalid reaction %q", r)
		}
	}

	if err := s.store.CreateMedia(ctx, item); err != nil {
		return MediaItem{}, fmt.Errorf("storing media for %s: %w", s.weddingID, err)
	}
	return item, nil
}

func (s *Service) DeleteMedia(ctx context.Context, id string) error {
	if err := s.store.DeleteMedia(ctx, s.weddingID, id); err != nil {
		return fmt.Errorf("deleting media %s: %w", id, err)
	}
	return nil
}

func (s *Service) AddMessage(ctx context.Context, msg Message) (Message, error) {
	msg.Author = strings.TrimSpace(msg.Author)
	msg.Text = strings.TrimSpace(msg.Text)
	if msg.Author == "" {
		return Message{}, invalid("message author is required")
	}
	if utf8.RuneCountInString(msg.Author) > MaxAuthorLength {
		return Message{}, invalid("author exceeds %d characters", MaxAuthorLength)
	}
	if msg.Text == "" {
		return Message{}, invalid("message text is required")
	}
	if utf8.RuneCountInString(msg.Text) > MaxMessageLength {
		return Message{}, invalid("message exceeds %d characters", MaxMessageLength)
	}

	msg.ID = uuid.NewString()
	msg.WeddingID = s.weddingID
	msg.CreatedAt = s.now()
	if err := s.store.CreateMessage(ctx, msg); err != nil {
		return Message{}, fmt.Errorf("storing guestbook message for %s: %w", s.weddingID, err)
	}
	return msg, nil
}

func (s *Service) AddReaction(ctx context.Context, mediaID string, reaction ReactionType) (*MediaItem, error) {
	if !reaction.Valid() {
		return nil, invalid("unknown reaction %q", reaction)
	}
	item, err := s.store.AddReaction(ctx, s.weddingID, mediaID, reaction)
	if err != nil {
		return nil, fmt.Errorf("adding reaction to media %s: %w", mediaID, err)
	}
	return item, nil
}

// ToggleFavorite adds or removes one favorite. The count never drops
// below zero.
func (s *Service) ToggleFavorite(ctx context.Context, mediaID string, favorite bool) (*MediaItem, error) {
	delta := 1
	if !favorite {
		delta = -1
	}
	item, err := s.store.AdjustFavorites(ctx, s.weddingID, mediaID, delta)
	if err != nil {
		return nil, fmt.Errorf("updating favorites of media %s: %w", mediaID, err)
	}
	return item, nil
}
