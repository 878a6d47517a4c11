package store

import (
	"context"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
)

func (s *BBoltStore) ListMedia(_ context.Context, weddingID string) ([]gallery.MediaItem, error) {
	var items []gallery.MediaItem
	err := s.viewGallery(func(doc galleryDocument) error {
		items = append([]gallery.MediaItem{}, doc.Media[weddingID]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *BBoltStore) CreateMedia(_ context.Context, item gallery.MediaItem) error {
	return s.updateGallery(func(doc *galleryDocument) error {
		doc.Media[item.WeddingID] = append(doc.Media[item.WeddingID], item)
		return nil
	})
}

func (s *BBoltStore) DeleteMedia(_ context.Context, weddingID, id string) error {
	return s.updateGallery(func(doc *galleryDocument) error {
		existing := doc.Media[weddingID]
		kept := make([]gallery.MediaItem, 0, len(existing))
		for _, m := range existing {
			if m.ID != id {
				kept = append(kept, m)
			}
		}
		doc.Media[weddingID] = kept
		return nil
	})
}

// mutateMedia applies fn to the matching item and returns a copy of the
// result, or nil when the item does not exist.
func (s *BBoltStore) mutateMedia(weddingID, mediaID string, fn func(m *gallery.MediaItem)) (*gallery.MediaItem, error) {
	var updated *gallery.MediaItem
	err := s.updateGallery(func(doc *galleryDocument) error {
		items := doc.Media[weddingID]
		for i := range items {
			if items[i].ID == mediaID {
				fn(&items[i])
				m := items[i]
				updated = &m
				break
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (s *BBoltStore) AddReaction(_ context.Context, weddingID, mediaID string, reaction gallery.ReactionType) (*gallery.MediaItem, error) {
	return s.mutateMedia(weddingID, mediaID, func(m *gallery.MediaItem) {
		if m.Reactions == nil {
			m.Reactions = make(map[gallery.ReactionType]int)
		}
		m.Reactions[reaction]++
	})
}

func (s *BBoltStore) AdjustFavorites(_ context.Context, weddingID, mediaID string, delta int) (*gallery.MediaItem, error) {
	return s.mutateMedia(weddingID, mediaID, func(m *gallery.MediaItem) {
		m.FavoriteCount += delta
		if m.FavoriteCount < 0 {
			m.FavoriteCount = 0
		}
	})
}

func (s *BBoltStore) ListMessages(_ context.Context, weddingID string) ([]gallery.Message, error) {
	var msgs []gallery.Message
	err := s.viewGallery(func(doc galleryDocument) error {
		msgs = append([]gallery.Message{}, doc.Messages[weddingID]...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return msgs, nil
}

func (s *BBoltStore) CreateMessage(_ context.Context, msg gallery.Message) error {
	return s.updateGallery(func(doc *galleryDocument) error {
		doc.Messages[msg.WeddingID] = append(doc.Messages[msg.WeddingID], msg)
		return nil
	})
}
