package gallery

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrValidation = errors.New("validation failed")
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
)

type ReactionType string

const (
	ReactionHeart ReactionType = "heart"
	ReactionLove  ReactionType = "love"
	ReactionLaugh ReactionType = "laugh"
	ReactionWow   ReactionType = "wow"
	ReactionClap  ReactionType = "clap"
	ReactionParty ReactionType = "party"
)

var reactionEmoji = map[ReactionType]string{
	ReactionHeart: "❤️",
	ReactionLove:  "😍",
	ReactionLaugh: "😂",
	ReactionWow:   "😮",
	ReactionClap:  "👏",
	ReactionParty: "🎉",
}

// Emoji returns the display emoji of a reaction type, or "" if unknown.
func (r ReactionType) Emoji() string {
	return reactionEmoji[r]
}

func (r ReactionType) Valid() bool {
	_, ok := reactionEmoji[r]
	return ok
}

type MediaItem struct {
	ID            string               `json:"id"`
	WeddingID     string               `json:"weddingId"`
	Type          MediaType            `json:"type"`
	URL           string               `json:"url"`
	ThumbnailURL  string               `json:"thumbnailUrl,omitempty"`
	Author        string               `json:"author"`
	Caption       string               `json:"caption,omitempty"`
	FavoriteCount int                  `json:"favoriteCount"`
	Reactions     map[ReactionType]int `json:"reactions,omitempty"`
	CreatedAt     time.Time            `json:"createdAt"`
}

// TotalReactions sums every reaction type on the item.
func (m MediaItem) TotalReactions() int {
	n := 0
	for _, c := range m.Reactions {
		n += c
	}
	return n
}

// Message is a guestbook entry.
type Message struct {
	ID        string    `json:"id"`
	WeddingID string    `json:"weddingId"`
	Author    string    `json:"author"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"createdAt"`
}
