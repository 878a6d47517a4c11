package api

import (
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/gallery"
	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

type Error struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// PublicQuestion is a question without its admin bookkeeping fields.
type PublicQuestion struct {
	ID            string            `json:"id"`
	Type          rsvp.QuestionType `json:"type"`
	Label         string            `json:"label"`
	Description   string            `json:"description,omitempty"`
	Required      bool              `json:"required"`
	Order         int               `json:"order"`
	Placeholder   string            `json:"placeholder,omitempty"`
	Multiline     bool              `json:"multiline,omitempty"`
	Options       []rsvp.Option     `json:"options,omitempty"`
	DisplayMode   rsvp.DisplayMode  `json:"displayMode,omitempty"`
	MinSelections *int              `json:"minSelections,omitempty"`
	MaxSelections *int              `json:"maxSelections,omitempty"`
}

type PublicForm struct {
	WeddingID              string              `json:"weddingId"`
	Enabled                bool                `json:"enabled"`
	Open                   bool                `json:"open"`
	Deadline               *openapi_types.Date `json:"deadline,omitempty"`
	WelcomeMessage         string              `json:"welcomeMessage,omitempty"`
	AllowPlusOne           bool                `json:"allowPlusOne"`
	AskDietaryRestrictions bool                `json:"askDietaryRestrictions"`
	MaxGuestsPerResponse   int                 `json:"maxGuestsPerResponse"`
	Questions              []PublicQuestion    `json:"questions"`
}

type SubmitResult struct {
	ID              string `json:"id"`
	ThankYouMessage string `json:"thankYouMessage,omitempty"`
}

type ReactionRequest struct {
	Type gallery.ReactionType `json:"type"`
}

type FavoriteRequest struct {
	Favorite bool `json:"favorite"`
}

type MessageRequest struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}
