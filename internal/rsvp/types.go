package rsvp

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

type QuestionType string

const (
	QuestionText           QuestionType = "text"
	QuestionSingleChoice   QuestionType = "single_choice"
	QuestionMultipleChoice QuestionType = "multiple_choice"
)

type DisplayMode string

const (
	DisplayRadio    DisplayMode = "radio"
	DisplayDropdown DisplayMode = "dropdown"
)

type Attendance string

const (
	AttendanceYes   Attendance = "yes"
	AttendanceNo    Attendance = "no"
	AttendanceMaybe Attendance = "maybe"
)

func (a Attendance) Valid() bool {
	switch a {
	case AttendanceYes, AttendanceNo, AttendanceMaybe:
		return true
	}
	return false
}

type Option struct {
	ID    string `json:"id"`
	Label string `json:"label"`
	Value string `json:"value"`
}

type TextValidation struct {
	MinLength *int   `json:"minLength,omitempty"`
	MaxLength int    `json:"maxLength"`
	Pattern   string `json:"pattern,omitempty"`
}

// Question is a single RSVP form question. Which of the type-specific
// fields are meaningful depends on Type:
//   - text: Validation, Placeholder, Multiline
//   - single_choice: Options, DisplayMode
//   - multiple_choice: Options, MinSelections, MaxSelections
type Question struct {
	ID          string       `json:"id"`
	WeddingID   string       `json:"weddingId"`
	Type        QuestionType `json:"type"`
	Label       string       `json:"label"`
	Description string       `json:"description,omitempty"`
	Required    bool         `json:"required"`
	Order       int          `json:"order"`

	Validation  *TextValidation `json:"validation,omitempty"`
	Placeholder string          `json:"placeholder,omitempty"`
	Multiline   bool            `json:"multiline,omitempty"`

	Options       []Option    `json:"options,omitempty"`
	DisplayMode   DisplayMode `json:"displayMode,omitempty"`
	MinSelections *int        `json:"minSelections,omitempty"`
	MaxSelections *int        `json:"maxSelections,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (q Question) hasOption(value string) bool {
	for _, o := range q.Options {
		if o.Value == value {
			return true
		}
	}
	return false
}

// Config is the per-wedding RSVP singleton. It is always persisted whole.
type Config struct {
	WeddingID              string              `json:"weddingId"`
	Enabled                bool                `json:"enabled"`
	Questions              []Question          `json:"questions"`
	Deadline               *openapi_types.Date `json:"deadline,omitempty"`
	WelcomeMessage         string              `json:"welcomeMessage,omitempty"`
	ThankYouMessage        string              `json:"thankYouMessage,omitempty"`
	AllowPlusOne           bool                `json:"allowPlusOne"`
	AskDietaryRestrictions bool                `json:"askDietaryRestrictions"`
	MaxGuestsPerResponse   int                 `json:"maxGuestsPerResponse"`
	UpdatedAt              time.Time           `json:"updatedAt"`
}

// DefaultConfig returns the config used for a wedding that has never saved one.
func DefaultConfig(weddingID string) Config {
	return Config{
		WeddingID:              weddingID,
		Enabled:                true,
		Questions:              []Question{},
		AllowPlusOne:           true,
		AskDietaryRestrictions: true,
		MaxGuestsPerResponse:   DefaultMaxGuestsPerResponse,
	}
}

// Closed reports whether the deadline has passed at now. The deadline day
// itself is still open.
func (c Config) Closed(now time.Time) bool {
	if c.Deadline == nil {
		return false
	}
	d := c.Deadline.Time
	end := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
	return !now.UTC().Before(end)
}

type Guest struct {
	Name                string `json:"name"`
	DietaryRestrictions string `json:"dietaryRestrictions,omitempty"`
	IsChild             bool   `json:"isChild,omitempty"`
}

type QuestionAnswer struct {
	QuestionID string      `json:"questionId"`
	Value      AnswerValue `json:"value"`
}

// Submission is what a guest sends; the service turns it into a Response.
type Submission struct {
	RespondentName  string           `json:"respondentName"`
	RespondentEmail string           `json:"respondentEmail"`
	RespondentPhone string           `json:"respondentPhone,omitempty"`
	Attendance      Attendance       `json:"attendance"`
	Guests          []Guest          `json:"guests"`
	Answers         []QuestionAnswer `json:"answers"`
	Message         string           `json:"message,omitempty"`
}

type Response struct {
	ID        string `json:"id"`
	WeddingID string `json:"weddingId"`
	Submission
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Answer returns the answer given to questionID, if any.
func (r Response) Answer(questionID string) (AnswerValue, bool) {
	for _, a := range r.Answers {
		if a.QuestionID == questionID {
			return a.Value, true
		}
	}
	return AnswerValue{}, false
}

type Statistics struct {
	Total        int      `json:"total"`
	Attending    int      `json:"attending"`
	NotAttending int      `json:"notAttending"`
	Maybe        int      `json:"maybe"`
	TotalGuests  int      `json:"totalGuests"`
	ResponseRate *float64 `json:"responseRate,omitempty"`
}

type ResponseQuery struct {
	Page       int
	PageSize   int
	Attendance Attendance
	Search     string
}

type ResponsePage struct {
	Responses []Response `json:"responses"`
	Total     int        `json:"total"`
}
