package rsvp

const (
	MaxQuestionsPerWedding = 20
	MaxOptionsPerQuestion  = 20
	MaxLabelLength         = 200
	MaxDescriptionLength   = 500
	MaxOptionLabelLength   = 100
	MaxPlaceholderLength   = 200
	MaxTextAnswerLength    = 2000
	MaxMessageLength       = 1000
	MaxNameLength          = 200
	MaxEmailLength         = 254

	DefaultMaxGuestsPerResponse = 5
	DefaultPageSize             = 10
	MaxPageSize                 = 100
)
