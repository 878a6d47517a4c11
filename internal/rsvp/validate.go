package rsvp

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	ErrValidation = errors.New("validation failed")
	ErrNotFound   = errors.New("not found")

	ErrQuestionNotFound = fmt.Errorf("question %w", ErrNotFound)
	ErrTooManyQuestions = fmt.Errorf("%w: at most %d questions per wedding", ErrValidation, MaxQuestionsPerWedding)
)

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}

// ValidateConfig checks the limits enforced on every save.
func ValidateConfig(cfg Config) error {
	if len(cfg.Questions) > MaxQuestionsPerWedding {
		return ErrTooManyQuestions
	}
	if cfg.MaxGuestsPerResponse < 0 {
		return invalid("maxGuestsPerResponse must not be negative")
	}
	return nil
}

// ValidateQuestion checks a question's shape against its type.
func ValidateQuestion(q Question) error {
	label := strings.TrimSpace(q.Label)
	if label == "" {
		return invalid("question label is required")
	}
	if runeLen(label) > MaxLabelLength {
		return invalid("question label exceeds %d characters", MaxLabelLength)
	}
	if runeLen(q.Description) > MaxDescriptionLength {
		return invalid("question description exceeds %d characters", MaxDescriptionLength)
	}

	switch q.Type {
	case QuestionText:
		return validateTextQuestion(q)
	case QuestionSingleChoice, QuestionMultipleChoice:
		return validateChoiceQuestion(q)
	default:
		return invalid("unknown question type %q", q.Type)
	}
}

func validateTextQuestion(q Question) error {
	v := q.Validation
	if v == nil || v.MaxLength <= 0 {
		return invalid("text question needs a positive maxLength")
	}
	if v.MaxLength > MaxTextAnswerLength {
		return invalid("maxLength exceeds %d", MaxTextAnswerLength)
	}
	if v.MinLength != nil && (*v.MinLength < 0 || *v.MinLength > v.MaxLength) {
		return invalid("minLength must be between 0 and maxLength")
	}
	if v.Pattern != "" {
		if _, err := regexp.Compile(v.Pattern); err != nil {
			return invalid("invalid pattern: %v", err)
		}
	}
	if runeLen(q.Placeholder) > MaxPlaceholderLength {
		return invalid("placeholder exceeds %d characters", MaxPlaceholderLength)
	}
	return nil
}

func validateChoiceQuestion(q Question) error {
	if len(q.Options) == 0 {
		return invalid("choice question needs at least one option")
	}
	if len(q.Options) > MaxOptionsPerQuestion {
		return invalid("at most %d options per question", MaxOptionsPerQuestion)
	}

	seen := make(map[string]struct{}, len(q.Options))
	for _, o := range q.Options {
		if strings.TrimSpace(o.Label) == "" {
			return invalid("option label is required")
		}
		if runeLen(o.Label) > MaxOptionLabelLength {
			return invalid("option label exceeds %d characters", MaxOptionLabelLength)
		}
		if _, dup := seen[o.Value]; dup {
			return invalid("duplicate option value %q", o.Value)
		}
		seen[o.Value] = struct{}{}
	}

	if q.Type == QuestionSingleChoice {
		switch q.DisplayMode {
		case "", DisplayRadio, DisplayDropdown:
		default:
			return invalid("unknown display mode %q", q.DisplayMode)
		}
		return nil
	}

	if q.MinSelections != nil && *q.MinSelections < 0 {
		return invalid("minSelections must not be negative")
	}
	if q.MaxSelections != nil {
		if *q.MaxSelections < 1 || *q.MaxSelections > len(q.Options) {
			return invalid("maxSelections must be between 1 and the number of options")
		}
		if q.MinSelections != nil && *q.MinSelections > *q.MaxSelections {
			return invalid("minSelections exceeds maxSelections")
		}
	}
	return nil
}

// ValidateSubmission checks a guest submission against the wedding's config.
func ValidateSubmission(cfg Config, sub Submission) error {
	name := strings.TrimSpace(sub.RespondentName)
	if name == "" {
		return invalid("respondent name is required")
	}
	if runeLen(name) > MaxNameLength {
		return invalid("respondent name exceeds %d characters", MaxNameLength)
	}
	if runeLen(sub.RespondentEmail) > MaxEmailLength {
		return invalid("respondent email exceeds %d characters", MaxEmailLength)
	}
	if !sub.Attendance.Valid() {
		return invalid("attendance must be one of yes, no, maybe")
	}
	if runeLen(sub.Message) > MaxMessageLength {
		return invalid("message exceeds %d characters", MaxMessageLength)
	}

	if len(sub.Guests) > 0 && !cfg.AllowPlusOne {
		return invalid("additional guests are not allowed")
	}
	if len(sub.Guests) > cfg.MaxGuestsPerResponse {
		return invalid("too many guests: got %d, max allowed %d", len(sub.Guests), cfg.MaxGuestsPerResponse)
	}
	for i, g := range sub.Guests {
		if strings.TrimSpace(g.Name) == "" {
			return invalid("guest %d has no name", i+1)
		}
		if runeLen(g.Name) > MaxNameLength {
			return invalid("guest %d name exceeds %d characters", i+1, MaxNameLength)
		}
	}

	return validateAnswers(cfg.Questions, sub.Answers)
}

func validateAnswers(questions []Question, answers []QuestionAnswer) error {
	byID := make(map[string]Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	given := make(map[string]AnswerValue, len(answers))
	for _, a := range answers {
		q, ok := byID[a.QuestionID]
		if !ok {
			return invalid("answer to unknown question %q", a.QuestionID)
		}
		if _, dup := given[a.QuestionID]; dup {
			return invalid("question %q answered twice", q.Label)
		}
		given[a.QuestionID] = a.Value
		if a.Value.Empty() {
			continue
		}
		if err := validateAnswer(q, a.Value); err != nil {
			return err
		}
	}

	for _, q := range questions {
		if !q.Required {
			continue
		}
		if v, ok := given[q.ID]; !ok || v.Empty() {
			return invalid("question %q is required", q.Label)
		}
	}
	return nil
}

func validateAnswer(q Question, v AnswerValue) error {
	switch q.Type {
	case QuestionText:
		if v.Kind != AnswerSingle {
			return invalid("question %q expects a text answer", q.Label)
		}
		n := runeLen(v.Single)
		if q.Validation != nil {
			if n > q.Validation.MaxLength {
				return invalid("answer to %q exceeds %d characters", q.Label, q.Validation.MaxLength)
			}
			if q.Validation.MinLength != nil && n < *q.Validation.MinLength {
				return invalid("answer to %q needs at least %d characters", q.Label, *q.Validation.MinLength)
			}
			if q.Validation.Pattern != "" {
				re, err := regexp.Compile(q.Validation.Pattern)
				if err == nil && !re.MatchString(v.Single) {
					return invalid("answer to %q has an invalid format", q.Label)
				}
			}
		}
	case QuestionSingleChoice:
		if v.Kind != AnswerSingle {
			return invalid("question %q expects a single choice", q.Label)
		}
		if !q.hasOption(v.Single) {
			return invalid("%q is not an option of %q", v.Single, q.Label)
		}
	case QuestionMultipleChoice:
		if v.Kind != AnswerMulti {
			return invalid("question %q expects a list of choices", q.Label)
		}
		for _, s := range v.Multi {
			if !q.hasOption(s) {
				return invalid("%q is not an option of %q", s, q.Label)
			}
		}
		if q.MinSelections != nil && len(v.Multi) < *q.MinSelections {
			return invalid("question %q needs at least %d selections", q.Label, *q.MinSelections)
		}
		if q.MaxSelections != nil && len(v.Multi) > *q.MaxSelections {
			return invalid("question %q allows at most %d selections", q.Label, *q.MaxSelections)
		}
	}
	return nil
}
