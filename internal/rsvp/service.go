// Package rsvp holds the RSVP form configuration and guest responses of a
// wedding: question limits and validation, the Service that reads and writes
// them through a Store, and derived statistics and CSV export.
package rsvp

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Store is the persistence port behind the Service. GetConfig and
// GetResponse return nil, nil when nothing is stored.
type Store interface {
	GetConfig(ctx context.Context, weddingID string) (*Config, error)
	SaveConfig(ctx context.Context, cfg Config) error
	ListResponses(ctx context.Context, weddingID string, q ResponseQuery) ([]Response, int, error)
	AllResponses(ctx context.Context, weddingID string) ([]Response, error)
	GetResponse(ctx context.Context, weddingID, id string) (*Response, error)
	CreateResponse(ctx context.Context, r Response) error
	DeleteResponse(ctx context.Context, weddingID, id string) error
}

// Service is the read/write boundary for one wedding's RSVP data.
//
// Reads never fail: backend errors are logged and replaced by empty
// defaults. Writes, including the load step of read-modify-write
// operations, return backend errors to the caller.
type Service struct {
	weddingID string
	store     Store
	now       func() time.Time
	newID     func() string
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

func NewService(weddingID string, store Store, opts ...ServiceOption) *Service {
	s := &Service{
		weddingID: weddingID,
		store:     store,
		now:       func() time.Time { return time.Now().UTC() },
		newID:     func() string { return uuid.NewString() },
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) WeddingID() string {
	return s.weddingID
}

func (s *Service) logger() *log.Entry {
	return log.WithField("wedding_id", s.weddingID)
}

// loadConfig is the error-propagating read used by mutations.
func (s *Service) loadConfig(ctx context.Context) (Config, error) {
	stored, err := s.store.GetConfig(ctx, s.weddingID)
	if err != nil {
		return Config{}, fmt.Errorf("loading rsvp config for %s: %w", s.weddingID, err)
	}
	if stored == nil {
		return DefaultConfig(s.weddingID), nil
	}
	cfg := *stored
	cfg.Questions = append([]Question{}, stored.Questions...)
	return cfg, nil
}

func (s *Service) GetConfig(ctx context.Context) Config {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		s.logger().WithError(err).Error("failed to load rsvp config, using defaults")
		return DefaultConfig(s.weddingID)
	}
	return cfg
}

func (s *Service) SaveConfig(ctx context.Context, cfg Config) error {
	if err := ValidateConfig(cfg); err != nil {
		return err
	}
	cfg.WeddingID = s.weddingID
	if cfg.Questions == nil {
		cfg.Questions = []Question{}
	}
	cfg.UpdatedAt = s.now()

	if err := s.store.SaveConfig(ctx, cfg); err != nil {
		return fmt.Errorf("saving rsvp config for %s: %w", s.weddingID, err)
	}
	return nil
}

// ToggleEnabled goes through SaveConfig, so it is subject to the same
// question-count validation even though it never changes the questions.
func (s *Service) ToggleEnabled(ctx context.Context, enabled bool) (Config, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return Config{}, err
	}
	cfg.Enabled = enabled
	if err := s.SaveConfig(ctx, cfg); err != nil {
		return Config{}, err
	}
	return s.GetConfig(ctx), nil
}

func (s *Service) GetQuestions(ctx context.Context) []Question {
	questions := s.GetConfig(ctx).Questions
	SortByOrder(questions)
	return questions
}

func (s *Service) AddQuestion(ctx context.Context, q Question) (Question, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return Question{}, err
	}
	if len(cfg.Questions) >= MaxQuestionsPerWedding {
		return Question{}, ErrTooManyQuestions
	}
	if err := ValidateQuestion(q); err != nil {
		return Question{}, err
	}

	now := s.now()
	if q.ID == "" {
		q.ID = s.newID()
	}
	q.WeddingID = s.weddingID
	q.Order = len(cfg.Questions)
	q.CreatedAt = now
	q.UpdatedAt = now
	if q.Type == QuestionSingleChoice && q.DisplayMode == "" {
		q.DisplayMode = DisplayRadio
	}

	cfg.Questions = append(cfg.Questions, q)
	if err := s.SaveConfig(ctx, cfg); err != nil {
		return Question{}, err
	}
	return q, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, q Question) (Question, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return Question{}, err
	}

	idx := -1
	for i, existing := range cfg.Questions {
		if existing.ID == q.ID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Question{}, ErrQuestionNotFound
	}
	if err := ValidateQuestion(q); err != nil {
		return Question{}, err
	}

	prev := cfg.Questions[idx]
	q.WeddingID = s.weddingID
	q.Order = prev.Order
	q.CreatedAt = prev.CreatedAt
	q.UpdatedAt = s.now()
	if q.Type == QuestionSingleChoice && q.DisplayMode == "" {
		q.DisplayMode = DisplayRadio
	}
	cfg.Questions[idx] = q

	if err := s.SaveConfig(ctx, cfg); err != nil {
		return Question{}, err
	}
	return q, nil
}

// DeleteQuestion removes the question and renumbers the rest densely by
// their current position. Deleting an unknown id still resaves.
func (s *Service) DeleteQuestion(ctx context.Context, id string) error {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return err
	}

	kept := make([]Question, 0, len(cfg.Questions))
	for _, q := range cfg.Questions {
		if q.ID != id {
			kept = append(kept, q)
		}
	}
	for i := range kept {
		kept[i].Order = i
	}
	cfg.Questions = kept

	return s.SaveConfig(ctx, cfg)
}

// ReorderQuestions places the questions named by ids first, in that order.
// Unknown ids are skipped. Questions not named keep their relative order
// after the named ones.
func (s *Service) ReorderQuestions(ctx context.Context, ids []string) ([]Question, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}

	current := append([]Question{}, cfg.Questions...)
	SortByOrder(current)

	byID := make(map[string]int, len(current))
	for i, q := range current {
		byID[q.ID] = i
	}

	placed := make([]bool, len(current))
	reordered := make([]Question, 0, len(current))
	for _, id := range ids {
		i, ok := byID[id]
		if !ok || placed[i] {
			continue
		}
		placed[i] = true
		reordered = append(reordered, current[i])
	}
	for i, q := range current {
		if !placed[i] {
			reordered = append(reordered, q)
		}
	}
	for i := range reordered {
		reordered[i].Order = i
	}
	cfg.Questions = reordered

	if err := s.SaveConfig(ctx, cfg); err != nil {
		return nil, err
	}
	return reordered, nil
}

func (s *Service) GetResponses(ctx context.Context, q ResponseQuery) ResponsePage {
	q = q.Normalize()
	responses, total, err := s.store.ListResponses(ctx, s.weddingID, q)
	if err != nil {
		s.logger().WithError(err).Error("failed to list rsvp responses")
		return ResponsePage{Responses: []Response{}}
	}
	if responses == nil {
		responses = []Response{}
	}
	return ResponsePage{Responses: responses, Total: total}
}

// SubmitResponse validates the submission against the current config and
// stores it under a fresh id.
func (s *Service) SubmitResponse(ctx context.Context, sub Submission) (Response, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return Response{}, err
	}
	if err := ValidateSubmission(cfg, sub); err != nil {
		return Response{}, err
	}
	if sub.Guests == nil {
		sub.Guests = []Guest{}
	}
	if sub.Answers == nil {
		sub.Answers = []QuestionAnswer{}
	}

	now := s.now()
	resp := Response{
		ID:         s.newID(),
		WeddingID:  s.weddingID,
		Submission: sub,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.store.CreateResponse(ctx, resp); err != nil {
		return Response{}, fmt.Errorf("storing rsvp response for %s: %w", s.weddingID, err)
	}

	s.logger().WithFields(log.Fields{
		"response_id": resp.ID,
		"attendance":  resp.Attendance,
		"guests":      len(resp.Guests),
	}).Info("rsvp response submitted")
	return resp, nil
}

func (s *Service) GetResponse(ctx context.Context, id string) *Response {
	r, err := s.store.GetResponse(ctx, s.weddingID, id)
	if err != nil {
		s.logger().WithError(err).WithField("response_id", id).Error("failed to get rsvp response")
		return nil
	}
	return r
}

func (s *Service) DeleteResponse(ctx context.Context, id string) error {
	if err := s.store.DeleteResponse(ctx, s.weddingID, id); err != nil {
		return fmt.Errorf("deleting rsvp response %s: %w", id, err)
	}
	return nil
}

func (s *Service) GetStatistics(ctx context.Context) Statistics {
	responses, err := s.store.AllResponses(ctx, s.weddingID)
	if err != nil {
		s.logger().WithError(err).Error("failed to load rsvp responses for statistics")
		return Statistics{}
	}
	return ComputeStatistics(responses)
}

// ComputeStatistics counts responses by attendance. Only attending
// responses add seats: the respondent plus each listed guest.
func ComputeStatistics(responses []Response) Statistics {
	st := Statistics{Total: len(responses)}
	for _, r := range responses {
		switch r.Attendance {
		case AttendanceYes:
			st.Attending++
			st.TotalGuests += 1 + len(r.Guests)
		case AttendanceNo:
			st.NotAttending++
		case AttendanceMaybe:
			st.Maybe++
		}
	}
	return st
}
