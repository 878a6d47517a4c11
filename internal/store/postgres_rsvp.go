package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

// configRow mirrors a rsvp_config row.
type configRow struct {
	WeddingID              string
	Enabled                bool
	Questions              []byte
	Deadline               *time.Time
	WelcomeMessage         *string
	ThankYouMessage        *string
	AllowPlusOne           bool
	AskDietaryRestrictions bool
	MaxGuestsPerResponse   int
	UpdatedAt              time.Time
}

func configToRow(cfg rsvp.Config) (configRow, error) {
	questions := cfg.Questions
	if questions == nil {
		questions = []rsvp.Question{}
	}
	q, err := json.Marshal(questions)
	if err != nil {
		return configRow{}, fmt.Errorf("marshaling questions: %w", err)
	}
	row := configRow{
		WeddingID:              cfg.WeddingID,
		Enabled:                cfg.Enabled,
		Questions:              q,
		WelcomeMessage:         nullable(cfg.WelcomeMessage),
		ThankYouMessage:        nullable(cfg.ThankYouMessage),
		AllowPlusOne:           cfg.AllowPlusOne,
		AskDietaryRestrictions: cfg.AskDietaryRestrictions,
		MaxGuestsPerResponse:   cfg.MaxGuestsPerResponse,
		UpdatedAt:              cfg.UpdatedAt,
	}
	if cfg.Deadline != nil {
		d := cfg.Deadline.Time
		row.Deadline = &d
	}
	return row, nil
}

func (r configRow) toConfig() (rsvp.Config, error) {
	cfg := rsvp.Config{
		WeddingID:              r.WeddingID,
		Enabled:                r.Enabled,
		Questions:              []rsvp.Question{},
		WelcomeMessage:         deref(r.WelcomeMessage),
		ThankYouMessage:        deref(r.ThankYouMessage),
		AllowPlusOne:           r.AllowPlusOne,
		AskDietaryRestrictions: r.AskDietaryRestrictions,
		MaxGuestsPerResponse:   r.MaxGuestsPerResponse,
		UpdatedAt:              r.UpdatedAt,
	}
	if len(r.Questions) > 0 {
		if err := json.Unmarshal(r.Questions, &cfg.Questions); err != nil {
			return rsvp.Config{}, fmt.Errorf("unmarshaling questions: %w", err)
		}
	}
	if r.Deadline != nil {
		cfg.Deadline = &openapi_types.Date{Time: *r.Deadline}
	}
	return cfg, nil
}

// responseRow mirrors a rsvp_responses row.
type responseRow struct {
	ID              string
	WeddingID       string
	RespondentName  string
	RespondentEmail string
	RespondentPhone *string
	Attendance      string
	Guests          []byte
	Answers         []byte
	Message         *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func responseToRow(r rsvp.Response) (responseRow, error) {
	guests := r.Guests
	if guests == nil {
		guests = []rsvp.Guest{}
	}
	answers := r.Answers
	if answers == nil {
		answers = []rsvp.QuestionAnswer{}
	}
	g, err := json.Marshal(guests)
	if err != nil {
		return responseRow{}, fmt.Errorf("marshaling guests: %w", err)
	}
	a, err := json.Marshal(answers)
	if err != nil {
		return responseRow{}, fmt.Errorf("marshaling answers: %w", err)
	}
	return responseRow{
		ID:              r.ID,
		WeddingID:       r.WeddingID,
		RespondentName:  r.RespondentName,
		RespondentEmail: r.RespondentEmail,
		RespondentPhone: nullable(r.RespondentPhone),
		Attendance:      string(r.Attendance),
		Guests:          g,
		Answers:         a,
		Message:         nullable(r.Message),
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

func (r responseRow) toResponse() (rsvp.Response, error) {
	resp := rsvp.Response{
		ID:        r.ID,
		WeddingID: r.WeddingID,
		Submission: rsvp.Submission{
			RespondentName:  r.RespondentName,
			RespondentEmail: r.RespondentEmail,
			RespondentPhone: deref(r.RespondentPhone),
			Attendance:      rsvp.Attendance(r.Attendance),
			Guests:          []rsvp.Guest{},
			Answers:         []rsvp.QuestionAnswer{},
			Message:         deref(r.Message),
		},
		CreatedAt: r.CreatedAt,
		UpdatedAt: r.UpdatedAt,
	}
	if len(r.Guests) > 0 {
		if err := json.Unmarshal(r.Guests, &resp.Guests); err != nil {
			return rsvp.Response{}, fmt.Errorf("unmarshaling guests of %s: %w", r.ID, err)
		}
	}
	if len(r.Answers) > 0 {
		if err := json.Unmarshal(r.Answers, &resp.Answers); err != nil {
			return rsvp.Response{}, fmt.Errorf("unmarshaling answers of %s: %w", r.ID, err)
		}
	}
	return resp, nil
}

const responseColumns = `id, wedding_id, respondent_name, respondent_email, respondent_phone,
	attendance, guests, answers, message, created_at, updated_at`

func scanResponse(row pgx.Row) (rsvp.Response, error) {
	var r responseRow
	err := row.Scan(
		&r.ID,
		&r.WeddingID,
		&r.RespondentName,
		&r.RespondentEmail,
		&r.RespondentPhone,
		&r.Attendance,
		&r.Guests,
		&r.Answers,
		&r.Message,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	if err != nil {
		return rsvp.Response{}, err
	}
	return r.toResponse()
}

func (p *PostgresStore) GetConfig(ctx context.Context, weddingID string) (*rsvp.Config, error) {
	query := `SELECT wedding_id, enabled, questions, deadline, welcome_message, thank_you_message,
	                 allow_plus_one, ask_dietary_restrictions, max_guests_per_response, updated_at
	          FROM rsvp_config WHERE wedding_id = $1`

	var r configRow
	err := p.db.QueryRow(ctx, query, weddingID).Scan(
		&r.WeddingID,
		&r.Enabled,
		&r.Questions,
		&r.Deadline,
		&r.WelcomeMessage,
		&r.ThankYouMessage,
		&r.AllowPlusOne,
		&r.AskDietaryRestrictions,
		&r.MaxGuestsPerResponse,
		&r.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rsvp config: %w", err)
	}

	cfg, err := r.toConfig()
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SaveConfig upserts the whole row; the last writer wins.
func (p *PostgresStore) SaveConfig(ctx context.Context, cfg rsvp.Config) error {
	r, err := configToRow(cfg)
	if err != nil {
		return err
	}

	query := `INSERT INTO rsvp_config (wedding_id, enabled, questions, deadline, welcome_message, thank_you_message,
	                                   allow_plus_one, ask_dietary_restrictions, max_guests_per_response, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	          ON CONFLICT (wedding_id) DO UPDATE
	          SET enabled = $2, questions = $3, deadline = $4, welcome_message = $5, thank_you_message = $6,
	              allow_plus_one = $7, ask_dietary_restrictions = $8, max_guests_per_response = $9, updated_at = $10`

	_, err = p.db.Exec(ctx, query,
		r.WeddingID,
		r.Enabled,
		r.Questions,
		r.Deadline,
		r.WelcomeMessage,
		r.ThankYouMessage,
		r.AllowPlusOne,
		r.AskDietaryRestrictions,
		r.MaxGuestsPerResponse,
		r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save rsvp config: %w", err)
	}
	return nil
}

// escapeLike escapes the ILIKE wildcards in a user search term.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// responseFilter builds the WHERE clause shared by the count and page queries.
func responseFilter(weddingID string, q rsvp.ResponseQuery) (string, []any) {
	where := "wedding_id = $1"
	args := []any{weddingID}

	if q.Attendance != "" {
		args = append(args, string(q.Attendance))
		where += fmt.Sprintf(" AND attendance = $%d", len(args))
	}
	if q.Search != "" {
		args = append(args, "%"+escapeLike(q.Search)+"%")
		where += fmt.Sprintf(" AND (respondent_name ILIKE $%d OR respondent_email ILIKE $%d)", len(args), len(args))
	}
	return where, args
}

func (p *PostgresStore) ListResponses(ctx context.Context, weddingID string, q rsvp.ResponseQuery) ([]rsvp.Response, int, error) {
	q = q.Normalize()
	where, args := responseFilter(weddingID, q)

	var total int
	if err := p.db.QueryRow(ctx, "SELECT COUNT(*) FROM rsvp_responses WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rsvp responses: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM rsvp_responses WHERE %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		responseColumns, where, len(args)+1, len(args)+2)
	args = append(args, q.PageSize, q.Offset())

	responses, err := p.queryResponses(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	return responses, total, nil
}

func (p *PostgresStore) AllResponses(ctx context.Context, weddingID string) ([]rsvp.Response, error) {
	query := fmt.Sprintf("SELECT %s FROM rsvp_responses WHERE wedding_id = $1 ORDER BY created_at DESC, id DESC", responseColumns)
	return p.queryResponses(ctx, query, weddingID)
}

func (p *PostgresStore) queryResponses(ctx context.Context, query string, args ...any) ([]rsvp.Response, error) {
	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list rsvp responses: %w", err)
	}
	defer rows.Close()

	responses := []rsvp.Response{}
	for rows.Next() {
		r, err := scanResponse(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rsvp response: %w", err)
		}
		responses = append(responses, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rsvp responses: %w", err)
	}
	return responses, nil
}

func (p *PostgresStore) GetResponse(ctx context.Context, weddingID, id string) (*rsvp.Response, error) {
	query := fmt.Sprintf("SELECT %s FROM rsvp_responses WHERE wedding_id = $1 AND id = $2", responseColumns)
	r, err := scanResponse(p.db.QueryRow(ctx, query, weddingID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get rsvp response: %w", err)
	}
	return &r, nil
}

func (p *PostgresStore) CreateResponse(ctx context.Context, resp rsvp.Response) error {
	r, err := responseToRow(resp)
	if err != nil {
		return err
	}

	query := fmt.Sprintf("INSERT INTO rsvp_responses (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)", responseColumns)
	_, err = p.db.Exec(ctx, query,
		r.ID,
		r.WeddingID,
		r.RespondentName,
		r.RespondentEmail,
		r.RespondentPhone,
		r.Attendance,
		r.Guests,
		r.Answers,
		r.Message,
		r.CreatedAt,
		r.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create rsvp response: %w", err)
	}
	return nil
}

func (p *PostgresStore) DeleteResponse(ctx context.Context, weddingID, id string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM rsvp_responses WHERE wedding_id = $1 AND id = $2`, weddingID, id)
	if err != nil {
		return fmt.Errorf("failed to delete rsvp response: %w", err)
	}
	return nil
}
