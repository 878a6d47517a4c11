package store

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"

	"github.com/kherembourg/RefletsDeBonheur-sub001/internal/rsvp"
)

func TestConfigRow_RoundTrip(t *testing.T) {
	deadline := openapi_types.Date{Time: time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC)}
	cfg := rsvp.Config{
		WeddingID: "w1",
		Enabled:   true,
		Questions: []rsvp.Question{{
			ID:         "q1",
			Type:       rsvp.QuestionText,
			Label:      "Chanson préférée ?",
			Validation: &rsvp.TextValidation{MaxLength: 100},
		}},
		Deadline:             &deadline,
		WelcomeMessage:       "Bienvenue",
		AllowPlusOne:         true,
		MaxGuestsPerResponse: 4,
	}

	row, err := configToRow(cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.ThankYouMessage != nil {
		t.Fatal("expected empty thank-you message to map to NULL")
	}
	if row.Deadline == nil || !row.Deadline.Equal(deadline.Time) {
		t.Fatalf("unexpected deadline column: %v", row.Deadline)
	}

	back, err := row.toConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(back.Questions) != 1 || back.Questions[0].Validation.MaxLength != 100 {
		t.Fatalf("unexpected questions: %+v", back.Questions)
	}
	if back.WelcomeMessage != "Bienvenue" || back.ThankYouMessage != "" {
		t.Fatalf("unexpected messages: %q %q", back.WelcomeMessage, back.ThankYouMessage)
	}
	if back.Deadline == nil || back.Deadline.Format("2006-01-02") != "2026-09-12" {
		t.Fatalf("unexpected deadline: %v", back.Deadline)
	}
}

func TestResponseRow_RoundTrip(t *testing.T) {
	r := rsvp.Response{
		ID:        "r1",
		WeddingID: "w1",
		Submission: rsvp.Submission{
			RespondentName:  "Jean Dupont",
			RespondentEmail: "jean@example.com",
			Attendance:      rsvp.AttendanceYes,
			Guests:          []rsvp.Guest{{Name: "Marie", IsChild: true}},
			Answers: []rsvp.QuestionAnswer{
				{QuestionID: "q1", Value: rsvp.SingleAnswer("Oui")},
				{QuestionID: "q2", Value: rsvp.MultiAnswer("a", "b")},
			},
		},
		CreatedAt: time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC),
	}

	row, err := responseToRow(r)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if row.RespondentPhone != nil || row.Message != nil {
		t.Fatal("expected empty optional columns to map to NULL")
	}
	if row.Attendance != "yes" {
		t.Fatalf("expected attendance column 'yes', got %q", row.Attendance)
	}

	back, err := row.toResponse()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(back.Guests) != 1 || !back.Guests[0].IsChild {
		t.Fatalf("unexpected guests: %+v", back.Guests)
	}
	v, ok := back.Answer("q2")
	if !ok || v.Kind != rsvp.AnswerMulti || len(v.Multi) != 2 {
		t.Fatalf("unexpected multi answer: %+v", v)
	}
}

func TestResponseFilter(t *testing.T) {
	where, args := responseFilter("w1", rsvp.ResponseQuery{Attendance: rsvp.AttendanceNo, Search: "50%_off"})

	want := "wedding_id = $1 AND attendance = $2 AND (respondent_name ILIKE $3 OR respondent_email ILIKE $3)"
	if where != want {
		t.Fatalf("expected %q, got %q", want, where)
	}
	if len(args) != 3 || args[2] != `%50\%\_off%` {
		t.Fatalf("unexpected args: %v", args)
	}
}

// The remaining tests need a live database.
func testPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	dsn := os.Getenv("TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}
	s, err := NewPostgresStore(context.Background(), dsn)
	if err != nil {
		t.Fatalf("failed to connect: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPostgres_ConfigUpsert(t *testing.T) {
	s := testPostgresStore(t)
	ctx := context.Background()
	wedding := "test-" + time.Now().Format("150405.000000")

	for _, enabled := range []bool{true, false} {
		err := s.SaveConfig(ctx, rsvp.Config{WeddingID: wedding, Enabled: enabled, MaxGuestsPerResponse: 5, UpdatedAt: time.Now()})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	cfg, err := s.GetConfig(ctx, wedding)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil || cfg.Enabled {
		t.Fatalf("expected last write to win, got %+v", cfg)
	}
}

func TestPostgres_ResponsesLifecycle(t *testing.T) {
	s := testPostgresStore(t)
	ctx := context.Background()
	wedding := "test-" + time.Now().Format("150405.000000")
	base := time.Now().UTC()

	_ = s.CreateResponse(ctx, response(wedding+"-a", wedding, rsvp.AttendanceYes, base))
	_ = s.CreateResponse(ctx, response(wedding+"-b", wedding, rsvp.AttendanceNo, base.Add(time.Second)))

	page, total, err := s.ListResponses(ctx, wedding, rsvp.ResponseQuery{Search: "GUEST"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 2 || page[0].ID != wedding+"-b" {
		t.Fatalf("expected 2 responses newest first, got total=%d %+v", total, page)
	}

	if err := s.DeleteResponse(ctx, wedding, wedding+"-a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := s.DeleteResponse(ctx, wedding, wedding+"-a"); err != nil {
		t.Fatalf("expected idempotent delete, got %v", err)
	}
	r, err := s.GetResponse(ctx, wedding, wedding+"-a")
	if err != nil || r != nil {
		t.Fatalf("expected nil, nil after delete, got %+v %v", r, err)
	}
}

func TestPostgres_EqualTimestampsPageByID(t *testing.T) {
	s := testPostgresStore(t)
	ctx := context.Background()
	wedding := "test-" + time.Now().Format("150405.000000")
	at := time.Now().UTC().Truncate(time.Microsecond)

	for _, id := range []string{"b", "d", "a", "c"} {
		if err := s.CreateResponse(ctx, response(wedding+"-"+id, wedding, rsvp.AttendanceYes, at)); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	var seen []string
	for p := 1; p <= 2; p++ {
		page, _, err := s.ListResponses(ctx, wedding, rsvp.ResponseQuery{Page: p, PageSize: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		for _, r := range page {
			seen = append(seen, strings.TrimPrefix(r.ID, wedding+"-"))
		}
	}
	if got := strings.Join(seen, ""); got != "dcba" {
		t.Fatalf("expected id descending order dcba, got %s", got)
	}
}
