package rsvp

import (
	"context"
	"fmt"
	"strings"
	"time"
)

var exportHeader = []string{"Nom", "Email", "Telephone", "Presence", "Accompagnants", "Message", "Date"}

var attendanceLabels = map[Attendance]string{
	AttendanceYes:   "Oui",
	AttendanceNo:    "Non",
	AttendanceMaybe: "Peut-être",
}

// ExportFilename names the CSV download for the given day.
func ExportFilename(t time.Time) string {
	return fmt.Sprintf("rsvp-responses-%s.csv", t.Format("2006-01-02"))
}

// ExportCSV renders every response of the wedding, newest first, with one
// trailing column per question.
func (s *Service) ExportCSV(ctx context.Context) ([]byte, error) {
	cfg, err := s.loadConfig(ctx)
	if err != nil {
		return nil, err
	}
	responses, err := s.store.AllResponses(ctx, s.weddingID)
	if err != nil {
		return nil, fmt.Errorf("loading rsvp responses for export: %w", err)
	}
	SortNewestFirst(responses)
	SortByOrder(cfg.Questions)
	return EncodeCSV(cfg.Questions, responses), nil
}

// EncodeCSV quotes every cell, doubling embedded quotes.
func EncodeCSV(questions []Question, responses []Response) []byte {
	var b strings.Builder

	header := append([]string{}, exportHeader...)
	for _, q := range questions {
		header = append(header, q.Label)
	}
	writeRow(&b, header)

	for _, r := range responses {
		guests := make([]string, 0, len(r.Guests))
		for _, g := range r.Guests {
			guests = append(guests, g.Name)
		}
		row := []string{
			r.RespondentName,
			r.RespondentEmail,
			r.RespondentPhone,
			attendanceLabels[r.Attendance],
			strings.Join(guests, ", "),
			r.Message,
			r.CreatedAt.Format("2006-01-02 15:04"),
		}
		for _, q := range questions {
			v, _ := r.Answer(q.ID)
			row = append(row, v.String())
		}
		writeRow(&b, row)
	}
	return []byte(b.String())
}

func writeRow(b *strings.Builder, cells []string) {
	for i, c := range cells {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteByte('"')
		b.WriteString(strings.ReplaceAll(c, `"`, `""`))
		b.WriteByte('"')
	}
	b.WriteByte('\n')
}
