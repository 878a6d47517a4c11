package rsvp

import (
	"strings"
	"testing"
	"time"
)

func TestEncodeCSV(t *testing.T) {
	questions := []Question{
		{ID: "q1", Label: "Plat"},
		{ID: "q2", Label: `Chanson "préférée"`},
	}
	responses := []Response{
		{
			Submission: Submission{
				RespondentName:  "Jean Dupont",
				RespondentEmail: "jean@example.com",
				Attendance:      AttendanceYes,
				Guests:          []Guest{{Name: "Marie"}, {Name: "Paul"}},
				Answers: []QuestionAnswer{
					{QuestionID: "q1", Value: SingleAnswer("Poisson")},
					{QuestionID: "q2", Value: MultiAnswer("a", "b")},
				},
				Message: `Vive les "mariés"`,
			},
			CreatedAt: time.Date(2026, 5, 1, 14, 30, 0, 0, time.UTC),
		},
		{
			Submission: Submission{RespondentName: "Anne", Attendance: AttendanceMaybe},
			CreatedAt:  time.Date(2026, 4, 1, 9, 5, 0, 0, time.UTC),
		},
	}

	lines := strings.Split(strings.TrimSuffix(string(EncodeCSV(questions, responses)), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
	}

	wantHeader := `"Nom","Email","Telephone","Presence","Accompagnants","Message","Date","Plat","Chanson ""préférée"""`
	if lines[0] != wantHeader {
		t.Fatalf("unexpected header:\n got %s\nwant %s", lines[0], wantHeader)
	}

	wantFirst := `"Jean Dupont","jean@example.com","","Oui","Marie, Paul","Vive les ""mariés""","2026-05-01 14:30","Poisson","a, b"`
	if lines[1] != wantFirst {
		t.Fatalf("unexpected first row:\n got %s\nwant %s", lines[1], wantFirst)
	}

	wantSecond := `"Anne","","","Peut-être","","","2026-04-01 09:05","",""`
	if lines[2] != wantSecond {
		t.Fatalf("unexpected second row:\n got %s\nwant %s", lines[2], wantSecond)
	}
}

func TestExportFilename(t *testing.T) {
	got := ExportFilename(time.Date(2026, 10, 16, 18, 0, 0, 0, time.UTC))
	if got != "rsvp-responses-2026-10-16.csv" {
		t.Fatalf("unexpected filename %q", got)
	}
}
