package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"
)

// The server under test must run with SEED_FILE=seed/demo.json.
var (
	baseURL  = "http://localhost:8080"
	adminURL = "http://localhost:9090"
)

const wedding = "demo"

// Response types (self-contained, no dependency on main module)

type PublicForm struct {
	WeddingID string `json:"weddingId"`
	Enabled   bool   `json:"enabled"`
	Questions []struct {
		ID       string `json:"id"`
		Type     string `json:"type"`
		Required bool   `json:"required"`
	} `json:"questions"`
}

type SubmitResult struct {
	ID              string `json:"id"`
	ThankYouMessage string `json:"thankYouMessage"`
}

type RsvpResponse struct {
	ID             string `json:"id"`
	RespondentName string `json:"respondentName"`
	Attendance     string `json:"attendance"`
}

type ResponseList struct {
	Responses []RsvpResponse `json:"responses"`
	Total     int            `json:"total"`
}

type MediaItem struct {
	ID            string         `json:"id"`
	FavoriteCount int            `json:"favoriteCount"`
	Reactions     map[string]int `json:"reactions"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

func TestMain(m *testing.M) {
	if u := os.Getenv("API_URL"); u != "" {
		baseURL = u
	}
	if u := os.Getenv("ADMIN_URL"); u != "" {
		adminURL = u
	}

	if !waitForHealthy(15 * time.Second) {
		fmt.Fprintf(os.Stderr, "ERROR: API at %s not healthy after timeout\n", baseURL)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func waitForHealthy(timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	client := &http.Client{Timeout: 2 * time.Second}

	for time.Now().Before(deadline) {
		resp, err := client.Get(baseURL + "/health")
		if err == nil && resp.StatusCode == http.StatusOK {
			resp.Body.Close()
			return true
		}
		if resp != nil {
			resp.Body.Close()
		}
		time.Sleep(500 * time.Millisecond)
	}
	return false
}

func send(t *testing.T, method, url string, body any) *http.Response {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(raw)
	}
	req, err := http.NewRequest(method, url, r)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("failed to decode: %v", err)
	}
	return v
}

func expectStatus(t *testing.T, resp *http.Response, want int) {
	t.Helper()
	if resp.StatusCode != want {
		body, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected %d, got %d: %s", want, resp.StatusCode, body)
	}
}

func setEnabled(t *testing.T, enabled bool) {
	t.Helper()
	resp := send(t, http.MethodPut, adminURL+"/admin/weddings/"+wedding+"/rsvp/enabled", map[string]bool{"enabled": enabled})
	expectStatus(t, resp, http.StatusOK)
}

// --- Happy path ---

func TestHealth(t *testing.T) {
	resp := send(t, http.MethodGet, baseURL+"/health", nil)
	expectStatus(t, resp, http.StatusOK)
	if h := decode[HealthResponse](t, resp); h.Status != "ok" {
		t.Fatalf("expected status ok, got %q", h.Status)
	}
}

func TestPublicForm(t *testing.T) {
	resp := send(t, http.MethodGet, baseURL+"/weddings/"+wedding+"/rsvp", nil)
	expectStatus(t, resp, http.StatusOK)

	form := decode[PublicForm](t, resp)
	if form.WeddingID != wedding || len(form.Questions) != 3 {
		t.Fatalf("unexpected form: %+v", form)
	}
	if form.Questions[0].ID != "menu" || !form.Questions[0].Required {
		t.Fatalf("expected the menu question first, got %+v", form.Questions[0])
	}
}

func TestSubmitAndManageResponse(t *testing.T) {
	name := fmt.Sprintf("E2E Guest %d", time.Now().UnixNano())

	resp := send(t, http.MethodPost, baseURL+"/weddings/"+wedding+"/rsvp/responses", map[string]any{
		"respondentName": name,
		"attendance":     "yes",
		"guests":         []map[string]any{{"name": "Plus One"}},
		"answers": []map[string]any{
			{"questionId": "menu", "value": "meat"},
			{"questionId": "activities", "value": []string{"shuttle"}},
		},
	})
	expectStatus(t, resp, http.StatusCreated)
	result := decode[SubmitResult](t, resp)
	if result.ID == "" || result.ThankYouMessage == "" {
		t.Fatalf("unexpected submit result: %+v", result)
	}

	list := send(t, http.MethodGet, adminURL+"/admin/weddings/"+wedding+"/rsvp/responses?search="+strings.ReplaceAll(name, " ", "+"), nil)
	expectStatus(t, list, http.StatusOK)
	page := decode[ResponseList](t, list)
	if page.Total != 1 || page.Responses[0].ID != result.ID {
		t.Fatalf("expected the new response to be searchable, got %+v", page)
	}

	export := send(t, http.MethodGet, adminURL+"/admin/weddings/"+wedding+"/rsvp/export", nil)
	expectStatus(t, export, http.StatusOK)
	csv, _ := io.ReadAll(export.Body)
	if !strings.Contains(string(csv), `"`+name+`"`) {
		t.Fatal("expected the new response in the CSV export")
	}

	del := send(t, http.MethodDelete, adminURL+"/admin/weddings/"+wedding+"/rsvp/responses/"+result.ID, nil)
	expectStatus(t, del, http.StatusNoContent)

	gone := send(t, http.MethodGet, adminURL+"/admin/weddings/"+wedding+"/rsvp/responses/"+result.ID, nil)
	expectStatus(t, gone, http.StatusNotFound)
}

func TestReactionAndFavorite(t *testing.T) {
	before := send(t, http.MethodGet, baseURL+"/weddings/"+wedding+"/media", nil)
	expectStatus(t, before, http.StatusOK)
	items := decode[[]MediaItem](t, before)
	if len(items) == 0 {
		t.Fatal("expected seeded media")
	}
	target := items[0]

	resp := send(t, http.MethodPost, baseURL+"/weddings/"+wedding+"/media/"+target.ID+"/reactions", map[string]string{"type": "wow"})
	expectStatus(t, resp, http.StatusOK)
	if got := decode[MediaItem](t, resp); got.Reactions["wow"] != target.Reactions["wow"]+1 {
		t.Fatalf("expected wow count to grow, got %v", got.Reactions)
	}

	resp = send(t, http.MethodPut, baseURL+"/weddings/"+wedding+"/media/"+target.ID+"/favorite", map[string]bool{"favorite": true})
	expectStatus(t, resp, http.StatusOK)
}

func TestAdminStatisticsAndQR(t *testing.T) {
	resp := send(t, http.MethodGet, adminURL+"/admin/weddings/"+wedding+"/statistics?tz=Europe/Paris", nil)
	expectStatus(t, resp, http.StatusOK)
	st := decode[map[string]any](t, resp)
	if st["totalMedia"].(float64) < 3 {
		t.Fatalf("expected seeded media in statistics, got %v", st["totalMedia"])
	}

	qr := send(t, http.MethodGet, adminURL+"/admin/weddings/"+wedding+"/qr", nil)
	expectStatus(t, qr, http.StatusOK)
	if ct := qr.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("expected image/png, got %q", ct)
	}
}

// --- Error cases ---

func TestSubmit_InvalidBody(t *testing.T) {
	resp := send(t, http.MethodPost, baseURL+"/weddings/"+wedding+"/rsvp/responses", map[string]any{
		"respondentName": "Nobody",
		"attendance":     "perhaps",
	})
	expectStatus(t, resp, http.StatusBadRequest)
	if e := decode[ErrorResponse](t, resp); e.Message == "" {
		t.Fatal("expected an error message")
	}
}

func TestSubmit_MissingRequiredAnswer(t *testing.T) {
	resp := send(t, http.MethodPost, baseURL+"/weddings/"+wedding+"/rsvp/responses", map[string]any{
		"respondentName": "Nobody",
		"attendance":     "no",
	})
	expectStatus(t, resp, http.StatusBadRequest)
}

func TestSubmit_Disabled(t *testing.T) {
	setEnabled(t, false)
	t.Cleanup(func() { setEnabled(t, true) })

	resp := send(t, http.MethodPost, baseURL+"/weddings/"+wedding+"/rsvp/responses", map[string]any{
		"respondentName": "Late Guest",
		"attendance":     "no",
		"answers":        []map[string]any{{"questionId": "menu", "value": "fish"}},
	})
	expectStatus(t, resp, http.StatusForbidden)
}

func TestUnknownRoute(t *testing.T) {
	resp := send(t, http.MethodGet, baseURL+"/guestbook/abc", nil)
	expectStatus(t, resp, http.StatusNotFound)
}
