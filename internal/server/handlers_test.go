package server

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/Rahulvijayan123/workout-sub002/internal/models"
)

// TestParseTimeRangeDefault verifies the 90-day default window when no
// parameters are given.
func TestParseTimeRangeDefault(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("parseTimeRange: %v", err)
	}
	if days := end.Sub(start).Hours() / 24; days < 89 || days > 91 {
		t.Errorf("default window = %.1f days, want ~90", days)
	}
}

// TestParseTimeRangeDateOnly verifies date-only params parse and the end
// date covers the whole day.
func TestParseTimeRangeDateOnly(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?start=2026-04-01&end=2026-04-30", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("parseTimeRange: %v", err)
	}
	if start != time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("start = %v", start)
	}
	if end != time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC) {
		t.Errorf("end = %v, want end of April 30", end)
	}
}

// TestParseTimeRangeRFC3339 verifies full timestamps parse unchanged.
func TestParseTimeRangeRFC3339(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?start=2026-04-01T08:00:00Z&end=2026-04-01T20:00:00Z", nil)
	start, end, err := parseTimeRange(req)
	if err != nil {
		t.Fatalf("parseTimeRange: %v", err)
	}
	if start.Hour() != 8 || end.Hour() != 20 {
		t.Errorf("start = %v, end = %v", start, end)
	}
}

// TestParseTimeRangeInvalid verifies garbage input is reported.
func TestParseTimeRangeInvalid(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions?start=yesterday", nil)
	if _, _, err := parseTimeRange(req); err == nil {
		t.Error("expected parse error")
	}
}

func TestSplitIDList(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{"incline-press", []string{"incline-press"}},
		{"a, b ,", []string{"a", "b"}},
	}
	for _, tc := range cases {
		if got := splitIDList(tc.in); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("splitIDList(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

// TestLatestReadiness verifies the newest score wins and an empty log
// defaults to a neutral value that never trips the readiness floor.
func TestLatestReadiness(t *testing.T) {
	if got := latestReadiness(nil); got != 100 {
		t.Errorf("empty log readiness = %d, want 100", got)
	}
	log := []models.ReadinessEntry{
		{Date: time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), Score: 80},
		{Date: time.Date(2026, 4, 2, 0, 0, 0, 0, time.UTC), Score: 35},
	}
	if got := latestReadiness(log); got != 35 {
		t.Errorf("latest readiness = %d, want 35", got)
	}
}

// TestRecordSessionValidation verifies malformed submissions are rejected
// before anything reaches storage.
func TestRecordSessionValidation(t *testing.T) {
	srv := &Server{log: slog.New(slog.NewTextHandler(io.Discard, nil))}

	cases := []struct {
		name string
		body string
	}{
		{"malformed JSON", `{"date":`},
		{"missing date", `{"name":"Push Day"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/v1/sessions", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			srv.handleRecordSession(rec, req)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400", rec.Code)
			}
		})
	}
}

// TestWriteJSON verifies status and content type on the shared response helper.
func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusTeapot, map[string]string{"k": "v"})
	if rec.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("content type = %q", ct)
	}
}
