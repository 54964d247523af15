package shared

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParsePagination(t *testing.T) {
	cases := []struct {
		query      string
		wantLimit  int
		wantOffset int
	}{
		{"", 50, 0},
		{"?limit=10&offset=5", 10, 5},
		{"?limit=-1&offset=-3", 50, 0},
		{"?limit=1000", 200, 0},
		{"?limit=abc", 50, 0},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/employees"+tc.query, nil)
		got := ParsePagination(req, 50, 200)
		if got.Limit != tc.wantLimit || got.Offset != tc.wantOffset {
			t.Fatalf("%q: got %+v", tc.query, got)
		}
	}
}

func TestPage(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	rec := httptest.NewRecorder()
	got := Page(rec, items, Pagination{Limit: 2, Offset: 1})
	if len(got) != 2 || got[0] != 2 || got[1] != 3 {
		t.Fatalf("unexpected page %v", got)
	}
	if rec.Header().Get("X-Total-Count") != "5" {
		t.Fatalf("unexpected total header %q", rec.Header().Get("X-Total-Count"))
	}

	if got := Page(httptest.NewRecorder(), items, Pagination{Limit: 10, Offset: 9}); len(got) != 0 {
		t.Fatalf("expected empty page past the end, got %v", got)
	}
	if got := Page(httptest.NewRecorder(), items, Pagination{Limit: 10, Offset: 3}); len(got) != 2 {
		t.Fatalf("expected tail page, got %v", got)
	}
}

func TestParseDate(t *testing.T) {
	if d, err := ParseDate("2024-02-01"); err != nil || d.Day() != 1 {
		t.Fatalf("unexpected parse %v %v", d, err)
	}
	if d, err := ParseDate(""); err != nil || !d.IsZero() {
		t.Fatalf("expected zero time for empty input")
	}
	if _, err := ParseDate("02/01/2024"); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestValidatorReject(t *testing.T) {
	v := NewValidator()
	v.Required("name", " ", "is required")
	v.Enum("status", "finished", []string{"todo", "doing", "done", "blocked"}, "must be one of todo, doing, done, blocked")
	v.Range("answer", 7, 1, 5)
	v.Date("startDate", "not-a-date")

	rec := httptest.NewRecorder()
	if !v.Reject(rec, "req-1") {
		t.Fatal("expected rejection")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var body struct {
		Error struct {
			Code    string `json:"code"`
			Details struct {
				Fields []ValidationIssue `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Error.Code != "validation_error" || len(body.Error.Details.Fields) != 4 {
		t.Fatalf("unexpected body %+v", body)
	}
	if body.Error.Details.Fields[0].Field != "answer" {
		t.Fatalf("expected issues sorted by field, got %+v", body.Error.Details.Fields)
	}
}

func TestValidatorAcceptsValidInput(t *testing.T) {
	v := NewValidator()
	v.Required("name", "Sarah", "is required")
	v.Enum("status", "DONE", []string{"todo", "done"}, "bad")
	v.Range("answer", 5, 1, 5)
	if v.HasIssues() {
		t.Fatalf("unexpected issues %+v", v.Issues())
	}
	if v.Reject(httptest.NewRecorder(), "") {
		t.Fatal("did not expect rejection")
	}
}
