package authhandler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"onboarding/internal/domain/auth"
	"onboarding/internal/transport/http/middleware"
)

const testSecret = "test-secret"

func newRouter(t *testing.T) http.Handler {
	t.Helper()
	svc, err := auth.NewService(testSecret, time.Hour, auth.DefaultUsers)
	if err != nil {
		t.Fatalf("auth service: %v", err)
	}
	r := chi.NewRouter()
	r.Use(middleware.Auth(testSecret))
	NewHandler(svc).RegisterRoutes(r)
	return r
}

func postJSON(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestLoginAndMe(t *testing.T) {
	router := newRouter(t)

	rec := postJSON(router, "/auth/login", map[string]string{"email": "Employee@Acme.com", "password": "employee123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var login struct {
		Data struct {
			Token string        `json:"token"`
			User  auth.DemoUser `json:"user"`
		} `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&login); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if login.Data.Token == "" || login.Data.User.EmployeeID != "E-1027" {
		t.Fatalf("unexpected login payload %+v", login.Data)
	}

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer "+login.Data.Token)
	meRec := httptest.NewRecorder()
	router.ServeHTTP(meRec, req)
	if meRec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /me, got %d", meRec.Code)
	}
	var me struct {
		Data struct {
			User        auth.DemoUser `json:"user"`
			Permissions []string      `json:"permissions"`
		} `json:"data"`
	}
	if err := json.NewDecoder(meRec.Body).Decode(&me); err != nil {
		t.Fatalf("decode me: %v", err)
	}
	if me.Data.User.RoleName != auth.RoleEmployee || len(me.Data.Permissions) == 0 {
		t.Fatalf("unexpected /me payload %+v", me.Data)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	router := newRouter(t)

	cases := []struct {
		name string
		body any
		want int
	}{
		{"wrong password", map[string]string{"email": "hr@acme.com", "password": "nope"}, http.StatusUnauthorized},
		{"unknown user", map[string]string{"email": "ghost@acme.com", "password": "hr123"}, http.StatusUnauthorized},
		{"missing fields", map[string]string{"email": ""}, http.StatusBadRequest},
		{"not json", "plain", http.StatusBadRequest},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			if rec := postJSON(router, "/auth/login", tc.body); rec.Code != tc.want {
				t.Fatalf("expected %d, got %d", tc.want, rec.Code)
			}
		})
	}
}

func TestMeRequiresToken(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(t).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/me", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}
