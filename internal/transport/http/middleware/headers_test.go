package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestSecureHeaders(t *testing.T) {
	handler := SecureHeaders(true)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil))
	if rec.Header().Get("X-Frame-Options") != "DENY" {
		t.Fatal("expected frame options")
	}
	if rec.Header().Get("Cache-Control") != "no-store" {
		t.Fatal("expected no-store on api paths")
	}
	if rec.Header().Get("Strict-Transport-Security") == "" {
		t.Fatal("expected HSTS in production")
	}

	rec = httptest.NewRecorder()
	SecureHeaders(false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Header().Get("Cache-Control") != "" || rec.Header().Get("Strict-Transport-Security") != "" {
		t.Fatal("unexpected headers outside api in development")
	}
}

func TestBodyLimitRejectsLargeDeclaredBody(t *testing.T) {
	called := false
	handler := BodyLimit(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/employees", bytes.NewBufferString(strings.Repeat("x", 64)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusRequestEntityTooLarge || called {
		t.Fatalf("expected 413 without calling handler, got %d called=%v", rec.Code, called)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/v1/employees", nil)
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if !called {
		t.Fatal("GET should pass through")
	}
}
