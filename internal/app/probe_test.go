package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestCheckBackend(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		status     int
		wantOK     bool
		wantStatus int
		wantMsg    string
	}{
		{"ok", http.StatusOK, true, 0, "reachable"},
		{"server error", http.StatusServiceUnavailable, false, 503, "status: 503"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotPath, gotAuth string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotPath = r.URL.Path
				gotAuth = r.Header.Get("Authorization")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{"count":0,"results":[]}`))
			}))
			t.Cleanup(server.Close)

			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			res := CheckBackend(ctx, server.URL+"/api/")
			if res.OK != tt.wantOK || res.Status != tt.wantStatus {
				t.Fatalf("CheckBackend = %#v, want ok=%v status=%d", res, tt.wantOK, tt.wantStatus)
			}
			if !strings.Contains(res.Message, tt.wantMsg) {
				t.Fatalf("Message = %q, want it to contain %q", res.Message, tt.wantMsg)
			}
			if res.URL != server.URL+"/api/recipes/" || gotPath != "/api/recipes/" {
				t.Fatalf("URL = %q path = %q", res.URL, gotPath)
			}
			if gotAuth != "" {
				t.Fatalf("probe sent Authorization %q", gotAuth)
			}
		})
	}
}

func TestCheckBackend_Unreachable(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	res := CheckBackend(context.Background(), url)
	if res.OK || res.Status != 0 || res.Message == "" {
		t.Fatalf("CheckBackend(closed) = %#v, want failure without status", res)
	}
}

func TestCheckBackend_BadURL(t *testing.T) {
	res := CheckBackend(context.Background(), "ftp://example.com")
	if res.OK || !strings.Contains(res.Message, "scheme") {
		t.Fatalf("CheckBackend(ftp) = %#v", res)
	}
}

func TestCheckAuthEndpoint(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		status  int
		wantOK  bool
		wantMsg string
	}{
		{"validation error means present", http.StatusBadRequest, true, "exists"},
		{"missing route", http.StatusNotFound, false, "not found (404)"},
		{"server error", http.StatusInternalServerError, false, "status: 500"},
		{"created", http.StatusCreated, true, "success"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body map[string]string
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost || r.URL.Path != "/api/auth/register/" {
					http.Error(w, "unexpected", http.StatusTeapot)
					return
				}
				_ = json.NewDecoder(r.Body).Decode(&body)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(`{}`))
			}))
			t.Cleanup(server.Close)

			res := CheckAuthEndpoint(context.Background(), server.URL+"/api")
			if res.OK != tt.wantOK {
				t.Fatalf("CheckAuthEndpoint = %#v, want ok=%v", res, tt.wantOK)
			}
			if !strings.Contains(res.Message, tt.wantMsg) {
				t.Fatalf("Message = %q, want it to contain %q", res.Message, tt.wantMsg)
			}
			if body["username"] != "test" || body["password_confirm"] != "test" {
				t.Fatalf("probe body = %v", body)
			}
		})
	}
}
