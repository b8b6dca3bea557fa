package httpclient

import (
	"fmt"
	"testing"
)

func TestExtractDetail(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		contentType string
		statusText  string
		want        string
	}{
		{"detail field", `{"detail":"Invalid credentials"}`, "application/json", "Unauthorized", "Invalid credentials"},
		{"error field", `{"error":"boom"}`, "application/json", "Internal Server Error", "boom"},
		{"detail preferred over error", `{"error":"e","detail":"d"}`, "application/json", "", "d"},
		{"non-string detail", `{"detail":["a","b"]}`, "application/json", "", `["a","b"]`},
		{"empty detail falls to error", `{"detail":"","error":"e"}`, "application/json", "", "e"},
		{"json string", `"just text"`, "application/json", "", "just text"},
		{"whole object", `{"username": ["A user with this username already exists."]}`, "application/json", "Bad Request", `{"username":["A user with this username already exists."]}`},
		{"plain text", "Service Unavailable", "text/plain", "Service Unavailable", "Service Unavailable"},
		{"html falls back to status text", "<html><body>502</body></html>", "text/html; charset=utf-8", "Bad Gateway", "Bad Gateway"},
		{"empty body", "", "", "Not Found", "Not Found"},
		{"json null", "null", "application/json", "Gone", "null"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDetail([]byte(tt.body), tt.contentType, tt.statusText)
			if got != tt.want {
				t.Fatalf("ExtractDetail(%q) = %q, want %q", tt.body, got, tt.want)
			}
		})
	}
}

func TestNewErrorMessage(t *testing.T) {
	err := NewError(404, "https://example.com/api/x/", "")
	if err.Error() != "HTTP error 404" {
		t.Fatalf("Error() = %q, want HTTP error 404", err.Error())
	}
	err = NewError(400, "u", "bad")
	if err.Error() != "HTTP error 400: bad" {
		t.Fatalf("Error() = %q, want HTTP error 400: bad", err.Error())
	}
}

func TestStatusOf_Wrapped(t *testing.T) {
	wrapped := fmt.Errorf("load recipes: %w", NewError(404, "u", ""))
	if !IsNotFound(wrapped) {
		t.Fatalf("IsNotFound(wrapped) = false, want true")
	}
	if IsUnauthorized(wrapped) {
		t.Fatalf("IsUnauthorized(wrapped) = true, want false")
	}
	if _, ok := StatusOf(fmt.Errorf("plain")); ok {
		t.Fatalf("StatusOf(plain) ok = true")
	}
}
