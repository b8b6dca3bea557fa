package httpclient

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is returned for every non-2xx response.
type Error struct {
	Message string
	Status  int
	URL     string
	Detail  string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds the error returned for a non-2xx response.
func NewError(status int, url, detail string) *Error {
	msg := fmt.Sprintf("HTTP error %d", status)
	if detail != "" {
		msg += ": " + detail
	}
	return &Error{Message: msg, Status: status, URL: url, Detail: detail}
}

// StatusOf returns the HTTP status carried by err, if any. Transport and
// decode failures have no status.
func StatusOf(err error) (int, bool) {
	var httpErr *Error
	if errors.As(err, &httpErr) {
		return httpErr.Status, true
	}
	return 0, false
}

// IsUnauthorized reports whether err is a 401 response.
func IsUnauthorized(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusUnauthorized
}

// IsNotFound reports whether err is a 404 response.
func IsNotFound(err error) bool {
	status, ok := StatusOf(err)
	return ok && status == http.StatusNotFound
}

// ExtractDetail picks a human-readable detail out of an error response. It
// tries, in order: a JSON "detail" field, a JSON "error" field, a bare JSON
// string, the whole JSON document, the raw text body (unless it is HTML) and
// finally statusText.
func ExtractDetail(body []byte, contentType, statusText string) string {
	if detail, ok := detailFromJSON(body); ok {
		return detail
	}
	if text := strings.TrimSpace(string(body)); text != "" && !isHTML(contentType) {
		return text
	}
	return strings.TrimSpace(statusText)
}

func detailFromJSON(body []byte) (string, bool) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return "", false
	}
	var doc any
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return "", false
	}
	switch v := doc.(type) {
	case nil:
		return "", false
	case string:
		if strings.TrimSpace(v) == "" {
			return "", false
		}
		return v, true
	case map[string]any:
		if detail, ok := fieldText(v, "detail"); ok {
			return detail, true
		}
		if detail, ok := fieldText(v, "error"); ok {
			return detail, true
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, trimmed); err != nil {
		return string(trimmed), true
	}
	return buf.String(), true
}

func fieldText(doc map[string]any, key string) (string, bool) {
	raw, ok := doc[key]
	if !ok || raw == nil {
		return "", false
	}
	if s, ok := raw.(string); ok {
		if strings.TrimSpace(s) == "" {
			return "", false
		}
		return s, true
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return "", false
	}
	return string(data), true
}

func isHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "text/html")
}
