package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sort"
	"strings"

	"github.com/five82/pocketspice/internal/httpclient"
)

// Op names the operation an error came from, which changes how 401 and 404
// read to the user.
type Op string

const (
	OpLogin    Op = "login"
	OpRegister Op = "register"
	OpLogout   Op = "logout"
	OpLoad     Op = "load"
	OpCreate   Op = "create"
	OpMatch    Op = "match"
)

const (
	msgInvalidCredentials = "Invalid username or password."
	msgLoginUnavailable   = "Login service is unavailable (404). Please check the backend API URL and deployment."
	msgRegisterInvalid    = "Please check your details and try again."
	msgRegisterMissing    = "Sign up is currently unavailable (signup endpoint not found – 404). Please ensure the backend is deployed with authentication routes."
	msgSessionEnded       = "Your session has ended. Please log in again."
	msgNotAvailable       = "That endpoint is unavailable (404). Please check the backend API URL."
	msgUnreachable        = "Unable to reach the recipe service. Please check your connection and try again."
	msgTimeout            = "The recipe service took too long to respond. Please try again."
	msgCanceled           = "Request cancelled."
)

// UserMessage maps err to text fit for the status line. 401 means bad
// credentials for login and an ended session elsewhere, 404 means the
// endpoint is unavailable, and anything else shows the server's detail.
func UserMessage(op Op, err error) string {
	if err == nil {
		return ""
	}
	var authErr *AuthError
	if errors.As(err, &authErr) && authErr.Op == op {
		return authErr.Message
	}

	var httpErr *httpclient.Error
	if !errors.As(err, &httpErr) {
		return transportMessage(err)
	}

	switch httpErr.Status {
	case http.StatusUnauthorized:
		if op == OpLogin {
			return msgInvalidCredentials
		}
		return msgSessionEnded
	case http.StatusNotFound:
		switch op {
		case OpLogin:
			return msgLoginUnavailable
		case OpRegister:
			return msgRegisterMissing
		case OpLoad:
			if detail := strings.TrimSpace(httpErr.Detail); detail != "" && detail != "Not Found" {
				return detail
			}
		}
		return msgNotAvailable
	case http.StatusBadRequest:
		if op == OpRegister {
			if detail := humanizeDetail(httpErr.Detail); detail != "" {
				return detail
			}
			return msgRegisterInvalid
		}
	}

	if detail := humanizeDetail(httpErr.Detail); detail != "" {
		return detail
	}
	return httpErr.Message
}

func transportMessage(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return msgCanceled
	case errors.Is(err, context.DeadlineExceeded):
		return msgTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return msgTimeout
		}
		return msgUnreachable
	}
	return err.Error()
}

// humanizeDetail turns DRF-style field errors ({"field": ["msg"]}) into
// "field: msg" lines. Anything else is returned trimmed.
func humanizeDetail(detail string) string {
	detail = strings.TrimSpace(detail)
	if !strings.HasPrefix(detail, "{") {
		return detail
	}
	var fields map[string]any
	if err := json.Unmarshal([]byte(detail), &fields); err != nil || len(fields) == 0 {
		return detail
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		var parts []string
		switch v := fields[k].(type) {
		case string:
			parts = append(parts, v)
		case []any:
			for _, item := range v {
				parts = append(parts, fmt.Sprint(item))
			}
		default:
			parts = append(parts, fmt.Sprint(v))
		}
		text := strings.Join(parts, " ")
		if k == "non_field_errors" {
			lines = append(lines, text)
			continue
		}
		lines = append(lines, k+": "+text)
	}
	return strings.Join(lines, "\n")
}
