package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/five82/pocketspice/internal/httpclient"
)

// ProbeResult reports whether a backend endpoint answered as expected.
type ProbeResult struct {
	OK      bool   `json:"ok"`
	Message string `json:"message"`
	URL     string `json:"url"`
	Status  int    `json:"status,omitempty"`
}

// CheckBackend GETs /recipes/ without credentials. Any 2xx is a pass.
func CheckBackend(ctx context.Context, baseURL string, opts ...httpclient.Option) ProbeResult {
	hc, err := httpclient.New(baseURL, nil, opts...)
	if err != nil {
		return ProbeResult{Message: err.Error(), URL: baseURL}
	}
	url := hc.BaseURL() + "/recipes/"

	err = hc.Get(ctx, "/recipes/", nil, nil)
	if err == nil {
		return ProbeResult{OK: true, Message: "Backend is reachable!", URL: url}
	}
	status, ok := httpclient.StatusOf(err)
	if !ok {
		return ProbeResult{Message: err.Error(), URL: url}
	}
	return ProbeResult{
		Message: fmt.Sprintf("Backend responded with status: %d", status),
		URL:     url,
		Status:  status,
	}
}

// CheckAuthEndpoint POSTs throwaway credentials to /auth/register/. A 400
// validation error proves the route exists; a 404 means the backend was
// deployed without auth routes.
func CheckAuthEndpoint(ctx context.Context, baseURL string, opts ...httpclient.Option) ProbeResult {
	hc, err := httpclient.New(baseURL, nil, opts...)
	if err != nil {
		return ProbeResult{Message: err.Error(), URL: baseURL}
	}
	url := hc.BaseURL() + "/auth/register/"

	body := map[string]string{
		"username":         "test",
		"password":         "test",
		"password_confirm": "test",
	}
	err = hc.Post(ctx, "/auth/register/", body, nil)
	if err == nil {
		return ProbeResult{OK: true, Message: "Auth endpoint responded with success", URL: url}
	}
	status, ok := httpclient.StatusOf(err)
	if !ok {
		return ProbeResult{Message: err.Error(), URL: url}
	}
	switch status {
	case http.StatusNotFound:
		return ProbeResult{
			Message: "Auth endpoint not found (404). Backend may not be deployed with auth routes.",
			URL:     url,
			Status:  status,
		}
	case http.StatusBadRequest:
		return ProbeResult{
			OK:      true,
			Message: "Auth endpoint exists! (Got 400 validation error, which is expected)",
			URL:     url,
			Status:  status,
		}
	default:
		return ProbeResult{
			Message: fmt.Sprintf("Auth endpoint responded with status: %d", status),
			URL:     url,
			Status:  status,
		}
	}
}
