package spice

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/pocketspice/internal/config"
	"github.com/five82/pocketspice/internal/httpclient"
	"github.com/five82/pocketspice/internal/keystore"
)

// mockLatency keeps the offline mode from feeling instantaneous in the TUI.
const mockLatency = 300 * time.Millisecond

// New returns the mock backend when cfg.UseMock is set and an HTTP client for
// cfg.APIBaseURL otherwise. Both share store for the access token.
func New(cfg config.Config, store keystore.Store, logger zerolog.Logger) (API, error) {
	if cfg.UseMock {
		logger.Info().Msg("using mock recipe backend")
		return NewMock(store, WithLatency(mockLatency), WithMockLogger(logger)), nil
	}
	hc, err := httpclient.New(cfg.APIBaseURL, store,
		httpclient.WithLogger(logger),
		httpclient.WithTimeout(cfg.Timeout),
		httpclient.WithRateLimit(cfg.RateLimit, cfg.RateBurst),
	)
	if err != nil {
		return nil, fmt.Errorf("create http client: %w", err)
	}
	return NewClient(hc), nil
}
