package app

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/pocketspice/internal/spice"
	"github.com/five82/pocketspice/internal/state"
)

const defaultRefreshInterval = time.Minute

// StartPoller launches a background goroutine that reloads the current
// listing at a fixed cadence. It returns immediately.
func StartPoller(ctx context.Context, store *state.Store, api spice.API, interval time.Duration, logger zerolog.Logger) {
	if interval <= 0 {
		interval = defaultRefreshInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			refresh(ctx, store, api, logger)
		}
	}()
}

func refresh(ctx context.Context, store *state.Store, api spice.API, logger zerolog.Logger) {
	snap := store.Snapshot()
	if snap.Loading || !snap.HasPage {
		return
	}
	page, err := state.Fetch(ctx, api, snap.Listing)
	if err != nil {
		store.Fail(err)
		logger.Warn().Err(err).Str("listing", snap.Listing.Title()).Msg("listing refresh failed")
		return
	}
	// a user navigation may have replaced the listing while we fetched
	if store.Snapshot().Listing != snap.Listing {
		return
	}
	store.UpdatePage(snap.Listing, page)
}
