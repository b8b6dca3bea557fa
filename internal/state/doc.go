// Package state holds the recipe browsing state shared between background
// loads and the UI.
//
// # Overview
//
// Store keeps the current listing (all recipes, a search or a category), the
// page of results, the recipe being viewed and the last ingredient match. UI
// commands call Load, LoadDetail or LoadMatch from tea.Cmd goroutines; the
// view reads Snapshot on every render.
//
// # Thread Safety
//
// All Store methods are safe for concurrent use. Snapshot returns deep copies
// of slices and pointers so callers can mutate what they get back.
//
// # Failure Tracking
//
// A failed load keeps the previous data and increments ConsecutiveFailures.
// IsOffline reports two or more failures in a row; any success resets the
// counter.
package state
