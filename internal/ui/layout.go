package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutSplitWidth is the minimum width to show the preview pane next to
	// the recipe list.
	LayoutSplitWidth = 120

	// LayoutExtraWideWidth is the threshold for extra-wide layouts.
	LayoutExtraWideWidth = 160
)

// Paging limits, mirroring what the backend accepts.
const (
	MinPageSize  = 1
	MaxPageSize  = 100
	PageSizeStep = 5
)

// Timing constants.
const (
	// RequestTimeout bounds a single UI-initiated request.
	RequestTimeout = 30 * time.Second

	// DefaultUIInterval is the default UI refresh interval.
	DefaultUIInterval = time.Second
)
