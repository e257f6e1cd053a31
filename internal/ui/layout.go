package ui

import "time"

// Terminal width thresholds for responsive layouts.
const (
	// LayoutCompactWidth is the threshold below which compact mode is used.
	LayoutCompactWidth = 100

	// LayoutWideWidth is the minimum width to show the genre and year columns
	// at full size.
	LayoutWideWidth = 140
)

// Grid card geometry.
const (
	gridCardWidth  = 30
	gridCardHeight = 6
)

// Timing constants.
const (
	// DefaultUIInterval is how often the UI re-reads the cache snapshot.
	DefaultUIInterval = time.Second

	// ToastDuration is how long a notification stays on screen.
	ToastDuration = 4 * time.Second

	// LoadTimeout bounds how long a UI-initiated read waits for the cache.
	// The fetch itself continues after the wait gives up.
	LoadTimeout = 10 * time.Second
)

// Form geometry.
const (
	formWidth      = 60
	formInputWidth = 40
)
