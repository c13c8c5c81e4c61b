package ui

import "time"

// Modal dimensions.
const (
	// ModalWidth is the width of the form, confirm and help dialogs.
	ModalWidth = 56

	// FormInputWidth is the visible width of a form text input.
	FormInputWidth = 32
)

// ActivityLines is how many log lines the activity view reads.
const ActivityLines = 200

// Timing constants.
const (
	// NoticeTTL is how long a notification stays on screen.
	NoticeTTL = 4 * time.Second
)
