// Package ui implements the listkeeper terminal dashboard using Bubble Tea.
//
// The dashboard shows one tab per list (contacts, products, shopping). Each
// tab is a Screen backed by a liststate.Manager; the UI never touches records
// directly, it only turns key presses into manager operations and renders the
// manager's snapshot.
//
// # Event loop
//
// Model follows the Elm architecture: Update is the only writer of UI state.
// Operations that may reach a remote store run as tea.Cmd functions and
// report back through opResultMsg, so the loop never blocks on the network.
// While a tab has an operation in flight its write keys answer with the
// "still syncing" notice and the header shows a spinner.
//
// # Overlays
//
//   - form.go: add/edit modal with one text input per field, and the delete
//     confirmation dialog
//   - help.go: keyboard shortcut overlay
//
// Every failure and success ends up on the single notification line at the
// bottom of the screen (inside the form while it is open). describeError maps
// validation, not-found, busy and remote errors to that text.
//
// # Themes
//
// Nightfox, Kanagawa and Slate are available; T cycles them and the choice is
// saved through the prefs package together with the last active tab.
package ui
