// Package ui is the terminal front end for pocketspice, built on Bubble Tea.
//
// # Layout
//
// The screen is a header (backend, signed-in user, freshness), a command bar
// with key hints for the active view, the view itself and a status line. The
// status line shows the text session.UserMessage produces for the last
// failure, so HTTP statuses never reach the user raw.
//
// # Views
//
//   - List: one page of recipes for the current listing (all, title search or
//     category), with a preview pane on wide terminals
//   - Detail: the full recipe in a scrollable viewport
//   - Match: the ingredient matcher's pick and its justification
//
// Search, category, match and login are modal dialogs (see modal.go). Every
// request runs as a tea.Cmd against state.Store or session.Manager and comes
// back as a message, so Update never blocks.
//
// # Refresh
//
// A tick re-reads the store every Options.Tick. The background poller in the
// app package keeps the store current; the UI only renders it.
//
// # Preferences
//
// Theme (T) and page size (+/-) are written to prefs.toml as they change.
package ui
