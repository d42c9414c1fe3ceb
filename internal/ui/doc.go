// Package ui provides the terminal interface for the reel client.
//
// # Architecture Overview
//
// The UI is a single Bubble Tea model. Backend work runs in tea.Cmds that
// call into the shared stores and the API client; results come back as
// messages and are applied on the UI goroutine.
//
// # Package Structure
//
//   - app.go: Model, Update dispatch, view entry and Run
//   - layout.go: header, command bar and the bordered content box
//   - commands.go: message types and the commands that produce them
//   - auth.go: login, sign up and the three-step password reset
//   - home.go, search.go, mood.go, tinder.go, watchlist.go, detail.go,
//     profile.go, logs.go: one file per view
//   - list.go, forms.go, modal.go, help.go: shared widgets
//   - theme.go, style_helpers.go: palettes and background-aware rendering
//
// # Navigation
//
// Views are entries in a nav.Router. Every arrival at an entry goes through
// enter, which takes the entry's payload once, arms the scroll restorer and
// starts whatever the view needs. Fetch results carry the mount counter
// they were issued under; a result that arrives after the user moved on is
// ignored by the view while the store keeps the data.
//
// Protected views redirect to login when there is no session. A 401 or 403
// from any request expires the session, which is delivered to the program
// as sessionExpiredMsg and drops all history.
//
// # Keyboard
//
// Global keys switch views when signed in: H home, / search, m mood,
// t swipe deck, w watchlist, p profile, L client log. Text inputs take
// every key while focused; esc leaves them.
package ui
