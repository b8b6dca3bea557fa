// Package session holds the signed-in user and drives the token lifecycle
// around login, registration and logout.
//
// The access token lives in the spice.API implementation (and through it the
// keystore); Manager only adds the refresh token and the user record. A token
// the backend rejects during Initialize or CheckAuth is cleared silently.
//
// UserMessage is the single place where errors become user-facing text. Both
// the TUI status line and the CLI print through it.
package session
