// Package keystore provides the durable key-value store that mirrors the
// session tokens across process restarts.
//
// FileStore keeps a single TOML file (default
// ~/.config/pocketspice/session.toml) with a [values] table. Writes replace the
// file atomically through a temp file and rename, so a crash never leaves a
// half-written session. MemoryStore is the in-process variant used by tests and
// by --ephemeral runs.
//
// The store is passive: the HTTP client owns the token and only mirrors it
// here.
package keystore
