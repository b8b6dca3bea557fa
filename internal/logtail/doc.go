// Package logtail reads the tail of the pocketspice log file and renders it
// for humans.
//
// Read uses a ring buffer so only the last maxLines are kept in memory,
// regardless of file size. Render passes each JSON event through
// zerolog.ConsoleWriter, matching what CLI commands print to stderr.
//
// Read returns nil, nil for a missing file. Other I/O errors are wrapped.
package logtail
