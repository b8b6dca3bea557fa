// Package logging builds the zerolog loggers used across pocketspice.
//
// The TUI owns the terminal, so events go to a JSON log file that
// `pocketspice logs` can tail. CLI commands may additionally mirror events to
// stderr through zerolog.ConsoleWriter.
package logging
