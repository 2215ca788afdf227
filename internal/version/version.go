// Package version contains information on the current version of the program.
// It is split from the main program for easy use.
package version

// Current is the string representing the current version of the synparse
// module as a whole (engine, grammar format, and CLI).
const Current = "0.1.0"

// ServerCurrent is the string representing the current version of the
// grammar server's API, reported by the info endpoint and the server CLI's
// --version flag. It is tracked separately from Current since the wire
// protocol can change independently of the engine's internal version.
const ServerCurrent = "0.1.0"
