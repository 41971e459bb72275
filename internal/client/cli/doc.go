// Package cli implements the interactive HomeCloud terminal client.
//
// The entry point is App: it owns the session guard, the file registry
// view and the chat sync loop, and drives them from a small REPL. Command
// handlers are methods on App; interactive input goes through the helpers
// in input.go, which carry test seams so flows can be exercised without a
// terminal.
package cli
