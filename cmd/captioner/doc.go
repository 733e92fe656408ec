// Package main hosts the captioner CLI.
//
// The Cobra command tree is a thin layer over internal/transcripts: it
// resolves configuration once, builds the logger, and maps errors to exit
// codes via services.ExitCode (1 failure, 2 invalid input, 3 not found).
// Offline commands (detect, parse, page) work on local caption files and
// never touch the network.
package main
