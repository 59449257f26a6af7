// Package cmd implements the vgraph command-line tool. It converts JSON and
// YAML documents into persisted value graphs and back.
//
// The package is organized into several subpackages:
//
//   - pack: Converts a JSON or YAML document into a value graph file
//   - dump: Loads a value graph file and prints it as text, JSON or YAML
//   - inspect: Prints the arena structure and statistics of a value graph file
//   - util: Shared utilities for command-line processing and configuration (internal use)
//
// All flags can also be set via environment variables in the format
// VGRAPH_<flag> (e.g. VGRAPH_LOG_LEVEL=debug), optionally from a .env file.
//
// See vgraph -help for a list of all commands.
package cmd
