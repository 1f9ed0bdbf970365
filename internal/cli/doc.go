// Package cli wires together the Cobra command tree for the gitlog binary.
//
// It defines the root command and its subcommands (log, projects, config,
// version), binds flags, reads configuration, sets up logging, runs the
// emitter against the repositories directory, and turns the outcome into a
// stable process exit code.
package cli
