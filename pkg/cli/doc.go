// Package cli provides the command-line interface for mockconf.
//
//   - serve: load a configuration file and run the mock server
//   - validate: check a configuration file without starting the server
//   - version: show version information
//
// Configuration is layered: built-in defaults, the file's server section,
// MOCKCONF_* environment variables, then command-line flags.
package cli
