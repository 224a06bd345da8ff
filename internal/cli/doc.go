// Package cli is the command-line front-end: it builds the cobra command
// tree, translates flags into the application's configuration, and maps
// failures to process exit codes.
package cli
