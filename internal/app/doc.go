// Package app contains the core application logic: it loads the
// configuration, builds every dataset, and answers expansion requests
// against the canonical scope chain. It is decoupled from any specific
// entrypoint like a CLI.
package app
