// Package server holds the HTTP server configuration.
//
// While the serve command handles the server startup, this package defines the
// configuration structure: listen port, API key and the optional interval at
// which the server triggers sync runs on its own.
//
// # Usage
//
// This package is primarily used by the core/config package to embed server settings.
package server
