// Package server holds the HTTP server configuration and constants.
//
// The Config struct defines the HTTP port, the API key and the default name
// language of lookup responses. The start command validates it before the
// Fiber app is built.
package server
