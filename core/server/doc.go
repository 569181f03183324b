// Package server holds configuration for the HTTP API surface.
package server
