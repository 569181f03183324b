// Package utils contains type coercion helpers for the loosely typed
// attribute maps returned by the external register's WFS endpoint.
package utils
