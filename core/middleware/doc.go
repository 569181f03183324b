// Package middleware groups the Fiber middleware used by the API server:
// rayid for request correlation and auth for API key protection.
package middleware
