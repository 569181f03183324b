// Package storage provides the S3-compatible object storage client used to
// publish SQLite dump artifacts. The Client interface is intentionally small
// so tests can mock it.
package storage
