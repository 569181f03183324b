// Package dump exports the full store to a standalone SQLite file, either
// served as a download or published to object storage.
package dump
